package domain

// ErrorKind is the stable taxonomy user-facing failures are mapped to.
type ErrorKind string

const (
	ErrorKindConflict           ErrorKind = "Conflict"
	ErrorKindImageNotFound      ErrorKind = "ImageNotFound"
	ErrorKindPullAccessDenied   ErrorKind = "PullAccessDenied"
	ErrorKindNetworkUnavailable ErrorKind = "NetworkUnavailable"
	ErrorKindPermissionDenied   ErrorKind = "PermissionDenied"
	ErrorKindUnknown            ErrorKind = "Unknown"
	ErrorKindAlreadyLocked      ErrorKind = "AlreadyLocked"
	ErrorKindMalformedFrame     ErrorKind = "MalformedFrame"
)

// ClassifiedError is a raw failure mapped onto the taxonomy with a human readable message.
type ClassifiedError struct {
	Kind        ErrorKind
	UserMessage string
	RawMessage  string
}

// Error implements the error interface with the user facing message.
func (e ClassifiedError) Error() string {
	return e.UserMessage
}

// Bannered reports whether the error should be shown as a dismissible banner.
// Lock rejections only disable the triggering control.
func (e ClassifiedError) Bannered() bool {
	return e.Kind != ErrorKindAlreadyLocked
}

// WithPrefix returns a copy whose user message is prefixed, e.g. "Failed to start container: ".
func (e ClassifiedError) WithPrefix(prefix string) ClassifiedError {
	e.UserMessage = prefix + e.UserMessage
	return e
}
