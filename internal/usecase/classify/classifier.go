// Package classify maps raw backend failures onto the console error taxonomy.
//
// Backend errors only carry free text, so classification is a prioritized list
// of substring rules. Order matters: a failed image pull answers with a 404
// whose text also contains "not found", and the more specific rule must win.
package classify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bnema/dockhand/internal/domain"
)

// BackendMessager is implemented by errors that carry the message field of a backend error body.
type BackendMessager interface {
	BackendMessage() string
}

type rule struct {
	kind    domain.ErrorKind
	matches func(raw string) bool
	message func(raw string) string
}

var (
	conflictNamePattern = regexp.MustCompile(`name "/([^"]+)"`)
	imageNamePattern    = regexp.MustCompile(`(?i)image[:\s]+([^\s:,]+)`)
	whitespacePattern   = regexp.MustCompile(`\s+`)

	// Prefixes are only boilerplate at the start of a message.
	daemonPrefixPattern = regexp.MustCompile(`(?i)^\s*Error response from daemon:\s*`)
	createPrefixPattern = regexp.MustCompile(`(?i)^\s*(cannot|failed to) create container:\s*`)
)

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{
		kind:    domain.ErrorKindConflict,
		matches: containsAny("already in use", "Conflict"),
		message: func(raw string) string {
			name := "this name"
			if m := conflictNamePattern.FindStringSubmatch(raw); m != nil {
				name = m[1]
			}
			return fmt.Sprintf("A container named %q already exists. Please choose a different name or delete the existing container first.", name)
		},
	},
	{
		kind:    domain.ErrorKindImageNotFound,
		matches: containsAny("No such image", "image not found"),
		message: func(raw string) string {
			image := "the image"
			if m := imageNamePattern.FindStringSubmatch(raw); m != nil {
				image = m[1]
			}
			return fmt.Sprintf("Docker image %q not found. Please check the image name and tag (e.g., nginx:latest).", image)
		},
	},
	{
		kind:    domain.ErrorKindPullAccessDenied,
		matches: containsAny("pull access denied", "not found"),
		message: constant("Cannot pull the Docker image. Please verify the image name is correct and publicly accessible."),
	},
	{
		kind:    domain.ErrorKindNetworkUnavailable,
		matches: containsAny("Network", "timeout", "ECONNREFUSED", "connection refused"),
		message: constant("Cannot connect to Docker. Please ensure Docker is running."),
	},
	{
		kind:    domain.ErrorKindPermissionDenied,
		matches: containsAny("permission denied", "access denied"),
		message: constant("Permission denied. Please check your Docker permissions."),
	},
}

// Classify maps err onto the taxonomy. Errors that are already classified pass through.
func Classify(err error) domain.ClassifiedError {
	if err == nil {
		return Message("")
	}

	var classified domain.ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	switch {
	case errors.Is(err, domain.ErrAlreadyLocked):
		return domain.ClassifiedError{
			Kind:        domain.ErrorKindAlreadyLocked,
			UserMessage: "Another action is already in progress for this container.",
			RawMessage:  err.Error(),
		}
	case errors.Is(err, domain.ErrMalformedFrame):
		return domain.ClassifiedError{
			Kind:        domain.ErrorKindMalformedFrame,
			UserMessage: "Failed to parse stats data",
			RawMessage:  err.Error(),
		}
	case errors.Is(err, context.DeadlineExceeded):
		return network(err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return network(err.Error())
	}

	var backend BackendMessager
	if errors.As(err, &backend) && backend.BackendMessage() != "" {
		return Message(backend.BackendMessage())
	}

	return Message(err.Error())
}

// Message classifies a raw backend message.
func Message(raw string) domain.ClassifiedError {
	for _, r := range rules {
		if r.matches(raw) {
			return domain.ClassifiedError{Kind: r.kind, UserMessage: r.message(raw), RawMessage: raw}
		}
	}
	return domain.ClassifiedError{
		Kind:        domain.ErrorKindUnknown,
		UserMessage: Clean(raw),
		RawMessage:  raw,
	}
}

// Clean strips known daemon boilerplate, collapses whitespace and capitalizes the first letter.
func Clean(raw string) string {
	msg := daemonPrefixPattern.ReplaceAllString(raw, "")
	msg = createPrefixPattern.ReplaceAllString(msg, "")
	msg = strings.TrimSpace(whitespacePattern.ReplaceAllString(msg, " "))
	if msg == "" {
		return "Unknown error"
	}

	first, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(first)) + msg[size:]
}

func network(raw string) domain.ClassifiedError {
	return domain.ClassifiedError{
		Kind:        domain.ErrorKindNetworkUnavailable,
		UserMessage: "Cannot connect to Docker. Please ensure Docker is running.",
		RawMessage:  raw,
	}
}

func containsAny(needles ...string) func(string) bool {
	return func(raw string) bool {
		for _, n := range needles {
			if strings.Contains(raw, n) {
				return true
			}
		}
		return false
	}
}

func constant(msg string) func(string) string {
	return func(string) string { return msg }
}
