package domain

// ScopeKind distinguishes the collections held by the resource cache.
type ScopeKind string

const (
	// ScopeOwner addresses the containers owned by one user: the dashboard list
	// and the lazily loaded child rows of the admin users view.
	ScopeOwner ScopeKind = "owner"
)

// ScopeKey addresses one cached collection.
type ScopeKey struct {
	Kind ScopeKind
	ID   string
}

// OwnerScope returns the scope holding the containers of userID.
func OwnerScope(userID string) ScopeKey {
	return ScopeKey{Kind: ScopeOwner, ID: userID}
}

func (k ScopeKey) String() string {
	return string(k.Kind) + ":" + k.ID
}
