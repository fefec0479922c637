// internal/domain/models/identity.go
package models

// Identity is the authenticated user bound to a request. Handlers resolve it
// from the session and pass it explicitly into service calls.
type Identity struct {
	ID       string
	Username string
}

// IsZero reports whether no identity is set.
func (i Identity) IsZero() bool {
	return i.ID == ""
}
