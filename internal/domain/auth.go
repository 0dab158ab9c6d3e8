package domain

// Actor is the authenticated identity performing an operation.
// A nil *Actor stands for an anonymous caller.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
