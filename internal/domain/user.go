package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleSales   Role = "sales"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleSales:
		return true
	}
	return false
}

// User is an account of the education center: staff or student.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Name         string
	Phone        *string
	CreatedAt    time.Time
}

// UserUpdate carries the roster fields an admin may change.
type UserUpdate struct {
	Email    Optional[string]
	Role     Optional[Role]
	Name     Optional[string]
	Phone    Optional[*string]
	Password Optional[string]
}

// IsEmpty reports whether no field was supplied.
func (u UserUpdate) IsEmpty() bool {
	return !u.Email.IsSet() && !u.Role.IsSet() && !u.Name.IsSet() && !u.Phone.IsSet() && !u.Password.IsSet()
}
