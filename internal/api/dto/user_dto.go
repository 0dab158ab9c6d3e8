package dto

import (
	"time"

	"github.com/orta-study/crm-backend/internal/domain"
)

// RegisterRequest payload for student self-registration.
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Phone     *string     `json:"phone"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Name:      user.Name,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

// CreateUserRequest is the admin roster create payload.
type CreateUserRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
}

// UpdateUserRequest is the admin roster patch payload.
type UpdateUserRequest struct {
	Email    *string        `json:"email"`
	Role     *string        `json:"role"`
	Name     *string        `json:"name"`
	Phone    NullableString `json:"phone"`
	Password *string        `json:"password"`
}

// ToDomain converts the request into a partial update.
func (r UpdateUserRequest) ToDomain() domain.UserUpdate {
	var update domain.UserUpdate
	if r.Email != nil {
		update.Email = domain.Some(*r.Email)
	}
	if r.Role != nil {
		update.Role = domain.Some(domain.Role(*r.Role))
	}
	if r.Name != nil {
		update.Name = domain.Some(*r.Name)
	}
	if r.Phone.Present {
		update.Phone = domain.Some(r.Phone.Value)
	}
	if r.Password != nil {
		update.Password = domain.Some(*r.Password)
	}
	return update
}
