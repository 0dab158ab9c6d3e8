package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/orta-study/crm-backend/internal/auth"
	"github.com/orta-study/crm-backend/internal/domain"
	"github.com/orta-study/crm-backend/internal/repository"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

// DirectoryInvalidator drops cached presentation data for a user.
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// UserService manages the admin roster.
type UserService struct {
	users      repository.UserRepository
	directory  DirectoryInvalidator
	bcryptCost int
}

// UserCreateInput describes an account created by an admin.
type UserCreateInput struct {
	Email    string
	Password string
	Role     domain.Role
	Name     string
	Phone    *string
}

// NewUserService constructs the service. directory may be nil.
func NewUserService(users repository.UserRepository, directory DirectoryInvalidator, bcryptCost int) *UserService {
	return &UserService{users: users, directory: directory, bcryptCost: bcryptCost}
}

// ListUsers returns accounts newest first, optionally of one role.
func (s *UserService) ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	if role != nil && !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(*role)})
	}
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, apperrors.NewStoreFailure(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// CreateUser adds an account with any role.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || input.Password == "" || input.Role == "" || name == "" {
		return nil, apperrors.NewValidationError("email, password, role and name are required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(input.Role)})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Name:         name,
		Phone:        optionalText(input.Phone),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("user with this email already exists", map[string]any{"email": email})
		}
		return nil, apperrors.NewStoreFailure(fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

// UpdateUser applies the supplied roster fields.
func (s *UserService) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	if !isUUID(id) {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
	}
	if update.IsEmpty() {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}
	if role, ok := update.Role.Get(); ok && !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(role)})
	}
	if email, ok := update.Email.Get(); ok {
		if strings.TrimSpace(email) == "" {
			return nil, apperrors.NewValidationError("email must not be empty", nil)
		}
		update.Email = domain.Some(strings.TrimSpace(email))
	}
	if name, ok := update.Name.Get(); ok {
		if strings.TrimSpace(name) == "" {
			return nil, apperrors.NewValidationError("name must not be empty", nil)
		}
		update.Name = domain.Some(strings.TrimSpace(name))
	}
	if phone, ok := update.Phone.Get(); ok {
		update.Phone = domain.Some(optionalText(phone))
	}
	if password, ok := update.Password.Get(); ok {
		if password == "" {
			return nil, apperrors.NewValidationError("password must not be empty", nil)
		}
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		update.Password = domain.Some(hash)
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewConflict("user with this email already exists", nil)
		}
		return nil, apperrors.NewStoreFailure(fmt.Errorf("update user %s: %w", id, err))
	}
	if update.Name.IsSet() {
		s.invalidate(ctx, id)
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot remove themselves.
// Leads assigned to the removed user become unassigned.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.Actor, id string) error {
	if actor != nil && actor.ID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if !isUUID(id) {
		return apperrors.NewNotFound("user", map[string]any{"user_id": id})
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return apperrors.NewStoreFailure(fmt.Errorf("delete user %s: %w", id, err))
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.directory != nil {
		s.directory.Invalidate(ctx, id)
	}
}
