package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/orta-study/crm-backend/internal/domain"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// UserLookup loads the account behind a token subject.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads the acting user.
type AuthMiddleware struct {
	tokens *TokenManager
	users  UserLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
// The role is read from the stored account, so a demoted user loses access
// before their token expires.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.NewStoreFailure(err)
	}

	c.Locals(principalKey, &domain.Actor{ID: user.ID, Role: user.Role})
	return c.Next()
}

// ActorFromContext retrieves the authenticated actor, or nil for anonymous callers.
func ActorFromContext(c *fiber.Ctx) *domain.Actor {
	actor, _ := c.Locals(principalKey).(*domain.Actor)
	return actor
}

// WithActor stores an actor on the request; used by tests and internal routes.
func WithActor(c *fiber.Ctx, actor *domain.Actor) {
	c.Locals(principalKey, actor)
}
