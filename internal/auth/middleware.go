package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-tracker/internal/domain"
	"github.com/spec-kit/complaint-tracker/internal/repository"
	apperrors "github.com/spec-kit/complaint-tracker/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. The token is treated as
// identity-only: Role mirrors the claim for optimistic use, authorization
// decisions re-read the user record.
type Principal struct {
	UserID string
	Role   domain.Role
}

// Middleware validates session cookies and gates admin routes.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Authenticate enforces a valid session cookie for protected routes.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	token := c.Cookies(CookieName)
	if token == "" {
		return apperrors.NewUnauthenticated("not authenticated")
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return apperrors.NewUnauthenticated("invalid or expired session")
	}

	c.Locals(principalKey, &Principal{UserID: claims.UserID, Role: claims.Role})
	return c.Next()
}

// RequireAdmin re-checks the caller's role against the credential store so
// a role downgrade takes effect without waiting for token expiry.
func (m *Middleware) RequireAdmin(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("not authenticated")
	}

	user, err := m.users.GetByID(c.Context(), principal.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewForbidden("not authorized")
		}
		return apperrors.MapError(err)
	}
	if user.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("not authorized")
	}
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
