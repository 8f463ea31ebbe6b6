package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const claimsKey = "auth_claims"

// AuthMiddleware validates bearer tokens and stores the verified claims.
type AuthMiddleware struct {
	authenticator *Authenticator
	authorizer    *Authorizer
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authenticator *Authenticator, authorizer *Authorizer) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator, authorizer: authorizer}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	claims, err := m.authenticator.Authenticate(token)
	if err != nil {
		decision := m.authorizer.DecisionFromError(err)
		return apperrors.NewDomainError("UNAUTHORIZED", unauthorizedMessage(err), fiber.StatusUnauthorized,
			map[string]any{"reason": string(decision.Reason)})
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// BearerToken strips the "Bearer" scheme from an Authorization header value.
// An absent header yields an empty token, which Authenticate rejects.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// ClaimsFromContext retrieves the verified claims of the caller.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "authorization header missing"
	case errors.Is(err, ErrTokenExpired):
		return "token expired"
	default:
		return "invalid token"
	}
}
