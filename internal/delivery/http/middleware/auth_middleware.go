package middleware

import (
	"slices"
	"strings"

	"passport/internal/delivery/http/response"
	"passport/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyAccountID = "accountID"
	ContextKeyRoles     = "roles"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(c.Request().Context(), tokenString)
		if err != nil {
			return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "invalid or expired token")
		}

		// A refresh token must never work as an access token.
		if claims.Type != service.TokenTypeAccess {
			return response.Unauthorized(c, "AUTHENTICATION_REQUIRED", "token is not an access token")
		}

		// Set account info on the context for handlers to use
		c.Set(ContextKeyAccountID, claims.AccountID)
		c.Set(ContextKeyRoles, claims.Roles)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the caller's token
// carries a specific role. It must be used AFTER the Authenticate middleware.
// Token roles are advisory; admin use cases re-check the store before acting.
func (m *AuthMiddleware) RequireRole(requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rolesVal := c.Get(ContextKeyRoles)
			roles, ok := rolesVal.([]string)
			if !ok || !slices.Contains(roles, requiredRole) {
				return response.Forbidden(c, "FORBIDDEN", "permission denied: require '"+requiredRole+"' role")
			}

			return next(c)
		}
	}
}
