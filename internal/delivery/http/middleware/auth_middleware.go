package middleware

import (
	"strings"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// ContextKeyUserID is the echo.Context key handlers read the caller's user
// id from after authentication.
const ContextKeyUserID = "userID"

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the JWT access token and rejects requests without
// a valid one.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "UNAUTHORIZED", "missing or malformed Authorization header")
		}

		userID, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "invalid or expired token")
		}

		c.Set(ContextKeyUserID, userID)

		return next(c)
	}
}

// AuthenticateOptional validates the access token when one is presented but
// lets the request through as a guest otherwise. Cart routes use this: the
// same endpoint serves logged-in users and session-keyed guests.
//
// A presented-but-invalid token is still rejected. Silently downgrading a
// user who believes they are logged in to a guest would route their writes
// to the wrong cart.
func (m *AuthMiddleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			return next(c)
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "UNAUTHORIZED", "malformed Authorization header")
		}

		userID, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "invalid or expired token")
		}

		c.Set(ContextKeyUserID, userID)

		return next(c)
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", false
	}

	return tokenString, true
}
