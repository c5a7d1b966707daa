package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pb2jamz/Signal-Sorter/common/errors"
	"github.com/pb2jamz/Signal-Sorter/pkg/httputil"
)

// TokenClaims represents the JWT claims structure issued by the auth service
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"uid"`
	Email     string    `json:"email"`
	TokenType string    `json:"type"` // "access" or "refresh"
}

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	JWTSecret string
	SkipPaths []string
}

// Auth creates a JWT authentication middleware. Tokens are issued by the
// external auth service; this middleware only validates access tokens.
func Auth(config AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		for _, skipPath := range config.SkipPaths {
			if strings.HasPrefix(path, skipPath) {
				return c.Next()
			}
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return httputil.Unauthorized(c, "missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return httputil.Unauthorized(c, "invalid authorization header format")
		}

		claims, err := validateToken(parts[1], config.JWTSecret)
		if err != nil {
			return httputil.Error(c, err)
		}

		if claims.TokenType != "access" {
			return httputil.Unauthorized(c, "invalid token type")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// validateToken parses and validates a JWT token
func validateToken(tokenString, secret string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.ErrInvalidToken
	}

	return claims, nil
}

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.ErrUnauthorized
	}
	return userID, nil
}
