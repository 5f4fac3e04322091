package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/gymgraph/internal/domain"
)

// TokenHeader is the header clients put their token in
const TokenHeader = "token"

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid or expired token")
)

// TokenAuth verifies the request token as an HS256 JWT signed with secret.
// An empty secret disables verification and the header is ignored.
// With required=false an absent token is let through anonymously, but a
// present and invalid one is still rejected.
func TokenAuth(secret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			if required {
				return unauthenticated(c, errMissingToken)
			}
			return c.Next()
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			return unauthenticated(c, errInvalidToken)
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// ParseToken validates tokenString and returns its claims
func ParseToken(tokenString, secret string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.TokenClaims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// ClaimsFrom returns verified claims, or nil for anonymous requests
func ClaimsFrom(c *fiber.Ctx) *domain.TokenClaims {
	claims, _ := c.Locals(ClaimsKey).(*domain.TokenClaims)
	return claims
}

// tokenFromRequest reads the token header, falling back to "Authorization: Bearer <token>"
func tokenFromRequest(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(TokenHeader)); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// unauthenticated answers in GraphQL error shape so clients need one error path
func unauthenticated(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"errors": []fiber.Map{{
			"message":    err.Error(),
			"extensions": fiber.Map{"code": "UNAUTHENTICATED"},
		}},
	})
}
