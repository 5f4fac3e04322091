package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the JWT claims carried by the request token header
type TokenClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}
