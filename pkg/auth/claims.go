package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the subset of the backend's JWT payload the client
// cares about. The client never verifies the signature (it holds no secret);
// claims are informational only.
type AccessTokenClaims struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
