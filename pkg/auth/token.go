package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ParseAccessToken decodes the JWT payload without signature verification.
// The server is the trust boundary; the client only needs the claims to
// schedule refreshes and show who is signed in.
func ParseAccessToken(tokenString string) (*AccessTokenClaims, error) {
	trimmed := strings.TrimSpace(tokenString)
	if trimmed == "" {
		return nil, fmt.Errorf("access token is empty")
	}

	claims := &AccessTokenClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(trimmed, claims); err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}
	return claims, nil
}

// ExpiresWithin reports whether the token expires inside the given leeway
// window. Tokens without an exp claim never report as expiring.
func (c *AccessTokenClaims) ExpiresWithin(now time.Time, leeway time.Duration) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now.Add(leeway))
}
