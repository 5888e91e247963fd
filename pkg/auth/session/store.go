package session

import (
	"context"
	"sync"
	"time"

	"github.com/localmart/localmart-client/pkg/auth"
)

// Store holds the signed-in session's tokens in memory. The server cart is
// the durable copy of everything else; nothing here survives the process.
type Store struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	claims       *auth.AccessTokenClaims
}

func NewStore() *Store {
	return &Store{}
}

// SetTokens records the tokens returned by login or refresh. The access
// token's claims are parsed eagerly so expiry checks stay cheap.
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	claims, err := auth.ParseAccessToken(accessToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.claims = claims
	return nil
}

// Token implements the API client's TokenSource. An empty token means the
// session is anonymous and no Authorization header is sent.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, nil
}

// RefreshToken returns the current refresh token, if any.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Claims returns the parsed claims of the current access token.
func (s *Store) Claims() *auth.AccessTokenClaims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// NeedsRefresh reports whether the access token is missing or expires within
// the leeway window.
func (s *Store) NeedsRefresh(now time.Time, leeway time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accessToken == "" {
		return true
	}
	return s.claims.ExpiresWithin(now, leeway)
}

// Clear drops the session on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.claims = nil
}
