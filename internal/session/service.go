package session

import (
	"context"
	"fmt"
	"time"

	"github.com/localmart/localmart-client/internal/api"
	authsession "github.com/localmart/localmart-client/pkg/auth/session"
	"github.com/localmart/localmart-client/pkg/config"
	"github.com/localmart/localmart-client/pkg/logger"
)

// AuthAPI is the slice of the API client the session service drives.
type AuthAPI interface {
	Login(ctx context.Context, input api.LoginInput) (*api.TokenPair, error)
	RefreshSession(ctx context.Context, refreshToken string) (*api.TokenPair, error)
	Logout(ctx context.Context) error
}

// CartResetter lets logout wipe session-scoped cart state.
type CartResetter interface {
	Reset()
}

// Service owns the sign-in lifecycle: it trades credentials for tokens,
// refreshes them before expiry, and tears session state down on logout.
type Service struct {
	api    AuthAPI
	tokens *authsession.Store
	cart   CartResetter
	cfg    config.AuthConfig
	log    *logger.Logger
}

func NewService(authAPI AuthAPI, tokens *authsession.Store, cart CartResetter, cfg config.AuthConfig, log *logger.Logger) (*Service, error) {
	if authAPI == nil {
		return nil, fmt.Errorf("auth api is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	return &Service{api: authAPI, tokens: tokens, cart: cart, cfg: cfg, log: log}, nil
}

// Login signs the user in and stores the returned tokens.
func (s *Service) Login(ctx context.Context, email, password string) error {
	pair, err := s.api.Login(ctx, api.LoginInput{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
}

// RefreshIfNeeded refreshes the access token when it is missing or expires
// within the configured leeway. It is a no-op for fresh tokens and for
// anonymous sessions without a refresh token.
func (s *Service) RefreshIfNeeded(ctx context.Context, now time.Time) error {
	if !s.tokens.NeedsRefresh(now, s.cfg.RefreshLeeway) {
		return nil
	}
	refreshToken := s.tokens.RefreshToken()
	if refreshToken == "" {
		return nil
	}

	pair, err := s.api.RefreshSession(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
}

// Logout invalidates the server session and clears all local session state,
// including the cart. A failed server call still clears local state.
func (s *Service) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	if err != nil && s.log != nil {
		s.log.Warn(ctx, "server logout failed, clearing local session anyway")
	}

	s.tokens.Clear()
	if s.cart != nil {
		s.cart.Reset()
	}
	return err
}
