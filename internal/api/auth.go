package api

import (
	"context"
	"net/http"

	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	if err := checkInput(&input); err != nil {
		return nil, err
	}

	var pair TokenPair
	err := c.do(ctx, call{
		resource:  "auth",
		operation: "login",
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      input,
		out:       &pair,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshSession exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token is required")
	}

	var pair TokenPair
	err := c.do(ctx, call{
		resource:  "auth",
		operation: "refresh",
		method:    http.MethodPost,
		path:      "/auth/refresh",
		body:      refreshRequest{RefreshToken: refreshToken},
		out:       &pair,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout invalidates the server-side session. A failed logout is not fatal;
// the caller clears local state regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{
		resource:  "auth",
		operation: "logout",
		method:    http.MethodPost,
		path:      "/auth/logout",
	})
}
