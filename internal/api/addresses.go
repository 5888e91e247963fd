package api

import (
	"context"
	"net/http"

	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

// ListAddresses returns the user's saved addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	err := c.do(ctx, call{
		resource:  "addresses",
		operation: "list",
		method:    http.MethodGet,
		path:      "/addresses",
		out:       &addresses,
	})
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress saves a new address entry.
func (c *Client) CreateAddress(ctx context.Context, input AddressInput) (*Address, error) {
	if err := checkInput(&input); err != nil {
		return nil, err
	}

	var address Address
	err := c.do(ctx, call{
		resource:  "addresses",
		operation: "create",
		method:    http.MethodPost,
		path:      "/addresses",
		body:      input,
		out:       &address,
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// UpdateAddress replaces an existing address entry.
func (c *Client) UpdateAddress(ctx context.Context, addressID string, input AddressInput) (*Address, error) {
	if addressID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	if err := checkInput(&input); err != nil {
		return nil, err
	}

	var address Address
	err := c.do(ctx, call{
		resource:  "addresses",
		operation: "update",
		method:    http.MethodPut,
		path:      "/addresses/" + addressID,
		body:      input,
		out:       &address,
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress removes an address entry.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	if addressID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	return c.do(ctx, call{
		resource:  "addresses",
		operation: "delete",
		method:    http.MethodDelete,
		path:      "/addresses/" + addressID,
	})
}
