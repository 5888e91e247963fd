package api

import (
	"context"
	"net/http"

	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

// CartAPI is the boundary the cart store drives. It mirrors the server's
// /cart resource one call per operation, with no retries or caching.
type CartAPI interface {
	GetCart(ctx context.Context) ([]CartItem, error)
	AddToCart(ctx context.Context, productID string, quantity int) (*CartItem, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (*CartItem, error)
	RemoveFromCart(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
}

type addToCartRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart fetches the full cart. Lines arrive in server response order.
func (c *Client) GetCart(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	err := c.do(ctx, call{
		resource:  "cart",
		operation: "get",
		method:    http.MethodGet,
		path:      "/cart",
		out:       &items,
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart adds quantity units of the product. A zero or negative quantity
// defaults to one. The server merges into an existing line when present and
// returns the authoritative line either way.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*CartItem, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	var item CartItem
	err := c.do(ctx, call{
		resource:  "cart",
		operation: "add",
		method:    http.MethodPost,
		path:      "/cart/" + productID,
		body:      addToCartRequest{Product: productID, Quantity: quantity},
		out:       &item,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCartItem sets the line's quantity. Quantity is clamped to a minimum
// of one; a removal intent must go through RemoveFromCart instead.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*CartItem, error) {
	if itemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	var item CartItem
	err := c.do(ctx, call{
		resource:  "cart",
		operation: "update",
		method:    http.MethodPut,
		path:      "/cart/" + itemID,
		body:      updateCartItemRequest{Quantity: quantity},
		out:       &item,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes the line.
func (c *Client) RemoveFromCart(ctx context.Context, itemID string) error {
	if itemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return c.do(ctx, call{
		resource:  "cart",
		operation: "remove",
		method:    http.MethodDelete,
		path:      "/cart/" + itemID,
	})
}

// ClearCart empties the cart. Clearing an already empty cart succeeds.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, call{
		resource:  "cart",
		operation: "clear",
		method:    http.MethodDelete,
		path:      "/cart",
	})
}
