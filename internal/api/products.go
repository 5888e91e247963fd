package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

// ListProducts pages through the catalog, optionally filtered by shop or a
// search term.
func (c *Client) ListProducts(ctx context.Context, params ProductListParams) ([]Product, error) {
	query := url.Values{}
	if params.ShopID != "" {
		query.Set("shop", params.ShopID)
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	var products []Product
	err := c.do(ctx, call{
		resource:  "products",
		operation: "list",
		method:    http.MethodGet,
		path:      "/products",
		query:     query,
		out:       &products,
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one catalog entry.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product Product
	err := c.do(ctx, call{
		resource:  "products",
		operation: "get",
		method:    http.MethodGet,
		path:      "/products/" + productID,
		out:       &product,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&product); err != nil {
		return nil, err
	}
	return &product, nil
}
