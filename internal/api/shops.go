package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

// ListShops returns every shop visible to the user.
func (c *Client) ListShops(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	err := c.do(ctx, call{
		resource:  "shops",
		operation: "list",
		method:    http.MethodGet,
		path:      "/shops",
		out:       &shops,
	})
	if err != nil {
		return nil, err
	}
	return shops, nil
}

// GetShop fetches one shop.
func (c *Client) GetShop(ctx context.Context, shopID string) (*Shop, error) {
	if shopID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}

	var shop Shop
	err := c.do(ctx, call{
		resource:  "shops",
		operation: "get",
		method:    http.MethodGet,
		path:      "/shops/" + shopID,
		out:       &shop,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// NearbyShops returns shops around the given coordinates, closest first.
func (c *Client) NearbyShops(ctx context.Context, lat, lng float64) ([]Shop, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	var shops []Shop
	err := c.do(ctx, call{
		resource:  "shops",
		operation: "nearby",
		method:    http.MethodGet,
		path:      "/shops/nearby",
		query:     query,
		out:       &shops,
	})
	if err != nil {
		return nil, err
	}
	return shops, nil
}
