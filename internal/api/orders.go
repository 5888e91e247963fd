package api

import (
	"context"
	"net/http"

	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

// CreateOrder places an order from the server-side cart contents.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if err := checkInput(&input); err != nil {
		return nil, err
	}

	var order Order
	err := c.do(ctx, call{
		resource:  "orders",
		operation: "create",
		method:    http.MethodPost,
		path:      "/orders",
		body:      input,
		out:       &order,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the user's order history, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := c.do(ctx, call{
		resource:  "orders",
		operation: "list",
		method:    http.MethodGet,
		path:      "/orders",
		out:       &orders,
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order Order
	err := c.do(ctx, call{
		resource:  "orders",
		operation: "get",
		method:    http.MethodGet,
		path:      "/orders/" + orderID,
		out:       &order,
	})
	if err != nil {
		return nil, err
	}
	if err := checkPayload(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// TrackOrder returns the courier position and delivery status for an order.
func (c *Client) TrackOrder(ctx context.Context, orderID string) (*OrderTracking, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var tracking OrderTracking
	err := c.do(ctx, call{
		resource:  "orders",
		operation: "track",
		method:    http.MethodGet,
		path:      "/orders/" + orderID + "/track",
		out:       &tracking,
	})
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}
