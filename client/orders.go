package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// OrderService covers order placement and history. Placement is never
// retried automatically: a transient failure leaves the outcome unknown and
// retrying risks a duplicate order. The idempotency key lets the server
// dedupe if the embedding application decides to resubmit.
type OrderService struct {
	c *Client
}

// PlaceOrderRequest is the payload for order placement.
type PlaceOrderRequest struct {
	ShippingAddress
	PaymentMethod string `json:"payment_method"`
}

// List fetches the user's orders.
func (s *OrderService) List(ctx context.Context) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := s.c.doJSON(ctx, "orders.List", "GET", "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Get fetches one order.
func (s *OrderService) Get(ctx context.Context, id int) (*Order, error) {
	var order Order
	if err := s.c.doJSON(ctx, "orders.Get", "GET", fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Place submits the order. The server builds the order from the
// authoritative cart and computes all monetary amounts itself.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, &APIError{Op: "orders.Place", Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	httpReq, err := newRequest(ctx, "POST", s.c.baseURL+"/orders", bytes.NewReader(data))
	if err != nil {
		return nil, &APIError{Op: "orders.Place", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", uuid.New().String())

	var order Order
	if err := s.c.send(httpReq, "orders.Place", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel cancels a pending order.
func (s *OrderService) Cancel(ctx context.Context, id int) error {
	return s.c.doJSON(ctx, "orders.Cancel", "POST", fmt.Sprintf("/orders/%d/cancel", id), nil, nil)
}
