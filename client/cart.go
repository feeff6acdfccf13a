package client

import (
	"context"
	"fmt"
)

// CartService covers the authoritative cart. Mutating calls return the
// server's acknowledgement only; callers re-fetch the full cart via the
// reconciler instead of applying local deltas.
type CartService struct {
	c *Client
}

// Get fetches the authoritative cart.
func (s *CartService) Get(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := s.c.doJSON(ctx, "cart.Get", "GET", "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Add puts a product into the cart.
func (s *CartService) Add(ctx context.Context, productID, quantity int) error {
	payload := map[string]int{"product_id": productID, "quantity": quantity}
	return s.c.doJSON(ctx, "cart.Add", "POST", "/cart", payload, nil)
}

// Update changes the quantity of a cart line.
func (s *CartService) Update(ctx context.Context, lineID, quantity int) error {
	payload := map[string]int{"quantity": quantity}
	return s.c.doJSON(ctx, "cart.Update", "PUT", fmt.Sprintf("/cart/%d", lineID), payload, nil)
}

// Remove deletes a cart line.
func (s *CartService) Remove(ctx context.Context, lineID int) error {
	return s.c.doJSON(ctx, "cart.Remove", "DELETE", fmt.Sprintf("/cart/%d", lineID), nil, nil)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	return s.c.doJSON(ctx, "cart.Clear", "DELETE", "/cart/clear", nil, nil)
}
