// Package checkout computes the order estimate and places orders. The
// estimate is always derived from the authoritative subtotal fetched at
// checkout time, never from the cart cache, so a monetary action can never
// act on stale data.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/surplusmarket/client-go/client"
)

// ErrEmptyCart is returned when checkout is attempted with nothing to buy.
var ErrEmptyCart = errors.New("cart is empty")

// ErrMissingField is returned when a required shipping field is blank.
var ErrMissingField = errors.New("required field missing")

// Config holds the shipping rule constants. The server applies the same
// rule; the client computes it only to present the estimate.
type Config struct {
	// FreeShippingOver is the exclusive threshold: shipping is free only
	// when the subtotal is strictly greater.
	FreeShippingOver float64
	// FlatShippingFee is charged at or below the threshold.
	FlatShippingFee float64
}

// DefaultConfig mirrors the marketplace's shipping rule.
func DefaultConfig() Config {
	return Config{FreeShippingOver: 500, FlatShippingFee: 50}
}

// Shipping returns the shipping charge for a subtotal. The threshold is
// exclusive: a subtotal exactly at it still pays the flat fee.
func (c Config) Shipping(subtotal float64) float64 {
	if subtotal > c.FreeShippingOver {
		return 0
	}
	return c.FlatShippingFee
}

// Estimate is the client-side order preview. The server's order response
// remains authoritative for the charged amount.
type Estimate struct {
	Subtotal   float64
	Shipping   float64
	GrandTotal float64
}

// Totals derives the estimate from an authoritative subtotal.
func (c Config) Totals(subtotal float64) Estimate {
	shipping := c.Shipping(subtotal)
	return Estimate{
		Subtotal:   subtotal,
		Shipping:   shipping,
		GrandTotal: subtotal + shipping,
	}
}

// Service runs the checkout flow against the remote API.
type Service struct {
	carts  *client.CartService
	orders *client.OrderService
	config Config
}

// NewService creates a checkout service.
func NewService(c *client.Client, config Config) *Service {
	return &Service{carts: c.Cart, orders: c.Orders, config: config}
}

// Preview fetches the authoritative cart and derives the estimate from its
// subtotal. Fails when the cart is empty or unreachable: unlike the badge,
// checkout may not proceed on stale or missing data.
func (s *Service) Preview(ctx context.Context) (*Estimate, error) {
	authoritative, err := s.carts.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(authoritative.Items) == 0 {
		return nil, ErrEmptyCart
	}
	est := s.config.Totals(authoritative.Total)
	return &est, nil
}

// PlaceOrder validates the shipping address locally and submits the order.
// A transient failure is returned as-is: the order must not be assumed to
// have succeeded, and it is never retried automatically.
func (s *Service) PlaceOrder(ctx context.Context, addr client.ShippingAddress, paymentMethod string) (*client.Order, error) {
	if err := validateAddress(addr, paymentMethod); err != nil {
		return nil, err
	}
	return s.orders.Place(ctx, client.PlaceOrderRequest{
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
	})
}

// validateAddress enforces the fields the server requires, so an obviously
// incomplete order never leaves the client. Line2 is optional.
func validateAddress(addr client.ShippingAddress, paymentMethod string) error {
	required := []struct {
		name  string
		value string
	}{
		{"shipping_name", addr.Name},
		{"shipping_phone", addr.Phone},
		{"shipping_address_line1", addr.AddressLine1},
		{"shipping_city", addr.City},
		{"shipping_state", addr.State},
		{"shipping_pincode", addr.Pincode},
		{"payment_method", paymentMethod},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}
