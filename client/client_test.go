package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surplusmarket/client-go/resilience"
)

func TestAuthorizationFailureHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg": "Token has expired"}`))
	}))
	defer server.Close()

	c := New(&staticCreds{token: "stale"}, WithBaseURL(server.URL))

	var clears int32
	c.SetAuthExpiredHandler(func() { atomic.AddInt32(&clears, 1) })

	cart, err := c.Cart.Get(context.Background())

	// The original response is never delivered to the caller.
	assert.Nil(t, cart)
	require.Error(t, err)
	assert.True(t, IsAuthExpired(err))

	// The handler fires exactly once per failed call.
	assert.Equal(t, int32(1), atomic.LoadInt32(&clears))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "cart.Get", apiErr.Op)
}

func TestRemoteRejectedSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Only 2 items available"}`))
	}))
	defer server.Close()

	c := New(&staticCreds{token: "tok"}, WithBaseURL(server.URL))

	err := c.Cart.Add(context.Background(), 9, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteRejected)
	assert.False(t, IsAuthExpired(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	// The server's message reaches the caller verbatim.
	assert.Equal(t, "Only 2 items available", apiErr.Message)
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := New(&staticCreds{}, WithBaseURL(server.URL), WithTimeout(500*time.Millisecond))

	_, err := c.Cart.Get(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsAuthExpired(err))
}

func TestCircuitBreakerFailsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	breaker := resilience.NewCircuitBreaker(&resilience.CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 2,
		SleepWindow:      time.Minute,
		HalfOpenRequests: 1,
	})
	c := New(&staticCreds{}, WithBaseURL(server.URL), WithCircuitBreaker(breaker))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := c.Cart.Get(ctx)
		require.Error(t, err)
	}
	require.Equal(t, resilience.StateOpen, breaker.State())

	// Rejected without a connection attempt; still reads as unavailable.
	_, err := c.Cart.Get(ctx)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestCartGetDecodesAuthoritativeCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": 1, "quantity": 2, "subtotal": 160, "product": {"id": 9, "name": "Bananas", "discounted_price": 80}},
				{"id": 2, "quantity": 1, "subtotal": 45, "product": {"id": 12, "name": "Bread", "discounted_price": 45}}
			],
			"total": 205,
			"count": 2
		}`))
	}))
	defer server.Close()

	c := New(&staticCreds{token: "tok"}, WithBaseURL(server.URL))

	cart, err := c.Cart.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 205.0, cart.Total)
	assert.Equal(t, "Bananas", cart.Items[0].Product.Name)
	assert.Equal(t, 160.0, cart.Items[0].Subtotal)
}

func TestPlaceOrderSendsIdempotencyKey(t *testing.T) {
	keys := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		assert.NotEmpty(t, key)
		keys[key] = true
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "order_number": "ORD-1", "status": "pending", "final_amount": 554}`))
	}))
	defer server.Close()

	c := New(&staticCreds{token: "tok"}, WithBaseURL(server.URL))

	req := PlaceOrderRequest{
		ShippingAddress: ShippingAddress{
			Name:         "Priya Nair",
			Phone:        "9999999999",
			AddressLine1: "12 MG Road",
			City:         "Kochi",
			State:        "Kerala",
			Pincode:      "682001",
		},
		PaymentMethod: "cod",
	}

	for i := 0; i < 2; i++ {
		order, err := c.Orders.Place(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "ORD-1", order.OrderNumber)
	}
	// Each submission carries its own key: the client never silently
	// reuses one, because it never silently retries.
	assert.Len(t, keys, 2)
}
