// Package app is the top-level controller of the storefront. It owns the
// reactions that the lower layers deliberately do not perform themselves:
// navigation after an authorization failure, cart resyncs around session and
// cart changes, and guard evaluation for every view change.
package app

import (
	"context"
	"sync"

	"github.com/surplusmarket/client-go/cart"
	"github.com/surplusmarket/client-go/client"
	"github.com/surplusmarket/client-go/guard"
	"github.com/surplusmarket/client-go/logging"
	"github.com/surplusmarket/client-go/session"
)

// Well-known view names used for redirects.
const (
	ViewHome  = "home"
	ViewLogin = "login"
)

// Navigator switches the rendered view. The terminal UI implements it; tests
// substitute a recorder.
type Navigator interface {
	NavigateTo(view string)
}

// Controller coordinates session, cart and navigation state. All methods are
// safe for concurrent use; writes to session and cart state still flow
// exclusively through their single owners.
type Controller struct {
	sessions   *session.Store
	api        *client.Client
	reconciler *cart.Reconciler
	navigator  Navigator
	logger     logging.Logger

	mu      sync.Mutex
	current guard.Route
}

// NewController wires the controller and registers the authorization-failure
// handler on the client. From this point on, any call answered with an
// authorization failure clears the session exactly once and lands on the
// login view, regardless of which component issued the call.
func NewController(sessions *session.Store, api *client.Client, reconciler *cart.Reconciler, navigator Navigator, logger logging.Logger) *Controller {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	c := &Controller{
		sessions:   sessions,
		api:        api,
		reconciler: reconciler,
		navigator:  navigator,
		logger:     logger,
	}

	api.SetAuthExpiredHandler(c.handleAuthExpired)

	// A session change made behind the current view (e.g. a background
	// credential expiry) must immediately revoke access to it.
	sessions.Subscribe(func(s session.Session) {
		c.reguard(s)
	})

	return c
}

// Start restores the persisted session and, when one is present, primes the
// cart badge. Call once at startup.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.sessions.Restore(ctx); err != nil {
		return err
	}
	if c.sessions.Authenticated() {
		c.reconciler.Resync(ctx)
	}
	return nil
}

// Visit evaluates the guard for a view and either renders it or redirects.
// The returned decision tells the caller what happened.
func (c *Controller) Visit(route guard.Route) guard.Decision {
	decision := guard.Decide(c.sessions.Snapshot(), route)
	switch decision {
	case guard.Allow:
		c.mu.Lock()
		c.current = route
		c.mu.Unlock()
		c.navigator.NavigateTo(route.Name)
	case guard.RedirectToLogin:
		c.navigator.NavigateTo(ViewLogin)
	case guard.RedirectToHome:
		c.navigator.NavigateTo(ViewHome)
	}
	return decision
}

// Login authenticates, establishes the session and primes the cart badge.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	creds, err := c.api.Auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	c.sessions.Establish(ctx, creds.User, creds.AccessToken)
	c.reconciler.Resync(ctx)
	return nil
}

// Register creates an account; a successful registration is also a login.
func (c *Controller) Register(ctx context.Context, req client.RegisterRequest) error {
	creds, err := c.api.Auth.Register(ctx, req)
	if err != nil {
		return err
	}
	c.sessions.Establish(ctx, creds.User, creds.AccessToken)
	c.reconciler.Resync(ctx)
	return nil
}

// Logout clears the session and the badge, then returns to the home view.
func (c *Controller) Logout(ctx context.Context) {
	c.sessions.Clear(ctx)
	c.reconciler.Clear()
	c.navigator.NavigateTo(ViewHome)
}

// UpdateProfile patches the profile remotely and mirrors the canonical
// record into the session.
func (c *Controller) UpdateProfile(ctx context.Context, update client.ProfileUpdate) error {
	user, err := c.api.Auth.UpdateMe(ctx, update)
	if err != nil {
		return err
	}
	c.sessions.ReplaceUser(ctx, *user)
	return nil
}

// AddToCart mutates the cart and re-fetches authoritative state. The badge
// is never updated optimistically; a resync after the mutation is the only
// path, so local math can never drift from server-side stock or price rules.
func (c *Controller) AddToCart(ctx context.Context, productID, quantity int) error {
	if err := c.api.Cart.Add(ctx, productID, quantity); err != nil {
		return err
	}
	c.reconciler.Resync(ctx)
	return nil
}

// UpdateCartLine changes a line's quantity, then resyncs.
func (c *Controller) UpdateCartLine(ctx context.Context, lineID, quantity int) error {
	if err := c.api.Cart.Update(ctx, lineID, quantity); err != nil {
		return err
	}
	c.reconciler.Resync(ctx)
	return nil
}

// RemoveFromCart removes a line, then resyncs.
func (c *Controller) RemoveFromCart(ctx context.Context, lineID int) error {
	if err := c.api.Cart.Remove(ctx, lineID); err != nil {
		return err
	}
	c.reconciler.Resync(ctx)
	return nil
}

// ClearCart empties the cart, then resyncs.
func (c *Controller) ClearCart(ctx context.Context) error {
	if err := c.api.Cart.Clear(ctx); err != nil {
		return err
	}
	c.reconciler.Resync(ctx)
	return nil
}

// handleAuthExpired is the single place an expired credential is turned into
// state: clear the session, drop the badge, land on login. It runs before
// the failed call returns to its caller, so no component can observe a
// half-logged-in UI.
func (c *Controller) handleAuthExpired() {
	c.logger.Info("session expired, redirecting to login", map[string]interface{}{
		"operation": "auth_expired",
	})
	c.sessions.Clear(context.Background())
	c.reconciler.Clear()
	c.navigator.NavigateTo(ViewLogin)
}

// reguard re-evaluates the current view against a new session snapshot and
// navigates away when it is no longer permitted.
func (c *Controller) reguard(s session.Session) {
	c.mu.Lock()
	route := c.current
	c.mu.Unlock()

	if route.Name == "" {
		return
	}
	switch guard.Decide(s, route) {
	case guard.RedirectToLogin:
		c.navigator.NavigateTo(ViewLogin)
	case guard.RedirectToHome:
		c.navigator.NavigateTo(ViewHome)
	}
}
