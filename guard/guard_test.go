package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/surplusmarket/client-go/session"
)

func authed(role session.Role) session.Session {
	return session.Session{
		User:  session.User{ID: 1, Email: "u@example.com", Role: role},
		Token: "tok",
	}
}

func TestDecide(t *testing.T) {
	public := Route{Name: "home"}
	protected := Route{Name: "orders", Protected: true}
	vendorOnly := Route{Name: "vendor-dashboard", Protected: true, RequiredRole: session.RoleVendor}

	tests := []struct {
		name  string
		s     session.Session
		route Route
		want  Decision
	}{
		{"unauthenticated public", session.Session{}, public, Allow},
		{"unauthenticated protected", session.Session{}, protected, RedirectToLogin},
		{"unauthenticated role-restricted", session.Session{}, vendorOnly, RedirectToLogin},
		{"customer public", authed(session.RoleCustomer), public, Allow},
		{"customer protected", authed(session.RoleCustomer), protected, Allow},
		{"customer on vendor route", authed(session.RoleCustomer), vendorOnly, RedirectToHome},
		{"vendor on vendor route", authed(session.RoleVendor), vendorOnly, Allow},
		{"vendor protected", authed(session.RoleVendor), protected, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.s, tt.route))
		})
	}
}

// A RequiredRole implies protection even if Protected was left unset.
func TestDecideRequiredRoleImpliesProtected(t *testing.T) {
	route := Route{Name: "vendor-orders", RequiredRole: session.RoleVendor}

	assert.Equal(t, RedirectToLogin, Decide(session.Session{}, route))
	assert.Equal(t, RedirectToHome, Decide(authed(session.RoleCustomer), route))
	assert.Equal(t, Allow, Decide(authed(session.RoleVendor), route))
}

// After a session clear, every protected route redirects to login and every
// public route still renders.
func TestDecideAfterClear(t *testing.T) {
	routes := []Route{
		{Name: "home"},
		{Name: "products"},
		{Name: "cart", Protected: true},
		{Name: "checkout", Protected: true},
		{Name: "orders", Protected: true},
		{Name: "vendor-dashboard", Protected: true, RequiredRole: session.RoleVendor},
	}

	cleared := session.Session{}
	for _, route := range routes {
		want := Allow
		if route.Protected || route.RequiredRole != "" {
			want = RedirectToLogin
		}
		assert.Equal(t, want, Decide(cleared, route), "route %s", route.Name)
	}
}
