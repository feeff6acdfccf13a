// Package guard decides whether a view may be shown for the current session
// state. The decision function is pure and stateless: the application
// re-evaluates it on every navigation attempt and on every session change,
// so a background credential expiry immediately revokes access to a
// protected view that is already on screen.
package guard

import "github.com/surplusmarket/client-go/session"

// Decision is the outcome of an access check.
type Decision int

const (
	// Allow renders the requested view.
	Allow Decision = iota
	// RedirectToLogin is returned whenever no session is present.
	RedirectToLogin
	// RedirectToHome is returned when a session is present but the view
	// requires a role the user does not hold.
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToHome:
		return "redirect-to-home"
	default:
		return "unknown"
	}
}

// Route describes a view's access requirements. A zero Route is public.
type Route struct {
	Name string
	// Protected routes require any authenticated session.
	Protected bool
	// RequiredRole additionally restricts the route to one role.
	// Implies Protected.
	RequiredRole session.Role
}

// Decide applies the access rules to a session snapshot.
func Decide(s session.Session, route Route) Decision {
	if !route.Protected && route.RequiredRole == "" {
		return Allow
	}
	if !s.Authenticated() {
		return RedirectToLogin
	}
	if route.RequiredRole != "" && s.User.Role != route.RequiredRole {
		return RedirectToHome
	}
	return Allow
}
