package client

import (
	"context"

	"github.com/surplusmarket/client-go/session"
)

// AuthService covers registration, login and profile management.
type AuthService struct {
	c *Client
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Register creates an account and returns the identity plus its credential.
// The caller (the app controller) establishes the session.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Credentials, error) {
	var creds Credentials
	if err := s.c.doJSON(ctx, "auth.Register", "POST", "/auth/register", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Login authenticates and returns the identity plus its credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := s.c.doJSON(ctx, "auth.Login", "POST", "/auth/login", payload, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Me fetches the current profile.
func (s *AuthService) Me(ctx context.Context) (*session.User, error) {
	var resp struct {
		User session.User `json:"user"`
	}
	if err := s.c.doJSON(ctx, "auth.Me", "GET", "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ProfileUpdate carries the fields of a partial profile update. Nil fields
// are not sent.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateMe patches the profile and returns the canonical record.
func (s *AuthService) UpdateMe(ctx context.Context, update ProfileUpdate) (*session.User, error) {
	var resp struct {
		User session.User `json:"user"`
	}
	if err := s.c.doJSON(ctx, "auth.UpdateMe", "PUT", "/auth/me", update, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ChangePassword rotates the account password.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	payload := map[string]string{"current_password": current, "new_password": next}
	return s.c.doJSON(ctx, "auth.ChangePassword", "POST", "/auth/change-password", payload, nil)
}

// Refresh exchanges the refresh credential for a new access token. The
// controller never calls this automatically; it exists for embedding
// applications that manage refresh themselves.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.c.doJSON(ctx, "auth.Refresh", "POST", "/auth/refresh", nil, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}
