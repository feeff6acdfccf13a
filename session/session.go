// Package session owns the client's record of the authenticated identity and
// its bearer credential. The in-memory Store is the single writer for session
// state; every mutation is mirrored to a durable Vault in the same logical
// step so the session survives a process restart.
package session

// Role identifies the account type granted by the marketplace.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// User is the identity record returned by the marketplace API.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
}

// Session pairs the identity with its opaque bearer credential. A session is
// authenticated exactly when both parts are present; the Store never exposes
// one without the other.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"access_token"`
}

// Authenticated reports whether both identity and credential are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User.ID != 0
}

// UserPatch carries a partial identity update. Nil fields are left untouched
// by Store.UpdateUser; the credential is never affected.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}
