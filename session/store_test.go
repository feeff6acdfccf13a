package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() User {
	return User{
		ID:        7,
		Email:     "priya@example.com",
		FirstName: "Priya",
		LastName:  "Nair",
		Role:      RoleCustomer,
	}
}

func TestStoreEstablishAndClear(t *testing.T) {
	ctx := context.Background()
	vault := NewMemoryVault()
	store := NewStore(vault, nil)

	t.Run("InitiallyUnauthenticated", func(t *testing.T) {
		assert.False(t, store.Authenticated())
		_, ok := store.Token()
		assert.False(t, ok)
	})

	t.Run("Establish", func(t *testing.T) {
		store.Establish(ctx, testUser(), "tok-123")

		assert.True(t, store.Authenticated())
		token, ok := store.Token()
		assert.True(t, ok)
		assert.Equal(t, "tok-123", token)

		// Durable copy written in the same step.
		stored, err := vault.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "tok-123", stored.Token)
		assert.Equal(t, 7, stored.User.ID)
	})

	t.Run("Clear", func(t *testing.T) {
		store.Clear(ctx)

		assert.False(t, store.Authenticated())
		_, ok := store.Token()
		assert.False(t, ok)

		stored, err := vault.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

// Identity and credential must never be observable one without the other,
// for any sequence of establish/clear calls.
func TestStoreSnapshotConsistency(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryVault(), nil)

	check := func() {
		snap := store.Snapshot()
		if snap.Token != "" {
			assert.NotZero(t, snap.User.ID, "token present without user")
		}
		if snap.User.ID != 0 {
			assert.NotEmpty(t, snap.Token, "user present without token")
		}
	}

	check()
	store.Establish(ctx, testUser(), "t1")
	check()
	store.Clear(ctx)
	check()
	store.Establish(ctx, testUser(), "t2")
	store.Establish(ctx, testUser(), "t3")
	check()
	store.Clear(ctx)
	store.Clear(ctx)
	check()
}

func TestStoreUpdateUser(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryVault(), nil)
	store.Establish(ctx, testUser(), "tok-123")

	phone := "9999999999"
	first := "Priyanka"
	store.UpdateUser(ctx, UserPatch{Phone: &phone, FirstName: &first})

	snap := store.Snapshot()
	assert.Equal(t, "Priyanka", snap.User.FirstName)
	assert.Equal(t, "9999999999", snap.User.Phone)
	// Untouched fields survive the merge.
	assert.Equal(t, "Nair", snap.User.LastName)
	assert.Equal(t, "priya@example.com", snap.User.Email)
	// Credential is never affected by a profile update.
	assert.Equal(t, "tok-123", snap.Token)
}

func TestStoreUpdateUserUnauthenticated(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryVault(), nil)

	phone := "123"
	store.UpdateUser(ctx, UserPatch{Phone: &phone})

	assert.False(t, store.Authenticated())
	assert.Zero(t, store.Snapshot().User.ID)
}

func TestStoreSubscribe(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryVault(), nil)

	var seen []bool
	store.Subscribe(func(s Session) {
		seen = append(seen, s.Authenticated())
	})

	store.Establish(ctx, testUser(), "tok")
	store.Clear(ctx)

	require.Len(t, seen, 2)
	assert.True(t, seen[0])
	assert.False(t, seen[1])
}

func TestStoreRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("AbsentKey", func(t *testing.T) {
		store := NewStore(NewMemoryVault(), nil)
		require.NoError(t, store.Restore(ctx))
		assert.False(t, store.Authenticated())
	})

	t.Run("ValidSession", func(t *testing.T) {
		vault := NewMemoryVault()
		require.NoError(t, vault.Save(ctx, &Session{User: testUser(), Token: "opaque-token"}))

		store := NewStore(vault, nil)
		require.NoError(t, store.Restore(ctx))
		assert.True(t, store.Authenticated())
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired := signedToken(t, time.Now().Add(-time.Hour))
		vault := NewMemoryVault()
		require.NoError(t, vault.Save(ctx, &Session{User: testUser(), Token: expired}))

		store := NewStore(vault, nil)
		require.NoError(t, store.Restore(ctx))
		assert.False(t, store.Authenticated())

		// The stale durable copy is erased too.
		stored, err := vault.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestTokenExpired(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.True(t, TokenExpired(""))
	})
	t.Run("OpaqueToken", func(t *testing.T) {
		assert.False(t, TokenExpired("not-a-jwt"))
	})
	t.Run("FutureExpiry", func(t *testing.T) {
		assert.False(t, TokenExpired(signedToken(t, time.Now().Add(time.Hour))))
	})
	t.Run("PastExpiry", func(t *testing.T) {
		assert.True(t, TokenExpired(signedToken(t, time.Now().Add(-time.Minute))))
	})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}
