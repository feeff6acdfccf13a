package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestVault(t *testing.T) (*RedisVault, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisVaultWithClient(client, ""), mr
}

func TestRedisVaultRoundTrip(t *testing.T) {
	ctx := context.Background()
	vault, _ := setupTestVault(t)

	// Empty vault reports no session, not an error.
	loaded, err := vault.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	saved := &Session{User: testUser(), Token: "tok-xyz"}
	require.NoError(t, vault.Save(ctx, saved))

	loaded, err = vault.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Token, loaded.Token)
	assert.Equal(t, saved.User, loaded.User)
}

func TestRedisVaultErase(t *testing.T) {
	ctx := context.Background()
	vault, _ := setupTestVault(t)

	require.NoError(t, vault.Save(ctx, &Session{User: testUser(), Token: "tok"}))
	require.NoError(t, vault.Erase(ctx))

	loaded, err := vault.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Erasing an already-empty vault is not an error.
	require.NoError(t, vault.Erase(ctx))
}

func TestRedisVaultCorruptRecord(t *testing.T) {
	ctx := context.Background()
	vault, mr := setupTestVault(t)

	require.NoError(t, mr.Set(defaultSessionKey, "{not json"))

	loaded, err := vault.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// The corrupt record was dropped so the next load is clean.
	assert.False(t, mr.Exists(defaultSessionKey))
}
