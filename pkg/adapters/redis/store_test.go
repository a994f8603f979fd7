package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/orxa/pkg/adapters/redis"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/ports"
	"github.com/aretw0/orxa/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunDriftStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_NoExpiryByDefault(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ses_1", &domain.DriftState{SessionID: "ses_1", SelfWorkCalls: 2}))
	mr.FastForward(24 * time.Hour)

	state, err := store.Load(ctx, "ses_1")
	require.NoError(t, err)
	assert.Equal(t, 2, state.SelfWorkCalls)
	assert.Equal(t, time.Duration(0), mr.TTL(redis.DefaultPrefix+"ses_1"))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ses_ttl", domain.NewDriftState("ses_ttl")))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "ses_ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "ses_ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// The index is pruned against wall-clock time.
	time.Sleep(2100 * time.Millisecond)
	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-session", domain.NewDriftState("my-session")))

	assert.True(t, mr.Exists("custom:app:my-session"))
	assert.True(t, mr.Exists("custom:app:index"))

	require.NoError(t, store.Delete(ctx, "my-session"))
	assert.False(t, mr.Exists("custom:app:my-session"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "{not json"))
	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_WithSessionManager(t *testing.T) {
	_, client := newClient(t)
	mgr := session.NewManager(
		redis.NewFromClient(client),
		session.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)),
	)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := mgr.Update(ctx, "ses_shared", func(s *domain.DriftState) error {
			s.SelfWorkCalls++
			return nil
		})
		require.NoError(t, err)
	}

	state, err := mgr.Load(ctx, "ses_shared")
	require.NoError(t, err)
	assert.Equal(t, 3, state.SelfWorkCalls)
}
