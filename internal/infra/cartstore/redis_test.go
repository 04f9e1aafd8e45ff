//go:build unit

package cartstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"arc-storefront/internal/infra"
	"arc-storefront/internal/usecase/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedisRepository(client, time.Hour, logger), mr
}

func TestRedisRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		repo, _ := setupTestRedis(t)
		lines, found, err := repo.Load(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, lines)
	})

	t.Run("save then load", func(t *testing.T) {
		repo, mr := setupTestRedis(t)
		want := []session.StoredLine{{ProductID: 1, Quantity: 2}, {ProductID: 4, Quantity: 1}}
		require.NoError(t, repo.Save(ctx, "abc", want))

		assert.True(t, mr.Exists("storefront:cart:abc"))
		assert.Equal(t, time.Hour, mr.TTL("storefront:cart:abc"))

		got, found, err := repo.Load(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, want, got)
	})

	t.Run("stored format", func(t *testing.T) {
		repo, mr := setupTestRedis(t)
		require.NoError(t, repo.Save(ctx, "abc", []session.StoredLine{{ProductID: 3, Quantity: 5}}))

		raw, err := mr.Get("storefront:cart:abc")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"productId":3,"quantity":5}]`, raw)
	})

	t.Run("empty cart is stored, not deleted", func(t *testing.T) {
		repo, mr := setupTestRedis(t)
		require.NoError(t, repo.Save(ctx, "abc", nil))

		raw, err := mr.Get("storefront:cart:abc")
		require.NoError(t, err)
		assert.Equal(t, "[]", raw)

		lines, found, err := repo.Load(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, lines)
	})

	t.Run("expired cart is a miss", func(t *testing.T) {
		repo, mr := setupTestRedis(t)
		require.NoError(t, repo.Save(ctx, "abc", []session.StoredLine{{ProductID: 1, Quantity: 1}}))
		mr.FastForward(2 * time.Hour)

		_, found, err := repo.Load(ctx, "abc")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("corrupt record", func(t *testing.T) {
		repo, mr := setupTestRedis(t)
		require.NoError(t, mr.Set("storefront:cart:abc", "{not json"))

		_, _, err := repo.Load(ctx, "abc")
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindCorruptRecord))
	})

	t.Run("delete", func(t *testing.T) {
		repo, mr := setupTestRedis(t)
		require.NoError(t, repo.Save(ctx, "abc", []session.StoredLine{{ProductID: 1, Quantity: 1}}))
		require.NoError(t, repo.Delete(ctx, "abc"))
		assert.False(t, mr.Exists("storefront:cart:abc"))
	})

	t.Run("server down", func(t *testing.T) {
		repo, mr := setupTestRedis(t)
		mr.Close()

		_, _, err := repo.Load(ctx, "abc")
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindStoreFailure))

		err = repo.Save(ctx, "abc", nil)
		assert.True(t, infra.IsKind(err, infra.KindStoreFailure))
	})
}
