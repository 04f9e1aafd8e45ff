package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"arc-storefront/internal/infra"
	"arc-storefront/internal/usecase/session"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:cart:"

type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl, logger: logger}
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) ([]session.StoredLine, bool, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, infra.WrapStoreErr(r.logger, infra.KindStoreFailure, "redis get failed", err)
	}

	var lines []session.StoredLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false, infra.WrapStoreErr(r.logger, infra.KindCorruptRecord, "stored cart is not valid JSON", err)
	}
	return lines, true, nil
}

// Save overwrites the stored cart and refreshes its TTL.
func (r *RedisRepository) Save(ctx context.Context, sessionID string, lines []session.StoredLine) error {
	if lines == nil {
		lines = []session.StoredLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return infra.WrapStoreErr(r.logger, infra.KindCorruptRecord, "marshal cart failed", err)
	}
	if err := r.client.Set(ctx, cartKey(sessionID), data, r.ttl).Err(); err != nil {
		return infra.WrapStoreErr(r.logger, infra.KindStoreFailure, "redis set failed", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return infra.WrapStoreErr(r.logger, infra.KindStoreFailure, "redis delete failed", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return keyPrefix + sessionID
}
