package checkout

import (
	"context"
	"encoding/json"
	"time"

	"cartscout/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionSnapshotPrefix = "checkoutSession:"

// RedisSnapshotStore keeps a TTL'd JSON copy of each session in Redis.
// Writes are best-effort; a cache hiccup never fails a checkout step.
type RedisSnapshotStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisSnapshotStore{Client: client, TTL: ttl}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, sess models.CheckoutSession) {
	data, err := json.Marshal(sess)
	if err != nil {
		zap.L().Error("failed to marshal session snapshot", zap.String("handle", sess.Handle), zap.Error(err))
		return
	}
	if err := s.Client.Set(ctx, sessionSnapshotPrefix+sess.Handle, data, s.TTL).Err(); err != nil {
		zap.L().Warn("failed to save session snapshot", zap.String("handle", sess.Handle), zap.Error(err))
	}
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, handle string) {
	if err := s.Client.Del(ctx, sessionSnapshotPrefix+handle).Err(); err != nil {
		zap.L().Warn("failed to delete session snapshot", zap.String("handle", handle), zap.Error(err))
	}
}
