package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

// Redis хранит сводки репутации в Redis.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создаёт клиента и проверяет соединение.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis недоступен: %w", err)
	}
	return client, nil
}

// NewRedis создаёт кэш поверх готового клиента.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get возвращает сводку, если она есть в кэше.
func (r *Redis) Get(ctx context.Context, sellerID uuid.UUID) (*models.ReputationSummary, bool, error) {
	raw, err := r.client.Get(ctx, reputationKey(sellerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: redis get: %w", err)
	}

	var summary models.ReputationSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false, fmt.Errorf("cache: повреждённая запись: %w", err)
	}
	return &summary, true, nil
}

// Set сохраняет сводку с TTL.
func (r *Redis) Set(ctx context.Context, sellerID uuid.UUID, summary models.ReputationSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}
	if err := r.client.Set(ctx, reputationKey(sellerID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Invalidate удаляет сводку продавца.
func (r *Redis) Invalidate(ctx context.Context, sellerID uuid.UUID) error {
	if err := r.client.Del(ctx, reputationKey(sellerID)).Err(); err != nil {
		return fmt.Errorf("cache: redis del: %w", err)
	}
	return nil
}
