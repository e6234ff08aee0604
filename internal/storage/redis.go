package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourhelpa/helpa/pkg/profile"
)

// RedisStorage implements the Storage interface using Redis. Profiles are
// stored as JSON blobs with no TTL: the record is the visitor's session
// memory across unrelated conversations.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func profileKey(visitorID string) string {
	return "profile:" + visitorID
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// LoadProfile retrieves a Profile by visitor id. First contact returns a
// fresh default Profile; a stored record is normalized so a corrupt state
// value can never reach the engine.
func (r *RedisStorage) LoadProfile(ctx context.Context, visitorID string) (*profile.Profile, error) {
	cmd := r.client.Get(ctx, profileKey(visitorID))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Profile not found, creating default", "visitor_id", visitorID)
			return profile.NewProfile(visitorID, ""), nil
		}
		r.logger.Error("Failed to load profile", "visitor_id", visitorID, "error", err)
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(cmd.Val()), &p); err != nil {
		r.logger.Error("Failed to unmarshal profile", "visitor_id", visitorID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	p.VisitorID = visitorID
	p.Normalize()
	return &p, nil
}

func (r *RedisStorage) SaveProfile(ctx context.Context, p *profile.Profile) error {
	p.UpdatedAt = time.Now()

	data, err := json.Marshal(p)
	if err != nil {
		r.logger.Error("Failed to marshal profile", "visitor_id", p.VisitorID, "error", err)
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	cmd := r.client.Set(ctx, profileKey(p.VisitorID), string(data), 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save profile", "visitor_id", p.VisitorID, "error", err)
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

func (r *RedisStorage) DeleteProfile(ctx context.Context, visitorID string) error {
	cmd := r.client.Del(ctx, profileKey(visitorID))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete profile", "visitor_id", visitorID, "error", err)
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
