// Package rediscache fronts the prompt repository with Redis. Redis is an
// optimisation only: any Redis error falls through to the wrapped store.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"email-agent/internal/logger"
	"email-agent/internal/model"
	"email-agent/internal/repository"
)

const promptKeyPrefix = "email-agent:prompt:"

// NewClient parses a redis:// URL and checks the server answers.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = time.Second
	opt.WriteTimeout = time.Second
	opt.MaxRetries = 1

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

type PromptRepository struct {
	next   repository.PromptRepository
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewPromptRepository(next repository.PromptRepository, client *redis.Client, ttl time.Duration, logger *logger.Logger) *PromptRepository {
	return &PromptRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *PromptRepository) FindByKey(ctx context.Context, key string) (*model.Prompt, error) {
	cached, err := r.client.Get(ctx, promptKeyPrefix+key).Result()
	switch {
	case err == nil:
		var prompt model.Prompt
		if err := json.Unmarshal([]byte(cached), &prompt); err == nil {
			return &prompt, nil
		}
		r.logger.Warn("Discarding unreadable cached prompt:", key)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("Prompt cache read failed:", err)
	}

	prompt, err := r.next.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(prompt); err == nil {
		if err := r.client.Set(ctx, promptKeyPrefix+key, data, r.ttl).Err(); err != nil {
			r.logger.Warn("Prompt cache write failed:", err)
		}
	}
	return prompt, nil
}

func (r *PromptRepository) FindAll(ctx context.Context) ([]*model.Prompt, error) {
	return r.next.FindAll(ctx)
}

func (r *PromptRepository) Upsert(ctx context.Context, prompt *model.Prompt) (bool, error) {
	created, err := r.next.Upsert(ctx, prompt)
	if err != nil {
		return false, err
	}
	if err := r.client.Del(ctx, promptKeyPrefix+prompt.Key).Err(); err != nil {
		r.logger.Warn("Prompt cache invalidation failed:", err)
	}
	return created, nil
}
