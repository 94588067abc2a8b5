package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/docuchat/pkg/log"
)

// AnswerCacheConfig configures the answer cache.
type AnswerCacheConfig struct {
	// Enabled toggles the cache.
	Enabled bool
	// TTL is the cache expiration time.
	TTL time.Duration
	// KeyPrefix is the cache key prefix.
	KeyPrefix string
}

// AnswerCache caches generated answers in Redis, keyed by model and
// question. Answers depend on the model, so the model is part of the
// key.
type AnswerCache struct {
	redis  *goredis.Client
	config *AnswerCacheConfig
}

// NewAnswerCache creates an AnswerCache.
func NewAnswerCache(redis *goredis.Client, config *AnswerCacheConfig) *AnswerCache {
	if config == nil {
		config = &AnswerCacheConfig{
			Enabled:   false,
			TTL:       time.Hour,
			KeyPrefix: "docuchat:answer:",
		}
	}
	return &AnswerCache{
		redis:  redis,
		config: config,
	}
}

func (c *AnswerCache) cacheKey(model, question string) string {
	hash := sha256.Sum256([]byte(model + "|" + question))
	return c.config.KeyPrefix + hex.EncodeToString(hash[:])
}

// Get returns the cached answer for model and question, or nil on a
// miss. Cache errors are logged and treated as misses.
func (c *AnswerCache) Get(ctx context.Context, model, question string) *Answer {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	key := c.cacheKey(model, question)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Warnw("failed to get from answer cache", "error", err.Error(), "key", key)
		}
		return nil
	}

	var answer Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		log.Warnw("failed to unmarshal cached answer, deleting", "error", err.Error(), "key", key)
		_ = c.redis.Del(ctx, key).Err()
		return nil
	}

	log.Debugw("answer cache hit", "key", key)
	return &answer
}

// Set caches the answer. Failures are logged, never propagated.
func (c *AnswerCache) Set(ctx context.Context, model, question string, answer *Answer) {
	if !c.config.Enabled || c.redis == nil {
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		log.Warnw("failed to marshal answer for caching", "error", err.Error())
		return
	}

	key := c.cacheKey(model, question)
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		log.Warnw("failed to set answer cache", "error", err.Error(), "key", key)
	}
}
