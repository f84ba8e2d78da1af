package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const responseCachePrefix = "llm:resp:"

// cachedBackend memoises deterministic (temperature 0) completions in Redis.
// Redis failures never fail the call.
type cachedBackend struct {
	next    GenerationBackend
	rdb     *redis.Client
	ttl     time.Duration
	metrics *Metrics
}

func NewCachedBackend(next GenerationBackend, rdb *redis.Client, ttl time.Duration, metrics *Metrics) GenerationBackend {
	return &cachedBackend{next: next, rdb: rdb, ttl: ttl, metrics: metrics}
}

func (c *cachedBackend) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if req.Temperature != 0 || c.rdb == nil {
		return c.next.Generate(ctx, req)
	}

	key := responseCacheKey(req)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.metrics.CacheLookup(true)
		return cached, nil
	case errors.Is(err, redis.Nil):
		c.metrics.CacheLookup(false)
	default:
		log.Printf("⚠️  Response cache read failed: %v\n", err)
	}

	text, err := c.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		log.Printf("⚠️  Response cache write failed: %v\n", err)
	}

	return text, nil
}

func responseCacheKey(req GenerationRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|", req.Model, strconv.FormatFloat(float64(req.Temperature), 'f', -1, 32), strconv.FormatBool(req.JSONMode), req.MaxOutputTokens)
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	return responseCachePrefix + hex.EncodeToString(h.Sum(nil))
}
