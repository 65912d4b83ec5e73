package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arnavshah/seating-api-go/pkg/config"
	"github.com/arnavshah/seating-api-go/pkg/models"
)

const (
	resultPrefix    = "seating:result:"
	rateLimitPrefix = "seating:ratelimit:"
)

// Client wraps redis for optimization results and daily request counters.
// A nil *Client is valid: every lookup misses and every write is dropped.
type Client struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient connects to redis and pings it
func NewClient(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// Fingerprint hashes the canonical JSON encoding of an optimization request.
// Identical requests, options included, share a fingerprint.
func Fingerprint(in models.OptimizeInput) (string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode input: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Cacheable reports whether a result is the same on every rerun of its input.
// Runs cut short by the clock or the caller depend on timing.
func Cacheable(res *models.OptimizeResult) bool {
	switch res.Diagnostics.StoppedBy {
	case models.StopConverged, models.StopLocked:
		return true
	}
	return false
}

// GetResult returns a cached result for the fingerprint
func (c *Client) GetResult(ctx context.Context, fingerprint string) (*models.OptimizeResult, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, resultPrefix+fingerprint).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var res models.OptimizeResult
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("dropping unreadable cached result", zap.String("fingerprint", fingerprint), zap.Error(err))
		_ = c.rdb.Del(ctx, resultPrefix+fingerprint).Err()
		return nil, false, nil
	}
	return &res, true, nil
}

// SetResult stores a result when it is cacheable
func (c *Client) SetResult(ctx context.Context, fingerprint string, res *models.OptimizeResult) error {
	if c == nil || !Cacheable(res) {
		return nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, resultPrefix+fingerprint, data, c.ttl).Err()
}

func rateLimitKey(keyID uint, now time.Time) string {
	return fmt.Sprintf("%s%d:%s", rateLimitPrefix, keyID, now.UTC().Format("2006-01-02"))
}

// IncrDaily counts one request for the key on the current UTC day and returns
// the day's total so far.
func (c *Client) IncrDaily(ctx context.Context, keyID uint, now time.Time) (int64, error) {
	if c == nil {
		return 0, nil
	}
	key := rateLimitKey(keyID, now)

	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 25*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Close closes the redis connection
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
