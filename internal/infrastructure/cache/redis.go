package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"hirehub/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL   = 10 * time.Minute
	dialTimeout  = 500 * time.Millisecond
	ioTimeout    = 500 * time.Millisecond
	unlinkBatch  = 100
	pingOnCreate = 2 * time.Second
)

var ErrUnavailable = errors.New("cache: redis unavailable")

// Redis stores JSON values. While the server is unreachable reads miss and writes fail,
// so callers fall back to the database; the client keeps redialing and recovers on its own.
type Redis struct {
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration

	degraded atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	r := &Redis{logger: logger, ttl: cfg.TTL}
	if r.ttl <= 0 {
		r.ttl = defaultTTL
	}

	r.client = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		MaxRetries:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingOnCreate)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.degraded.Store(true)
		r.logf("[Cache] Redis unavailable, serving from database until it recovers: addr=%s err=%v", cfg.Addr(), err)
		return r
	}

	r.logf("[Cache] Redis connected: addr=%s ttl=%s", cfg.Addr(), r.ttl)
	return r
}

func (r *Redis) enabled() bool { return r != nil && r.client != nil }

func (r *Redis) logf(format string, args ...any) {
	if r != nil && r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// observe logs when the server starts failing and again when it recovers.
func (r *Redis) observe(op string, err error) error {
	if err == nil {
		if r.degraded.CompareAndSwap(true, false) {
			r.logf("[Cache] Redis recovered")
		}
		return nil
	}
	if r.degraded.CompareAndSwap(false, true) {
		r.logf("[Cache] Redis %s failed, serving from database: %v", op, err)
	}
	return fmt.Errorf("cache %s: %w", op, err)
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.enabled() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.enabled() {
		return nil
	}
	return r.client.Close()
}

// GetJSON decodes key into out. A missing key reports (false, nil).
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.enabled() {
		return false, nil
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, r.observe("get", nil)
	}
	if err := r.observe("get", err); err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key. A non-positive ttl uses the configured default.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return r.observe("set", r.client.Set(ctx, key, raw, ttl).Err())
}

// DeleteByPattern unlinks every key matching a glob pattern such as "jobs:list:*".
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if !r.enabled() || pattern == "" {
		return nil
	}

	batch := make([]string, 0, unlinkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.client.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	iter := r.client.Scan(ctx, 0, pattern, unlinkBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return r.observe("unlink", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return r.observe("scan", err)
	}
	return r.observe("unlink", flush())
}

// Counter reads an integer key; a missing key is 0.
func (r *Redis) Counter(ctx context.Context, key string) (int64, error) {
	if !r.enabled() {
		return 0, ErrUnavailable
	}
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, r.observe("get", nil)
	}
	if err := r.observe("get", err); err != nil {
		return 0, err
	}
	return n, nil
}

// Incr bumps an integer key. The key never expires.
func (r *Redis) Incr(ctx context.Context, key string) error {
	if !r.enabled() {
		return nil
	}
	return r.observe("incr", r.client.Incr(ctx, key).Err())
}
