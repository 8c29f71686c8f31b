package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client wraps redis.Client but fails safe: every Redis error behaves like a
// cache miss. A nil Client is valid and caches nothing.
type Client struct {
	client *redis.Client
}

// New returns nil when addr is empty so callers can run without Redis.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})}
}

// Redis exposes the underlying client, nil when caching is disabled.
func (c *Client) Redis() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return res, true
}

func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
}

// Generation reads a counter key; a missing key is generation 0. ok is false
// when Redis could not answer.
func (c *Client) Generation(ctx context.Context, key string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	gen, err := c.client.Get(ctx, key).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		return 0, false
	}
	return gen, true
}

// Bump advances a counter key and keeps it alive for ttl.
func (c *Client) Bump(ctx context.Context, key string, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	_, _ = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, key)
		p.Expire(ctx, key, ttl)
		return nil
	})
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ======================================================
// BOOKED TIMES
// ======================================================

// BookedTimes caches the confirmed times of one barber on one date. Entries
// are keyed by a per-slot generation that Invalidate advances, so a reader
// that loaded times before an invalidation stores them under a key nobody
// reads any more.
type BookedTimes struct {
	c   *Client
	ttl time.Duration
}

// generationTTL outlives every entry written under a generation.
const generationTTL = 24 * time.Hour

func NewBookedTimes(c *Client, ttl time.Duration) *BookedTimes {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &BookedTimes{c: c, ttl: ttl}
}

func BookedTimesKey(barberID, date string, gen int64) string {
	return "booked:" + barberID + ":" + date + ":" + strconv.FormatInt(gen, 10)
}

func bookedGenerationKey(barberID, date string) string {
	return "booked:gen:" + barberID + ":" + date
}

func (b *BookedTimes) Get(ctx context.Context, barberID, date string) ([]string, int64, bool) {
	gen, ok := b.c.Generation(ctx, bookedGenerationKey(barberID, date))
	if !ok {
		return nil, -1, false
	}
	raw, ok := b.c.Get(ctx, BookedTimesKey(barberID, date, gen))
	if !ok {
		return nil, gen, false
	}
	var times []string
	if err := json.Unmarshal(raw, &times); err != nil {
		return nil, gen, false
	}
	return times, gen, true
}

// Set ignores a negative generation, which Get reports when Redis is down.
func (b *BookedTimes) Set(ctx context.Context, barberID, date string, gen int64, times []string) {
	if gen < 0 {
		return
	}
	raw, err := json.Marshal(times)
	if err != nil {
		return
	}
	b.c.Set(ctx, BookedTimesKey(barberID, date, gen), raw, b.ttl)
}

func (b *BookedTimes) Invalidate(ctx context.Context, barberID, date string) {
	b.c.Bump(ctx, bookedGenerationKey(barberID, date), generationTTL)
}
