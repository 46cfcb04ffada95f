package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/octobees/leads-manager/internal/entity"
)

// DefaultTTL is how long a cached lead stays valid.
const DefaultTTL = 10 * time.Minute

// LeadCache is a read-through cache for single leads.
type LeadCache interface {
	FindByID(ctx context.Context, id int64) (*entity.Lead, error)
	EvictByID(ctx context.Context, id int64) error
	Cache(ctx context.Context, lead *entity.Lead) error
}

type redisLeadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLeadCache builds a LeadCache on top of a redis client. A non-positive ttl falls back to DefaultTTL.
func NewRedisLeadCache(client *redis.Client, ttl time.Duration) LeadCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisLeadCache{client: client, ttl: ttl}
}

// Connect parses a redis URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// FindByID returns the cached lead, or nil when the key is absent.
func (r *redisLeadCache) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	res, err := r.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var lead entity.Lead
	if err := msgpack.Unmarshal(res, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *redisLeadCache) EvictByID(ctx context.Context, id int64) error {
	return r.client.Del(ctx, Key(id)).Err()
}

func (r *redisLeadCache) Cache(ctx context.Context, lead *entity.Lead) error {
	encoded, err := msgpack.Marshal(lead)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, Key(lead.ID), encoded, r.ttl).Err()
}

// Key is the redis key under which a lead is stored.
func Key(id int64) string {
	return "lead:" + strconv.FormatInt(id, 10)
}
