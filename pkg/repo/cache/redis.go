package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	r "github.com/redis/go-redis/v9"

	"github.com/scienceol/chemlookup/pkg/common/code"
	"github.com/scienceol/chemlookup/pkg/repo"
)

type redisImpl struct {
	client *r.Client
	prefix string
	ttl    time.Duration
}

// NewRedis stores results as JSON under prefix+key. ttl <= 0 never expires.
func NewRedis(client *r.Client, prefix string, ttl time.Duration) repo.CompoundCache {
	return &redisImpl{client: client, prefix: prefix, ttl: ttl}
}

func (c *redisImpl) Get(ctx context.Context, key string) ([]*repo.CompoundInfo, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, code.CacheErr.WithErr(err)
	}

	data := make([]*repo.CompoundInfo, 0, 1)
	if err := json.Unmarshal(raw, &data); err != nil {
		// 脏数据直接丢弃
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return nil, false, code.CacheErr.WithErr(err)
	}
	return data, true, nil
}

func (c *redisImpl) Set(ctx context.Context, key string, data []*repo.CompoundInfo) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return code.CacheErr.WithErr(err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return code.CacheErr.WithErr(err)
	}
	return nil
}
