package cache

import (
	"context"
	"time"

	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/middleware/redis"
	"github.com/scienceol/chemlookup/pkg/repo"
)

type noneImpl struct{}

// NewNone never hits.
func NewNone() repo.CompoundCache {
	return noneImpl{}
}

func (noneImpl) Get(context.Context, string) ([]*repo.CompoundInfo, bool, error) {
	return nil, false, nil
}

func (noneImpl) Set(context.Context, string, []*repo.CompoundInfo) error {
	return nil
}

// New picks the backend named by conf. The redis backend needs
// redis.InitRedis to have run and falls back to memory otherwise.
func New(conf *config.Cache) repo.CompoundCache {
	ttl := time.Duration(conf.TTL) * time.Second
	switch conf.Backend {
	case config.CacheNone:
		return NewNone()
	case config.CacheRedis:
		if client := redis.GetClient(); client != nil {
			return NewRedis(client, conf.Prefix, ttl)
		}
		return NewMemory(ttl)
	default:
		return NewMemory(ttl)
	}
}
