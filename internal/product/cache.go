package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CachedRepo caches catalog listings in Redis. Only product reads are cached;
// wallet balances stay transaction-fresh. Cache failures degrade to the
// database.
type CachedRepo struct {
	next Repository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedRepo(next Repository, rdb *redis.Client, ttl time.Duration) *CachedRepo {
	return &CachedRepo{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedRepo) List(ctx context.Context, q string) ([]Product, error) {
	key := "products:q:" + q
	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var cached []Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		logrus.WithError(err).Warn("product cache read failed")
	}

	out, err := c.next.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			logrus.WithError(err).Warn("product cache write failed")
		}
	}
	return out, nil
}

func (c *CachedRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	return c.next.GetByID(ctx, id)
}
