package repository

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/userdesk/user-service/shared/models"
	sharedredis "github.com/userdesk/user-service/shared/redis"
)

const userViewKeyPrefix = "user:view:"

// UserViewCache keeps UserView projections in Redis, keyed by id.
// A nil *UserViewCache is valid and caches nothing.
type UserViewCache struct {
	cache *sharedredis.ViewCache[models.UserView]
}

func NewUserViewCache(redisClient *goredis.Client, ttl time.Duration, log *slog.Logger) *UserViewCache {
	return &UserViewCache{cache: sharedredis.NewViewCache[models.UserView](redisClient, ttl, log)}
}

func (c *UserViewCache) Get(ctx context.Context, id int64) (*models.UserView, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(ctx, userViewKey(id))
}

// Fill caches view unless the user was invalidated since it was read.
func (c *UserViewCache) Fill(ctx context.Context, view *models.UserView) {
	if c == nil {
		return
	}
	c.cache.Fill(ctx, userViewKey(view.ID), view)
}

// Invalidate drops the cached view after an update or delete.
func (c *UserViewCache) Invalidate(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	c.cache.Invalidate(ctx, userViewKey(id))
}

func userViewKey(id int64) string {
	return userViewKeyPrefix + strconv.FormatInt(id, 10)
}
