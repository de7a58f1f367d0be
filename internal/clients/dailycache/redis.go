package dailycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

const keyPrefix = "strengths:day"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisCache(cfg RedisConfig, log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{
		log: log.With("client", "RedisDayCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func Key(deviceID, date string) string {
	return keyPrefix + ":" + deviceID + ":" + date
}

func (c *redisCache) Get(ctx context.Context, deviceID, date string) (*types.DayView, error) {
	raw, err := c.rdb.Get(ctx, Key(deviceID, date)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var view types.DayView
	if err := json.Unmarshal(raw, &view); err != nil {
		c.log.Warn("dropping undecodable day view", "device_id", deviceID, "for_date", date, "error", err)
		_ = c.rdb.Del(ctx, Key(deviceID, date)).Err()
		return nil, nil
	}
	return &view, nil
}

func (c *redisCache) Set(ctx context.Context, deviceID, date string, view *types.DayView) error {
	if view == nil {
		return nil
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(deviceID, date), raw, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, deviceID, date string) error {
	return c.rdb.Del(ctx, Key(deviceID, date)).Err()
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
