package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HourRange закэшированный свободный интервал
type HourRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityCache кэш свободных часов учителя на день.
// Nil-safe: методы на nil-кэше работают как промах.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New подключается к Redis. Пустой адрес отключает кэш (возвращает nil).
func New(ctx context.Context, addr string, logger *zap.Logger) (*AvailabilityCache, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &AvailabilityCache{
		client: client,
		ttl:    5 * time.Minute,
		logger: logger,
	}, nil
}

func dayKey(teacherID int64, date time.Time) string {
	return fmt.Sprintf("availability:%d:%s", teacherID, date.Format("2006-01-02"))
}

// Get получает свободные часы учителя на день. (nil, false) - промах
func (c *AvailabilityCache) Get(ctx context.Context, teacherID int64, date time.Time) ([]HourRange, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, dayKey(teacherID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("availability cache get failed", zap.Error(err))
		}
		return nil, false
	}

	var hours []HourRange
	if err := json.Unmarshal(raw, &hours); err != nil {
		c.logger.Warn("availability cache decode failed", zap.Error(err))
		return nil, false
	}

	return hours, true
}

// Set сохраняет свободные часы учителя на день
func (c *AvailabilityCache) Set(ctx context.Context, teacherID int64, date time.Time, hours []HourRange) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(hours)
	if err != nil {
		c.logger.Warn("availability cache encode failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, dayKey(teacherID, date), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache set failed", zap.Error(err))
	}
}

// InvalidateDay сбрасывает кэш дня после изменения уроков учителя
func (c *AvailabilityCache) InvalidateDay(ctx context.Context, teacherID int64, date time.Time) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, dayKey(teacherID, date)).Err(); err != nil {
		c.logger.Warn("availability cache invalidate failed", zap.Error(err))
	}
}

// Close закрывает соединение с Redis
func (c *AvailabilityCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
