package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("キャッシュが見つかりません")

// AvailabilityCacheInterface は有効予約件数キャッシュの操作を抽象化する
type AvailabilityCacheInterface interface {
	GetActiveCount(ctx context.Context, spaceID int64) (int, error)
	SetActiveCount(ctx context.Context, spaceID int64, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, spaceID int64) error
}

// AvailabilityCache はスペースごとの有効予約件数のキャッシュを管理する
type AvailabilityCache struct {
	client *redis.Client
}

var _ AvailabilityCacheInterface = (*AvailabilityCache)(nil)

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetActiveCount はスペースの有効予約件数をキャッシュから取得する
func (c *AvailabilityCache) GetActiveCount(ctx context.Context, spaceID int64) (int, error) {
	val, err := c.client.Get(ctx, c.activeCountKey(spaceID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetActiveCount はスペースの有効予約件数をキャッシュに保存する
func (c *AvailabilityCache) SetActiveCount(ctx context.Context, spaceID int64, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.activeCountKey(spaceID), count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はスペースのキャッシュを無効化する
// 予約の作成・キャンセル時に呼ばれる
func (c *AvailabilityCache) Invalidate(ctx context.Context, spaceID int64) error {
	if err := c.client.Del(ctx, c.activeCountKey(spaceID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) activeCountKey(spaceID int64) string {
	return fmt.Sprintf("reservations:active:%d", spaceID)
}
