package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-space-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-space-reservation/internal/pkg/logger"
)

const availabilityCacheTTL = 30 * time.Second

// AvailabilityChecker はスペースの空き状況を判定する
type AvailabilityChecker struct {
	reservationRepo reservation.Repository
	cache           redisinfra.AvailabilityCacheInterface
}

func NewAvailabilityChecker(rr reservation.Repository, cache redisinfra.AvailabilityCacheInterface) *AvailabilityChecker {
	return &AvailabilityChecker{reservationRepo: rr, cache: cache}
}

// IsDateAvailable は指定スペース・期間に重複する予約がないかを判定する
// 半開区間 [start, end) で比較するため、境界が接するだけの予約は重複扱いにならない。
// CANCELED状態の予約は判定から除外される。
// excludeID > 0 の場合はその予約自身を除外する（期間変更時の再チェック用）
func (c *AvailabilityChecker) IsDateAvailable(ctx context.Context, tx transaction.Tx, spaceID int64, startDate, endDate time.Time, excludeID int64) (bool, error) {
	count, err := c.reservationRepo.CountOverlapping(ctx, tx, spaceID, startDate, endDate, excludeID)
	if err != nil {
		return false, fmt.Errorf("重複チェックに失敗: %w", err)
	}
	return count == 0, nil
}

// CountActive はスペースのCANCELED以外の予約件数を返す
// キャッシュヒット時はDBを参照しない
func (c *AvailabilityChecker) CountActive(ctx context.Context, spaceID int64) (int, error) {
	if c.cache != nil {
		count, err := c.cache.GetActiveCount(ctx, spaceID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.Int64("space_id", spaceID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	count, err := c.reservationRepo.CountActiveBySpace(ctx, spaceID)
	if err != nil {
		return 0, err
	}

	if c.cache != nil {
		if cacheErr := c.cache.SetActiveCount(ctx, spaceID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return count, nil
}

// InvalidateCache はスペースの予約件数キャッシュを無効化する
func (c *AvailabilityChecker) InvalidateCache(ctx context.Context, spaceID int64) {
	if c.cache != nil {
		if err := c.cache.Invalidate(ctx, spaceID); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Error(err))
		}
	}
}
