package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-space-reservation/internal/pkg/logger"
)

// ReservationCloser は利用終了済みの予約をクローズするインターフェース
type ReservationCloser interface {
	CloseFinishedReservations(ctx context.Context) (int, error)
}

// FinishedReservationCloser は利用期間を終えたAPPROVED予約を
// 定期的にCLOSEDへ遷移させるワーカー
type FinishedReservationCloser struct {
	reservationService ReservationCloser
	interval           time.Duration
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewFinishedReservationCloser は新しいクローザーを作成
func NewFinishedReservationCloser(rs ReservationCloser, interval time.Duration) *FinishedReservationCloser {
	return &FinishedReservationCloser{
		reservationService: rs,
		interval:           interval,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
}

// Start はクローザーを開始
func (w *FinishedReservationCloser) Start(ctx context.Context) {
	logger.Info("終了予約クローザー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("終了予約クローザー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("終了予約クローザー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.closeFinished(ctx)
		}
	}
}

// Stop はクローザーを停止
func (w *FinishedReservationCloser) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// closeFinished は終了済み予約をクローズ
func (w *FinishedReservationCloser) closeFinished(ctx context.Context) {
	log := logger.Get()
	log.Debug("終了予約のクローズ処理開始")

	count, err := w.reservationService.CloseFinishedReservations(ctx)
	if err != nil {
		log.Error("終了予約のクローズ処理失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("終了予約をクローズ", zap.Int("count", count))
	} else {
		log.Debug("クローズ対象の予約なし")
	}
}
