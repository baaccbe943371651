package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-space-reservation/internal/domain/client"
	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
	"github.com/sanosuguru/go-space-reservation/internal/domain/space"
	"github.com/sanosuguru/go-space-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-space-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-space-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-space-reservation/internal/pkg/metrics"
)

const (
	reservationLockTTL = 10 * time.Second
	lockMaxRetries     = 3
	lockRetryDelay     = 100 * time.Millisecond
)

// Notifier は予約に関する通知の送信を抽象化する
type Notifier interface {
	Send(to, subject, body string) error
}

type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	spaceRepo       space.Repository
	clientRepo      client.Repository
	availability    *AvailabilityChecker
	inventory       *InventoryManager
	lockManager     redisinfra.LockManagerInterface
	notifier        Notifier
}

func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	sr space.Repository,
	cr client.Repository,
	availability *AvailabilityChecker,
	inventory *InventoryManager,
	lm redisinfra.LockManagerInterface,
	notifier Notifier,
) *ReservationService {
	return &ReservationService{
		txManager:       txm,
		reservationRepo: rr,
		spaceRepo:       sr,
		clientRepo:      cr,
		availability:    availability,
		inventory:       inventory,
		lockManager:     lm,
		notifier:        notifier,
	}
}

type CreateReservationInput struct {
	SpaceID   int64
	ClientID  int64
	StartDate time.Time
	EndDate   time.Time
	Resources []reservation.ResourceLine
}

func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.View, error) {
	res := reservation.NewReservation(input.SpaceID, input.ClientID, input.StartDate, input.EndDate, input.Resources)
	if err := res.Validate(); err != nil {
		return nil, err
	}

	// スペース単位の分散ロックで同一スペースへの同時作成を直列化する
	if s.lockManager != nil {
		lockStart := time.Now()
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, s.spaceLockKey(input.SpaceID), reservationLockTTL, lockMaxRetries, lockRetryDelay)
		s.observeLock("acquire", err == nil, time.Since(lockStart))
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countReservation("lock_failed")
				return nil, fmt.Errorf("スペースが他のユーザーによって処理中です")
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	// スペース確認
	sp, err := s.spaceRepo.GetByID(ctx, input.SpaceID)
	if err != nil {
		return nil, err
	}
	if !sp.IsActive() {
		return nil, space.ErrSpaceNotActive
	}

	// リソースの存在・在庫確認
	if err := s.inventory.ValidateLines(ctx, res.Resources); err != nil {
		if errors.Is(err, resource.ErrInsufficientQuantity) {
			s.countReservation("insufficient")
		}
		return nil, err
	}

	// トランザクション
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 重複チェックは同一トランザクション内で行い、ロック取得からコミットまでの間の
	// 競合作成を確実に検知する
	available, err := s.availability.IsDateAvailable(ctx, tx, res.SpaceID, res.StartDate, res.EndDate, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		s.countReservation("conflict")
		return nil, reservation.ErrDateConflict
	}

	// クライアント確認
	cl, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !cl.IsActive() {
		return nil, client.ErrClientNotActive
	}

	if err := s.inventory.CommitLines(ctx, tx, res.Resources); err != nil {
		if errors.Is(err, resource.ErrInsufficientQuantity) {
			s.countReservation("insufficient")
		}
		return nil, err
	}

	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		s.countReservation("error")
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countReservation("created")
	s.availability.InvalidateCache(ctx, res.SpaceID)

	return s.reservationRepo.GetView(ctx, res.ID)
}

func (s *ReservationService) spaceLockKey(spaceID int64) string {
	return fmt.Sprintf("space:%d", spaceID)
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*reservation.View, error) {
	return s.reservationRepo.GetView(ctx, id)
}

func (s *ReservationService) ListReservations(ctx context.Context, f reservation.Filter) ([]*reservation.View, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return s.reservationRepo.List(ctx, f)
}

type UpdateReservationInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *reservation.Status
}

// UpdateReservation は予約のステータス遷移と期間変更を部分更新として適用する
// CANCELEDへの変更は論理削除（SoftDeleteReservation）経由でのみ許可される
func (s *ReservationService) UpdateReservation(ctx context.Context, id int64, input UpdateReservationInput) (*reservation.View, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 現在値と同じステータス指定も遷移規則で判定する
	// （CANCELED指定やAPPROVED再指定を黙って受理しない）
	prevStatus := res.Status
	if input.Status != nil {
		if err := res.ApplyStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	datesChanged := input.StartDate != nil || input.EndDate != nil
	if datesChanged {
		startDate := res.StartDate
		endDate := res.EndDate
		if input.StartDate != nil {
			startDate = *input.StartDate
		}
		if input.EndDate != nil {
			endDate = *input.EndDate
		}
		if err := res.UpdateDates(startDate, endDate); err != nil {
			return nil, err
		}
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if datesChanged {
		// 自分自身を除外して新しい期間の重複を再チェックする
		available, err := s.availability.IsDateAvailable(ctx, tx, res.SpaceID, res.StartDate, res.EndDate, res.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, reservation.ErrDateConflict
		}
	}

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	view, err := s.reservationRepo.GetView(ctx, res.ID)
	if err != nil {
		return nil, err
	}

	// 承認時の通知はコミット後に送信し、失敗しても予約の更新は取り消さない
	if prevStatus == reservation.StatusOpen && res.Status == reservation.StatusApproved {
		s.countTransition("approve")
		s.sendApprovalEmail(view)
	} else if prevStatus == reservation.StatusApproved && res.Status == reservation.StatusClosed {
		s.countTransition("close")
	}

	return view, nil
}

// SoftDeleteReservation は予約を論理削除する（OPEN → CANCELED）
// キャンセルしても引き当て済みの在庫は復元しない
func (s *ReservationService) SoftDeleteReservation(ctx context.Context, id int64) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.Cancel(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countTransition("cancel")
	s.availability.InvalidateCache(ctx, res.SpaceID)

	return res, nil
}

// CloseFinishedReservations は終了時刻を過ぎたAPPROVED予約をCLOSEDに遷移させる
// 個々の予約の失敗は記録して続行し、成功した件数を返す
func (s *ReservationService) CloseFinishedReservations(ctx context.Context) (int, error) {
	finished, err := s.reservationRepo.GetApprovedEndedBefore(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("終了済み予約取得に失敗: %w", err)
	}

	closed := 0
	for _, res := range finished {
		if err := s.closeReservation(ctx, res); err != nil {
			logger.Warn("予約の完了処理に失敗",
				zap.Int64("reservation_id", res.ID),
				zap.Error(err))
			continue
		}
		closed++
	}
	return closed, nil
}

func (s *ReservationService) closeReservation(ctx context.Context, res *reservation.Reservation) error {
	if err := res.Close(); err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countTransition("close")
	return nil
}

func (s *ReservationService) sendApprovalEmail(view *reservation.View) {
	if s.notifier == nil || view.ClientEmail == "" {
		return
	}
	subject := "ご予約が承認されました"
	body := fmt.Sprintf(
		"%s 様\n\n%s のご予約（%s 〜 %s）が承認されました。\n当日のご利用をお待ちしております。\n",
		view.ClientName,
		view.SpaceName,
		view.StartDate.Format("2006-01-02 15:04"),
		view.EndDate.Format("2006-01-02 15:04"),
	)
	if err := s.notifier.Send(view.ClientEmail, subject, body); err != nil {
		logger.Warn("承認メール送信に失敗",
			zap.Int64("reservation_id", view.ID),
			zap.Error(err))
		s.countEmail("failed")
		return
	}
	s.countEmail("sent")
}

func (s *ReservationService) countReservation(result string) {
	if m := metrics.Get(); m != nil {
		m.ReservationsTotal.WithLabelValues(result).Inc()
	}
}

func (s *ReservationService) countTransition(transition string) {
	if m := metrics.Get(); m != nil {
		m.ReservationTransitionsTotal.WithLabelValues(transition).Inc()
	}
}

func (s *ReservationService) countEmail(status string) {
	if m := metrics.Get(); m != nil {
		m.ApprovalEmailsTotal.WithLabelValues(status).Inc()
	}
}

func (s *ReservationService) observeLock(operation string, success bool, d time.Duration) {
	if m := metrics.Get(); m != nil {
		status := "success"
		if !success {
			status = "failed"
		}
		m.DistributedLockDuration.WithLabelValues(operation, status).Observe(d.Seconds())
	}
}
