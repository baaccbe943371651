package reservation

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusApproved Status = "APPROVED"
	StatusClosed   Status = "CLOSED"
	StatusCanceled Status = "CANCELED"
)

// IsValid は既知のステータスかを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusApproved, StatusClosed, StatusCanceled:
		return true
	}
	return false
}

// ResourceLine は予約が保持するリソースの要求数量を表す
// 親予約と同時に作成され、作成後は変更不可
type ResourceLine struct {
	ResourceID int64
	Quantity   int
}

// Reservation は予約エンティティを表す
type Reservation struct {
	ID        int64
	SpaceID   int64
	ClientID  int64
	StartDate time.Time
	EndDate   time.Time
	Status    Status
	Resources []ResourceLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReservation は新しい予約をOPEN状態で作成する
func NewReservation(spaceID, clientID int64, startDate, endDate time.Time, resources []ResourceLine) *Reservation {
	now := time.Now()
	return &Reservation{
		SpaceID:   spaceID,
		ClientID:  clientID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    StatusOpen,
		Resources: resources,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.SpaceID == 0 {
		return ErrSpaceIDRequired
	}
	if r.ClientID == 0 {
		return ErrClientIDRequired
	}
	if r.EndDate.Before(r.StartDate) {
		return ErrInvalidDateRange
	}
	if len(r.Resources) == 0 {
		return ErrResourcesRequired
	}
	for _, line := range r.Resources {
		if line.ResourceID == 0 || line.Quantity <= 0 {
			return ErrInvalidResourceLine
		}
	}
	return nil
}

// IsOpen は予約がOPEN状態かを返す
func (r *Reservation) IsOpen() bool {
	return r.Status == StatusOpen
}

// Approve は予約を承認する（OPEN → APPROVED）
func (r *Reservation) Approve() error {
	if r.Status != StatusOpen {
		return ErrOnlyOpenCanBeApproved
	}
	r.Status = StatusApproved
	r.UpdatedAt = time.Now()
	return nil
}

// Close は予約を完了する（APPROVED → CLOSED）
func (r *Reservation) Close() error {
	if r.Status != StatusApproved {
		return ErrOnlyApprovedCanBeClosed
	}
	r.Status = StatusClosed
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel は予約をキャンセルする（OPEN → CANCELED、論理削除専用）
func (r *Reservation) Cancel() error {
	if r.Status != StatusOpen {
		return ErrOnlyOpenCanBeCanceled
	}
	r.Status = StatusCanceled
	r.UpdatedAt = time.Now()
	return nil
}

// ApplyStatus は部分更新リクエストのステータス遷移を適用する
// CANCELEDへの変更は論理削除経由でのみ許可されるため、更新経由では常に拒否する
func (r *Reservation) ApplyStatus(next Status) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	switch next {
	case StatusCanceled:
		return ErrCancelViaUpdate
	case StatusApproved:
		return r.Approve()
	case StatusClosed:
		return r.Close()
	default: // StatusOpen
		// OPENへ戻る遷移は存在しない
		if r.Status != StatusOpen {
			return ErrInvalidTransition
		}
		return nil
	}
}

// UpdateDates は予約期間を変更する
// CLOSED状態の予約は変更できない。新しい期間の重複チェックは呼び出し側で行う
func (r *Reservation) UpdateDates(startDate, endDate time.Time) error {
	if r.Status == StatusClosed {
		return ErrDateUpdateNotAllowed
	}
	if endDate.Before(startDate) {
		return ErrInvalidDateRange
	}
	r.StartDate = startDate
	r.EndDate = endDate
	r.UpdatedAt = time.Now()
	return nil
}
