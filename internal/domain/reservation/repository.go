package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-space-reservation/internal/domain/transaction"
)

// Filter は予約一覧の検索条件を表す
type Filter struct {
	Status      Status
	ClientName  string
	ClientCPF   string
	ClientPhone string
	SpaceName   string
	Page        int
	Limit       int
}

// LineView はリソース名に解決済みの予約リソース行
type LineView struct {
	Resource string
	Quantity int
}

// View はクライアント・スペース情報を解決した予約の読み取りビュー
type View struct {
	Reservation
	ClientName  string
	ClientCPF   string
	ClientEmail string
	ClientPhone string
	SpaceName   string
	Lines       []LineView
}

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約をリソース行と共に作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id int64) (*Reservation, error)

	// GetView はIDから読み取りビューを取得する
	GetView(ctx context.Context, id int64) (*View, error)

	// List は検索条件に一致する予約ビューの一覧と総件数を取得する
	List(ctx context.Context, f Filter) ([]*View, int, error)

	// Update は予約のステータスと期間を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// CountOverlapping は指定スペース・期間と半開区間で重複する
	// CANCELED以外の予約数を数える。excludeID > 0 の場合その予約を除外する。
	// tx が nil でなければ同一トランザクション内で実行する
	CountOverlapping(ctx context.Context, tx transaction.Tx, spaceID int64, startDate, endDate time.Time, excludeID int64) (int, error)

	// GetApprovedEndedBefore は指定時刻より前に終了したAPPROVED予約を取得する
	GetApprovedEndedBefore(ctx context.Context, t time.Time) ([]*Reservation, error)

	// CountActiveBySpace は指定スペースのCANCELED以外の予約数を数える
	CountActiveBySpace(ctx context.Context, spaceID int64) (int, error)
}
