package resource

import (
	"context"

	"github.com/sanosuguru/go-space-reservation/internal/domain/transaction"
)

// Filter はリソース一覧の検索条件を表す
type Filter struct {
	Name   string
	Status Status
	Page   int
	Limit  int
}

// Repository はリソースリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, id int64) (*Resource, error)
	GetByName(ctx context.Context, name string) (*Resource, error)
	List(ctx context.Context, f Filter) ([]*Resource, int, error)
	Update(ctx context.Context, r *Resource) error

	// DecrementQuantity は在庫数を条件付きで減算する
	// 在庫が不足している、またはリソースが非アクティブの場合は
	// 行を更新せず ErrInsufficientQuantity を返す（decrement-if-sufficient）
	DecrementQuantity(ctx context.Context, tx transaction.Tx, id int64, quantity int) error
}
