package space

import "context"

// Filter はスペース一覧の検索条件を表す
type Filter struct {
	Name     string
	Capacity int
	Status   Status
	Page     int
	Limit    int
}

// Repository はスペースリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, s *Space) error
	GetByID(ctx context.Context, id int64) (*Space, error)
	GetByName(ctx context.Context, name string) (*Space, error)
	List(ctx context.Context, f Filter) ([]*Space, int, error)
	Update(ctx context.Context, s *Space) error
}
