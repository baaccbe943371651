package user

import "context"

// Repository はユーザーリポジトリのインターフェース
// Auth側はこのインターフェースのみに依存する
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
