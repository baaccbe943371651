package client

import "context"

// Filter はクライアント一覧の検索条件を表す
type Filter struct {
	Name   string
	CPF    string
	Email  string
	Status Status
	Page   int
	Limit  int
}

// Repository はクライアントリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id int64) (*Client, error)
	GetByCPFOrEmail(ctx context.Context, cpf, email string) (*Client, error)
	List(ctx context.Context, f Filter) ([]*Client, int, error)
	Update(ctx context.Context, c *Client) error
}
