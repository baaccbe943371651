package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanosuguru/go-space-reservation/internal/domain/client"
)

type ClientService struct {
	clientRepo client.Repository
}

func NewClientService(cr client.Repository) *ClientService {
	return &ClientService{clientRepo: cr}
}

type CreateClientInput struct {
	Name      string
	CPF       string
	Email     string
	Phone     string
	BirthDate time.Time
}

func (s *ClientService) CreateClient(ctx context.Context, input CreateClientInput) (*client.Client, error) {
	c := client.NewClient(input.Name, input.CPF, input.Email, input.Phone, input.BirthDate)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	// CPF・メールアドレスの重複確認
	existing, err := s.clientRepo.GetByCPFOrEmail(ctx, input.CPF, input.Email)
	if err != nil && !errors.Is(err, client.ErrClientNotFound) {
		return nil, fmt.Errorf("重複チェックに失敗: %w", err)
	}
	if existing != nil {
		return nil, client.ErrClientAlreadyExists
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClientService) GetClient(ctx context.Context, id int64) (*client.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *ClientService) ListClients(ctx context.Context, f client.Filter) ([]*client.Client, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return s.clientRepo.List(ctx, f)
}

type UpdateClientInput struct {
	Name      *string
	Email     *string
	Phone     *string
	BirthDate *time.Time
	Status    *client.Status
}

// UpdateClient はクライアント情報を部分更新する。CPFは変更できない
func (s *ClientService) UpdateClient(ctx context.Context, id int64, input UpdateClientInput) (*client.Client, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.Email != nil {
		c.Email = *input.Email
	}
	if input.Phone != nil {
		c.Phone = *input.Phone
	}
	if input.BirthDate != nil {
		c.BirthDate = *input.BirthDate
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.clientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteClient はクライアントを論理削除する
func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Deactivate(); err != nil {
		return err
	}
	return s.clientRepo.Update(ctx, c)
}
