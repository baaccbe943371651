package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
)

type ResourceService struct {
	resourceRepo resource.Repository
}

func NewResourceService(rr resource.Repository) *ResourceService {
	return &ResourceService{resourceRepo: rr}
}

type CreateResourceInput struct {
	Name        string
	Description string
	Quantity    int
}

func (s *ResourceService) CreateResource(ctx context.Context, input CreateResourceInput) (*resource.Resource, error) {
	r := resource.NewResource(input.Name, input.Description, input.Quantity)
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.resourceRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ResourceService) GetResource(ctx context.Context, id int64) (*resource.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

func (s *ResourceService) ListResources(ctx context.Context, f resource.Filter) ([]*resource.Resource, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return s.resourceRepo.List(ctx, f)
}

type UpdateResourceInput struct {
	Name        *string
	Description *string
	Quantity    *int
	Status      *resource.Status
}

func (s *ResourceService) UpdateResource(ctx context.Context, id int64, input UpdateResourceInput) (*resource.Resource, error) {
	r, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		r.Name = *input.Name
	}
	if input.Description != nil {
		r.Description = *input.Description
	}
	if input.Quantity != nil {
		r.Quantity = *input.Quantity
	}
	if input.Status != nil {
		r.Status = *input.Status
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.resourceRepo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteResource はリソースを論理削除する
// 非アクティブなリソースは新規予約で利用できなくなるが、既存予約には影響しない
func (s *ResourceService) DeleteResource(ctx context.Context, id int64) error {
	r, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.Deactivate(); err != nil {
		return err
	}
	return s.resourceRepo.Update(ctx, r)
}
