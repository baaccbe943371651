package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/space"
)

type SpaceService struct {
	spaceRepo       space.Repository
	reservationRepo reservation.Repository
}

func NewSpaceService(sr space.Repository, rr reservation.Repository) *SpaceService {
	return &SpaceService{spaceRepo: sr, reservationRepo: rr}
}

type CreateSpaceInput struct {
	Name        string
	Description string
	Capacity    int
}

func (s *SpaceService) CreateSpace(ctx context.Context, input CreateSpaceInput) (*space.Space, error) {
	sp := space.NewSpace(input.Name, input.Description, input.Capacity)
	if err := sp.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.spaceRepo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *SpaceService) GetSpace(ctx context.Context, id int64) (*space.Space, error) {
	return s.spaceRepo.GetByID(ctx, id)
}

func (s *SpaceService) ListSpaces(ctx context.Context, f space.Filter) ([]*space.Space, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return s.spaceRepo.List(ctx, f)
}

type UpdateSpaceInput struct {
	Name        *string
	Description *string
	Capacity    *int
	Status      *space.Status
}

func (s *SpaceService) UpdateSpace(ctx context.Context, id int64, input UpdateSpaceInput) (*space.Space, error) {
	sp, err := s.spaceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		sp.Name = *input.Name
	}
	if input.Description != nil {
		sp.Description = *input.Description
	}
	if input.Capacity != nil {
		sp.Capacity = *input.Capacity
	}
	if input.Status != nil {
		sp.Status = *input.Status
	}
	if err := sp.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.spaceRepo.Update(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// DeleteSpace はスペースを論理削除する
// CANCELED以外の予約が存在するスペースは削除できない
func (s *SpaceService) DeleteSpace(ctx context.Context, id int64) error {
	sp, err := s.spaceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.reservationRepo.CountActiveBySpace(ctx, id)
	if err != nil {
		return fmt.Errorf("予約数の取得に失敗: %w", err)
	}
	if count > 0 {
		return space.ErrSpaceHasReservations
	}

	if err := sp.Deactivate(); err != nil {
		return err
	}
	return s.spaceRepo.Update(ctx, sp)
}
