package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
)

func TestInventoryManager_ValidateLines(t *testing.T) {
	ctx := context.Background()

	t.Run("全リソースが利用可能", func(t *testing.T) {
		repo := new(MockResourceRepository)
		manager := NewInventoryManager(repo)

		repo.On("GetByID", ctx, int64(1)).Return(activeResource(1, 5), nil)
		repo.On("GetByID", ctx, int64(2)).Return(activeResource(2, 10), nil)

		err := manager.ValidateLines(ctx, []reservation.ResourceLine{
			{ResourceID: 1, Quantity: 3},
			{ResourceID: 2, Quantity: 10},
		})

		require.NoError(t, err)
	})

	t.Run("存在しないリソース", func(t *testing.T) {
		repo := new(MockResourceRepository)
		manager := NewInventoryManager(repo)

		repo.On("GetByID", ctx, int64(99)).Return(nil, resource.ErrResourceNotFound)

		err := manager.ValidateLines(ctx, []reservation.ResourceLine{{ResourceID: 99, Quantity: 1}})

		assert.ErrorIs(t, err, resource.ErrResourceNotFound)
	})

	t.Run("非アクティブなリソース", func(t *testing.T) {
		repo := new(MockResourceRepository)
		manager := NewInventoryManager(repo)

		inactive := activeResource(1, 5)
		inactive.Status = resource.StatusInactive
		repo.On("GetByID", ctx, int64(1)).Return(inactive, nil)

		err := manager.ValidateLines(ctx, []reservation.ResourceLine{{ResourceID: 1, Quantity: 1}})

		assert.ErrorIs(t, err, resource.ErrResourceNotActive)
	})

	t.Run("在庫不足", func(t *testing.T) {
		repo := new(MockResourceRepository)
		manager := NewInventoryManager(repo)

		repo.On("GetByID", ctx, int64(1)).Return(activeResource(1, 2), nil)

		err := manager.ValidateLines(ctx, []reservation.ResourceLine{{ResourceID: 1, Quantity: 3}})

		assert.ErrorIs(t, err, resource.ErrInsufficientQuantity)
	})
}

func TestInventoryManager_CommitLines(t *testing.T) {
	ctx := context.Background()

	t.Run("全行を減算する", func(t *testing.T) {
		repo := new(MockResourceRepository)
		tx := new(MockTx)
		manager := NewInventoryManager(repo)

		repo.On("DecrementQuantity", ctx, tx, int64(1), 2).Return(nil)
		repo.On("DecrementQuantity", ctx, tx, int64(2), 1).Return(nil)

		err := manager.CommitLines(ctx, tx, []reservation.ResourceLine{
			{ResourceID: 1, Quantity: 2},
			{ResourceID: 2, Quantity: 1},
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("減算失敗時は即座に中断する", func(t *testing.T) {
		repo := new(MockResourceRepository)
		tx := new(MockTx)
		manager := NewInventoryManager(repo)

		repo.On("DecrementQuantity", ctx, tx, int64(1), 2).Return(resource.ErrInsufficientQuantity)

		err := manager.CommitLines(ctx, tx, []reservation.ResourceLine{
			{ResourceID: 1, Quantity: 2},
			{ResourceID: 2, Quantity: 1},
		})

		assert.ErrorIs(t, err, resource.ErrInsufficientQuantity)
		repo.AssertNotCalled(t, "DecrementQuantity", ctx, tx, int64(2), 1)
	})
}
