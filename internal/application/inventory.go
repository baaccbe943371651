package application

import (
	"context"

	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
	"github.com/sanosuguru/go-space-reservation/internal/domain/transaction"
)

// InventoryManager は予約リソース行に対する在庫の検証と引き当てを行う
type InventoryManager struct {
	resourceRepo resource.Repository
}

func NewInventoryManager(rr resource.Repository) *InventoryManager {
	return &InventoryManager{resourceRepo: rr}
}

// ValidateLines は各リソースが存在し、アクティブで、在庫が十分であることを検証する
func (m *InventoryManager) ValidateLines(ctx context.Context, lines []reservation.ResourceLine) error {
	for _, line := range lines {
		res, err := m.resourceRepo.GetByID(ctx, line.ResourceID)
		if err != nil {
			return err
		}
		if !res.IsActive() {
			return resource.ErrResourceNotActive
		}
		if !res.HasEnough(line.Quantity) {
			return resource.ErrInsufficientQuantity
		}
	}
	return nil
}

// CommitLines はトランザクション内で各リソースの在庫を条件付きで減算する
// 減算は在庫が十分な場合のみ成立し、不足時は resource.ErrInsufficientQuantity を返す。
// ValidateLines 通過後でも同時実行により不足が発生しうるため、ここでの失敗が最終判定となる
func (m *InventoryManager) CommitLines(ctx context.Context, tx transaction.Tx, lines []reservation.ResourceLine) error {
	for _, line := range lines {
		if err := m.resourceRepo.DecrementQuantity(ctx, tx, line.ResourceID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
