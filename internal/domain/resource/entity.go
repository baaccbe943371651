package resource

import "time"

// Status はリソースの状態を表す
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Resource は予約に付随する数量管理対象のリソースエンティティを表す
// Quantity は現在の利用可能在庫数
type Resource struct {
	ID          int64
	Name        string
	Description string
	Quantity    int
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewResource は新しいリソースをACTIVE状態で作成する
func NewResource(name, description string, quantity int) *Resource {
	now := time.Now()
	return &Resource{
		Name:        name,
		Description: description,
		Quantity:    quantity,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsActive はリソースが利用可能かを返す
func (r *Resource) IsActive() bool {
	return r.Status == StatusActive
}

// HasEnough は要求数量を満たす在庫があるかを返す
func (r *Resource) HasEnough(quantity int) bool {
	return quantity <= r.Quantity
}

// Deactivate はリソースを論理削除する
func (r *Resource) Deactivate() error {
	if r.Status == StatusInactive {
		return ErrResourceAlreadyInactive
	}
	r.Status = StatusInactive
	r.UpdatedAt = time.Now()
	return nil
}

// Validate はリソースの検証を行う
func (r *Resource) Validate() error {
	if r.Name == "" {
		return ErrResourceNameRequired
	}
	if r.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
