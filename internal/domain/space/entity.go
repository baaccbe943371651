package space

import "time"

// Status はスペースの状態を表す
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Space は予約可能なスペースエンティティを表す
type Space struct {
	ID          int64
	Name        string
	Description string
	Capacity    int
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSpace は新しいスペースをACTIVE状態で作成する
func NewSpace(name, description string, capacity int) *Space {
	now := time.Now()
	return &Space{
		Name:        name,
		Description: description,
		Capacity:    capacity,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsActive はスペースが予約受付可能かを返す
func (s *Space) IsActive() bool {
	return s.Status == StatusActive
}

// Deactivate はスペースを論理削除する
func (s *Space) Deactivate() error {
	if s.Status == StatusInactive {
		return ErrSpaceAlreadyInactive
	}
	s.Status = StatusInactive
	s.UpdatedAt = time.Now()
	return nil
}

// Validate はスペースの検証を行う
func (s *Space) Validate() error {
	if s.Name == "" {
		return ErrSpaceNameRequired
	}
	if s.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
