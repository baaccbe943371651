package client

import "time"

// Status はクライアントの状態を表す
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Client は予約主体となるクライアントエンティティを表す
type Client struct {
	ID        int64
	Name      string
	CPF       string
	Email     string
	Phone     string
	BirthDate time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewClient は新しいクライアントをACTIVE状態で作成する
func NewClient(name, cpf, email, phone string, birthDate time.Time) *Client {
	now := time.Now()
	return &Client{
		Name:      name,
		CPF:       cpf,
		Email:     email,
		Phone:     phone,
		BirthDate: birthDate,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive はクライアントが有効かを返す
func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

// Deactivate はクライアントを論理削除する
func (c *Client) Deactivate() error {
	if c.Status == StatusInactive {
		return ErrClientAlreadyInactive
	}
	c.Status = StatusInactive
	c.UpdatedAt = time.Now()
	return nil
}

// Validate はクライアントの検証を行う
// 書式の正規化（CPF・電話番号等）は境界層の責務
func (c *Client) Validate() error {
	if c.Name == "" {
		return ErrClientNameRequired
	}
	if c.CPF == "" {
		return ErrCPFRequired
	}
	if c.Email == "" {
		return ErrEmailRequired
	}
	return nil
}
