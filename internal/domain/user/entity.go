package user

import "time"

// Status はユーザーの状態を表す
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Role はユーザーの権限を表す
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User はシステム利用者エンティティを表す
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser は新しいユーザーをACTIVE状態で作成する
func NewUser(name, email, phone, passwordHash string) *User {
	now := time.Now()
	return &User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive はユーザーが有効かを返す
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Validate はユーザーの検証を行う
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrUserNameRequired
	}
	if u.Email == "" {
		return ErrUserEmailRequired
	}
	if u.PasswordHash == "" {
		return ErrPasswordRequired
	}
	return nil
}
