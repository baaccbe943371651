package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sanosuguru/go-space-reservation/internal/domain/user"
	"github.com/sanosuguru/go-space-reservation/internal/pkg/token"
)

// TokenGenerator はJWTの発行・検証を抽象化する
type TokenGenerator interface {
	Generate(userID int64, role string) (string, error)
	Validate(tokenString string) (*token.Claims, error)
}

type AuthService struct {
	userRepo user.Repository
	tokenSvc TokenGenerator
}

func NewAuthService(ur user.Repository, ts TokenGenerator) *AuthService {
	return &AuthService{userRepo: ur, tokenSvc: ts}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register は新しいユーザーを登録する
// パスワードはbcryptでハッシュ化して保存する
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	if input.Password == "" {
		return nil, user.ErrPasswordRequired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}

	u := user.NewUser(input.Name, input.Email, input.Phone, string(hashed))
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login はメールアドレスとパスワードでユーザーを認証しJWTを発行する
// ユーザーが存在しない場合もパスワード不一致と同じエラーを返し、情報を漏らさない
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", user.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", user.ErrInvalidCredential
		}
		return "", err
	}
	if !u.IsActive() {
		return "", user.ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", user.ErrInvalidCredential
	}

	tokenString, err := s.tokenSvc.Generate(u.ID, string(u.Role))
	if err != nil {
		return "", fmt.Errorf("トークン生成に失敗: %w", err)
	}
	return tokenString, nil
}

// GetUser はIDからユーザーを取得する
func (s *AuthService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
