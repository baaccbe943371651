package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound      = errors.New("ユーザーが見つかりません")
	ErrUserNameRequired  = errors.New("ユーザー名は必須です")
	ErrUserEmailRequired = errors.New("メールアドレスは必須です")
	ErrPasswordRequired  = errors.New("パスワードは必須です")
	ErrEmailTaken        = errors.New("このメールアドレスは既に使用されています")
	ErrInvalidCredential = errors.New("メールアドレスまたはパスワードが正しくありません")
)
