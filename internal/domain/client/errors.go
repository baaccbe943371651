package client

import "errors"

// Client ドメインのエラー定義
var (
	ErrClientNotFound        = errors.New("クライアントが見つかりません")
	ErrClientNameRequired    = errors.New("クライアント名は必須です")
	ErrCPFRequired           = errors.New("CPFは必須です")
	ErrEmailRequired         = errors.New("メールアドレスは必須です")
	ErrClientAlreadyExists   = errors.New("同じCPFまたはメールアドレスのクライアントが既に存在します")
	ErrClientNotActive       = errors.New("クライアントが非アクティブのため予約できません")
	ErrClientAlreadyInactive = errors.New("クライアントは既に非アクティブです")
)
