package resource

import "errors"

// Resource ドメインのエラー定義
var (
	ErrResourceNotFound        = errors.New("リソースが見つかりません")
	ErrResourceNameRequired    = errors.New("リソース名は必須です")
	ErrInvalidQuantity         = errors.New("在庫数は0以上である必要があります")
	ErrResourceNameTaken       = errors.New("同名のリソースが既に登録されています")
	ErrResourceNotActive       = errors.New("リソースが非アクティブのため利用できません")
	ErrResourceAlreadyInactive = errors.New("リソースは既に非アクティブです")
	ErrInsufficientQuantity    = errors.New("リソースの在庫が不足しています")
)
