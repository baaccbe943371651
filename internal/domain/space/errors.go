package space

import "errors"

// Space ドメインのエラー定義
var (
	ErrSpaceNotFound        = errors.New("スペースが見つかりません")
	ErrSpaceNameRequired    = errors.New("スペース名は必須です")
	ErrInvalidCapacity      = errors.New("収容人数は1以上である必要があります")
	ErrSpaceNameTaken       = errors.New("同名のスペースが既に登録されています")
	ErrSpaceNotActive       = errors.New("スペースが非アクティブのため予約できません")
	ErrSpaceAlreadyInactive = errors.New("スペースは既に非アクティブです")
	ErrSpaceHasReservations = errors.New("予約が存在するスペースは削除できません")
)
