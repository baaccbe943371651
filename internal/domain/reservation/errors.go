package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound     = errors.New("予約が見つかりません")
	ErrSpaceIDRequired         = errors.New("スペースIDは必須です")
	ErrClientIDRequired        = errors.New("クライアントIDは必須です")
	ErrInvalidDateRange        = errors.New("終了日時は開始日時より後である必要があります")
	ErrResourcesRequired       = errors.New("リソースの指定は必須です")
	ErrInvalidResourceLine     = errors.New("リソースの指定が不正です")
	ErrDateConflict            = errors.New("指定期間は既に予約されています")
	ErrInvalidStatus           = errors.New("不明なステータスです")
	ErrInvalidTransition       = errors.New("許可されていないステータス遷移です")
	ErrCancelViaUpdate         = errors.New("更新によるキャンセルはできません（論理削除を使用してください）")
	ErrOnlyOpenCanBeApproved   = errors.New("OPEN状態の予約のみ承認できます")
	ErrOnlyApprovedCanBeClosed = errors.New("APPROVED状態の予約のみ完了できます")
	ErrOnlyOpenCanBeCanceled   = errors.New("OPEN状態の予約のみキャンセルできます")
	ErrDateUpdateNotAllowed    = errors.New("CLOSED状態の予約の期間は変更できません")
)
