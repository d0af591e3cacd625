package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound    = errors.New("座席が見つかりません")
	ErrSeatUnavailable = errors.New("座席は予約できません")
	ErrSeatNotHeld     = errors.New("座席はこの注文で仮押さえされていません")
	ErrSeatNotSold     = errors.New("座席はこの注文で販売されていません")
	ErrHoldExpired     = errors.New("仮押さえの有効期限が切れています")
)
