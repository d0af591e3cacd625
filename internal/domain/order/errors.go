package order

import "errors"

// Order ドメインのエラー定義
var (
	ErrOrderNotFound      = errors.New("注文が見つかりません")
	ErrOrderNotPending    = errors.New("注文は支払い待ちではありません")
	ErrOrderNotPaid       = errors.New("注文は支払い済みではありません")
	ErrStaffIDRequired    = errors.New("スタッフIDは必須です")
	ErrShowtimeIDRequired = errors.New("上映回IDは必須です")
	ErrSeatIDsRequired    = errors.New("座席IDは必須です")
	ErrDuplicateSeatIDs   = errors.New("座席IDが重複しています")
	ErrInvalidTotal       = errors.New("合計金額は0以上である必要があります")
)
