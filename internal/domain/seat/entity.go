package seat

import (
	"fmt"
	"time"
)

// State は座席の状態を表す
type State string

const (
	StateAvailable State = "available"
	StateHeld      State = "held"
	StateSold      State = "sold"
)

// Category は座席の種別を表す（価格倍率に影響する）
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryCouple   Category = "couple"
	CategoryVIP      Category = "vip"
	CategoryPremium  Category = "premium"
)

// MultiplierPercent は種別ごとの価格倍率（パーセント）を返す
func (c Category) MultiplierPercent() int64 {
	switch c {
	case CategoryCouple:
		return 130
	case CategoryVIP:
		return 150
	case CategoryPremium:
		return 180
	default:
		return 100
	}
}

// Seat は上映回に紐づく座席エンティティを表す。
// 座席の集合は SeatInventory が排他的に所有し、外部には値コピーのみを渡す。
type Seat struct {
	ID            string // 例: "A01"
	Row           string
	Number        int
	Category      Category
	State         State
	HoldExpiresAt time.Time // State=Held のときのみ意味を持つ
	HolderOrderID int64     // State=Held/Sold のときのみ意味を持つ（0 は未保持）
}

// New は新しい座席を作成する
func New(row string, number int, category Category) *Seat {
	return &Seat{
		ID:       fmt.Sprintf("%s%02d", row, number),
		Row:      row,
		Number:   number,
		Category: category,
		State:    StateAvailable,
	}
}

// IsHoldExpired は仮押さえが期限切れかを返す
func (s *Seat) IsHoldExpired(now time.Time) bool {
	return s.State == StateHeld && !s.HoldExpiresAt.After(now)
}

// CanHold は指定注文が今この座席を仮押さえできるかを返す。
// 期限切れの仮押さえはスイープ前でも空席として扱う（遅延回収）。
// 同一注文による再仮押さえは期限の延長として許可する。
func (s *Seat) CanHold(orderID int64, now time.Time) error {
	switch s.State {
	case StateAvailable:
		return nil
	case StateHeld:
		if s.IsHoldExpired(now) {
			return nil
		}
		if s.HolderOrderID == orderID {
			return nil
		}
		return ErrSeatUnavailable
	default:
		return ErrSeatUnavailable
	}
}

// Hold は座席を仮押さえ状態にする。呼び出し前に CanHold で検証すること。
func (s *Seat) Hold(orderID int64, expiresAt time.Time) {
	s.State = StateHeld
	s.HolderOrderID = orderID
	s.HoldExpiresAt = expiresAt
}

// CanConfirm は指定注文がこの座席を確定できるかを返す。
// 期限とホルダーは同じ排他区間で検査されるため、期限切れの仮押さえは確定できない。
func (s *Seat) CanConfirm(orderID int64, now time.Time) error {
	if s.State != StateHeld || s.HolderOrderID != orderID {
		return ErrSeatNotHeld
	}
	if s.IsHoldExpired(now) {
		return ErrHoldExpired
	}
	return nil
}

// Confirm は座席を販売済みにする。期限はクリアし、ホルダーは保持する。
func (s *Seat) Confirm() {
	s.State = StateSold
	s.HoldExpiresAt = time.Time{}
}

// Release は座席を空席に戻し、期限とホルダーをクリアする
func (s *Seat) Release() {
	s.State = StateAvailable
	s.HoldExpiresAt = time.Time{}
	s.HolderOrderID = 0
}

// IsHeldBy は指定注文が仮押さえ中かを返す（期限切れを含む）
func (s *Seat) IsHeldBy(orderID int64) bool {
	return s.State == StateHeld && s.HolderOrderID == orderID
}

// IsSoldTo は指定注文に販売済みかを返す
func (s *Seat) IsSoldTo(orderID int64) bool {
	return s.State == StateSold && s.HolderOrderID == orderID
}

// IsAvailableAt は指定時刻に空席として扱えるかを返す（期限切れの仮押さえを含む）
func (s *Seat) IsAvailableAt(now time.Time) bool {
	return s.State == StateAvailable || s.IsHoldExpired(now)
}
