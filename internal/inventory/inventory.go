package inventory

import (
	"fmt"
	"sync"
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
)

// SeatInventory は上映回1回分の座席在庫を管理する。
// 仮押さえ・確定・解放は上映回単位のミューテックスで直列化され、
// 同一上映回への操作は常に全席一括で成功するか全く変更しないかのいずれかとなる。
type SeatInventory struct {
	mu         sync.Mutex
	showtimeID int64
	seats      map[string]*seat.Seat
	order      []string // レイアウト順の座席ID
}

// Reclaimed は掃き出しで回収された仮押さえを表す
type Reclaimed struct {
	SeatID  string
	OrderID int64
}

// New は座席レイアウトから在庫を構築する
func New(showtimeID int64, seats []*seat.Seat) *SeatInventory {
	inv := &SeatInventory{
		showtimeID: showtimeID,
		seats:      make(map[string]*seat.Seat, len(seats)),
		order:      make([]string, 0, len(seats)),
	}
	for _, s := range seats {
		inv.seats[s.ID] = s
		inv.order = append(inv.order, s.ID)
	}
	return inv
}

// ShowtimeID は対象の上映回IDを返す
func (inv *SeatInventory) ShowtimeID() int64 {
	return inv.showtimeID
}

// TotalSeats は総座席数を返す
func (inv *SeatInventory) TotalSeats() int {
	return len(inv.order)
}

// Hold は指定座席をまとめて仮押さえする。
// 全席が押さえ可能な場合のみ状態を変更し、1席でも不可なら在庫は一切変更されない。
// 期限切れの仮押さえは検証時点で即座に失効として扱う。
func (inv *SeatInventory) Hold(seatIDs []string, orderID int64, expiresAt time.Time, now time.Time) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	// 検証フェーズ: 変更前に全席を確認する
	targets := make([]*seat.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		s, ok := inv.seats[id]
		if !ok {
			return fmt.Errorf("%w: %s", seat.ErrSeatNotFound, id)
		}
		if err := s.CanHold(orderID, now); err != nil {
			return fmt.Errorf("%w: %s", err, id)
		}
		targets = append(targets, s)
	}

	// 変更フェーズ: ここからは失敗しない
	for _, s := range targets {
		s.Hold(orderID, expiresAt)
	}
	return nil
}

// Confirm は仮押さえ済みの座席を販売済みに確定する。
// 全席が同一注文の有効な仮押さえである場合のみ確定し、そうでなければ在庫は変更されない。
func (inv *SeatInventory) Confirm(seatIDs []string, orderID int64, now time.Time) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	targets := make([]*seat.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		s, ok := inv.seats[id]
		if !ok {
			return fmt.Errorf("%w: %s", seat.ErrSeatNotFound, id)
		}
		if err := s.CanConfirm(orderID, now); err != nil {
			return fmt.Errorf("%w: %s", err, id)
		}
		targets = append(targets, s)
	}

	for _, s := range targets {
		s.Confirm()
	}
	return nil
}

// Release は指定注文の仮押さえを解放する。
// 対象注文が押さえていない座席は黙って無視され、何度呼んでも結果は同じ。
// 販売済みの座席には影響しない。
func (inv *SeatInventory) Release(seatIDs []string, orderID int64) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, id := range seatIDs {
		s, ok := inv.seats[id]
		if !ok {
			continue
		}
		if s.State == seat.StateHeld && s.HolderOrderID == orderID {
			s.Release()
		}
	}
}

// RefundRelease は返金処理で販売済みの座席を空席に戻す。
// 対象注文に販売されていない座席が含まれる場合はエラーを返し、在庫は変更されない。
func (inv *SeatInventory) RefundRelease(seatIDs []string, orderID int64) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	targets := make([]*seat.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		s, ok := inv.seats[id]
		if !ok {
			return fmt.Errorf("%w: %s", seat.ErrSeatNotFound, id)
		}
		if !s.IsSoldTo(orderID) {
			return fmt.Errorf("%w: %s", seat.ErrSeatNotSold, id)
		}
		targets = append(targets, s)
	}

	for _, s := range targets {
		s.Release()
	}
	return nil
}

// ExpireSweep は期限切れの仮押さえを一括で回収し、回収した座席と元の注文IDを返す。
// 有効な仮押さえと販売済み座席には触れない。
func (inv *SeatInventory) ExpireSweep(now time.Time) []Reclaimed {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var reclaimed []Reclaimed
	for _, id := range inv.order {
		s := inv.seats[id]
		if s.State == seat.StateHeld && s.IsHoldExpired(now) {
			reclaimed = append(reclaimed, Reclaimed{SeatID: s.ID, OrderID: s.HolderOrderID})
			s.Release()
		}
	}
	return reclaimed
}

// Quote は指定座席の小計（セント）を座席区分の係数込みで計算する。
// 仮押さえの前に呼び、在庫の状態は参照のみで変更しない。
func (inv *SeatInventory) Quote(seatIDs []string, basePriceCents int64) (int64, []int64, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var subtotal int64
	prices := make([]int64, 0, len(seatIDs))
	for _, id := range seatIDs {
		s, ok := inv.seats[id]
		if !ok {
			return 0, nil, fmt.Errorf("%w: %s", seat.ErrSeatNotFound, id)
		}
		price := basePriceCents * s.Category.MultiplierPercent() / 100
		prices = append(prices, price)
		subtotal += price
	}
	return subtotal, prices, nil
}

// Snapshot はレイアウト順の座席一覧のコピーを返す。
// 期限切れの仮押さえは空席として報告する（在庫自体は変更しない）。
func (inv *SeatInventory) Snapshot(now time.Time) []seat.Seat {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make([]seat.Seat, 0, len(inv.order))
	for _, id := range inv.order {
		s := *inv.seats[id]
		if s.State == seat.StateHeld && s.IsHoldExpired(now) {
			s.State = seat.StateAvailable
			s.HoldExpiresAt = time.Time{}
			s.HolderOrderID = 0
		}
		out = append(out, s)
	}
	return out
}

// AvailableCount は現時点で押さえ可能な座席数を返す
func (inv *SeatInventory) AvailableCount(now time.Time) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	count := 0
	for _, s := range inv.seats {
		if s.IsAvailableAt(now) {
			count++
		}
	}
	return count
}

// SoldCount は販売済みの座席数を返す
func (inv *SeatInventory) SoldCount() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	count := 0
	for _, s := range inv.seats {
		if s.State == seat.StateSold {
			count++
		}
	}
	return count
}

// SoldSeatIDs は販売済み座席のIDをレイアウト順で返す
func (inv *SeatInventory) SoldSeatIDs() []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var ids []string
	for _, id := range inv.order {
		if inv.seats[id].State == seat.StateSold {
			ids = append(ids, id)
		}
	}
	return ids
}

// OccupancyRate は販売済み座席の割合を返す（0.0〜1.0）
func (inv *SeatInventory) OccupancyRate() float64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if len(inv.order) == 0 {
		return 0
	}
	sold := 0
	for _, s := range inv.seats {
		if s.State == seat.StateSold {
			sold++
		}
	}
	return float64(sold) / float64(len(inv.order))
}
