package ticket

import (
	"time"

	"github.com/google/uuid"
)

// Status はチケットの状態を表す
type Status string

const (
	StatusValid    Status = "valid"
	StatusCanceled Status = "canceled"
)

// Ticket は発券済みチケットエンティティを表す。
// 返金時は削除せずキャンセル状態に変更し、監査証跡を残す。
type Ticket struct {
	ID         string
	OrderID    int64
	ShowtimeID int64
	SeatID     string
	PriceCents int64
	Status     Status
	IssuedAt   time.Time
}

// New は確定した座席1席に対する新しいチケットを発行する
func New(orderID, showtimeID int64, seatID string, priceCents int64) *Ticket {
	return &Ticket{
		ID:         uuid.New().String(),
		OrderID:    orderID,
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		PriceCents: priceCents,
		Status:     StatusValid,
		IssuedAt:   time.Now(),
	}
}

// IsValid は有効なチケットかを返す
func (t *Ticket) IsValid() bool {
	return t.Status == StatusValid
}

// Cancel はチケットをキャンセル状態にする
func (t *Ticket) Cancel() error {
	if t.Status == StatusCanceled {
		return ErrTicketAlreadyCanceled
	}
	t.Status = StatusCanceled
	return nil
}
