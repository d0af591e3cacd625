package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/order"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// OrderArchive は確定した注文とチケットを監査用に永続化する。
// 書き込みは在庫ロックの外で行われ、失敗しても予約処理自体は成立する。
type OrderArchive struct {
	db *sqlx.DB
}

// NewOrderArchive はアーカイブを作成する
func NewOrderArchive(db *sqlx.DB) *OrderArchive {
	return &OrderArchive{db: db}
}

type orderRow struct {
	ID            int64     `db:"id"`
	StaffID       int64     `db:"staff_id"`
	ShowtimeID    int64     `db:"showtime_id"`
	SeatIDs       string    `db:"seat_ids"`
	SubtotalCents int64     `db:"subtotal_cents"`
	TaxCents      int64     `db:"tax_cents"`
	DiscountCents int64     `db:"discount_cents"`
	TotalCents    int64     `db:"total_cents"`
	PaymentStatus string    `db:"payment_status"`
	CustomerName  string    `db:"customer_name"`
	CustomerPhone string    `db:"customer_phone"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type ticketRow struct {
	ID         string    `db:"id"`
	OrderID    int64     `db:"order_id"`
	ShowtimeID int64     `db:"showtime_id"`
	SeatID     string    `db:"seat_id"`
	PriceCents int64     `db:"price_cents"`
	Status     string    `db:"status"`
	IssuedAt   time.Time `db:"issued_at"`
}

// SaveOrder は注文を保存する。既存の注文は状態を上書きする。
func (a *OrderArchive) SaveOrder(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO order_archive (
			id, staff_id, showtime_id, seat_ids,
			subtotal_cents, tax_cents, discount_cents, total_cents,
			payment_status, customer_name, customer_phone, created_at, updated_at
		) VALUES (
			:id, :staff_id, :showtime_id, :seat_ids,
			:subtotal_cents, :tax_cents, :discount_cents, :total_cents,
			:payment_status, :customer_name, :customer_phone, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			payment_status = EXCLUDED.payment_status,
			updated_at = EXCLUDED.updated_at`

	row := orderRow{
		ID:            o.ID,
		StaffID:       o.StaffID,
		ShowtimeID:    o.ShowtimeID,
		SeatIDs:       strings.Join(o.SeatIDs, ","),
		SubtotalCents: o.Pricing.SubtotalCents,
		TaxCents:      o.Pricing.TaxCents,
		DiscountCents: o.Pricing.DiscountCents,
		TotalCents:    o.Pricing.TotalCents,
		PaymentStatus: string(o.PaymentStatus),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if _, err := a.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("注文アーカイブの保存に失敗: %w", err)
	}
	return nil
}

// SaveTickets はチケットを一括保存する。既存のチケットは状態を上書きする。
func (a *OrderArchive) SaveTickets(ctx context.Context, tickets []*ticket.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	query := `
		INSERT INTO ticket_archive (
			id, order_id, showtime_id, seat_id, price_cents, status, issued_at
		) VALUES (
			:id, :order_id, :showtime_id, :seat_id, :price_cents, :status, :issued_at
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status`

	rows := make([]ticketRow, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, ticketRow{
			ID:         t.ID,
			OrderID:    t.OrderID,
			ShowtimeID: t.ShowtimeID,
			SeatID:     t.SeatID,
			PriceCents: t.PriceCents,
			Status:     string(t.Status),
			IssuedAt:   t.IssuedAt,
		})
	}

	if _, err := a.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("チケットアーカイブの保存に失敗: %w", err)
	}
	return nil
}
