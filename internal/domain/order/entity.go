package order

import "time"

// PaymentStatus は注文の支払い状態を表す
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusPaid     PaymentStatus = "paid"
	StatusCanceled PaymentStatus = "canceled"
	StatusRefunded PaymentStatus = "refunded"
)

// Pricing は注文の金額内訳（セント単位）
type Pricing struct {
	SubtotalCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
}

// Order は注文エンティティを表す。
// SeatIDs は現在（または過去に）この注文が仮押さえ・購入した座席のみを参照する。
type Order struct {
	ID            int64
	StaffID       int64
	ShowtimeID    int64
	SeatIDs       []string
	Pricing       Pricing
	PaymentStatus PaymentStatus
	CustomerName  string
	CustomerPhone string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New は新しい注文を保留状態で作成する
func New(staffID, showtimeID int64, seatIDs []string, pricing Pricing) *Order {
	now := time.Now()
	return &Order{
		StaffID:       staffID,
		ShowtimeID:    showtimeID,
		SeatIDs:       seatIDs,
		Pricing:       pricing,
		PaymentStatus: StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate は注文の検証を行う
func (o *Order) Validate() error {
	if o.StaffID <= 0 {
		return ErrStaffIDRequired
	}
	if o.ShowtimeID <= 0 {
		return ErrShowtimeIDRequired
	}
	if len(o.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	seen := make(map[string]struct{}, len(o.SeatIDs))
	for _, id := range o.SeatIDs {
		if _, ok := seen[id]; ok {
			return ErrDuplicateSeatIDs
		}
		seen[id] = struct{}{}
	}
	if o.Pricing.TotalCents < 0 {
		return ErrInvalidTotal
	}
	return nil
}

// IsPending は支払い待ちかを返す
func (o *Order) IsPending() bool {
	return o.PaymentStatus == StatusPending
}

// MarkPaid は注文を支払い済みにする
func (o *Order) MarkPaid() error {
	if o.PaymentStatus != StatusPending {
		return ErrOrderNotPending
	}
	o.PaymentStatus = StatusPaid
	o.UpdatedAt = time.Now()
	return nil
}

// MarkCanceled は支払い前の注文をキャンセルする
func (o *Order) MarkCanceled() error {
	if o.PaymentStatus != StatusPending {
		return ErrOrderNotPending
	}
	o.PaymentStatus = StatusCanceled
	o.UpdatedAt = time.Now()
	return nil
}

// MarkRefunded は支払い済みの注文を返金済みにする
func (o *Order) MarkRefunded() error {
	if o.PaymentStatus != StatusPaid {
		return ErrOrderNotPaid
	}
	o.PaymentStatus = StatusRefunded
	o.UpdatedAt = time.Now()
	return nil
}

// Reseat は交換処理で新しい上映回・座席・金額に付け替える
func (o *Order) Reseat(showtimeID int64, seatIDs []string, pricing Pricing) {
	o.ShowtimeID = showtimeID
	o.SeatIDs = seatIDs
	o.Pricing = pricing
	o.UpdatedAt = time.Now()
}

// CalculatePricing は座席小計から税込みの金額内訳を計算する。
// total = subtotal + tax - discount（0未満にはならない）
func CalculatePricing(subtotalCents int64, taxRatePercent int, discountCents int64) Pricing {
	tax := subtotalCents * int64(taxRatePercent) / 100
	total := subtotalCents + tax - discountCents
	if total < 0 {
		total = 0
	}
	return Pricing{
		SubtotalCents: subtotalCents,
		TaxCents:      tax,
		DiscountCents: discountCents,
		TotalCents:    total,
	}
}
