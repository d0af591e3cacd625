package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/order"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
	redisinfra "github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-reservation/internal/inventory"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
)

// PaymentGateway は決済処理のインターフェース。
// 呼び出しは必ず在庫ロックの外で行う。
type PaymentGateway interface {
	Charge(ctx context.Context, orderID int64, amountCents int64) error
	Refund(ctx context.Context, orderID int64, amountCents int64) error
}

// OrderArchiver は確定済み注文の永続化インターフェース。
// 失敗してもログに残すのみで、予約処理自体は成立させる。
type OrderArchiver interface {
	SaveOrder(ctx context.Context, o *order.Order) error
	SaveTickets(ctx context.Context, tickets []*ticket.Ticket) error
}

// AvailabilityCacher は空席数キャッシュのインターフェース。
// GetAvailableCount はミス時に redis.ErrCacheMiss を返す。
type AvailabilityCacher interface {
	GetAvailableCount(ctx context.Context, showtimeID int64) (int, error)
	SetAvailableCount(ctx context.Context, showtimeID int64, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, showtimeID int64) error
}

// キャッシュした空席数の有効期間
const availabilityCacheTTL = 10 * time.Second

// BookingService は窓口での注文・発券のワークフローを提供する
type BookingService struct {
	registry  *inventory.Registry
	orders    order.Repository
	tickets   ticket.Repository
	showtimes showtime.Repository
	payments  PaymentGateway

	// archive と cache は nil 可（無効時はスキップ）
	archive OrderArchiver
	cache   AvailabilityCacher

	metrics *metrics.Metrics

	holdTTL        time.Duration
	taxRatePercent int

	now func() time.Time
}

// NewBookingService は予約サービスを作成する
func NewBookingService(
	registry *inventory.Registry,
	or order.Repository,
	tr ticket.Repository,
	sr showtime.Repository,
	pg PaymentGateway,
	archive OrderArchiver,
	cache AvailabilityCacher,
	m *metrics.Metrics,
	holdTTL time.Duration,
	taxRatePercent int,
) *BookingService {
	return &BookingService{
		registry:       registry,
		orders:         or,
		tickets:        tr,
		showtimes:      sr,
		payments:       pg,
		archive:        archive,
		cache:          cache,
		metrics:        m,
		holdTTL:        holdTTL,
		taxRatePercent: taxRatePercent,
		now:            time.Now,
	}
}

// CreateOrderInput は注文作成の入力
type CreateOrderInput struct {
	StaffID       int64
	ShowtimeID    int64
	SeatIDs       []string
	DiscountCents int64
	CustomerName  string
	CustomerPhone string
}

// CreateOrder は座席を仮押さえして支払い待ちの注文を作成する。
// 1席でも押さえられない場合は注文ごと取り消され、在庫は変更されない。
func (s *BookingService) CreateOrder(ctx context.Context, input CreateOrderInput) (*order.Order, error) {
	now := s.now()

	st, err := s.showtimes.GetByID(ctx, input.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("上映回取得に失敗: %w", err)
	}
	if !st.IsBookingOpen(now) {
		return nil, showtime.ErrShowtimeNotOpen
	}

	inv, err := s.registry.Get(input.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("座席在庫取得に失敗: %w", err)
	}

	subtotal, _, err := inv.Quote(input.SeatIDs, st.BasePriceCents)
	if err != nil {
		return nil, err
	}
	pricing := order.CalculatePricing(subtotal, s.taxRatePercent, input.DiscountCents)

	o := order.New(input.StaffID, input.ShowtimeID, input.SeatIDs, pricing)
	o.CustomerName = input.CustomerName
	o.CustomerPhone = input.CustomerPhone
	if err := o.Validate(); err != nil {
		return nil, err
	}

	// 先に注文IDを採番してから仮押さえを行う
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("注文作成に失敗: %w", err)
	}

	if err := inv.Hold(input.SeatIDs, o.ID, now.Add(s.holdTTL), now); err != nil {
		// 仮押さえに失敗したら注文を巻き戻す
		if delErr := s.orders.Delete(ctx, o.ID); delErr != nil {
			logger.Error("仮押さえ失敗後の注文削除に失敗",
				zap.Int64("order_id", o.ID), zap.Error(delErr))
		}
		if s.metrics != nil {
			s.metrics.OrdersTotal.WithLabelValues("hold_failed").Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.WithLabelValues("created").Inc()
		s.metrics.ActiveOrders.WithLabelValues(string(order.StatusPending)).Inc()
	}
	s.invalidateAvailability(ctx, inv)

	return o, nil
}

// GetOrder はIDから注文を取得する
func (s *BookingService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrdersByStaff はスタッフの注文一覧を取得する
func (s *BookingService) ListOrdersByStaff(ctx context.Context, staffID int64) ([]*order.Order, error) {
	return s.orders.ListByStaff(ctx, staffID)
}

// ConfirmPayment は決済を実行し、仮押さえ座席を販売確定してチケットを発券する。
// 決済は在庫ロックの外で行い、確定に失敗した場合は返金して仮押さえを残す。
func (s *BookingService) ConfirmPayment(ctx context.Context, orderID int64) (*order.Order, []*ticket.Ticket, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !o.IsPending() {
		return nil, nil, order.ErrOrderNotPending
	}

	st, err := s.showtimes.GetByID(ctx, o.ShowtimeID)
	if err != nil {
		return nil, nil, fmt.Errorf("上映回取得に失敗: %w", err)
	}
	inv, err := s.registry.Get(o.ShowtimeID)
	if err != nil {
		return nil, nil, fmt.Errorf("座席在庫取得に失敗: %w", err)
	}

	// 決済（在庫ロックの外）
	if err := s.payments.Charge(ctx, o.ID, o.Pricing.TotalCents); err != nil {
		if s.metrics != nil {
			s.metrics.OrdersTotal.WithLabelValues("error").Inc()
		}
		return nil, nil, fmt.Errorf("決済に失敗: %w", err)
	}

	if err := inv.Confirm(o.SeatIDs, o.ID, s.now()); err != nil {
		// 確定できなかったので決済を取り消す
		if refundErr := s.payments.Refund(ctx, o.ID, o.Pricing.TotalCents); refundErr != nil {
			logger.Error("確定失敗後の返金に失敗",
				zap.Int64("order_id", o.ID), zap.Error(refundErr))
		}
		return nil, nil, err
	}

	if err := o.MarkPaid(); err != nil {
		return nil, nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, nil, fmt.Errorf("注文更新に失敗: %w", err)
	}

	// チケット発券（座席ごとに区分係数込みの単価を付ける）
	_, prices, err := inv.Quote(o.SeatIDs, st.BasePriceCents)
	if err != nil {
		return nil, nil, err
	}
	tickets := make([]*ticket.Ticket, 0, len(o.SeatIDs))
	for i, seatID := range o.SeatIDs {
		tickets = append(tickets, ticket.New(o.ID, o.ShowtimeID, seatID, prices[i]))
	}
	if err := s.tickets.CreateBulk(ctx, tickets); err != nil {
		return nil, nil, fmt.Errorf("チケット発券に失敗: %w", err)
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.WithLabelValues("paid").Inc()
		s.metrics.ActiveOrders.WithLabelValues(string(order.StatusPending)).Dec()
		s.metrics.ActiveOrders.WithLabelValues(string(order.StatusPaid)).Inc()
	}

	s.archiveOrder(ctx, o, tickets)
	s.invalidateAvailability(ctx, inv)

	return o, tickets, nil
}

// CancelOrder は支払い前の注文を取り消し、仮押さえを解放する
func (s *BookingService) CancelOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.MarkCanceled(); err != nil {
		return nil, err
	}

	inv, err := s.registry.Get(o.ShowtimeID)
	if err == nil {
		inv.Release(o.SeatIDs, o.ID)
		s.invalidateAvailability(ctx, inv)
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("注文更新に失敗: %w", err)
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.WithLabelValues("canceled").Inc()
		s.metrics.ActiveOrders.WithLabelValues(string(order.StatusPending)).Dec()
	}
	return o, nil
}

// RefundOrder は支払い済みの注文を返金し、座席を空席に戻す。
// チケットは削除せずキャンセル状態で残す。
func (s *BookingService) RefundOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus != order.StatusPaid {
		return nil, order.ErrOrderNotPaid
	}

	inv, err := s.registry.Get(o.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("座席在庫取得に失敗: %w", err)
	}

	// 返金（在庫ロックの外）
	if err := s.payments.Refund(ctx, o.ID, o.Pricing.TotalCents); err != nil {
		return nil, fmt.Errorf("返金に失敗: %w", err)
	}

	if err := inv.RefundRelease(o.SeatIDs, o.ID); err != nil {
		return nil, err
	}

	if err := o.MarkRefunded(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("注文更新に失敗: %w", err)
	}

	// チケットをキャンセル状態に変更（監査のため削除しない）
	tickets, err := s.tickets.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("チケット取得に失敗: %w", err)
	}
	for _, t := range tickets {
		if t.IsValid() {
			if err := t.Cancel(); err != nil {
				continue
			}
			if err := s.tickets.Update(ctx, t); err != nil {
				logger.Error("チケットキャンセルの保存に失敗",
					zap.String("ticket_id", t.ID), zap.Error(err))
			}
		}
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.WithLabelValues("refunded").Inc()
		s.metrics.ActiveOrders.WithLabelValues(string(order.StatusPaid)).Dec()
	}

	s.archiveOrder(ctx, o, tickets)
	s.invalidateAvailability(ctx, inv)

	return o, nil
}

// ExchangeInput は座席交換の入力
type ExchangeInput struct {
	OrderID       int64
	NewShowtimeID int64
	NewSeatIDs    []string
}

// ExchangeSeats は支払い前の注文の座席を別の座席・上映回に付け替える。
// 先に新しい座席を仮押さえし、成功した場合のみ元の座席を解放する。
// 失敗した場合は元の仮押さえがそのまま残る。
func (s *BookingService) ExchangeSeats(ctx context.Context, input ExchangeInput) (*order.Order, error) {
	now := s.now()

	o, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.IsPending() {
		return nil, order.ErrOrderNotPending
	}

	newShowtime, err := s.showtimes.GetByID(ctx, input.NewShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("上映回取得に失敗: %w", err)
	}
	if !newShowtime.IsBookingOpen(now) {
		return nil, showtime.ErrShowtimeNotOpen
	}

	newInv, err := s.registry.Get(input.NewShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("座席在庫取得に失敗: %w", err)
	}

	subtotal, _, err := newInv.Quote(input.NewSeatIDs, newShowtime.BasePriceCents)
	if err != nil {
		return nil, err
	}
	pricing := order.CalculatePricing(subtotal, s.taxRatePercent, o.Pricing.DiscountCents)

	// 新しい座席を先に押さえる（同一注文IDなので同一上映回でも衝突しない）
	if err := newInv.Hold(input.NewSeatIDs, o.ID, now.Add(s.holdTTL), now); err != nil {
		return nil, err
	}

	// 元の座席を解放する。同一上映回の場合は新しい座席集合に含まれない席のみ。
	oldSeatIDs := o.SeatIDs
	if input.NewShowtimeID == o.ShowtimeID {
		oldSeatIDs = seatDifference(o.SeatIDs, input.NewSeatIDs)
		newInv.Release(oldSeatIDs, o.ID)
	} else {
		if oldInv, invErr := s.registry.Get(o.ShowtimeID); invErr == nil {
			oldInv.Release(oldSeatIDs, o.ID)
			s.invalidateAvailability(ctx, oldInv)
		}
	}

	o.Reseat(input.NewShowtimeID, input.NewSeatIDs, pricing)
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("注文更新に失敗: %w", err)
	}

	s.invalidateAvailability(ctx, newInv)
	return o, nil
}

// ReleaseExpiredHolds は全上映回の期限切れ仮押さえを回収し、
// 影響を受けた支払い前の注文をキャンセルする。回収した座席数を返す。
func (s *BookingService) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	now := s.now()
	start := time.Now()

	total := 0
	affectedOrders := make(map[int64]struct{})

	s.registry.ForEach(func(inv *inventory.SeatInventory) {
		reclaimed := inv.ExpireSweep(now)
		if len(reclaimed) == 0 {
			return
		}
		total += len(reclaimed)
		for _, rc := range reclaimed {
			affectedOrders[rc.OrderID] = struct{}{}
		}
		s.invalidateAvailability(ctx, inv)
	})

	// 仮押さえを失った注文をキャンセルする
	for orderID := range affectedOrders {
		o, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			logger.Warn("期限切れ注文の取得に失敗",
				zap.Int64("order_id", orderID), zap.Error(err))
			continue
		}
		if !o.IsPending() {
			continue
		}
		if err := o.MarkCanceled(); err != nil {
			continue
		}
		if err := s.orders.Update(ctx, o); err != nil {
			logger.Error("期限切れ注文のキャンセル保存に失敗",
				zap.Int64("order_id", orderID), zap.Error(err))
			continue
		}
		if s.metrics != nil {
			s.metrics.OrdersTotal.WithLabelValues("expired").Inc()
			s.metrics.ActiveOrders.WithLabelValues(string(order.StatusPending)).Dec()
		}
	}

	if s.metrics != nil {
		s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
		if total > 0 {
			s.metrics.ExpiredHoldsTotal.Add(float64(total))
		}
	}
	return total, nil
}

// GetSeatMap は上映回の座席表を返す。期限切れの仮押さえは空席として表示される。
func (s *BookingService) GetSeatMap(ctx context.Context, showtimeID int64) ([]seat.Seat, error) {
	inv, err := s.registry.Get(showtimeID)
	if err != nil {
		return nil, err
	}
	return inv.Snapshot(s.now()), nil
}

// GetAvailability は上映回の空席数を返す。
// キャッシュから取得を試み、ミスした場合は在庫から数えてキャッシュに保存する。
func (s *BookingService) GetAvailability(ctx context.Context, showtimeID int64) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, showtimeID)
		if err == nil {
			logger.Debug("空席数キャッシュヒット",
				zap.Int64("showtime_id", showtimeID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("空席数キャッシュの取得に失敗", zap.Error(err))
		}
	}

	inv, err := s.registry.Get(showtimeID)
	if err != nil {
		return 0, err
	}
	count := inv.AvailableCount(s.now())

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, showtimeID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("空席数キャッシュの保存に失敗", zap.Error(cacheErr))
		}
	}
	return count, nil
}

// ListTicketsByOrder は注文のチケット一覧を取得する
func (s *BookingService) ListTicketsByOrder(ctx context.Context, orderID int64) ([]*ticket.Ticket, error) {
	return s.tickets.ListByOrder(ctx, orderID)
}

// archiveOrder は注文とチケットをアーカイブに書き出す（失敗はログのみ）
func (s *BookingService) archiveOrder(ctx context.Context, o *order.Order, tickets []*ticket.Ticket) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveOrder(ctx, o); err != nil {
		logger.Error("注文アーカイブに失敗", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}
	if err := s.archive.SaveTickets(ctx, tickets); err != nil {
		logger.Error("チケットアーカイブに失敗", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

// invalidateAvailability は在庫変更後に空席数キャッシュを無効化する（失敗はログのみ）
func (s *BookingService) invalidateAvailability(ctx context.Context, inv *inventory.SeatInventory) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, inv.ShowtimeID()); err != nil {
		logger.Warn("空席数キャッシュの無効化に失敗",
			zap.Int64("showtime_id", inv.ShowtimeID()), zap.Error(err))
	}
}

// seatDifference は a に含まれ b に含まれない座席IDを返す
func seatDifference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	var out []string
	for _, id := range a {
		if _, ok := inB[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// NoopPaymentGateway は常に成功する決済ゲートウェイ（現金払い・開発用）
type NoopPaymentGateway struct{}

var _ PaymentGateway = (*NoopPaymentGateway)(nil)

func (NoopPaymentGateway) Charge(ctx context.Context, orderID int64, amountCents int64) error {
	return nil
}

func (NoopPaymentGateway) Refund(ctx context.Context, orderID int64, amountCents int64) error {
	return nil
}
