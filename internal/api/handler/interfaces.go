package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/auditorium"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/order"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// ScheduleServiceInterface はスケジュールサービスのインターフェース
type ScheduleServiceInterface interface {
	CreateAuditorium(ctx context.Context, input application.CreateAuditoriumInput) (*auditorium.Auditorium, error)
	GetAuditorium(ctx context.Context, id int64) (*auditorium.Auditorium, error)
	ListAuditoriums(ctx context.Context) ([]*auditorium.Auditorium, error)
	CreateShowtime(ctx context.Context, input application.CreateShowtimeInput) (*showtime.Showtime, error)
	CreateShowtimesBulk(ctx context.Context, inputs []application.CreateShowtimeInput) (*application.BulkShowtimeResult, error)
	CopySchedule(ctx context.Context, auditoriumID int64, sourceDate, targetDate time.Time) (*application.BulkShowtimeResult, error)
	GetShowtime(ctx context.Context, id int64) (*showtime.Showtime, error)
	ListShowtimes(ctx context.Context, filter showtime.Filter) ([]*showtime.Showtime, error)
	UpdateShowtime(ctx context.Context, id int64, input application.UpdateShowtimeInput) (*showtime.Showtime, error)
	CancelShowtime(ctx context.Context, id int64) (*application.CancelResult, error)
	CompleteShowtime(ctx context.Context, id int64) (*showtime.Showtime, error)
	DeleteShowtime(ctx context.Context, id int64) error
	GetOccupancy(ctx context.Context, showtimeID int64) (*application.OccupancyReport, error)
	GetOccupancySummary(ctx context.Context) (*application.OccupancySummary, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateOrder(ctx context.Context, input application.CreateOrderInput) (*order.Order, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	ListOrdersByStaff(ctx context.Context, staffID int64) ([]*order.Order, error)
	ConfirmPayment(ctx context.Context, orderID int64) (*order.Order, []*ticket.Ticket, error)
	CancelOrder(ctx context.Context, orderID int64) (*order.Order, error)
	RefundOrder(ctx context.Context, orderID int64) (*order.Order, error)
	ExchangeSeats(ctx context.Context, input application.ExchangeInput) (*order.Order, error)
	GetSeatMap(ctx context.Context, showtimeID int64) ([]seat.Seat, error)
	GetAvailability(ctx context.Context, showtimeID int64) (int, error)
	ListTicketsByOrder(ctx context.Context, orderID int64) ([]*ticket.Ticket, error)
}
