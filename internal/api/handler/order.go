package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/order"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// OrderHandler は注文・発券ハンドラー
type OrderHandler struct {
	service BookingServiceInterface
}

func NewOrderHandler(s BookingServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

type CreateOrderRequest struct {
	ShowtimeID    int64    `json:"showtime_id" validate:"required" example:"1"`
	SeatIDs       []string `json:"seat_ids" validate:"required,min=1" example:"A01,A02"`
	DiscountCents int64    `json:"discount_cents" validate:"min=0" example:"0"`
	CustomerName  string   `json:"customer_name" example:"山田太郎"`
	CustomerPhone string   `json:"customer_phone" example:"090-0000-0000"`
}

type ExchangeSeatsRequest struct {
	NewShowtimeID int64    `json:"new_showtime_id" validate:"required" example:"2"`
	NewSeatIDs    []string `json:"new_seat_ids" validate:"required,min=1" example:"B01,B02"`
}

type OrderResponse struct {
	ID            int64     `json:"id" example:"1"`
	StaffID       int64     `json:"staff_id" example:"1"`
	ShowtimeID    int64     `json:"showtime_id" example:"1"`
	SeatIDs       []string  `json:"seat_ids" example:"A01,A02"`
	SubtotalCents int64     `json:"subtotal_cents" example:"300000"`
	TaxCents      int64     `json:"tax_cents" example:"30000"`
	DiscountCents int64     `json:"discount_cents" example:"0"`
	TotalCents    int64     `json:"total_cents" example:"330000"`
	PaymentStatus string    `json:"payment_status" example:"pending"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type TicketResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrderID    int64     `json:"order_id" example:"1"`
	ShowtimeID int64     `json:"showtime_id" example:"1"`
	SeatID     string    `json:"seat_id" example:"A01"`
	PriceCents int64     `json:"price_cents" example:"150000"`
	Status     string    `json:"status" example:"valid"`
	IssuedAt   time.Time `json:"issued_at"`
}

type ConfirmPaymentResponse struct {
	Order   OrderResponse    `json:"order"`
	Tickets []TicketResponse `json:"tickets"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID: o.ID, StaffID: o.StaffID, ShowtimeID: o.ShowtimeID,
		SeatIDs:       o.SeatIDs,
		SubtotalCents: o.Pricing.SubtotalCents,
		TaxCents:      o.Pricing.TaxCents,
		DiscountCents: o.Pricing.DiscountCents,
		TotalCents:    o.Pricing.TotalCents,
		PaymentStatus: string(o.PaymentStatus),
		CustomerName:  o.CustomerName,
		CreatedAt:     o.CreatedAt,
	}
}

func toTicketResponse(t *ticket.Ticket) TicketResponse {
	return TicketResponse{
		ID: t.ID, OrderID: t.OrderID, ShowtimeID: t.ShowtimeID,
		SeatID: t.SeatID, PriceCents: t.PriceCents,
		Status: string(t.Status), IssuedAt: t.IssuedAt,
	}
}

// staffID はリクエストヘッダーからスタッフIDを取得する
func staffID(c echo.Context) (int64, error) {
	v := c.Request().Header.Get("X-Staff-ID")
	if v == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "スタッフIDが必要です")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "無効なスタッフID")
	}
	return id, nil
}

// Create godoc
// @Summary 注文を作成
// @Description 座席を仮押さえします（5分間有効）
// @Tags orders
// @Accept json
// @Produce json
// @Param X-Staff-ID header int true "スタッフID"
// @Param request body CreateOrderRequest true "注文情報"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "座席が押さえられている"
// @Router /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	sid, err := staffID(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	o, err := h.service.CreateOrder(c.Request().Context(), application.CreateOrderInput{
		StaffID:       sid,
		ShowtimeID:    req.ShowtimeID,
		SeatIDs:       req.SeatIDs,
		DiscountCents: req.DiscountCents,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(o))
}

// GetByID godoc
// @Summary 注文を取得
// @Tags orders
// @Produce json
// @Param id path int true "注文ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.service.GetOrder(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// ListByStaff godoc
// @Summary スタッフの注文一覧を取得
// @Tags orders
// @Produce json
// @Param X-Staff-ID header int true "スタッフID"
// @Success 200 {array} OrderResponse
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) ListByStaff(c echo.Context) error {
	sid, err := staffID(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListOrdersByStaff(c.Request().Context(), sid)
	if err != nil {
		return domainError(err)
	}
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	return c.JSON(http.StatusOK, resp)
}

// ConfirmPayment godoc
// @Summary 決済を確定して発券
// @Description 決済を実行し、仮押さえ座席を販売確定してチケットを発券します
// @Tags orders
// @Produce json
// @Param id path int true "注文ID"
// @Success 200 {object} ConfirmPaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "仮押さえの期限切れ"
// @Router /orders/{id}/pay [post]
func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, tickets, err := h.service.ConfirmPayment(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	resp := ConfirmPaymentResponse{Order: toOrderResponse(o)}
	for _, t := range tickets {
		resp.Tickets = append(resp.Tickets, toTicketResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary 注文をキャンセル
// @Description 支払い前の注文を取り消し、仮押さえ座席を解放します
// @Tags orders
// @Produce json
// @Param id path int true "注文ID"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.service.CancelOrder(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// Refund godoc
// @Summary 注文を返金
// @Description 支払い済みの注文を返金し、座席を空席に戻します
// @Tags orders
// @Produce json
// @Param id path int true "注文ID"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/refund [post]
func (h *OrderHandler) Refund(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.service.RefundOrder(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// Exchange godoc
// @Summary 座席を交換
// @Description 支払い前の注文の座席を別の座席・上映回に付け替えます
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "注文ID"
// @Param request body ExchangeSeatsRequest true "交換先情報"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "交換先の座席が押さえられている"
// @Router /orders/{id}/exchange [post]
func (h *OrderHandler) Exchange(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req ExchangeSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	o, err := h.service.ExchangeSeats(c.Request().Context(), application.ExchangeInput{
		OrderID:       id,
		NewShowtimeID: req.NewShowtimeID,
		NewSeatIDs:    req.NewSeatIDs,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// ListTickets godoc
// @Summary 注文のチケット一覧を取得
// @Tags orders
// @Produce json
// @Param id path int true "注文ID"
// @Success 200 {array} TicketResponse
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/tickets [get]
func (h *OrderHandler) ListTickets(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTicketsByOrder(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	resp := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = toTicketResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}
