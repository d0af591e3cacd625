package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SeatHandler は座席表ハンドラー
type SeatHandler struct {
	service BookingServiceInterface
}

func NewSeatHandler(s BookingServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatResponse struct {
	ID            string     `json:"id" example:"A01"`
	Row           string     `json:"row" example:"A"`
	Number        int        `json:"number" example:"1"`
	Category      string     `json:"category" example:"standard"`
	State         string     `json:"state" example:"available"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
}

type AvailabilityResponse struct {
	ShowtimeID     int64 `json:"showtime_id" example:"1"`
	AvailableSeats int   `json:"available_seats" example:"84"`
}

// GetSeatMap godoc
// @Summary 座席表を取得
// @Description 上映回の座席表を取得します（期限切れの仮押さえは空席として表示）
// @Tags seats
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {array} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/seats [get]
func (h *SeatHandler) GetSeatMap(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	seats, err := h.service.GetSeatMap(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		r := SeatResponse{
			ID: s.ID, Row: s.Row, Number: s.Number,
			Category: string(s.Category), State: string(s.State),
		}
		if !s.HoldExpiresAt.IsZero() {
			expires := s.HoldExpiresAt
			r.HoldExpiresAt = &expires
		}
		resp[i] = r
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAvailability godoc
// @Summary 空席数を取得
// @Tags seats
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/availability [get]
func (h *SeatHandler) GetAvailability(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	count, err := h.service.GetAvailability(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		ShowtimeID:     id,
		AvailableSeats: count,
	})
}
