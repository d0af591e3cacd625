package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/auditorium"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/order"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// domainError はドメインエラーをHTTPエラーに変換する。
// 上記以外のドメインエラー(状態遷移や入力の検証エラー)は400として返す。
func domainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, seat.ErrSeatNotFound),
		errors.Is(err, showtime.ErrShowtimeNotFound),
		errors.Is(err, auditorium.ErrAuditoriumNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, ticket.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, seat.ErrSeatUnavailable),
		errors.Is(err, seat.ErrHoldExpired),
		errors.Is(err, showtime.ErrScheduleConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
