package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/auditorium"
)

// AuditoriumHandler はシアター管理ハンドラー
type AuditoriumHandler struct {
	service ScheduleServiceInterface
}

func NewAuditoriumHandler(s ScheduleServiceInterface) *AuditoriumHandler {
	return &AuditoriumHandler{service: s}
}

type CreateAuditoriumRequest struct {
	Name     string   `json:"name" validate:"required" example:"シアター1"`
	Capacity int      `json:"capacity" validate:"required,min=1" example:"120"`
	RoomType string   `json:"room_type" example:"IMAX"`
	Formats  []string `json:"formats" example:"2D,3D,IMAX"`
}

type AuditoriumResponse struct {
	ID       int64    `json:"id" example:"1"`
	Name     string   `json:"name" example:"シアター1"`
	Capacity int      `json:"capacity" example:"120"`
	RoomType string   `json:"room_type" example:"IMAX"`
	Formats  []string `json:"formats"`
}

func toAuditoriumResponse(a *auditorium.Auditorium) AuditoriumResponse {
	return AuditoriumResponse{
		ID: a.ID, Name: a.Name, Capacity: a.Capacity,
		RoomType: a.RoomType, Formats: a.Formats,
	}
}

// Create godoc
// @Summary シアターを登録
// @Description 座席数・対応フォーマットを指定してシアターを登録します
// @Tags auditoriums
// @Accept json
// @Produce json
// @Param request body CreateAuditoriumRequest true "シアター情報"
// @Success 201 {object} AuditoriumResponse
// @Failure 400 {object} map[string]string
// @Router /auditoriums [post]
func (h *AuditoriumHandler) Create(c echo.Context) error {
	var req CreateAuditoriumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := h.service.CreateAuditorium(c.Request().Context(), application.CreateAuditoriumInput{
		Name: req.Name, Capacity: req.Capacity, RoomType: req.RoomType, Formats: req.Formats,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, toAuditoriumResponse(a))
}

// GetByID godoc
// @Summary シアターを取得
// @Description 指定IDのシアターを取得します
// @Tags auditoriums
// @Produce json
// @Param id path int true "シアターID"
// @Success 200 {object} AuditoriumResponse
// @Failure 404 {object} map[string]string
// @Router /auditoriums/{id} [get]
func (h *AuditoriumHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なシアターID")
	}
	a, err := h.service.GetAuditorium(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toAuditoriumResponse(a))
}

// List godoc
// @Summary シアター一覧を取得
// @Tags auditoriums
// @Produce json
// @Success 200 {array} AuditoriumResponse
// @Router /auditoriums [get]
func (h *AuditoriumHandler) List(c echo.Context) error {
	auditoriums, err := h.service.ListAuditoriums(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	resp := make([]AuditoriumResponse, len(auditoriums))
	for i, a := range auditoriums {
		resp[i] = toAuditoriumResponse(a)
	}
	return c.JSON(http.StatusOK, resp)
}
