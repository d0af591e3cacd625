package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
)

// ShowtimeHandler は上映回管理ハンドラー
type ShowtimeHandler struct {
	service ScheduleServiceInterface
}

func NewShowtimeHandler(s ScheduleServiceInterface) *ShowtimeHandler {
	return &ShowtimeHandler{service: s}
}

type CreateShowtimeRequest struct {
	AuditoriumID   int64     `json:"auditorium_id" validate:"required" example:"1"`
	StartAt        time.Time `json:"start_at" validate:"required"`
	EndAt          time.Time `json:"end_at" validate:"required"`
	Format         string    `json:"format" example:"2D"`
	BasePriceCents int64     `json:"base_price_cents" validate:"min=0" example:"150000"`
	TotalSeats     int       `json:"total_seats" validate:"min=0" example:"120"`
}

type BulkCreateShowtimesRequest struct {
	Showtimes []CreateShowtimeRequest `json:"showtimes" validate:"required,min=1,dive"`
}

type CopyScheduleRequest struct {
	AuditoriumID int64     `json:"auditorium_id" validate:"required" example:"1"`
	SourceDate   time.Time `json:"source_date" validate:"required"`
	TargetDate   time.Time `json:"target_date" validate:"required"`
}

type BulkFailureResponse struct {
	Index int    `json:"index" example:"2"`
	Error string `json:"error"`
}

type BulkShowtimesResponse struct {
	Created  []ShowtimeResponse    `json:"created"`
	Failures []BulkFailureResponse `json:"failures,omitempty"`
}

type UpdateShowtimeRequest struct {
	StartAt        *time.Time `json:"start_at"`
	EndAt          *time.Time `json:"end_at"`
	Format         *string    `json:"format"`
	BasePriceCents *int64     `json:"base_price_cents"`
}

type ShowtimeResponse struct {
	ID             int64     `json:"id" example:"1"`
	AuditoriumID   int64     `json:"auditorium_id" example:"1"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Status         string    `json:"status" example:"scheduled"`
	Format         string    `json:"format" example:"2D"`
	BasePriceCents int64     `json:"base_price_cents" example:"150000"`
	TotalSeats     int       `json:"total_seats" example:"120"`
}

type CancelShowtimeResponse struct {
	Showtime    ShowtimeResponse `json:"showtime"`
	SoldSeatIDs []string         `json:"sold_seat_ids"`
}

type OccupancyResponse struct {
	ShowtimeID    int64   `json:"showtime_id" example:"1"`
	TotalSeats    int     `json:"total_seats" example:"120"`
	SoldSeats     int     `json:"sold_seats" example:"36"`
	OccupancyRate float64 `json:"occupancy_rate" example:"0.3"`
}

type OccupancySummaryResponse struct {
	Showtimes     []OccupancyResponse `json:"showtimes"`
	AverageRate   float64             `json:"average_rate" example:"0.42"`
	TopShowtimeID int64               `json:"top_showtime_id" example:"3"`
}

func toShowtimeResponse(st *showtime.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID: st.ID, AuditoriumID: st.AuditoriumID,
		StartAt: st.StartAt, EndAt: st.EndAt,
		Status: string(st.Status), Format: st.Format,
		BasePriceCents: st.BasePriceCents, TotalSeats: st.TotalSeats,
	}
}

// Create godoc
// @Summary 上映回を登録
// @Description シアターに上映回を登録します（前後30分の転換時間込みで重複検査）
// @Tags showtimes
// @Accept json
// @Produce json
// @Param request body CreateShowtimeRequest true "上映回情報"
// @Success 201 {object} ShowtimeResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "スケジュール重複"
// @Router /showtimes [post]
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req CreateShowtimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	st, err := h.service.CreateShowtime(c.Request().Context(), toCreateShowtimeInput(req))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, toShowtimeResponse(st))
}

func toCreateShowtimeInput(req CreateShowtimeRequest) application.CreateShowtimeInput {
	return application.CreateShowtimeInput{
		AuditoriumID:   req.AuditoriumID,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		Format:         req.Format,
		BasePriceCents: req.BasePriceCents,
		TotalSeats:     req.TotalSeats,
	}
}

func toBulkShowtimesResponse(result *application.BulkShowtimeResult) BulkShowtimesResponse {
	resp := BulkShowtimesResponse{Created: make([]ShowtimeResponse, len(result.Created))}
	for i, st := range result.Created {
		resp.Created[i] = toShowtimeResponse(st)
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, BulkFailureResponse{Index: f.Index, Error: f.Err.Error()})
	}
	return resp
}

// BulkCreate godoc
// @Summary 上映回を一括登録
// @Description 複数の上映回をまとめて登録します。重複した回はスキップされ、失敗として報告されます
// @Tags showtimes
// @Accept json
// @Produce json
// @Param request body BulkCreateShowtimesRequest true "上映回一覧"
// @Success 201 {object} BulkShowtimesResponse
// @Failure 400 {object} map[string]string
// @Router /showtimes/bulk [post]
func (h *ShowtimeHandler) BulkCreate(c echo.Context) error {
	var req BulkCreateShowtimesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	inputs := make([]application.CreateShowtimeInput, len(req.Showtimes))
	for i, r := range req.Showtimes {
		inputs[i] = toCreateShowtimeInput(r)
	}
	result, err := h.service.CreateShowtimesBulk(c.Request().Context(), inputs)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, toBulkShowtimesResponse(result))
}

// CopySchedule godoc
// @Summary 上映スケジュールを複製
// @Description シアターの1日分のスケジュールを別の日に複製します
// @Tags showtimes
// @Accept json
// @Produce json
// @Param request body CopyScheduleRequest true "複製元・複製先"
// @Success 201 {object} BulkShowtimesResponse
// @Failure 400 {object} map[string]string
// @Router /showtimes/copy [post]
func (h *ShowtimeHandler) CopySchedule(c echo.Context) error {
	var req CopyScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.service.CopySchedule(c.Request().Context(), req.AuditoriumID, req.SourceDate, req.TargetDate)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, toBulkShowtimesResponse(result))
}

// GetByID godoc
// @Summary 上映回を取得
// @Tags showtimes
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {object} ShowtimeResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id} [get]
func (h *ShowtimeHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	st, err := h.service.GetShowtime(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toShowtimeResponse(st))
}

// List godoc
// @Summary 上映回一覧を取得
// @Tags showtimes
// @Produce json
// @Param auditorium_id query int false "シアターID"
// @Param status query string false "状態（scheduled/canceled/completed）"
// @Success 200 {array} ShowtimeResponse
// @Router /showtimes [get]
func (h *ShowtimeHandler) List(c echo.Context) error {
	var filter showtime.Filter
	if v := c.QueryParam("auditorium_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "無効なシアターID")
		}
		filter.AuditoriumID = id
	}
	if v := c.QueryParam("status"); v != "" {
		filter.Status = showtime.Status(v)
	}
	showtimes, err := h.service.ListShowtimes(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}
	resp := make([]ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		resp[i] = toShowtimeResponse(st)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 上映回を更新
// @Description 販売済み座席がある場合は価格・フォーマットのみ変更できます
// @Tags showtimes
// @Accept json
// @Produce json
// @Param id path int true "上映回ID"
// @Param request body UpdateShowtimeRequest true "更新情報"
// @Success 200 {object} ShowtimeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /showtimes/{id} [put]
func (h *ShowtimeHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateShowtimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	st, err := h.service.UpdateShowtime(c.Request().Context(), id, application.UpdateShowtimeInput{
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		Format:         req.Format,
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toShowtimeResponse(st))
}

// Cancel godoc
// @Summary 上映回をキャンセル
// @Description 販売済み座席がある場合も成立し、返金対応が必要な座席を返します
// @Tags showtimes
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {object} CancelShowtimeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/cancel [post]
func (h *ShowtimeHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.service.CancelShowtime(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, CancelShowtimeResponse{
		Showtime:    toShowtimeResponse(result.Showtime),
		SoldSeatIDs: result.SoldSeatIDs,
	})
}

// Complete godoc
// @Summary 上映回を完了
// @Description 上映終了後に完了状態へ遷移し、座席在庫を破棄します
// @Tags showtimes
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {object} ShowtimeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/complete [post]
func (h *ShowtimeHandler) Complete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	st, err := h.service.CompleteShowtime(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toShowtimeResponse(st))
}

// Delete godoc
// @Summary 上映回を削除
// @Description 販売済み座席がある場合は削除できません
// @Tags showtimes
// @Param id path int true "上映回ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id} [delete]
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteShowtime(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetOccupancy godoc
// @Summary 上映回の販売状況を取得
// @Tags showtimes
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {object} OccupancyResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/occupancy [get]
func (h *ShowtimeHandler) GetOccupancy(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.service.GetOccupancy(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, OccupancyResponse{
		ShowtimeID:    report.ShowtimeID,
		TotalSeats:    report.TotalSeats,
		SoldSeats:     report.SoldSeats,
		OccupancyRate: report.OccupancyRate,
	})
}

// GetOccupancySummary godoc
// @Summary 全上映回の販売状況を集計
// @Tags showtimes
// @Produce json
// @Success 200 {object} OccupancySummaryResponse
// @Router /occupancy [get]
func (h *ShowtimeHandler) GetOccupancySummary(c echo.Context) error {
	summary, err := h.service.GetOccupancySummary(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	resp := OccupancySummaryResponse{
		Showtimes:     make([]OccupancyResponse, len(summary.Showtimes)),
		AverageRate:   summary.AverageRate,
		TopShowtimeID: summary.TopShowtimeID,
	}
	for i, r := range summary.Showtimes {
		resp.Showtimes[i] = OccupancyResponse{
			ShowtimeID:    r.ShowtimeID,
			TotalSeats:    r.TotalSeats,
			SoldSeats:     r.SoldSeats,
			OccupancyRate: r.OccupancyRate,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// parseID はパスパラメータのIDを解析する
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "無効なID")
	}
	return id, nil
}
