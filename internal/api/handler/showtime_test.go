package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/auditorium"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
)

// MockScheduleService はScheduleServiceInterfaceのモック
type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) CreateAuditorium(ctx context.Context, input application.CreateAuditoriumInput) (*auditorium.Auditorium, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditorium.Auditorium), args.Error(1)
}

func (m *MockScheduleService) GetAuditorium(ctx context.Context, id int64) (*auditorium.Auditorium, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditorium.Auditorium), args.Error(1)
}

func (m *MockScheduleService) ListAuditoriums(ctx context.Context) ([]*auditorium.Auditorium, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditorium.Auditorium), args.Error(1)
}

func (m *MockScheduleService) CreateShowtime(ctx context.Context, input application.CreateShowtimeInput) (*showtime.Showtime, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Showtime), args.Error(1)
}

func (m *MockScheduleService) CreateShowtimesBulk(ctx context.Context, inputs []application.CreateShowtimeInput) (*application.BulkShowtimeResult, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.BulkShowtimeResult), args.Error(1)
}

func (m *MockScheduleService) CopySchedule(ctx context.Context, auditoriumID int64, sourceDate, targetDate time.Time) (*application.BulkShowtimeResult, error) {
	args := m.Called(ctx, auditoriumID, sourceDate, targetDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.BulkShowtimeResult), args.Error(1)
}

func (m *MockScheduleService) GetShowtime(ctx context.Context, id int64) (*showtime.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Showtime), args.Error(1)
}

func (m *MockScheduleService) ListShowtimes(ctx context.Context, filter showtime.Filter) ([]*showtime.Showtime, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*showtime.Showtime), args.Error(1)
}

func (m *MockScheduleService) UpdateShowtime(ctx context.Context, id int64, input application.UpdateShowtimeInput) (*showtime.Showtime, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Showtime), args.Error(1)
}

func (m *MockScheduleService) CancelShowtime(ctx context.Context, id int64) (*application.CancelResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CancelResult), args.Error(1)
}

func (m *MockScheduleService) CompleteShowtime(ctx context.Context, id int64) (*showtime.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Showtime), args.Error(1)
}

func (m *MockScheduleService) DeleteShowtime(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScheduleService) GetOccupancy(ctx context.Context, showtimeID int64) (*application.OccupancyReport, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.OccupancyReport), args.Error(1)
}

func (m *MockScheduleService) GetOccupancySummary(ctx context.Context) (*application.OccupancySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.OccupancySummary), args.Error(1)
}

func testShowtime() *showtime.Showtime {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &showtime.Showtime{
		ID:             1,
		AuditoriumID:   1,
		StartAt:        day.Add(10 * time.Hour),
		EndAt:          day.Add(12 * time.Hour),
		Status:         showtime.StatusScheduled,
		Format:         "2D",
		BasePriceCents: 1500,
		TotalSeats:     50,
	}
}

func TestShowtimeHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に上映回を登録できる", func(t *testing.T) {
		mockService := new(MockScheduleService)
		mockService.On("CreateShowtime", mock.Anything, mock.AnythingOfType("application.CreateShowtimeInput")).
			Return(testShowtime(), nil)
		handler := NewShowtimeHandler(mockService)

		reqBody := `{
			"auditorium_id": 1,
			"start_at": "2026-03-01T10:00:00Z",
			"end_at": "2026-03-01T12:00:00Z",
			"base_price_cents": 1500
		}`
		req := httptest.NewRequest(http.MethodPost, "/showtimes", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp ShowtimeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "scheduled", resp.Status)
		assert.Equal(t, 50, resp.TotalSeats)

		mockService.AssertExpectations(t)
	})

	t.Run("スケジュール重複は409", func(t *testing.T) {
		mockService := new(MockScheduleService)
		mockService.On("CreateShowtime", mock.Anything, mock.Anything).
			Return(nil, showtime.ErrScheduleConflict)
		handler := NewShowtimeHandler(mockService)

		reqBody := `{
			"auditorium_id": 1,
			"start_at": "2026-03-01T12:15:00Z",
			"end_at": "2026-03-01T14:00:00Z",
			"base_price_cents": 1500
		}`
		req := httptest.NewRequest(http.MethodPost, "/showtimes", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestShowtimeHandler_BulkCreate(t *testing.T) {
	e := NewTestEcho()

	t.Run("成功分と失敗分の両方が返る", func(t *testing.T) {
		mockService := new(MockScheduleService)
		mockService.On("CreateShowtimesBulk", mock.Anything, mock.Anything).
			Return(&application.BulkShowtimeResult{
				Created: []*showtime.Showtime{testShowtime()},
				Failures: []application.BulkFailure{
					{Index: 1, Err: showtime.ErrScheduleConflict},
				},
			}, nil)
		handler := NewShowtimeHandler(mockService)

		reqBody := `{
			"showtimes": [
				{"auditorium_id": 1, "start_at": "2026-03-01T10:00:00Z", "end_at": "2026-03-01T12:00:00Z", "base_price_cents": 1500},
				{"auditorium_id": 1, "start_at": "2026-03-01T12:15:00Z", "end_at": "2026-03-01T14:00:00Z", "base_price_cents": 1500}
			]
		}`
		req := httptest.NewRequest(http.MethodPost, "/showtimes/bulk", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.BulkCreate(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp BulkShowtimesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Created, 1)
		require.Len(t, resp.Failures, 1)
		assert.Equal(t, 1, resp.Failures[0].Index)
	})
}

func TestShowtimeHandler_Cancel(t *testing.T) {
	e := NewTestEcho()

	t.Run("キャンセルで返金対象の座席が返る", func(t *testing.T) {
		mockService := new(MockScheduleService)
		st := testShowtime()
		st.Status = showtime.StatusCanceled
		mockService.On("CancelShowtime", mock.Anything, int64(1)).
			Return(&application.CancelResult{Showtime: st, SoldSeatIDs: []string{"A01", "A02"}}, nil)
		handler := NewShowtimeHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/showtimes/1/cancel", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := handler.Cancel(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp CancelShowtimeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "canceled", resp.Showtime.Status)
		assert.Equal(t, []string{"A01", "A02"}, resp.SoldSeatIDs)
	})
}

func TestShowtimeHandler_Delete(t *testing.T) {
	e := NewTestEcho()

	t.Run("販売済み座席があると400", func(t *testing.T) {
		mockService := new(MockScheduleService)
		mockService.On("DeleteShowtime", mock.Anything, int64(1)).
			Return(showtime.ErrHasSoldSeats)
		handler := NewShowtimeHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/showtimes/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := handler.Delete(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
