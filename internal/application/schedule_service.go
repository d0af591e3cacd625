package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/auditorium"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-reservation/internal/inventory"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-reservation/internal/schedule"
)

// ScheduleService はシアターと上映スケジュールの管理を提供する
type ScheduleService struct {
	auditoriums auditorium.Repository
	showtimes   showtime.Repository
	registry    *inventory.Registry
	checker     *schedule.ConflictChecker
	metrics     *metrics.Metrics
}

// NewScheduleService はスケジュールサービスを作成する
func NewScheduleService(
	ar auditorium.Repository,
	sr showtime.Repository,
	registry *inventory.Registry,
	checker *schedule.ConflictChecker,
	m *metrics.Metrics,
) *ScheduleService {
	return &ScheduleService{
		auditoriums: ar,
		showtimes:   sr,
		registry:    registry,
		checker:     checker,
		metrics:     m,
	}
}

// CreateAuditoriumInput はシアター作成の入力
type CreateAuditoriumInput struct {
	Name     string
	Capacity int
	RoomType string
	Formats  []string
}

// CreateAuditorium はシアターを登録する
func (s *ScheduleService) CreateAuditorium(ctx context.Context, input CreateAuditoriumInput) (*auditorium.Auditorium, error) {
	a := auditorium.New(input.Name, input.Capacity, input.RoomType, input.Formats)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.auditoriums.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("シアター作成に失敗: %w", err)
	}
	return a, nil
}

// GetAuditorium はIDからシアターを取得する
func (s *ScheduleService) GetAuditorium(ctx context.Context, id int64) (*auditorium.Auditorium, error) {
	return s.auditoriums.GetByID(ctx, id)
}

// ListAuditoriums はシアター一覧を取得する
func (s *ScheduleService) ListAuditoriums(ctx context.Context) ([]*auditorium.Auditorium, error) {
	return s.auditoriums.List(ctx)
}

// CreateShowtimeInput は上映回作成の入力。
// TotalSeats が 0 の場合はシアターの収容人数がそのまま使われる。
type CreateShowtimeInput struct {
	AuditoriumID   int64
	StartAt        time.Time
	EndAt          time.Time
	Format         string
	BasePriceCents int64
	TotalSeats     int
}

// CreateShowtime は上映回を登録し、座席在庫を生成する。
// 同じシアターの既存上映回と転換時間込みで重複する場合は拒否される。
// 重複検査と登録はシアター単位のロックで直列化される。
func (s *ScheduleService) CreateShowtime(ctx context.Context, input CreateShowtimeInput) (*showtime.Showtime, error) {
	a, err := s.auditoriums.GetByID(ctx, input.AuditoriumID)
	if err != nil {
		return nil, fmt.Errorf("シアター取得に失敗: %w", err)
	}
	if input.Format == "" {
		input.Format = "2D"
	}
	if !a.SupportsFormat(input.Format) {
		return nil, auditorium.ErrUnsupportedFormat
	}
	if input.TotalSeats == 0 {
		input.TotalSeats = a.Capacity
	}
	if input.TotalSeats > a.Capacity {
		return nil, auditorium.ErrCapacityExceeded
	}

	st := showtime.New(input.AuditoriumID, input.StartAt, input.EndAt, input.Format, input.BasePriceCents, input.TotalSeats)
	if err := st.Validate(); err != nil {
		return nil, err
	}

	err = s.checker.WithAuditoriumLock(input.AuditoriumID, func() error {
		conflicts, err := s.checker.Conflicting(ctx, input.AuditoriumID, input.StartAt, input.EndAt, 0)
		if err != nil {
			return fmt.Errorf("重複検査に失敗: %w", err)
		}
		if len(conflicts) > 0 {
			if s.metrics != nil {
				s.metrics.ScheduleConflictsTotal.Inc()
			}
			return fmt.Errorf("%w: 上映回 %d と重複", showtime.ErrScheduleConflict, conflicts[0].ID)
		}
		return s.showtimes.Create(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	s.registry.Create(st.ID, st.TotalSeats)
	return st, nil
}

// BulkFailure は一括登録で失敗した1件を表す
type BulkFailure struct {
	Index int
	Err   error
}

// BulkShowtimeResult は一括登録の結果
type BulkShowtimeResult struct {
	Created  []*showtime.Showtime
	Failures []BulkFailure
}

// CreateShowtimesBulk は複数の上映回をまとめて登録する。
// 失敗した回はスキップされ、成功分と失敗分の両方が結果に含まれる。
func (s *ScheduleService) CreateShowtimesBulk(ctx context.Context, inputs []CreateShowtimeInput) (*BulkShowtimeResult, error) {
	result := &BulkShowtimeResult{}
	for i, input := range inputs {
		st, err := s.CreateShowtime(ctx, input)
		if err != nil {
			result.Failures = append(result.Failures, BulkFailure{Index: i, Err: err})
			continue
		}
		result.Created = append(result.Created, st)
	}
	return result, nil
}

// CopySchedule はシアターの1日分の上映スケジュールを別の日に複製する。
// 複製先で重複する回はスキップされ、失敗として報告される。
func (s *ScheduleService) CopySchedule(ctx context.Context, auditoriumID int64, sourceDate, targetDate time.Time) (*BulkShowtimeResult, error) {
	dayStart := time.Date(sourceDate.Year(), sourceDate.Month(), sourceDate.Day(), 0, 0, 0, 0, sourceDate.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	showtimes, err := s.showtimes.List(ctx, showtime.Filter{
		Status:       showtime.StatusScheduled,
		AuditoriumID: auditoriumID,
		From:         dayStart,
		To:           dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("上映回一覧の取得に失敗: %w", err)
	}

	targetStart := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	offset := targetStart.Sub(dayStart)
	inputs := make([]CreateShowtimeInput, len(showtimes))
	for i, st := range showtimes {
		inputs[i] = CreateShowtimeInput{
			AuditoriumID:   auditoriumID,
			StartAt:        st.StartAt.Add(offset),
			EndAt:          st.EndAt.Add(offset),
			Format:         st.Format,
			BasePriceCents: st.BasePriceCents,
			TotalSeats:     st.TotalSeats,
		}
	}
	return s.CreateShowtimesBulk(ctx, inputs)
}

// GetShowtime はIDから上映回を取得する
func (s *ScheduleService) GetShowtime(ctx context.Context, id int64) (*showtime.Showtime, error) {
	return s.showtimes.GetByID(ctx, id)
}

// ListShowtimes は条件に合致する上映回一覧を取得する
func (s *ScheduleService) ListShowtimes(ctx context.Context, filter showtime.Filter) ([]*showtime.Showtime, error) {
	return s.showtimes.List(ctx, filter)
}

// UpdateShowtimeInput は上映回更新の入力。nil のフィールドは変更しない。
type UpdateShowtimeInput struct {
	StartAt        *time.Time
	EndAt          *time.Time
	Format         *string
	BasePriceCents *int64
}

// UpdateShowtime は上映回を更新する。
// 販売済みの座席がある場合、上映時間の変更は拒否される（価格・フォーマットのみ変更可）。
func (s *ScheduleService) UpdateShowtime(ctx context.Context, id int64, input UpdateShowtimeInput) (*showtime.Showtime, error) {
	st, err := s.showtimes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.IsScheduled() {
		return nil, showtime.ErrShowtimeNotScheduled
	}

	timeChanged := false
	if input.StartAt != nil && !input.StartAt.Equal(st.StartAt) {
		timeChanged = true
	}
	if input.EndAt != nil && !input.EndAt.Equal(st.EndAt) {
		timeChanged = true
	}

	if timeChanged {
		if inv, invErr := s.registry.Get(id); invErr == nil && inv.SoldCount() > 0 {
			return nil, showtime.ErrHasSoldSeats
		}
	}

	if input.StartAt != nil {
		st.StartAt = *input.StartAt
	}
	if input.EndAt != nil {
		st.EndAt = *input.EndAt
	}
	if input.Format != nil {
		a, err := s.auditoriums.GetByID(ctx, st.AuditoriumID)
		if err != nil {
			return nil, fmt.Errorf("シアター取得に失敗: %w", err)
		}
		if !a.SupportsFormat(*input.Format) {
			return nil, auditorium.ErrUnsupportedFormat
		}
		st.Format = *input.Format
	}
	if input.BasePriceCents != nil {
		st.BasePriceCents = *input.BasePriceCents
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	st.UpdatedAt = time.Now()

	if !timeChanged {
		if err := s.showtimes.Update(ctx, st); err != nil {
			return nil, fmt.Errorf("上映回更新に失敗: %w", err)
		}
		return st, nil
	}

	// 時間変更は再度の重複検査込みで直列化する
	err = s.checker.WithAuditoriumLock(st.AuditoriumID, func() error {
		conflicts, err := s.checker.Conflicting(ctx, st.AuditoriumID, st.StartAt, st.EndAt, st.ID)
		if err != nil {
			return fmt.Errorf("重複検査に失敗: %w", err)
		}
		if len(conflicts) > 0 {
			if s.metrics != nil {
				s.metrics.ScheduleConflictsTotal.Inc()
			}
			return fmt.Errorf("%w: 上映回 %d と重複", showtime.ErrScheduleConflict, conflicts[0].ID)
		}
		return s.showtimes.Update(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// CancelResult は上映回キャンセルの結果
type CancelResult struct {
	Showtime *showtime.Showtime
	// 返金対応が必要な販売済み座席
	SoldSeatIDs []string
}

// CancelShowtime は上映回をキャンセルする。
// 販売済みの座席がある場合もキャンセルは成立し、返金対応が必要な座席を報告する。
func (s *ScheduleService) CancelShowtime(ctx context.Context, id int64) (*CancelResult, error) {
	st, err := s.showtimes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.Cancel(); err != nil {
		return nil, err
	}
	if err := s.showtimes.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("上映回更新に失敗: %w", err)
	}

	result := &CancelResult{Showtime: st}
	if inv, invErr := s.registry.Get(id); invErr == nil {
		result.SoldSeatIDs = inv.SoldSeatIDs()
	}
	return result, nil
}

// CompleteShowtime は上映終了後に上映回を完了状態にし、座席在庫を破棄する
func (s *ScheduleService) CompleteShowtime(ctx context.Context, id int64) (*showtime.Showtime, error) {
	st, err := s.showtimes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.Complete(); err != nil {
		return nil, err
	}
	if err := s.showtimes.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("上映回更新に失敗: %w", err)
	}
	s.registry.Remove(id)
	return st, nil
}

// DeleteShowtime は上映回を削除する。販売済みの座席がある場合は拒否される。
func (s *ScheduleService) DeleteShowtime(ctx context.Context, id int64) error {
	if inv, err := s.registry.Get(id); err == nil && inv.SoldCount() > 0 {
		return showtime.ErrHasSoldSeats
	}
	if err := s.showtimes.Delete(ctx, id); err != nil {
		return err
	}
	s.registry.Remove(id)
	return nil
}

// OccupancyReport は上映回ごとの販売状況
type OccupancyReport struct {
	ShowtimeID    int64
	TotalSeats    int
	SoldSeats     int
	OccupancyRate float64
}

// GetOccupancy は上映回の販売状況を返す
func (s *ScheduleService) GetOccupancy(ctx context.Context, showtimeID int64) (*OccupancyReport, error) {
	inv, err := s.registry.Get(showtimeID)
	if err != nil {
		return nil, err
	}
	return &OccupancyReport{
		ShowtimeID:    showtimeID,
		TotalSeats:    inv.TotalSeats(),
		SoldSeats:     inv.SoldCount(),
		OccupancyRate: inv.OccupancyRate(),
	}, nil
}

// OccupancySummary は全上映回の販売状況の集計
type OccupancySummary struct {
	Showtimes   []OccupancyReport
	AverageRate float64
	// 販売率が最も高い上映回（上映回がない場合は0）
	TopShowtimeID int64
}

// GetOccupancySummary は稼働中の全上映回の販売状況を集計する
func (s *ScheduleService) GetOccupancySummary(ctx context.Context) (*OccupancySummary, error) {
	summary := &OccupancySummary{}

	var sum float64
	var topRate float64
	s.registry.ForEach(func(inv *inventory.SeatInventory) {
		report := OccupancyReport{
			ShowtimeID:    inv.ShowtimeID(),
			TotalSeats:    inv.TotalSeats(),
			SoldSeats:     inv.SoldCount(),
			OccupancyRate: inv.OccupancyRate(),
		}
		summary.Showtimes = append(summary.Showtimes, report)
		sum += report.OccupancyRate
		if summary.TopShowtimeID == 0 || report.OccupancyRate > topRate {
			summary.TopShowtimeID = report.ShowtimeID
			topRate = report.OccupancyRate
		}
	})

	sort.Slice(summary.Showtimes, func(i, j int) bool {
		return summary.Showtimes[i].ShowtimeID < summary.Showtimes[j].ShowtimeID
	})
	if len(summary.Showtimes) > 0 {
		summary.AverageRate = sum / float64(len(summary.Showtimes))
	}
	return summary, nil
}
