package showtime

import "time"

// Status は上映回の状態を表す
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

// Showtime は上映回エンティティを表す。
// 時間窓は半開区間 [StartAt, EndAt) で扱う。
type Showtime struct {
	ID             int64
	AuditoriumID   int64
	StartAt        time.Time
	EndAt          time.Time
	Status         Status
	Format         string // 2D, 3D, IMAX, 4DX など
	BasePriceCents int64
	TotalSeats     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New は新しい上映回を作成する
func New(auditoriumID int64, startAt, endAt time.Time, format string, basePriceCents int64, totalSeats int) *Showtime {
	now := time.Now()
	if format == "" {
		format = "2D"
	}
	return &Showtime{
		AuditoriumID:   auditoriumID,
		StartAt:        startAt,
		EndAt:          endAt,
		Status:         StatusScheduled,
		Format:         format,
		BasePriceCents: basePriceCents,
		TotalSeats:     totalSeats,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate は上映回の検証を行う
func (s *Showtime) Validate() error {
	if s.AuditoriumID <= 0 {
		return ErrAuditoriumIDRequired
	}
	if !s.StartAt.Before(s.EndAt) {
		return ErrInvalidWindow
	}
	if s.BasePriceCents < 0 {
		return ErrInvalidBasePrice
	}
	if s.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	return nil
}

// IsScheduled は予定状態かを返す
func (s *Showtime) IsScheduled() bool {
	return s.Status == StatusScheduled
}

// IsBookingOpen は予約を受け付けているかを返す（開演前の予定状態のみ）
func (s *Showtime) IsBookingOpen(now time.Time) bool {
	return s.Status == StatusScheduled && now.Before(s.StartAt)
}

// OverlapsWindow は自身の窓をバッファで拡張した区間
// [StartAt-buffer, EndAt+buffer) が候補の [start, end) と交差するかを返す。
// バッファは比較時にのみ適用され、保存された窓そのものには含まれない。
func (s *Showtime) OverlapsWindow(start, end time.Time, buffer time.Duration) bool {
	expandedStart := s.StartAt.Add(-buffer)
	expandedEnd := s.EndAt.Add(buffer)
	return expandedStart.Before(end) && start.Before(expandedEnd)
}

// Cancel は上映回をキャンセルする（終端状態）
func (s *Showtime) Cancel() error {
	if s.Status != StatusScheduled {
		return ErrShowtimeNotScheduled
	}
	s.Status = StatusCanceled
	s.UpdatedAt = time.Now()
	return nil
}

// Complete は上映回を終了済みにする（終端状態、時間駆動）
func (s *Showtime) Complete() error {
	if s.Status != StatusScheduled {
		return ErrShowtimeNotScheduled
	}
	s.Status = StatusCompleted
	s.UpdatedAt = time.Now()
	return nil
}
