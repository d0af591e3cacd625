package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
)

// ShowtimeStore は上映回のインメモリリポジトリ
type ShowtimeStore struct {
	mu        sync.RWMutex
	nextID    int64
	showtimes map[int64]*showtime.Showtime
}

var _ showtime.Repository = (*ShowtimeStore)(nil)

// NewShowtimeStore は上映回ストアを作成する
func NewShowtimeStore() *ShowtimeStore {
	return &ShowtimeStore{
		nextID:    1,
		showtimes: make(map[int64]*showtime.Showtime),
	}
}

// Create は上映回を登録し、IDを採番する
func (s *ShowtimeStore) Create(ctx context.Context, st *showtime.Showtime) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.ID = s.nextID
	s.nextID++

	stored := copyShowtime(st)
	s.showtimes[st.ID] = stored
	return nil
}

// GetByID はIDから上映回を取得する
func (s *ShowtimeStore) GetByID(ctx context.Context, id int64) (*showtime.Showtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.showtimes[id]
	if !ok {
		return nil, showtime.ErrShowtimeNotFound
	}
	return copyShowtime(st), nil
}

// List は条件に合致する上映回を開始時刻順で取得する
func (s *ShowtimeStore) List(ctx context.Context, filter showtime.Filter) ([]*showtime.Showtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*showtime.Showtime
	for _, st := range s.showtimes {
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if filter.AuditoriumID != 0 && st.AuditoriumID != filter.AuditoriumID {
			continue
		}
		if !filter.From.IsZero() && st.EndAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && st.StartAt.After(filter.To) {
			continue
		}
		out = append(out, copyShowtime(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// ListScheduledByAuditorium はシアター内の予定済み上映回を取得する
func (s *ShowtimeStore) ListScheduledByAuditorium(ctx context.Context, auditoriumID int64) ([]*showtime.Showtime, error) {
	return s.List(ctx, showtime.Filter{
		Status:       showtime.StatusScheduled,
		AuditoriumID: auditoriumID,
	})
}

// Update は上映回を更新する
func (s *ShowtimeStore) Update(ctx context.Context, st *showtime.Showtime) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.showtimes[st.ID]; !ok {
		return showtime.ErrShowtimeNotFound
	}
	s.showtimes[st.ID] = copyShowtime(st)
	return nil
}

// Delete は上映回を削除する
func (s *ShowtimeStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.showtimes[id]; !ok {
		return showtime.ErrShowtimeNotFound
	}
	delete(s.showtimes, id)
	return nil
}

func copyShowtime(st *showtime.Showtime) *showtime.Showtime {
	copied := *st
	return &copied
}
