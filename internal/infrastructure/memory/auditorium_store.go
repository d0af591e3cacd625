package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/auditorium"
)

// AuditoriumStore はシアターのインメモリリポジトリ
type AuditoriumStore struct {
	mu     sync.RWMutex
	nextID int64
	rooms  map[int64]*auditorium.Auditorium
}

var _ auditorium.Repository = (*AuditoriumStore)(nil)

// NewAuditoriumStore はシアターストアを作成する
func NewAuditoriumStore() *AuditoriumStore {
	return &AuditoriumStore{
		nextID: 1,
		rooms:  make(map[int64]*auditorium.Auditorium),
	}
}

// Create はシアターを登録し、IDを採番する
func (s *AuditoriumStore) Create(ctx context.Context, a *auditorium.Auditorium) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.nextID
	s.nextID++

	stored := *a
	s.rooms[a.ID] = &stored
	return nil
}

// GetByID はIDからシアターを取得する
func (s *AuditoriumStore) GetByID(ctx context.Context, id int64) (*auditorium.Auditorium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.rooms[id]
	if !ok {
		return nil, auditorium.ErrAuditoriumNotFound
	}
	copied := *a
	return &copied, nil
}

// List は全シアターをID順で取得する
func (s *AuditoriumStore) List(ctx context.Context) ([]*auditorium.Auditorium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*auditorium.Auditorium, 0, len(s.rooms))
	for _, a := range s.rooms {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
