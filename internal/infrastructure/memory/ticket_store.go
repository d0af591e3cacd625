package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/ticket"
)

// TicketStore はチケットのインメモリリポジトリ
type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]*ticket.Ticket
}

var _ ticket.Repository = (*TicketStore)(nil)

// NewTicketStore はチケットストアを作成する
func NewTicketStore() *TicketStore {
	return &TicketStore{
		tickets: make(map[string]*ticket.Ticket),
	}
}

// CreateBulk は複数のチケットを一括登録する
func (s *TicketStore) CreateBulk(ctx context.Context, tickets []*ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tickets {
		copied := *t
		s.tickets[t.ID] = &copied
	}
	return nil
}

// GetByID はIDからチケットを取得する
func (s *TicketStore) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

// ListByOrder は注文IDからチケット一覧を座席ID順で取得する
func (s *TicketStore) ListByOrder(ctx context.Context, orderID int64) ([]*ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ticket.Ticket
	for _, t := range s.tickets {
		if t.OrderID == orderID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatID < out[j].SeatID })
	return out, nil
}

// Update はチケットを更新する
func (s *TicketStore) Update(ctx context.Context, t *ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[t.ID]; !ok {
		return ticket.ErrTicketNotFound
	}
	copied := *t
	s.tickets[t.ID] = &copied
	return nil
}
