package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/order"
)

// OrderStore は注文のインメモリリポジトリ
type OrderStore struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]*order.Order
}

var _ order.Repository = (*OrderStore)(nil)

// NewOrderStore は注文ストアを作成する
func NewOrderStore() *OrderStore {
	return &OrderStore{
		nextID: 1,
		orders: make(map[int64]*order.Order),
	}
}

// Create は注文を登録し、IDを採番する
func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextID
	s.nextID++

	s.orders[o.ID] = copyOrder(o)
	return nil
}

// GetByID はIDから注文を取得する
func (s *OrderStore) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

// ListByStaff はスタッフIDから注文一覧をID順で取得する
func (s *OrderStore) ListByStaff(ctx context.Context, staffID int64) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*order.Order
	for _, o := range s.orders {
		if o.StaffID == staffID {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListByShowtime は上映回IDから注文一覧をID順で取得する
func (s *OrderStore) ListByShowtime(ctx context.Context, showtimeID int64) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*order.Order
	for _, o := range s.orders {
		if o.ShowtimeID == showtimeID {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update は注文を更新する
func (s *OrderStore) Update(ctx context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; !ok {
		return order.ErrOrderNotFound
	}
	s.orders[o.ID] = copyOrder(o)
	return nil
}

// Delete は注文を削除する
func (s *OrderStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func copyOrder(o *order.Order) *order.Order {
	copied := *o
	copied.SeatIDs = append([]string(nil), o.SeatIDs...)
	return &copied
}
