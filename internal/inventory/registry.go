package inventory

import (
	"sync"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
)

// Registry は上映回IDごとの座席在庫を保持する。
// 在庫の生成・取得・破棄のみを直列化し、各在庫内の座席操作は
// 在庫自身のミューテックスに委ねる。
type Registry struct {
	mu          sync.RWMutex
	inventories map[int64]*SeatInventory
}

// NewRegistry は空のレジストリを作成する
func NewRegistry() *Registry {
	return &Registry{
		inventories: make(map[int64]*SeatInventory),
	}
}

// Create は上映回の在庫を新規登録する。既に存在する場合は false を返す。
func (r *Registry) Create(showtimeID int64, capacity int) (*SeatInventory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inventories[showtimeID]; ok {
		return nil, false
	}
	inv := New(showtimeID, GenerateLayout(capacity))
	r.inventories[showtimeID] = inv
	return inv, true
}

// Get は上映回の在庫を取得する
func (r *Registry) Get(showtimeID int64) (*SeatInventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.inventories[showtimeID]
	if !ok {
		return nil, showtime.ErrShowtimeNotFound
	}
	return inv, nil
}

// Remove は上映回の在庫を破棄する
func (r *Registry) Remove(showtimeID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inventories, showtimeID)
}

// ForEach は登録済みの全在庫に対して fn を呼び出す。
// fn の実行中はレジストリの読み取りロックのみを保持する。
func (r *Registry) ForEach(fn func(*SeatInventory)) {
	r.mu.RLock()
	snapshot := make([]*SeatInventory, 0, len(r.inventories))
	for _, inv := range r.inventories {
		snapshot = append(snapshot, inv)
	}
	r.mu.RUnlock()

	for _, inv := range snapshot {
		fn(inv)
	}
}
