package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/showtime"
)

// ConflictChecker はシアター単位の上映スケジュール重複を検査する。
// 検査から登録までを同一シアターのロックで直列化することで、
// 検査と登録の間に競合する上映回が割り込むことを防ぐ。
type ConflictChecker struct {
	showtimes showtime.Repository
	buffer    time.Duration

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewConflictChecker はコンフリクトチェッカーを作成する。
// buffer は上映間の転換時間（清掃・入れ替え）で、前後の上映との間に必ず確保される。
func NewConflictChecker(showtimes showtime.Repository, buffer time.Duration) *ConflictChecker {
	return &ConflictChecker{
		showtimes: showtimes,
		buffer:    buffer,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// Buffer は設定された転換時間を返す
func (c *ConflictChecker) Buffer() time.Duration {
	return c.buffer
}

// lockFor はシアターごとのロックを返す
func (c *ConflictChecker) lockFor(auditoriumID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[auditoriumID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[auditoriumID] = l
	}
	return l
}

// Conflicting は指定の時間帯と転換時間込みで重複する予定済み上映回を返す。
// excludeID が 0 以外の場合、その上映回自身は除外する（更新時の自己衝突回避）。
func (c *ConflictChecker) Conflicting(ctx context.Context, auditoriumID int64, start, end time.Time, excludeID int64) ([]*showtime.Showtime, error) {
	existing, err := c.showtimes.ListScheduledByAuditorium(ctx, auditoriumID)
	if err != nil {
		return nil, err
	}

	var conflicts []*showtime.Showtime
	for _, s := range existing {
		if s.ID == excludeID {
			continue
		}
		if s.OverlapsWindow(start, end, c.buffer) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts, nil
}

// WithAuditoriumLock はシアターのロックを保持した状態で fn を実行する。
// 重複検査と上映回の登録・更新はこの中で行う。
func (c *ConflictChecker) WithAuditoriumLock(auditoriumID int64, fn func() error) error {
	l := c.lockFor(auditoriumID)
	l.Lock()
	defer l.Unlock()
	return fn()
}
