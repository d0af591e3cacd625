package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// HoldSweeper は期限切れの仮押さえを回収するインターフェース
type HoldSweeper interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

// HoldReaper は期限切れの座席仮押さえを定期的に回収するワーカー
type HoldReaper struct {
	bookingService HoldSweeper
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewHoldReaper は新しいリーパーを作成
func NewHoldReaper(bs HoldSweeper, interval time.Duration) *HoldReaper {
	return &HoldReaper{
		bookingService: bs,
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はリーパーを開始
func (r *HoldReaper) Start(ctx context.Context) {
	logger.Info("仮押さえリーパー開始",
		zap.Duration("interval", r.interval),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("仮押さえリーパー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("仮押さえリーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// Stop はリーパーを停止
func (r *HoldReaper) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// sweep は期限切れの仮押さえを解放
func (r *HoldReaper) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ仮押さえの掃き出し開始")

	count, err := r.bookingService.ReleaseExpiredHolds(ctx)
	if err != nil {
		log.Error("期限切れ仮押さえの掃き出し失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れ仮押さえを解放", zap.Int("count", count))
	} else {
		log.Debug("期限切れ仮押さえなし")
	}
}
