package showtime

import (
	"context"
	"time"
)

// Filter は上映回一覧の絞り込み条件。ゼロ値のフィールドは無視される。
type Filter struct {
	Status       Status
	AuditoriumID int64
	From         time.Time
	To           time.Time
}

// Repository は上映回リポジトリのインターフェース
type Repository interface {
	// Create は新しい上映回を作成する
	Create(ctx context.Context, s *Showtime) error

	// GetByID はIDから上映回を取得する
	GetByID(ctx context.Context, id int64) (*Showtime, error)

	// List は条件に一致する上映回一覧を取得する
	List(ctx context.Context, filter Filter) ([]*Showtime, error)

	// ListScheduledByAuditorium はホールの予定状態の上映回一覧を取得する
	ListScheduledByAuditorium(ctx context.Context, auditoriumID int64) ([]*Showtime, error)

	// Update は上映回を更新する
	Update(ctx context.Context, s *Showtime) error

	// Delete は上映回を完全に削除する
	Delete(ctx context.Context, id int64) error
}
