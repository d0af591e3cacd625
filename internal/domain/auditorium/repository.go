package auditorium

import "context"

// Repository は上映ホールリポジトリのインターフェース
type Repository interface {
	// Create は新しい上映ホールを作成する
	Create(ctx context.Context, a *Auditorium) error

	// GetByID はIDから上映ホールを取得する
	GetByID(ctx context.Context, id int64) (*Auditorium, error)

	// List は上映ホール一覧を取得する
	List(ctx context.Context) ([]*Auditorium, error)
}
