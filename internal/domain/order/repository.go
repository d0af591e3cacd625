package order

import "context"

// Repository は注文リポジトリのインターフェース
type Repository interface {
	// Create は新しい注文を作成し、IDを採番する
	Create(ctx context.Context, o *Order) error

	// GetByID はIDから注文を取得する
	GetByID(ctx context.Context, id int64) (*Order, error)

	// ListByStaff はスタッフIDから注文一覧を取得する
	ListByStaff(ctx context.Context, staffID int64) ([]*Order, error)

	// ListByShowtime は上映回IDから注文一覧を取得する
	ListByShowtime(ctx context.Context, showtimeID int64) ([]*Order, error)

	// Update は注文を更新する
	Update(ctx context.Context, o *Order) error

	// Delete は注文を削除する（仮押さえ失敗時の巻き戻し専用）
	Delete(ctx context.Context, id int64) error
}
