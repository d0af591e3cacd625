package ticket

import "context"

// Repository はチケットリポジトリのインターフェース
type Repository interface {
	// CreateBulk は複数のチケットを一括作成する
	CreateBulk(ctx context.Context, tickets []*Ticket) error

	// GetByID はIDからチケットを取得する
	GetByID(ctx context.Context, id string) (*Ticket, error)

	// ListByOrder は注文IDからチケット一覧を取得する
	ListByOrder(ctx context.Context, orderID int64) ([]*Ticket, error)

	// Update はチケットを更新する
	Update(ctx context.Context, t *Ticket) error
}
