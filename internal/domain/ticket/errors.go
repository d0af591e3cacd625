package ticket

import "errors"

// Ticket ドメインのエラー定義
var (
	ErrTicketNotFound        = errors.New("チケットが見つかりません")
	ErrTicketAlreadyCanceled = errors.New("チケットは既にキャンセルされています")
)
