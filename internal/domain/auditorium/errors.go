package auditorium

import "errors"

// Auditorium ドメインのエラー定義
var (
	ErrAuditoriumNotFound = errors.New("上映ホールが見つかりません")
	ErrNameRequired       = errors.New("ホール名は必須です")
	ErrInvalidCapacity    = errors.New("収容人数は1以上である必要があります")
	ErrUnsupportedFormat  = errors.New("上映ホールはこのフォーマットに対応していません")
	ErrCapacityExceeded   = errors.New("座席数が上映ホールの収容人数を超えています")
)
