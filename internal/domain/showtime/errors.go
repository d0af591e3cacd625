package showtime

import "errors"

// Showtime ドメインのエラー定義
var (
	ErrShowtimeNotFound     = errors.New("上映回が見つかりません")
	ErrShowtimeNotScheduled = errors.New("上映回は予定状態ではありません")
	ErrShowtimeNotOpen      = errors.New("上映回の予約受付期間外です")
	ErrScheduleConflict     = errors.New("同じホールの既存の上映回と時間が重複しています")
	ErrInvalidWindow        = errors.New("終了時刻は開始時刻より後である必要があります")
	ErrInvalidBasePrice     = errors.New("基本価格は0以上である必要があります")
	ErrInvalidTotalSeats    = errors.New("座席数は1以上である必要があります")
	ErrAuditoriumIDRequired = errors.New("上映ホールIDは必須です")
	ErrHasSoldSeats         = errors.New("販売済みの座席が残っているため完了できません")
)
