package auditorium

import "time"

// Auditorium は上映ホールエンティティを表す。
// Capacity は上映回の座席数の上限であり、作成後は変更できない。
type Auditorium struct {
	ID        int64
	Name      string
	Capacity  int
	RoomType  string // Standard, IMAX, 4DX など
	Formats   []string
	CreatedAt time.Time
}

// New は新しい上映ホールを作成する
func New(name string, capacity int, roomType string, formats []string) *Auditorium {
	if roomType == "" {
		roomType = "Standard"
	}
	if len(formats) == 0 {
		formats = []string{"2D", "3D"}
	}
	return &Auditorium{
		Name:      name,
		Capacity:  capacity,
		RoomType:  roomType,
		Formats:   formats,
		CreatedAt: time.Now(),
	}
}

// SupportsFormat は指定フォーマットに対応しているかを返す
func (a *Auditorium) SupportsFormat(format string) bool {
	for _, f := range a.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Validate は上映ホールの検証を行う
func (a *Auditorium) Validate() error {
	if a.Name == "" {
		return ErrNameRequired
	}
	if a.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
