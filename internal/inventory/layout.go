package inventory

import (
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/seat"
)

const seatsPerRow = 10

// GenerateLayout は収容人数から標準的な座席レイアウトを生成する。
// 1列10席で構成し、後方2列はVIP席、各列の5〜6番はカップル席となる。
func GenerateLayout(capacity int) []*seat.Seat {
	if capacity <= 0 {
		return nil
	}

	rows := (capacity + seatsPerRow - 1) / seatsPerRow
	seats := make([]*seat.Seat, 0, capacity)

	for i := 0; i < rows; i++ {
		row := string(rune('A' + i))
		for n := 1; n <= seatsPerRow; n++ {
			if len(seats) >= capacity {
				break
			}
			category := seat.CategoryStandard
			switch {
			case rows > 2 && i >= rows-2:
				category = seat.CategoryVIP
			case n == 5 || n == 6:
				category = seat.CategoryCouple
			}
			seats = append(seats, seat.New(row, n, category))
		}
	}
	return seats
}
