package seat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seat := New("A", 1, CategoryStandard)

	assert.Equal(t, "A01", seat.ID)
	assert.Equal(t, "A", seat.Row)
	assert.Equal(t, 1, seat.Number)
	assert.Equal(t, CategoryStandard, seat.Category)
	assert.Equal(t, StateAvailable, seat.State)
	assert.True(t, seat.HoldExpiresAt.IsZero())
	assert.Zero(t, seat.HolderOrderID)
}

func TestCategory_MultiplierPercent(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		expected int64
	}{
		{"スタンダード", CategoryStandard, 100},
		{"カップル", CategoryCouple, 130},
		{"VIP", CategoryVIP, 150},
		{"プレミアム", CategoryPremium, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.MultiplierPercent())
		})
	}
}

func TestSeat_CanHold(t *testing.T) {
	now := time.Now()

	t.Run("空席は押さえられる", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)

		assert.NoError(t, seat.CanHold(100, now))
	})

	t.Run("他注文の有効な仮押さえ中は押さえられない", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(5*time.Minute))

		err := seat.CanHold(200, now)

		assert.ErrorIs(t, err, ErrSeatUnavailable)
	})

	t.Run("同一注文による再押さえは許可される", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(5*time.Minute))

		assert.NoError(t, seat.CanHold(100, now))
	})

	t.Run("期限切れの仮押さえは別注文が押さえられる", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(100*time.Second))

		assert.NoError(t, seat.CanHold(200, now.Add(200*time.Second)))
	})

	t.Run("販売済みの座席は押さえられない", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(5*time.Minute))
		seat.Confirm()

		err := seat.CanHold(200, now)

		assert.ErrorIs(t, err, ErrSeatUnavailable)
	})
}

func TestSeat_Hold(t *testing.T) {
	now := time.Now()
	expiresAt := now.Add(5 * time.Minute)

	seat := New("A", 1, CategoryStandard)
	seat.Hold(100, expiresAt)

	assert.Equal(t, StateHeld, seat.State)
	assert.Equal(t, int64(100), seat.HolderOrderID)
	assert.Equal(t, expiresAt, seat.HoldExpiresAt)
}

func TestSeat_IsHoldExpired(t *testing.T) {
	now := time.Now()
	seat := New("A", 1, CategoryStandard)
	seat.Hold(100, now.Add(300*time.Second))

	t.Run("期限前は有効", func(t *testing.T) {
		assert.False(t, seat.IsHoldExpired(now.Add(100*time.Second)))
	})

	t.Run("期限ちょうどで失効する", func(t *testing.T) {
		assert.True(t, seat.IsHoldExpired(now.Add(300*time.Second)))
	})

	t.Run("期限を過ぎると失効", func(t *testing.T) {
		assert.True(t, seat.IsHoldExpired(now.Add(301*time.Second)))
	})
}

func TestSeat_CanConfirm(t *testing.T) {
	now := time.Now()

	t.Run("有効な仮押さえは確定できる", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(5*time.Minute))

		assert.NoError(t, seat.CanConfirm(100, now))
	})

	t.Run("空席は確定できない", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)

		err := seat.CanConfirm(100, now)

		assert.ErrorIs(t, err, ErrSeatNotHeld)
	})

	t.Run("他注文の仮押さえは確定できない", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(200, now.Add(5*time.Minute))

		err := seat.CanConfirm(100, now)

		assert.ErrorIs(t, err, ErrSeatNotHeld)
	})

	t.Run("期限切れの仮押さえは確定できない", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(100*time.Second))

		err := seat.CanConfirm(100, now.Add(200*time.Second))

		assert.ErrorIs(t, err, ErrHoldExpired)
	})
}

func TestSeat_Confirm(t *testing.T) {
	now := time.Now()
	seat := New("A", 1, CategoryStandard)
	seat.Hold(100, now.Add(5*time.Minute))

	seat.Confirm()

	assert.Equal(t, StateSold, seat.State)
	// 販売済みでも注文IDは保持し、期限はクリアされる
	assert.Equal(t, int64(100), seat.HolderOrderID)
	assert.True(t, seat.HoldExpiresAt.IsZero())
}

func TestSeat_Release(t *testing.T) {
	now := time.Now()
	seat := New("A", 1, CategoryStandard)
	seat.Hold(100, now.Add(5*time.Minute))

	seat.Release()

	assert.Equal(t, StateAvailable, seat.State)
	assert.Zero(t, seat.HolderOrderID)
	assert.True(t, seat.HoldExpiresAt.IsZero())
}

func TestSeat_IsAvailableAt(t *testing.T) {
	now := time.Now()

	t.Run("空席は利用可能", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		assert.True(t, seat.IsAvailableAt(now))
	})

	t.Run("有効な仮押さえ中は利用不可", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(5*time.Minute))
		assert.False(t, seat.IsAvailableAt(now))
	})

	t.Run("期限切れの仮押さえは利用可能扱い", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(100*time.Second))
		assert.True(t, seat.IsAvailableAt(now.Add(200*time.Second)))
	})

	t.Run("販売済みは利用不可", func(t *testing.T) {
		seat := New("A", 1, CategoryStandard)
		seat.Hold(100, now.Add(5*time.Minute))
		seat.Confirm()
		assert.False(t, seat.IsAvailableAt(now))
	})
}

func TestSeat_IDFormat(t *testing.T) {
	require.Equal(t, "C07", New("C", 7, CategoryStandard).ID)
	require.Equal(t, "A10", New("A", 10, CategoryStandard).ID)
}
