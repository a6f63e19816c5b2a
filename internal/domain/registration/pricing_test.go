package registration

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDiscounted(t *testing.T) {
	tests := []struct {
		base int64
		want int64
	}{
		{0, 0},
		{1, 0},
		{3, 2},
		{4, 3},
		{5, 3},
		{7, 5},
		{1_000_000, 750_000},
		{1_000_001, 750_000},
		{math.MaxInt64, 6917529027641081855},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Discounted(tt.base), "Discounted(%d)", tt.base)
	}
}

func TestPrice(t *testing.T) {
	assert.Equal(t, int64(1_000_000), Price(1_000_000, 0))
	assert.Equal(t, int64(1_000_000), Price(1_000_000, 1))
	assert.Equal(t, int64(750_000), Price(1_000_000, 2))
	assert.Equal(t, int64(750_000), Price(1_000_000, 5))

	assert.False(t, DiscountApplies(1))
	assert.True(t, DiscountApplies(LoyaltyThreshold))
}

func TestDiscounted_MatchesExactArithmetic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Int64Range(0, math.MaxInt64).Draw(t, "base")

		want := new(big.Int).Mul(big.NewInt(base), big.NewInt(LoyaltyPercent))
		want.Quo(want, big.NewInt(100))

		if got := Discounted(base); got != want.Int64() {
			t.Fatalf("Discounted(%d) = %d, want %s", base, got, want)
		}
	})
}

func TestPrice_NeverExceedsBase(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Int64Range(0, 1<<40).Draw(t, "base")
		ongoing := rapid.IntRange(0, 10).Draw(t, "ongoing")

		got := Price(base, ongoing)
		if got > base || got < 0 {
			t.Fatalf("Price(%d, %d) = %d out of [0, base]", base, ongoing, got)
		}
		if ongoing < LoyaltyThreshold && got != base {
			t.Fatalf("Price(%d, %d) = %d, want full price", base, ongoing, got)
		}
	})
}
