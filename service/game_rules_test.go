package service

import (
	"errors"
	"testing"

	"pointsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceRandom returns the configured values in order
type sequenceRandom struct {
	values []int
	calls  int
	err    error
}

func (r *sequenceRandom) IntN(n int) (int, error) {
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	if len(r.values) == 0 {
		return 0, nil
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n, nil
}

func TestDiceMultiplier(t *testing.T) {
	tests := []struct {
		roll int
		want int64
	}{
		{1, 0}, {2, 0}, {3, 0},
		{4, 2}, {5, 2},
		{6, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, diceMultiplier(tt.roll), "roll %d", tt.roll)
	}
}

func TestCoinMultiplier(t *testing.T) {
	assert.Equal(t, int64(2), coinMultiplier(models.CoinHeads, models.CoinHeads))
	assert.Equal(t, int64(2), coinMultiplier(models.CoinTails, models.CoinTails))
	assert.Equal(t, int64(0), coinMultiplier(models.CoinHeads, models.CoinTails))
	assert.Equal(t, int64(0), coinMultiplier(models.CoinTails, models.CoinHeads))
}

func TestSlotsMultiplier(t *testing.T) {
	triple := func(s models.SlotSymbol) []models.SlotSymbol {
		return []models.SlotSymbol{s, s, s}
	}

	assert.Equal(t, int64(3), slotsMultiplier(triple(models.SlotCherry)))
	assert.Equal(t, int64(5), slotsMultiplier(triple(models.SlotLemon)))
	assert.Equal(t, int64(10), slotsMultiplier(triple(models.SlotGem)))
	assert.Equal(t, int64(20), slotsMultiplier(triple(models.SlotSeven)))

	// Two of a kind pays nothing
	assert.Equal(t, int64(0), slotsMultiplier([]models.SlotSymbol{models.SlotSeven, models.SlotSeven, models.SlotGem}))
	assert.Equal(t, int64(0), slotsMultiplier([]models.SlotSymbol{models.SlotGem, models.SlotSeven, models.SlotSeven}))
	assert.Equal(t, int64(0), slotsMultiplier([]models.SlotSymbol{models.SlotSeven, models.SlotGem}))
}

func TestDrawOutcome(t *testing.T) {
	t.Run("dice maps to 1 through 6", func(t *testing.T) {
		for v := 0; v < 6; v++ {
			outcome, err := drawOutcome(&sequenceRandom{values: []int{v}}, models.GameDice)
			require.NoError(t, err)
			assert.Equal(t, v+1, outcome.DiceRoll)
		}
	})

	t.Run("coin", func(t *testing.T) {
		outcome, err := drawOutcome(&sequenceRandom{values: []int{1}}, models.GameCoin)
		require.NoError(t, err)
		assert.Equal(t, models.CoinTails, outcome.CoinFlip)
	})

	t.Run("slots draws three independent reels", func(t *testing.T) {
		rng := &sequenceRandom{values: []int{3, 0, 2}}
		outcome, err := drawOutcome(rng, models.GameSlots)
		require.NoError(t, err)
		assert.Equal(t, []models.SlotSymbol{models.SlotSeven, models.SlotCherry, models.SlotGem}, outcome.Reels)
		assert.Equal(t, 3, rng.calls)
	})

	t.Run("randomness failure", func(t *testing.T) {
		_, err := drawOutcome(&sequenceRandom{err: errors.New("entropy exhausted")}, models.GameDice)
		assert.Error(t, err)
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := drawOutcome(&sequenceRandom{}, models.GameType("roulette"))
		assert.Error(t, err)
	})
}

// The slots paytable pays 38 units per 64 equally likely spins
func TestSlotsExpectedReturn(t *testing.T) {
	var total int64
	count := 0
	for _, a := range models.SlotSymbols {
		for _, b := range models.SlotSymbols {
			for _, c := range models.SlotSymbols {
				total += slotsMultiplier([]models.SlotSymbol{a, b, c})
				count++
			}
		}
	}
	assert.Equal(t, 64, count)
	assert.Equal(t, int64(38), total)
}

func TestCryptoRandom(t *testing.T) {
	rng := NewCryptoRandom()

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v, err := rng.IntN(6)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 6)

	_, err := rng.IntN(0)
	assert.Error(t, err)
}
