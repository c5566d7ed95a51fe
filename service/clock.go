package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock reporting wall time in loc. Check-in days
// are calendar days in this location.
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type cryptoRandom struct{}

// NewCryptoRandom returns a RandomSource backed by crypto/rand
func NewCryptoRandom() RandomSource {
	return cryptoRandom{}
}

func (cryptoRandom) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("random range must be positive, got %d", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read randomness: %w", err)
	}
	return int(v.Int64()), nil
}
