package tests

import (
	"math/rand"
	"time"
)

type Randomizer struct {
	Bool func() bool
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Bool: func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
	}
}
