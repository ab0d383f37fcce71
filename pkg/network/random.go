package network

import (
	"math/rand/v2"
	"time"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// NewRandom returns a deterministic source for seed.
func NewRandom(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// NewSeededRandom returns a source seeded from the clock. The seed is returned
// so callers can log it and reproduce the graph later.
func NewSeededRandom() (RandomSource, uint64) {
	seed := uint64(time.Now().UnixNano())
	return NewRandom(seed), seed
}

// Sequence replays a fixed list of values, cycling when exhausted. An empty
// Sequence always returns 0.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a Sequence over values.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws returns how many values have been consumed.
func (s *Sequence) Draws() int { return s.next }
