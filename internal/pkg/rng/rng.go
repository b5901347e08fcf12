package rng

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// Source is a goroutine-safe uniform [0,1) generator.
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewSeeded returns a reproducible source. The same seed replays the same draws.
func NewSeeded(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSecure returns a ChaCha8 source keyed from crypto/rand.
func NewSecure() *Source {
	var key [32]byte
	if _, err := crand.Read(key[:]); err != nil {
		panic("rng: crypto/rand unavailable: " + err.Error())
	}
	return &Source{r: rand.New(rand.NewChaCha8(key))}
}

// Sequence replays fixed draws in order and repeats the last one when exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[min(s.next, len(s.values)-1)]
	s.next++
	return v
}
