//go:build unit

package rng_test

import (
	"testing"

	"washday/internal/pkg/rng"

	"github.com/stretchr/testify/assert"
)

func TestSeededIsReproducible(t *testing.T) {
	a := rng.NewSeeded(42)
	b := rng.NewSeeded(42)

	for range 100 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDrawsStayInUnitInterval(t *testing.T) {
	for _, src := range []interface{ Float64() float64 }{rng.NewSeeded(7), rng.NewSecure()} {
		for range 1000 {
			u := src.Float64()
			assert.GreaterOrEqual(t, u, 0.0)
			assert.Less(t, u, 1.0)
		}
	}
}

func TestSequence(t *testing.T) {
	seq := rng.NewSequence(0.1, 0.5)

	assert.Equal(t, 0.1, seq.Float64())
	assert.Equal(t, 0.5, seq.Float64())
	assert.Equal(t, 0.5, seq.Float64())
}
