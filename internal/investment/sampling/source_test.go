package sampling

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniform_Bounds(t *testing.T) {
	assert.InDelta(t, 0.02, Uniform(Fixed(0), 0.02, 0.06), 1e-12)
	assert.InDelta(t, 0.04, Uniform(Fixed(0.5), 0.02, 0.06), 1e-12)
	assert.Less(t, Uniform(Fixed(1), 0.02, 0.06), 0.06)

	src := Default()
	for i := 0; i < 1000; i++ {
		v := Uniform(src, 0.0035, 0.0065)
		assert.GreaterOrEqual(t, v, 0.0035)
		assert.Less(t, v, 0.0065)
	}
}

func TestNewSeeded_Reproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	assert.NotEqual(t, NewSeeded(1).Float64(), NewSeeded(2).Float64())
}

func TestLockedSource_Concurrent(t *testing.T) {
	src := NewSeeded(7)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := src.Float64()
				assert.True(t, v >= 0 && v < 1)
			}
		}()
	}
	wg.Wait()
}

func TestSequence(t *testing.T) {
	s := NewSequence(0.1, 0.9)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.9, s.Float64())

	assert.Equal(t, 0.0, NewSequence().Float64())
}
