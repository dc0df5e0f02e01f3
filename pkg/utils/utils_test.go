package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dermalens/dermalens/pkg/utils"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, utils.Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, utils.Clamp(250, 0, 100))
	assert.Equal(t, 42.0, utils.Clamp(42, 0, 100))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, utils.Clamp01(-0.1))
	assert.Equal(t, 1.0, utils.Clamp01(1.1))
	assert.Equal(t, 0.5, utils.Clamp01(0.5))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 70.0, utils.Round1(70.04))
	assert.Equal(t, 70.1, utils.Round1(70.06))
	assert.Equal(t, 69.9, utils.Round1(69.94))
}

func TestLaplacianVariance(t *testing.T) {
	flat := make([]float64, 16)
	for i := range flat {
		flat[i] = 128
	}
	assert.Equal(t, 0.0, utils.LaplacianVariance(flat, 4, 4))

	checker := make([]float64, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 0 {
				checker[y*4+x] = 255
			}
		}
	}
	assert.Greater(t, utils.LaplacianVariance(checker, 4, 4), 100.0)

	// Buffers too small for an interior are defined as perfectly flat.
	assert.Equal(t, 0.0, utils.LaplacianVariance([]float64{1, 2}, 2, 1))
}

func TestDedupe(t *testing.T) {
	got := utils.Dedupe([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)

	assert.Empty(t, utils.Dedupe(nil))
}
