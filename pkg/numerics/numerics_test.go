package numerics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTolerance(t *testing.T) {
	assert.Equal(t, DefaultEpsilon, Tolerance(0))
	assert.Equal(t, DefaultEpsilon, Tolerance(-1))
	assert.Equal(t, DefaultEpsilon, Tolerance(math.NaN()))
	assert.Equal(t, 0.01, Tolerance(0.01))
}

func TestMaxIterations(t *testing.T) {
	assert.Equal(t, DefaultMaxIterations, MaxIterations(0))
	assert.Equal(t, 7, MaxIterations(7))
}

func TestRelativeError(t *testing.T) {
	assert.InDelta(t, 0.5, RelativeError(2, 1), 1e-12)
	assert.InDelta(t, 3, RelativeError(0, 3), 1e-12)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.NaN()))
}
