package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromName(t *testing.T) {
	for name, expected := range map[string]Format{
		"out.csv": CSV, "OUT.JSON": JSON, "a/b/c.yml": YAML, "yaml": YAML, "out.png": UNKNOWN, "": UNKNOWN,
	} {
		assert.Equal(t, expected, FormatFromName(name), name)
	}
	assert.Equal(t, "CSV", CSV.String())
}

func TestHyperplane(t *testing.T) {
	h := NewHyperplane([]float64{0, 1}, 10)
	assert.Equal(t, Hyperplane{0, 1, -10}, h)
	assert.Equal(t, 10.0, h.Offset())
	assert.Equal(t, []float64{0, 1}, h.Normal())
	p0h := []float64{3, 4, 1}
	assert.Equal(t, -6.0, h.Eval(p0h))
	assert.Equal(t, 6.0, h.RayDistance(p0h, []float64{0, 1}))
	assert.Equal(t, -6.0, h.RayDistance(p0h, []float64{0, -1}))
	assert.True(t, math.IsInf(h.RayDistance(p0h, []float64{1, 0}), 1))
}

func TestBoundaryPoint(t *testing.T) {
	p := BoundaryPoint{Point: []float64{1, 2, 3}, Distance: 2}
	phi, psi := p.Split(1)
	assert.Equal(t, []float64{1}, phi)
	assert.Equal(t, []float64{2, 3}, psi)
	assert.True(t, p.IsFinite())
	p.Point[2] = math.NaN()
	assert.False(t, p.IsFinite())
}
