package tangent

import (
	"fmt"
	"math"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/metamer/mechanism"
	"github.com/kovidgoyal/metamer/spherical"
	"github.com/kovidgoyal/metamer/types"
)

var _ = fmt.Print

// Seeds pairs positive side tangent hyperplanes with the angular coordinates
// of their normals. They are the starting points of the local searches.
type Seeds struct {
	Tangents []types.Hyperplane
	Angles   [][]float64
}

func (s *Seeds) Len() int { return len(s.Angles) }

// NewSeeds builds the positive side tangent hyperplane for every set of
// angles.
func NewSeeds(model *mechanism.Model, angles [][]float64, workers int) (ans *Seeds, err error) {
	ans = &Seeds{Tangents: make([]types.Hyperplane, len(angles)), Angles: make([][]float64, len(angles))}
	if len(angles) == 0 {
		return
	}
	f := func(start, limit int) {
		for i := start; i < limit; i++ {
			a := append([]float64(nil), angles[i]...)
			h_p, _ := model.Tangents(spherical.UnitVector(a))
			ans.Tangents[i], ans.Angles[i] = h_p, a
		}
	}
	if err = parallel.Run_in_parallel_over_range(workers, f, 0, len(angles)); err != nil {
		return nil, err
	}
	return
}

// GridSeeds builds seeds from the uniform angular grid over the unified
// space of model.
func GridSeeds(model *mechanism.Model, samples_per_angle, workers int) (*Seeds, error) {
	grid, err := spherical.Grid(model.Dims, samples_per_angle)
	if err != nil {
		return nil, err
	}
	return NewSeeds(model, grid, workers)
}

// Nearest returns the angles of the seed whose hyperplane is crossed first by
// the ray from p0h along direction. Seeds behind the point or parallel to
// the ray never win. If no seed lies ahead, the first seed is returned.
func (s *Seeds) Nearest(p0h, direction []float64) []float64 {
	best, idx := math.Inf(1), 0
	for i, h := range s.Tangents {
		if t := h.RayDistance(p0h, direction); t > 0 && t < best {
			best, idx = t, i
		}
	}
	return s.Angles[idx]
}
