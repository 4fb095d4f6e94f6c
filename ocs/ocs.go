// Package ocs samples the boundary of the object color solid of a color
// mechanism, the set of color signals of all reflectances in [0, 1]^n.
package ocs

import (
	"fmt"
	"math"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/metamer/mechanism"
	"gonum.org/v1/gonum/mat"
)

var _ = fmt.Print

// Boundary2D sweeps count normals around the circle, starting at -π/2, and
// returns the support point of the solid generated by the two row mechanism
// sw for each of them.
func Boundary2D(sw mat.Matrix, count int) (ans [][]float64, err error) {
	if r, _ := sw.Dims(); r != 2 {
		return nil, fmt.Errorf("planar object color solids need a two row mechanism, got %d rows", r)
	}
	directions := make([][]float64, count)
	for i := range directions {
		angle := float64(i)/float64(count)*2*math.Pi - math.Pi/2
		s, c := math.Sincos(angle)
		directions[i] = []float64{s, c}
	}
	return Boundary(sw, directions)
}

// Boundary returns the support point of the solid generated by sw along each
// of the specified unit directions. The directions are usually a uniform
// sampling of the sphere, for example the vertices of a subdivided
// icosahedron.
func Boundary(sw mat.Matrix, directions [][]float64) (ans [][]float64, err error) {
	rows, _ := sw.Dims()
	for i, d := range directions {
		if len(d) != rows {
			return nil, fmt.Errorf("direction %d has %d components, the mechanism has %d rows", i, len(d), rows)
		}
	}
	ans = make([][]float64, len(directions))
	if len(directions) == 0 {
		return
	}
	f := func(start, limit int) {
		for i := start; i < limit; i++ {
			ans[i] = mechanism.GeneratorSum(sw, directions[i], 1)
		}
	}
	err = parallel.Run_in_parallel_over_range(0, f, 0, len(directions))
	return
}
