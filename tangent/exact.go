package tangent

import (
	"fmt"

	"github.com/kovidgoyal/metamer/mechanism"
	"github.com/kovidgoyal/metamer/spherical"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var _ = fmt.Print

const simplex_tolerance = 1e-10

// exact_tangent minimizes the error function along direction as a linear
// program. Scaling the tangent normal y so that y · direction = 1 turns the
// error function into Σ max(0, y · g) - y · p0 over the generators g, a
// convex piecewise linear function whose minimum Nelder-Mead can only
// approach on the kinks. The result is the angles of y / |y|.
//
// The standard form variables are y+, y-, z and s with y = y+ - y- and
// z = y · g + s >= max(0, y · g).
func (s *Solver) exact_tangent(in mechanism.Interior, direction []float64) (angles []float64, err error) {
	m := s.model
	dims, n := m.Dims, m.NumSamples
	cols := 2*dims + 2*n
	a := mat.NewDense(n+1, cols, nil)
	for i := range n {
		for k, x := range m.Generator(i) {
			a.Set(i, k, -x)
			a.Set(i, dims+k, x)
		}
		a.Set(i, 2*dims+i, 1)
		a.Set(i, 2*dims+n+i, -1)
	}
	for k, x := range direction {
		a.Set(n, k, x)
		a.Set(n, dims+k, -x)
	}
	b := make([]float64, n+1)
	b[n] = 1
	c := make([]float64, cols)
	for k, x := range in.Point {
		c[k], c[dims+k] = -x, x
	}
	for i := range n {
		c[2*dims+i] = 1
	}
	_, x, err := lp.Simplex(c, a, b, simplex_tolerance, nil)
	if err != nil {
		return nil, fmt.Errorf("tangent linear program failed: %w", err)
	}
	y := make([]float64, dims)
	floats.SubTo(y, x[:dims], x[dims:2*dims])
	if floats.Norm(y, 2) == 0 {
		return nil, fmt.Errorf("tangent linear program produced a zero normal")
	}
	_, angles = spherical.ToSpherical(y)
	return angles, nil
}
