// Package spherical converts between n-dimensional cartesian vectors and
// their hyperspherical angles, and builds the uniform angular grids used to
// seed tangent hyperplane searches.
package spherical

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var _ = fmt.Print

// UnitVector returns the unit vector with the specified n-1 angular
// coordinates. For k < n-1 component k is cos(angles[k]) times the product
// of the sines of all preceding angles, the last component is the product of
// all sines. The result is normalized to guard against rounding drift.
func UnitVector(angles []float64) []float64 {
	n := len(angles)
	ans := make([]float64, n+1)
	multi_sin := 1.0
	for i, a := range angles {
		s, c := math.Sincos(a)
		ans[i] = multi_sin * c
		multi_sin *= s
	}
	ans[n] = multi_sin
	if norm := floats.Norm(ans, 2); norm > 0 {
		floats.Scale(1/norm, ans)
	}
	return ans
}

// ToCartesian returns the vector of length |radius| pointing along the
// direction specified by angles.
func ToCartesian(radius float64, angles []float64) []float64 {
	ans := UnitVector(angles)
	floats.Scale(radius, ans)
	return ans
}

// ToSpherical is the inverse of ToCartesian. Angle k is the atan2 of the
// norm of the tail v[k+1:] and v[k], except for the last angle which is the
// signed atan2(v[n-1], v[n-2]) mapped into [0, 2π).
func ToSpherical(v []float64) (radius float64, angles []float64) {
	n := len(v)
	radius = floats.Norm(v, 2)
	if n < 2 {
		return radius, nil
	}
	angles = make([]float64, n-1)
	for i := 0; i < n-2; i++ {
		angles[i] = math.Atan2(floats.Norm(v[i+1:], 2), v[i])
	}
	last := math.Atan2(v[n-1], v[n-2])
	if last < 0 {
		last += 2 * math.Pi
	}
	angles[n-2] = last
	return
}

// Linspace returns n evenly spaced values over [start, stop], including both
// endpoints.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	ans := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range ans {
		ans[i] = start + float64(i)*step
	}
	ans[n-1] = stop
	return ans
}

// Grid returns the full cartesian product of the angular coordinates of a
// dims-dimensional space. The first dims-2 angles take samples_per_angle
// values over [0, π] and the last takes 2*samples_per_angle values over
// [0, 2π]. The last angle varies fastest.
func Grid(dims, samples_per_angle int) (ans [][]float64, err error) {
	if dims < 2 {
		return nil, fmt.Errorf("angular grids need at least two dimensions, got: %d", dims)
	}
	if samples_per_angle < 1 {
		return nil, fmt.Errorf("samples per angle must be positive, got: %d", samples_per_angle)
	}
	axes := make([][]float64, dims-1)
	for i := range dims - 2 {
		axes[i] = Linspace(0, math.Pi, samples_per_angle)
	}
	axes[dims-2] = Linspace(0, 2*math.Pi, 2*samples_per_angle)
	total := 1
	for _, ax := range axes {
		total *= len(ax)
	}
	ans = make([][]float64, total)
	idx := make([]int, len(axes))
	for i := range total {
		point := make([]float64, len(axes))
		for k, j := range idx {
			point[k] = axes[k][j]
		}
		ans[i] = point
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < len(axes[k]) {
				break
			}
			idx[k] = 0
		}
	}
	return
}
