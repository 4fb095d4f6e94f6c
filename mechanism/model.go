// Package mechanism holds a pair of linear color mechanisms and the
// geometric primitives shared by metamer mismatch body solvers: the stacked
// unified mechanism, the initial metamer and the generator projections that
// evaluate the support function of the generator sum body.
package mechanism

import (
	"errors"
	"fmt"

	"github.com/kovidgoyal/metamer/types"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

var _ = fmt.Print

var (
	ErrDimensionMismatch = errors.New("color mechanisms have different sample counts")
	ErrEmptyMechanism    = errors.New("color mechanism has no rows or no samples")
	ErrSignalLength      = errors.New("color signal length does not match the mechanism")
	ErrNotInterior       = errors.New("central point is not located within the metamer mismatch body")
)

// Model is an immutable pair of color mechanisms phi and psi, each mapping a
// reflectance with NumSamples entries in [0, 1] to a color signal.
type Model struct {
	phi, psi *mat.Dense
	unified  *mat.Dense

	DimPhi, DimPsi, Dims, NumSamples int

	log zerolog.Logger
}

// New stacks phi on top of psi to form the unified mechanism. Both matrices
// are copied.
func New(phi, psi mat.Matrix, log zerolog.Logger) (ans *Model, err error) {
	rp, cp := phi.Dims()
	rs, cs := psi.Dims()
	if rp == 0 || cp == 0 || rs == 0 || cs == 0 {
		return nil, ErrEmptyMechanism
	}
	if cp != cs {
		return nil, fmt.Errorf("%w: phi has %d samples and psi has %d", ErrDimensionMismatch, cp, cs)
	}
	ans = &Model{
		phi: mat.DenseCopyOf(phi), psi: mat.DenseCopyOf(psi),
		DimPhi: rp, DimPsi: rs, Dims: rp + rs, NumSamples: cp,
		log: log,
	}
	ans.unified = mat.NewDense(ans.Dims, cp, nil)
	ans.unified.Stack(ans.phi, ans.psi)
	return ans, nil
}

// FromRows is a convenience wrapper around New for row-major slices.
func FromRows(phi, psi [][]float64, log zerolog.Logger) (*Model, error) {
	p, err := DenseFromRows(phi)
	if err != nil {
		return nil, fmt.Errorf("phi: %w", err)
	}
	q, err := DenseFromRows(psi)
	if err != nil {
		return nil, fmt.Errorf("psi: %w", err)
	}
	return New(p, q, log)
}

// DenseFromRows builds a dense matrix from rows of equal length.
func DenseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMechanism
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d samples, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

func (m *Model) Phi() mat.Matrix     { return m.phi }
func (m *Model) Psi() mat.Matrix     { return m.psi }
func (m *Model) Unified() mat.Matrix { return m.unified }

// Generator returns a copy of column i of the unified mechanism.
func (m *Model) Generator(i int) []float64 {
	return mat.Col(nil, i, m.unified)
}

// Project returns n · U, one scalar per generator.
func (m *Model) Project(n []float64) []float64 {
	ans := make([]float64, m.NumSamples)
	mat.NewVecDense(m.NumSamples, ans).MulVec(m.unified.T(), mat.NewVecDense(m.Dims, n))
	return ans
}

// ProjectGenerators returns the sums of the positive and the negative
// projections of the generators onto the unified space direction n.
func (m *Model) ProjectGenerators(n []float64) (d_p, d_n float64) {
	for _, x := range m.Project(n) {
		switch {
		case x > 0:
			d_p += x
		case x < 0:
			d_n += x
		}
	}
	return
}

// ConstructTangents returns the hyperplanes with normal n supporting the
// generators with positive and negative projection respectively.
func (m *Model) ConstructTangents(n []float64, d_p, d_n float64) (h_p, h_n types.Hyperplane) {
	return types.NewHyperplane(n, d_p), types.NewHyperplane(n, d_n)
}

// Tangents is ProjectGenerators followed by ConstructTangents.
func (m *Model) Tangents(n []float64) (h_p, h_n types.Hyperplane) {
	d_p, d_n := m.ProjectGenerators(n)
	return m.ConstructTangents(n, d_p, d_n)
}

// BoundaryVertex returns the vertex of the generator sum body touched by the
// tangent hyperplane with normal n that the ray from the interior point along
// direction crosses first. The interior point must lie strictly between the
// two tangent hyperplanes, otherwise ErrNotInterior is returned.
func (m *Model) BoundaryVertex(in Interior, n, direction []float64) ([]float64, error) {
	h_p, h_n := m.Tangents(n)
	dist_p := h_p.RayDistance(in.Homogeneous, direction)
	dist_n := h_n.RayDistance(in.Homogeneous, direction)
	switch {
	case dist_p > 0 && dist_n < 0:
		return GeneratorSum(m.unified, n, 1), nil
	case dist_n > 0 && dist_p < 0:
		return GeneratorSum(m.unified, n, -1), nil
	}
	return nil, fmt.Errorf("%w: tangent distances %g and %g", ErrNotInterior, dist_p, dist_n)
}

// GeneratorSum sums the columns of sw whose projection onto n has the sign of
// sign. Those are the 0/1 reflectance vertices of the solid generated by sw
// that are extremal along n (sign > 0) or -n (sign < 0).
func GeneratorSum(sw mat.Matrix, n []float64, sign int) []float64 {
	rows, cols := sw.Dims()
	proj := mat.NewVecDense(cols, nil)
	proj.MulVec(sw.T(), mat.NewVecDense(rows, n))
	ans := make([]float64, rows)
	for j := range cols {
		x := proj.AtVec(j)
		if (sign > 0 && x > 0) || (sign < 0 && x < 0) {
			for i := range rows {
				ans[i] += sw.At(i, j)
			}
		}
	}
	return ans
}
