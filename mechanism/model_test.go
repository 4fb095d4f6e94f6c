package mechanism

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func gaussian(x, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return math.Exp(-0.5 * d * d)
}

// test_mechanisms returns tristimulus-like mechanisms under two synthetic
// illuminants, normalized so the middle row sums to 100.
func test_mechanisms(samples int) (phi, psi *mat.Dense) {
	phi, psi = mat.NewDense(3, samples, nil), mat.NewDense(3, samples, nil)
	centers := []float64{600, 550, 450}
	for j := range samples {
		wl := 400 + 300*float64(j)/float64(samples-1)
		il_a := math.Pow(wl/560, 4)
		il_d := 1 + 0.25*math.Sin(wl/37)
		for i, c := range centers {
			g := gaussian(wl, c, 40)
			phi.Set(i, j, g*il_a)
			psi.Set(i, j, g*il_d)
		}
	}
	for _, m := range []*mat.Dense{phi, psi} {
		scale := 100 / floats.Sum(m.RawRowView(1))
		m.Scale(scale, m)
	}
	return
}

func TestNewValidatesDimensions(t *testing.T) {
	_, err := New(mat.NewDense(3, 10, nil), mat.NewDense(3, 11, nil), zerolog.Nop())
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = FromRows([][]float64{{1, 2}}, [][]float64{}, zerolog.Nop())
	require.ErrorIs(t, err, ErrEmptyMechanism)
	_, err = FromRows([][]float64{{1, 2}, {1}}, [][]float64{{1, 2}}, zerolog.Nop())
	require.Error(t, err)

	m, err := FromRows([][]float64{{1, 2, 3}}, [][]float64{{4, 5, 6}, {7, 8, 9}}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, m.DimPhi)
	assert.Equal(t, 2, m.DimPsi)
	assert.Equal(t, 3, m.Dims)
	assert.Equal(t, 3, m.NumSamples)
	assert.Equal(t, []float64{2, 5, 8}, m.Generator(1))
}

func TestProjectGeneratorsSymmetry(t *testing.T) {
	phi, psi := test_mechanisms(31)
	m, err := New(phi, psi, zerolog.Nop())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))
	for range 50 {
		n := make([]float64, m.Dims)
		for i := range n {
			n[i] = rng.NormFloat64()
		}
		floats.Scale(1/floats.Norm(n, 2), n)
		neg := append([]float64(nil), n...)
		floats.Scale(-1, neg)
		d_p, d_n := m.ProjectGenerators(n)
		nd_p, nd_n := m.ProjectGenerators(neg)
		assert.InDelta(t, d_p, -nd_n, 1e-9)
		assert.InDelta(t, d_n, -nd_p, 1e-9)

		h_p, h_n := m.ConstructTangents(n, d_p, d_n)
		assert.GreaterOrEqual(t, h_p.Offset(), 0.0)
		assert.LessOrEqual(t, h_n.Offset(), 0.0)
		assert.Equal(t, n, []float64(h_p.Normal()))
		assert.Equal(t, -d_p, h_p[len(h_p)-1])
		assert.Equal(t, -d_n, h_n[len(h_n)-1])
	}
}

func TestProjectGeneratorsMatchesVertexEnumeration(t *testing.T) {
	const samples = 10
	phi, psi := test_mechanisms(samples)
	m, err := New(phi, psi, zerolog.Nop())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(5))
	for range 20 {
		n := make([]float64, m.Dims)
		for i := range n {
			n[i] = rng.NormFloat64()
		}
		proj := m.Project(n)
		best, worst := math.Inf(-1), math.Inf(1)
		for mask := range 1 << samples {
			var s float64
			for j := range samples {
				if mask&(1<<j) != 0 {
					s += proj[j]
				}
			}
			best, worst = max(best, s), min(worst, s)
		}
		d_p, d_n := m.ProjectGenerators(n)
		assert.InDelta(t, best, d_p, 1e-9)
		assert.InDelta(t, worst, d_n, 1e-9)

		vertex := GeneratorSum(m.Unified(), n, 1)
		assert.InDelta(t, d_p, floats.Dot(n, vertex), 1e-9)
	}
}

func TestFindInitialMetamer(t *testing.T) {
	phi, psi := test_mechanisms(41)
	m, err := New(phi, psi, zerolog.Nop())
	require.NoError(t, err)

	t.Run("uniform reflectance", func(t *testing.T) {
		r := make([]float64, m.NumSamples)
		for i := range r {
			r[i] = 0.5
		}
		phi0 := mat.Col(nil, 0, mulVec(phi, r))
		met, err := m.FindInitialMetamer(phi0)
		require.NoError(t, err)
		assert.True(t, met.Converged)
		assert.True(t, met.Exact())
		if diff := cmp.Diff(mat.Col(nil, 0, mulVec(psi, r)), met.Psi0, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("realizable signal", func(t *testing.T) {
		r := make([]float64, m.NumSamples)
		for i := range r {
			r[i] = 0.2 + 0.6*gaussian(float64(i), 10, 6)
		}
		phi0 := mat.Col(nil, 0, mulVec(phi, r))
		met, err := m.FindInitialMetamer(phi0)
		require.NoError(t, err)
		assert.Less(t, met.Residual, 1e-5)
		for _, x := range met.Reflectance {
			assert.True(t, x >= 0 && x <= 1)
		}
		in := met.Interior()
		require.Len(t, in.Point, m.Dims)
		require.Len(t, in.Homogeneous, m.Dims+1)
		assert.Equal(t, phi0, in.Point[:m.DimPhi])
		assert.Equal(t, met.Psi0, in.Point[m.DimPhi:])
		assert.Equal(t, 1.0, in.Homogeneous[m.Dims])
	})

	t.Run("unrealizable signal", func(t *testing.T) {
		met, err := m.FindInitialMetamer([]float64{500, 500, 500})
		require.NoError(t, err)
		assert.False(t, met.Exact())
		assert.Greater(t, met.Residual, 1.0)
		for _, x := range met.Reflectance {
			assert.InDelta(t, 1, x, 1e-9)
		}
	})

	t.Run("wrong signal length", func(t *testing.T) {
		_, err := m.FindInitialMetamer([]float64{1, 2})
		require.ErrorIs(t, err, ErrSignalLength)
	})
}

func TestBoundaryVertex(t *testing.T) {
	phi, psi := test_mechanisms(21)
	m, err := New(phi, psi, zerolog.Nop())
	require.NoError(t, err)
	r := make([]float64, m.NumSamples)
	for i := range r {
		r[i] = 0.5
	}
	met, err := m.FindInitialMetamer(mat.Col(nil, 0, mulVec(phi, r)))
	require.NoError(t, err)
	in := met.Interior()

	direction := []float64{0, 0, 0, 0, 1, 0}
	n := []float64{0, 0, 0, 0, 1, 0}
	v, err := m.BoundaryVertex(in, n, direction)
	require.NoError(t, err)
	d_p, _ := m.ProjectGenerators(n)
	assert.InDelta(t, d_p, v[4], 1e-9)

	floats.Scale(-1, direction)
	v, err = m.BoundaryVertex(in, n, direction)
	require.NoError(t, err)
	_, d_n := m.ProjectGenerators(n)
	assert.InDelta(t, d_n, v[4], 1e-9)

	outside := Interior{Point: make([]float64, m.Dims), Homogeneous: make([]float64, m.Dims+1)}
	outside.Point[4] = 1000
	outside.Homogeneous[4] = 1000
	outside.Homogeneous[m.Dims] = 1
	_, err = m.BoundaryVertex(outside, n, direction)
	require.ErrorIs(t, err, ErrNotInterior)
}

func mulVec(a *mat.Dense, x []float64) *mat.VecDense {
	r, _ := a.Dims()
	ans := mat.NewVecDense(r, nil)
	ans.MulVec(a, mat.NewVecDense(len(x), x))
	return ans
}
