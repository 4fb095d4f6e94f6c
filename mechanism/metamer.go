package mechanism

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var _ = fmt.Print

const (
	// ResidualTolerance is the color signal residual below which the
	// initial metamer is considered an exact match.
	ResidualTolerance = 1e-8
	// Maximum number of projected gradient iterations for the initial
	// metamer search.
	MaxMetamerIterations = 50000
)

// Interior is the central point of a metamer mismatch body in inhomogeneous
// and homogeneous (trailing 1) form.
type Interior struct {
	Point       []float64
	Homogeneous []float64
}

// Metamer is a reflectance reproducing an observed first mechanism signal,
// together with the signal it produces under the second mechanism.
type Metamer struct {
	Reflectance []float64
	Phi0, Psi0  []float64
	// Residual is |phi · r - phi0|.
	Residual   float64
	Converged  bool
	Iterations int
}

func (m Metamer) Exact() bool { return m.Residual <= ResidualTolerance*max(1, floats.Norm(m.Phi0, 2)) }

func (m Metamer) Interior() Interior {
	p := make([]float64, 0, len(m.Phi0)+len(m.Psi0))
	p = append(p, m.Phi0...)
	p = append(p, m.Psi0...)
	ph := make([]float64, len(p), len(p)+1)
	copy(ph, p)
	return Interior{Point: p, Homogeneous: append(ph, 1)}
}

// FindInitialMetamer minimizes |phi · r - phi0| over r in [0, 1]^n starting
// from r = 0.5, using accelerated projected gradient descent on the squared
// residual. The problem is convex so the result is the global minimizer up
// to the iteration limit. When phi0 is not realizable the residual stays
// positive and Psi0 is only approximate.
func (m *Model) FindInitialMetamer(phi0 []float64) (ans Metamer, err error) {
	if len(phi0) != m.DimPhi {
		return ans, fmt.Errorf("%w: phi0 has %d components, phi has %d rows", ErrSignalLength, len(phi0), m.DimPhi)
	}
	m.log.Info().Msg("searching for an initial metamer")
	n := m.NumSamples
	b := mat.NewVecDense(m.DimPhi, append([]float64(nil), phi0...))

	// Frobenius norm squared bounds the largest eigenvalue of phiᵀphi, which
	// is the Lipschitz constant of the gradient.
	lipschitz := mat.Norm(m.phi, 2)
	lipschitz *= lipschitz
	r := make([]float64, n)
	for i := range r {
		r[i] = 0.5
	}
	rv := mat.NewVecDense(n, r)
	residual := mat.NewVecDense(m.DimPhi, nil)
	compute_residual := func(x *mat.VecDense) float64 {
		residual.MulVec(m.phi, x)
		residual.SubVec(residual, b)
		return mat.Norm(residual, 2)
	}
	res := compute_residual(rv)
	tol := ResidualTolerance * max(1, mat.Norm(b, 2))
	if lipschitz == 0 {
		// phi is identically zero, nothing to optimize
		ans.Converged = true
	}

	prev := mat.VecDenseCopyOf(rv)
	y := mat.VecDenseCopyOf(rv)
	grad := mat.NewVecDense(n, nil)
	next := mat.NewVecDense(n, nil)
	step := mat.NewVecDense(n, nil)
	momentum := 1.0
	for ans.Iterations = 0; !ans.Converged && res > tol && ans.Iterations < MaxMetamerIterations; ans.Iterations++ {
		compute_residual(y)
		grad.MulVec(m.phi.T(), residual)
		next.AddScaledVec(y, -1/lipschitz, grad)
		for i := range n {
			next.SetVec(i, math.Max(0, math.Min(1, next.AtVec(i))))
		}
		step.SubVec(next, prev)
		step_size := mat.Norm(step, 2)

		next_momentum := (1 + math.Sqrt(1+4*momentum*momentum)) / 2
		y.AddScaledVec(next, (momentum-1)/next_momentum, step)
		momentum = next_momentum
		prev.CopyVec(next)
		res = compute_residual(prev)
		if step_size <= 1e-14*math.Sqrt(float64(n)) {
			ans.Converged = true
		}
	}
	if res <= tol {
		ans.Converged = true
	}
	ans.Reflectance = mat.Col(nil, 0, prev)
	ans.Residual = res
	ans.Phi0 = append([]float64(nil), phi0...)
	psi0 := mat.NewVecDense(m.DimPsi, nil)
	psi0.MulVec(m.psi, prev)
	ans.Psi0 = mat.Col(nil, 0, psi0)
	ev := m.log.Info()
	if !ans.Converged || !ans.Exact() {
		ev = m.log.Warn()
	}
	ev.Floats64("psi0", ans.Psi0).Float64("residual", ans.Residual).Int("iterations", ans.Iterations).
		Bool("converged", ans.Converged).Msg("initial metamer")
	return ans, nil
}
