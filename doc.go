/*
Package metamer computes the boundary of metamer mismatch bodies: the set of
color signals that a second observer/illuminant pair can perceive for all
reflectances producing a fixed color signal under a first pair.

Color mechanisms are linear maps from reflectances sampled at n wavelengths,
with values in [0, 1], to low dimensional color signals. The boundary is
traced by the tangent search solver in the tangent package, one boundary
point per requested direction in the output space of the second mechanism.
*/
package metamer

import (
	"context"
	"fmt"

	"github.com/kovidgoyal/metamer/mechanism"
	"github.com/kovidgoyal/metamer/tangent"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

type MetamerVersion struct {
	Major, Minor, Patch uint
}

func (v MetamerVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v MetamerVersion) Equal(o MetamerVersion) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

func (v MetamerVersion) After(o MetamerVersion) bool {
	switch {
	case v.Major != o.Major:
		return v.Major > o.Major
	case v.Minor != o.Minor:
		return v.Minor > o.Minor
	}
	return v.Patch > o.Patch
}

func (v MetamerVersion) Before(o MetamerVersion) bool {
	return !v.Equal(o) && !v.After(o)
}

var Version = MetamerVersion{0, 3, 0}

// Compute builds the mechanism model of phi and psi, configures a tangent
// search solver with opts and solves it for the observed signal phi0.
func Compute(ctx context.Context, phi, psi mat.Matrix, phi0 []float64, opts tangent.Options, log zerolog.Logger) (*tangent.Result, error) {
	model, err := mechanism.New(phi, psi, log)
	if err != nil {
		return nil, err
	}
	s := tangent.New(model, log)
	if err = s.Configure(opts); err != nil {
		return nil, err
	}
	return s.Solve(ctx, phi0)
}

// White returns psi · 1, the second mechanism signal of the perfect
// reflector.
func White(psi mat.Matrix) []float64 {
	r, c := psi.Dims()
	ans := make([]float64, r)
	for i := range r {
		for j := range c {
			ans[i] += psi.At(i, j)
		}
	}
	return ans
}
