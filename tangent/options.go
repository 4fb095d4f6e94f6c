package tangent

import (
	"fmt"
	"time"
)

var _ = fmt.Print

const (
	DefaultSamplesPerAngle   = 5
	DefaultMaxRounds         = 20
	DefaultRoundTolerance    = 1e-9
	DefaultFunctionTolerance = 1e-6
	DefaultMaxEvaluations    = 5000
)

// Options configures a Solver. Zero values are replaced by the defaults.
type Options struct {
	// SearchDirections are unit vectors in the output space of the second
	// mechanism. They are augmented with leading zeros for the first
	// mechanism internally.
	SearchDirections [][]float64
	// SamplesPerAngle controls the resolution of the initial angular seed
	// grid.
	SamplesPerAngle int
	// Strict drops boundary points whose local optimization did not
	// converge instead of emitting them with Converged == false.
	Strict bool
	// MaxRounds bounds the number of reseeded Nelder-Mead rounds per
	// direction.
	MaxRounds int
	// RoundTolerance is the minimum improvement of a round over the best
	// result so far. The search stops after one cycle of simplex sizes
	// without such an improvement.
	RoundTolerance float64
	// FunctionTolerance is the absolute objective tolerance of a single
	// Nelder-Mead round.
	FunctionTolerance float64
	// MaxEvaluations bounds the objective evaluations of a single round.
	MaxEvaluations int
	// DirectionTimeout bounds the wall time spent on one direction, zero
	// means no limit.
	DirectionTimeout time.Duration
	// NoPolish skips the linear program that refines the tangent found by
	// a converged Nelder-Mead search.
	NoPolish bool
	// Workers is the number of directions searched in parallel, zero means
	// one per CPU.
	Workers int
}

func (o Options) with_defaults() Options {
	if o.SamplesPerAngle == 0 {
		o.SamplesPerAngle = DefaultSamplesPerAngle
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if o.RoundTolerance == 0 {
		o.RoundTolerance = DefaultRoundTolerance
	}
	if o.FunctionTolerance == 0 {
		o.FunctionTolerance = DefaultFunctionTolerance
	}
	if o.MaxEvaluations == 0 {
		o.MaxEvaluations = DefaultMaxEvaluations
	}
	return o
}

func (o Options) validate(dim_psi int) error {
	switch {
	case o.SamplesPerAngle < 1:
		return fmt.Errorf("samples per angle must be positive, got: %d", o.SamplesPerAngle)
	case o.MaxRounds < 1:
		return fmt.Errorf("max rounds must be positive, got: %d", o.MaxRounds)
	case o.MaxEvaluations < 1:
		return fmt.Errorf("max evaluations must be positive, got: %d", o.MaxEvaluations)
	case o.RoundTolerance < 0 || o.FunctionTolerance < 0:
		return fmt.Errorf("tolerances must not be negative")
	case o.DirectionTimeout < 0:
		return fmt.Errorf("direction timeout must not be negative, got: %v", o.DirectionTimeout)
	case o.Workers < 0:
		return fmt.Errorf("workers must not be negative, got: %d", o.Workers)
	}
	for i, d := range o.SearchDirections {
		if len(d) != dim_psi {
			return fmt.Errorf("%w: direction %d has %d components, expected %d", ErrDirectionLength, i, len(d), dim_psi)
		}
	}
	return nil
}
