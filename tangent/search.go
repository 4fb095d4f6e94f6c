package tangent

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kovidgoyal/metamer/mechanism"
	"github.com/kovidgoyal/metamer/spherical"
	"github.com/kovidgoyal/metamer/types"
	"gonum.org/v1/gonum/optimize"
)

var _ = fmt.Print

// Objective non-improvement iterations after which a Nelder-Mead round is
// considered converged.
const converge_iterations = 100

// Initial simplex sizes cycled through by successive rounds. A round
// restarted with the size that stalled it tends to stall at the same kink.
var simplex_sizes = []float64{0.05, 0.3, 0.01, 1e-3}

// ErrorFunction returns the objective minimized over the angular coordinates
// of the tangent normal: the larger of the ray distances from the interior
// point along direction to the two tangent hyperplanes with that normal. Its
// minimum is the distance from the interior point to the boundary of the
// metamer mismatch body along direction.
func (s *Solver) ErrorFunction(in mechanism.Interior, direction []float64) func(angles []float64) float64 {
	return func(angles []float64) float64 {
		h_p, h_n := s.model.Tangents(spherical.UnitVector(angles))
		d := math.Max(h_p.RayDistance(in.Homogeneous, direction), h_n.RayDistance(in.Homogeneous, direction))
		if math.IsNaN(d) {
			return math.Inf(1)
		}
		return d
	}
}

// BoundaryVertex returns the generator sum vertex supporting the tangent
// hyperplane with the specified normal angles. It fails with
// mechanism.ErrNotInterior when the interior point is not strictly inside the
// body.
func (s *Solver) BoundaryVertex(in mechanism.Interior, angles, direction []float64) ([]float64, error) {
	return s.model.BoundaryVertex(in, spherical.UnitVector(angles), direction)
}

type round_status int

const (
	round_converged round_status = iota
	round_limited
	round_timed_out
)

// BoundaryInDirection finds the boundary point of the metamer mismatch body
// crossed by the ray from the interior point along direction, which must be
// a unified space vector. The search starts from the seed crossed first by
// the ray and runs Nelder-Mead rounds restarted from the best angles with
// varying simplex sizes, until a full cycle of sizes no longer improves the
// objective. A converged search is then polished by solving the error
// function exactly as a linear program, unless Options.NoPolish is set.
func (s *Solver) BoundaryInDirection(ctx context.Context, in mechanism.Interior, seeds *Seeds, direction []float64) (ans types.BoundaryPoint, err error) {
	if seeds == nil || seeds.Len() == 0 {
		return ans, fmt.Errorf("no seed hyperplanes available")
	}
	if len(direction) != s.model.Dims {
		return ans, fmt.Errorf("%w: direction has %d components, expected %d", ErrDirectionLength, len(direction), s.model.Dims)
	}
	opts := s.opts
	a0 := append([]float64(nil), seeds.Nearest(in.Homogeneous, direction)...)
	errfun := s.ErrorFunction(in, direction)

	var deadline time.Time
	if opts.DirectionTimeout > 0 {
		deadline = time.Now().Add(opts.DirectionTimeout)
	}
	problem := optimize.Problem{
		Func: errfun,
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	var best *optimize.Result
	// status is that of the round which produced best
	status := round_converged
	timed_out := false
	stale := 0
	for ans.Rounds = 0; ans.Rounds < opts.MaxRounds; {
		if err = ctx.Err(); err != nil {
			return ans, err
		}
		settings := &optimize.Settings{
			FuncEvaluations: opts.MaxEvaluations,
			Converger: &optimize.FunctionConverge{
				Absolute: opts.FunctionTolerance, Iterations: converge_iterations,
			},
		}
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				timed_out = true
				break
			}
			settings.Runtime = remaining
		}
		method := &optimize.NelderMead{SimplexSize: simplex_sizes[ans.Rounds%len(simplex_sizes)]}
		res, merr := optimize.Minimize(problem, a0, settings, method)
		if cerr := ctx.Err(); cerr != nil {
			return ans, cerr
		}
		if res == nil {
			return ans, fmt.Errorf("nelder-mead failed: %w", merr)
		}
		ans.Rounds++
		ans.Evaluations += res.FuncEvaluations
		rs := round_status_of(res.Status, merr)
		if rs != round_converged {
			s.log.Debug().Int("round", ans.Rounds).Str("status", res.Status.String()).Msg("nelder-mead round stopped early")
		}
		improved := best == nil || best.F-res.F >= opts.RoundTolerance
		if best == nil || res.F <= best.F {
			best, status = res, rs
		}
		if rs == round_timed_out {
			timed_out = true
			break
		}
		if improved {
			stale = 0
		} else if stale++; stale >= len(simplex_sizes) {
			break
		}
		a0 = append([]float64(nil), best.X...)
	}
	if best == nil {
		return ans, fmt.Errorf("%w: time budget exhausted before the first round", ErrNotConverged)
	}
	ans.Direction = append([]float64(nil), direction...)
	ans.Angles = append([]float64(nil), best.X...)
	ans.Distance = errfun(ans.Angles)
	if timed_out {
		status = round_timed_out
	}
	if status == round_converged && !opts.NoPolish {
		if angles, perr := s.exact_tangent(in, direction); perr != nil {
			s.log.Debug().Err(perr).Floats64("direction", direction).Msg("keeping the nelder-mead tangent")
		} else if d := errfun(angles); d < ans.Distance {
			ans.Angles, ans.Distance = angles, d
		}
	}
	ans.Point = make([]float64, len(in.Point))
	for i, x := range in.Point {
		ans.Point[i] = x + ans.Distance*direction[i]
	}
	ans.Converged = status == round_converged && ans.IsFinite()
	if !ans.Converged {
		s.log.Warn().Floats64("direction", direction).Int("rounds", ans.Rounds).Int("evaluations", ans.Evaluations).
			Float64("distance", ans.Distance).Msg("tangent search did not converge, consider adjusting the optimizer settings")
	}
	return ans, nil
}

func round_status_of(s optimize.Status, err error) round_status {
	switch {
	case s == optimize.RuntimeLimit:
		return round_timed_out
	case err != nil:
		return round_limited
	}
	switch s {
	case optimize.FunctionEvaluationLimit, optimize.IterationLimit, optimize.Failure:
		return round_limited
	}
	return round_converged
}
