// Package tangent computes the boundary of a metamer mismatch body by
// searching, for every requested direction, the tangent hyperplane of the
// generator sum body that bounds the ray from an interior point.
package tangent

import (
	"context"
	"errors"
	"fmt"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/metamer/mechanism"
	"github.com/kovidgoyal/metamer/types"
	"github.com/rs/zerolog"
)

var _ = fmt.Print

var (
	ErrNotConfigured   = errors.New("solver has not been configured")
	ErrDirectionLength = errors.New("search direction has the wrong number of components")
	ErrNotConverged    = errors.New("tangent search did not converge")
)

// Solver is the tangent search strategy. Configure it once, then call Solve
// for every observed color signal. Solve does not modify the solver so it
// may be called concurrently.
type Solver struct {
	model *mechanism.Model
	opts  Options
	seeds *Seeds
	log   zerolog.Logger
}

// Result holds the boundary points of the refined pass, in the order of the
// configured directions. Directions whose search failed are absent, so
// Points may be shorter than the direction list.
type Result struct {
	Metamer mechanism.Metamer
	Points  []types.BoundaryPoint
	// Initial holds the boundary points of the first pass, seeded from the
	// uniform angular grid.
	Initial []types.BoundaryPoint
	DimPhi  int
}

// Angles returns the converged angular coordinates of every boundary point.
func (r *Result) Angles() [][]float64 {
	ans := make([][]float64, len(r.Points))
	for i, p := range r.Points {
		ans[i] = p.Angles
	}
	return ans
}

// Boundary returns the unified space boundary points.
func (r *Result) Boundary() [][]float64 {
	ans := make([][]float64, len(r.Points))
	for i, p := range r.Points {
		ans[i] = p.Point
	}
	return ans
}

// PsiBoundary returns the second mechanism part of every boundary point.
func (r *Result) PsiBoundary() [][]float64 {
	ans := make([][]float64, len(r.Points))
	for i, p := range r.Points {
		_, ans[i] = p.Split(r.DimPhi)
	}
	return ans
}

func New(model *mechanism.Model, log zerolog.Logger) *Solver {
	return &Solver{model: model, log: log}
}

func (s *Solver) Model() *mechanism.Model { return s.model }
func (s *Solver) Options() Options        { return s.opts }

// Seeds returns the seed hyperplanes of the uniform angular grid.
func (s *Solver) Seeds() *Seeds { return s.seeds }

// Configure validates the options and builds the angular seed grid.
func (s *Solver) Configure(opts Options) (err error) {
	opts = opts.with_defaults()
	if err = opts.validate(s.model.DimPsi); err != nil {
		return err
	}
	s.log.Info().Msg("initializing hyperplane search grid")
	seeds, err := GridSeeds(s.model, opts.SamplesPerAngle, opts.Workers)
	if err != nil {
		return err
	}
	s.opts, s.seeds = opts, seeds
	s.log.Info().Int("samples_per_angle", opts.SamplesPerAngle).Int("hyperplanes", seeds.Len()).Msg("search grid")
	return nil
}

// Augment prefixes a second mechanism direction with zeros for the first
// mechanism.
func (s *Solver) Augment(direction []float64) []float64 {
	ans := make([]float64, s.model.DimPhi, s.model.Dims)
	return append(ans, direction...)
}

// Solve computes the boundary of the metamer mismatch body of phi0. A first
// pass seeds every direction from the uniform grid, a second pass reseeds
// from the solutions of the first and resolves all directions again.
func (s *Solver) Solve(ctx context.Context, phi0 []float64) (ans *Result, err error) {
	if s.seeds == nil {
		return nil, ErrNotConfigured
	}
	m := s.model
	s.log.Info().Int("dims", m.DimPhi).Floats64("signal", phi0).Msg("first color mechanism")
	s.log.Info().Int("dims", m.DimPsi).Msg("second color mechanism")
	metamer, err := m.FindInitialMetamer(phi0)
	if err != nil {
		return nil, err
	}
	in := metamer.Interior()
	ans = &Result{Metamer: metamer, DimPhi: m.DimPhi}

	s.log.Info().Int("directions", len(s.opts.SearchDirections)).Msg("sampling metamer mismatch body boundary")
	if ans.Initial, err = s.resolve(ctx, in, s.seeds); err != nil {
		return nil, err
	}

	s.log.Info().Msg("refining boundary from first pass solutions")
	seeds := s.seeds
	if len(ans.Initial) > 0 {
		angles := make([][]float64, len(ans.Initial))
		for i, p := range ans.Initial {
			angles[i] = p.Angles
		}
		if seeds, err = NewSeeds(m, angles, s.opts.Workers); err != nil {
			return nil, err
		}
	}
	if ans.Points, err = s.resolve(ctx, in, seeds); err != nil {
		return nil, err
	}
	if len(ans.Points) == 0 && len(s.opts.SearchDirections) > 0 {
		return ans, fmt.Errorf("%w: no direction produced a boundary point", ErrNotConverged)
	}
	return ans, nil
}

// resolve searches every configured direction in parallel and returns the
// surviving boundary points in direction order.
func (s *Solver) resolve(ctx context.Context, in mechanism.Interior, seeds *Seeds) (ans []types.BoundaryPoint, err error) {
	dirs := s.opts.SearchDirections
	if len(dirs) == 0 {
		return nil, nil
	}
	type slot struct {
		point types.BoundaryPoint
		err   error
	}
	slots := make([]slot, len(dirs))
	f := func(start, limit int) {
		for i := start; i < limit; i++ {
			slots[i].point, slots[i].err = s.BoundaryInDirection(ctx, in, seeds, s.Augment(dirs[i]))
		}
	}
	if err = parallel.Run_in_parallel_over_range(s.opts.Workers, f, 0, len(dirs)); err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	ans = make([]types.BoundaryPoint, 0, len(dirs))
	for i, sl := range slots {
		switch {
		case sl.err != nil:
			s.log.Warn().Err(sl.err).Int("direction", i).Msg("dropping direction")
		case !sl.point.IsFinite():
			s.log.Warn().Int("direction", i).Msg("dropping direction with no finite boundary crossing")
		case s.opts.Strict && !sl.point.Converged:
			s.log.Warn().Int("direction", i).Msg("dropping unconverged direction in strict mode")
		default:
			ans = append(ans, sl.point)
		}
	}
	return ans, nil
}
