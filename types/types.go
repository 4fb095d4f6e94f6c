package types

import (
	"fmt"
	"math"
	"strings"
)

var _ = fmt.Print

// Format is a report file format.
type Format int

// Report file formats.
const (
	UNKNOWN Format = iota
	CSV
	JSON
	YAML
)

var FormatExts = map[string]Format{
	"csv":  CSV,
	"json": JSON,
	"yaml": YAML,
	"yml":  YAML,
}

var formatNames = map[Format]string{
	CSV:  "CSV",
	JSON: "JSON",
	YAML: "YAML",
}

func (f Format) String() string {
	return formatNames[f]
}

// FormatFromName returns the format for a file name or bare extension, or
// UNKNOWN.
func FormatFromName(name string) Format {
	ext := strings.ToLower(name)
	if idx := strings.LastIndexByte(ext, '.'); idx > -1 {
		ext = ext[idx+1:]
	}
	return FormatExts[ext]
}

// Hyperplane is a normal vector followed by the negated offset, so that a
// point p lies on it when h · [p; 1] == 0.
type Hyperplane []float64

// NewHyperplane returns the hyperplane {x : normal · x == offset}.
func NewHyperplane(normal []float64, offset float64) Hyperplane {
	h := make(Hyperplane, len(normal)+1)
	copy(h, normal)
	h[len(normal)] = -offset
	return h
}

func (h Hyperplane) Normal() []float64 { return h[:len(h)-1] }
func (h Hyperplane) Offset() float64   { return -h[len(h)-1] }

// Eval returns h · ph for a point in homogeneous coordinates.
func (h Hyperplane) Eval(ph []float64) (ans float64) {
	for i, x := range h {
		ans += x * ph[i]
	}
	return
}

// RayDistance returns the signed distance t along direction from the
// homogeneous point p0h at which the ray p0 + t*direction meets h. Rays
// parallel to h give an infinite (or NaN) distance.
func (h Hyperplane) RayDistance(p0h, direction []float64) float64 {
	var den float64
	for i, x := range h.Normal() {
		den += x * direction[i]
	}
	return -h.Eval(p0h) / den
}

// BoundaryPoint is one resolved ray/boundary crossing of a metamer mismatch
// body.
type BoundaryPoint struct {
	// Direction is the search direction in unified space, leading zeros
	// included.
	Direction []float64
	// Angles are the spherical coordinates of the normal of the tangent
	// hyperplane defining the point.
	Angles []float64
	// Point is the boundary point in unified space.
	Point    []float64
	Distance float64
	// Converged is false when the local optimizer stopped on a limit.
	Converged   bool
	Rounds      int
	Evaluations int
}

// Split returns the first and second mechanism parts of the point.
func (p BoundaryPoint) Split(dim_phi int) (phi, psi []float64) {
	return p.Point[:dim_phi], p.Point[dim_phi:]
}

func (p BoundaryPoint) IsFinite() bool {
	if math.IsInf(p.Distance, 0) || math.IsNaN(p.Distance) {
		return false
	}
	for _, x := range p.Point {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return false
		}
	}
	return true
}
