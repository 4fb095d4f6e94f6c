// Package report serializes metamer mismatch body and object color solid
// boundaries.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kovidgoyal/metamer"
	"github.com/kovidgoyal/metamer/colorconv"
	"github.com/kovidgoyal/metamer/tangent"
	"github.com/kovidgoyal/metamer/types"
	"gopkg.in/yaml.v3"
)

var _ = fmt.Print

type Point struct {
	Direction []float64 `json:"direction,omitempty" yaml:"direction,omitempty"`
	Angles    []float64 `json:"angles,omitempty" yaml:"angles,omitempty"`
	Phi       []float64 `json:"phi,omitempty" yaml:"phi,omitempty"`
	Psi       []float64 `json:"psi" yaml:"psi"`
	// Lab and SRGB are only present for three dimensional second
	// mechanisms.
	Lab       []float64 `json:"lab,omitempty" yaml:"lab,omitempty"`
	SRGB      string    `json:"srgb,omitempty" yaml:"srgb,omitempty"`
	Distance  float64   `json:"distance,omitempty" yaml:"distance,omitempty"`
	Converged bool      `json:"converged" yaml:"converged"`
}

type Report struct {
	Name        string    `json:"name" yaml:"name"`
	Version     string    `json:"version" yaml:"version"`
	Phi0        []float64 `json:"phi0,omitempty" yaml:"phi0,omitempty"`
	Psi0        []float64 `json:"psi0,omitempty" yaml:"psi0,omitempty"`
	Residual    float64   `json:"residual" yaml:"residual"`
	White       []float64 `json:"white,omitempty" yaml:"white,omitempty"`
	Points      []Point   `json:"points" yaml:"points"`
	Unconverged int       `json:"unconverged" yaml:"unconverged"`
}

// FromResult builds a report of a solver result. white is the second
// mechanism signal of the perfect reflector, when it has three components
// points also carry CIELAB coordinates and an sRGB preview.
func FromResult(name string, res *tangent.Result, white []float64) *Report {
	ans := &Report{
		Name: name, Version: metamer.Version.String(), Phi0: res.Metamer.Phi0, Psi0: res.Metamer.Psi0, Residual: res.Metamer.Residual,
		White: white, Points: make([]Point, len(res.Points)),
	}
	for i, p := range res.Points {
		phi, psi := p.Split(res.DimPhi)
		q := Point{Direction: p.Direction[res.DimPhi:], Angles: p.Angles, Phi: phi, Psi: psi, Distance: p.Distance, Converged: p.Converged}
		add_color(&q, white)
		if !p.Converged {
			ans.Unconverged++
		}
		ans.Points[i] = q
	}
	return ans
}

// FromPoints builds a report of bare boundary points such as object color
// solid samples. The first dim_phi components of every point are reported as
// first mechanism components.
func FromPoints(name string, points [][]float64, dim_phi int, white []float64) *Report {
	ans := &Report{Name: name, Version: metamer.Version.String(), White: white, Points: make([]Point, len(points))}
	for i, p := range points {
		q := Point{Phi: p[:dim_phi:dim_phi], Psi: p[dim_phi:], Converged: true}
		if dim_phi == 0 {
			q.Phi = nil
		}
		add_color(&q, white)
		ans.Points[i] = q
	}
	return ans
}

func add_color(q *Point, white []float64) {
	if len(white) != 3 || len(q.Psi) != 3 {
		return
	}
	w, c := colorconv.FromSlice(white), colorconv.FromSlice(q.Psi)
	lab := colorconv.XYZToLab(c, w)
	q.Lab = lab[:]
	q.SRGB = colorconv.XYZToSRGB(c, w).Hex()
}

// Write serializes the report in the specified format.
func (r *Report) Write(w io.Writer, format types.Format) (err error) {
	switch format {
	case types.JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case types.YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case types.CSV:
		return r.write_csv(w)
	}
	return fmt.Errorf("unsupported report format: %s", format)
}

// WriteFile writes the report to path in the specified format. A failure to
// close the file is reported like a failed write.
func (r *Report) WriteFile(path string, format types.Format) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return r.Write(f, format)
}

// write_csv writes one row per point with the second mechanism components
// first so that plotting tools can consume the leading columns directly.
func (r *Report) write_csv(w io.Writer) error {
	cw := csv.NewWriter(w)
	if len(r.Points) > 0 {
		p := r.Points[0]
		header := make([]string, 0, 8)
		for i := range p.Psi {
			header = append(header, "psi"+strconv.Itoa(i))
		}
		for i := range p.Phi {
			header = append(header, "phi"+strconv.Itoa(i))
		}
		if p.Lab != nil {
			header = append(header, "L", "a", "b", "srgb")
		}
		header = append(header, "distance", "converged")
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	for _, p := range r.Points {
		row := make([]string, 0, 8)
		for _, x := range p.Psi {
			row = append(row, f(x))
		}
		for _, x := range p.Phi {
			row = append(row, f(x))
		}
		if p.Lab != nil {
			row = append(row, f(p.Lab[0]), f(p.Lab[1]), f(p.Lab[2]), p.SRGB)
		}
		row = append(row, f(p.Distance), strconv.FormatBool(p.Converged))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
