package main

import (
	"fmt"
	"os"

	"github.com/kovidgoyal/metamer"
	"github.com/kovidgoyal/metamer/config"
	"github.com/kovidgoyal/metamer/logging"
	"github.com/kovidgoyal/metamer/ocs"
	"github.com/kovidgoyal/metamer/report"
	"github.com/kovidgoyal/metamer/types"
)

var _ = fmt.Print

// Writes the object color solid boundary of a job. For planar jobs that is
// the solid of the unified mechanism, otherwise the solid of the second
// mechanism sampled along the job directions.
func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	if len(os.Args) == 2 && os.Args[1] == "-version" {
		fmt.Println("ocs", metamer.Version)
		return
	}
	if len(os.Args) == 1 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/ocs -version | job-file [output-file]")
		os.Exit(1)
	}
	log := logging.New("ocs")
	job, err := config.Load(os.Args[1])
	if err != nil {
		return
	}
	model, err := job.Model(log)
	if err != nil {
		return
	}
	var points [][]float64
	var white []float64
	dim_phi := 0
	if model.Dims == 2 {
		dim_phi = 1
		points, err = ocs.Boundary2D(model.Unified(), job.OCSSamples)
	} else {
		white = metamer.White(model.Psi())
		points, err = ocs.Boundary(model.Psi(), job.Directions)
	}
	if err != nil {
		return
	}
	rep := report.FromPoints(job.Name+"-ocs", points, dim_phi, white)
	format := job.Format()
	if len(os.Args) < 3 {
		err = rep.Write(os.Stdout, format)
		return
	}
	if format = types.FormatFromName(os.Args[2]); format == types.UNKNOWN {
		err = fmt.Errorf("unknown output format: %s", os.Args[2])
		return
	}
	if err = rep.WriteFile(os.Args[2], format); err == nil {
		log.Info().Int("points", len(points)).Msg("object color solid written")
	}
}
