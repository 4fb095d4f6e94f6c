package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kovidgoyal/metamer"
	"github.com/kovidgoyal/metamer/config"
	"github.com/kovidgoyal/metamer/logging"
	"github.com/kovidgoyal/metamer/report"
	"github.com/kovidgoyal/metamer/tangent"
	"github.com/kovidgoyal/metamer/types"
)

var _ = fmt.Print

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	if len(os.Args) == 2 && os.Args[1] == "-version" {
		fmt.Println("mmb", metamer.Version)
		return
	}
	if len(os.Args) == 1 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/mmb -version | job-file [output-file]")
		os.Exit(1)
	}
	log := logging.New("mmb")
	job, err := config.Load(os.Args[1])
	if err != nil {
		return
	}
	log.Info().Str("path", os.Args[1]).Str("job", job.Name).Msg("loaded job")
	model, err := job.Model(log)
	if err != nil {
		return
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	s := tangent.New(model, log)
	if err = s.Configure(job.Options()); err != nil {
		return
	}
	res, err := s.Solve(ctx, job.Phi0)
	if err != nil {
		return
	}
	rep := report.FromResult(job.Name, res, metamer.White(model.Psi()))
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
		log.Info().Int("points", len(rep.Points)).Int("unconverged", rep.Unconverged).Str("path", os.Args[2]).Msg("boundary saved")
	}
}
