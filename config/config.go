// Package config loads metamer mismatch jobs from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kovidgoyal/metamer/mechanism"
	"github.com/kovidgoyal/metamer/tangent"
	"github.com/kovidgoyal/metamer/types"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidJob = errors.New("invalid job")

// Job describes one metamer mismatch body computation: the two mechanisms
// as row-major matrices, the observed first mechanism signal and the search
// settings.
type Job struct {
	Name string `yaml:"name" toml:"name"`
	// Phi and Psi have one row per output dimension and one column per
	// spectral sample.
	Phi  [][]float64 `yaml:"phi" toml:"phi"`
	Psi  [][]float64 `yaml:"psi" toml:"psi"`
	Phi0 []float64   `yaml:"phi0" toml:"phi0"`
	// Directions are unit vectors in the output space of psi.
	Directions       [][]float64 `yaml:"directions" toml:"directions"`
	SamplesPerAngle  int         `yaml:"samples_per_angle" toml:"samples_per_angle"`
	Strict           bool        `yaml:"strict" toml:"strict"`
	MaxRounds        int         `yaml:"max_rounds" toml:"max_rounds"`
	MaxEvaluations   int         `yaml:"max_evaluations" toml:"max_evaluations"`
	Workers          int         `yaml:"workers" toml:"workers"`
	NoPolish         bool        `yaml:"no_polish" toml:"no_polish"`
	DirectionTimeout string      `yaml:"direction_timeout" toml:"direction_timeout"`
	// Output is the report format used when writing to stdout.
	Output string `yaml:"output" toml:"output"`
	// OCSSamples is the number of normals swept by planar object color
	// solid reports.
	OCSSamples int `yaml:"ocs_samples" toml:"ocs_samples"`
}

// Load reads a job, choosing the decoder from the file extension, applies
// defaults and validates it.
func Load(path string) (job Job, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("job load failed (%s): %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &job)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &job)
	default:
		return job, fmt.Errorf("%w: unknown job file type: %s", ErrInvalidJob, path)
	}
	if err != nil {
		return Job{}, fmt.Errorf("job parse failed (%s): %w", path, err)
	}
	job.apply_defaults()
	if err = job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

func (j *Job) apply_defaults() {
	if j.Name == "" {
		j.Name = "mmb"
	}
	if j.Output == "" {
		j.Output = "yaml"
	}
	if j.OCSSamples == 0 {
		j.OCSSamples = 400
	}
}

func (j Job) Validate() error {
	switch {
	case len(j.Phi) == 0 || len(j.Psi) == 0:
		return fmt.Errorf("%w: phi and psi are required", ErrInvalidJob)
	case len(j.Phi0) != len(j.Phi):
		return fmt.Errorf("%w: phi0 has %d components, phi has %d rows", ErrInvalidJob, len(j.Phi0), len(j.Phi))
	case types.FormatFromName(j.Output) == types.UNKNOWN:
		return fmt.Errorf("%w: unknown output format: %s", ErrInvalidJob, j.Output)
	case j.OCSSamples < 1:
		return fmt.Errorf("%w: ocs_samples must be positive", ErrInvalidJob)
	}
	for i, d := range j.Directions {
		if len(d) != len(j.Psi) {
			return fmt.Errorf("%w: direction %d has %d components, psi has %d rows", ErrInvalidJob, i, len(d), len(j.Psi))
		}
	}
	if _, err := j.Timeout(); err != nil {
		return err
	}
	return nil
}

func (j Job) Timeout() (time.Duration, error) {
	if j.DirectionTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(j.DirectionTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: direction_timeout: %w", ErrInvalidJob, err)
	}
	return d, nil
}

// Model builds the mechanism model of the job.
func (j Job) Model(log zerolog.Logger) (*mechanism.Model, error) {
	return mechanism.FromRows(j.Phi, j.Psi, log)
}

// Options returns the tangent solver options of the job.
func (j Job) Options() tangent.Options {
	timeout, _ := j.Timeout()
	return tangent.Options{
		SearchDirections: j.Directions,
		SamplesPerAngle:  j.SamplesPerAngle,
		Strict:           j.Strict,
		MaxRounds:        j.MaxRounds,
		MaxEvaluations:   j.MaxEvaluations,
		Workers:          j.Workers,
		NoPolish:         j.NoPolish,
		DirectionTimeout: timeout,
	}
}

func (j Job) Format() types.Format { return types.FormatFromName(j.Output) }
