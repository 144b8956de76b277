// Package report writes a JSON summary of a conversion run.
package report

import (
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samcharles93/mesh2ww/internal/pipeline"
)

// Tally is the report entry for one tally request.
type Tally struct {
	Meshtal     string    `json:"meshtal"`
	Tally       uint32    `json:"tally"`
	Particle    string    `json:"particle,omitempty"`
	Mode        string    `json:"mode"`
	Status      string    `json:"status"`
	Trail       []string  `json:"trail"`
	Power       []float64 `json:"power"`
	ErrorLimit  []float64 `json:"error_limit"`
	Totals      bool      `json:"totals"`
	Scale       float64   `json:"scale"`
	NonAnalogue float64   `json:"non_analogue_percent,omitempty"`
	Plot        string    `json:"plot,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Report summarises a run.
type Report struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished"`
	Sets        int       `json:"argument_sets"`
	Dropped     int       `json:"dropped_sets"`
	Output      string    `json:"output,omitempty"`
	OutputBytes int64     `json:"output_bytes,omitempty"`
	Particles   []string  `json:"particles"`
	Tallies     []Tally   `json:"tallies"`
	Errors      []string  `json:"errors,omitempty"`
}

// New starts a report for the given build version.
func New(version string) *Report {
	return &Report{
		ID:      uuid.NewString(),
		Version: version,
		Started: time.Now().UTC(),
	}
}

// AddOutcome records the per-tally results of a pipeline run.
func (r *Report) AddOutcome(out pipeline.Outcome) {
	for _, res := range out.Results {
		t := Tally{
			Meshtal:    res.Config.SourcePath,
			Tally:      res.Config.TallyID,
			Mode:       res.Mode.String(),
			Status:     res.Status.String(),
			Power:      res.Config.PowerFactors,
			ErrorLimit: res.Config.ErrorLimits,
			Totals:     res.Config.TotalsOnly,
			Scale:      res.Config.Scale,
			Plot:       res.Plot,
		}
		for _, s := range res.Trail {
			t.Trail = append(t.Trail, s.String())
		}
		if res.Window != nil {
			t.Particle = res.Window.Particle.String()
			t.NonAnalogue = res.Window.NonAnaloguePercentage()
		}
		if res.Err != nil {
			t.Error = res.Err.Error()
		}
		r.Tallies = append(r.Tallies, t)
	}
	for _, w := range out.Windows {
		r.Particles = append(r.Particles, w.Particle.String())
	}
}

// AddError records a run-level failure.
func (r *Report) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

// Write stamps the finish time and writes the report to path.
func (r *Report) Write(path string) error {
	r.Finished = time.Now().UTC()
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
