// Package pipeline turns validated tally requests into weight windows: it
// loads each mesh, drops duplicate particles, picks the generation mode,
// scales and optionally plots the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/mesh2ww/internal/config"
	"github.com/samcharles93/mesh2ww/internal/logger"
	"github.com/samcharles93/mesh2ww/internal/meshtal"
	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

var (
	ErrMeshRead       = errors.New("mesh read failed")
	ErrGeneration     = errors.New("weight window generation failed")
	ErrPlotExport     = errors.New("plot export failed")
	ErrNoValidTallies = errors.New("no valid tallies")
	ErrOutputWrite    = errors.New("output write failed")
)

// MeshReader loads a single mesh tally.
type MeshReader interface {
	Read(ctx context.Context, path string, id uint32) (*meshtal.Mesh, error)
}

// Generator builds a weight window from a mesh.
type Generator interface {
	Simple(m *meshtal.Mesh, power, errLimit float64, totals bool) (*wwinp.WeightWindow, error)
	Advanced(m *meshtal.Mesh, powers, errLimits []float64) (*wwinp.WeightWindow, error)
}

// Exporter writes a plot file and returns its path.
type Exporter interface {
	Export(w *wwinp.WeightWindow, plot config.PlotConfig) (string, error)
}

// Mode is the generation mode chosen for a tally.
type Mode int

const (
	ModeNone Mode = iota
	ModeSimple
	ModeAdvanced
	// ModeFallback is simple generation with default values, used when
	// per-group vectors were combined with totals.
	ModeFallback
)

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeAdvanced:
		return "advanced"
	case ModeFallback:
		return "fallback"
	}
	return "none"
}

// Status is how far a tally got through the pipeline.
type Status int

const (
	StatusPending Status = iota
	StatusMeshLoaded
	StatusSkipped
	StatusGenerated
	StatusScaled
	StatusPlotted
	StatusCollected
	StatusReadFailed
	StatusGenerationFailed
)

var statusNames = [...]string{
	StatusPending:          "pending",
	StatusMeshLoaded:       "mesh-loaded",
	StatusSkipped:          "skipped",
	StatusGenerated:        "generated",
	StatusScaled:           "scaled",
	StatusPlotted:          "plotted",
	StatusCollected:        "collected",
	StatusReadFailed:       "read-failed",
	StatusGenerationFailed: "generation-failed",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result records what happened to one tally request.
type Result struct {
	Config config.TallyConfig
	Window *wwinp.WeightWindow
	Mode   Mode
	Status Status
	// Trail lists every status the request passed through, in order.
	Trail []Status
	// Plot is the path of the exported plot, empty when not plotted.
	Plot string
	Err  error
}

func (r *Result) advance(s Status) {
	r.Status = s
	r.Trail = append(r.Trail, s)
}

// Outcome is the result of a run.
type Outcome struct {
	// Results has one entry per input config, in input order.
	Results []Result
	// Windows are the collected weight windows in input order.
	Windows []*wwinp.WeightWindow
	// PlotFailed is set when any plot export failed.
	PlotFailed bool
}

// Orchestrator runs tally requests through a reader, generator and exporter.
type Orchestrator struct {
	Reader    MeshReader
	Generator Generator
	Exporter  Exporter
	// Workers bounds concurrent mesh reads. One or less reads each mesh
	// just before it is processed.
	Workers int
}

type loaded struct {
	mesh *meshtal.Mesh
	err  error
}

// Run processes configs in order. Per-tally failures are recorded in the
// outcome and logged; ErrNoValidTallies is returned when nothing was
// collected.
func (o *Orchestrator) Run(ctx context.Context, configs []config.TallyConfig, plot config.PlotConfig) (Outcome, error) {
	log := logger.FromContext(ctx)
	out := Outcome{Results: make([]Result, len(configs))}
	if len(configs) == 0 {
		return out, ErrNoValidTallies
	}

	ctx, cancel := context.WithCancel(ctx)
	next, wait := o.load(ctx, configs)
	defer func() {
		cancel()
		wait()
	}()

	for i, c := range configs {
		res := &out.Results[i]
		res.Config = c
		res.advance(StatusPending)
		tlog := log.With("meshtal", c.SourcePath, "tally", c.TallyID)

		l := next(i)
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if l.err != nil {
			res.advance(StatusReadFailed)
			res.Err = fmt.Errorf("%w: %w", ErrMeshRead, l.err)
			tlog.Warn("skipping tally", "error", res.Err)
			continue
		}
		res.advance(StatusMeshLoaded)
		m := l.mesh

		if collected(out.Windows, m) {
			res.advance(StatusSkipped)
			tlog.Warn("skipping duplicate particle", "particle", m.Particle)
			continue
		}

		w, mode, err := o.generate(m, c, tlog)
		res.Mode = mode
		if err != nil {
			res.advance(StatusGenerationFailed)
			res.Err = fmt.Errorf("%w: %w", ErrGeneration, err)
			tlog.Warn("skipping tally", "error", res.Err)
			continue
		}
		res.Window = w
		res.advance(StatusGenerated)

		if c.Scale != 1.0 {
			w.Scale(c.Scale)
			res.advance(StatusScaled)
		}

		out.Windows = append(out.Windows, w)
		tlog.Info("generated weight window",
			"particle", w.Particle,
			"mode", mode,
			"non_analogue", fmt.Sprintf("%.2f%%", w.NonAnaloguePercentage()))

		if plot.Enabled && o.Exporter != nil {
			path, err := o.Exporter.Export(w, plot)
			if err != nil {
				res.Err = fmt.Errorf("%w: %w", ErrPlotExport, err)
				out.PlotFailed = true
				tlog.Error("plot export failed", "error", err)
			} else {
				res.Plot = path
				res.advance(StatusPlotted)
				tlog.Info("wrote plot", "path", path)
			}
		}
		res.advance(StatusCollected)
	}

	if len(out.Windows) == 0 {
		return out, ErrNoValidTallies
	}
	return out, nil
}

// collected reports whether a window for the mesh's particle exists already.
func collected(windows []*wwinp.WeightWindow, m *meshtal.Mesh) bool {
	for _, w := range windows {
		if w.Particle == m.Particle {
			return true
		}
	}
	return false
}

func (o *Orchestrator) generate(m *meshtal.Mesh, c config.TallyConfig, log logger.Logger) (*wwinp.WeightWindow, Mode, error) {
	switch {
	case c.Simple():
		w, err := o.Generator.Simple(m, c.PowerFactors[0], c.ErrorLimits[0], c.TotalsOnly)
		return w, ModeSimple, err
	case c.TotalsOnly:
		log.Warn("per-group power and error values cannot be used with totals, using defaults",
			"power", config.DefaultPower, "error", config.DefaultError)
		w, err := o.Generator.Simple(m, config.DefaultPower, config.DefaultError, false)
		return w, ModeFallback, err
	default:
		w, err := o.Generator.Advanced(m, c.PowerFactors, c.ErrorLimits)
		return w, ModeAdvanced, err
	}
}

// load returns a function yielding the mesh for config i, and a function that
// waits for any background reads to stop. With more than one worker meshes
// are read ahead concurrently; results are still consumed in input order and
// at most Workers meshes are held before the consumer takes them.
func (o *Orchestrator) load(ctx context.Context, configs []config.TallyConfig) (func(int) loaded, func()) {
	read := func(ctx context.Context, c config.TallyConfig) loaded {
		m, err := o.Reader.Read(ctx, c.SourcePath, c.TallyID)
		return loaded{mesh: m, err: err}
	}
	if o.Workers <= 1 {
		return func(i int) loaded { return read(ctx, configs[i]) }, func() {}
	}

	slots := make([]chan loaded, len(configs))
	for i := range slots {
		slots[i] = make(chan loaded, 1)
	}
	ahead := make(chan struct{}, o.Workers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.Workers)
		for i, c := range configs {
			select {
			case ahead <- struct{}{}:
			case <-gctx.Done():
				slots[i] <- loaded{err: gctx.Err()}
				continue
			}
			g.Go(func() error {
				slots[i] <- read(gctx, c)
				return nil
			})
		}
		_ = g.Wait()
	}()

	next := func(i int) loaded {
		select {
		case l := <-slots[i]:
			select {
			case <-ahead:
			default:
			}
			return l
		case <-ctx.Done():
			return loaded{err: ctx.Err()}
		}
	}
	return next, func() { <-done }
}
