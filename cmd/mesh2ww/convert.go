package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/samcharles93/mesh2ww/internal/argset"
	"github.com/samcharles93/mesh2ww/internal/config"
	"github.com/samcharles93/mesh2ww/internal/logger"
	"github.com/samcharles93/mesh2ww/internal/meshtal"
	"github.com/samcharles93/mesh2ww/internal/pipeline"
	"github.com/samcharles93/mesh2ww/internal/report"
	"github.com/samcharles93/mesh2ww/internal/version"
	"github.com/samcharles93/mesh2ww/internal/wwgen"
	"github.com/samcharles93/mesh2ww/pkg/wwinp"
)

// convert runs a whole conversion: parse every "+" separated set, resolve the
// global options, generate the weight windows and write them once.
func convert(ctx context.Context, program string, tokens []string, logOut io.Writer) error {
	sets := argset.Split(program, tokens)
	segs := config.Segments(ctx, sets)

	base := config.Defaults()
	cfgPath := config.ConfigPath()
	file, fileErr := config.LoadFile(cfgPath)
	base, fileErrs := file.Apply(base)
	globals, globalErrs := config.ResolveGlobals(segs, base)

	verbosity, quiet := config.Verbosity(tokens), config.Quiet(tokens)
	log := logger.Setup(logOut, logger.Options{
		Verbosity: verbosity,
		Quiet:     quiet,
		Format:    globals.LogFormat,
	})
	ctx = logger.WithContext(ctx, log)

	if fileErr != nil {
		log.Warn("ignoring config file", "error", fileErr)
	}
	for _, err := range fileErrs {
		log.Warn("ignoring config file value", "path", cfgPath, "error", err)
	}
	for _, err := range globalErrs {
		log.Warn("ignoring global option", "error", err)
	}
	log.Debug("resolved global options",
		"output", globals.Output.Path,
		"trim", globals.Output.Trim,
		"vtk", globals.Plot.Enabled,
		"format", globals.Plot.Format,
		"compressor", globals.Plot.Compressor,
		"endian", globals.Plot.ByteOrder,
		"resolution", globals.Plot.Resolution,
		"workers", globals.Workers)

	var rep *report.Report
	if globals.Report != "" {
		rep = report.New(version.String())
		rep.Sets = len(sets)
		rep.Output = globals.Output.Path
	}
	writeReport := func(runErr error) {
		if rep == nil {
			return
		}
		rep.AddError(runErr)
		if err := rep.Write(globals.Report); err != nil {
			log.Error("failed to write report", "path", globals.Report, "error", err)
			return
		}
		log.Debug("wrote report", "path", globals.Report)
	}

	tallies := config.Tallies(ctx, segs, nil)
	if rep != nil {
		rep.Dropped = len(sets) - len(tallies)
	}
	if len(tallies) == 0 {
		err := fmt.Errorf("%w: no meshtal sets could be parsed", pipeline.ErrNoValidTallies)
		writeReport(err)
		return err
	}

	orch := &pipeline.Orchestrator{
		Reader:    &meshtal.Reader{Progress: showProgress(verbosity, quiet)},
		Generator: wwgen.Generator{},
		Exporter:  pipeline.VTKExporter{},
		Workers:   globals.Workers,
	}
	log.Debug("generating weight windows", "tallies", len(tallies))
	out, err := orch.Run(ctx, tallies, globals.Plot)
	if rep != nil {
		rep.AddOutcome(out)
	}
	if err != nil {
		writeReport(err)
		return err
	}

	log.Info("writing WWINP file", "path", globals.Output.Path)
	n, err := wwinp.WriteMultiParticle(globals.Output.Path, out.Windows, !globals.Output.Trim)
	if err != nil {
		err = fmt.Errorf("%w: %w", pipeline.ErrOutputWrite, err)
		writeReport(err)
		return err
	}
	if rep != nil {
		rep.OutputBytes = n
	}
	log.Debug("wrote WWINP file", "path", globals.Output.Path, "size", humanize.Bytes(uint64(n)))

	var runErr error
	if out.PlotFailed {
		runErr = fmt.Errorf("%w for one or more weight windows", pipeline.ErrPlotExport)
	}
	writeReport(runErr)
	if runErr != nil {
		return runErr
	}
	log.Info("conversion complete")
	return nil
}

// showProgress reports whether row counts are logged while reading meshes.
// They are dropped for -q and for -vv, where per-line debug output takes over.
func showProgress(verbosity int, quiet bool) bool {
	return !quiet && verbosity <= 1
}
