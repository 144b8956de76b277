// Package config turns mesh2ww argument sets into validated tally requests and
// resolves the options that apply to the whole run.
package config

import (
	"github.com/samcharles93/mesh2ww/pkg/vtk"
)

// Built-in defaults.
const (
	DefaultPower      = 0.7
	DefaultError      = 1.0
	DefaultScale      = 1.0
	DefaultOutput     = "wwinp"
	DefaultResolution = 1
	DefaultWorkers    = 1
	DefaultLogFormat  = "pretty"
)

// TallyConfig is one validated conversion request.
type TallyConfig struct {
	SourcePath   string
	TallyID      uint32
	PowerFactors []float64
	ErrorLimits  []float64
	TotalsOnly   bool
	Scale        float64
}

// Simple reports whether both de-tuning vectors hold a single value.
func (c TallyConfig) Simple() bool {
	return len(c.PowerFactors) == 1 && len(c.ErrorLimits) == 1
}

// PlotConfig controls VTK export for every weight window in the run.
type PlotConfig struct {
	Enabled    bool
	Format     vtk.Format
	Compressor vtk.Compressor
	ByteOrder  vtk.ByteOrder
	Resolution uint8
}

// Options converts the plot configuration for the VTK writer.
func (p PlotConfig) Options() vtk.Options {
	return vtk.Options{
		Format:     p.Format,
		Compressor: p.Compressor,
		ByteOrder:  p.ByteOrder,
		Resolution: p.Resolution,
	}
}

// OutputConfig controls the single WWINP write at the end of a run.
type OutputConfig struct {
	Path string
	Trim bool
}

// GlobalConfig holds every option that is resolved across all argument sets.
type GlobalConfig struct {
	Plot      PlotConfig
	Output    OutputConfig
	Report    string
	LogFormat string
	Workers   int
}

// Defaults returns the built-in global configuration.
func Defaults() GlobalConfig {
	return GlobalConfig{
		Plot: PlotConfig{
			Format:     vtk.FormatXML,
			Compressor: vtk.CompressorLZMA,
			ByteOrder:  vtk.BigEndian,
			Resolution: DefaultResolution,
		},
		Output: OutputConfig{
			Path: DefaultOutput,
		},
		LogFormat: DefaultLogFormat,
		Workers:   DefaultWorkers,
	}
}
