package config

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samcharles93/mesh2ww/pkg/vtk"
)

// resolve folds over the segments in order and returns the first value that
// is both present and valid. Invalid values are collected and skipped.
func resolve[T any](segs []Segment, field string, raw func(Segment) *string, parse func(string) (T, error), errs *[]error) *T {
	for _, seg := range segs {
		r := raw(seg)
		if r == nil {
			continue
		}
		v, err := parse(*r)
		if err != nil {
			*errs = append(*errs, invalid(field, *r))
			continue
		}
		return &v
	}
	return nil
}

// ResolveGlobals reduces the per-segment global options into one GlobalConfig.
// Each option is resolved independently: the first segment that sets it wins,
// otherwise the value from base is kept. Booleans are set when any segment sets
// them. Invalid values are returned as errors and do not stop the scan.
func ResolveGlobals(segs []Segment, base GlobalConfig) (GlobalConfig, []error) {
	var errs []error
	out := base

	if v := resolve(segs, FlagOutput, func(s Segment) *string { return s.Output }, parsePath, &errs); v != nil {
		out.Output.Path = *v
	}
	if v := resolve(segs, FlagReport, func(s Segment) *string { return s.Report }, parsePath, &errs); v != nil {
		out.Report = *v
	}
	if v := resolve(segs, FlagFormat, func(s Segment) *string { return s.Format }, vtk.ParseFormat, &errs); v != nil {
		out.Plot.Format = *v
	}
	if v := resolve(segs, FlagCompressor, func(s Segment) *string { return s.Compressor }, vtk.ParseCompressor, &errs); v != nil {
		out.Plot.Compressor = *v
	}
	if v := resolve(segs, FlagEndian, func(s Segment) *string { return s.Endian }, vtk.ParseByteOrder, &errs); v != nil {
		out.Plot.ByteOrder = *v
	}
	if v := resolve(segs, FlagResolution, func(s Segment) *string { return s.Resolution }, ParseResolution, &errs); v != nil {
		out.Plot.Resolution = *v
	}
	if v := resolve(segs, FlagLogFormat, func(s Segment) *string { return s.LogFormat }, ParseLogFormat, &errs); v != nil {
		out.LogFormat = *v
	}
	if v := resolve(segs, FlagWorkers, func(s Segment) *string { return s.Workers }, ParseWorkers, &errs); v != nil {
		out.Workers = *v
	}

	if slices.ContainsFunc(segs, func(s Segment) bool { return s.Trim }) {
		out.Output.Trim = true
	}
	if slices.ContainsFunc(segs, func(s Segment) bool { return s.VTK }) {
		out.Plot.Enabled = true
	}
	return out, errs
}

func parsePath(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrInvalidValue
	}
	return s, nil
}

// ParseResolution parses a cylindrical resolution, which must be at least 1.
func ParseResolution(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, ErrInvalidValue
	}
	return uint8(v), nil
}

// ParseWorkers parses a positive worker count.
func ParseWorkers(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, ErrInvalidValue
	}
	return v, nil
}

// ParseLogFormat validates a logger format name.
func ParseLogFormat(s string) (string, error) {
	switch s {
	case "pretty", "text", "json":
		return s, nil
	}
	return "", ErrInvalidValue
}
