package config

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mesh2ww/internal/argset"
	"github.com/samcharles93/mesh2ww/internal/logger"
)

// StatFunc reports file information; os.Stat satisfies it.
type StatFunc func(name string) (fs.FileInfo, error)

// Segment is an argument set after the syntactic pass. Options that were not
// given are nil so that global resolution can tell "unset" from a value.
type Segment struct {
	Index        int
	Positionals  []string
	Unrecognized []string
	Problems     []error

	Power []string
	Error []string
	Total bool
	Scale *string

	Output     *string
	Trim       bool
	Report     *string
	VTK        bool
	Format     *string
	Resolution *string
	Endian     *string
	Compressor *string
	LogFormat  *string
	Workers    *string
}

// ParseSegment runs the syntactic pass over one argument set. It never fails:
// unknown flags, surplus positionals and flags missing their value are kept
// on the Segment and reported by Tally.
func ParseSegment(ctx context.Context, index int, set argset.ArgumentSet) Segment {
	seg := Segment{Index: index}
	flags := Flags()
	bound := normalise(&seg, flagTable(flags), set.Args())

	cmd := &cli.Command{
		Name:        set.Program(),
		Flags:       flags,
		HideHelp:    true,
		HideVersion: true,
		Writer:      io.Discard,
		ErrWriter:   io.Discard,
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return err
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			seg.bind(cmd)
			return nil
		},
	}
	if err := cmd.Run(ctx, append([]string{set.Program()}, bound...)); err != nil {
		seg.Problems = append(seg.Problems, unrecognized(err.Error()))
	}
	return seg
}

// normalise rewrites the raw tokens into "--name=value" form, collecting
// positionals and unknown tokens on seg. --power and --error are greedy: the
// first value is always taken and following tokens are taken while they are
// numbers.
func normalise(seg *Segment, table map[string]flagSpec, args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			seg.Positionals = append(seg.Positionals, args[i+1:]...)
			break
		}
		if isDebugToken(tok) {
			continue
		}
		if !looksLikeFlag(tok) {
			seg.Positionals = append(seg.Positionals, tok)
			continue
		}

		name, value, hasValue := strings.Cut(tok, "=")
		spec, ok := table[name]
		if !ok {
			seg.Unrecognized = append(seg.Unrecognized, tok)
			continue
		}
		if spec.kind == kindBool {
			if hasValue {
				if _, err := strconv.ParseBool(value); err != nil {
					seg.Problems = append(seg.Problems, invalid(spec.name, value))
					continue
				}
				out = append(out, "--"+spec.name+"="+value)
			} else {
				out = append(out, "--"+spec.name)
			}
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				seg.Problems = append(seg.Problems, missing("value for "+dashed(spec.name)))
				continue
			}
			i++
			value = args[i]
		}
		out = append(out, "--"+spec.name+"="+value)
		if spec.kind != kindGreedy {
			continue
		}
		for i+1 < len(args) && isNumber(args[i+1]) {
			i++
			out = append(out, "--"+spec.name+"="+args[i])
		}
	}
	return out
}

func (s *Segment) bind(cmd *cli.Command) {
	optional := func(name string) *string {
		if !cmd.IsSet(name) {
			return nil
		}
		v := cmd.String(name)
		return &v
	}
	if cmd.IsSet(FlagPower) {
		s.Power = cmd.StringSlice(FlagPower)
	}
	if cmd.IsSet(FlagError) {
		s.Error = cmd.StringSlice(FlagError)
	}
	s.Total = cmd.Bool(FlagTotal)
	s.Scale = optional(FlagScale)
	s.Output = optional(FlagOutput)
	s.Trim = cmd.Bool(FlagTrim)
	s.Report = optional(FlagReport)
	s.VTK = cmd.Bool(FlagVTK)
	s.Format = optional(FlagFormat)
	s.Resolution = optional(FlagResolution)
	s.Endian = optional(FlagEndian)
	s.Compressor = optional(FlagCompressor)
	s.LogFormat = optional(FlagLogFormat)
	s.Workers = optional(FlagWorkers)
}

// Tally runs the semantic pass, producing a TallyConfig whose source file is
// known to exist.
func (s Segment) Tally(stat StatFunc) (TallyConfig, error) {
	if len(s.Unrecognized) > 0 {
		return TallyConfig{}, unrecognized(strings.Join(s.Unrecognized, " "))
	}
	if len(s.Problems) > 0 {
		return TallyConfig{}, s.Problems[0]
	}
	switch len(s.Positionals) {
	case 0:
		return TallyConfig{}, missing("<meshtal>")
	case 1:
		return TallyConfig{}, missing("<number>")
	case 2:
	default:
		return TallyConfig{}, unrecognized(strings.Join(s.Positionals[2:], " "))
	}

	path, rawID := s.Positionals[0], s.Positionals[1]
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return TallyConfig{}, invalid("<number>", rawID)
	}

	cfg := TallyConfig{
		SourcePath:   path,
		TallyID:      uint32(id),
		PowerFactors: []float64{DefaultPower},
		ErrorLimits:  []float64{DefaultError},
		TotalsOnly:   s.Total,
		Scale:        DefaultScale,
	}
	if s.Power != nil {
		if cfg.PowerFactors, err = parseFloats(FlagPower, s.Power); err != nil {
			return TallyConfig{}, err
		}
	}
	if s.Error != nil {
		if cfg.ErrorLimits, err = parseFloats(FlagError, s.Error); err != nil {
			return TallyConfig{}, err
		}
	}
	if s.Scale != nil {
		if cfg.Scale, err = strconv.ParseFloat(strings.TrimSpace(*s.Scale), 64); err != nil {
			return TallyConfig{}, invalid(FlagScale, *s.Scale)
		}
	}

	if stat == nil {
		stat = os.Stat
	}
	if _, err := stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return TallyConfig{}, notFound(path)
		}
		return TallyConfig{}, &Error{Kind: KindFileNotFound, Value: path + ": " + err.Error()}
	}
	return cfg, nil
}

// ParseTally parses and validates a single argument set.
func ParseTally(ctx context.Context, set argset.ArgumentSet, stat StatFunc) (TallyConfig, error) {
	return ParseSegment(ctx, 0, set).Tally(stat)
}

// Segments runs the syntactic pass over every argument set.
func Segments(ctx context.Context, sets []argset.ArgumentSet) []Segment {
	segs := make([]Segment, len(sets))
	for i, set := range sets {
		segs[i] = ParseSegment(ctx, i, set)
	}
	return segs
}

// Tallies runs the semantic pass over every segment. Segments that fail
// validation are logged and dropped; the survivors keep their input order.
func Tallies(ctx context.Context, segs []Segment, stat StatFunc) []TallyConfig {
	log := logger.FromContext(ctx)
	tallies := make([]TallyConfig, 0, len(segs))
	for _, seg := range segs {
		cfg, err := seg.Tally(stat)
		if err != nil {
			log.Warn("skipping argument set", "set", seg.Index+1, "error", err)
			continue
		}
		log.Debug("parsed argument set", "set", seg.Index+1, "meshtal", cfg.SourcePath, "tally", cfg.TallyID)
		tallies = append(tallies, cfg)
	}
	return tallies
}

// ParseAll parses every argument set. All segments are returned for global
// resolution, including those whose tally fields were invalid.
func ParseAll(ctx context.Context, sets []argset.ArgumentSet, stat StatFunc) ([]TallyConfig, []Segment) {
	segs := Segments(ctx, sets)
	return Tallies(ctx, segs, stat), segs
}

// parseFloats splits each raw value on whitespace and commas.
func parseFloats(field string, raw []string) ([]float64, error) {
	var out []float64
	for _, r := range raw {
		fields := strings.FieldsFunc(r, func(c rune) bool {
			return unicode.IsSpace(c) || c == ','
		})
		if len(fields) == 0 {
			return nil, invalid(field, r)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, invalid(field, f)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func looksLikeFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-' && !isNumber(tok)
}

func isNumber(tok string) bool {
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}
