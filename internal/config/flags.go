package config

import (
	"strings"

	"github.com/urfave/cli/v3"
)

// Flag names. Short aliases are declared in Flags.
const (
	FlagPower      = "power"
	FlagError      = "error"
	FlagTotal      = "total"
	FlagScale      = "scale"
	FlagOutput     = "output"
	FlagTrim       = "trim"
	FlagReport     = "report"
	FlagVTK        = "vtk"
	FlagFormat     = "format"
	FlagResolution = "resolution"
	FlagEndian     = "endian"
	FlagCompressor = "compressor"
	FlagLogFormat  = "log-format"
	FlagWorkers    = "workers"
	FlagVerbose    = "verbose"
	FlagQuiet      = "quiet"
)

const (
	categoryWeights = "Weight options"
	categoryFile    = "Global file options"
	categoryVTK     = "Global VTK options"
	categoryDebug   = "Flags"
)

// Flags returns fresh declarations of every mesh2ww option. urfave flags carry
// parse state, so each command must get its own slice.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     FlagPower,
			Aliases:  []string{"p"},
			Category: categoryWeights,
			Usage:    "softening/de-tuning factor, one value or one per energy/time group (default 0.7)",
		},
		&cli.StringSliceFlag{
			Name:     FlagError,
			Aliases:  []string{"e"},
			Category: categoryWeights,
			Usage:    "maximum rel. error, analogue above; one value or one per group (default 1.0)",
		},
		&cli.BoolFlag{
			Name:     FlagTotal,
			Aliases:  []string{"t"},
			Category: categoryWeights,
			Usage:    "weights from 'Total' groups only",
		},
		&cli.StringFlag{
			Name:     FlagScale,
			Aliases:  []string{"s"},
			Category: categoryWeights,
			Usage:    "multiply all weights by a constant (default 1.0)",
		},
		&cli.StringFlag{
			Name:     FlagOutput,
			Aliases:  []string{"o"},
			Category: categoryFile,
			Usage:    "name of output file (default wwinp)",
		},
		&cli.BoolFlag{
			Name:     FlagTrim,
			Category: categoryFile,
			Usage:    "exclude unused particles from wwinp header",
		},
		&cli.StringFlag{
			Name:     FlagReport,
			Category: categoryFile,
			Usage:    "write a JSON run report to `path`",
		},
		&cli.BoolFlag{
			Name:     FlagVTK,
			Category: categoryVTK,
			Usage:    "write VTK files for plotting",
		},
		&cli.StringFlag{
			Name:     FlagFormat,
			Aliases:  []string{"f"},
			Category: categoryVTK,
			Usage:    "VTK file format (xml, legacy-ascii, legacy-binary)",
		},
		&cli.StringFlag{
			Name:     FlagResolution,
			Aliases:  []string{"r"},
			Category: categoryVTK,
			Usage:    "cylindrical mesh resolution, theta subdivisions (default 1)",
		},
		&cli.StringFlag{
			Name:     FlagEndian,
			Category: categoryVTK,
			Usage:    "byte ordering (big-endian, little-endian)",
		},
		&cli.StringFlag{
			Name:     FlagCompressor,
			Category: categoryVTK,
			Usage:    "compression method for XML (lzma, lz4, zlib, none)",
		},
		&cli.StringFlag{
			Name:     FlagLogFormat,
			Category: categoryDebug,
			Usage:    "log format (pretty, text, json)",
		},
		&cli.StringFlag{
			Name:     FlagWorkers,
			Category: categoryDebug,
			Usage:    "concurrent meshtal reads (default 1)",
		},
		&cli.BoolFlag{
			Name:     FlagVerbose,
			Aliases:  []string{"v"},
			Category: categoryDebug,
			Usage:    "verbose logging (-v, -vv)",
		},
		&cli.BoolFlag{
			Name:     FlagQuiet,
			Aliases:  []string{"q"},
			Category: categoryDebug,
			Usage:    "suppress all log output (overrules --verbose)",
		},
	}
}

type flagKind int

const (
	kindValue flagKind = iota
	kindBool
	kindGreedy
)

type flagSpec struct {
	name string
	kind flagKind
}

// flagTable maps every spelling ("--power", "-p") to its canonical flag.
func flagTable(flags []cli.Flag) map[string]flagSpec {
	table := make(map[string]flagSpec)
	for _, f := range flags {
		names := f.Names()
		if len(names) == 0 {
			continue
		}
		spec := flagSpec{name: names[0]}
		switch f.(type) {
		case *cli.BoolFlag:
			spec.kind = kindBool
		case *cli.StringSliceFlag:
			spec.kind = kindGreedy
		}
		for _, n := range names {
			table[dashed(n)] = spec
		}
	}
	return table
}

func dashed(name string) string {
	if len(name) == 1 {
		return "-" + name
	}
	return "--" + name
}

// isDebugToken reports tokens that act on the whole process rather than a
// tally set: verbosity, quiet, help and version.
func isDebugToken(tok string) bool {
	switch tok {
	case "--verbose", "-q", "--quiet", "-h", "--help", "--version":
		return true
	}
	return isVerbosityCluster(tok)
}

func isVerbosityCluster(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' || tok[1] == '-' {
		return false
	}
	return strings.Trim(tok[1:], "v") == ""
}

// Verbosity counts the requested verbosity over all tokens: each "v" in a
// short cluster (-v, -vv) and each --verbose adds one.
func Verbosity(tokens []string) int {
	n := 0
	for _, tok := range tokens {
		switch {
		case tok == "--verbose":
			n++
		case isVerbosityCluster(tok):
			n += len(tok) - 1
		}
	}
	return n
}

// Quiet reports whether -q/--quiet appears anywhere.
func Quiet(tokens []string) bool {
	for _, tok := range tokens {
		if tok == "-q" || tok == "--quiet" {
			return true
		}
	}
	return false
}
