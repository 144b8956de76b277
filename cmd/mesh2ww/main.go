package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mesh2ww/internal/argset"
	"github.com/samcharles93/mesh2ww/internal/config"
	"github.com/samcharles93/mesh2ww/internal/version"
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes mesh2ww for a raw argv. The command line is tokenised once
// here; urfave/cli only provides help and version output because tally sets
// are parsed separately.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	program, tokens := argset.Tokens(argv)

	app := &cli.Command{
		Name:            "mesh2ww",
		Usage:           "Conversion of meshtal file meshes to MCNP weight windows",
		UsageText:       "mesh2ww <meshtal> <number> [options] [+]",
		Description:     description,
		Flags:           config.Flags(),
		SkipFlagParsing: true,
		HideHelp:        true,
		HideVersion:     true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			switch {
			case argset.Has(tokens, "--help"):
				if err := cli.ShowAppHelp(cmd); err != nil {
					return err
				}
				_, err := fmt.Fprint(stdout, examples)
				return err
			case argset.Has(tokens, "-h"):
				if err := cli.ShowAppHelp(cmd); err != nil {
					return err
				}
				_, err := fmt.Fprintln(stdout, "See --help for detail and examples")
				return err
			case argset.Has(tokens, "--version"):
				_, err := fmt.Fprintf(stdout, "mesh2ww %s\n", version.String())
				return err
			}
			return convert(ctx, program, tokens, stderr)
		},
	}
	return app.Run(ctx, append([]string{program}, tokens...))
}
