// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/x/profiler"
	"github.com/spf13/cobra"
)

type runOptions struct {
	expression bool
	quiet      bool
	excludes   []string
	cpuProfile string
}

// RunCommand returns the run command.
func RunCommand() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [flags] [FILE...]",
		Short: "Run prose code",
		Long: `Run prose code supplied via the command line, files or stdin.

Each argument is a source file.  An argument ending in /... runs every
.prose file below that directory.  With -e the arguments are expressions
instead.  With no arguments the program is read from stdin.

The forms are evaluated in order and the value of each is printed to
stdout, unless -q is given.  Evaluation stops at the first error, which is
written to stderr and makes the command exit with status 1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, &opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.expression, "expression", "e", false,
		"Interpret arguments as prose expressions")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false,
		"Do not print the value of each top-level form")
	cmd.Flags().StringSliceVar(&opts.excludes, "exclude", nil,
		"Skip files matching these patterns when expanding directories")
	cmd.Flags().StringVar(&opts.cpuProfile, "cpuprofile", "",
		"Write a CPU profile labeled by prose function to this file")
	return cmd
}

// source is a named program text.
type source struct {
	name string
	text []byte
}

func runExec(cmd *cobra.Command, args []string, opts *runOptions) error {
	sources, err := runReadSources(cmd.InOrStdin(), args, opts)
	if err != nil {
		return err
	}
	rt, cancel, err := newRuntime(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cancel()

	if opts.cpuProfile != "" {
		stop, err := startCPUProfile(rt, opts.cpuProfile)
		if err != nil {
			return err
		}
		defer stop()
	}

	for _, src := range sources {
		forms, err := rt.Reader.Read(src.name, bytes.NewReader(src.text))
		if err != nil {
			return err
		}
		for _, form := range forms {
			v := rt.Eval(form)
			if v.Type == prose.VError {
				return fmt.Errorf("%s: %w", src.name, prose.GoError(v))
			}
			if !opts.quiet {
				fmt.Fprintln(cmd.OutOrStdout(), v) //nolint:errcheck // best-effort output
			}
		}
	}
	return nil
}

func runReadSources(stdin io.Reader, args []string, opts *runOptions) ([]source, error) {
	if opts.expression {
		if len(args) == 0 {
			return nil, errors.New("no expressions given")
		}
		sources := make([]source, len(args))
		for i := range args {
			sources[i] = source{name: fmt.Sprintf("expression-%d", i+1), text: []byte(args[i])}
		}
		return sources, nil
	}
	if len(args) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []source{{name: "stdin", text: b}}, nil
	}
	paths, err := expandArgs(args)
	if err != nil {
		return nil, err
	}
	paths = filterExcludes(paths, opts.excludes)
	sources := make([]source, len(paths))
	for i, path := range paths {
		b, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, err
		}
		sources[i] = source{name: path, text: b}
	}
	return sources, nil
}

// startCPUProfile starts writing a CPU profile to path with samples labeled
// by the prose function being evaluated.
func startCPUProfile(rt *prose.Runtime, path string) (stop func(), err error) {
	f, err := os.Create(path) //#nosec G304
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	p := profiler.NewPprofAnnotator(rt, context.Background())
	if err := p.Enable(); err != nil {
		pprof.StopCPUProfile()
		_ = f.Close()
		return nil, err
	}
	return func() {
		_ = p.Complete()
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}
