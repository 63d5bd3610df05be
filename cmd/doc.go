// Copyright © 2024 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/luthersystems/prose/docs"
	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib/libhelp"
	"github.com/spf13/cobra"
)

type docOptions struct {
	sourceFile string
	list       bool
	guide      bool
}

// DocCommand returns the doc command.
func DocCommand() *cobra.Command {
	var opts docOptions
	cmd := &cobra.Command{
		Use:   "doc [flags] QUERY",
		Short: "Show documentation for functions and macros",
		Long: `Show built-in documentation for prose functions and macros.

By default, looks up a function or macro by name. Use -l to list every
documented name and --guide for an overview of the language. Use -f to
load a source file first (useful for documenting your own code, where a
string between the parameters and the body of defun is the
documentation).

Examples:
  prose doc map                      Show docs for the map macro
  prose doc -l                       List every function and macro
  prose doc --guide                  Show the language guide
  prose doc -f mylib.prose my-func   Load a file, then show docs for my-func`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.guide {
				_, err := fmt.Fprint(cmd.OutOrStdout(), docs.LangGuide)
				return err
			}
			if !opts.list && len(args) != 1 {
				_ = cmd.Help()
				return errors.New("expected exactly one name")
			}
			return docExec(cmd, args, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.sourceFile, "source-file", "f", "",
		"Evaluate a prose source file before querying documentation.")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false,
		"List every function and macro bound in the runtime.")
	cmd.Flags().BoolVar(&opts.guide, "guide", false,
		"Show the language guide.")
	return cmd
}

func docExec(cmd *cobra.Command, args []string, opts *docOptions) error {
	// runtime output is typically discarded but a buffer is maintained in
	// case of an error while loading a user source file.
	errbuf := &bytes.Buffer{}
	rt, cancel, err := newRuntime(&bytes.Buffer{}, errbuf)
	if err != nil {
		return err
	}
	defer cancel()
	if opts.sourceFile != "" {
		b, err := os.ReadFile(opts.sourceFile) //#nosec G304
		if err != nil {
			return err
		}
		res := rt.Load(opts.sourceFile, bytes.NewReader(b))
		if res.Type == prose.VError {
			_, _ = cmd.ErrOrStderr().Write(errbuf.Bytes())
			return fmt.Errorf("%s: %w", opts.sourceFile, prose.GoError(res))
		}
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush() //nolint:errcheck // best-effort flush on exit
	if opts.list {
		return libhelp.RenderList(out, rt)
	}
	return libhelp.RenderName(out, rt, args[0])
}
