// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ReplCommand returns the repl command.
func ReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive prose REPL",
		Long: `Start an interactive read-eval-print loop for prose.

The standard library is loaded automatically. Line editing, completion of
bound names and command history are supported via readline. A form may span
several lines. Use Ctrl-D to exit and Ctrl-C to abandon the current form.

Example REPL session:
  prose> (+ 1 2)
  3
  prose> (defun square [x] (* x x))
  square
  prose> (square 5)
  25
  prose> (help map)
  ...`,
		Run: func(cmd *cobra.Command, args []string) {
			config := []prose.Config{
				prose.WithLogger(newLogger(os.Stderr)),
				prose.WithMaxDepth(viper.GetInt(keyMaxDepth)),
			}
			if timeout := viper.GetDuration(keyTimeout); timeout > 0 {
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				config = append(config, prose.WithContext(ctx))
			}
			repl.RunRepl(filepath.Base(os.Args[0])+"> ", repl.WithRuntimeConfig(config...))
		},
	}
}
