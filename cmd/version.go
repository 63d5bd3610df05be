// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release of the prose command.  It is set at build time
// with -ldflags "-X github.com/luthersystems/prose/cmd.Version=...".
var Version = "dev"

// VersionCommand returns the version command.
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of prose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "prose %s\n", Version)
			return err
		},
	}
}
