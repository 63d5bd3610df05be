// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := VersionCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "prose "+Version+"\n", stdout.String())
}

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, name := range []string{"run", "repl", "doc", "version"} {
		assert.Contains(t, names, name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup(keyMaxDepth))
}
