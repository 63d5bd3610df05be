// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/prose/prose"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args []string, stdin string) (string, string, error) {
	t.Helper()
	cmd := RunCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	return path
}

func TestRunCommand_Expression(t *testing.T) {
	stdout, _, err := execute(t, []string{"-e", "(+ 1 2)", "[a b]"}, "")
	require.NoError(t, err)
	assert.Equal(t, "3\n(a b)\n", stdout)
}

func TestRunCommand_PrintsResults(t *testing.T) {
	stdout, _, err := execute(t, nil, "(+ 1 (* 2 3))\n(print `hi')\n")
	require.NoError(t, err)
	assert.Equal(t, "7\nhi\n()\n", stdout)
}

func TestRunCommand_Quiet(t *testing.T) {
	stdout, _, err := execute(t, []string{"-q", "-e", "(+ 1 2)"}, "")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRunCommand_Print(t *testing.T) {
	stdout, _, err := execute(t, []string{"-q", "-e", "(print `hi')"}, "")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", stdout)
}

func TestRunCommand_Stdin(t *testing.T) {
	stdout, _, err := execute(t, []string{"-q"}, "(def x 4)\n(print (* x x))\n")
	require.NoError(t, err)
	assert.Equal(t, "16\n", stdout)
}

func TestRunCommand_Files(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.prose", "(def greeting `hello')")
	b := writeSource(t, dir, "b.prose", "(print greeting)")
	stdout, _, err := execute(t, []string{"-q", a, b}, "")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout, "files share one runtime")
}

func TestRunCommand_Directory(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "one.prose", "(print 1)")
	writeSource(t, dir, "sub/two.prose", "(print 2)")
	writeSource(t, dir, "skip/three.prose", "(print 3)")
	writeSource(t, dir, "notes.txt", "(print 4)")
	stdout, _, err := execute(t, []string{"-q", "--exclude", "skip", dir + "/..."}, "")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", stdout)
}

func TestRunCommand_Error(t *testing.T) {
	stdout, stderr, err := execute(t, []string{"-q", "-e", "(print 1)", "(car 5)", "(print 2)"}, "")
	require.Error(t, err)
	assert.Empty(t, stderr)
	assert.True(t, errors.Is(err, prose.ErrTypeMismatch))
	assert.Equal(t, "expression-2: type-mismatch: expected a list, got number", err.Error())
	assert.Equal(t, "1\n", stdout, "evaluation stops at the first error")
}

func TestRunCommand_ParseError(t *testing.T) {
	_, _, err := execute(t, []string{"-e", "(unclosed"}, "")
	assert.Error(t, err)
}

func TestRunCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, []string{filepath.Join(t.TempDir(), "missing.prose")}, "")
	assert.Error(t, err)
}

func TestRunCommand_MaxDepth(t *testing.T) {
	viper.Set(keyMaxDepth, 100)
	t.Cleanup(func() { viper.Set(keyMaxDepth, prose.DefaultMaxDepth) })
	_, _, err := execute(t, []string{"-e", "(defun f [n] (f n))", "(f 1)"}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, prose.ErrStackOverflow))
}

func TestRunCommand_CPUProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.pprof")
	stdout, _, err := execute(t, []string{"-q", "--cpuprofile", path, "-e", "(print (+ 1 2))"}, "")
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
