// Copyright © 2024 The ELPS authors

package profiler_test

import (
	"bytes"
	"testing"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prosetest"
	"github.com/stretchr/testify/require"
)

const testProse = `
(defun add-it [x y] ` + "`@trace{ Add It }'" + ` (+ x y))
(defun twice [x] ` + "`@trace'" + ` (add-it x x))
(defun quiet [x] (add-it x 1))
(twice 2)
(quiet 3)
`

func newRuntime(t *testing.T) *prose.Runtime {
	var stdout bytes.Buffer
	return prosetest.NewRuntime(t, &stdout)
}

func load(t *testing.T, rt *prose.Runtime) {
	lerr := rt.LoadString("test.prose", testProse)
	require.NotEqual(t, prose.VError, lerr.Type, lerr.String())
	require.Equal(t, "4", lerr.String())
}
