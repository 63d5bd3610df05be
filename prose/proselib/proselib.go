// Copyright © 2024 The ELPS authors

// Package proselib is used to conveniently load the standard library for a
// prose runtime
package proselib

import (
	"bytes"
	"fmt"

	"github.com/luthersystems/prose/parser"
	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib/libhelp"
	"github.com/luthersystems/prose/prose/proselib/libmath"
	"github.com/luthersystems/prose/prose/proselib/libseq"
)

// LoadLibrary loads the standard library into rt.
func LoadLibrary(rt *prose.Runtime) *prose.Val {
	e := libmath.LoadPackage(rt)
	if e.Type == prose.VError {
		return e
	}
	e = libseq.LoadPackage(rt)
	if e.Type == prose.VError {
		return e
	}
	e = libhelp.LoadPackage(rt)
	if e.Type == prose.VError {
		return e
	}
	return prose.Empty()
}

// NewRuntime returns a runtime with the standard library loaded and a source
// reader installed.  The config is applied after the library is loaded.
func NewRuntime(config ...prose.Config) (*prose.Runtime, error) {
	rt := prose.StandardRuntime()
	rt.Reader = parser.NewReader()
	rc := prose.InitializeRuntime(rt)
	if rc.Type == prose.VError {
		return nil, fmt.Errorf("initialize-runtime: %w", prose.GoError(rc))
	}
	rc = LoadLibrary(rt)
	if rc.Type == prose.VError {
		return nil, fmt.Errorf("load-library: %w", prose.GoError(rc))
	}
	for _, fn := range config {
		rc = fn(rt)
		if rc.Type == prose.VError {
			return nil, prose.GoError(rc)
		}
	}
	return rt, nil
}

// NewDocRuntime creates a standard runtime suitable for documentation
// queries.
func NewDocRuntime() (*prose.Runtime, error) {
	return NewRuntime(prose.WithStdout(&bytes.Buffer{}), prose.WithStderr(&bytes.Buffer{}))
}
