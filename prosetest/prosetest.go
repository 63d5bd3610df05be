// Copyright © 2024 The ELPS authors

// Package prosetest runs prose expressions in tests and benchmarks.
package prosetest

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/luthersystems/prose/parser"
	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib"
	"github.com/sirupsen/logrus"
)

func BenchmarkParse(path string, r func() prose.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// NewRuntime returns a runtime with the standard library loaded which logs
// to the test log and writes printed output to stdout.
func NewRuntime(t testing.TB, stdout *bytes.Buffer, config ...prose.Config) *prose.Runtime {
	config = append([]prose.Config{
		prose.WithStdout(stdout),
		prose.WithStderr(NewLogger(t)),
		prose.WithLogger(NewTestLogger(t, logrus.InfoLevel)),
	}, config...)
	rt, err := proselib.NewRuntime(config...)
	if err != nil {
		t.Fatalf("failed to initialize runtime: %v", err)
	}
	return rt
}

// TestSequence is a sequence of prose expressions which are evaluated
// sequentially by a prose.Runtime.
type TestSequence []struct {
	Expr   string // a prose expression
	Result string // the rendered result
	Output string // output written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on an isolated runtime.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		var exprBuf bytes.Buffer
		rt := NewRuntime(t, &exprBuf)
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := rt.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			result := rt.Eval(v[0]).String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// RunFile evaluates every form in the file at path and returns what the
// program printed.  The test fails if a form evaluates to an error.
func RunFile(t *testing.T, path string) string {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Fatalf("Unable to read source file: %v", err)
	}
	var stdout bytes.Buffer
	rt := NewRuntime(t, &stdout)
	lerr := rt.Load(path, bytes.NewReader(source))
	if lerr.Type == prose.VError {
		t.Errorf("%s: %v", path, lerr)
	}
	return stdout.String()
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		rt, err := proselib.NewRuntime(
			prose.WithReader(p),
			prose.WithStdout(&bytes.Buffer{}),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for i, expr := range exprs {
			lerr := rt.Eval(expr)
			if lerr.Type == prose.VError {
				b.Fatalf("expr %d: %v", i, lerr)
			}
		}
		b.StopTimer()
	}
}
