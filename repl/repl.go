// Copyright © 2024 The ELPS authors

// Package repl implements an interactive read-eval-print loop for prose.
package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib"
)

type config struct {
	stdin   io.ReadCloser
	stderr  io.WriteCloser
	runtime []prose.Config
	history string
}

func newConfig(opts ...Option) *config {
	config := &config{history: historyPath()}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option configures a REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithRuntimeConfig adds configuration applied to the runtime RunRepl
// creates.
func WithRuntimeConfig(rc ...prose.Config) Option {
	return func(c *config) {
		c.runtime = append(c.runtime, rc...)
	}
}

// WithHistoryFile sets the file line history is kept in.  An empty path
// disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// RunRepl runs a simple repl in a runtime with the standard library loaded.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	var rtConfig []prose.Config
	if cfg.stderr != nil {
		rtConfig = append(rtConfig, prose.WithStdout(cfg.stderr), prose.WithStderr(cfg.stderr))
	}
	rtConfig = append(rtConfig, cfg.runtime...)
	rt, err := proselib.NewRuntime(rtConfig...)
	if err != nil {
		errlnf("Runtime initialization failure: %v", err)
		os.Exit(1)
	}
	RunRuntime(rt, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunRuntime runs a simple repl evaluating input in rt.  The cont prompt is
// shown while a form spans several lines.
func RunRuntime(rt *prose.Runtime, prompt, cont string, opts ...Option) {
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		rt.Stderr = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.history)

	rlCfg := &readline.Config{
		Stdout:            rt.Stderr,
		Stderr:            rt.Stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{registry: rt.Registry},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	var pending bytes.Buffer
	for {
		line, err := rl.ReadSlice()
		if errors.Is(err, readline.ErrInterrupt) {
			pending.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			break
		}
		if pending.Len() == 0 && len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		pending.Write(line)
		pending.WriteByte('\n')
		if depth(pending.String()) > 0 {
			rl.SetPrompt(cont)
			continue
		}
		rl.SetPrompt(prompt)
		evalSource(rt, pending.String())
		pending.Reset()
	}
}

// evalSource evaluates every form in source and writes each result, or the
// first error, to the runtime's stderr.
func evalSource(rt *prose.Runtime, source string) {
	forms, err := rt.Reader.Read("stdin", strings.NewReader(source))
	if err != nil {
		fmt.Fprintln(rt.Stderr, err) //nolint:errcheck // best-effort error display
		return
	}
	for _, form := range forms {
		val := rt.Eval(form)
		if val.Type == prose.VError {
			fmt.Fprintf(rt.Stderr, "error: %v\n", val) //nolint:errcheck // best-effort error display
			return
		}
		fmt.Fprintln(rt.Stderr, val) //nolint:errcheck // best-effort REPL output
	}
}

// depth returns the number of lists opened in source and not yet closed.
// Delimiters inside strings and comments are not counted.
func depth(source string) int {
	n := 0
	inString, inComment := false, false
	for _, c := range source {
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case inString:
			if c == '\'' {
				inString = false
			}
		case c == '`':
			inString = true
		case c == ';':
			inComment = true
		case c == '(' || c == '[':
			n++
		case c == ')' || c == ']':
			n--
		}
	}
	if inString && n == 0 {
		return 1
	}
	return n
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".prose_history")
}

// ensureHistoryFilePermissions creates the history file readable only by its
// owner, or restricts an existing one.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
