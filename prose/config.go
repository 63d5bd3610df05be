// Copyright © 2024 The ELPS authors

package prose

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a runtime.
type Config func(rt *Runtime) *Val

// WithMaxDepth returns a Config that prevents evaluation from nesting Apply
// more than n levels deep.  A value of zero or less removes the limit.
func WithMaxDepth(n int) Config {
	return func(rt *Runtime) *Val {
		rt.MaxDepth = n
		return Empty()
	}
}

// WithContext returns a Config that makes evaluation stop with a
// context-cancelled error once ctx is done.
func WithContext(ctx context.Context) Config {
	return func(rt *Runtime) *Val {
		rt.ctx = ctx
		return Empty()
	}
}

// WithStdout returns a Config that makes print write to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(rt *Runtime) *Val {
		rt.Stdout = w
		return Empty()
	}
}

// WithStderr returns a Config that makes the runtime write diagnostic output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(rt *Runtime) *Val {
		rt.Stderr = w
		return Empty()
	}
}

// WithLogger returns a Config that makes the runtime log to logger.
func WithLogger(logger *logrus.Logger) Config {
	return func(rt *Runtime) *Val {
		rt.Logger = logger
		return Empty()
	}
}

// WithProfiler returns a Config that attaches p to the runtime and enables
// it.
func WithProfiler(p Profiler) Config {
	return func(rt *Runtime) *Val {
		rt.Profiler = p
		if p.IsEnabled() {
			return Empty()
		}
		if err := p.Enable(); err != nil {
			return Error(err)
		}
		return Empty()
	}
}

// WithReader returns a Config that makes the runtime use r to parse source
// streams.  There is no default Reader for a runtime.
func WithReader(r Reader) Config {
	return func(rt *Runtime) *Val {
		rt.Reader = r
		return Empty()
	}
}
