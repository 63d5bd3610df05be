// Copyright © 2024 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/prose/prose"
)

// SkipFilter returns true for functions which should not be traced.
type SkipFilter func(fun *prose.Val) bool

func defaultSkipFilter(fun *prose.Val) bool {
	switch fun.Type {
	case prose.VFun, prose.VMacro:
		return fun.FunData() == nil
	default:
		return true
	}
}

// WithDocFilter filters to only include spans for functions with docs that
// denote tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// DocTrace is a magic string used to enable tracing in a profiler configured
// WithDocFilter. All functions with a docstring that contains this string
// will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(fun *prose.Val) bool {
	docStr := fun.FunData().Doc
	if docStr == "" {
		return true
	}
	return !docTraceRegExp.MatchString(docStr)
}
