// Copyright © 2024 The ELPS authors

// Package profiler provides prose.Profiler implementations which annotate
// function calls with tracing spans or pprof labels.
package profiler

import (
	"fmt"

	"github.com/luthersystems/prose/prose"
)

// profiler is a minimal prose.Profiler
type profiler struct {
	runtime    *prose.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ prose.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(fun *prose.Val) func() {
	return func() {}
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *prose.Val) (string, string) {
	origLabel := prose.FunName(fun)
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(p.runtime, fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *prose.Val) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}
