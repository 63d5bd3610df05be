// Copyright © 2024 The ELPS authors

package libutil

import "github.com/luthersystems/prose/prose"

func Function(name string, fun prose.Builtin, aliases ...string) *Builtin {
	return &Builtin{name, aliases, fun, ""}
}

func FunctionDoc(name string, fun prose.Builtin, docs string, aliases ...string) *Builtin {
	return &Builtin{name, aliases, fun, docs}
}

type Builtin struct {
	name    string
	aliases []string
	fun     prose.Builtin
	docs    string
}

func (fun *Builtin) Name() string {
	return fun.name
}

func (fun *Builtin) Aliases() []string {
	return fun.aliases
}

func (fun *Builtin) Eval(rt *prose.Runtime, args *prose.Val) *prose.Val {
	return fun.fun(rt, args)
}

func (fun *Builtin) Docstring() string {
	return fun.docs
}

// Defs converts builtins for registration with a runtime.
func Defs(builtins []*Builtin) []prose.BuiltinDef {
	defs := make([]prose.BuiltinDef, len(builtins))
	for i := range builtins {
		defs[i] = builtins[i]
	}
	return defs
}
