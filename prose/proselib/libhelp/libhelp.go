// Copyright © 2024 The ELPS authors

// Package libhelp renders the documentation of functions and macros.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib/internal/libutil"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// LoadPackage adds the help builtins to rt
func LoadPackage(rt *prose.Runtime) *prose.Val {
	rt.AddBuiltins(libutil.Defs(builtins)...)
	return prose.Empty()
}

var builtins = []*libutil.Builtin{
	libutil.FunctionDoc("help", builtinHelp,
		`Writes the documentation of a function or macro to the standard
		output of the runtime.  With no argument every documented name is
		listed.  Returns the empty list.`),
}

func builtinHelp(rt *prose.Runtime, args *prose.Val) *prose.Val {
	var err error
	if args.Type == prose.VEmpty {
		err = RenderList(rt.Stdout, rt)
	} else {
		v, gerr := prose.GoValue(args.Car)
		if gerr != nil {
			return prose.Error(gerr)
		}
		name := v.String()
		if v.Type == prose.VFun || v.Type == prose.VMacro {
			name = prose.FunName(v)
		}
		err = RenderVal(rt.Stdout, name, v)
	}
	if err != nil {
		return prose.Error(err)
	}
	return prose.Empty()
}

// RenderName writes the documentation for the value bound to name.
func RenderName(w io.Writer, rt *prose.Runtime, name string) error {
	v, ok := rt.Registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", prose.ErrUnboundSymbol, name)
	}
	return RenderVal(w, name, v)
}

// RenderVal writes the signature of the function or macro v, called name,
// followed by its documentation.
func RenderVal(w io.Writer, name string, v *prose.Val) error {
	if v.Type != prose.VFun && v.Type != prose.VMacro {
		return fmt.Errorf("%w: %s is a %v, not a function", prose.ErrTypeMismatch, name, v.Type)
	}
	_, err := fmt.Fprintln(w, signature(name, v))
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc := cleanDocstring(v.FunData().Doc)
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
		return err
	}
	return nil
}

// RenderList writes one line for each function and macro bound in rt giving
// its name and the first sentence of its documentation.
func RenderList(w io.Writer, rt *prose.Runtime) error {
	for _, name := range rt.Registry.Names() {
		v, _ := rt.Registry.Get(name)
		if v.Type != prose.VFun && v.Type != prose.VMacro {
			continue
		}
		_, err := fmt.Fprintf(w, "%-12s %s\n", name, summary(v.FunData().Doc))
		if err != nil {
			return err
		}
	}
	return nil
}

func signature(name string, v *prose.Val) string {
	kind := "function"
	if v.Type == prose.VMacro {
		kind = "macro"
	}
	fd := v.FunData()
	if !fd.IsClosure() {
		return fmt.Sprintf("(%s ...)  [%s]", name, kind)
	}
	params, _ := prose.Elements(fd.Params)
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, name)
	for _, p := range params {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("(%s)  [%s]", strings.Join(parts, " "), kind)
}

func summary(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), 72), 2)
	doc = strings.TrimSuffix(doc, "\n")
	return doc
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// The first line is not considered because raw string docs usually start
// right after the opening quote.  Tabs are normalized to spaces first.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")
	minWS := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			lines[i] = ""
		case minWS > 0:
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
