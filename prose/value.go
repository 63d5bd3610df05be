// Copyright © 2024 The ELPS authors

package prose

import (
	"bytes"
	"fmt"
	"strconv"
)

// VType is the type of a Val
type VType uint

// Possible VType values
const (
	// VInvalid (0) is not a valid prose type.
	VInvalid VType = iota
	// VNumber values store a float64 in the Val.Num field.  Numbers read
	// from source keep their literal token text in Val.Str so that rendering
	// reproduces the source exactly.
	VNumber
	// VString values store their text in the Val.Str field.
	VString
	// VSymbol values store the symbol name in the Val.Str field.  A symbol
	// has no storage of its own, its value lives in the runtime Registry.
	VSymbol
	// VEmpty is the type of the EmptyList singleton.
	VEmpty
	// VTruth is the type of the Truth singleton.
	VTruth
	// VPair values store their head in Val.Car and their tail in Val.Cdr.
	VPair
	// VFun values store a *FunData in Val.Native.  The argument list of a
	// function is reduced before the native implementation is called.
	VFun
	// VMacro values store a *FunData in Val.Native.  Macros receive their
	// argument list unreduced.
	VMacro
	// VError values store the error condition name in Val.Str and the
	// underlying Go error in Val.Native.
	VError
	// VTypeMax is not a real type but represents a value numerically greater
	// than all valid VType values.
	VTypeMax
)

var vtypeStrings = []string{
	VInvalid: "INVALID",
	VNumber:  "number",
	VString:  "string",
	VSymbol:  "symbol",
	VEmpty:   "empty-list",
	VTruth:   "truth",
	VPair:    "pair",
	VFun:     "function",
	VMacro:   "macro",
	VError:   "error",
}

func (t VType) String() string {
	if t >= VType(len(vtypeStrings)) {
		return vtypeStrings[VInvalid]
	}
	return vtypeStrings[t]
}

// FunData is the implementation of a function or macro.
type FunData struct {
	// Name is the name the value was registered under.  Closures created by
	// lambda have an empty name.
	Name string
	// Doc is the documentation of builtins and of functions defined with a
	// docstring.
	Doc     string
	Builtin Builtin

	// Params and Body are the unreduced parameter list and body of closures.
	// Both are nil for native builtins.
	Params *Val
	Body   *Val
	// Captured holds the registry bindings snapshotted when the closure was
	// created.
	Captured []Binding
}

// IsClosure returns true if fd was created by lambda or macro.
func (fd *FunData) IsClosure() bool {
	return fd.Body != nil
}

// Val is a prose value
type Val struct {
	// Native holds data which cannot be represented as a Val: *FunData for
	// functions and macros, error for error values.
	Native interface{}

	// Car and Cdr are the head and tail of a VPair.
	Car *Val
	Cdr *Val

	// Str is used by VSymbol, VString and VError values.  VNumber values
	// use it to remember their literal text.
	Str string

	Num float64

	// Type is the variant of the value.
	Type VType

	// Quoted is the evaluability flag.  A quoted value is returned,
	// reactivated and unreduced, the next time it is applied.
	Quoted bool
}

// The EmptyList and Truth singletons are shared by every runtime and must
// never be modified.
var (
	singletonEmpty = &Val{Type: VEmpty}
	singletonTruth = &Val{Type: VTruth}
)

// Empty returns the EmptyList, which is also the false value.
func Empty() *Val {
	return singletonEmpty
}

// Truth returns the canonical true value.
func Truth() *Val {
	return singletonTruth
}

// Bool returns Truth when b is true and the EmptyList otherwise.
func Bool(b bool) *Val {
	if b {
		return singletonTruth
	}
	return singletonEmpty
}

// Number returns a Val representing x.
func Number(x float64) *Val {
	return &Val{
		Type: VNumber,
		Num:  x,
	}
}

// NumberLiteral returns a Val representing x which renders as text.
func NumberLiteral(text string, x float64) *Val {
	return &Val{
		Type: VNumber,
		Num:  x,
		Str:  text,
	}
}

// String returns a Val representing the string s.
func String(s string) *Val {
	return &Val{
		Type: VString,
		Str:  s,
	}
}

// Symbol returns a Val representing the symbol name.
func Symbol(name string) *Val {
	return &Val{
		Type: VSymbol,
		Str:  name,
	}
}

// Cons returns a new pair of head and tail.
func Cons(head, tail *Val) *Val {
	return &Val{
		Type: VPair,
		Car:  head,
		Cdr:  tail,
	}
}

// Fun returns a builtin function named name.
func Fun(name string, fn Builtin) *Val {
	return &Val{
		Type:   VFun,
		Native: &FunData{Name: name, Builtin: fn},
	}
}

// Macro returns a builtin macro named name.
func Macro(name string, fn Builtin) *Val {
	return &Val{
		Type:   VMacro,
		Native: &FunData{Name: name, Builtin: fn},
	}
}

// FunData returns the implementation of a function or macro.  FunData panics
// if v is neither.
func (v *Val) FunData() *FunData {
	if v.Type != VFun && v.Type != VMacro {
		panic("not a function: " + v.Type.String())
	}
	return v.Native.(*FunData)
}

// IsEmpty returns true if v is the EmptyList.
func (v *Val) IsEmpty() bool {
	return v.Type == VEmpty
}

// IsTruthy returns false for the EmptyList and true for every other value.
func (v *Val) IsTruthy() bool {
	return v.Type != VEmpty
}

// Quote returns a copy of v with the quoted flag set on v and, for pairs,
// on every value reachable through it.  Symbols, the EmptyList and Truth
// cannot be quoted and are returned as is.
func Quote(v *Val) *Val {
	return withFlag(v, true)
}

// Unquote returns a copy of v with the quoted flag cleared throughout.
func Unquote(v *Val) *Val {
	return withFlag(v, false)
}

// withFlag writes the evaluability flag the way a pair propagates it, to the
// head and the tail.  Values are copied rather than modified so structure
// shared between two expressions is never flipped behind the other's back.
func withFlag(v *Val, quoted bool) *Val {
	switch v.Type {
	case VSymbol, VEmpty, VTruth, VError:
		return v
	case VPair:
		cp := &Val{}
		*cp = *v
		cp.Car = withFlag(v.Car, quoted)
		cp.Cdr = withFlag(v.Cdr, quoted)
		cp.Quoted = quoted
		return cp
	default:
		if v.Quoted == quoted {
			return v
		}
		cp := &Val{}
		*cp = *v
		cp.Quoted = quoted
		return cp
	}
}

// Equal returns true if v and other are structurally equal.  The quoted flag
// is ignored.  Functions and macros are equal only to themselves.
func (v *Val) Equal(other *Val) bool {
	for {
		if v == other {
			return true
		}
		if v.Type != other.Type {
			return false
		}
		switch v.Type {
		case VNumber:
			return v.Num == other.Num
		case VString, VSymbol:
			return v.Str == other.Str
		case VEmpty, VTruth:
			return true
		case VFun, VMacro:
			return v.Native == other.Native
		case VError:
			return v.Str == other.Str && v.Native == other.Native
		case VPair:
			if !v.Car.Equal(other.Car) {
				return false
			}
			v, other = v.Cdr, other.Cdr
		default:
			return false
		}
	}
}

func (v *Val) String() string {
	const QUOTE = `'`
	switch v.Type {
	case VNumber:
		if v.Str != "" {
			return v.Str
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case VString:
		return "`" + v.Str + "'"
	case VSymbol:
		return v.Str
	case VEmpty:
		return "()"
	case VTruth:
		return "#t"
	case VPair:
		quote := ""
		if v.Quoted {
			quote = QUOTE
		}
		if !v.IsList() {
			return fmt.Sprintf("%s(pair %v . %v)", quote, v.Car, v.Cdr)
		}
		return listString(v, quote+"(", ")")
	case VFun, VMacro:
		fd := v.FunData()
		if fd.IsClosure() {
			kind := "lambda"
			if v.Type == VMacro {
				kind = "macro"
			}
			return fmt.Sprintf("(%s %v %v)", kind, fd.Params, fd.Body)
		}
		return fmt.Sprintf("#<%s %s>", v.Type, fd.Name)
	case VError:
		return GoError(v).Error()
	default:
		return fmt.Sprintf("#<%s>", v.Type)
	}
}

func listString(v *Val, left string, right string) string {
	var buf bytes.Buffer
	buf.WriteString(left)
	for i := 0; v.Type == VPair; i++ {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(v.Car.String())
		v = v.Cdr
	}
	buf.WriteString(right)
	return buf.String()
}
