package interp

// Tag identifies the dynamic kind of a Value. It mirrors the tagged union
// of the reference implementation: every heap-allocated record carries one
// of these, and the four singletons carry the rest.
type Tag uint8

const (
	TagInt Tag = iota
	TagCell
	TagSymbol
	TagPrimitive
	TagFunction
	TagMacro
	TagEnv
	TagTrue
	TagNil
	TagDot
	TagCloseParen
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagCell:
		return "cell"
	case TagSymbol:
		return "symbol"
	case TagPrimitive:
		return "primitive"
	case TagFunction:
		return "function"
	case TagMacro:
		return "macro"
	case TagEnv:
		return "env"
	case TagTrue:
		return "true"
	case TagNil:
		return "nil"
	case TagDot:
		return "dot"
	case TagCloseParen:
		return "close-paren"
	default:
		return "unknown"
	}
}

// Value is any S-expression datum. Int, Cell, Symbol, Primitive, Function,
// Macro and Env are heap-allocated (see heap.go); True, Nil, Dot and
// CloseParen are package-level singletons and are never allocated.
type Value interface {
	Tag() Tag
}

// IntVal is a self-evaluating 32-bit signed integer.
type IntVal struct {
	n      int32
	gcMark bool
}

func (v *IntVal) Tag() Tag   { return TagInt }
func (v *IntVal) Int() int32 { return v.n }

// Cell is the only compound constructor: a pair (head, tail). Proper lists
// are right-nested chains of cells terminated by Nil; dotted pairs
// terminate at any non-Cell, non-Nil value.
type Cell struct {
	Head   Value
	Tail   Value
	gcMark bool
}

func (v *Cell) Tag() Tag { return TagCell }

// Symbol is an interned, immutable name of at most symbolMaxLen bytes.
// Equal names are reference-identical: the symbol table is the sole
// construction path for user-visible symbols (gensym is the one exception,
// and it is explicitly never interned).
type Symbol struct {
	Name   string
	gcMark bool
}

func (v *Symbol) Tag() Tag { return TagSymbol }

// PrimitiveFunc implements a built-in operation or special form. It
// receives the calling environment and the *unevaluated* argument list;
// primitives that are not special forms evaluate their own arguments.
type PrimitiveFunc func(ip *Interp, env *EnvVal, args Value) (Value, error)

// Primitive is an opaque, callable built-in.
type Primitive struct {
	Name   string
	Fn     PrimitiveFunc
	gcMark bool
}

func (v *Primitive) Tag() Tag { return TagPrimitive }

// Function is a lexical closure: parameter list, body sequence and the
// environment captured at the point of its lambda/defun.
type Function struct {
	Params Value
	Body   Value
	Env    *EnvVal
	gcMark bool
}

func (v *Function) Tag() Tag { return TagFunction }

// Macro has the same shape as Function but is applied to unevaluated
// arguments, and its result is evaluated again in the caller's scope.
type Macro struct {
	Params Value
	Body   Value
	Env    *EnvVal
	gcMark bool
}

func (v *Macro) Tag() Tag { return TagMacro }

// EnvVal is one frame of the lexical scope chain: an association list of
// (symbol . value) bindings plus a reference to the enclosing frame. The
// root frame's Parent is Nil.
type EnvVal struct {
	Bindings Value
	Parent   Value
	gcMark   bool
}

func (v *EnvVal) Tag() Tag { return TagEnv }

// Singleton sentinel types. A single package-level instance of each exists
// for the life of the process, so identity comparison via == is valid and
// is how the evaluator and reader recognise them.
type trueSingleton struct{}
type nilSingleton struct{}
type dotSingleton struct{}
type closeParenSingleton struct{}

func (*trueSingleton) Tag() Tag       { return TagTrue }
func (*nilSingleton) Tag() Tag        { return TagNil }
func (*dotSingleton) Tag() Tag        { return TagDot }
func (*closeParenSingleton) Tag() Tag { return TagCloseParen }

var (
	// True is the canonical truth value, bound to the symbol "t".
	True Value = &trueSingleton{}
	// Nil is both the empty list and the canonical false value.
	Nil Value = &nilSingleton{}
	// Dot and CloseParen are returned only by the reader and consumed by
	// readList; they must never reach the evaluator.
	Dot        Value = &dotSingleton{}
	CloseParen Value = &closeParenSingleton{}
)

// IsNil reports whether v is the Nil singleton.
func IsNil(v Value) bool { return v == Nil }

// IsList reports whether v is either Nil or a Cell, i.e. could be the head
// of a (possibly improper) list.
func IsList(v Value) bool {
	if v == Nil {
		return true
	}
	_, ok := v.(*Cell)
	return ok
}

// Length returns the number of cells in a proper list, or -1 if list is
// improper (does not terminate at Nil).
func Length(list Value) int {
	n := 0
	for {
		cell, ok := list.(*Cell)
		if !ok {
			break
		}
		n++
		list = cell.Tail
	}
	if list == Nil {
		return n
	}
	return -1
}

// reverse destructively reverses a proper list in place, the same
// pointer-flipping technique the reference reader uses to build
// accumulators without extra allocation.
func reverse(list Value) Value {
	var result Value = Nil
	for list != Nil {
		cell := list.(*Cell)
		list = cell.Tail
		cell.Tail = result
		result = cell
	}
	return result
}
