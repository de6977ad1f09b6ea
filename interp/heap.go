package interp

import (
	"log/slog"
)

// DefaultHeapBytes is the compile-time-default byte budget for the heap, as
// specified: 8 KiB, configurable via Options.HeapBytes.
const DefaultHeapBytes = 8192

// approximate per-record costs, charged against the byte budget. These are
// not exact Go struct sizes; they exist so the budget behaves like a
// fixed-size-record heap, and so a small budget in tests reliably forces a
// collection after a known number of allocations.
const (
	sizeInt        = 16
	sizeCell       = 24
	sizeSymbol     = 24
	sizePrimitive  = 16
	sizeFunction   = 32
	sizeEnv        = 24
)

// heapObject is implemented by every heap-allocated Value. It lets the
// collector mark and sweep without knowing the concrete tag set.
type heapObject interface {
	Value
	marked() bool
	setMarked(bool)
	children() []Value
	byteSize() int
}

func (v *IntVal) marked() bool     { return v.gcMark }
func (v *IntVal) setMarked(m bool) { v.gcMark = m }
func (v *IntVal) children() []Value { return nil }
func (v *IntVal) byteSize() int    { return sizeInt }

func (v *Cell) marked() bool        { return v.gcMark }
func (v *Cell) setMarked(m bool)    { v.gcMark = m }
func (v *Cell) children() []Value   { return []Value{v.Head, v.Tail} }
func (v *Cell) byteSize() int       { return sizeCell }

func (v *Symbol) marked() bool        { return v.gcMark }
func (v *Symbol) setMarked(m bool)    { v.gcMark = m }
func (v *Symbol) children() []Value   { return nil }
func (v *Symbol) byteSize() int       { return sizeSymbol }

func (v *Primitive) marked() bool        { return v.gcMark }
func (v *Primitive) setMarked(m bool)    { v.gcMark = m }
func (v *Primitive) children() []Value   { return nil }
func (v *Primitive) byteSize() int       { return sizePrimitive }

func (v *Function) marked() bool     { return v.gcMark }
func (v *Function) setMarked(m bool) { v.gcMark = m }
func (v *Function) children() []Value {
	if v.Env == nil {
		return []Value{v.Params, v.Body}
	}
	return []Value{v.Params, v.Body, v.Env}
}
func (v *Function) byteSize() int { return sizeFunction }

func (v *Macro) marked() bool     { return v.gcMark }
func (v *Macro) setMarked(m bool) { v.gcMark = m }
func (v *Macro) children() []Value {
	if v.Env == nil {
		return []Value{v.Params, v.Body}
	}
	return []Value{v.Params, v.Body, v.Env}
}
func (v *Macro) byteSize() int { return sizeFunction }

func (v *EnvVal) marked() bool      { return v.gcMark }
func (v *EnvVal) setMarked(m bool)  { v.gcMark = m }
func (v *EnvVal) children() []Value { return []Value{v.Bindings, v.Parent} }
func (v *EnvVal) byteSize() int     { return sizeEnv }

// allocNode links one heap object into the intrusive allocation list the
// collector sweeps, mirroring the reference implementation's obj_list.
type allocNode struct {
	obj  heapObject
	size int
	next *allocNode
}

// Heap is a bump-style allocator over a fixed byte budget with a
// mark-and-sweep collector. Every live value is reachable from the root set
// supplied at collection time: the symbol table, the root environment
// chain, and the explicit root stack.
type Heap struct {
	budget int
	used   int
	head   *allocNode
	roots  *RootStack
	logger *slog.Logger

	// staticRoots is consulted at the start of every collection, in
	// addition to the root stack. It is set by Interp once the symbol
	// table and root environment exist, since the heap itself knows
	// nothing about either.
	staticRoots func() []Value

	collections int
	freed       int
}

// NewHeap constructs a heap with the given byte budget (DefaultHeapBytes if
// budget <= 0) and a fresh, empty root stack.
func NewHeap(budget int, logger *slog.Logger) *Heap {
	if budget <= 0 {
		budget = DefaultHeapBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Heap{
		budget: budget,
		roots:  &RootStack{},
		logger: logger,
	}
}

// Roots returns the heap's root stack, for routines to push/pop live
// references across allocating calls.
func (h *Heap) Roots() *RootStack { return h.roots }

// reserve ensures size bytes are available, collecting once if necessary.
// A request that still cannot be satisfied after collection is fatal, per
// spec: there is no partial-failure recovery.
func (h *Heap) reserve(size int) error {
	if h.used+size <= h.budget {
		return nil
	}
	h.collect()
	if h.used+size <= h.budget {
		return nil
	}
	return &InternalError{Msg: "memory exhausted"}
}

func (h *Heap) link(obj heapObject, size int) {
	h.head = &allocNode{obj: obj, size: size, next: h.head}
	h.used += size
}

// collect runs one full mark-and-sweep cycle.
func (h *Heap) collect() {
	for n := h.head; n != nil; n = n.next {
		n.obj.setMarked(false)
	}

	if h.staticRoots != nil {
		for _, v := range h.staticRoots() {
			markValue(v)
		}
	}
	for f := h.roots.top; f != nil; f = f.parent {
		for _, slot := range f.slots {
			if slot == nil {
				continue
			}
			markValue(*slot)
		}
	}

	var (
		survivors *allocNode
		freedThis int
		freedObjs int
	)
	for n := h.head; n != nil; {
		next := n.next
		if n.obj.marked() {
			n.obj.setMarked(false)
			n.next = survivors
			survivors = n
		} else {
			h.used -= n.size
			freedThis += n.size
			freedObjs++
		}
		n = next
	}
	h.head = survivors
	h.collections++
	h.freed += freedObjs
	h.logger.Debug("gc cycle",
		"objects_freed", freedObjs,
		"bytes_freed", freedThis,
		"bytes_in_use", h.used,
		"budget", h.budget,
	)
}

// markValue marks v and its structural children, if v is heap-allocated.
// Singletons (True, Nil, Dot, CloseParen) are not heapObjects and return
// immediately.
func markValue(v Value) {
	if v == nil {
		return
	}
	ho, ok := v.(heapObject)
	if !ok {
		return
	}
	if ho.marked() {
		return
	}
	ho.setMarked(true)
	for _, child := range ho.children() {
		markValue(child)
	}
}

// Stats reports heap usage, for diagnostics and tests.
type Stats struct {
	UsedBytes   int
	BudgetBytes int
	Collections int
	ObjectsFreed int
}

func (h *Heap) Stats() Stats {
	return Stats{UsedBytes: h.used, BudgetBytes: h.budget, Collections: h.collections, ObjectsFreed: h.freed}
}

// ---------------------------------------------------------------------
// Constructors. Each reserves its byte cost (triggering a collection if
// needed) before linking the new object into the allocation list.
// ---------------------------------------------------------------------

// NewInt allocates a new Int value.
func NewInt(h *Heap, n int32) (*IntVal, error) {
	if err := h.reserve(sizeInt); err != nil {
		return nil, err
	}
	v := &IntVal{n: n}
	h.link(v, sizeInt)
	return v, nil
}

// NewCell allocates a new Cell(head, tail).
func NewCell(h *Heap, head, tail Value) (*Cell, error) {
	if err := h.reserve(sizeCell); err != nil {
		return nil, err
	}
	v := &Cell{Head: head, Tail: tail}
	h.link(v, sizeCell)
	return v, nil
}

// NewSymbolObj allocates a new, unlinked-to-the-symbol-table Symbol record.
// Callers that want interning must go through SymbolTable.Intern; this is
// also used directly by gensym, which allocates symbols deliberately
// outside the interning table.
func NewSymbolObj(h *Heap, name string) (*Symbol, error) {
	if err := h.reserve(sizeSymbol); err != nil {
		return nil, err
	}
	v := &Symbol{Name: name}
	h.link(v, sizeSymbol)
	return v, nil
}

// NewPrimitiveObj allocates a new Primitive value.
func NewPrimitiveObj(h *Heap, name string, fn PrimitiveFunc) (*Primitive, error) {
	if err := h.reserve(sizePrimitive); err != nil {
		return nil, err
	}
	v := &Primitive{Name: name, Fn: fn}
	h.link(v, sizePrimitive)
	return v, nil
}

// NewFunctionObj allocates a new Function closure.
func NewFunctionObj(h *Heap, params, body Value, env *EnvVal) (*Function, error) {
	if err := h.reserve(sizeFunction); err != nil {
		return nil, err
	}
	v := &Function{Params: params, Body: body, Env: env}
	h.link(v, sizeFunction)
	return v, nil
}

// NewMacroObj allocates a new Macro.
func NewMacroObj(h *Heap, params, body Value, env *EnvVal) (*Macro, error) {
	if err := h.reserve(sizeFunction); err != nil {
		return nil, err
	}
	v := &Macro{Params: params, Body: body, Env: env}
	h.link(v, sizeFunction)
	return v, nil
}

// NewEnvObj allocates a new environment frame.
func NewEnvObj(h *Heap, bindings, parent Value) (*EnvVal, error) {
	if err := h.reserve(sizeEnv); err != nil {
		return nil, err
	}
	v := &EnvVal{Bindings: bindings, Parent: parent}
	h.link(v, sizeEnv)
	return v, nil
}
