package interp

// symbolMaxLen is the maximum byte length of a symbol name, per the reader
// grammar (symbol := ... {0..199}, plus the leading character).
const symbolMaxLen = 200

// SymbolTable is the process-wide (per-Interp) interned set of symbols. It
// is itself a heap-resident Cell list and a collector root: its head must
// be included in the heap's staticRoots so interned symbols survive
// collection even when nothing else references them.
type SymbolTable struct {
	heap *Heap
	head Value // Cell chain of *Symbol, terminated by Nil; insertions prepend.
}

// NewSymbolTable constructs an empty symbol table over h.
func NewSymbolTable(h *Heap) *SymbolTable {
	return &SymbolTable{heap: h, head: Nil}
}

// Root returns the table's head, for registration as a heap static root.
func (st *SymbolTable) Root() Value { return st.head }

// Lookup returns the existing Symbol for name without creating one.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	for cur := st.head; cur != Nil; {
		cell := cur.(*Cell)
		sym := cell.Head.(*Symbol)
		if sym.Name == name {
			return sym, true
		}
		cur = cell.Tail
	}
	return nil, false
}

// Intern returns the canonical Symbol for name, allocating and recording
// one if this is the first time name has been seen. Lookup is linear, as
// specified.
func (st *SymbolTable) Intern(name string) (*Symbol, error) {
	if len(name) > symbolMaxLen {
		return nil, userErrorf("symbol name too long: %q", name)
	}
	for cur := st.head; cur != Nil; {
		cell := cur.(*Cell)
		sym := cell.Head.(*Symbol)
		if sym.Name == name {
			return sym, nil
		}
		cur = cell.Tail
	}

	sym, err := NewSymbolObj(st.heap, name)
	if err != nil {
		return nil, err
	}

	// sym is not yet reachable from st.head, and the cons below may
	// itself trigger a collection: root both across the call.
	var symVal Value = sym
	pop := st.heap.Roots().Push(&symVal, &st.head)
	defer pop()

	cell, err := NewCell(st.heap, symVal, st.head)
	if err != nil {
		return nil, err
	}
	st.head = cell
	return sym, nil
}

// gensymCounter lives on Interp (it is per-process monotonic state, not
// part of the symbol table itself, since gensym'd symbols are deliberately
// never interned).
