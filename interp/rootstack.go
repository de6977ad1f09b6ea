package interp

// RootStack is the explicit root set the collector walks in addition to
// the symbol table and root environment: a logical singly-linked chain of
// frames, each holding a fixed number of value-reference slots. Every
// routine that allocates and holds live references across that allocation
// must push a frame for the duration of the call.
//
// This is the Go expression of the reference implementation's
// DEFINE1/DEFINE2/DEFINE3 macros and ADD_ROOT: instead of a stack-allocated
// array patched into a global root pointer, routines defer a Pop closure
// returned by Push, which is the idiomatic equivalent of a scope guard.
type RootStack struct {
	top *rootFrame
}

type rootFrame struct {
	parent *rootFrame
	slots  []*Value
}

// Push registers the given slots as live roots and returns a function that
// pops the frame again. Callers should immediately defer the returned
// function:
//
//	pop := heap.Roots().Push(&a, &b)
//	defer pop()
//
// The slots are pointers to the local Value variables, not their values at
// push time, because those variables may be reassigned (e.g. as an
// accumulator grows) while still needing to stay rooted.
func (rs *RootStack) Push(slots ...*Value) func() {
	frame := &rootFrame{parent: rs.top, slots: slots}
	rs.top = frame
	return func() {
		rs.top = frame.parent
	}
}

// Depth returns the number of frames currently on the stack, for tests.
func (rs *RootStack) Depth() int {
	n := 0
	for f := rs.top; f != nil; f = f.parent {
		n++
	}
	return n
}
