package interp

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Options configures a new Interp. The zero value is valid: HeapBytes
// defaults to DefaultHeapBytes, Stdout/Stderr default to os.Stdout/Stderr,
// and Logger defaults to slog.Default().
type Options struct {
	// HeapBytes is the byte budget for the heap. Zero means
	// DefaultHeapBytes. Tests shrink this to force deterministic
	// collections.
	HeapBytes int

	Stdout io.Writer
	Stderr io.Writer

	// Logger receives structured diagnostics (one line per GC cycle).
	// Defaults to slog.Default() at Debug level for GC, matching the
	// level an embedding host would normally keep quiet in production.
	Logger *slog.Logger
}

// Interp is a self-contained interpreter instance: its heap, symbol table,
// root environment and gensym counter are all fields here rather than
// package globals, so multiple Interps may run concurrently in one
// process without sharing state.
type Interp struct {
	heap   *Heap
	symtab *SymbolTable
	root   *EnvVal

	Stdout io.Writer
	Stderr io.Writer
	logger *slog.Logger

	gensymCounter int
}

// New constructs an Interp with the root environment populated by the
// primitive table and constants (currently just "t").
func New(opts Options) (*Interp, error) {
	if err := checkVersion(); err != nil {
		return nil, err
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	heap := NewHeap(opts.HeapBytes, logger)
	ip := &Interp{
		heap:   heap,
		Stdout: stdout,
		Stderr: stderr,
		logger: logger,
	}
	ip.symtab = NewSymbolTable(heap)

	root, err := NewEnvObj(heap, Nil, Nil)
	if err != nil {
		return nil, err
	}
	ip.root = root

	heap.staticRoots = func() []Value {
		return []Value{ip.symtab.Root(), Value(ip.root)}
	}

	if err := installPrimitives(ip, root); err != nil {
		return nil, err
	}
	return ip, nil
}

// RootEnv returns the interpreter's root (global) environment frame.
func (ip *Interp) RootEnv() *EnvVal { return ip.root }

// Heap exposes the interpreter's heap, mainly so hosts and tests can read
// Stats().
func (ip *Interp) Heap() *Heap { return ip.heap }

// Symbols exposes the interpreter's symbol table, so hosts can intern
// symbols for host-level bindings.
func (ip *Interp) Symbols() *SymbolTable { return ip.symtab }

// Eval evaluates value in env (the root environment if env is nil).
func (ip *Interp) Eval(env *EnvVal, value Value) (Value, error) {
	if env == nil {
		env = ip.root
	}
	return Eval(ip, env, value)
}

// Read reads one expression from src. It returns (nil, io.EOF) at a clean
// end of stream.
func (ip *Interp) Read(src ByteSource) (Value, error) {
	return NewReader(ip, src).ReadExpression()
}

// EvalString reads and evaluates every top-level form in src in the root
// environment, returning the value of the last one (Nil if src is empty).
// A stray ')' or '.' at top level is a user error, per spec.
func (ip *Interp) EvalString(src string) (Value, error) {
	r := NewReader(ip, &stringSource{s: src})
	var result Value = Nil
	for {
		expr, err := r.ReadExpression()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		if expr == Dot || expr == CloseParen {
			return nil, userErrorf("stray %s at top level", describeSentinel(expr))
		}
		result, err = ip.Eval(ip.root, expr)
		if err != nil {
			return nil, err
		}
	}
}

func describeSentinel(v Value) string {
	if v == Dot {
		return "'.'"
	}
	return "')'"
}

// REPL reads, evaluates and prints every top-level expression from src to
// w, one per line, until src ends. It returns the first error encountered;
// per spec, the REPL does not survive a user error, so the host is
// expected to terminate on a non-nil return.
func (ip *Interp) REPL(src ByteSource, w io.Writer) error {
	r := NewReader(ip, src)
	for {
		expr, err := r.ReadExpression()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if expr == Dot {
			return userErrorf("stray dot")
		}
		if expr == CloseParen {
			return userErrorf("stray close parenthesis")
		}

		result, err := ip.Eval(ip.root, expr)
		if err != nil {
			return err
		}
		if err := Print(w, result); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
}

// stringSource is a trivial ByteSource over an in-memory string, used by
// EvalString and by tests.
type stringSource struct {
	s   string
	pos int
}

func (s *stringSource) ReadChar() (byte, error) {
	if s.pos >= len(s.s) {
		return 0, io.EOF
	}
	c := s.s[s.pos]
	s.pos++
	return c, nil
}

func (s *stringSource) PeekChar() (byte, error) {
	if s.pos >= len(s.s) {
		return 0, io.EOF
	}
	return s.s[s.pos], nil
}

func (s *stringSource) UnreadChar() error {
	if s.pos == 0 {
		return errors.New("cannot unread before start of stream")
	}
	s.pos--
	return nil
}
