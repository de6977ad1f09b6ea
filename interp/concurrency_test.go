package interp

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestConcurrentInterpsAreIndependent runs many distinct Interp instances
// concurrently, each evaluating its own program against its own heap, symbol
// table and root environment. Nothing here is shared across goroutines
// except the *testing.T, so no synchronization should be required inside
// the interp package itself: a failure here would mean state had leaked
// across instances that should have none in common.
func TestConcurrentInterpsAreIndependent(t *testing.T) {
	const n = 32

	var g errgroup.Group
	results := make([]string, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			ip, err := New(Options{})
			if err != nil {
				return err
			}
			src := fmt.Sprintf(`(defun double (x) (add x x)) (double %d)`, i)
			var out bytes.Buffer
			if err := ip.REPL(&stringSource{s: src}, &out); err != nil {
				return err
			}
			lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
			results[i] = string(lines[len(lines)-1])
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("%d", 2*i), results[i])
	}
}

// TestConcurrentInterpsDoNotShareGensymCounters checks that each Interp's
// gensym counter starts fresh and advances independently, which would not
// hold if gensymCounter were ever promoted to package state.
func TestConcurrentInterpsDoNotShareGensymCounters(t *testing.T) {
	const n = 8
	ctx := context.Background()
	g, _ := errgroup.WithContext(ctx)
	firstGensyms := make([]string, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			ip, err := New(Options{})
			if err != nil {
				return err
			}
			v, err := ip.EvalString(`(gensym)`)
			if err != nil {
				return err
			}
			sym, ok := v.(*Symbol)
			if !ok {
				return fmt.Errorf("gensym did not return a symbol")
			}
			firstGensyms[i] = sym.Name
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, name := range firstGensyms {
		assert.Equal(t, "G__0", name)
	}
}
