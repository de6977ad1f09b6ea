package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCollectionPreservesRootedValues forces a collection with a small heap
// budget and checks that values still reachable from the root environment
// survive with their structural fields unchanged.
func TestCollectionPreservesRootedValues(t *testing.T) {
	ip, err := New(Options{HeapBytes: 4096})
	require.NoError(t, err)

	_, err = ip.EvalString(`(define kept (cons 1 2))`)
	require.NoError(t, err)

	// Allocate well past the tiny budget with throwaway garbage so at
	// least one collection runs, without ever rooting the garbage.
	for i := 0; i < 200; i++ {
		_, err := ip.EvalString(`(cons 1 2)`)
		require.NoError(t, err)
	}

	assert.Greater(t, ip.Heap().Stats().Collections, 0)

	result, err := ip.EvalString(`kept`)
	require.NoError(t, err)
	cell, ok := result.(*Cell)
	require.True(t, ok)
	assert.Equal(t, int32(1), cell.Head.(*IntVal).Int())
	assert.Equal(t, int32(2), cell.Tail.(*IntVal).Int())
}

// TestAllocationFailureAfterCollectionIsFatal checks that a request that
// still cannot be satisfied after a collection surfaces as an
// InternalError, never a panic.
func TestAllocationFailureAfterCollectionIsFatal(t *testing.T) {
	ip, err := New(Options{HeapBytes: 3072})
	require.NoError(t, err)

	// Keep consing onto a rooted accumulator so nothing is ever
	// collectible; eventually the budget cannot be satisfied even after a
	// full collection.
	_, err = ip.EvalString(`(define acc ())`)
	require.NoError(t, err)

	var lastErr error
	for i := 0; i < 4000; i++ {
		_, lastErr = ip.EvalString(`(setq acc (cons acc acc))`)
		if lastErr != nil {
			break
		}
	}
	require.Error(t, lastErr)
	var internalErr *InternalError
	assert.ErrorAs(t, lastErr, &internalErr)
}

func TestRootStackUnwindsAcrossCalls(t *testing.T) {
	ip, err := New(Options{})
	require.NoError(t, err)
	depthBefore := ip.heap.Roots().Depth()
	_, err = ip.EvalString(`(cons (cons 1 2) (cons 3 4))`)
	require.NoError(t, err)
	assert.Equal(t, depthBefore, ip.heap.Roots().Depth())
}
