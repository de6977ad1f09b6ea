package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalAll evaluates every top-level form in src and returns the printed
// form of each one's result, in order — mirroring one REPL line per form.
func evalAll(t *testing.T, src string) []string {
	t.Helper()
	ip, err := New(Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	err = ip.REPL(&stringSource{s: src}, &out)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
	results := make([]string, len(lines))
	for i, l := range lines {
		results[i] = string(l)
	}
	return results
}

func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"add", `(add 1 2 3)`, []string{"6"}},
		{
			"define setq",
			`(define x 10) (setq x (add x 5)) x`,
			[]string{"10", "15", "15"},
		},
		{
			"defun",
			`(defun f (a b) (add a b)) (f 3 4)`,
			[]string{"<function>", "7"},
		},
		{
			"defmacro unless",
			`(defmacro unless (c . body) (cons 'if (cons c (cons () body)))) (unless () 1 2)`,
			[]string{"<macro>", "2"},
		},
		{
			"setcar",
			`(define c (cons 1 2)) (setcar c 9) c`,
			[]string{"(1 . 2)", "(9 . 2)", "(9 . 2)"},
		},
		{
			"while",
			`(define i 0) (while (lt i 3) (setq i (add i 1))) i`,
			[]string{"0", "()", "3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evalAll(t, tt.src))
		})
	}
}

func TestUndefinedSymbolIsUserError(t *testing.T) {
	ip, err := New(Options{})
	require.NoError(t, err)
	var out bytes.Buffer
	err = ip.REPL(&stringSource{s: "undefined-thing"}, &out)
	require.Error(t, err)
	var userErr *UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestArityAndTypeErrorsAreUserErrors(t *testing.T) {
	cases := []string{
		`(car 1)`,
		`(cons 1)`,
		`(setq undefined 1)`,
		`(lt 1 2 3)`,
	}
	for _, src := range cases {
		ip, err := New(Options{})
		require.NoError(t, err)
		var out bytes.Buffer
		evalErr := ip.REPL(&stringSource{s: src}, &out)
		require.Error(t, evalErr, src)
		var userErr *UserError
		assert.ErrorAs(t, evalErr, &userErr, src)
	}
}

func TestEvalIdempotentOnSelfEvaluatingTags(t *testing.T) {
	ip, err := New(Options{})
	require.NoError(t, err)

	n, err := NewInt(ip.heap, 42)
	require.NoError(t, err)
	v1, err := ip.Eval(nil, n)
	require.NoError(t, err)
	assert.Same(t, n, v1)

	assert.Same(t, True, mustEval(t, ip, True))
	assert.Same(t, Nil, mustEval(t, ip, Nil))

	fn, err := NewFunctionObj(ip.heap, Nil, Nil, ip.root)
	require.NoError(t, err)
	assert.Same(t, fn, mustEval(t, ip, fn))
}

func mustEval(t *testing.T, ip *Interp, v Value) Value {
	t.Helper()
	res, err := ip.Eval(nil, v)
	require.NoError(t, err)
	return res
}

func TestGensymProducesFreshUninternedSymbols(t *testing.T) {
	ip, err := New(Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, ip.REPL(&stringSource{s: "(gensym) (gensym)"}, &out))
	lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
	results := make([]string, len(lines))
	for i, l := range lines {
		results[i] = string(l)
	}
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0], results[1])

	// gensym'd symbols are deliberately never interned.
	_, found := ip.symtab.Lookup(results[0])
	assert.False(t, found)
}

func TestLengthOnImproperList(t *testing.T) {
	ip, err := New(Options{})
	require.NoError(t, err)

	a, err := NewInt(ip.heap, 1)
	require.NoError(t, err)
	b, err := NewInt(ip.heap, 2)
	require.NoError(t, err)
	proper, err := NewCell(ip.heap, a, Nil)
	require.NoError(t, err)
	proper, err = NewCell(ip.heap, b, proper)
	require.NoError(t, err)
	assert.Equal(t, 2, Length(proper))

	improper, err := NewCell(ip.heap, a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, Length(improper))
}
