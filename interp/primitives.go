package interp

import "fmt"

// installPrimitives binds every built-in name and special form into env,
// and binds the symbol "t" to the True singleton. Called once at Interp
// construction, into the root frame.
func installPrimitives(ip *Interp, env *EnvVal) error {
	tSym, err := ip.symtab.Intern("t")
	if err != nil {
		return err
	}
	if err := AddVariable(ip.heap, env, tSym, True); err != nil {
		return err
	}

	table := []struct {
		name string
		fn   PrimitiveFunc
	}{
		{"quote", primQuote},
		{"cons", primCons},
		{"car", primCar},
		{"cdr", primCdr},
		{"setq", primSetq},
		{"setcar", primSetcar},
		{"while", primWhile},
		{"gensym", primGensym},
		{"add", primAdd},
		{"sub", primSub},
		{"lt", primLt},
		{"eq", primEq},
		{"cmp", primCmp},
		{"if", primIf},
		{"lambda", primLambda},
		{"defun", primDefun},
		{"defmacro", primDefmacro},
		{"define", primDefine},
		{"macroexpand", primMacroexpand},
		{"print", primPrint},
	}
	for _, e := range table {
		sym, err := ip.symtab.Intern(e.name)
		if err != nil {
			return err
		}
		prim, err := NewPrimitiveObj(ip.heap, e.name, e.fn)
		if err != nil {
			return err
		}
		if err := AddVariable(ip.heap, env, sym, prim); err != nil {
			return err
		}
	}
	return nil
}

func listArgs(list Value) []Value {
	var out []Value
	for cur := list; cur != Nil; {
		cell, ok := cur.(*Cell)
		if !ok {
			break
		}
		out = append(out, cell.Head)
		cur = cell.Tail
	}
	return out
}

// (quote exp) — returns the argument verbatim, unevaluated.
func primQuote(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) != 1 {
		return nil, userErrorf("malformed quote")
	}
	return args.(*Cell).Head, nil
}

// (cons exp exp) — allocates a new Cell from the two evaluated arguments.
func primCons(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) != 2 {
		return nil, userErrorf("malformed cons")
	}
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return nil, err
	}
	l := evaled.(*Cell)
	return NewCell(ip.heap, l.Head, l.Tail.(*Cell).Head)
}

// (car <cell>)
func primCar(ip *Interp, env *EnvVal, args Value) (Value, error) {
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return nil, err
	}
	l, ok := evaled.(*Cell)
	if !ok || l.Tail != Nil {
		return nil, userErrorf("malformed car")
	}
	cell, ok := l.Head.(*Cell)
	if !ok {
		return nil, userErrorf("car: argument is not a cell")
	}
	return cell.Head, nil
}

// (cdr <cell>)
func primCdr(ip *Interp, env *EnvVal, args Value) (Value, error) {
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return nil, err
	}
	l, ok := evaled.(*Cell)
	if !ok || l.Tail != Nil {
		return nil, userErrorf("malformed cdr")
	}
	cell, ok := l.Head.(*Cell)
	if !ok {
		return nil, userErrorf("cdr: argument is not a cell")
	}
	return cell.Tail, nil
}

// (setq <symbol> exp) — mutates an existing binding; fails if unbound.
func primSetq(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) != 2 {
		return nil, userErrorf("malformed setq")
	}
	l := args.(*Cell)
	sym, ok := l.Head.(*Symbol)
	if !ok {
		return nil, userErrorf("malformed setq: first argument must be a symbol")
	}
	value, err := Eval(ip, env, l.Tail.(*Cell).Head)
	if err != nil {
		return nil, err
	}
	binding, ok := Find(env, sym)
	if !ok {
		return nil, userErrorf("unbound variable %s", sym.Name)
	}
	binding.Tail = value
	return value, nil
}

// (setcar <cell> exp) — replaces the head of a cell in place.
func primSetcar(ip *Interp, env *EnvVal, args Value) (Value, error) {
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return nil, err
	}
	if Length(evaled) != 2 {
		return nil, userErrorf("malformed setcar")
	}
	l := evaled.(*Cell)
	cell, ok := l.Head.(*Cell)
	if !ok {
		return nil, userErrorf("malformed setcar: first argument must be a cell")
	}
	cell.Head = l.Tail.(*Cell).Head
	return cell, nil
}

// (while cond exp ...) — evaluates body repeatedly while cond != Nil.
func primWhile(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) < 2 {
		return nil, userErrorf("malformed while")
	}
	l := args.(*Cell)
	cond := l.Head
	body := l.Tail
	for {
		cv, err := Eval(ip, env, cond)
		if err != nil {
			return nil, err
		}
		if cv == Nil {
			break
		}
		if _, err := progn(ip, env, body); err != nil {
			return nil, err
		}
	}
	return Nil, nil
}

// (gensym) — a fresh, uninterned symbol G__n with a monotonic counter.
func primGensym(ip *Interp, env *EnvVal, args Value) (Value, error) {
	name := fmt.Sprintf("G__%d", ip.gensymCounter)
	ip.gensymCounter++
	return NewSymbolObj(ip.heap, name)
}

// (add <integer> ...) — sum of all (evaluated) arguments.
func primAdd(ip *Interp, env *EnvVal, args Value) (Value, error) {
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return nil, err
	}
	var sum int32
	for _, v := range listArgs(evaled) {
		n, ok := v.(*IntVal)
		if !ok {
			return nil, userErrorf("add takes only numbers")
		}
		sum += n.n
	}
	return NewInt(ip.heap, sum)
}

// (sub <integer> ...) — unary negation with one argument, else first minus
// the rest.
func primSub(ip *Interp, env *EnvVal, args Value) (Value, error) {
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return nil, err
	}
	vals := listArgs(evaled)
	if len(vals) == 0 {
		return nil, userErrorf("malformed sub")
	}
	nums := make([]int32, len(vals))
	for i, v := range vals {
		n, ok := v.(*IntVal)
		if !ok {
			return nil, userErrorf("sub takes only numbers")
		}
		nums[i] = n.n
	}
	if len(nums) == 1 {
		return NewInt(ip.heap, -nums[0])
	}
	r := nums[0]
	for _, n := range nums[1:] {
		r -= n
	}
	return NewInt(ip.heap, r)
}

// (lt <integer> <integer>)
func primLt(ip *Interp, env *EnvVal, args Value) (Value, error) {
	x, y, err := evalIntPair(ip, env, args, "lt")
	if err != nil {
		return nil, err
	}
	if x < y {
		return True, nil
	}
	return Nil, nil
}

// (eq <integer> <integer>)
func primEq(ip *Interp, env *EnvVal, args Value) (Value, error) {
	x, y, err := evalIntPair(ip, env, args, "eq")
	if err != nil {
		return nil, err
	}
	if x == y {
		return True, nil
	}
	return Nil, nil
}

func evalIntPair(ip *Interp, env *EnvVal, args Value, name string) (int32, int32, error) {
	if Length(args) != 2 {
		return 0, 0, userErrorf("malformed %s", name)
	}
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return 0, 0, err
	}
	l := evaled.(*Cell)
	x, ok := l.Head.(*IntVal)
	if !ok {
		return 0, 0, userErrorf("%s takes only numbers", name)
	}
	y, ok := l.Tail.(*Cell).Head.(*IntVal)
	if !ok {
		return 0, 0, userErrorf("%s takes only numbers", name)
	}
	return x.n, y.n, nil
}

// (cmp exp exp) — True iff the two evaluated arguments are reference-equal.
func primCmp(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) != 2 {
		return nil, userErrorf("malformed cmp")
	}
	evaled, err := evalList(ip, env, args)
	if err != nil {
		return nil, err
	}
	l := evaled.(*Cell)
	if l.Head == l.Tail.(*Cell).Head {
		return True, nil
	}
	return Nil, nil
}

// (if cond then else...) — cond is always evaluated; exactly one branch is.
func primIf(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) < 2 {
		return nil, userErrorf("malformed if")
	}
	l := args.(*Cell)
	cond, err := Eval(ip, env, l.Head)
	if err != nil {
		return nil, err
	}
	rest := l.Tail.(*Cell)
	if cond != Nil {
		return Eval(ip, env, rest.Head)
	}
	return progn(ip, env, rest.Tail)
}

func validateParams(params Value) error {
	for cur := params; cur != Nil; {
		cell, ok := cur.(*Cell)
		if !ok {
			if _, ok := cur.(*Symbol); !ok {
				return userErrorf("parameter must be a symbol")
			}
			return nil
		}
		if _, ok := cell.Head.(*Symbol); !ok {
			return userErrorf("parameter must be a symbol")
		}
		cur = cell.Tail
	}
	return nil
}

// validateLambdaForm checks the shared shape of lambda/defun/defmacro
// bodies: (params expr ...), where params is a proper or dotted list of
// symbols and at least one body expression is present.
func validateLambdaForm(args Value) error {
	l, ok := args.(*Cell)
	if !ok || !IsList(l.Head) || l.Tail == Nil {
		return userErrorf("malformed lambda")
	}
	return validateParams(l.Head)
}

// (lambda (<symbol> ...) expr ...)
func primLambda(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if err := validateLambdaForm(args); err != nil {
		return nil, err
	}
	l := args.(*Cell)
	return NewFunctionObj(ip.heap, l.Head, l.Tail, env)
}

// (defun <symbol> (<symbol> ...) expr ...)
func primDefun(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) < 3 {
		return nil, userErrorf("malformed defun")
	}
	l := args.(*Cell)
	sym, ok := l.Head.(*Symbol)
	if !ok {
		return nil, userErrorf("malformed defun: name must be a symbol")
	}
	rest := l.Tail
	if err := validateLambdaForm(rest); err != nil {
		return nil, err
	}
	restCell := rest.(*Cell)
	fn, err := NewFunctionObj(ip.heap, restCell.Head, restCell.Tail, env)
	if err != nil {
		return nil, err
	}
	if err := AddVariable(ip.heap, env, sym, fn); err != nil {
		return nil, err
	}
	return fn, nil
}

// (defmacro <symbol> (<symbol> ...) expr ...)
func primDefmacro(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) < 3 {
		return nil, userErrorf("malformed defmacro")
	}
	l := args.(*Cell)
	sym, ok := l.Head.(*Symbol)
	if !ok {
		return nil, userErrorf("malformed defmacro: name must be a symbol")
	}
	rest := l.Tail
	if err := validateLambdaForm(rest); err != nil {
		return nil, err
	}
	restCell := rest.(*Cell)
	macro, err := NewMacroObj(ip.heap, restCell.Head, restCell.Tail, env)
	if err != nil {
		return nil, err
	}
	if err := AddVariable(ip.heap, env, sym, macro); err != nil {
		return nil, err
	}
	return macro, nil
}

// (define <symbol> exp) — binds the evaluated value in the current frame.
func primDefine(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) != 2 {
		return nil, userErrorf("malformed define")
	}
	l := args.(*Cell)
	sym, ok := l.Head.(*Symbol)
	if !ok {
		return nil, userErrorf("malformed define: first argument must be a symbol")
	}
	value, err := Eval(ip, env, l.Tail.(*Cell).Head)
	if err != nil {
		return nil, err
	}
	if err := AddVariable(ip.heap, env, sym, value); err != nil {
		return nil, err
	}
	return value, nil
}

// (macroexpand exp) — one-step expansion, without evaluating the result.
func primMacroexpand(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) != 1 {
		return nil, userErrorf("malformed macroexpand")
	}
	expanded, _, err := macroExpand1(ip, env, args.(*Cell).Head)
	if err != nil {
		return nil, err
	}
	return expanded, nil
}

// (print exp) — prints the formatted, evaluated value followed by a
// newline, and returns Nil.
func primPrint(ip *Interp, env *EnvVal, args Value) (Value, error) {
	if Length(args) != 1 {
		return nil, userErrorf("malformed print")
	}
	value, err := Eval(ip, env, args.(*Cell).Head)
	if err != nil {
		return nil, err
	}
	if err := Print(ip.Stdout, value); err != nil {
		return nil, err
	}
	fmt.Fprintln(ip.Stdout)
	return Nil, nil
}
