package interp

// Eval evaluates value in env and returns its result. Dispatch is by tag:
// Int, True, Nil, Primitive, Function and Macro are self-evaluating;
// Symbol looks up its binding; Cell is macro-expanded (if applicable) and
// then applied.
func Eval(ip *Interp, env *EnvVal, value Value) (Value, error) {
	switch v := value.(type) {
	case *IntVal, *trueSingleton, *nilSingleton, *Primitive, *Function, *Macro:
		return value, nil
	case *Symbol:
		binding, ok := Find(env, v)
		if !ok {
			return nil, userErrorf("undefined symbol: %s", v.Name)
		}
		return binding.Tail, nil
	case *Cell:
		return evalCell(ip, env, v)
	default:
		return nil, internalErrorf("eval: unknown tag reached dispatch (%T)", value)
	}
}

func evalCell(ip *Interp, env *EnvVal, cell *Cell) (Value, error) {
	expanded, did, err := macroExpand1(ip, env, cell)
	if err != nil {
		return nil, err
	}
	if did {
		return Eval(ip, env, expanded)
	}

	head, err := Eval(ip, env, cell.Head)
	if err != nil {
		return nil, err
	}
	args := cell.Tail

	switch fn := head.(type) {
	case *Primitive:
		return fn.Fn(ip, env, args)
	case *Function:
		evaled, err := evalList(ip, env, args)
		if err != nil {
			return nil, err
		}
		return applyFunc(ip, fn.Params, fn.Body, fn.Env, evaled)
	default:
		return nil, userErrorf("head of list must be a function")
	}
}

// macroExpand1 performs a single macro-expansion step: if cell's head is a
// symbol bound to a Macro, the macro is applied to the unevaluated tail and
// the resulting form is returned with did=true. Anything else returns the
// original value unchanged with did=false.
func macroExpand1(ip *Interp, env *EnvVal, value Value) (Value, bool, error) {
	cell, ok := value.(*Cell)
	if !ok {
		return value, false, nil
	}
	sym, ok := cell.Head.(*Symbol)
	if !ok {
		return value, false, nil
	}
	binding, ok := Find(env, sym)
	if !ok {
		return value, false, nil
	}
	macro, ok := binding.Tail.(*Macro)
	if !ok {
		return value, false, nil
	}
	expanded, err := applyFunc(ip, macro.Params, macro.Body, macro.Env, cell.Tail)
	if err != nil {
		return nil, false, err
	}
	return expanded, true, nil
}

// applyFunc binds params to args (already evaluated for a Function call,
// still raw for a macro application) in a new child of capturedEnv, then
// evaluates body as an implicit sequence.
func applyFunc(ip *Interp, params, body Value, capturedEnv *EnvVal, args Value) (Value, error) {
	newEnv, err := PushEnv(ip.heap, capturedEnv, params, args)
	if err != nil {
		return nil, err
	}

	// newEnv and its bindings are reachable only from this local variable
	// until progn returns; root it so a collection triggered while
	// evaluating the body doesn't sweep it out from under the call.
	var newEnvV Value = newEnv
	pop := ip.heap.Roots().Push(&newEnvV)
	defer pop()

	return progn(ip, newEnv, body)
}

// progn evaluates each element of list in order, discarding all but the
// last result. An empty sequence evaluates to Nil.
func progn(ip *Interp, env *EnvVal, list Value) (Value, error) {
	var result Value = Nil
	for cur := list; cur != Nil; {
		cell, ok := cur.(*Cell)
		if !ok {
			return nil, internalErrorf("progn: improper body list")
		}
		var err error
		result, err = Eval(ip, env, cell.Head)
		if err != nil {
			return nil, err
		}
		cur = cell.Tail
	}
	return result, nil
}

// evalList evaluates every element of list left-to-right and returns the
// results as a new list in the same order.
func evalList(ip *Interp, env *EnvVal, list Value) (Value, error) {
	var head Value = Nil
	var listV, headV Value = list, head
	pop := ip.heap.Roots().Push(&listV, &headV)
	defer pop()

	for cur := listV; cur != Nil; {
		cell, ok := cur.(*Cell)
		if !ok {
			return nil, internalErrorf("evalList: improper argument list")
		}
		result, err := Eval(ip, env, cell.Head)
		if err != nil {
			return nil, err
		}

		var resultV Value = result
		pop2 := ip.heap.Roots().Push(&resultV, &headV)
		defer pop2()
		newHead, err := NewCell(ip.heap, resultV, headV)
		if err != nil {
			return nil, err
		}
		headV = newHead
		cur = cell.Tail
	}
	return reverse(headV), nil
}
