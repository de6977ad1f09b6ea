package interp

// Find walks env's parent chain looking for a binding whose head is
// reference-equal to sym; within each frame the bindings list is walked in
// order, so the most recent shadowing binding wins. It returns the binding
// cell itself (sym . value), not just the value, so callers such as setq
// can mutate the value in place.
func Find(env *EnvVal, sym *Symbol) (*Cell, bool) {
	for e := env; e != nil; {
		for cur := e.Bindings; cur != Nil; {
			bindCell := cur.(*Cell)
			binding := bindCell.Head.(*Cell)
			if binding.Head.(*Symbol) == sym {
				return binding, true
			}
			cur = bindCell.Tail
		}
		parent, ok := e.Parent.(*EnvVal)
		if !ok {
			break // root frame's parent is Nil
		}
		e = parent
	}
	return nil, false
}

// AddVariable prepends a new (sym . val) binding to env's own frame.
// Shadowing within the same frame is permitted: Find always returns the
// most recently added match.
func AddVariable(h *Heap, env *EnvVal, sym *Symbol, val Value) error {
	var symV, valV Value = sym, val
	envV := Value(env)
	pop := h.Roots().Push(&symV, &valV, &envV)
	defer pop()

	binding, err := NewCell(h, symV, valV)
	if err != nil {
		return err
	}
	var bindingV Value = binding
	pop2 := h.Roots().Push(&bindingV, &envV)
	defer pop2()

	cell, err := NewCell(h, bindingV, env.Bindings)
	if err != nil {
		return err
	}
	env.Bindings = cell
	return nil
}

// PushEnv constructs a child frame of parent whose bindings come from
// zipping params against args. If params ends in a non-Nil symbol (a rest
// parameter), that symbol is bound to the remaining tail of args. A length
// mismatch without a rest parameter is a user error.
func PushEnv(h *Heap, parent *EnvVal, params, args Value) (*EnvVal, error) {
	var bindings Value = Nil
	var paramsV, argsV, bindingsV Value = params, args, bindings
	parentV := Value(parent)
	pop := h.Roots().Push(&paramsV, &argsV, &bindingsV, &parentV)
	defer pop()

	p, a := paramsV, argsV
	for {
		pc, ok := p.(*Cell)
		if !ok {
			break
		}
		ac, ok := a.(*Cell)
		if !ok {
			return nil, userErrorf("cannot apply function: number of arguments does not match")
		}
		sym, ok := pc.Head.(*Symbol)
		if !ok {
			return nil, internalErrorf("parameter is not a symbol")
		}

		var symV, valV Value = sym, ac.Head
		pop2 := h.Roots().Push(&symV, &valV, &bindingsV)
		defer pop2()
		pairCell, err := NewCell(h, symV, valV)
		if err != nil {
			return nil, err
		}
		var pairV Value = pairCell
		pop3 := h.Roots().Push(&pairV, &bindingsV)
		defer pop3()
		listCell, err := NewCell(h, pairV, bindingsV)
		if err != nil {
			return nil, err
		}
		bindingsV = listCell

		p = pc.Tail
		a = ac.Tail
	}

	if p != Nil {
		restSym, ok := p.(*Symbol)
		if !ok {
			return nil, internalErrorf("rest parameter is not a symbol")
		}
		var symV, valV Value = restSym, a
		pop2 := h.Roots().Push(&symV, &valV, &bindingsV)
		defer pop2()
		pairCell, err := NewCell(h, symV, valV)
		if err != nil {
			return nil, err
		}
		var pairV Value = pairCell
		pop3 := h.Roots().Push(&pairV, &bindingsV)
		defer pop3()
		listCell, err := NewCell(h, pairV, bindingsV)
		if err != nil {
			return nil, err
		}
		bindingsV = listCell
	} else if a != Nil {
		return nil, userErrorf("cannot apply function: number of arguments does not match")
	}

	return NewEnvObj(h, bindingsV, parentV)
}
