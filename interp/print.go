package interp

import (
	"fmt"
	"io"
)

// Print writes the reader-compatible printed form of value to w. Printed
// form round-trips through the reader for every value except Primitive,
// Function, Macro and gensym'd symbols.
func Print(w io.Writer, value Value) error {
	switch v := value.(type) {
	case *IntVal:
		_, err := fmt.Fprintf(w, "%d", v.n)
		return err
	case *Symbol:
		_, err := fmt.Fprint(w, v.Name)
		return err
	case *Cell:
		return printCell(w, v)
	case *trueSingleton:
		_, err := fmt.Fprint(w, "t")
		return err
	case *nilSingleton:
		_, err := fmt.Fprint(w, "()")
		return err
	case *Primitive:
		_, err := fmt.Fprint(w, "<primitive>")
		return err
	case *Function:
		_, err := fmt.Fprint(w, "<function>")
		return err
	case *Macro:
		_, err := fmt.Fprint(w, "<macro>")
		return err
	default:
		return internalErrorf("cannot print value of tag %v", value.Tag())
	}
}

func printCell(w io.Writer, cell *Cell) error {
	if _, err := fmt.Fprint(w, "("); err != nil {
		return err
	}
	var cur Value = cell
	first := true
	for {
		c, ok := cur.(*Cell)
		if !ok {
			break
		}
		if !first {
			if _, err := fmt.Fprint(w, " "); err != nil {
				return err
			}
		}
		first = false
		if err := Print(w, c.Head); err != nil {
			return err
		}
		if c.Tail == Nil {
			cur = Nil
			break
		}
		if _, ok := c.Tail.(*Cell); !ok {
			if _, err := fmt.Fprint(w, " . "); err != nil {
				return err
			}
			if err := Print(w, c.Tail); err != nil {
				return err
			}
			cur = Nil
			break
		}
		cur = c.Tail
	}
	_, err := fmt.Fprint(w, ")")
	return err
}
