package interp

import (
	"io"
	"strings"
)

// ByteSource is the host-provided character stream the reader consumes.
// io.EOF from ReadChar signals end-of-input.
type ByteSource interface {
	ReadChar() (byte, error)
	PeekChar() (byte, error)
	UnreadChar() error
}

// symbolChars are the extra characters (beyond letters and digits) a
// symbol may contain, per the reader grammar.
const symbolChars = "~!@#$&^&*-_=+:/?<>"

func isSymbolChar(c byte) bool {
	return strings.IndexByte(symbolChars, c) >= 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Reader is a tokeniser and recursive-descent parser over a ByteSource. It
// may allocate, and registers every partially-built intermediate value on
// the heap's root stack across calls that could trigger a collection.
type Reader struct {
	src    ByteSource
	heap   *Heap
	symtab *SymbolTable
}

// NewReader constructs a Reader over src using ip's heap and symbol table.
func NewReader(ip *Interp, src ByteSource) *Reader {
	return &Reader{src: src, heap: ip.heap, symtab: ip.symtab}
}

// ReadExpression consumes characters until one complete expression is
// recognised, or returns (nil, io.EOF) if the stream ends before any
// expression starts. A stray ')' or '.' is returned as the CloseParen or
// Dot sentinel respectively; it is the caller's responsibility to treat
// those as fatal at top level, since the reader itself uses them as
// internal signals when parsing a list.
func (r *Reader) ReadExpression() (Value, error) {
	for {
		c, err := r.src.ReadChar()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		switch {
		case isWhitespace(c):
			continue
		case c == ';':
			if err := r.skipLine(); err != nil && err != io.EOF {
				return nil, err
			}
			continue
		case c == '(':
			return r.readList()
		case c == ')':
			return CloseParen, nil
		case c == '.':
			return Dot, nil
		case c == '\'':
			return r.readQuote()
		case isDigit(c):
			return r.readNumber(int32(c-'0'), 1)
		case c == '-':
			peek, perr := r.src.PeekChar()
			if perr == nil && isDigit(peek) {
				return r.readNumber(0, -1)
			}
			return r.readSymbol(c)
		case isAlpha(c) || isSymbolChar(c):
			return r.readSymbol(c)
		default:
			return nil, userErrorf("unable to handle char: %c", c)
		}
	}
}

func (r *Reader) skipLine() error {
	for {
		c, err := r.src.ReadChar()
		if err != nil {
			return err
		}
		if c == '\n' {
			return nil
		}
		if c == '\r' {
			if peek, perr := r.src.PeekChar(); perr == nil && peek == '\n' {
				_, _ = r.src.ReadChar()
			}
			return nil
		}
	}
}

func (r *Reader) readNumber(val int32, sign int32) (Value, error) {
	for {
		peek, err := r.src.PeekChar()
		if err != nil || !isDigit(peek) {
			break
		}
		c, _ := r.src.ReadChar()
		val = val*10 + int32(c-'0')
	}
	return NewInt(r.heap, sign*val)
}

func (r *Reader) readSymbol(first byte) (Value, error) {
	var buf strings.Builder
	buf.WriteByte(first)
	for {
		peek, err := r.src.PeekChar()
		if err != nil {
			break
		}
		if !isAlnum(peek) && !isSymbolChar(peek) {
			break
		}
		if buf.Len() >= symbolMaxLen {
			return nil, userErrorf("symbol name too long")
		}
		c, _ := r.src.ReadChar()
		buf.WriteByte(c)
	}
	return r.symtab.Intern(buf.String())
}

// readQuote reads the expression following a leading ' and wraps it as
// (quote e).
func (r *Reader) readQuote() (Value, error) {
	quoteSym, err := r.symtab.Intern("quote")
	if err != nil {
		return nil, err
	}
	var quoteSymV Value = quoteSym
	pop := r.heap.Roots().Push(&quoteSymV)
	defer pop()

	e, err := r.ReadExpression()
	if err != nil {
		if err == io.EOF {
			return nil, userErrorf("unexpected end of input after quote")
		}
		return nil, err
	}

	var eV Value = e
	pop2 := r.heap.Roots().Push(&eV, &quoteSymV)
	defer pop2()

	tail, err := NewCell(r.heap, eV, Nil)
	if err != nil {
		return nil, err
	}
	var tailV Value = tail
	pop3 := r.heap.Roots().Push(&tailV, &quoteSymV)
	defer pop3()

	return NewCell(r.heap, quoteSymV, tailV)
}

// readList parses the body of a list after its opening '(' has already
// been consumed.
func (r *Reader) readList() (Value, error) {
	var head Value = Nil
	var headV Value = head
	pop := r.heap.Roots().Push(&headV)
	defer pop()

	for {
		obj, err := r.ReadExpression()
		if err == io.EOF {
			return nil, userErrorf("unclosed parenthesis")
		}
		if err != nil {
			return nil, err
		}
		if obj == CloseParen {
			return reverse(headV), nil
		}
		if obj == Dot {
			last, err := r.ReadExpression()
			if err != nil {
				if err == io.EOF {
					return nil, userErrorf("unclosed parenthesis")
				}
				return nil, err
			}
			closing, err := r.ReadExpression()
			if err != nil {
				if err == io.EOF {
					return nil, userErrorf("unclosed parenthesis")
				}
				return nil, err
			}
			if closing != CloseParen {
				return nil, userErrorf("close parenthesis expected after dot")
			}
			result := reverse(headV)
			// headV's first cell (now the last cell of the reversed
			// list) gets its tail spliced to last.
			if result == Nil {
				return last, nil
			}
			tailCell := result.(*Cell)
			for {
				next, ok := tailCell.Tail.(*Cell)
				if !ok {
					break
				}
				tailCell = next
			}
			tailCell.Tail = last
			return result, nil
		}

		var objV Value = obj
		pop2 := r.heap.Roots().Push(&objV, &headV)
		defer pop2()
		newHead, err := NewCell(r.heap, objV, headV)
		if err != nil {
			return nil, err
		}
		headV = newHead
	}
}
