// Command golisp is the command-line front end for the interp package: an
// interactive REPL, a single-file batch runner, and a concurrent multi-file
// batch runner (one Interp per file).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/gopherlisp/golisp/interp"
)

func main() {
	heapBytes := flag.Int("heap", interp.DefaultHeapBytes, "heap budget in bytes")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[options] [file ...]")
		fmt.Fprintln(os.Stderr, "With no files, starts an interactive REPL on stdin.")
		fmt.Fprintln(os.Stderr, "With one file, evaluates it and exits.")
		fmt.Fprintln(os.Stderr, "With more than one file, evaluates all of them concurrently.")
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(0)

	args := flag.Args()
	switch len(args) {
	case 0:
		runREPL(*heapBytes)
	case 1:
		runFile(*heapBytes, args[0])
	default:
		runFilesConcurrently(*heapBytes, args)
	}
}

func runREPL(heapBytes int) {
	ip, err := interp.New(interp.Options{HeapBytes: heapBytes})
	if err != nil {
		log.Fatal(err)
	}
	src := bufio.NewReader(os.Stdin)
	if err := ip.REPL(newStreamSource(src), os.Stdout); err != nil && err != io.EOF {
		log.Fatal(err)
	}
}

func runFile(heapBytes int, path string) {
	ip, err := interp.New(interp.Options{HeapBytes: heapBytes})
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("could not read file %s: %v", path, err)
	}
	defer f.Close()

	if err := ip.REPL(newStreamSource(bufio.NewReader(f)), os.Stdout); err != nil {
		log.Fatalf("%s: %v", path, err)
	}
}

// runFilesConcurrently evaluates each file in its own goroutine against its
// own Interp instance, since an Interp carries no package-level state and
// is safe to run in parallel. Every file runs to completion; if any failed,
// the first error returned is then reported and the process exits. Output
// from concurrent files may interleave, matching the errgroup idiom used
// elsewhere in this module rather than serializing it.
func runFilesConcurrently(heapBytes int, paths []string) {
	var g errgroup.Group
	for _, path := range paths {
		path := path
		g.Go(func() error {
			ip, err := interp.New(interp.Options{HeapBytes: heapBytes})
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("could not read file %s: %w", path, err)
			}
			defer f.Close()

			var buf []byte
			buf, err = io.ReadAll(f)
			if err != nil {
				return fmt.Errorf("could not read file %s: %w", path, err)
			}
			if err := ip.REPL(newStreamSource(bufio.NewReader(bytesReader(buf))), os.Stdout); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func bytesReader(b []byte) io.Reader {
	return &sliceReader{b: b}
}

type sliceReader struct {
	b   []byte
	pos int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

// streamSource adapts a *bufio.Reader to interp.ByteSource, the interface
// interp's Reader consumes. bufio.Reader already supports exactly one
// byte of pushback via UnreadByte, which is all ReadExpression ever needs.
type streamSource struct {
	r *bufio.Reader
}

func newStreamSource(r *bufio.Reader) *streamSource {
	return &streamSource{r: r}
}

func (s *streamSource) ReadChar() (byte, error) {
	return s.r.ReadByte()
}

func (s *streamSource) PeekChar() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if err := s.r.UnreadByte(); err != nil {
		return 0, err
	}
	return b, nil
}

func (s *streamSource) UnreadChar() error {
	return s.r.UnreadByte()
}
