// Command gendoc walks the interp package's source with go/packages and
// go/doc and emits a Markdown reference of every primitive, keyed off the
// doc comment attached to each primXxx function in primitives.go.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/doc"
	"log"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

func main() {
	out := flag.String("out", "", "output file (stdout if empty)")
	pkgPath := flag.String("pkg", "github.com/gopherlisp/golisp/interp", "package to document")
	flag.Parse()

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedCompiledGoFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo}
	pkgs, err := packages.Load(cfg, *pkgPath)
	if err != nil {
		log.Fatalf("loading %s: %v", *pkgPath, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		log.Fatalf("errors loading %s", *pkgPath)
	}
	if len(pkgs) != 1 {
		log.Fatalf("expected exactly one package, got %d", len(pkgs))
	}
	pkg := pkgs[0]

	docPkg := &ast.Package{
		Name:  pkg.Name,
		Files: make(map[string]*ast.File),
	}
	for i, f := range pkg.Syntax {
		docPkg.Files[pkg.CompiledGoFiles[i]] = f
	}
	d := doc.New(docPkg, pkg.PkgPath, doc.AllDecls)

	entries := collectPrimitives(d)
	sort.Slice(entries, func(i, j int) bool { return entries[i].funcName < entries[j].funcName })

	var sb strings.Builder
	sb.WriteString("# Primitive reference\n\n")
	sb.WriteString("Generated from doc comments on the primXxx functions in interp/primitives.go.\n\n")
	for _, e := range entries {
		sb.WriteString("## " + e.funcName + "\n\n")
		if e.doc == "" {
			sb.WriteString("(undocumented)\n\n")
			continue
		}
		sb.WriteString(e.doc + "\n\n")
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("creating %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := fmt.Fprint(w, sb.String()); err != nil {
		log.Fatalf("writing output: %v", err)
	}
}

type primDoc struct {
	funcName string
	doc      string
}

// collectPrimitives finds every top-level function whose name begins with
// "prim" and returns its doc comment, trimmed of Go's trailing newline.
func collectPrimitives(d *doc.Package) []primDoc {
	var out []primDoc
	for _, f := range d.Funcs {
		if !strings.HasPrefix(f.Name, "prim") {
			continue
		}
		out = append(out, primDoc{
			funcName: f.Name,
			doc:      strings.TrimSpace(f.Doc),
		})
	}
	return out
}
