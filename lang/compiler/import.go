package compiler

import (
	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/binder"
	"github.com/mna/hiw/lang/lexer"
	"github.com/mna/hiw/lang/parser"
	"github.com/mna/hiw/lang/value"
)

// compileImport handles `using "path";`: resolves path via the
// ImportResolver, re-runs Lexer→Parser→Compiler on the loaded source
// (sharing this Compiler so the imported function table merges into the
// caller's for free) without the trailing HALT that CompileProgram adds to
// a top-level program, re-bases its branch targets, and splices it in.
func (f *fcomp) compileImport(n *ast.Node) {
	path := string(n.Value.Value.(value.Str))

	abs, ok := f.c.resolver.Resolve(path)
	if !ok {
		f.failAt(n, "cannot resolve import %q", path)
		return
	}
	if f.c.load == nil {
		f.failAt(n, "no source loader configured for import %q", path)
		return
	}
	src, err := f.c.load(abs)
	if err != nil {
		f.failAt(n, "cannot load import %q: %v", path, err)
		return
	}

	bc, err := f.c.compileImportedSource(abs, src)
	if err != nil {
		f.failAt(n, "error compiling import %q: %v", path, err)
		return
	}

	f.spliceBody(bc.Program, bc.JumpCodes)
}

// compileImportedSource lexes, parses and compiles src as a nested
// compilation unit that shares this Compiler's function table, so
// functions defined in an import are visible to the importer and vice
// versa (imports are textually merged, per spec.md's non-goal of a module
// namespace).
func (c *Compiler) compileImportedSource(filename, src string) (*ByteCode, error) {
	pre := lexer.Preprocess(src)
	lx := lexer.New(pre, filename)
	ps := parser.New(lx)

	prog, err := ps.ParseProgram()
	if err != nil {
		return nil, err
	}
	if err := lx.Errors.Err(); err != nil {
		return nil, err
	}
	if err := ps.Err(); err != nil {
		return nil, err
	}
	// Same pre-pass CompileProgram runs over the top-level file: an import
	// is its own compilation unit and must be internally consistent before
	// it gets spliced into anything. Cross-unit duplicates (this name also
	// defined by the importer, or by a second import) still slip past this
	// check — compileFunctionDefine catches those once both land in the
	// shared function table.
	if _, err := binder.Check(prog); err != nil {
		return nil, err
	}

	sub := newFcomp(c)
	sub.compileProg(prog)
	if sub.err != nil {
		return nil, sub.err
	}

	return &ByteCode{Program: sub.program, Functions: c.functions, JumpCodes: sub.jumpCodes}, nil
}
