// Package driver wires the Lexer, Parser, Compiler and VM stages together
// behind one call, returning a typed error instead of exiting the process
// itself — the caller (internal/maincmd) decides how to report failure and
// what exit code to use.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mna/hiw/lang/compiler"
	"github.com/mna/hiw/lang/lexer"
	"github.com/mna/hiw/lang/machine"
	"github.com/mna/hiw/lang/parser"
)

// Stdio bundles the three standard streams a Run needs: INPUT reads Stdin,
// PRINT writes Stdout, and every stage's diagnostics go to Stderr.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// FileResolver resolves a `using "path";` statement by searching the
// current working directory and the executing binary's directory, in that
// order of preference, with the executable directory winning a tie (both
// exist) — the exact search order spec.md §6 hands off to "the file-system
// search path heuristics for imports" collaborator.
type FileResolver struct {
	ExeDir string
}

// DefaultResolver builds the FileResolver the CLI uses: rooted at the
// running executable's own directory, falling back to "." if it cannot be
// determined.
func DefaultResolver() FileResolver {
	exe, err := os.Executable()
	if err != nil {
		return FileResolver{ExeDir: "."}
	}
	return FileResolver{ExeDir: filepath.Dir(exe)}
}

// Resolve implements compiler.ImportResolver.
func (r FileResolver) Resolve(path string) (string, bool) {
	cwd, _ := os.Getwd()
	cwdCandidate := filepath.Join(cwd, path)
	exeCandidate := filepath.Join(r.ExeDir, path)

	if _, err := os.Stat(exeCandidate); err == nil {
		if abs, err := filepath.Abs(exeCandidate); err == nil {
			return abs, true
		}
		return exeCandidate, true
	}

	if _, err := os.Stat(cwdCandidate); err == nil {
		if abs, err := filepath.Abs(cwdCandidate); err == nil {
			return abs, true
		}
		return cwdCandidate, true
	}

	return "", false
}

// LoadFile reads an already-resolved path off disk.
func LoadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Run lexes, parses, compiles and executes the source file at filename,
// resolving `using` imports through resolver. ctx is threaded through to
// the VM and checked between instructions purely for cooperative
// cancellation (spec.md §5: the VM itself offers no suspension points).
func Run(ctx context.Context, stdio Stdio, filename string, resolver compiler.ImportResolver) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("hiw: cannot read %s: %w", filename, err)
	}

	bc, err := Compile(filename, string(src), resolver)
	if err != nil {
		return err
	}

	vm := machine.New()
	vm.Stdin = stdio.Stdin
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr

	return vm.Run(ctx, bc)
}

// Compile runs the Lexer→Parser→Compiler pipeline on src and returns the
// resulting bytecode, or the first diagnostic raised by any stage.
func Compile(filename, src string, resolver compiler.ImportResolver) (*compiler.ByteCode, error) {
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

	c := compiler.New(filename, resolver, LoadFile)
	return c.CompileProgram(prog)
}
