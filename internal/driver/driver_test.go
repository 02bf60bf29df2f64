package driver_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/hiw/internal/driver"
)

func TestCompileProducesRunnableBytecode(t *testing.T) {
	bc, err := driver.Compile("test", `a=5;b=3;print(a*b);`, driver.FileResolver{ExeDir: "."})
	require.NoError(t, err)
	assert.NotEmpty(t, bc.Program)
}

func TestRunExecutesFileAndCapturesStdout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.hiw")
	require.NoError(t, os.WriteFile(path, []byte(`print(1+2);`), 0o644))

	var out, errOut bytes.Buffer
	stdio := driver.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut}
	err := driver.Run(context.Background(), stdio, path, driver.FileResolver{ExeDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "3\n", out.String())
}

func TestRunMissingFileReturnsError(t *testing.T) {
	var out, errOut bytes.Buffer
	stdio := driver.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut}
	err := driver.Run(context.Background(), stdio, "/does/not/exist.hiw", driver.FileResolver{ExeDir: "."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")
}

func TestRunPropagatesRuntimeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.hiw")
	require.NoError(t, os.WriteFile(path, []byte(`print(x);`), 0o644))

	var out, errOut bytes.Buffer
	stdio := driver.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut}
	err := driver.Run(context.Background(), stdio, path, driver.FileResolver{ExeDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undefined variable "x"`)
}

func TestRunPropagatesCompileError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.hiw")
	require.NoError(t, os.WriteFile(path, []byte(`print(1`), 0o644))

	var out, errOut bytes.Buffer
	stdio := driver.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut}
	err := driver.Run(context.Background(), stdio, path, driver.FileResolver{ExeDir: dir})
	require.Error(t, err)
}

func TestRunSplicesFunctionDefinedInImport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.hiw"), []byte(`define greet(name) { print(name); }`), 0o644))
	path := filepath.Join(dir, "main.hiw")
	require.NoError(t, os.WriteFile(path, []byte(`using "lib.hiw"; greet("hi");`), 0o644))

	var out, errOut bytes.Buffer
	stdio := driver.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut}
	err := driver.Run(context.Background(), stdio, path, driver.FileResolver{ExeDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out.String())
}

func TestRunFunctionRedefinedAcrossImportAndImporterFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.hiw"), []byte(`define f() { print(1); }`), 0o644))
	path := filepath.Join(dir, "main.hiw")
	require.NoError(t, os.WriteFile(path, []byte(`using "lib.hiw"; define f() { print(2); }`), 0o644))

	var out, errOut bytes.Buffer
	stdio := driver.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut}
	err := driver.Run(context.Background(), stdio, path, driver.FileResolver{ExeDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redefined")
}

func TestRunFunctionRedefinedAcrossTwoImportsFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hiw"), []byte(`define f() { print(1); }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hiw"), []byte(`define f() { print(2); }`), 0o644))
	path := filepath.Join(dir, "main.hiw")
	require.NoError(t, os.WriteFile(path, []byte(`using "a.hiw"; using "b.hiw"; f();`), 0o644))

	var out, errOut bytes.Buffer
	stdio := driver.Stdio{Stdin: bytes.NewReader(nil), Stdout: &out, Stderr: &errOut}
	err := driver.Run(context.Background(), stdio, path, driver.FileResolver{ExeDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redefined")
}

func TestFileResolverExecutableDirWinsTie(t *testing.T) {
	cwdDir := t.TempDir()
	exeDir := t.TempDir()

	lib := "lib.hiw"
	require.NoError(t, os.WriteFile(filepath.Join(cwdDir, lib), []byte("// cwd copy"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(exeDir, lib), []byte("// exe copy"), 0o644))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwdDir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	r := driver.FileResolver{ExeDir: exeDir}
	resolved, ok := r.Resolve(lib)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(exeDir, lib), resolved)
}

func TestFileResolverFallsBackToCwd(t *testing.T) {
	cwdDir := t.TempDir()
	exeDir := t.TempDir()

	lib := "cwdonly.hiw"
	require.NoError(t, os.WriteFile(filepath.Join(cwdDir, lib), []byte("// cwd only"), 0o644))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwdDir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	r := driver.FileResolver{ExeDir: exeDir}
	resolved, ok := r.Resolve(lib)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cwdDir, lib), resolved)
}

func TestFileResolverUnresolvedPath(t *testing.T) {
	r := driver.FileResolver{ExeDir: t.TempDir()}
	_, ok := r.Resolve("nope.hiw")
	assert.False(t, ok)
}
