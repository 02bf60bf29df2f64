// Package maincmd implements the hiw command-line front end: argument
// parsing and process-exit-code mapping around internal/driver's typed
// errors, in the shape the teacher's own maincmd.Cmd uses for its compiler
// front end.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/hiw/internal/driver"
)

const binName = "hiw"

var (
	shortUsage = fmt.Sprintf(`
usage: %s <source-file> [<output-name>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s <source-file>
       %[1]s <source-file> <output-name>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and embedded virtual machine for the %[1]s scripting language.

With one argument, lexes, parses, compiles and runs <source-file> in the
embedded VM. The two-argument, source-emitting "wrap into a standalone
binary" path is not implemented here.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the root command, populated by mainer.Parser from argv/env.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

// Validate checks the positional arguments once flags are parsed: exactly
// one (run) or two (the out-of-scope wrap path, rejected explicitly rather
// than silently ignored).
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	switch len(c.args) {
	case 0:
		return errors.New("no source file specified")
	case 1:
		return nil
	case 2:
		return fmt.Errorf("%s: wrapping a program into a standalone binary is not supported by this build", binName)
	default:
		return fmt.Errorf("too many arguments: %v", c.args[2:])
	}
}

// Main is the program's entire logic past argv/env parsing: resolve the
// requested mode, run it, and map the result to a process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	dstdio := driver.Stdio{Stdin: stdio.Stdin, Stdout: stdio.Stdout, Stderr: stdio.Stderr}
	if err := driver.Run(ctx, dstdio, c.args[0], driver.DefaultResolver()); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}
