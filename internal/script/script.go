// Package script executes the named shell commands declared in a manifest's
// scripts section.
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// IO bundles the standard streams handed to a script.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO wires the process's own streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run looks up name in the manifest's scripts and executes it with the
// current environment and working directory. An unknown name is not an
// error: the available script names are listed instead and Run returns nil.
// A script's non-zero exit lands as an error satisfying ExitStatus.
func Run(ctx context.Context, m *manifest.Manifest, name string, stdio IO) error {
	command, ok := m.Scripts.Lookup(name)
	if !ok {
		fmt.Fprintf(stdio.Out, "No script found with name: %q\n", name)
		if len(m.Scripts) > 0 {
			fmt.Fprintf(stdio.Out, "\nAvailable scripts:\n")
			for _, s := range m.Scripts {
				fmt.Fprintf(stdio.Out, "  zoomaker run %s\n", s.Name)
			}
		}
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(command), name)
	if err != nil {
		return fmt.Errorf("script %q has a syntax error: %w", name, err)
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(stdio.In, stdio.Out, stdio.Err),
	)
	if err != nil {
		return fmt.Errorf("failed to set up script interpreter: %w", err)
	}
	return runner.Run(ctx, prog)
}

// ExitStatus extracts a script's exit code from a Run error so the CLI can
// forward it as the process exit code.
func ExitStatus(err error) (int, bool) {
	if status, ok := interp.IsExitStatus(err); ok {
		return int(status), true
	}
	return 0, false
}
