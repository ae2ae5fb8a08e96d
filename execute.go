package main

import (
	"context"
	"fmt"
	"io"

	"github.com/strager/small/jasmin"
)

// DefaultStepLimit bounds test and conformance runs so that a program that
// never halts fails instead of hanging.
const DefaultStepLimit = 50_000_000

// Execute assembles a compiled module and runs its main method, reading
// program input from stdin and writing program output to stdout. A
// stepLimit of zero runs without a limit.
func Execute(ctx context.Context, comp *Compilation, stdin io.Reader, stdout io.Writer, stepLimit int64) (*jasmin.Machine, error) {
	class, err := jasmin.Assemble(comp.Module)
	if err != nil {
		return nil, fmt.Errorf("assembling generated module: %w", err)
	}
	m := jasmin.NewMachine(class, stdin, stdout, jasmin.WithStepLimit(stepLimit))
	return m, m.Run(ctx)
}
