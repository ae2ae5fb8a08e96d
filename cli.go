package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
)

const usage = `small - compiles Small programs to Jasmin JVM assembler

Usage:
    small [build flags] [file]
    small <command> [arguments]

Commands:
    build [-o out] [-class Name] [-v] [file]   Compile to Jasmin (default)
    run [-steps N] [-v] <file>                 Compile and execute
    parse [-sexpr] [file]                      Print the syntax tree
    conform [-v] <suite.yaml>...               Run YAML conformance suites
    help                                       Show this help message

Source is read from standard input when file is absent or "-".

Examples:
    small < prog.sm > Program.j
    small build -o Program.j -class Program prog.sm
    echo 5 | small run prog.sm
    small conform 'testdata/conformance/*.yaml'
`

// errUsage reports bad command-line arguments. The flag package or the
// command has already printed the problem and the usage.
var errUsage = errors.New("usage error")

// cli carries the process streams, so commands can run in tests.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    log.New(stderr, "small: ", 0),
	}
}

// run dispatches a command line and returns the process exit code.
func (c *cli) run(ctx context.Context, args []string) int {
	command := "build"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") && command == "build" {
		command = "help"
	}

	var err error
	switch command {
	case "build":
		err = c.build(args)
	case "run":
		err = c.runProgram(ctx, args)
	case "parse":
		err = c.parse(args)
	case "conform":
		err = c.conform(ctx, args)
	case "help":
		fmt.Fprint(c.stdout, usage)
	default:
		// A bare file name compiles, matching the stdin form.
		if _, statErr := os.Stat(command); statErr == nil {
			err = c.build(append([]string{command}, args...))
			break
		}
		c.log.Printf("unknown command: %s", command)
		fmt.Fprint(c.stderr, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		c.log.Print(err)
		return 1
	}
}

func (c *cli) flagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "Usage: small %s %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// readSource reads the program named by the single optional argument.
func (c *cli) readSource(fs *flag.FlagSet) (string, []byte, error) {
	switch fs.NArg() {
	case 0:
	case 1:
		if name := fs.Arg(0); name != "-" {
			src, err := os.ReadFile(name)
			return name, src, err
		}
	default:
		fmt.Fprintf(c.stderr, "expected at most one file argument\n")
		fs.Usage()
		return "", nil, errUsage
	}
	src, err := io.ReadAll(c.stdin)
	if err != nil {
		return "", nil, fmt.Errorf("reading standard input: %w", err)
	}
	return "<stdin>", src, nil
}

func (c *cli) compile(name string, src []byte, opts CompileOptions, verbose bool) (*Compilation, error) {
	comp, err := Compile(src, opts)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", name, err)
	}
	if verbose {
		c.log.Printf("%s: ast: %s", name, ToSExpr(comp.AST))
		c.log.Printf("%s: %d local slots, %d labels", name, comp.Locals, comp.Labels)
	}
	return comp, nil
}

func (c *cli) build(args []string) error {
	fs := c.flagSet("build", "[-o out] [-class Name] [-v] [file]")
	output := fs.String("o", "", "write the module to `file` instead of standard output")
	className := fs.String("class", DefaultClassName, "name of the emitted `class`")
	verbose := fs.Bool("v", false, "log compilation details to standard error")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	name, src, err := c.readSource(fs)
	if err != nil {
		return err
	}
	comp, err := c.compile(name, src, CompileOptions{ClassName: *className}, *verbose)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(comp.Module), 0644)
	}
	_, err = io.WriteString(c.stdout, comp.Module)
	return err
}

func (c *cli) runProgram(ctx context.Context, args []string) error {
	fs := c.flagSet("run", "[-steps N] [-v] <file>")
	steps := fs.Int64("steps", 0, "stop after `N` instructions (0 means no limit)")
	verbose := fs.Bool("v", false, "log compilation and execution details to standard error")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 || fs.Arg(0) == "-" {
		fmt.Fprintf(c.stderr, "expected exactly one file argument; standard input is the program's input\n")
		fs.Usage()
		return errUsage
	}

	name := fs.Arg(0)
	src, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	comp, err := c.compile(name, src, CompileOptions{}, *verbose)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(c.stdout)
	m, runErr := Execute(ctx, comp, c.stdin, out, *steps)
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if *verbose && m != nil {
		c.log.Printf("%s: executed %d instructions", name, m.Steps())
	}
	if runErr != nil {
		return fmt.Errorf("%s: %w", name, runErr)
	}
	return nil
}

func (c *cli) parse(args []string) error {
	fs := c.flagSet("parse", "[-sexpr] [file]")
	sexpr := fs.Bool("sexpr", false, "print the tree as an s-expression")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	name, src, err := c.readSource(fs)
	if err != nil {
		return err
	}
	prog, err := Parse(src)
	if err != nil {
		return fmt.Errorf("%s:%w", name, err)
	}

	if *sexpr {
		_, err = fmt.Fprintln(c.stdout, ToSExpr(prog))
	} else {
		_, err = io.WriteString(c.stdout, Indented(prog))
	}
	return err
}

func (c *cli) conform(ctx context.Context, args []string) error {
	fs := c.flagSet("conform", "[-v] <suite.yaml>...")
	verbose := fs.Bool("v", false, "list passing and skipped cases too")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(c.stderr, "expected at least one suite file\n")
		fs.Usage()
		return errUsage
	}

	cases, err := LoadSuites(fs.Args()...)
	if err != nil {
		return err
	}

	results := make([]CaseResult, 0, len(cases))
	for _, lc := range cases {
		r := RunCase(ctx, lc)
		results = append(results, r)
		id := lc.File + ": " + lc.Suite.Name + "/" + lc.Case.Name
		switch {
		case r.Skipped:
			if *verbose {
				fmt.Fprintf(c.stdout, "SKIP %s (%s)\n", id, r.SkipReason)
			}
		case r.Passed:
			if *verbose {
				fmt.Fprintf(c.stdout, "PASS %s\n", id)
			}
		default:
			fmt.Fprintf(c.stdout, "FAIL %s\n    %s\n", id, strings.ReplaceAll(r.Err.Error(), "\n", "\n    "))
		}
	}

	stats := ComputeStats(results)
	fmt.Fprintln(c.stdout, stats)
	if stats.Failed > 0 {
		return fmt.Errorf("%d conformance cases failed", stats.Failed)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := newCLI(os.Stdin, os.Stdout, os.Stderr).run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
