// kong compiles Monkey source code into bytecode and runs it in a virtual machine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/user"

	"github.com/google/subcommands"

	"github.com/duskfall/gibbon/benchmark"
	"github.com/duskfall/gibbon/compiler"
	"github.com/duskfall/gibbon/evaluator"
	"github.com/duskfall/gibbon/lexer"
	"github.com/duskfall/gibbon/object"
	"github.com/duskfall/gibbon/parser"
	"github.com/duskfall/gibbon/repl"
	"github.com/duskfall/gibbon/vm"
)

const version = "0.1.0"

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&benchCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	flag.Parse()

	// Default to the repl subcommand when none is named, mirroring Kong's
	// original "no flags means interactive" behavior.
	if flag.NArg() == 0 {
		os.Exit(int((&replCmd{}).Execute(context.Background(), flag.CommandLine)))
	}

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// replCmd starts the interactive Bubbletea REPL.
type replCmd struct {
	compile bool
	noColor bool
	debug   bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start the interactive REPL (default command)" }
func (*replCmd) Usage() string {
	return `repl [-compile] [-no-color] [-debug]:
  Start an interactive Read-Eval-Print Loop.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.compile, "compile", false, "use the bytecode compiler + VM backend instead of the tree-walking evaluator")
	f.BoolVar(&r.noColor, "no-color", false, "disable syntax highlighting and colored output")
	f.BoolVar(&r.debug, "debug", false, "enable debug mode with more verbose output")
}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	fmt.Println("Hello", username+",", "welcome to kong compiler!")
	fmt.Println("Feel free to type in Monkey code. (Ctrl+D or Ctrl+C to exit)")

	repl.Start(username, repl.Options{
		NoColor: r.noColor,
		Debug:   r.debug,
		Compile: r.compile,
	})
	return subcommands.ExitSuccess
}

// runCmd executes a Monkey source file non-interactively.
type runCmd struct {
	compile bool
	debug   bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a Monkey script file" }
func (*runCmd) Usage() string {
	return `run [-compile] [-debug] <file>:
  Execute a Monkey script file.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.compile, "compile", true, "run with the bytecode compiler + VM backend instead of the tree-walking evaluator")
	f.BoolVar(&r.debug, "debug", false, "print the program's final value after it runs")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "run: missing script file")
		return subcommands.ExitUsageError
	}

	//nolint:gosec // the path comes from a trusted CLI argument, not untrusted input
	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading file: %s\n", err)
		return subcommands.ExitFailure
	}

	l := lexer.New(string(content))
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		printParserErrors(p.Errors())
		return subcommands.ExitFailure
	}

	if r.compile {
		comp := compiler.New()
		if err := comp.Compile(program); err != nil {
			fmt.Fprintf(os.Stderr, "compilation error: %s\n", err)
			return subcommands.ExitFailure
		}

		machine := vm.New(comp.Bytecode())
		if err := machine.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "vm error: %s\n", err)
			return subcommands.ExitFailure
		}

		if r.debug {
			if top := machine.LastPoppedStackItem(); top != nil {
				fmt.Println(top.Inspect())
			}
		}
		return subcommands.ExitSuccess
	}

	env := object.NewEnvironment()
	result := evaluator.Eval(program, env)
	if r.debug && result != nil {
		fmt.Println(result.Inspect())
	}
	return subcommands.ExitSuccess
}

// benchCmd times one execution backend, chosen by -compile, against the fixed
// fibonacci workload.
type benchCmd struct {
	compile bool
}

func (*benchCmd) Name() string     { return "bench" }
func (*benchCmd) Synopsis() string { return "Benchmark the evaluator and VM backends" }
func (*benchCmd) Usage() string {
	return `bench [-compile]:
  Run the fibonacci(35) workload on one backend and report its duration.
`
}

func (b *benchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&b.compile, "compile", false, "benchmark the bytecode compiler + VM backend instead of the tree-walking evaluator")
}

func (b *benchCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := benchmark.Run(b.compile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark error: %s\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("engine=%s result=%s duration=%s\n", result.Engine, result.Value.Inspect(), result.Duration)
	return subcommands.ExitSuccess
}

// versionCmd prints the compiler's version string.
type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string          { return "Show version information" }
func (*versionCmd) Usage() string             { return "version:\n  Print the Kong compiler version.\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}

func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Printf("Kong Monkey Compiler v%s\n", version)
	return subcommands.ExitSuccess
}

// printParserErrors prints parser errors to stderr
func printParserErrors(errors []string) {
	_, _ = fmt.Fprintln(os.Stderr, "Parser errors:")
	for _, msg := range errors {
		_, _ = fmt.Fprintln(os.Stderr, "\t"+msg)
	}
}
