// Package benchmark times both execution backends against a fixed
// fibonacci workload, the same program the REPL and CLI can run directly.
package benchmark

import (
	"fmt"
	"time"

	"github.com/duskfall/gibbon/compiler"
	"github.com/duskfall/gibbon/evaluator"
	"github.com/duskfall/gibbon/lexer"
	"github.com/duskfall/gibbon/object"
	"github.com/duskfall/gibbon/parser"
	"github.com/duskfall/gibbon/vm"
)

// fibonacciInput is the Monkey source run by Run; fib(35) is big enough to
// make the difference between the two backends obvious.
const fibonacciInput = `
let fibonacci = fn(x) {
  if (x == 0) {
    0
  } else {
    if (x == 1) {
      1
    } else {
      fibonacci(x - 1) + fibonacci(x - 2)
    }
  }
};
fibonacci(35);
`

// Result holds the outcome of one benchmark run.
type Result struct {
	// Engine names which backend produced this Result ("vm" or "eval").
	Engine string

	// Value is the program's resulting object.
	Value object.Object

	// Duration is how long evaluation took, excluding lex/parse.
	Duration time.Duration
}

// Run lexes and parses fibonacciInput once, then executes it with the
// bytecode VM if compile is true, or the tree-walking evaluator otherwise.
func Run(compile bool) (Result, error) {
	l := lexer.New(fibonacciInput)
	p := parser.New(l)
	program := p.ParseProgram()

	if len(p.Errors()) != 0 {
		return Result{}, fmt.Errorf("parser errors: %v", p.Errors())
	}

	if compile {
		comp := compiler.New()
		if err := comp.Compile(program); err != nil {
			return Result{}, fmt.Errorf("compiler error: %w", err)
		}

		machine := vm.New(comp.Bytecode())

		start := time.Now()
		if err := machine.Run(); err != nil {
			return Result{}, fmt.Errorf("vm error: %w", err)
		}
		duration := time.Since(start)

		return Result{Engine: "vm", Value: machine.LastPoppedStackItem(), Duration: duration}, nil
	}

	env := object.NewEnvironment()

	start := time.Now()
	result := evaluator.Eval(program, env)
	duration := time.Since(start)

	return Result{Engine: "eval", Value: result, Duration: duration}, nil
}
