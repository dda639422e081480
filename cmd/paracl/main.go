// Command paracl is the CLI host for the evaluator: one positional source
// file, or standard input if none is given (spec.md §6's "CLI surface").
//
// Grounded on the teacher's cmd/flowa/main.go (flag-based flags, a
// printUsage/printVersion pair, loadEnvFile-before-flag.Parse ordering) and
// cmd/flowa/inspector.go (a debug tree dump gated by a flag), here repurposed
// to drive the lexer/parser/evaluator pipeline instead of the compiler/vm one.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"paracl/internal/config"
	"paracl/pkg/ast"
	"paracl/pkg/eval"
	"paracl/pkg/interner"
	"paracl/pkg/lexer"
	"paracl/pkg/parser"
)

const version = "0.1.0"

func printUsage() {
	fmt.Println("paracl - an interpreter for the ParaC language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  paracl [--trace] [script.pcl]   Run a script, or read stdin if omitted")
	fmt.Println("  paracl --version                Show version information")
	fmt.Println("  paracl --help                   Show this help message")
}

func printVersion() {
	fmt.Printf("paracl version %s\n", version)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defaults, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "paracl: loading .env: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("paracl", flag.ContinueOnError)
	fs.Usage = printUsage
	trace := fs.Bool("trace", defaults.Trace, "dump the parsed AST and each executed statement to stderr")
	showVersion := fs.Bool("version", false, "show version information")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		printVersion()
		return 0
	}

	input := os.Stdin
	if positional := fs.Args(); len(positional) >= 1 {
		f, err := os.Open(positional[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "paracl: %v\n", err)
			return 1
		}
		defer f.Close()
		input = f
	}

	sourceBytes, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "paracl: reading source: %v\n", err)
		return 1
	}
	source := string(sourceBytes)

	arena := ast.NewArena()
	names := interner.New()
	p := parser.New(lexer.New(source), arena, names)
	root, err := p.ParseProgram()
	if err != nil {
		fmt.Fprintf(os.Stderr, "paracl: %v\n", err)
		return 1
	}

	if *trace {
		fmt.Fprintln(os.Stderr, ast.Dump(arena, root, names))
	}

	programInput, err := openInput(defaults.InputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "paracl: %v\n", err)
		return 1
	}
	if programInput != os.Stdin {
		defer programInput.Close()
	}

	e := eval.New(arena, names, programInput, os.Stdout)
	if *trace {
		e.SetTrace(os.Stderr)
	}

	if err := e.Run(root); err != nil {
		fmt.Fprintf(os.Stderr, "paracl: %v\n", err)
		return 1
	}
	return 0
}

func openInput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

