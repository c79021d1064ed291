// Command spl drives the lexer, parser, and interpreter through the
// tokenize/parse/evaluate/run/repl modes, with the exact diagnostic
// text and exit codes its CLI contract demands.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/oarkflow/spl/internal/ast"
	"github.com/oarkflow/spl/internal/interpreter"
	"github.com/oarkflow/spl/internal/lexer"
	"github.com/oarkflow/spl/internal/object"
	"github.com/oarkflow/spl/internal/parser"
	"github.com/oarkflow/spl/internal/splconfig"
	"github.com/oarkflow/spl/internal/splerr"
	"github.com/oarkflow/spl/internal/spllog"
	"github.com/oarkflow/spl/internal/token"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	if len(args) == 0 {
		printUsage(stderr)
		return splerr.ExitUsage
	}

	mode := args[0]
	if mode == "help" || mode == "-h" || mode == "--help" {
		printUsage(stdout)
		return splerr.ExitOK
	}
	if mode == "repl" {
		return runRepl(stdout, stderr)
	}

	if len(args) < 2 {
		printUsage(stderr)
		return splerr.ExitUsage
	}
	path := args[1]

	cfg, err := splconfig.Resolve()
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return splerr.ExitUsage
	}
	logger := spllog.New(cfg.Verbose)
	logger.Mode(mode, path)

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file: %v\n", err)
		return splerr.ExitUsage
	}

	switch mode {
	case "tokenize":
		return cmdTokenize(string(source), stdout, stderr)
	case "parse":
		return cmdParse(string(source), stdout, stderr)
	case "evaluate":
		return cmdEvaluate(string(source), cfg, logger, stdout, stderr)
	case "run":
		return cmdRun(string(source), cfg, logger, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown mode: %s\n", mode)
		printUsage(stderr)
		return splerr.ExitUsage
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: spl <mode> <file>")
	fmt.Fprintln(w, "Modes: tokenize, parse, evaluate, run, repl, help")
}

func cmdTokenize(source string, stdout, stderr *os.File) int {
	var diagnostics []string
	tokens, code := lexer.Tokenize(source, func(msg string) { diagnostics = append(diagnostics, msg) })
	for _, tok := range tokens {
		fmt.Fprintln(stdout, tok.String())
	}
	for _, d := range diagnostics {
		fmt.Fprintln(stderr, d)
	}
	return code
}

func cmdParse(source string, stdout, stderr *os.File) int {
	tokens, program, code := lexAndParse(source, stderr)
	if program == nil {
		return code
	}
	if len(program.Statements) == 1 {
		fmt.Fprintln(stdout, program.Statements[0].String())
	} else {
		fmt.Fprintln(stdout, program.String())
	}
	_ = tokens
	return splerr.ExitOK
}

func cmdEvaluate(source string, cfg *splconfig.Config, logger *spllog.Logger, stdout, stderr *os.File) int {
	_, program, code := lexAndParse(source, stderr)
	if program == nil {
		return code
	}

	in := interpreter.New(cfg, logger, func(line string) { fmt.Fprintln(stdout, line) })
	val, err := in.EvalProgram(program)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return splerr.CodeOf(err)
	}
	fmt.Fprintln(stdout, printValue(val))
	return splerr.ExitOK
}

func cmdRun(source string, cfg *splconfig.Config, logger *spllog.Logger, stdout, stderr *os.File) int {
	_, program, code := lexAndParse(source, stderr)
	if program == nil {
		return code
	}
	in := interpreter.New(cfg, logger, func(line string) { fmt.Fprintln(stdout, line) })
	if err := in.Run(program); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return splerr.CodeOf(err)
	}
	return splerr.ExitOK
}

func lexAndParse(source string, stderr *os.File) ([]token.Token, *ast.Program, int) {
	var diagnostics []string
	tokens, lexCode := lexer.Tokenize(source, func(msg string) { diagnostics = append(diagnostics, msg) })
	if lexCode != splerr.ExitOK {
		for _, d := range diagnostics {
			fmt.Fprintln(stderr, d)
		}
		return tokens, nil, lexCode
	}

	program, err := parser.ParseProgram(tokens)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return tokens, nil, splerr.CodeOf(err)
	}
	return tokens, program, splerr.ExitOK
}

// printValue renders a value for evaluate mode's single-line result,
// matching how print statements render the same value inside a
// running program.
func printValue(v object.Value) string { return v.Print() }

func runRepl(stdout, stderr *os.File) int {
	fmt.Fprintln(stdout, "Welcome to the Simple Programming Language!")
	fmt.Fprintln(stdout, "Type 'exit' to quit")
	fmt.Fprintln(stdout, "For multi-line input: ensure braces {} are balanced")
	fmt.Fprintln(stdout)

	cfg, err := splconfig.Resolve()
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		cfg = splconfig.Default()
	}
	logger := spllog.New(cfg.Verbose)
	in := interpreter.New(cfg, logger, func(line string) { fmt.Fprintln(stdout, line) })

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(stdout, ">> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}

		input := line
		braces := countBraces(line)
		for braces > 0 {
			fmt.Fprint(stdout, ".. ")
			if !scanner.Scan() {
				break
			}
			next := scanner.Text()
			input += "\n" + next
			braces += countBraces(next)
			if next == "" && braces <= 0 {
				break
			}
		}

		replOne(input, in, stdout, stderr)
	}
	return splerr.ExitOK
}

func replOne(input string, in *interpreter.Interpreter, stdout, stderr *os.File) {
	var diagnostics []string
	tokens, lexCode := lexer.Tokenize(input, func(msg string) { diagnostics = append(diagnostics, msg) })
	if lexCode != splerr.ExitOK {
		for _, d := range diagnostics {
			fmt.Fprintln(stderr, d)
		}
		return
	}
	program, err := parser.ParseProgram(tokens)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return
	}
	if err := in.Run(program); err != nil {
		fmt.Fprintln(stderr, err.Error())
	}
}

// countBraces tracks how many `{`/`}` a line contributes, used by the
// repl to decide whether to keep reading a multi-line statement.
func countBraces(line string) int {
	count := 0
	for _, ch := range line {
		switch ch {
		case '{':
			count++
		case '}':
			count--
		}
	}
	return count
}
