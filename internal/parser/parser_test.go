package parser

import (
	"testing"

	"github.com/oarkflow/spl/internal/lexer"
	"github.com/oarkflow/spl/internal/splerr"
)

func mustParse(t *testing.T, source string) string {
	t.Helper()
	tokens, code := lexer.Tokenize(source, func(msg string) { t.Fatalf("lex error: %s", msg) })
	if code != 0 {
		t.Fatalf("lex exit code %d", code)
	}
	program, err := ParseProgram(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program.String()
}

func TestPrecedenceMultiplicationBeforeAddition(t *testing.T) {
	got := mustParse(t, "1 + 2 * 3;")
	want := "(program (+ 1.0 (* 2.0 3.0)))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrecedenceComparisonAndEquality(t *testing.T) {
	got := mustParse(t, "1 < 2 == 3 < 4;")
	want := "(program (== (< 1.0 2.0) (< 3.0 4.0)))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	got := mustParse(t, "(1 + 2) * 3;")
	want := "(program (* (group (+ 1.0 2.0)) 3.0))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	got := mustParse(t, "a = b = 3;")
	want := "(program (= a (= b 3.0)))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInvalidAssignmentTargetIsRuntimeCodedError(t *testing.T) {
	tokens, _ := lexer.Tokenize("1 + 2 = 3;", nil)
	_, err := ParseProgram(tokens)
	if err == nil {
		t.Fatal("expected an error for an invalid assignment target")
	}
	if code := splerr.CodeOf(err); code != splerr.ExitRuntime {
		t.Errorf("exit code = %d, want %d", code, splerr.ExitRuntime)
	}
}

func TestForDesugarsToBlockAndWhile(t *testing.T) {
	got := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	want := "(program (block (var i = 0.0) (while (< i 3.0) (block (print i) (= i (+ i 1.0))))))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFunctionDeclarationAndCall(t *testing.T) {
	got := mustParse(t, "fun add(a, b) { return a + b; } add(1, 2);")
	want := "(program (fun add (a b) (block (return (+ a b)))) (call add 1.0 2.0))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestChainedCallExpression(t *testing.T) {
	got := mustParse(t, "makeAdder()(1);")
	want := "(program (call (call makeAdder) 1.0))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIfElseStatement(t *testing.T) {
	got := mustParse(t, "if (true) print 1; else print 2;")
	want := "(program (if true (print 1.0) (print 2.0)))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestShortCircuitOperatorsParseAsLogical(t *testing.T) {
	got := mustParse(t, "a and b or c;")
	want := "(program (or (and a b) c))"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMissingClosingParenIsSyntaxError(t *testing.T) {
	tokens, _ := lexer.Tokenize("(1 + 2;", nil)
	_, err := ParseProgram(tokens)
	if err == nil {
		t.Fatal("expected a syntax error for the missing ')'")
	}
}
