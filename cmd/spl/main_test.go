package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempSource(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "source.lox")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp source: %v", err)
	}
	return path
}

func runCapture(t *testing.T, args []string) (stdout, stderr string, code int) {
	t.Helper()
	dir := t.TempDir()
	outFile, err := os.Create(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	errFile, err := os.Create(filepath.Join(dir, "err"))
	if err != nil {
		t.Fatal(err)
	}
	code = run(args, outFile, errFile)
	outFile.Close()
	errFile.Close()

	outBytes, _ := os.ReadFile(outFile.Name())
	errBytes, _ := os.ReadFile(errFile.Name())
	return string(outBytes), string(errBytes), code
}

func TestRunModeExitsZeroOnSuccess(t *testing.T) {
	path := writeTempSource(t, `print 1 + 1;`)
	stdout, _, code := runCapture(t, []string{"run", path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "2\n" {
		t.Errorf("stdout = %q, want %q", stdout, "2\n")
	}
}

func TestTokenizeModeExits65OnLexError(t *testing.T) {
	path := writeTempSource(t, `"unterminated`)
	_, stderr, code := runCapture(t, []string{"tokenize", path})
	if code != 65 {
		t.Fatalf("exit code = %d, want 65", code)
	}
	if stderr == "" {
		t.Error("expected a diagnostic on stderr")
	}
}

func TestParseModeExits65OnSyntaxError(t *testing.T) {
	path := writeTempSource(t, `(1 + 2;`)
	_, stderr, code := runCapture(t, []string{"parse", path})
	if code != 65 {
		t.Fatalf("exit code = %d, want 65", code)
	}
	if stderr == "" {
		t.Error("expected a diagnostic on stderr")
	}
}

func TestRunModeExits70OnRuntimeError(t *testing.T) {
	path := writeTempSource(t, `print missing;`)
	_, stderr, code := runCapture(t, []string{"run", path})
	if code != 70 {
		t.Fatalf("exit code = %d, want 70", code)
	}
	if stderr == "" {
		t.Error("expected a diagnostic on stderr")
	}
}

func TestNoArgsExits1(t *testing.T) {
	_, _, code := runCapture(t, nil)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestMissingFileExits1(t *testing.T) {
	_, _, code := runCapture(t, []string{"run", "/nonexistent/path/to/source.lox"})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestEvaluateModePrintsExpressionValue(t *testing.T) {
	path := writeTempSource(t, `1 + 2;`)
	stdout, _, code := runCapture(t, []string{"evaluate", path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "3\n" {
		t.Errorf("stdout = %q, want %q", stdout, "3\n")
	}
}

func TestEvaluateModeOnWholeProgramPrintsLastStatementValue(t *testing.T) {
	path := writeTempSource(t, `
		var x = 1;
		var y = 2;
		x + y;
	`)
	stdout, _, code := runCapture(t, []string{"evaluate", path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "3\n" {
		t.Errorf("stdout = %q, want %q", stdout, "3\n")
	}
}

func TestEvaluateModeRunsSideEffectsBeforeFinalValue(t *testing.T) {
	path := writeTempSource(t, `
		print "hi";
		42;
	`)
	stdout, _, code := runCapture(t, []string{"evaluate", path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "hi\n42\n" {
		t.Errorf("stdout = %q, want %q", stdout, "hi\n42\n")
	}
}

func TestParseModePrintsSingleChildUnwrapped(t *testing.T) {
	path := writeTempSource(t, `1 + 2;`)
	stdout, _, code := runCapture(t, []string{"parse", path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "(+ 1.0 2.0)\n" {
		t.Errorf("stdout = %q, want %q", stdout, "(+ 1.0 2.0)\n")
	}
}

func TestParseModePrintsProgramNodeForMultipleStatements(t *testing.T) {
	path := writeTempSource(t, `
		1;
		2;
	`)
	stdout, _, code := runCapture(t, []string{"parse", path})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if stdout != "(program 1.0 2.0)\n" {
		t.Errorf("stdout = %q, want %q", stdout, "(program 1.0 2.0)\n")
	}
}

func TestHelpModeExitsZero(t *testing.T) {
	_, _, code := runCapture(t, []string{"help"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}
