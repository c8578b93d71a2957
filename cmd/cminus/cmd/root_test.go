package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetFlags() {
	flagPrintPlain = false
	flagPrintTyped = false
	flagPrintMemory = false
	flagParserDebug = false
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.c-")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	return path
}

func TestRunCompileWritesTMListingForValidProgram(t *testing.T) {
	resetFlags()
	path := writeSource(t, `int main() { return 0; }`)

	out := captureStdout(t, func() {
		if err := runCompile(rootCmd, []string{path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if !strings.Contains(out, "Number of warnings: 0") || !strings.Contains(out, "Number of errors: 0") {
		t.Fatalf("expected a clean two-line summary, got:\n%s", out)
	}

	tmPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".tm"
	if _, err := os.Stat(tmPath); err != nil {
		t.Fatalf("expected a .tm file to be written: %v", err)
	}
}

func TestRunCompileSummaryAppearsExactlyOnce(t *testing.T) {
	resetFlags()
	path := writeSource(t, `int main() { return 0; }`)

	out := captureStdout(t, func() {
		if err := runCompile(rootCmd, []string{path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if n := strings.Count(out, "Number of errors"); n != 1 {
		t.Fatalf("expected the error summary line exactly once, found %d in:\n%s", n, out)
	}
}

func TestRunCompileSkipsTMFileOnSemanticError(t *testing.T) {
	resetFlags()
	path := writeSource(t, `int main() { return undeclared; }`)

	out := captureStdout(t, func() {
		if err := runCompile(rootCmd, []string{path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if !strings.Contains(out, "ERROR") {
		t.Fatalf("expected an ERROR diagnostic, got:\n%s", out)
	}

	tmPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".tm"
	if _, err := os.Stat(tmPath); err == nil {
		t.Fatalf("expected no .tm file to be written when semantic errors are present")
	}
}

func TestRunCompileMissingFileReturnsError(t *testing.T) {
	resetFlags()
	err := runCompile(rootCmd, []string{filepath.Join(t.TempDir(), "missing.c-")})
	if err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}

func TestRunCompilePrintASTFlagEmitsPlainTree(t *testing.T) {
	resetFlags()
	flagPrintPlain = true
	defer resetFlags()
	path := writeSource(t, `int main() { return 0; }`)

	out := captureStdout(t, func() {
		if err := runCompile(rootCmd, []string{path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if !strings.Contains(out, "Func") {
		t.Fatalf("expected the printed AST to mention the Func node, got:\n%s", out)
	}
}

func TestRunCompilePrintMemoryFlagIncludesLayoutFields(t *testing.T) {
	resetFlags()
	flagPrintMemory = true
	defer resetFlags()
	path := writeSource(t, `int main() { return 0; }`)

	out := captureStdout(t, func() {
		if err := runCompile(rootCmd, []string{path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if !strings.Contains(out, "loc:") {
		t.Fatalf("expected memory-mode output to include location annotations, got:\n%s", out)
	}
}
