// Package errors collects and formats the compiler's diagnostic stream.
//
// Diagnostics come in two severities (errors halt code generation,
// warnings do not) and are rendered in the exact wire format the
// assignment test harness matches against: "ERROR(<line>): <message>" or
// "WARNING(<line>): <message>", plus the special "ERROR(LINKER): ..."
// form for the missing-main diagnostic. A Reporter is a single mutable
// counter-and-log pair threaded through semantic analysis and code
// generation; nothing here owns AST nodes.
package errors

import (
	"fmt"
	"io"
	"strings"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

// Diagnostic is one reported message, in the order it was emitted.
type Diagnostic struct {
	Severity Severity
	Line     int
	Message  string
}

// String renders the diagnostic in the compiler's external wire format.
func (d Diagnostic) String() string {
	tag := "WARNING"
	if d.Severity == Error {
		tag = "ERROR"
	}
	if d.Line == 0 {
		return fmt.Sprintf("%s(LINKER): %s", tag, d.Message)
	}
	return fmt.Sprintf("%s(%d): %s", tag, d.Line, d.Message)
}

// Reporter accumulates diagnostics in emission order and tracks the
// warning/error counters the rest of the pipeline consults to decide
// whether to proceed.
type Reporter struct {
	diags []Diagnostic
	errs  int
	warns int
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Errorf records an error at the given source line.
func (r *Reporter) Errorf(line int, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{Severity: Error, Line: line, Message: fmt.Sprintf(format, args...)})
	r.errs++
}

// LinkerErrorf records the special no-line-number LINKER error (missing
// main, per §4.3's post-pass check).
func (r *Reporter) LinkerErrorf(format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{Severity: Error, Line: 0, Message: fmt.Sprintf(format, args...)})
	r.errs++
}

// Warnf records a warning at the given source line.
func (r *Reporter) Warnf(line int, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{Severity: Warning, Line: line, Message: fmt.Sprintf(format, args...)})
	r.warns++
}

// HasErrors reports whether any error-severity diagnostic has been
// recorded. Code generation is skipped when this is true.
func (r *Reporter) HasErrors() bool { return r.errs > 0 }

// ErrorCount and WarningCount return the running totals.
func (r *Reporter) ErrorCount() int   { return r.errs }
func (r *Reporter) WarningCount() int { return r.warns }

// Diagnostics returns the recorded diagnostics in emission order.
func (r *Reporter) Diagnostics() []Diagnostic { return r.diags }

// WriteTo writes every diagnostic followed by the mandatory two-line
// summary, which is always written regardless of outcome.
func (r *Reporter) WriteTo(w io.Writer) {
	for _, d := range r.diags {
		fmt.Fprintln(w, d.String())
	}
	fmt.Fprint(w, r.Summary())
}

// Summary renders the two-line "Number of warnings: N / Number of
// errors: M" footer required by §6.
func (r *Reporter) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Number of warnings: %d\n", r.warns)
	fmt.Fprintf(&sb, "Number of errors: %d\n", r.errs)
	return sb.String()
}
