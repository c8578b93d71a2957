package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ibfleming/cminus/internal/ast"
	"github.com/ibfleming/cminus/internal/codegen"
	"github.com/ibfleming/cminus/internal/errors"
	"github.com/ibfleming/cminus/internal/layout"
	"github.com/ibfleming/cminus/internal/lexer"
	"github.com/ibfleming/cminus/internal/parser"
	"github.com/ibfleming/cminus/internal/semantic"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	flagPrintPlain  bool
	flagPrintTyped  bool
	flagPrintMemory bool
	flagParserDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "cminus <source>.c-",
	Short: "C- compiler targeting the TM virtual machine",
	Long: `cminus compiles a single C- source file to TM assembly.

It lexes and parses the source, runs semantic analysis (scoping,
typing, declaration/use diagnostics), lays out memory for every
declaration, and emits a .tm assembly listing next to the input file.`,
	Version:      Version,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCompile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().BoolVarP(&flagPrintPlain, "print-ast", "p", false, "print AST without types")
	rootCmd.Flags().BoolVarP(&flagPrintTyped, "print-typed", "P", false, "print AST with types")
	rootCmd.Flags().BoolVarP(&flagPrintMemory, "print-memory", "M", false, "print augmented (memory) AST")
	rootCmd.Flags().BoolVarP(&flagParserDebug, "debug", "d", false, "parser debugging (accepted; the parser has no debug output, so this has no effect)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	reporter := errors.NewReporter()

	l := lexer.New(string(src))
	p := parser.New(l)
	program := p.ParseProgram()
	for _, msg := range p.Errors() {
		// Parser messages read "line N: ..."; report them at line N so
		// they are not rendered in the line-less LINKER form.
		line, text := 0, msg
		if head, rest, ok := strings.Cut(msg, ": "); ok {
			if _, err := fmt.Sscanf(head, "line %d", &line); err == nil {
				text = rest
			}
		}
		reporter.Errorf(line, "%s", text)
	}

	analyzer := semantic.NewAnalyzer(reporter)
	root := analyzer.Analyze(program)

	if flagPrintPlain {
		ast.Print(os.Stdout, root, ast.PrintPlain)
	}
	if flagPrintTyped {
		ast.Print(os.Stdout, root, ast.PrintTyped)
	}

	var lay *layout.Layout
	if !reporter.HasErrors() {
		lay = layout.Run(root)
		layout.FixupEmbeddedLoops(root)
	}

	if flagPrintMemory {
		ast.Print(os.Stdout, root, ast.PrintMemory)
	}

	if !reporter.HasErrors() {
		buf := codegen.Generate(root, analyzer.Table(), lay.Goffset(), reporter)

		outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".tm"
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		writeErr := codegen.WriteListing(out, buf)
		closeErr := out.Close()
		if writeErr != nil {
			return fmt.Errorf("writing %s: %w", outPath, writeErr)
		}
		if closeErr != nil {
			return fmt.Errorf("closing %s: %w", outPath, closeErr)
		}
	}

	reporter.WriteTo(os.Stdout)

	return nil
}
