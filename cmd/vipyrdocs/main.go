package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vipyrdocs/internal/version"
)

// Exit codes.
const (
	exitClean    = 0
	exitFindings = 1
	exitUsage    = 2
)

// errFindings сигнализирует, что есть диагностики уровня error; сообщение не печатается.
var errFindings = errors.New("docstring findings reported")

// usageError marks bad flags, bad configuration and missing targets.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// newRootCmd builds the command tree. The returned func releases the tracer
// and must run after Execute, whatever its outcome.
func newRootCmd() (*cobra.Command, func()) {
	root := &cobra.Command{
		Use:           "vipyrdocs",
		Short:         "Check that Python docstrings match the code they document",
		Long:          `vipyrdocs checks the Args, Returns, Yields, Raises and Attributes sections of Python docstrings against function signatures and bodies.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to report (0 = unlimited)")
	root.PersistentFlags().StringArray("trace", nil, "trace output file, \"-\" for stderr; repeat to write several")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")

	var cleanup func()
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		c, err := setupTracing(cmd)
		if err != nil {
			return usageError{err: err}
		}
		cleanup = c
		return nil
	}

	root.AddCommand(newCheckCmd(), newRulesCmd(), newVersionCmd())
	return root, func() {
		if cleanup != nil {
			cleanup()
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome onto an exit code.
func run(ctx context.Context, args []string) int {
	return runWith(ctx, args, os.Stdout, os.Stderr)
}

func runWith(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, cleanup := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	cleanup()
	switch {
	case err == nil:
		return exitClean
	case errors.Is(err, errFindings):
		return exitFindings
	default:
		fmt.Fprintf(root.ErrOrStderr(), "vipyrdocs: %v\n", err)
		// ошибки cobra при разборе флагов тоже usage
		return exitUsage
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves --color; auto honours NO_COLOR via color.NoColor.
func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return !color.NoColor && isTerminal(f), nil
	}
	return false, usagef("invalid --color value %q (expected auto|on|off)", mode)
}

// terminalWidth returns the width of f, or 0 when it is not a terminal.
func terminalWidth(f *os.File) int {
	if !isTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
