package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vipyrdocs/internal/config"
	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/diagfmt"
	"vipyrdocs/internal/driver"
	"vipyrdocs/internal/version"
)

// newCheckCmd registers the check command and its flags.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Check docstrings in Python files or directories",
		Long: `Check every *.py file under the given paths (default: the current directory).
Settings are read from vipyrdocs.toml, .vipyrdocs.yaml or [tool.vipyrdocs] in
pyproject.toml, searched upwards from the first path; flags override them.`,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif|golden)")
	cmd.Flags().StringSlice("disable", nil, "rule IDs or names to disable, e.g. DCO020,returns-missing")
	cmd.Flags().StringSlice("exclude", nil, "glob patterns of files or directories to skip")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("config", "", "settings file to use instead of discovery")
	cmd.Flags().Bool("no-config", false, "ignore settings files")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged files from the disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop the disk cache before checking")
	cmd.Flags().String("path", "auto", "path style in output (auto|absolute|relative|basename)")
	cmd.Flags().Bool("fullpath", false, "shorthand for --path=absolute")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("skip-private", true, "skip definitions named _x (dunder names are still checked)")
	cmd.Flags().Bool("skip-tests", true, "skip test_* functions and fixtures in test files")
	cmd.Flags().Bool("skip-overloads", true, "skip @overload stubs")
	cmd.Flags().String("more-info-base", "", "URL prefix of the \"more info\" link")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	return cmd
}

// checkFlags - разобранные флаги check.
type checkFlags struct {
	format     diagfmt.Format
	pathMode   diagfmt.PathMode
	uiMode     uiMode
	quiet      bool
	timings    bool
	withNotes  bool
	maxDiags   int
	clearCache bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, paths[0])
	if err != nil {
		return err
	}

	opts := driver.Options{
		Lint:           cfg.LintOptions(),
		Jobs:           cfg.Jobs,
		Exclude:        cfg.Exclude,
		MaxDiagnostics: flags.maxDiags,
		// в pretty/short тайминги печатаются отдельно, в json/sarif идут диагностикой
		Timings: flags.timings && (flags.format == diagfmt.FormatJSON || flags.format == diagfmt.FormatSarif),
	}
	if cfg.Cache || flags.clearCache {
		cache, err := driver.OpenDiskCache("vipyrdocs")
		if err != nil {
			warnf(cmd, flags.quiet, "disk cache disabled: %v", err)
		} else {
			if flags.clearCache {
				if err := cache.DropAll(); err != nil {
					warnf(cmd, flags.quiet, "failed to clear disk cache: %v", err)
				}
			}
			if cfg.Cache {
				opts.Cache = cache
			}
		}
	}

	var res *driver.Result
	if wantProgressUI(flags) {
		res, err = runCheckWithUI(cmd.Context(), "vipyrdocs check", paths, opts)
	} else {
		res, err = driver.CheckPaths(cmd.Context(), paths, opts)
	}
	if err != nil {
		if ctxErr := cmd.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, errInterrupted) {
			return err
		}
		return usageError{err: err}
	}

	if err := writeResult(cmd, res, flags, cfg.MoreInfoBase); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errFindings
	}
	return nil
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if f.format, err = diagfmt.ParseFormat(strings.ToLower(formatStr)); err != nil {
		return f, usageError{err: err}
	}

	pathStr, err := cmd.Flags().GetString("path")
	if err != nil {
		return f, fmt.Errorf("failed to get path flag: %w", err)
	}
	if f.pathMode, err = diagfmt.ParsePathMode(strings.ToLower(pathStr)); err != nil {
		return f, usageError{err: err}
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		if cmd.Flags().Changed("path") && f.pathMode != diagfmt.PathModeAbsolute {
			return f, usagef("--fullpath conflicts with --path=%s", pathStr)
		}
		f.pathMode = diagfmt.PathModeAbsolute
	}

	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.uiMode, err = readUIMode(uiStr); err != nil {
		return f, err
	}

	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.clearCache, err = cmd.Flags().GetBool("clear-cache"); err != nil {
		return f, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	return f, nil
}

// resolveConfig loads the settings file and applies the flags the user set
// explicitly; unset flags never override the file.
func resolveConfig(cmd *cobra.Command, start string) (config.Config, error) {
	noConfig, err := cmd.Flags().GetBool("no-config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	switch {
	case noConfig && explicit != "":
		return config.Config{}, usagef("--config and --no-config cannot be used together")
	case noConfig:
		cfg = config.Default()
	case explicit != "":
		cfg, err = config.Load(explicit)
	default:
		cfg, err = config.Discover(start)
	}
	if err != nil {
		return config.Config{}, usageError{err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("disable") {
		ids, _ := flags.GetStringSlice("disable")
		if err := cfg.DisableIDs(ids); err != nil {
			return config.Config{}, usageError{err: fmt.Errorf("--disable: %w", err)}
		}
	}
	if flags.Changed("exclude") {
		patterns, _ := flags.GetStringSlice("exclude")
		cfg.Exclude = append(cfg.Exclude, patterns...)
	}
	if flags.Changed("jobs") {
		jobs, _ := flags.GetInt("jobs")
		if jobs < 0 {
			return config.Config{}, usagef("--jobs must be >= 0")
		}
		cfg.Jobs = jobs
	}
	boolFlags := []struct {
		name string
		dst  *bool
	}{
		{"skip-private", &cfg.SkipPrivate},
		{"skip-tests", &cfg.SkipTests},
		{"skip-overloads", &cfg.SkipOverloads},
		{"cache", &cfg.Cache},
	}
	for _, bf := range boolFlags {
		if flags.Changed(bf.name) {
			*bf.dst, _ = flags.GetBool(bf.name)
		}
	}
	if flags.Changed("more-info-base") {
		base, _ := flags.GetString("more-info-base")
		if strings.TrimSpace(base) == "" {
			return config.Config{}, usagef("--more-info-base must not be empty")
		}
		cfg.MoreInfoBase = base
	}
	return cfg, nil
}

func writeResult(cmd *cobra.Command, res *driver.Result, flags checkFlags, moreInfoBase string) error {
	out := cmd.OutOrStdout()
	var err error
	switch flags.format {
	case diagfmt.FormatJSON:
		err = diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			PathMode:     flags.pathMode,
			IncludeNotes: flags.withNotes,
		})
	case diagfmt.FormatSarif:
		err = diagfmt.Sarif(out, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "vipyrdocs",
			ToolVersion:    version.Version,
			MoreInfoBase:   moreInfoBase,
			InvocationArgs: os.Args[1:],
		})
	case diagfmt.FormatShort:
		err = diagfmt.Short(out, res.Bag, res.FileSet, flags.pathMode)
	case diagfmt.FormatGolden:
		if text := diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, flags.withNotes); text != "" {
			_, err = fmt.Fprintln(out, text)
		}
	default:
		colorOn, cerr := colorEnabled(cmd, os.Stdout)
		if cerr != nil {
			return cerr
		}
		err = diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     colorOn,
			PathMode:  flags.pathMode,
			Context:   true,
			Width:     terminalWidth(os.Stdout),
			ShowNotes: flags.withNotes,
		})
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if flags.format == diagfmt.FormatPretty || flags.format == diagfmt.FormatShort {
		errOut := cmd.ErrOrStderr()
		if flags.timings {
			printTimings(errOut, res)
		}
		if !flags.quiet {
			printSummary(errOut, res)
		}
	}
	return nil
}

func printSummary(w io.Writer, res *driver.Result) {
	if len(res.Files) == 0 {
		fmt.Fprintln(w, "vipyrdocs: no Python files found")
		return
	}
	errs, warns := res.Bag.Count(diag.SevError), res.Bag.Count(diag.SevWarning)
	fmt.Fprintf(w, "%d files checked, %d findings, %d warnings", res.Checked(), errs, warns)
	if res.CacheHits > 0 {
		fmt.Fprintf(w, " (%d from cache)", res.CacheHits)
	}
	fmt.Fprintln(w)
}

func warnf(cmd *cobra.Command, quiet bool, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "vipyrdocs: warning: "+format+"\n", args...)
}
