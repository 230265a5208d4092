package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"unifile/internal/driver"
	"unifile/internal/observ"
	"unifile/internal/project"
	"unifile/internal/settings"
	"unifile/internal/source"
	"unifile/internal/trace"
	"unifile/internal/version"
)

// fixRun is everything runFix needs once flags are parsed.
type fixRun struct {
	opts   driver.FixOptions
	format string
	ui     uiMode
	quiet  bool
	paths  []string
}

func newFixCmd(check bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <path> [path...]",
		Short: "Normalize indentation and whitespace in place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, check)
		},
	}
	if check {
		cmd.Use = "check [flags] <path> [path...]"
		cmd.Short = "Report files that fix would change"
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "write results under DIR instead of in place")
	flags.IntP("tab-size", "s", 4, "tab width")
	flags.StringP("indent-char", "c", "auto", "indentation character (auto|space|tab)")
	flags.StringP("trim", "t", "auto", "trim trailing whitespace (auto|true|false)")
	flags.StringP("line-endings", "l", "auto", "line endings (auto|lf|crlf|cr)")
	flags.StringArrayP("encoding", "e", nil, "input encoding, repeat for fallback order")
	flags.StringArrayP("include", "i", nil, "only process paths matching REGEX (repeatable)")
	flags.StringArrayP("exclude", "x", nil, "skip paths matching REGEX (repeatable)")
	flags.BoolP("realign", "r", false, "realign column chunks onto tab stops")
	if !check {
		flags.Bool("check", false, "report files that would change and exit 1 if any")
	}
	flags.Bool("stdout", false, "print results instead of writing files")
	flags.Bool("diff", false, "print a unified diff instead of writing files")
	flags.String("format", "text", "output format (text|json)")
	flags.Int("jobs", 0, "number of parallel workers (0 = one per CPU)")
	flags.Bool("cache", false, "skip files already normalized under the same settings")
	flags.Bool("cache-clear", false, "empty the on-disk cache before running")
	flags.Bool("no-editorconfig", false, "ignore .editorconfig files")
	flags.Bool("skip-vendored", false, "skip vendored and generated dependency paths")
	flags.String("ui", "auto", "progress view (auto|on|off)")
	return cmd
}

func runFix(cmd *cobra.Command, args []string, check bool) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	tracer, cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanupTrace()

	stopProfile, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfile()

	showTimings, err := timingsEnabled(cmd)
	if err != nil {
		return err
	}

	run, err := buildFixRun(cmd, args, check)
	if err != nil {
		return err
	}
	if showTimings {
		run.opts.Timer = observ.NewTimer()
	}

	ctx := cmd.Context()
	results, err := executeFix(ctx, run)
	if err != nil {
		if errors.Is(err, driver.ErrNoFiles) {
			return fmt.Errorf("no files to process in %s", strings.Join(args, ", "))
		}
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	var summary fixSummary
	switch {
	case run.format == "json":
		summary, err = renderFixJSON(out, results)
		if err != nil {
			return err
		}
	case run.opts.Stdout:
		summary = renderFixStdout(out, errOut, results)
	case run.opts.Diff:
		summary = renderFixDiff(out, errOut, results)
	default:
		summary = renderFixText(out, errOut, results, run.opts.Check, run.quiet)
	}

	if run.opts.Timer != nil {
		if err := writeTimings(cmd, out, run.opts.Timer, run.format == "json"); err != nil {
			return err
		}
	}

	if summary.failed > 0 {
		dumpTraceRing(cmd, tracer)
		return fmt.Errorf("%d file(s) failed: %w", summary.failed, errReported)
	}
	if run.opts.Check && summary.changed > 0 {
		if !run.quiet && run.format != "json" {
			fmt.Fprintf(errOut, "%d file(s) would change\n", summary.changed)
		}
		return errReported
	}
	return nil
}

func executeFix(ctx context.Context, run fixRun) ([]driver.FixResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	idx := run.opts.Timer.Begin("collect")
	files, err := driver.CollectFiles(ctx, run.paths, run.opts.Filter)
	run.opts.Timer.End(idx, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, driver.ErrNoFiles
	}

	stdoutIsData := run.opts.Stdout || run.opts.Diff || run.format == "json"
	if !run.quiet && shouldUseTUI(run.ui, stdoutIsData) {
		title := "unifile fix"
		if run.opts.Check {
			title = "unifile check"
		}
		return runFixWithUI(ctx, title, files, run.opts)
	}
	return driver.FixFiles(ctx, files, run.opts)
}

// buildFixRun validates flags, loads the manifest and assembles driver options.
// Nothing is touched on disk when it fails.
func buildFixRun(cmd *cobra.Command, args []string, check bool) (fixRun, error) {
	flags := cmd.Flags()
	run := fixRun{paths: args}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return run, err
	}
	run.quiet = quiet

	if !check {
		if check, err = flags.GetBool("check"); err != nil {
			return run, err
		}
	}
	run.opts.Check = check
	if run.opts.Stdout, err = flags.GetBool("stdout"); err != nil {
		return run, err
	}
	if run.opts.Diff, err = flags.GetBool("diff"); err != nil {
		return run, err
	}
	if run.opts.OutputDir, err = flags.GetString("output"); err != nil {
		return run, err
	}
	if err := checkModes(run.opts); err != nil {
		return run, err
	}

	format, err := flags.GetString("format")
	if err != nil {
		return run, err
	}
	run.format = strings.ToLower(strings.TrimSpace(format))
	switch run.format {
	case "text", "json":
	default:
		return run, fmt.Errorf("unsupported output format %q (expected text|json)", format)
	}
	if run.opts.Stdout && run.format != "text" {
		return run, errors.New("--stdout is only supported with text output")
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return run, err
	}
	if run.ui, err = readUIMode(uiValue); err != nil {
		return run, err
	}

	if run.opts.Flags, err = readSettingFlags(cmd); err != nil {
		return run, err
	}

	manifest, _, err := project.LoadNearest(args[0])
	if err != nil {
		return run, err
	}
	var fixDefaults project.FixSection
	if manifest != nil {
		fixDefaults = manifest.Fix
	}

	include, err := stringsFlagOr(cmd, "include", fixDefaults.Include)
	if err != nil {
		return run, err
	}
	exclude, err := stringsFlagOr(cmd, "exclude", fixDefaults.Exclude)
	if err != nil {
		return run, err
	}
	if run.opts.Filter, err = driver.NewFilter(include, exclude); err != nil {
		return run, err
	}
	if run.opts.Filter.SkipVendored, err = flags.GetBool("skip-vendored"); err != nil {
		return run, err
	}

	encodings, err := stringsFlagOr(cmd, "encoding", fixDefaults.Encodings)
	if err != nil {
		return run, err
	}
	for _, enc := range encodings {
		if err := source.ValidEncoding(enc); err != nil {
			return run, fmt.Errorf("--encoding: %w", err)
		}
	}
	run.opts.Encodings = encodings

	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return run, err
	}
	if !flags.Changed("jobs") {
		jobs = fixDefaults.Jobs
	}
	if jobs < 0 {
		return run, fmt.Errorf("--jobs must not be negative, got %d", jobs)
	}
	run.opts.Jobs = jobs

	noEditorConfig, err := flags.GetBool("no-editorconfig")
	if err != nil {
		return run, err
	}
	if !noEditorConfig {
		run.opts.Sources = append(run.opts.Sources, settings.Named{
			Layer:  settings.LayerEditorConfig,
			Source: settings.EditorConfig{OnError: editorConfigWarner(cmd, quiet)},
		})
	}
	if manifest != nil {
		run.opts.Sources = append(run.opts.Sources, settings.Named{
			Layer:  settings.LayerManifest,
			Source: settings.ManifestSource{Manifest: manifest},
		})
	}

	useCache, err := flags.GetBool("cache")
	if err != nil {
		return run, err
	}
	clearCache, err := flags.GetBool("cache-clear")
	if err != nil {
		return run, err
	}
	if useCache || clearCache {
		cache, err := driver.OpenDiskCache("unifile")
		if err != nil {
			return run, fmt.Errorf("failed to open cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return run, fmt.Errorf("failed to clear cache: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "cache cleared: %s\n", cache.Dir())
			}
		}
		if useCache {
			run.opts.Cache = cache
			run.opts.ToolVersion = version.Version
		}
	}
	return run, nil
}

func checkModes(opts driver.FixOptions) error {
	modes := 0
	for _, on := range []bool{opts.Check, opts.Stdout, opts.Diff} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return errors.New("--check, --stdout and --diff are mutually exclusive")
	}
	if modes == 1 && opts.OutputDir != "" {
		return errors.New("--output cannot be combined with --check, --stdout or --diff")
	}
	return nil
}

// readSettingFlags turns the command line into the highest priority layer.
// "auto" and flags that were not given leave the value unset.
func readSettingFlags(cmd *cobra.Command) (settings.Partial, error) {
	flags := cmd.Flags()
	var p settings.Partial

	if flags.Changed("tab-size") {
		width, err := flags.GetInt("tab-size")
		if err != nil {
			return p, err
		}
		if width <= 0 {
			return p, fmt.Errorf("--tab-size must be positive, got %d", width)
		}
		p.TabWidth = &width
	}

	indentChar, err := flags.GetString("indent-char")
	if err != nil {
		return p, err
	}
	if !isAuto(indentChar) {
		useTabs, ok := settings.ParseStyle(indentChar)
		if !ok {
			return p, fmt.Errorf("invalid --indent-char value %q (expected auto|space|tab)", indentChar)
		}
		p.UseTabs = &useTabs
	}

	trimValue, err := flags.GetString("trim")
	if err != nil {
		return p, err
	}
	if !isAuto(trimValue) {
		trim, err := parseSwitch(trimValue)
		if err != nil {
			return p, fmt.Errorf("invalid --trim value: %w", err)
		}
		p.Trim = &trim
	}

	eolValue, err := flags.GetString("line-endings")
	if err != nil {
		return p, err
	}
	if !isAuto(eolValue) {
		term, err := source.ParseTerminator(eolValue)
		if err != nil {
			return p, fmt.Errorf("invalid --line-endings value: %w", err)
		}
		p.EndOfLine = &term
	}

	if flags.Changed("realign") {
		realign, err := flags.GetBool("realign")
		if err != nil {
			return p, err
		}
		p.Realign = &realign
	}
	return p, nil
}

func isAuto(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || v == "auto"
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a boolean", value)
	}
}

// stringsFlagOr returns the flag value when given, fallback otherwise.
func stringsFlagOr(cmd *cobra.Command, name string, fallback []string) ([]string, error) {
	if !cmd.Flags().Changed(name) {
		return fallback, nil
	}
	return cmd.Flags().GetStringArray(name)
}

func editorConfigWarner(cmd *cobra.Command, quiet bool) func(path string, err error) {
	var mu sync.Mutex
	return func(path string, err error) {
		trace.Point(trace.FromContext(cmd.Context()), trace.ScopeFile, "editorconfig", err.Error(), 0)
		if quiet {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(cmd.ErrOrStderr(), "unifile: %s: .editorconfig ignored: %v\n", path, err)
	}
}

// printFileError is the one place per-file failures are rendered.
func printFileError(errOut io.Writer, res driver.FixResult) {
	fmt.Fprintf(errOut, "%s %s: %v\n", errorColor.Sprint("unifile:"), res.Path, res.Err)
}
