package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"unifile/internal/indent"
	"unifile/internal/observ"
	"unifile/internal/project"
	"unifile/internal/settings"
	"unifile/internal/source"
	"unifile/internal/trace"
)

// headSize is how much of a file is handed to language detection.
const headSize = 8 << 10

// ErrNoFiles is returned by FixPaths when nothing matched.
var ErrNoFiles = errors.New("fix: no files matched")

// FixOptions configures FixPaths.
type FixOptions struct {
	// Flags is the highest priority settings layer (command line).
	Flags settings.Partial
	// Sources are consulted per file below Flags (.editorconfig, unifile.toml).
	Sources settings.Chain
	// Encodings is the decode fallback list after any configured charset.
	Encodings []string
	Filter    Filter

	// OutputDir mirrors results below this directory instead of rewriting
	// inputs; BaseDir (default ".") is the root the mirrored paths are
	// relative to.
	OutputDir string
	BaseDir   string

	// Check reports changes without writing. Stdout returns the result bytes
	// in FixResult.Formatted. Diff returns a unified diff. All three leave
	// files untouched.
	Check  bool
	Stdout bool
	Diff   bool

	Jobs int // <= 0 means GOMAXPROCS

	Cache       *DiskCache
	ToolVersion string // part of the cache key

	Progress ProgressSink
	Timer    *observ.Timer
}

func (o FixOptions) readOnly() bool {
	return o.Check || o.Stdout || o.Diff
}

// FixResult is the outcome for one file.
type FixResult struct {
	Path       string
	Output     string // where the result was written, if anywhere
	Changed    bool   // result differs from the input
	Skipped    bool
	SkipReason string
	Err        error

	Formatted []byte // set in Stdout mode
	Diff      string // set in Diff mode
	Added     int
	Deleted   int

	Encoding string // encoding the input was decoded with
	Settings settings.Settings
	Lines    int
	Cached   bool
}

// FixPaths collects the files under paths and runs FixFiles on them.
func FixPaths(ctx context.Context, paths []string, opts FixOptions) ([]FixResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := CollectFiles(ctx, paths, opts.Filter)
	if err != nil {
		return nil, err
	}
	return FixFiles(ctx, files, opts)
}

// FixFiles normalizes files in parallel. Results keep the order of files. A
// failing file is reported in its FixResult and does not stop the others;
// only cancellation of ctx aborts the run.
func FixFiles(ctx context.Context, files []string, opts FixOptions) ([]FixResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeRun, "fix", trace.ParentID(ctx))
	span.WithExtra("files", strconv.Itoa(len(files)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индекс i принадлежит одной горутине, мьютекс не нужен
	results := make([]FixResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fixFile(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// fixer carries the per-file state through the stages.
type fixer struct {
	ctx     context.Context
	opts    FixOptions
	res     *FixResult
	started time.Time
	stage   Stage
	stageAt time.Time
	span    *trace.Span
}

func fixFile(ctx context.Context, path string, opts FixOptions) FixResult {
	res := FixResult{Path: path}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", trace.ParentID(ctx))
	f := &fixer{
		ctx:     trace.WithSpan(ctx, span),
		opts:    opts,
		res:     &res,
		started: time.Now(),
		span:    span,
	}
	err := f.run()
	f.finish(err)
	return res
}

func (f *fixer) enter(stage Stage) {
	now := time.Now()
	if f.stage != "" {
		f.opts.Timer.Add(string(f.stage), now.Sub(f.stageAt))
	}
	f.stage, f.stageAt = stage, now
	emit(f.opts.Progress, Event{File: f.res.Path, Stage: stage, Status: StatusWorking})
}

func (f *fixer) finish(err error) {
	if f.stage != "" {
		f.opts.Timer.Add(string(f.stage), time.Since(f.stageAt))
	}
	status := StatusDone
	switch {
	case err != nil:
		f.res.Err = err
		status = StatusError
		f.span.WithExtra("error", err.Error())
	case f.res.Skipped:
		status = StatusSkipped
		f.span.WithExtra("skipped", f.res.SkipReason)
	default:
		f.span.WithExtra("changed", strconv.FormatBool(f.res.Changed))
		if f.res.Cached {
			f.span.WithExtra("cached", "true")
		}
	}
	elapsed := f.span.End(f.res.Path)
	if elapsed == 0 {
		elapsed = time.Since(f.started)
	}
	emit(f.opts.Progress, Event{File: f.res.Path, Stage: f.stage, Status: status, Err: err, Elapsed: elapsed})
}

func (f *fixer) run() error {
	path := f.res.Path

	f.enter(StageRead)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	binary := settings.IsBinary(data)

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	discovered, err := f.opts.Sources.Layers(settings.File{Path: abs, Head: data[:min(len(data), headSize)]})
	if err != nil {
		return err
	}
	layers := append([]settings.Layered{{Layer: settings.LayerFlag, Partial: f.opts.Flags}}, discovered...)

	encodings := settings.Encodings(layers, f.opts.Encodings)
	candidates := encodings
	if binary {
		// NUL-байты: текстом это может быть только в UTF-16/32
		candidates = source.WideOnly(encodings)
	}
	var decoded source.Decoded
	if len(candidates) > 0 {
		decoded, err = source.Decode(data, candidates)
	}
	if binary && (len(candidates) == 0 || err != nil || !looksLikeText(decoded.Text)) {
		f.res.Skipped, f.res.SkipReason = true, "binary"
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	f.res.Encoding = decoded.Encoding
	doc := source.Split(decoded.Text)
	f.res.Lines = len(doc.Lines)

	st, err := settings.Resolve(layers, func() (int, int) { return source.LeadingCensus(doc.Lines) }, encodings)
	if err != nil {
		return err
	}
	f.res.Settings = st

	f.enter(StageNormalize)
	key, cached := f.lookupCache(st, data)
	out := data
	text := decoded.Text
	if !cached {
		lines, err := st.Pipeline().Lines(doc.Lines)
		if err != nil {
			f.traceLineError(err)
			return err
		}
		text = doc.Join(lines, st.Terminator(doc.Terminator))
		name, bom := st.OutputEncoding(decoded)
		if out, err = source.Encode(text, name, bom); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	f.res.Changed = !bytes.Equal(out, data)

	if f.opts.Diff && f.res.Changed {
		if f.res.Diff, err = UnifiedDiff(path, decoded.Text, text); err != nil {
			return err
		}
		if f.res.Added, f.res.Deleted, err = DiffStat(f.res.Diff); err != nil {
			return err
		}
	}
	if f.opts.Stdout {
		f.res.Formatted = out
	}
	if f.opts.readOnly() {
		if !f.res.Changed {
			f.storeCache(key, decoded.Encoding)
		}
		return nil
	}

	f.enter(StageWrite)
	if err := f.write(out); err != nil {
		return err
	}
	if !f.res.Changed {
		f.storeCache(key, decoded.Encoding)
	} else if f.opts.OutputDir == "" && f.opts.Cache != nil {
		// файл переписан на месте: новое содержимое уже нормализовано
		if next, err := CacheKey(f.opts.ToolVersion, st, out); err == nil {
			f.storeCache(next, decoded.Encoding)
		}
	}
	return nil
}

// looksLikeText rejects wide decodings of binary data: those keep NULs or
// produce replacement runes for unpaired surrogates.
func looksLikeText(text string) bool {
	return !settings.IsBinary([]byte(text)) && !strings.ContainsRune(text, utf8.RuneError)
}

func (f *fixer) write(out []byte) error {
	path := f.res.Path
	if f.opts.OutputDir != "" {
		base := f.opts.BaseDir
		if base == "" {
			base = "."
		}
		dst, err := source.MirrorPath(path, base, f.opts.OutputDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, out, fileMode(path)); err != nil {
			return err
		}
		f.res.Output = dst
		return nil
	}
	if !f.res.Changed {
		return nil
	}
	if err := os.WriteFile(path, out, fileMode(path)); err != nil {
		return err
	}
	f.res.Output = path
	return nil
}

func fileMode(path string) os.FileMode {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return mode.Perm()
}

func (f *fixer) lookupCache(st settings.Settings, data []byte) (key project.Digest, hit bool) {
	if f.opts.Cache == nil {
		return key, false
	}
	key, err := CacheKey(f.opts.ToolVersion, st, data)
	if err != nil {
		return key, false
	}
	var payload DiskPayload
	hit, err = f.opts.Cache.Get(key, &payload)
	if err != nil {
		trace.Point(trace.FromContext(f.ctx), trace.ScopeFile, "cache", err.Error(), f.span.ID())
		return key, false
	}
	f.res.Cached = hit
	return key, hit
}

func (f *fixer) storeCache(key project.Digest, encoding string) {
	if f.opts.Cache == nil || f.res.Cached {
		return
	}
	if err := f.opts.Cache.Put(key, newPayload(f.res.Path, encoding, f.res.Lines)); err != nil {
		trace.Point(trace.FromContext(f.ctx), trace.ScopeFile, "cache", err.Error(), f.span.ID())
	}
}

func (f *fixer) traceLineError(err error) {
	var lineErr *indent.LineError
	if !errors.As(err, &lineErr) {
		return
	}
	trace.Point(trace.FromContext(f.ctx), trace.ScopeLine, "line", lineErr.Error(), f.span.ID())
}
