// Package driver runs the docstring checks over files and directories:
// discovery, loading into a FileSet, parallel linting, the disk cache and
// progress reporting.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/lint"
	"vipyrdocs/internal/observ"
	"vipyrdocs/internal/pyfront"
	"vipyrdocs/internal/source"
	"vipyrdocs/internal/trace"
)

// FileResult содержит результат проверки одного файла.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Diagnostics []diag.Diagnostic
	// Cached is true when the diagnostics came from the disk cache.
	Cached bool
	// Err is set when the file could not be read; Diagnostics then holds the
	// matching IOLoadFileError / IOWalkError.
	Err error
}

// Result - итог прогона. Files идут в порядке обхода; диагностики внутри
// файла в порядке определений.
type Result struct {
	FileSet   *source.FileSet
	Files     []FileResult
	Bag       *diag.Bag
	Timing    observ.Report
	CacheHits int
}

// Checked returns the number of files that were read successfully.
func (r *Result) Checked() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err == nil {
			n++
		}
	}
	return n
}

// CheckFile checks one file. The file does not need a .py suffix.
func CheckFile(ctx context.Context, path string, opts Options) (*Result, error) {
	return CheckPaths(ctx, []string{path}, opts)
}

// CheckDir checks every *.py file under dir.
func CheckDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	return CheckPaths(ctx, []string{dir}, opts)
}

// CheckSource checks in-memory source registered under name. The disk cache
// is not consulted.
func CheckSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	r := newRun(ctx, opts, "")
	defer r.finish()

	end := r.phase("load")
	id := r.fs.AddVirtual(name, src)
	r.files = append(r.files, FileResult{Path: name, FileID: id})
	end("1 file")

	opts.Cache = nil
	r.opts = opts
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.result(), nil
}

// CheckPaths checks files and directories in argument order. Directories are
// walked in sorted order; a file reached twice is checked once. A path that
// does not exist is an error; unreadable entries inside a directory are
// reported as diagnostics.
func CheckPaths(ctx context.Context, paths []string, opts Options) (*Result, error) {
	base := ""
	if len(paths) == 1 {
		if st, err := os.Stat(paths[0]); err == nil && st.IsDir() {
			base = paths[0]
		}
	}
	r := newRun(ctx, opts, base)
	defer r.finish()

	targets, err := r.discover(paths)
	if err != nil {
		return nil, err
	}
	r.load(targets)
	r.lookupCache()
	if err := r.check(); err != nil {
		return nil, err
	}
	r.store()
	return r.result(), nil
}

type target struct {
	path    string
	walkErr error
}

// run holds the state of one CheckPaths call. Only check() touches it from
// more than one goroutine, and then only through distinct indexes of files.
type run struct {
	ctx      context.Context
	opts     Options
	fs       *source.FileSet
	linter   *lint.Linter
	timer    *observ.Timer
	span     *trace.Span
	files    []FileResult
	keys     []Digest
	hits     int
	cacheErr error
}

func newRun(ctx context.Context, opts Options, base string) *run {
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "check")
	return &run{
		ctx:    ctx,
		opts:   opts,
		fs:     source.NewFileSetWithBase(base),
		linter: lint.New(opts.Lint),
		timer:  observ.NewTimer(),
		span:   span,
	}
}

func (r *run) finish() {
	r.span.With(trace.F("files", len(r.files)), trace.F("cache_hits", r.hits)).End("")
}

// phase opens a timer phase and a pass-scoped trace span together.
func (r *run) phase(name string) func(note string) {
	idx := r.timer.Begin(name)
	_, span := trace.StartSpan(r.ctx, trace.ScopePass, name)
	return func(note string) {
		span.End(note)
		r.timer.End(idx, note)
	}
}

func (r *run) discover(paths []string) ([]target, error) {
	end := r.phase("discover")
	started := time.Now()
	emit(r.opts.Progress, Event{Stage: StageDiscover, Status: StatusWorking})

	var out []target
	seen := make(map[string]bool)
	add := func(t target) {
		key := filepath.Clean(t.path)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, t)
	}

	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			emit(r.opts.Progress, Event{Stage: StageDiscover, Status: StatusError, Err: err})
			end("failed")
			return nil, fmt.Errorf("cannot check %s: %w", p, err)
		}
		if !st.IsDir() {
			add(target{path: p})
			continue
		}
		files, walkErrs, err := listPyFiles(p, r.opts.Exclude)
		if err != nil {
			end("failed")
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		for _, we := range walkErrs {
			add(target{path: we.Path, walkErr: we.Err})
		}
		for _, f := range files {
			add(target{path: f})
		}
	}

	emit(r.opts.Progress, Event{Stage: StageDiscover, Status: StatusDone, Elapsed: time.Since(started)})
	end(fmt.Sprintf("%d files", len(out)))
	return out, nil
}

// load reads every target into the FileSet. FileSet is not safe for
// concurrent use, so this stays sequential.
func (r *run) load(targets []target) {
	end := r.phase("load")
	failed := 0
	for _, t := range targets {
		if t.walkErr != nil {
			r.files = append(r.files, r.failed(t.path, diag.IOWalkError, "cannot read directory entry", t.walkErr))
			failed++
			continue
		}
		emit(r.opts.Progress, Event{File: t.path, Stage: StageLoad, Status: StatusWorking})
		id, err := r.fs.Load(t.path)
		if err != nil {
			r.files = append(r.files, r.failed(t.path, diag.IOLoadFileError, "failed to load file", err))
			failed++
			continue
		}
		r.files = append(r.files, FileResult{Path: t.path, FileID: id})
		emit(r.opts.Progress, Event{File: t.path, Stage: StageLoad, Status: StatusDone})
	}
	end(fmt.Sprintf("%d loaded, %d failed", len(targets)-failed, failed))
}

// failed registers path as an empty virtual file so the diagnostic still
// carries the path.
func (r *run) failed(path string, code diag.Code, what string, err error) FileResult {
	id := r.fs.AddVirtual(path, nil)
	d := diag.NewError(code, source.Span{File: id}, what+": "+err.Error())
	d.Loc = source.LineCol{Line: 1, Col: 1}
	trace.Error(trace.FromContext(r.ctx), trace.ScopeFile, path, err)
	emit(r.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
	return FileResult{Path: path, FileID: id, Diagnostics: []diag.Diagnostic{d}, Err: err}
}

func (r *run) lookupCache() {
	if r.opts.Cache == nil {
		return
	}
	end := r.phase("cache")
	settings := r.opts.fingerprint()
	r.keys = make([]Digest, len(r.files))
	for i := range r.files {
		fr := &r.files[i]
		if fr.Err != nil {
			continue
		}
		r.keys[i] = fileKey(r.fs.Get(fr.FileID), settings)
		var payload DiskPayload
		ok, err := r.opts.Cache.Get(r.keys[i], &payload)
		if err != nil {
			r.noteCacheErr(err)
			continue
		}
		if !ok {
			continue
		}
		fr.Diagnostics = fromPayload(&payload, fr.FileID)
		fr.Cached = true
		r.hits++
		emit(r.opts.Progress, Event{File: fr.Path, Stage: StageCache, Status: StatusDone, Findings: len(fr.Diagnostics)})
	}
	end(fmt.Sprintf("%d hits", r.hits))
}

// check lints every loaded, uncached file in parallel. Each goroutine writes
// only its own index of r.files, so no lock is needed.
func (r *run) check() error {
	var pending []int
	for i := range r.files {
		if r.files[i].Err == nil && !r.files[i].Cached {
			pending = append(pending, i)
			emit(r.opts.Progress, Event{File: r.files[i].Path, Stage: StageCheck, Status: StatusQueued})
		}
	}
	end := r.phase("check")
	if len(pending) == 0 {
		end("nothing to check")
		return nil
	}

	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(r.ctx)
	g.SetLimit(min(jobs, len(pending)))
	for _, i := range pending {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := &r.files[i]
			started := time.Now()
			emit(r.opts.Progress, Event{File: fr.Path, Stage: StageCheck, Status: StatusWorking})
			ds, err := checkOne(gctx, r.fs.Get(fr.FileID), r.linter)
			if err != nil {
				emit(r.opts.Progress, Event{File: fr.Path, Stage: StageCheck, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return err
			}
			fr.Diagnostics = ds
			emit(r.opts.Progress, Event{
				File: fr.Path, Stage: StageCheck, Status: StatusDone,
				Elapsed: time.Since(started), Findings: len(ds),
			})
			return nil
		})
	}
	err := g.Wait()
	end(fmt.Sprintf("%d files", len(pending)))
	return err
}

// checkOne parses and lints one file. Only cancellation is returned as an
// error; anything wrong with the file itself becomes a diagnostic.
func checkOne(ctx context.Context, f *source.File, linter *lint.Linter) ([]diag.Diagnostic, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, f.Path)
	defer span.End("")

	mod, err := pyfront.Parse(ctx, f.Path, f.Content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		trace.Error(trace.FromContext(ctx), trace.ScopeFile, f.Path, err)
		d := diag.NewAt(diag.ParseSyntaxError, source.LineCol{Line: 1, Col: 1}, "cannot parse: "+err.Error())
		return []diag.Diagnostic{d.WithFile(f.ID)}, nil
	}

	var out []diag.Diagnostic
	if mod.HasErrors {
		at := source.LineCol{Line: 1, Col: 1}
		if len(mod.ErrorAt) > 0 {
			at = mod.ErrorAt[0].At
		}
		w := diag.NewAt(diag.ParseSyntaxError, at, "syntax error; findings for this file may be incomplete")
		w.Severity = diag.SevWarning
		out = append(out, w.WithFile(f.ID))
	}
	for _, d := range linter.Module(ctx, mod) {
		out = append(out, d.WithFile(f.ID))
	}
	span.With(trace.F("findings", len(out)))
	return out, nil
}

func (r *run) store() {
	if r.opts.Cache == nil {
		return
	}
	end := r.phase("store")
	stored := 0
	for i := range r.files {
		fr := &r.files[i]
		if fr.Err != nil || fr.Cached || r.keys[i].IsZero() {
			continue
		}
		if err := r.opts.Cache.Put(r.keys[i], toPayload(fr.Path, fr.Diagnostics)); err != nil {
			r.noteCacheErr(err)
			continue
		}
		stored++
	}
	end(fmt.Sprintf("%d stored", stored))
}

// noteCacheErr keeps the first cache failure; the run goes on without cache.
func (r *run) noteCacheErr(err error) {
	trace.Error(trace.FromContext(r.ctx), trace.ScopePass, "cache", err)
	if r.cacheErr == nil {
		r.cacheErr = err
	}
}

func (r *run) result() *Result {
	bag := diag.NewBag(r.opts.MaxDiagnostics)
	for i := range r.files {
		bag.AddAll(r.files[i].Diagnostics)
	}
	if r.cacheErr != nil {
		warn := diag.New(diag.SevWarning, diag.ObsCacheError, source.Span{File: source.NoFile},
			"disk cache unavailable: "+r.cacheErr.Error())
		if !bag.Add(warn) {
			overflow := diag.NewBag(1)
			overflow.Add(warn)
			bag.Merge(overflow)
		}
	}
	report := r.timer.Report()
	if r.opts.Timings {
		appendTimingDiagnostic(bag, timingPayload{
			Files:     len(r.files),
			CacheHits: r.hits,
			TotalMS:   report.TotalMS,
			Phases:    report.Phases,
		})
	}
	return &Result{
		FileSet:   r.fs,
		Files:     r.files,
		Bag:       bag,
		Timing:    report,
		CacheHits: r.hits,
	}
}
