// Package driver runs the analyzers over a batch of chart scripts.
//
// Sources are loaded sequentially into one FileSet, then files are analyzed
// in parallel (errgroup, --jobs). Inside a file the stages run in order:
// parse + extract, static overlap, the optional sandboxed render with the
// dynamic overlap check, readability and the font enforcer. Problems with a
// file become diagnostics in its report; only invalid options and
// cancellation end Run with an error.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"chartlint/internal/diag"
	"chartlint/internal/extract"
	"chartlint/internal/fonts"
	"chartlint/internal/geom"
	"chartlint/internal/observ"
	"chartlint/internal/overlap"
	"chartlint/internal/parser"
	"chartlint/internal/readability"
	"chartlint/internal/render"
	"chartlint/internal/source"
	"chartlint/internal/trace"
)

// Analysis selects analyzers.
type Analysis uint8

const (
	AnalyzeOverlap Analysis = 1 << iota
	AnalyzeReadability
	AnalyzeFonts

	AnalyzeAll = AnalyzeOverlap | AnalyzeReadability | AnalyzeFonts
)

func (a Analysis) Has(b Analysis) bool { return a&b != 0 }

func (a Analysis) String() string {
	var parts []string
	if a.Has(AnalyzeOverlap) {
		parts = append(parts, "overlap")
	}
	if a.Has(AnalyzeReadability) {
		parts = append(parts, "readability")
	}
	if a.Has(AnalyzeFonts) {
		parts = append(parts, "fonts")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Options configure one Run.
type Options struct {
	Analyses Analysis
	// Render runs the sandboxed renderer (overlap analysis only).
	Render bool
	// Fix lets the font enforcer write files.
	Fix      bool
	Fraction float64
	// Verbose keeps PARSE_LIMIT issues.
	Verbose        bool
	Jobs           int
	MaxDiagnostics int

	Rule     fonts.Rule
	Overlap  overlap.Options
	MaxTexts int

	// Estimator nil - DejaVu Sans через findfont или Go Sans.
	Estimator *geom.Estimator
	Sandbox   *render.Sandbox
	// Cache stores static reports; nil disables caching.
	Cache       *DiskCache
	Fingerprint Digest

	Progress ProgressSink
	Timer    *observ.Timer
	BaseDir  string
}

func (o Options) withDefaults() (Options, error) {
	if o.Analyses == 0 {
		return o, errors.New("driver: no analysis selected")
	}
	if o.Fraction == 0 {
		o.Fraction = 1
	}
	if err := fonts.ValidateFraction(o.Fraction); err != nil {
		return o, fmt.Errorf("driver: %w", err)
	}
	if o.Rule.Minimums == nil {
		o.Rule = fonts.DefaultRule()
	}
	if err := o.Rule.Validate(); err != nil {
		return o, fmt.Errorf("driver: %w", err)
	}
	if o.Fix && !o.Analyses.Has(AnalyzeFonts) {
		return o, errors.New("driver: fix mode needs the fonts analysis")
	}
	if o.Overlap == (overlap.Options{}) {
		o.Overlap = overlap.DefaultOptions()
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.Estimator == nil && o.Analyses.Has(AnalyzeOverlap) {
		o.Estimator = geom.NewEstimator(geom.FindFont(""))
	}
	if o.Render && o.Sandbox == nil {
		o.Sandbox = &render.Sandbox{}
	}
	if o.Timer == nil {
		o.Timer = observ.NewTimer()
	}
	return o, nil
}

// cacheable: a static report depends only on the content and options.
func (o *Options) cacheable() bool {
	return o.Cache != nil && !o.Render && !o.Fix
}

type analyzer struct {
	fs      *source.FileSet
	opts    Options
	mem     *memCache
	metrics *parallelMetrics
}

// Run analyzes paths. Reports come back in the order of paths.
func Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "run")
	span.Set("files", strconv.Itoa(len(paths))).Set("analyses", opts.Analyses.String())

	a := &analyzer{
		fs:      source.NewFileSetWithBase(opts.BaseDir),
		opts:    opts,
		mem:     newMemCache(len(paths)),
		metrics: &parallelMetrics{},
	}

	// Создаём FileSet и предзагружаем все файлы
	ids := make([]source.FileID, len(paths))
	loadErrs := make([]error, len(paths))
	loadIdx := opts.Timer.Begin("load")
	for i, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := a.fs.Load(path)
		if err != nil {
			// Файл не загрузился: пустой виртуальный файл держит путь для отчёта
			id = a.fs.AddVirtual(path, nil)
			loadErrs[i] = err
		}
		ids[i] = id
	}
	opts.Timer.End(loadIdx, fmt.Sprintf("%d files", len(paths)))

	reports := make([]FileReport, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(opts.Jobs, len(paths)), 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a.metrics.enter()
			defer a.metrics.leave()

			rep, err := a.analyzeFile(trace.WithLane(gctx, i+1), ids[i], loadErrs[i])
			if err != nil {
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: err})
				return err
			}
			status := StatusDone
			if rep.Failed() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Status: status, Elapsed: rep.Elapsed})
			// индекс i уникален - мьютекс не нужен
			reports[i] = *rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.Set("error", err.Error()).End("aborted")
		return nil, err
	}

	res := &Result{
		FileSet: a.fs,
		Reports: reports,
		Summary: summarize(reports),
		Timer:   opts.Timer,
		Metrics: a.metrics.snapshot(),
	}
	span.Set("issues", strconv.Itoa(res.Summary.Issues)).End(res.Metrics.String())
	return res, nil
}

// analyzeFile runs every selected stage on one file. The returned error is
// reserved for cancellation and invalid options.
func (a *analyzer) analyzeFile(ctx context.Context, id source.FileID, loadErr error) (*FileReport, error) {
	file := a.fs.Get(id)
	started := time.Now()
	timer := observ.NewTimer()
	defer a.opts.Timer.Merge(timer)

	ctx, span := trace.Start(ctx, trace.ScopeFile, file.Path)
	bag := diag.NewBag(a.opts.MaxDiagnostics)
	rep := &FileReport{Path: file.Path, FileID: id, Bag: bag}
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	finish := func() (*FileReport, error) {
		bag.Dedup()
		bag.Sort()
		rep.Elapsed = time.Since(started)
		span.Set("issues", strconv.Itoa(bag.Len())).End(rep.Elapsed.Round(time.Microsecond).String())
		return rep, nil
	}

	if loadErr != nil {
		rep.Missing = true
		diag.ReportError(r, diag.FileNotFound, source.Span{File: id},
			"cannot read chart script: "+loadReason(loadErr)).
			WithAttr("path", file.Path).
			Emit()
		return finish()
	}

	var key Digest
	if a.opts.cacheable() {
		key = CacheKey(file.Hash, &a.opts)
		if payload, ok := a.lookup(key); ok {
			for _, d := range payload.restore(id) {
				bag.Add(d)
			}
			rep.Cached = true
			rep.Texts = payload.Texts
			trace.Point(ctx, trace.ScopeFile, "cache-hit", file.Path)
			return finish()
		}
	}

	if err := a.runStages(ctx, file, rep, r, timer); err != nil {
		span.Set("error", err.Error()).End("failed")
		return nil, err
	}

	if a.opts.cacheable() {
		bag.Dedup()
		bag.Sort()
		payload := reportToPayload(file, rep)
		a.mem.put(key, payload)
		if err := a.opts.Cache.Put(key, payload); err != nil {
			a.metrics.diskErrors.Add(1)
			trace.Point(ctx, trace.ScopeFile, "cache-write-failed", err.Error())
		}
	}
	return finish()
}

func (a *analyzer) lookup(key Digest) (*DiskPayload, bool) {
	if p, ok := a.mem.get(key); ok {
		a.metrics.memHits.Add(1)
		return p, true
	}
	var p DiskPayload
	ok, err := a.opts.Cache.Get(key, &p)
	switch {
	case err != nil:
		// битая запись - просто пересчитываем
		a.metrics.diskErrors.Add(1)
		return nil, false
	case !ok:
		a.metrics.diskMisses.Add(1)
		return nil, false
	}
	a.metrics.diskHits.Add(1)
	a.mem.put(key, &p)
	return &p, true
}

func (a *analyzer) runStages(ctx context.Context, file *source.File, rep *FileReport, r diag.Reporter, timer *observ.Timer) error {
	opts := &a.opts
	progress := func(stage Stage) {
		emit(opts.Progress, Event{File: file.Path, Stage: stage, Status: StatusWorking})
	}

	progress(StageExtract)
	idx := timer.Begin("extract")
	limits := parseLimitFilter{next: r, keep: opts.Verbose}
	tree := parser.ParseFile(file, parser.Options{Reporter: limits, MaxErrors: 32})
	res := extract.FromAST(tree, extract.Options{Reporter: limits})
	rep.Texts = len(res.Texts)
	timer.End(idx, fmt.Sprintf("%d texts, %d shapes", len(res.Texts), len(res.Shapes)))

	if opts.Analyses.Has(AnalyzeOverlap) {
		progress(StageOverlap)
		idx = timer.Begin("overlap")
		rep.Static = overlap.CheckStatic(res, opts.Estimator, opts.Overlap, r)
		timer.End(idx, "")

		if opts.Render {
			progress(StageRender)
			idx = timer.Begin("render")
			a.metrics.renders.Add(1)
			out, err := opts.Sandbox.Render(ctx, file.Path)
			switch {
			case err != nil && ctx.Err() != nil:
				timer.End(idx, "cancelled")
				return ctx.Err()
			case err != nil:
				a.metrics.renderFailures.Add(1)
				trace.Point(ctx, trace.ScopeStage, "render-failed", err.Error())
				render.ReportFailure(r, file, err)
				timer.End(idx, "failed")
			default:
				rep.Rendered = out
				overlap.CheckDynamic(file, out.Texts, rep.Static, r)
				timer.End(idx, fmt.Sprintf("%d artists", len(out.Texts)))
			}
		}
	}

	if opts.Analyses.Has(AnalyzeReadability) {
		progress(StageReadability)
		idx = timer.Begin("readability")
		_, err := readability.Check(res, readability.Options{
			Rule:     opts.Rule,
			Fraction: opts.Fraction,
			MaxTexts: opts.MaxTexts,
		}, r)
		timer.End(idx, "")
		if err != nil {
			return err
		}
	}

	if opts.Analyses.Has(AnalyzeFonts) {
		progress(StageFonts)
		idx = timer.Begin("fonts")
		fr, err := fonts.Enforce(ctx, a.fs, file.ID, fonts.Options{
			Rule:     opts.Rule,
			Fraction: opts.Fraction,
			Fix:      opts.Fix,
			Reporter: r,
			Tree:     tree,
		})
		if err != nil {
			timer.End(idx, "failed")
			return err
		}
		rep.Fonts = fr
		rep.Fixed = fr.Fixed
		rep.Written = fr.Written
		if fr.Written {
			a.metrics.rewrites.Add(1)
		}
		timer.End(idx, fr.State.String())
	}
	return nil
}

// parseLimitFilter drops PARSE_LIMIT issues unless --verbose is set.
type parseLimitFilter struct {
	next diag.Reporter
	keep bool
}

func (f parseLimitFilter) Report(d diag.Diagnostic) {
	if d.Code == diag.ParseLimit && !f.keep {
		return
	}
	if f.next != nil {
		f.next.Report(d)
	}
}

func loadReason(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
