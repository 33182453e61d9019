package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chartlint/internal/config"
	"chartlint/internal/diagfmt"
	"chartlint/internal/driver"
	"chartlint/internal/preview"
	"chartlint/internal/render"
	"chartlint/internal/trace"
)

var overlapCmd = &cobra.Command{
	Use:   "overlap [flags] <chart.py|dir>...",
	Short: "Estimate text boxes and report overlapping labels",
	Long: `Estimate the bounding box of every positioned text from its font size and
anchor and report colliding labels, labels sitting on shape edges and
crowded regions. With --render the script also runs in a sandboxed Python
process and the rendered boxes are checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyzeCommand(cmd, args, driver.AnalyzeOverlap)
	},
}

var readabilityCmd = &cobra.Command{
	Use:   "readability [flags] <chart.py|dir>...",
	Short: "Check font sizes and text density at the embedding scale",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyzeCommand(cmd, args, driver.AnalyzeReadability)
	},
}

var fontsCmd = &cobra.Command{
	Use:   "fonts [flags] <chart.py|dir>...",
	Short: "Report undersized font declarations, optionally rewriting them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyzeCommand(cmd, args, driver.AnalyzeFonts)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <chart.py|dir>...",
	Short: "Run overlap, readability and fonts checks without modifying files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyzeCommand(cmd, args, driver.AnalyzeAll)
	},
}

func init() {
	for _, c := range []*cobra.Command{overlapCmd, readabilityCmd, fontsCmd, checkCmd} {
		c.Flags().Bool("all", false, "analyze every chart script under --root")
		c.Flags().String("root", "", "root for --all (default: directory of chartlint.toml, else cwd)")
	}
	for _, c := range []*cobra.Command{readabilityCmd, fontsCmd, checkCmd} {
		c.Flags().Float64("scale", 1.0, "embedding fraction of the slide width (0 < scale <= 1)")
	}
	for _, c := range []*cobra.Command{overlapCmd, checkCmd} {
		c.Flags().Bool("render", false, "also render the script in a sandboxed python process")
	}
	fontsCmd.Flags().Bool("fix", false, "rewrite undersized literals in place")
	overlapCmd.Flags().String("preview", "", "write a PNG of the estimated layout (single file)")
}

// analyzeRequest is everything a subcommand run needs, read from flags.
type analyzeRequest struct {
	analyses driver.Analysis
	title    string
	paths    []string

	all      bool
	root     string
	scale    float64
	scaleSet bool
	fix      bool
	render   bool
	preview  string

	configPath     string
	format         diagfmt.Format
	jobs           int
	maxDiagnostics int
	timings        bool
	verbose        bool
	cache          bool
	suggest        bool
	withNotes      bool
	fullPath       bool
	color          bool
	ui             uiMode
}

func runAnalyzeCommand(cmd *cobra.Command, args []string, analyses driver.Analysis) error {
	req, err := readRequest(cmd, args, analyses)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	exit, err := execute(ctx, req, cmd.OutOrStdout())
	stopProfiling()
	if err != nil {
		return err
	}
	if exit != 0 {
		flushTracing()
		os.Exit(exit)
	}
	return nil
}

func readRequest(cmd *cobra.Command, args []string, analyses driver.Analysis) (*analyzeRequest, error) {
	req := &analyzeRequest{
		analyses: analyses,
		title:    "chartlint " + cmd.Name(),
		paths:    args,
	}
	fl := cmd.Flags()
	var err error

	if req.all, err = fl.GetBool("all"); err != nil {
		return nil, fmt.Errorf("failed to get all flag: %w", err)
	}
	if req.root, err = fl.GetString("root"); err != nil {
		return nil, fmt.Errorf("failed to get root flag: %w", err)
	}
	if fl.Lookup("scale") != nil {
		if req.scale, err = fl.GetFloat64("scale"); err != nil {
			return nil, fmt.Errorf("failed to get scale flag: %w", err)
		}
		req.scaleSet = fl.Changed("scale")
	}
	if fl.Lookup("render") != nil {
		if req.render, err = fl.GetBool("render"); err != nil {
			return nil, fmt.Errorf("failed to get render flag: %w", err)
		}
	}
	if fl.Lookup("fix") != nil {
		if req.fix, err = fl.GetBool("fix"); err != nil {
			return nil, fmt.Errorf("failed to get fix flag: %w", err)
		}
	}
	if fl.Lookup("preview") != nil {
		if req.preview, err = fl.GetString("preview"); err != nil {
			return nil, fmt.Errorf("failed to get preview flag: %w", err)
		}
	}

	pf := cmd.Root().PersistentFlags()
	if req.configPath, err = pf.GetString("config"); err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	formatStr, err := pf.GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	if req.format, err = diagfmt.ParseFormat(formatStr); err != nil {
		return nil, err
	}
	if req.jobs, err = pf.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if req.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	for name, dst := range map[string]*bool{
		"timings":    &req.timings,
		"verbose":    &req.verbose,
		"cache":      &req.cache,
		"suggest":    &req.suggest,
		"with-notes": &req.withNotes,
		"fullpath":   &req.fullPath,
	} {
		if *dst, err = pf.GetBool(name); err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	colorStr, err := pf.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if req.color, err = readColorMode(colorStr, os.Stdout); err != nil {
		return nil, err
	}
	uiStr, err := pf.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if req.ui, err = readUIMode(uiStr); err != nil {
		return nil, err
	}
	return req, nil
}

// loadConfig: --config, иначе поиск chartlint.toml вверх от цели.
func loadConfig(req *analyzeRequest) (*config.Config, error) {
	if req.configPath != "" {
		return config.Load(req.configPath)
	}
	start := "."
	switch {
	case req.all && req.root != "":
		start = req.root
	case len(req.paths) > 0:
		start = req.paths[0]
	}
	return config.DiscoverFrom(start)
}

// execute runs one analysis request and writes the report to out. It returns
// the process exit code: 1 when an ERROR or CRITICAL issue remains.
func execute(ctx context.Context, req *analyzeRequest, out io.Writer) (int, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, req.title)
	defer span.End("")

	cfg, err := loadConfig(req)
	if err != nil {
		return 0, err
	}
	root := req.root
	if root == "" {
		root = cfg.Root
	}
	targets, err := driver.Targets(req.paths, driver.DiscoverOptions{
		All:     req.all,
		Root:    root,
		Pattern: cfg.Discover.Pattern,
		Exclude: cfg.Discover.Exclude,
	})
	if err != nil {
		return 0, err
	}
	if req.all && len(targets) == 0 {
		return 0, fmt.Errorf("no %s found under %s", cfg.Discover.Pattern, root)
	}
	if req.preview != "" && len(targets) != 1 {
		return 0, errors.New("--preview needs exactly one chart script")
	}

	rule, err := cfg.Rule()
	if err != nil {
		return 0, err
	}
	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		return 0, fmt.Errorf("config fingerprint: %w", err)
	}
	scale := cfg.Embedding.Scale
	if req.scaleSet {
		scale = req.scale
	}

	opts := driver.Options{
		Analyses:       req.analyses,
		Render:         req.render,
		Fix:            req.fix,
		Fraction:       scale,
		Verbose:        req.verbose,
		Jobs:           req.jobs,
		MaxDiagnostics: req.maxDiagnostics,
		Rule:           rule,
		Overlap:        cfg.OverlapOptions(),
		MaxTexts:       cfg.Readability.MaxTexts,
		Fingerprint:    driver.Digest(fingerprint),
	}
	if req.render {
		opts.Sandbox = &render.Sandbox{
			Python:  cfg.Render.Python,
			Timeout: cfg.Render.Timeout.Duration,
			Guard:   render.NewGuard(cfg.Render.Concurrency),
		}
	}
	// превью нужен StaticReport, которого нет у отчётов из кэша
	if req.cache && req.preview == "" {
		cache, err := driver.OpenDiskCache("chartlint")
		if err != nil {
			return 0, err
		}
		opts.Cache = cache
	}

	pathMode := diagfmt.PathModeAuto
	switch {
	case req.fullPath:
		pathMode = diagfmt.PathModeAbsolute
	case req.all:
		pathMode = diagfmt.PathModeRelative
		opts.BaseDir = root
	}

	var res *driver.Result
	if shouldUseTUI(req.ui, len(targets)) {
		res, err = runWithUI(ctx, req.title, targets, opts)
	} else {
		res, err = driver.Run(ctx, targets, opts)
	}
	if err != nil {
		return 0, err
	}

	batch := diagfmt.BatchOpts{
		Format: req.format,
		Pretty: diagfmt.PrettyOpts{
			Color:       req.color,
			Context:     1,
			PathMode:    pathMode,
			ShowNotes:   req.withNotes,
			ShowFixes:   req.suggest,
			ShowPreview: req.suggest,
		},
		JSON: diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     req.withNotes,
			IncludeFixes:     req.suggest,
			IncludePreviews:  req.suggest,
		},
		Timings: req.timings,
	}
	if err := diagfmt.WriteBatch(out, res, batch); err != nil {
		return 0, fmt.Errorf("failed to write report: %w", err)
	}
	if req.timings && req.format != diagfmt.FormatJSON && req.format != diagfmt.FormatYAML {
		fmt.Fprintf(out, "workers: %s\n", res.Metrics)
	}

	if req.preview != "" {
		if err := writePreview(req.preview, res); err != nil {
			return 0, err
		}
	}
	return res.ExitCode(), nil
}

func writePreview(path string, res *driver.Result) error {
	rep := res.Reports[0]
	if rep.Static == nil {
		return fmt.Errorf("no layout to preview for %s", rep.Path)
	}
	rnd, err := preview.NewRenderer(preview.Options{Labels: true})
	if err != nil {
		return err
	}
	if err := rnd.WritePNG(filepath.Clean(path), rep.Static); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "layout preview written to %s\n", path)
	return nil
}
