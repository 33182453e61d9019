// Package config loads chartlint.toml. Every value has a code default; the
// file only overrides the keys it defines.
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"chartlint/internal/extract"
	"chartlint/internal/fonts"
	"chartlint/internal/overlap"
	"chartlint/internal/readability"
	"chartlint/internal/render"
)

// FileName is the config file looked up from the target upwards.
const FileName = "chartlint.toml"

// Duration decodes "30s" style strings.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Fonts struct {
	// Minimums by role name: title, axis-label, tick-label, legend, annotation, default.
	Minimums         map[string]float64 `toml:"minimums"`
	InlineMultiplier float64            `toml:"inline_multiplier"`
	CriticalFloor    float64            `toml:"critical_floor"`
}

type Embedding struct {
	Scale float64      `toml:"scale"`
	Table []fonts.Step `toml:"table"`
}

type Overlap struct {
	Margin         float64 `toml:"margin"`
	EdgeMargin     float64 `toml:"edge_margin"`
	Grid           int     `toml:"grid"`
	CrowdThreshold int     `toml:"crowd_threshold"`
}

type Readability struct {
	MaxTexts int `toml:"max_texts"`
}

type Render struct {
	Python      string   `toml:"python"`
	Timeout     Duration `toml:"timeout"`
	Concurrency int64    `toml:"concurrency"`
}

type Discover struct {
	Pattern string   `toml:"pattern"`
	Exclude []string `toml:"exclude"`
}

// Config is the effective configuration.
type Config struct {
	Path        string      `toml:"-"` // "" when no file was found
	Root        string      `toml:"-"` // directory of Path, or the start dir
	Fonts       Fonts       `toml:"fonts"`
	Embedding   Embedding   `toml:"embedding"`
	Overlap     Overlap     `toml:"overlap"`
	Readability Readability `toml:"readability"`
	Render      Render      `toml:"render"`
	Discover    Discover    `toml:"discover"`
}

// Default returns the built-in configuration.
func Default() *Config {
	rule := fonts.DefaultRule()
	mins := make(map[string]float64, len(rule.Minimums))
	for role, v := range rule.Minimums {
		mins[role.String()] = v
	}
	ov := overlap.DefaultOptions()
	return &Config{
		Fonts: Fonts{
			Minimums:         mins,
			InlineMultiplier: rule.InlineMultiplier,
			CriticalFloor:    rule.CriticalFloor,
		},
		Embedding: Embedding{Scale: 1.0, Table: rule.Table},
		Overlap: Overlap{
			Margin:         ov.Margin,
			EdgeMargin:     ov.EdgeMargin,
			Grid:           ov.Grid,
			CrowdThreshold: ov.CrowdThreshold,
		},
		Readability: Readability{MaxTexts: readability.DefaultMaxTexts},
		Render: Render{
			Python:      "python3",
			Timeout:     Duration{render.DefaultTimeout},
			Concurrency: 1,
		},
		Discover: Discover{
			Pattern: "chart.py",
			Exclude: []string{".git", "node_modules", "__pycache__", ".venv", "venv"},
		},
	}
}

// Find walks up from startDir to locate chartlint.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// DiscoverFrom finds the config for startDir (a file or directory) and loads it.
// Without a config file the defaults are returned with Root = startDir.
func DiscoverFrom(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg := Default()
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		cfg.Root = root
		return cfg, nil
	}
	return Load(path)
}

// Load reads one config file over the defaults.
func Load(path string) (*Config, error) {
	// отдельная структура: иначе не отличить "не задано" от нуля
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)

	if meta.IsDefined("fonts", "minimums") {
		for k, v := range file.Fonts.Minimums {
			cfg.Fonts.Minimums[k] = v
		}
	}
	if meta.IsDefined("fonts", "inline_multiplier") {
		cfg.Fonts.InlineMultiplier = file.Fonts.InlineMultiplier
	}
	if meta.IsDefined("fonts", "critical_floor") {
		cfg.Fonts.CriticalFloor = file.Fonts.CriticalFloor
	}
	if meta.IsDefined("embedding", "scale") {
		cfg.Embedding.Scale = file.Embedding.Scale
	}
	if meta.IsDefined("embedding", "table") {
		cfg.Embedding.Table = file.Embedding.Table
	}
	if meta.IsDefined("overlap", "margin") {
		cfg.Overlap.Margin = file.Overlap.Margin
	}
	if meta.IsDefined("overlap", "edge_margin") {
		cfg.Overlap.EdgeMargin = file.Overlap.EdgeMargin
	}
	if meta.IsDefined("overlap", "grid") {
		cfg.Overlap.Grid = file.Overlap.Grid
	}
	if meta.IsDefined("overlap", "crowd_threshold") {
		cfg.Overlap.CrowdThreshold = file.Overlap.CrowdThreshold
	}
	if meta.IsDefined("readability", "max_texts") {
		cfg.Readability.MaxTexts = file.Readability.MaxTexts
	}
	if meta.IsDefined("render", "python") {
		cfg.Render.Python = file.Render.Python
	}
	if meta.IsDefined("render", "timeout") {
		cfg.Render.Timeout = file.Render.Timeout
	}
	if meta.IsDefined("render", "concurrency") {
		cfg.Render.Concurrency = file.Render.Concurrency
	}
	if meta.IsDefined("discover", "pattern") {
		cfg.Discover.Pattern = file.Discover.Pattern
	}
	if meta.IsDefined("discover", "exclude") {
		cfg.Discover.Exclude = file.Discover.Exclude
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Rule builds the font rule.
func (c *Config) Rule() (fonts.Rule, error) {
	rule := fonts.Rule{
		Minimums:         make(map[extract.Role]float64, len(c.Fonts.Minimums)),
		Table:            c.Embedding.Table,
		InlineMultiplier: c.Fonts.InlineMultiplier,
		CriticalFloor:    c.Fonts.CriticalFloor,
	}
	for name, v := range c.Fonts.Minimums {
		role, ok := extract.ParseRole(name)
		if !ok {
			return fonts.Rule{}, fmt.Errorf("[fonts.minimums]: unknown role %q", name)
		}
		rule.Minimums[role] = v
	}
	return rule, rule.Validate()
}

// OverlapOptions returns the overlap thresholds.
func (c *Config) OverlapOptions() overlap.Options {
	return overlap.Options{
		Margin:         c.Overlap.Margin,
		EdgeMargin:     c.Overlap.EdgeMargin,
		Grid:           c.Overlap.Grid,
		CrowdThreshold: c.Overlap.CrowdThreshold,
	}
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Rule(); err != nil {
		errs = append(errs, err)
	}
	if err := fonts.ValidateFraction(c.Embedding.Scale); err != nil {
		errs = append(errs, fmt.Errorf("[embedding] %w", err))
	}
	if c.Overlap.Margin < 0 || c.Overlap.EdgeMargin < 0 {
		errs = append(errs, errors.New("[overlap] margins must not be negative"))
	}
	if c.Overlap.Grid < 1 || c.Overlap.CrowdThreshold < 1 {
		errs = append(errs, errors.New("[overlap] grid and crowd_threshold must be >= 1"))
	}
	if c.Readability.MaxTexts < 1 {
		errs = append(errs, errors.New("[readability] max_texts must be >= 1"))
	}
	if c.Render.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("[render] timeout must be positive"))
	}
	if c.Render.Concurrency < 1 {
		errs = append(errs, errors.New("[render] concurrency must be >= 1"))
	}
	if strings.TrimSpace(c.Discover.Pattern) == "" {
		errs = append(errs, errors.New("[discover] pattern must not be empty"))
	} else if _, err := filepath.Match(c.Discover.Pattern, "chart.py"); err != nil {
		errs = append(errs, fmt.Errorf("[discover] pattern: %w", err))
	}
	return errors.Join(errs...)
}

// Fingerprint hashes every setting that changes analysis results. The
// driver keys its cache with it.
func (c *Config) Fingerprint() ([32]byte, error) {
	h := sha256.New()
	enc := msgpack.NewEncoder(h)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(struct {
		Fonts       Fonts
		Embedding   Embedding
		Overlap     Overlap
		Readability Readability
	}{c.Fonts, c.Embedding, c.Overlap, c.Readability}); err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
