// Package render runs a chart script in a separate python3 process with the
// Agg backend and collects the exact window extent of every drawn text.
//
// The script never runs inside chartlint itself. Display and save calls are
// replaced with no-ops for the run and restored afterwards, the process is
// bounded by a timeout, and failures come back as *ScriptError values which
// the caller turns into RENDER_ERROR issues.
package render

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"chartlint/internal/geom"
	"chartlint/internal/overlap"
	"chartlint/internal/trace"
)

//go:embed harness.py
var harnessSource []byte

// DefaultTimeout bounds one script run.
const DefaultTimeout = 30 * time.Second

// ErrInterpreterNotFound is returned when the python interpreter cannot be
// located.
var ErrInterpreterNotFound = errors.New("render: python interpreter not found")

// FailureKind classifies script failures.
type FailureKind uint8

const (
	FailureException   FailureKind = iota // script raised
	FailureExit                           // non-zero exit without a result
	FailureTimeout                        // killed after the timeout
	FailureEnvironment                    // matplotlib missing or broken
)

func (k FailureKind) String() string {
	switch k {
	case FailureException:
		return "exception"
	case FailureExit:
		return "exit"
	case FailureTimeout:
		return "timeout"
	case FailureEnvironment:
		return "environment"
	}
	return "unknown"
}

// ScriptError describes a failed render.
type ScriptError struct {
	Kind    FailureKind
	Message string // exception text: "ValueError: bad data"
	Line    uint32 // script line of the innermost failing frame, 0 if unknown
	Stderr  string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("render %s: %s", e.Kind, e.Message)
}

// Output is what a successful render reports.
type Output struct {
	Texts    []overlap.RenderedText
	Width    int // canvas size, pixels
	Height   int
	Duration time.Duration
}

// Sandbox runs scripts. The zero value uses python3, DefaultTimeout and a
// shared guard of weight 1.
type Sandbox struct {
	Python  string
	Timeout time.Duration
	Guard   *Guard
	// Env is appended to the inherited environment.
	Env []string
}

type harnessText struct {
	Kind string  `json:"kind"`
	Text string  `json:"text"`
	Line uint32  `json:"line"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
}

type harnessResult struct {
	OK        bool          `json:"ok"`
	Texts     []harnessText `json:"texts"`
	Error     string        `json:"error"`
	ErrorLine uint32        `json:"error_line"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
}

func (s *Sandbox) python() string {
	if s.Python == "" {
		return "python3"
	}
	return s.Python
}

func (s *Sandbox) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

func (s *Sandbox) guard() *Guard {
	if s.Guard == nil {
		return defaultGuard
	}
	return s.Guard
}

// Render executes the script at path. A *ScriptError reports a failure of
// the script; other errors are environment problems (interpreter missing,
// temp dir, ctx cancelled).
func (s *Sandbox) Render(ctx context.Context, path string) (*Output, error) {
	python, err := exec.LookPath(s.python())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInterpreterNotFound, s.python())
	}
	script, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	ctx, span := trace.Start(ctx, trace.ScopeStage, "render")
	var out *Output
	err = s.guard().With(ctx, func() error {
		var runErr error
		out, runErr = s.run(ctx, python, script)
		return runErr
	})
	if err != nil {
		span.Set("error", err.Error()).End("failed")
		return nil, err
	}
	span.Set("texts", strconv.Itoa(len(out.Texts))).End(out.Duration.Round(time.Millisecond).String())
	return out, nil
}

func (s *Sandbox) run(ctx context.Context, python, script string) (*Output, error) {
	dir, err := os.MkdirTemp("", "chartlint-render-")
	if err != nil {
		return nil, fmt.Errorf("render: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	harness := filepath.Join(dir, "harness.py")
	if err := os.WriteFile(harness, harnessSource, 0o600); err != nil {
		return nil, fmt.Errorf("render: write harness: %w", err)
	}
	resultPath := filepath.Join(dir, "result.json")
	mplDir := filepath.Join(dir, "mpl")
	if err := os.Mkdir(mplDir, 0o700); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	cmd := exec.CommandContext(runCtx, python, harness, script, resultPath)
	cmd.Dir = filepath.Dir(script)
	cmd.Env = append(os.Environ(),
		"MPLBACKEND=Agg",
		"MPLCONFIGDIR="+mplDir,
		"PYTHONDONTWRITEBYTECODE=1",
	)
	cmd.Env = append(cmd.Env, s.Env...)
	cmd.WaitDelay = 2 * time.Second
	var stderr strings.Builder
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, &ScriptError{
			Kind:    FailureTimeout,
			Message: fmt.Sprintf("script did not finish within %s", s.timeout()),
			Stderr:  stderr.String(),
		}
	}

	res, readErr := readResult(resultPath)
	if readErr != nil {
		msg := strings.TrimSpace(lastLine(stderr.String()))
		if msg == "" && runErr != nil {
			msg = runErr.Error()
		}
		if msg == "" {
			msg = readErr.Error()
		}
		return nil, &ScriptError{Kind: FailureExit, Message: msg, Stderr: stderr.String()}
	}
	if !res.OK {
		kind := FailureException
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) && exitErr.ExitCode() == 3 {
			kind = FailureEnvironment
		}
		return nil, &ScriptError{Kind: kind, Message: res.Error, Line: res.ErrorLine, Stderr: stderr.String()}
	}

	out := &Output{Width: res.Width, Height: res.Height, Duration: elapsed}
	for _, t := range res.Texts {
		out.Texts = append(out.Texts, overlap.RenderedText{
			Kind: t.Kind,
			Text: t.Text,
			Line: t.Line,
			Box:  geom.BBox{XMin: t.X0, YMin: t.Y0, XMax: t.X1, YMax: t.Y1},
		})
	}
	return out, nil
}

func readResult(path string) (*harnessResult, error) {
	// #nosec G304 -- path is inside our temp dir
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res harnessResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("render: bad harness output: %w", err)
	}
	return &res, nil
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Available reports whether python and matplotlib can be used.
func (s *Sandbox) Available(ctx context.Context) error {
	python, err := exec.LookPath(s.python())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInterpreterNotFound, s.python())
	}
	cmd := exec.CommandContext(ctx, python, "-c", "import matplotlib")
	cmd.Env = append(os.Environ(), "MPLBACKEND=Agg")
	if out, err := cmd.CombinedOutput(); err != nil {
		return &ScriptError{Kind: FailureEnvironment, Message: strings.TrimSpace(lastLine(string(out)))}
	}
	return nil
}
