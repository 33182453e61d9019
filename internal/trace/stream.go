package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Tracer receives events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close writes out anything buffered and releases the output.
	Close() error
}

// Nop drops everything.
var Nop Tracer = nop{}

type nop struct{}

func (nop) Emit(*Event)  {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Config describes where and how events are written.
type Config struct {
	Level      Level
	Format     Format    // FormatAuto picks by OutputPath extension
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" or "-" means stderr
}

// New returns Nop for LevelOff, otherwise a tracer writing each event as it
// arrives.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatForPath(cfg.OutputPath)
	}

	st := &stream{level: cfg.Level, format: format, start: time.Now()}
	switch {
	case cfg.Output != nil:
		st.w = cfg.Output
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		st.w = os.Stderr
	default:
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		st.file = f
		st.buf = bufio.NewWriter(f)
		st.w = st.buf
	}
	return st, nil
}

func formatForPath(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

type stream struct {
	mu     sync.Mutex
	w      io.Writer
	buf    *bufio.Writer
	file   *os.File
	level  Level
	format Format
	start  time.Time
}

func (t *stream) Emit(ev *Event) {
	if ev == nil || !t.level.Admits(ev) {
		return
	}
	line := encode(ev, t.format, t.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	// трассировка не должна ронять анализ
	_, _ = t.w.Write(line) //nolint:errcheck
}

func (t *stream) Level() Level { return t.level }

func (t *stream) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.buf.Flush()
	err = errors.Join(err, t.file.Close())
	t.file = nil
	return err
}
