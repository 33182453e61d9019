package ui

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chartlint/internal/driver"
)

func TestBatchModelAppliesEvents(t *testing.T) {
	m := NewBatchModel("chartlint check", []string{"a/chart.py", "b/chart.py"}, make(chan driver.Event))

	m.Update(eventMsg{File: "a/chart.py", Stage: driver.StageOverlap, Status: driver.StatusWorking})
	m.Update(eventMsg{File: "b/chart.py", Status: driver.StatusError, Err: errors.New("boom"), Elapsed: 12 * time.Millisecond})
	m.Update(eventMsg{File: "unknown.py", Status: driver.StatusDone})
	// после завершения строка больше не меняется
	m.Update(eventMsg{File: "b/chart.py", Stage: driver.StageFonts, Status: driver.StatusWorking})

	if got := m.rows[0].label(); got != "overlap" {
		t.Errorf("a label = %q", got)
	}
	if got := m.rows[1]; got.status != driver.StatusError || got.label() != "12ms" || got.err != "boom" {
		t.Errorf("b row = %+v", got)
	}
	if got, want := m.fraction(), 0.65; math.Abs(got-want) > 1e-9 {
		t.Errorf("fraction = %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{"chartlint check", "1/2", "a/chart.py", "b/chart.py boom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestBatchModelQuits(t *testing.T) {
	m := NewBatchModel("run", []string{"chart.py"}, nil)
	if _, cmd := m.Update(closedMsg{}); cmd == nil || !m.done {
		t.Fatal("closed channel must finish the model")
	}

	m = NewBatchModel("run", []string{"chart.py"}, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.Aborted() || m.done {
		t.Fatalf("ctrl+c: aborted=%v done=%v", m.Aborted(), m.done)
	}
}

func TestBatchPhase(t *testing.T) {
	m := NewBatchModel("run", []string{"chart.py"}, nil)
	m.Update(eventMsg{Stage: driver.StageLoad, Status: driver.StatusWorking})
	if !strings.Contains(m.View(), "run · loading") {
		t.Errorf("phase missing:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"chart.py", 20, "chart.py"},
		{"very/long/path/chart.py", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.width); got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}
