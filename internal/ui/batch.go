// Package ui renders live batch progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"chartlint/internal/driver"
)

// stageWeight is how far into a file a stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:        0.05,
	driver.StageExtract:     0.15,
	driver.StageOverlap:     0.3,
	driver.StageRender:      0.5,
	driver.StageReadability: 0.8,
	driver.StageFonts:       0.9,
}

var stageVerb = map[driver.Stage]string{
	driver.StageLoad:        "loading",
	driver.StageExtract:     "parsing",
	driver.StageOverlap:     "overlap",
	driver.StageRender:      "rendering",
	driver.StageReadability: "readability",
	driver.StageFonts:       "fonts",
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type row struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	elapsed time.Duration
	err     string
}

func (r row) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

func (r row) label() string {
	switch r.status {
	case driver.StatusWorking:
		if v, ok := stageVerb[r.stage]; ok {
			return v
		}
		return "working"
	case driver.StatusDone, driver.StatusError:
		if r.elapsed > 0 {
			return r.elapsed.Round(time.Millisecond).String()
		}
		return string(r.status)
	default:
		return "queued"
	}
}

func (r row) style() lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return okStyle
	case driver.StatusError:
		return failStyle
	case driver.StatusWorking:
		return busyStyle
	default:
		return idleStyle
	}
}

// BatchModel is a Bubble Tea model fed by driver progress events. It quits
// once the event channel is closed or the user presses ctrl+c.
type BatchModel struct {
	title   string
	events  <-chan driver.Event
	spin    spinner.Model
	bar     progress.Model
	rows    []row
	byPath  map[string]int
	phase   string
	width   int
	done    bool
	aborted bool
}

type eventMsg driver.Event
type closedMsg struct{}

func NewBatchModel(title string, files []string, events <-chan driver.Event) *BatchModel {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(busyStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 60

	m := &BatchModel{
		title:  title,
		events: events,
		spin:   spin,
		bar:    bar,
		rows:   make([]row, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = row{path: f, status: driver.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

// Aborted reports whether the user left before the batch finished.
func (m *BatchModel) Aborted() bool { return m.aborted }

func (m *BatchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.wait())
}

func (m *BatchModel) wait() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.wait())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *BatchModel) apply(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		// событие всего батча: только подпись фазы
		if v, ok := stageVerb[ev.Stage]; ok {
			m.phase = v
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	if r.finished() {
		return nil
	}
	if ev.Stage != "" {
		r.stage = ev.Stage
	}
	if ev.Status != "" {
		r.status = ev.Status
	}
	r.elapsed = ev.Elapsed
	if ev.Err != nil {
		r.err = ev.Err.Error()
	}
	return m.bar.SetPercent(m.fraction())
}

// fraction is the share of the batch done, counting partial files by stage.
func (m *BatchModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range m.rows {
		if r.finished() {
			sum++
		} else {
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

func (m *BatchModel) finishedCount() int {
	n := 0
	for _, r := range m.rows {
		if r.finished() {
			n++
		}
	}
	return n
}

func (m *BatchModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	head := m.title
	if m.phase != "" {
		head += " · " + m.phase
	}
	lead := m.spin.View()
	if m.done {
		lead = okStyle.Render("✓")
	}
	fmt.Fprintf(&b, "%s %s  %d/%d\n\n", lead, titleStyle.Render(head), m.finishedCount(), len(m.rows))

	const labelWidth = 11
	nameWidth := max(m.width-labelWidth-6, 20)
	for _, r := range m.rows {
		label := r.style().Render(fmt.Sprintf("%*s", labelWidth, r.label()))
		line := truncate(r.path, nameWidth)
		if room := nameWidth - runewidth.StringWidth(line) - 1; r.err != "" && room > 3 {
			line += " " + failStyle.Render(truncate(r.err, room))
		}
		fmt.Fprintf(&b, "  %s  %s\n", label, line)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate cuts value to width terminal cells, marking the cut with "...".
// Width 0 or less keeps value as is.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
