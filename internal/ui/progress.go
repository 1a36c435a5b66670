package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tagcopy/internal/buildpipeline"
)

const (
	stateQueued = "queued"
	stateDone   = "done"
	stateFailed = "failed"

	stateColumn = 10
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	stateStyles = map[string]lipgloss.Style{
		stateDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateFailed: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		stateQueued: dimStyle,
	}
	busyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// row is one scenario file on screen.
type row struct {
	path  string
	state string
	stage buildpipeline.Stage
	stats *buildpipeline.FileStats
}

func (r *row) finished() bool { return r.state == stateDone || r.state == stateFailed }

// checkModel renders the emit pipeline: one row per file with what the
// classifier found, a progress bar and a running tally.
type checkModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spin    spinner.Model
	bar     progress.Model
	rows    []row
	byPath  map[string]*row
	phase   string
	width   int
	closed  bool
	lastErr error
}

type pipelineMsg buildpipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file pipeline progress.
// The model quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	return newCheckModel(title, files, events)
}

func newCheckModel(title string, files []string, events <-chan buildpipeline.Event) *checkModel {
	m := &checkModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(busyStyle)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		rows:   make([]row, len(files)),
		byPath: make(map[string]*row, len(files)),
	}
	for i, f := range files {
		m.rows[i] = row{path: f, state: stateQueued}
		m.byPath[f] = &m.rows[i]
	}
	m.resize(80)
	return m
}

// Run drives the progress model on out until events is closed.
func Run(out io.Writer, title string, files []string, events <-chan buildpipeline.Event) error {
	prog := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := prog.Run()
	return err
}

func (m *checkModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

// next ждёт следующее событие конвейера
func (m *checkModel) next() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return pipelineMsg(ev)
	}
}

func (m *checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case pipelineMsg:
		cmd = tea.Batch(m.record(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		cmd = tea.Quit
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case spinner.TickMsg:
		if !m.closed {
			m.spin, cmd = m.spin.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

func (m *checkModel) resize(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	m.bar.Width = max(width-4, 10)
}

// record applies one pipeline event and returns the bar animation command.
func (m *checkModel) record(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == buildpipeline.StatusWorking {
			m.phase = stageVerb(ev.Stage)
		}
		return nil
	}
	r, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	switch ev.Status {
	case buildpipeline.StatusQueued:
		r.state = stateQueued
	case buildpipeline.StatusWorking:
		r.state = stageVerb(ev.Stage)
	case buildpipeline.StatusDone:
		r.state = stateDone
	case buildpipeline.StatusError:
		r.state = stateFailed
		if ev.Err != nil {
			m.lastErr = ev.Err
		}
	default:
		return nil
	}
	r.stage = ev.Stage
	if ev.Stats != nil {
		r.stats = ev.Stats
	}
	return m.bar.SetPercent(m.fraction())
}

// fraction weighs unfinished files by how far their stage is into the pipeline.
func (m *checkModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for i := range m.rows {
		r := &m.rows[i]
		switch {
		case r.finished():
			sum++
		case r.state != stateQueued:
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

var stageWeight = map[buildpipeline.Stage]float64{
	buildpipeline.StageParse: 0.2,
	buildpipeline.StageCheck: 0.5,
	buildpipeline.StageEmit:  0.8,
	buildpipeline.StageWrite: 0.9,
}

func stageVerb(stage buildpipeline.Stage) string {
	switch stage {
	case buildpipeline.StageParse:
		return "parsing"
	case buildpipeline.StageCheck:
		return "checking"
	case buildpipeline.StageEmit:
		return "emitting"
	case buildpipeline.StageWrite:
		return "writing"
	}
	return string(stage)
}

func (m *checkModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	title := m.title
	if m.phase != "" && !m.closed {
		title += " - " + m.phase
	}
	lead := m.spin.View()
	if m.closed {
		lead = stateStyles[stateDone].Render("✓")
	}
	fmt.Fprintf(&b, "%s %s\n\n", lead, headerStyle.Render(title))

	pathWidth := max(m.width-stateColumn-34, 16)
	for i := range m.rows {
		r := &m.rows[i]
		state := fmt.Sprintf("%-*s", stateColumn, r.state)
		style, ok := stateStyles[r.state]
		if !ok {
			style = busyStyle
		}
		path := truncate(r.path, pathWidth)
		pad := strings.Repeat(" ", max(pathWidth-runewidth.StringWidth(path), 0))
		fmt.Fprintf(&b, "  %s %s%s  %s\n", style.Render(state), path, pad, findings(r.stats))
	}

	b.WriteString("\n  ")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n  ")
	b.WriteString(m.tally())
	b.WriteString("\n")
	return b.String()
}

// findings describes the classifier results for one file.
func findings(s *buildpipeline.FileStats) string {
	if s == nil {
		return ""
	}
	text := fmt.Sprintf("%d transfer(s)", s.Transfers)
	if s.AlignCalls > 0 {
		text += fmt.Sprintf(", %d align call(s)", s.AlignCalls)
	}
	out := dimStyle.Render(text)
	if s.Underaligned > 0 {
		out += " " + warnStyle.Render(fmt.Sprintf("%d underaligned", s.Underaligned))
	}
	if s.Cached {
		out += dimStyle.Render(" (cached)")
	}
	return out
}

func (m *checkModel) tally() string {
	finished, transfers, underaligned := 0, 0, 0
	for i := range m.rows {
		r := &m.rows[i]
		if r.finished() {
			finished++
		}
		if r.stats != nil {
			transfers += r.stats.Transfers
			underaligned += r.stats.Underaligned
		}
	}
	line := fmt.Sprintf("%d/%d files, %d transfers", finished, len(m.rows), transfers)
	if underaligned > 0 {
		line += ", " + warnStyle.Render(fmt.Sprintf("%d underaligned destinations", underaligned))
	}
	if m.lastErr != nil && m.closed {
		line += "\n  " + stateStyles[stateFailed].Render(m.lastErr.Error())
	}
	return line
}

// truncate shortens value to width display cells; 0 means unlimited.
func truncate(value string, width int) string {
	switch {
	case width <= 0, runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
