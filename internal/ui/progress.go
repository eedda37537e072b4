// Package ui renders check progress in the terminal with Bubble Tea.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"vipyrdocs/internal/driver"
)

// maxRows ограничивает число строк с файлами: большие деревья не помещаются на экран.
const maxRows = 10

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
	aborted    bool

	finished int
	findings int
	cached   int
	failed   int
}

// rowState is where one file stands. Order matters: done and failed are final.
type rowState uint8

const (
	rowQueued rowState = iota
	rowLoading
	rowLoaded
	rowParsing
	rowChecking
	rowDone
	rowFailed
)

// rowStates: label in the status column, share of the bar a file in this
// state contributes, colour.
var rowStates = [...]struct {
	label  string
	weight float64
	color  lipgloss.Color
}{
	rowQueued:   {"queued", 0, "7"},
	rowLoading:  {"loading", 0.1, "6"},
	rowLoaded:   {"loaded", 0.2, "6"},
	rowParsing:  {"parsing", 0.3, "6"},
	rowChecking: {"checking", 0.5, "6"},
	rowDone:     {"done", 1, "3"},
	rowFailed:   {"error", 1, "1"},
}

func (s rowState) final() bool { return s >= rowDone }

func (s rowState) style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rowStates[s].color)
}

// workingState maps a stage reported as StatusWorking to a row state.
func workingState(stage driver.Stage) (rowState, bool) {
	switch stage {
	case driver.StageLoad:
		return rowLoading, true
	case driver.StageParse:
		return rowParsing, true
	case driver.StageCheck:
		return rowChecking, true
	}
	return rowQueued, false
}

type fileItem struct {
	path     string
	state    rowState
	findings int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders check progress.
// Files appear as the driver reports them; the model quits when events is closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
		width:   80,
	}
}

// Aborted reports whether the user quit the model before the run finished.
func Aborted(m tea.Model) bool {
	pm, ok := m.(*progressModel)
	return ok && pm.aborted && !pm.done
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d/%d files, %d findings, %d cached, %d failed\n\n",
		m.finished, len(m.items), m.findings, m.cached, m.failed)

	m.writeRows(&b)
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// writeRows lists files that are still running or have something to show;
// clean finished files are left out.
func (m *progressModel) writeRows(b *strings.Builder) {
	const statusWidth = 12
	nameWidth := max(m.width-statusWidth-4, 20)
	shown := 0
	for _, it := range m.items {
		if shown == maxRows {
			return
		}
		if it.state == rowDone && it.findings == 0 {
			continue
		}
		label := rowStates[it.state].label
		if it.state == rowDone {
			label = fmt.Sprintf("%d found", it.findings)
		}
		fmt.Fprintf(b, "  %s %s\n", it.state.style().Render(fmt.Sprintf("%*s", statusWidth, label)), truncate(it.path, nameWidth))
		shown++
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		m.stageLabel = ""
		if ev.Status == driver.StatusWorking && ev.Stage == driver.StageDiscover {
			m.stageLabel = "discovering"
		}
		return nil
	}
	item := m.item(ev.File)
	if item.state.final() {
		return nil
	}
	switch ev.Status {
	case driver.StatusWorking:
		if st, ok := workingState(ev.Stage); ok {
			item.state = st
		}
	case driver.StatusError:
		item.state = rowFailed
		m.finished++
		m.failed++
	case driver.StatusDone:
		if ev.Stage != driver.StageCheck && ev.Stage != driver.StageCache {
			// загрузка закончилась, проверка впереди
			item.state = rowLoaded
			break
		}
		item.state = rowDone
		item.findings = ev.Findings
		m.finished++
		m.findings += ev.Findings
		if ev.Stage == driver.StageCache {
			m.cached++
		}
	}
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) item(path string) *fileItem {
	idx, ok := m.index[path]
	if !ok {
		idx = len(m.items)
		m.items = append(m.items, fileItem{path: path})
		m.index[path] = idx
	}
	return &m.items[idx]
}

func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		sum += rowStates[it.state].weight
	}
	return sum / float64(len(m.items))
}

func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
