package ui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridreport/internal/report"
	"gridreport/internal/reportfmt"
)

// filterCycle is the order in which the "f" key steps the minimum severity.
var filterCycle = []report.Severity{0, report.SeverityInfo, report.SeverityWarn, report.SeverityError}

type browserModel struct {
	title  string
	root   *report.Root
	opts   reportfmt.Options
	filter int
	vp     viewport.Model
	ready  bool
	width  int
}

// NewBrowserModel returns a Bubble Tea model that pages through a report tree.
func NewBrowserModel(title string, root *report.Root, opts reportfmt.Options) tea.Model {
	return &browserModel{
		title: title,
		root:  root,
		opts:  opts,
		width: 80,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.opts.ShowSeverity = !m.opts.ShowSeverity
			m.refresh()
			return m, nil
		case "f":
			m.filter = (m.filter + 1) % len(filterCycle)
			m.opts.MinSeverity = filterCycle[m.filter]
			m.refresh()
			m.vp.GotoTop()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-2, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *browserModel) refresh() {
	if !m.ready {
		return
	}
	opts := m.opts
	opts.Width = m.width
	var buf bytes.Buffer
	if err := reportfmt.Pretty(&buf, m.root.Node, opts); err != nil {
		m.vp.SetContent(err.Error())
		return
	}
	m.vp.SetContent(strings.TrimSuffix(buf.String(), "\n"))
}

func (m *browserModel) View() string {
	if !m.ready {
		return "loading..."
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	filter := "all"
	if sev := filterCycle[m.filter]; sev != 0 {
		filter = strings.ToLower(sev.String()) + "+"
	}
	status := fmt.Sprintf("%3.0f%%  filter: %s  q quit  s severity  f filter", m.vp.ScrollPercent()*100, filter)

	var b strings.Builder
	b.WriteString(titleStyle.Render(reportfmt.Truncate(m.title, m.width)))
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(reportfmt.Truncate(status, m.width)))
	return b.String()
}
