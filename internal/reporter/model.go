package reporter

import (
	"bufio"
	"io"
	"maps"
	"strings"

	"gridreport/internal/report"
)

// Model is the in-memory legacy reporter. Every task keeps its own value
// map; nothing is inherited and templates are stored with every report.
type Model struct {
	taskKey     string
	defaultName string
	taskValues  map[string]report.TypedValue
	items       []modelItem
}

// modelItem keeps reports and sub-reporters in emission order.
type modelItem struct {
	report *Report
	sub    *Model
}

// NewModel returns a root task.
func NewModel(taskKey, defaultName string, values map[string]report.TypedValue) *Model {
	return &Model{
		taskKey:     taskKey,
		defaultName: defaultName,
		taskValues:  copyValues(values),
	}
}

// CreateSubReporter implements Reporter.
func (m *Model) CreateSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) Reporter {
	return m.AddSubReporter(taskKey, defaultName, values)
}

// AddSubReporter opens a child task and returns it with its concrete type.
func (m *Model) AddSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) *Model {
	sub := NewModel(taskKey, defaultName, values)
	m.items = append(m.items, modelItem{sub: sub})
	return sub
}

// Report implements Reporter.
func (m *Model) Report(r Report) {
	r.Values = copyValues(r.Values)
	m.items = append(m.items, modelItem{report: &r})
}

func (m *Model) TaskKey() string     { return m.taskKey }
func (m *Model) DefaultName() string { return m.defaultName }

// TaskValues returns a copy of the task values.
func (m *Model) TaskValues() map[string]report.TypedValue {
	return maps.Clone(m.taskValues)
}

// Name formats the task name with the task values.
func (m *Model) Name() string {
	return report.FormatTemplate(m.defaultName, func(name string) (report.TypedValue, bool) {
		v, ok := m.taskValues[name]
		return v, ok
	})
}

// Reports returns the task's reports in emission order.
func (m *Model) Reports() []Report {
	var out []Report
	for _, it := range m.items {
		if it.report != nil {
			out = append(out, *it.report)
		}
	}
	return out
}

// SubReporters returns the task's children in creation order.
func (m *Model) SubReporters() []*Model {
	var out []*Model
	for _, it := range m.items {
		if it.sub != nil {
			out = append(out, it.sub)
		}
	}
	return out
}

// Print writes the task tree: tasks as "+ name", reports as plain lines.
func (m *Model) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	m.print(bw, 0)
	return bw.Flush()
}

func (m *Model) print(bw *bufio.Writer, depth int) {
	indent := strings.Repeat(report.PrintIndent, depth)
	bw.WriteString(indent + "+ " + m.Name() + "\n")
	for _, it := range m.items {
		if it.sub != nil {
			it.sub.print(bw, depth+1)
			continue
		}
		bw.WriteString(indent + report.PrintIndent + it.report.Message() + "\n")
	}
}
