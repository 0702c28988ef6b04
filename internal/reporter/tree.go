package reporter

import (
	"bufio"
	"io"
	"maps"
	"strings"

	"gridreport/internal/report"
)

// Tree is the lazy legacy reporter. A sub-reporter starts with a copy of its
// parent's values overlaid with its own, so inheritance is resolved once at
// creation and later parent changes are not seen.
type Tree struct {
	taskKey     string
	defaultName string
	values      map[string]report.TypedValue
	items       []treeItem
}

type treeItem struct {
	report *Report
	sub    *Tree
}

// NewTree returns a root task.
func NewTree(taskKey, defaultName string, values map[string]report.TypedValue) *Tree {
	return &Tree{
		taskKey:     taskKey,
		defaultName: defaultName,
		values:      copyValues(values),
	}
}

// CreateSubReporter implements Reporter.
func (t *Tree) CreateSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) Reporter {
	return t.AddSubReporter(taskKey, defaultName, values)
}

// AddSubReporter opens a child task that inherits a copy of t's values.
func (t *Tree) AddSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) *Tree {
	merged := maps.Clone(t.values)
	maps.Copy(merged, values)
	sub := &Tree{taskKey: taskKey, defaultName: defaultName, values: merged}
	t.items = append(t.items, treeItem{sub: sub})
	return sub
}

// Report implements Reporter.
func (t *Tree) Report(r Report) {
	r.Values = copyValues(r.Values)
	t.items = append(t.items, treeItem{report: &r})
}

func (t *Tree) TaskKey() string { return t.taskKey }

// Values returns a copy of the effective task values.
func (t *Tree) Values() map[string]report.TypedValue {
	return maps.Clone(t.values)
}

// Name formats the task name with the effective task values.
func (t *Tree) Name() string {
	return report.FormatTemplate(t.defaultName, t.lookup)
}

func (t *Tree) lookup(name string) (report.TypedValue, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Message formats r against its own values, then the task values.
func (t *Tree) Message(r Report) string {
	return report.FormatTemplate(r.DefaultMessage, func(name string) (report.TypedValue, bool) {
		if v, ok := r.Values[name]; ok {
			return v, true
		}
		return t.lookup(name)
	})
}

// Reports returns the task's reports in emission order.
func (t *Tree) Reports() []Report {
	var out []Report
	for _, it := range t.items {
		if it.report != nil {
			out = append(out, *it.report)
		}
	}
	return out
}

// SubReporters returns the task's children in creation order.
func (t *Tree) SubReporters() []*Tree {
	var out []*Tree
	for _, it := range t.items {
		if it.sub != nil {
			out = append(out, it.sub)
		}
	}
	return out
}

// Print writes the task tree with messages formatted at print time.
func (t *Tree) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	t.print(bw, 0)
	return bw.Flush()
}

func (t *Tree) print(bw *bufio.Writer, depth int) {
	indent := strings.Repeat(report.PrintIndent, depth)
	bw.WriteString(indent + "+ " + t.Name() + "\n")
	for _, it := range t.items {
		if it.sub != nil {
			it.sub.print(bw, depth+1)
			continue
		}
		bw.WriteString(indent + report.PrintIndent + t.Message(*it.report) + "\n")
	}
}
