package reporter

import "gridreport/internal/report"

// Multi fans out reports and sub-reporters to multiple reporters.
type Multi struct {
	reporters []Reporter
}

// NewMulti creates a Multi that emits to all provided reporters.
func NewMulti(reporters ...Reporter) *Multi {
	return &Multi{reporters: reporters}
}

// CreateSubReporter opens the task on every underlying reporter.
func (m *Multi) CreateSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) Reporter {
	subs := make([]Reporter, 0, len(m.reporters))
	for _, r := range m.reporters {
		subs = append(subs, r.CreateSubReporter(taskKey, defaultName, values))
	}
	return &Multi{reporters: subs}
}

// Report sends r to all underlying reporters.
func (m *Multi) Report(r Report) {
	for _, rep := range m.reporters {
		rep.Report(r)
	}
}
