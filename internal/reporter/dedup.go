package reporter

import "gridreport/internal/report"

type dedupKey struct {
	key string
	sev report.Severity
	msg string
}

// Dedup wraps another Reporter and suppresses reports with the same key,
// severity and formatted message. Sub-reporters share the seen set.
type Dedup struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedup returns a Reporter that filters out duplicates while forwarding
// unique reports to next.
func NewDedup(next Reporter) *Dedup {
	return &Dedup{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (d *Dedup) CreateSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) Reporter {
	if d == nil || d.next == nil {
		return Nop
	}
	return &Dedup{
		next: d.next.CreateSubReporter(taskKey, defaultName, values),
		seen: d.seen,
	}
}

func (d *Dedup) Report(r Report) {
	if d == nil {
		return
	}
	key := dedupKey{key: r.Key, sev: r.Severity(), msg: r.Message()}
	if _, ok := d.seen[key]; ok {
		return
	}
	d.seen[key] = struct{}{}
	if d.next != nil {
		d.next.Report(r)
	}
}
