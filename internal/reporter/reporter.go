package reporter

import (
	"fmt"
	"maps"

	"gridreport/internal/report"
)

// Reporter is the legacy functional-log contract: a task tree where each
// task receives flat reports.
type Reporter interface {
	// CreateSubReporter opens a child task.
	CreateSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) Reporter
	// Report records one message for the current task.
	Report(r Report)
}

// Report is one legacy message. DefaultMessage is a template resolved
// against Values only.
type Report struct {
	Key            string
	DefaultMessage string
	Values         map[string]report.TypedValue
}

// Message formats the report with its own values. Unresolved placeholders
// stay verbatim.
func (r Report) Message() string {
	return report.FormatTemplate(r.DefaultMessage, r.value)
}

func (r Report) value(name string) (report.TypedValue, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// Severity returns the report severity, SeverityInfo when absent or not
// tagged as a severity.
func (r Report) Severity() report.Severity {
	v, ok := r.Values[report.SeverityKey]
	if !ok {
		return report.SeverityInfo
	}
	sev, _ := report.SeverityOf(v)
	return sev
}

func copyValues(values map[string]report.TypedValue) map[string]report.TypedValue {
	if values == nil {
		return map[string]report.TypedValue{}
	}
	return maps.Clone(values)
}

// ReportBuilder accumulates report details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	report   Report
	err      error
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, key, defaultMessage string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		report: Report{
			Key:            key,
			DefaultMessage: defaultMessage,
			Values:         map[string]report.TypedValue{},
		},
	}
}

// WithValue attaches an untyped value.
func (b *ReportBuilder) WithValue(name string, value any) *ReportBuilder {
	return b.WithTypedValue(name, value, report.TypeUntyped)
}

// WithTypedValue attaches a typed value.
func (b *ReportBuilder) WithTypedValue(name string, value any, typ string) *ReportBuilder {
	if b == nil {
		return nil
	}
	v, err := report.NewTypedValue(value, typ)
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("value %q: %w", name, err)
		}
		return b
	}
	b.report.Values[name] = v
	return b
}

// WithSeverity attaches the report severity.
func (b *ReportBuilder) WithSeverity(sev report.Severity) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.report.Values[report.SeverityKey] = sev.Value()
	return b
}

// Emit sends the report to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() error {
	if b == nil {
		return nil
	}
	if b.emitted {
		return report.ErrAlreadyAdded
	}
	b.emitted = true
	if b.err != nil {
		return b.err
	}
	if b.reporter != nil {
		b.reporter.Report(b.report)
	}
	return nil
}

// Report returns the accumulated report without emitting.
func (b *ReportBuilder) Report() Report {
	if b == nil {
		return Report{}
	}
	return b.report
}
