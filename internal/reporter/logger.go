package reporter

import (
	"context"
	"log/slog"
	"maps"

	"gridreport/internal/report"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

// Sink receives one formatted report.
type Sink func(key, message string)

// Logger is the eager legacy reporter: each report is formatted when it is
// reported and handed to the sink of its severity. Nothing is retained.
type Logger struct {
	taskKey string
	values  map[string]report.TypedValue
	sinks   map[report.Severity]Sink
	logger  *slog.Logger
}

// NewLogger returns a root task logging through logger (slog.Default when nil).
func NewLogger(logger *slog.Logger, taskKey, defaultName string, values map[string]report.TypedValue) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Logger{
		taskKey: taskKey,
		values:  copyValues(values),
		logger:  logger,
	}
	l.sinks = SlogSinks(logger)
	l.logTask(defaultName)
	return l
}

// SlogSinks maps every severity to the matching slog level.
func SlogSinks(logger *slog.Logger) map[report.Severity]Sink {
	levels := map[report.Severity]slog.Level{
		report.SeverityTrace: LevelTrace,
		report.SeverityDebug: slog.LevelDebug,
		report.SeverityInfo:  slog.LevelInfo,
		report.SeverityWarn:  slog.LevelWarn,
		report.SeverityError: slog.LevelError,
	}
	sinks := make(map[report.Severity]Sink, len(levels))
	for sev, level := range levels {
		sinks[sev] = func(key, message string) {
			logger.Log(context.Background(), level, message, slog.String("key", key))
		}
	}
	return sinks
}

// WithSinks replaces the dispatch table. Severities missing from sinks, or
// mapped to nil, fall back to the Info sink; a table without Info drops those reports.
func (l *Logger) WithSinks(sinks map[report.Severity]Sink) *Logger {
	l.sinks = maps.Clone(sinks)
	return l
}

// CreateSubReporter implements Reporter.
func (l *Logger) CreateSubReporter(taskKey, defaultName string, values map[string]report.TypedValue) Reporter {
	merged := maps.Clone(l.values)
	maps.Copy(merged, values)
	sub := &Logger{taskKey: taskKey, values: merged, sinks: l.sinks, logger: l.logger}
	sub.logTask(defaultName)
	return sub
}

func (l *Logger) logTask(defaultName string) {
	l.logger.Info(report.FormatTemplate(defaultName, l.lookup), slog.String("task", l.taskKey))
}

func (l *Logger) lookup(name string) (report.TypedValue, bool) {
	v, ok := l.values[name]
	return v, ok
}

// Report implements Reporter.
func (l *Logger) Report(r Report) {
	msg := report.FormatTemplate(r.DefaultMessage, func(name string) (report.TypedValue, bool) {
		if v, ok := r.Values[name]; ok {
			return v, true
		}
		return l.lookup(name)
	})
	sink := l.sinks[r.Severity()]
	if sink == nil {
		sink = l.sinks[report.SeverityInfo]
	}
	if sink != nil {
		sink(r.Key, msg)
	}
}

// LoggerTree logs eagerly and keeps a lazy Tree of the same reports.
type LoggerTree struct {
	*Multi
	tree *Tree
}

// NewLoggerTree returns a root task backed by a Logger and a Tree.
func NewLoggerTree(logger *slog.Logger, taskKey, defaultName string, values map[string]report.TypedValue) *LoggerTree {
	tree := NewTree(taskKey, defaultName, values)
	return &LoggerTree{
		Multi: NewMulti(NewLogger(logger, taskKey, defaultName, values), tree),
		tree:  tree,
	}
}

// Tree returns the in-memory side.
func (lt *LoggerTree) Tree() *Tree { return lt.tree }
