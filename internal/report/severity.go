package report

import (
	"fmt"
	"strings"
)

// SeverityKey is the reserved value name carrying a node severity.
const SeverityKey = "reportSeverity"

// Severity classifies report nodes for logging-backed consumers.
type Severity uint8

const (
	SeverityTrace Severity = iota + 1
	SeverityDebug
	// SeverityInfo is the default when no severity is attached.
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityTrace:
		return "TRACE"
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity converts a string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return SeverityTrace, nil
	case "DEBUG":
		return SeverityDebug, nil
	case "INFO":
		return SeverityInfo, nil
	case "WARN", "WARNING":
		return SeverityWarn, nil
	case "ERROR":
		return SeverityError, nil
	}
	return SeverityInfo, fmt.Errorf("invalid severity: %q (expected: trace|debug|info|warn|error)", s)
}

// Value returns s as a TypeSeverity typed value.
func (s Severity) Value() TypedValue {
	return TypedValue{kind: KindString, s: s.String(), typ: TypeSeverity}
}

// SeverityOf extracts a Severity from a typed value. It fails when the value
// is not tagged TypeSeverity or does not name a known level.
func SeverityOf(v TypedValue) (Severity, bool) {
	if v.typ != TypeSeverity || v.kind != KindString {
		return SeverityInfo, false
	}
	sev, err := ParseSeverity(v.s)
	if err != nil {
		return SeverityInfo, false
	}
	return sev, true
}
