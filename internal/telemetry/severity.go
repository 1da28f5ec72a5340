package telemetry

import "strings"

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ClassifySeverity maps an error to a severity by keyword. Rules are checked
// in order and the first match wins. Message keywords ignore case; stack
// keywords are matched exactly.
func ClassifySeverity(message, stack string) Severity {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "network"), strings.Contains(msg, "timeout"):
		return SeverityMedium
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "forbidden"):
		return SeverityHigh
	case strings.Contains(stack, "TypeError"), strings.Contains(stack, "ReferenceError"):
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
