package model

import "fmt"

// ValidationError reports malformed, missing, or out-of-range data found
// during parsing or validation. The core never retries; a re-fetch decision
// belongs to the orchestration layer.
type ValidationError struct {
	Msg       string
	Field     string
	Value     string
	Component string
}

func (e *ValidationError) Error() string {
	s := e.Msg
	if e.Component != "" {
		s = fmt.Sprintf("[%s] %s", e.Component, e.Msg)
	}
	if e.Field != "" {
		if e.Value != "" {
			return fmt.Sprintf("%s (field: %s, value: %s)", s, e.Field, e.Value)
		}
		return fmt.Sprintf("%s (field: %s)", s, e.Field)
	}
	return s
}

// NewValidationError builds a ValidationError with field context.
func NewValidationError(component, field, value, format string, args ...any) *ValidationError {
	return &ValidationError{
		Msg:       fmt.Sprintf(format, args...),
		Field:     field,
		Value:     value,
		Component: component,
	}
}

// DateSetSummary describes one side of a failed synchronization for
// diagnostics: how many dates it held and their range.
type DateSetSummary struct {
	Count int
	Min   string
	Max   string
}

func (s DateSetSummary) String() string {
	if s.Count == 0 {
		return "0 dates"
	}
	return fmt.Sprintf("%d dates (%s to %s)", s.Count, s.Min, s.Max)
}

// SyncError reports that two independently sourced series could not be
// aligned: no common date, or an exact-match check failed.
type SyncError struct {
	Msg        string
	PriceDates DateSetSummary
	SMADates   DateSetSummary
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("[DataSynchronization] %s (price: %s, sma: %s)",
		e.Msg, e.PriceDates, e.SMADates)
}

// ConfigError reports an invalid configuration value. Raised at construction
// time, never mid-computation.
type ConfigError struct {
	Section string
	Key     string
	Msg     string
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("[Configuration] %s.%s: %s", e.Section, e.Key, e.Msg)
	}
	return fmt.Sprintf("[Configuration] %s: %s", e.Section, e.Msg)
}
