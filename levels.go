package logging

import (
	"fmt"
	"strings"
)

// Severity is the ordered verbosity tier of a log message or filter.
// Lower values are more verbose. Disabled sorts strictly above FatalLevel
// and is valid only as a filter value: nothing passes a Disabled filter.
type Severity int8

const (
	TraceLevel Severity = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	// Disabled turns a filter off entirely. Messages cannot carry it.
	Disabled
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", "DISABLED"}

var levelCodes = [...]byte{'T', 'D', 'I', 'W', 'E', 'F', '-'}

// String returns the full upper-case level name.
func (l Severity) String() string {
	if !l.valid() {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Code returns the single-letter level code used by the %l format token.
func (l Severity) Code() byte {
	if !l.valid() {
		return '?'
	}
	return levelCodes[l]
}

// valid reports whether l is a usable filter value (TraceLevel..Disabled).
func (l Severity) valid() bool {
	return l >= TraceLevel && l <= Disabled
}

// validMessage reports whether l may be attached to a message
// (TraceLevel..FatalLevel; Disabled is filter-only).
func (l Severity) validMessage() bool {
	return l >= TraceLevel && l <= FatalLevel
}

// ParseLevel parses a textual level name. It accepts the lower-case level
// names plus "none" and "disabled" for the filter-off value.
func ParseLevel(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	case "none", "disabled":
		return Disabled, nil
	}
	return Disabled, fmt.Errorf("%w: unknown level %q", ErrInvalidParameter, s)
}
