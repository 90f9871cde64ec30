package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// ZerologBackend bridges dispatched records into a host application's
// zerolog.Logger, so firmware hosts that standardized on zerolog receive
// engine output as regular structured events. The rendered line is
// forwarded as the event message with the trailing newline stripped.
type ZerologBackend struct {
	name   string
	logger *zerolog.Logger
}

// NewZerologBackend returns a bridge into the given logger.
func NewZerologBackend(name string, logger *zerolog.Logger) *ZerologBackend {
	return &ZerologBackend{name: name, logger: logger}
}

func (z *ZerologBackend) Name() string { return z.name }

func (z *ZerologBackend) Write(p []byte) error {
	return z.WriteLevel(rawLevel, p)
}

// WriteLevel forwards the line at the mapped zerolog level.
func (z *ZerologBackend) WriteLevel(level Severity, p []byte) error {
	if z.logger == nil {
		return nil
	}
	z.logger.WithLevel(zerologLevel(level)).Msg(strings.TrimRight(string(p), "\n"))
	return nil
}

func zerologLevel(l Severity) zerolog.Level {
	switch l {
	case TraceLevel:
		return zerolog.TraceLevel
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		// zerolog's Fatal exits the process; WithLevel does not, which is
		// what a bridge wants.
		return zerolog.FatalLevel
	}
	return zerolog.Disabled
}
