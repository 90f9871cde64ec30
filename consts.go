package logging

import "time"

const (
	// DefaultFormat is the pattern used when the configuration leaves
	// Format empty.
	DefaultFormat = "%c%t [%L] %M: %m%C"

	// DefaultBufferSize bounds one fully rendered output line.
	DefaultBufferSize = 1024

	// DefaultMaxMessageLen bounds the expanded user message before the
	// pattern is applied.
	DefaultMaxMessageLen = 512

	// DefaultQueueSize is the async queue capacity when the configuration
	// leaves AsyncQueueSize at zero.
	DefaultQueueSize = 64

	emptyString = ""
)

const (
	maxBackends      = 8
	maxModuleFilters = 16
	maxPatternLen    = 64

	truncationMarker = "..."

	// rawLevel is the level assumed for WriteRaw dispatch.
	rawLevel = InfoLevel
)

const (
	flushTimeout = 5 * time.Second
	flushPoll    = time.Millisecond
	consumerPoll = 10 * time.Millisecond
	stopGrace    = time.Second
)

const (
	errMsgNilService    = "Logging service is nil."
	errMsgConfigInvalid = "Logging configuration is invalid."
)
