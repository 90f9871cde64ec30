package logging

// Backend is a pluggable sink for fully rendered message bytes. Name must
// be unique and non-empty among registered backends; Write is the one
// required capability.
//
// Optional capabilities are expressed as additional interfaces and probed
// with type assertions at the relevant lifecycle points: Initializer at
// registration, Flusher during Flush and Close, Closer at unregistration,
// and LevelWriter during dispatch for sinks that want the severity
// alongside the bytes.
type Backend interface {
	Name() string
	Write(p []byte) error
}

// Initializer is run once at registration. A failure keeps the backend
// out of the registry.
type Initializer interface {
	Init() error
}

// Flusher pushes buffered output down to the underlying medium.
type Flusher interface {
	Flush() error
}

// Closer releases backend resources at unregistration or engine close.
type Closer interface {
	Close() error
}

// LevelWriter is preferred over Write during dispatch when implemented.
type LevelWriter interface {
	WriteLevel(level Severity, p []byte) error
}
