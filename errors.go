package logging

import "errors"

// Error kinds surfaced by the engine. Callers match them with errors.Is;
// returned errors wrap these sentinels with call-site context.
var (
	// ErrInvalidParameter marks a malformed argument: a bad level value,
	// an empty required string, an oversized name, or a lookup miss.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotInitialized is returned by operations that demand a live engine.
	ErrNotInitialized = errors.New("not initialized")

	// ErrAlreadyInitialized is returned by a second Initialize.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrResources marks a failure to stand up a required resource,
	// such as the async pipeline.
	ErrResources = errors.New("out of resources")

	// ErrFull marks a bounded collection at capacity: the module filter
	// table, the backend registry, or the async queue under a drop policy.
	ErrFull = errors.New("full")

	// ErrBackend marks a backend hook failure (init or write).
	ErrBackend = errors.New("backend error")

	// ErrFlushIncomplete is returned when Flush gives up before the async
	// queue drains. Pending messages are kept; the call may be retried.
	ErrFlushIncomplete = errors.New("flush incomplete")
)
