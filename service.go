package logging

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Service is the process-wide logging engine. Construct one with
// NewService (or fill the exported fields directly), call Initialize,
// log through Write / the per-level helpers, and call Close on shutdown.
//
// All state mutation and synchronous dispatch are serialized by a single
// guard; the async queue carries its own synchronization so producers
// never wait on backend I/O.
type Service struct {
	// Config supplies the engine configuration. Nil selects defaults.
	Config *Config

	// InterruptContext is the host's interrupt-context predicate. When it
	// reports true the engine acquires its guard without blocking. Nil
	// means thread context always. It is consulted on every acquisition;
	// set it before the service is shared between goroutines.
	InterruptContext func() bool

	lock        guard
	lifecycleMu sync.Mutex
	initialized atomic.Bool

	level     Severity
	format    string
	bufSize   int
	maxMsgLen int
	color     bool
	asyncMode bool
	epoch     time.Time

	filters  moduleFilterTable
	registry backendRegistry
	pipeline *asyncPipeline
}

// renderPool recycles line buffers across Write calls to keep the hot
// path allocation-light.
var renderPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, DefaultBufferSize)
		return &b
	},
}

// NewService returns an engine bound to cfg. Nil cfg selects defaults.
func NewService(cfg *Config) *Service {
	return &Service{Config: cfg}
}

// Initialize validates the configuration and transitions the engine to
// the initialized state, starting the async pipeline when configured.
// A pipeline start failure unwinds the whole call.
func (s *Service) Initialize() error {
	if s == nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, errMsgNilService)
	}
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrAlreadyInitialized)
	}

	cfg := DefaultConfig()
	if s.Config != nil {
		cfg = *s.Config
	}
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	level := InfoLevel
	if cfg.Level != emptyString {
		var err error
		if level, err = ParseLevel(cfg.Level); err != nil {
			return err
		}
	}
	policy, err := ParsePolicy(cfg.AsyncPolicy)
	if err != nil {
		return err
	}

	s.lock.Enter(s.InterruptContext)
	s.level = level
	s.format = cfg.Format
	if s.format == emptyString {
		s.format = DefaultFormat
	}
	s.bufSize = cfg.BufferSize
	if s.bufSize <= 0 {
		s.bufSize = DefaultBufferSize
	}
	s.maxMsgLen = cfg.MaxMessageLen
	if s.maxMsgLen <= 0 {
		s.maxMsgLen = DefaultMaxMessageLen
	}
	s.color = cfg.Color
	s.epoch = time.Now()
	slotSize := 2 * s.maxMsgLen
	s.lock.Exit()

	if cfg.Async {
		pl := newAsyncPipeline(policy, slotSize, s.dispatchSink)
		if err := pl.start(cfg.AsyncQueueSize); err != nil {
			s.lock.Enter(s.InterruptContext)
			s.resetLocked()
			s.lock.Exit()
			return fmt.Errorf("%w: starting async pipeline: %v", ErrResources, err)
		}
		s.lock.Enter(s.InterruptContext)
		s.pipeline = pl
		s.asyncMode = true
		s.lock.Exit()
	}

	s.initialized.Store(true)
	return nil
}

// Close flushes and tears down the async pipeline, flushes and closes
// every registered backend, clears the module filter table and returns
// the engine to its uninitialized default state. Messages accepted before
// Close are dispatched, not dropped.
func (s *Service) Close() error {
	if s == nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, errMsgNilService)
	}
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	s.initialized.Store(false)

	s.lock.Enter(s.InterruptContext)
	pl := s.pipeline
	s.pipeline = nil
	s.lock.Exit()

	var flushErr error
	if pl != nil {
		flushErr = pl.flush()
		// stop drains whatever flush did not confirm; close-to-drain
		// guarantees nothing accepted before Close is lost. When the
		// drain did complete, a flush timeout is no longer a failure.
		pl.stop()
		if flushErr != nil && pl.pendingCount() == 0 {
			flushErr = nil
		}
	}

	s.lock.Enter(s.InterruptContext)
	s.registry.closeAll()
	s.filters.clearAll()
	s.resetLocked()
	s.lock.Exit()

	return flushErr
}

// resetLocked restores the default engine state. Callers hold the guard.
func (s *Service) resetLocked() {
	s.level = InfoLevel
	s.format = DefaultFormat
	s.bufSize = DefaultBufferSize
	s.maxMsgLen = DefaultMaxMessageLen
	s.color = false
	s.asyncMode = false
	s.epoch = time.Time{}
}

// dispatchSink is the async consumer's path into the registry. Backend
// failures are isolated inside dispatch and deliberately not surfaced
// from the drain loop.
func (s *Service) dispatchSink(level Severity, p []byte) {
	s.lock.Enter(s.InterruptContext)
	_ = s.registry.dispatch(level, p)
	s.lock.Exit()
}

// Level returns the global minimum severity.
func (s *Service) Level() Severity {
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.level
}

// SetLevel replaces the global minimum severity. An invalid level leaves
// the prior value unchanged.
func (s *Service) SetLevel(level Severity) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	if !level.valid() {
		return fmt.Errorf("%w: level %d out of range", ErrInvalidParameter, level)
	}
	s.lock.Enter(s.InterruptContext)
	s.level = level
	s.lock.Exit()
	return nil
}

// Format returns the active output pattern.
func (s *Service) Format() string {
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.format
}

// SetFormat replaces the output pattern. The scan is best-effort: unknown
// %-tokens are accepted by contract and copied through at render time.
func (s *Service) SetFormat(pattern string) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	if err := scanFormat(pattern); err != nil {
		return fmt.Errorf("%w: empty format pattern", ErrInvalidParameter)
	}
	s.lock.Enter(s.InterruptContext)
	s.format = pattern
	s.lock.Exit()
	return nil
}

// MaxMessageLen returns the active user-message bound.
func (s *Service) MaxMessageLen() int {
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.maxMsgLen
}

// SetMaxMessageLen replaces the user-message bound; zero resets to the
// compiled-in default.
func (s *Service) SetMaxMessageLen(n int) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	if n < 0 {
		return fmt.Errorf("%w: negative max message length", ErrInvalidParameter)
	}
	if n == 0 {
		n = DefaultMaxMessageLen
	}
	s.lock.Enter(s.InterruptContext)
	s.maxMsgLen = n
	s.lock.Exit()
	return nil
}

// SetColor toggles the %c/%C color tokens.
func (s *Service) SetColor(enabled bool) {
	s.lock.Enter(s.InterruptContext)
	s.color = enabled
	s.lock.Exit()
}

// SetModuleLevel installs or updates a per-module level override.
// Patterns are exact names or a literal prefix ending in '*'.
func (s *Service) SetModuleLevel(pattern string, level Severity) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.filters.set(pattern, level)
}

// ClearModuleLevel removes the override whose pattern matches exactly.
func (s *Service) ClearModuleLevel(pattern string) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.filters.clear(pattern)
}

// ClearModuleLevels removes every override.
func (s *Service) ClearModuleLevels() {
	s.lock.Enter(s.InterruptContext)
	s.filters.clearAll()
	s.lock.Exit()
}

// EffectiveLevel resolves the level a message from module must meet.
// An empty module name yields the global level.
func (s *Service) EffectiveLevel(module string) Severity {
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.filters.effective(module, s.level)
}

// RegisterBackend adds a backend to the registry, running its optional
// Init hook first. New backends start enabled at TraceLevel.
func (s *Service) RegisterBackend(b Backend) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.registry.register(b)
}

// UnregisterBackend runs the backend's optional Close hook and removes
// it; no subsequent message reaches it.
func (s *Service) UnregisterBackend(name string) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	return s.registry.unregister(name)
}

// EnableBackend flips a backend's enabled flag without removing it.
func (s *Service) EnableBackend(name string, enabled bool) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	e := s.registry.find(name)
	if e == nil {
		return fmt.Errorf("%w: backend %q not found", ErrInvalidParameter, name)
	}
	e.enabled = enabled
	return nil
}

// SetBackendMinLevel replaces a backend's minimum severity. Disabled
// mutes the backend without disabling it.
func (s *Service) SetBackendMinLevel(name string, level Severity) error {
	if !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	if !level.valid() {
		return fmt.Errorf("%w: level %d out of range", ErrInvalidParameter, level)
	}
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	e := s.registry.find(name)
	if e == nil {
		return fmt.Errorf("%w: backend %q not found", ErrInvalidParameter, name)
	}
	e.minLevel = level
	return nil
}

// Backend returns the registered backend by name as a non-owning handle.
func (s *Service) Backend(name string) (Backend, error) {
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	e := s.registry.find(name)
	if e == nil {
		return nil, fmt.Errorf("%w: backend %q not found", ErrInvalidParameter, name)
	}
	return e.backend, nil
}

// BackendNames lists the registered backend names.
func (s *Service) BackendNames() []string {
	s.lock.Enter(s.InterruptContext)
	defer s.lock.Exit()
	names := make([]string, 0, len(s.registry.entries))
	for _, e := range s.registry.entries {
		names = append(names, e.backend.Name())
	}
	return names
}

// Write is the core logging operation. On an uninitialized engine it is
// a silent no-op; a filtered message returns success before any
// formatting cost is paid. The rendered line goes to the async queue or,
// synchronously, to every qualifying backend under the dispatch guard.
func (s *Service) Write(level Severity, module, file string, line int, fn, format string, args ...interface{}) error {
	if s == nil || !s.initialized.Load() {
		return nil
	}
	if !level.validMessage() {
		return fmt.Errorf("%w: level %d is not a message level", ErrInvalidParameter, level)
	}

	s.lock.Enter(s.InterruptContext)
	eff := s.filters.effective(module, s.level)
	pattern := s.format
	bufSize := s.bufSize
	maxLen := s.maxMsgLen
	color := s.color
	async := s.asyncMode
	pl := s.pipeline
	epoch := s.epoch
	s.lock.Exit()

	if level < eff {
		return nil
	}

	msg := fmt.Sprintf(format, args...)
	if len(msg) > bufSize {
		msg = msg[:bufSize]
	}
	msg = truncateMessage(msg, maxLen, bufSize)

	rec := record{
		time:   time.Now(),
		module: module,
		file:   file,
		fn:     fn,
		msg:    msg,
		line:   line,
		level:  level,
	}

	bp := renderPool.Get().(*[]byte)
	defer renderPool.Put(bp)
	if cap(*bp) < bufSize {
		// Grow once; the pool recycles the larger buffer afterwards.
		*bp = make([]byte, 0, bufSize)
	}
	buf := (*bp)[0:0:bufSize]
	buf = renderPattern(buf, pattern, &rec, color, epoch)

	if async && pl != nil {
		return pl.enqueue(level, buf)
	}
	s.lock.Enter(s.InterruptContext)
	err := s.registry.dispatch(level, buf)
	s.lock.Exit()
	return err
}

// WriteRaw dispatches literal bytes to the backends, bypassing filtering,
// formatting and the async queue. Unlike Write it demands an initialized
// engine and a non-empty payload.
func (s *Service) WriteRaw(p []byte) error {
	if s == nil || !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	if len(p) == 0 {
		return fmt.Errorf("%w: empty raw message", ErrInvalidParameter)
	}
	s.lock.Enter(s.InterruptContext)
	err := s.registry.dispatch(rawLevel, p)
	s.lock.Exit()
	return err
}

// Logf records a message with the call site captured skip frames above
// the caller (0 = the caller of Logf).
func (s *Service) Logf(skip int, level Severity, module, format string, args ...interface{}) error {
	if s == nil || !s.initialized.Load() {
		return nil
	}
	if !level.validMessage() {
		return fmt.Errorf("%w: level %d is not a message level", ErrInvalidParameter, level)
	}
	if level < s.EffectiveLevel(module) {
		return nil
	}

	file := "???"
	line := 0
	fn := "?"
	if pc, f, l, ok := runtime.Caller(skip + 1); ok {
		file, line = f, l
		if fp := runtime.FuncForPC(pc); fp != nil {
			fn = fp.Name()
		}
	}
	return s.Write(level, module, file, line, fn, format, args...)
}

// Tracef records a trace message from module.
func (s *Service) Tracef(module, format string, args ...interface{}) {
	_ = s.Logf(1, TraceLevel, module, format, args...)
}

// Debugf records a debug message from module.
func (s *Service) Debugf(module, format string, args ...interface{}) {
	_ = s.Logf(1, DebugLevel, module, format, args...)
}

// Infof records an info message from module.
func (s *Service) Infof(module, format string, args ...interface{}) {
	_ = s.Logf(1, InfoLevel, module, format, args...)
}

// Warnf records a warning from module.
func (s *Service) Warnf(module, format string, args ...interface{}) {
	_ = s.Logf(1, WarnLevel, module, format, args...)
}

// Errorf records an error message from module.
func (s *Service) Errorf(module, format string, args ...interface{}) {
	_ = s.Logf(1, ErrorLevel, module, format, args...)
}

// Fatalf records a fatal message from module. The engine never exits the
// process; shutdown policy belongs to the host.
func (s *Service) Fatalf(module, format string, args ...interface{}) {
	_ = s.Logf(1, FatalLevel, module, format, args...)
}

// Flush drains the async queue (when async mode is active) and then runs
// every backend's optional Flush hook.
func (s *Service) Flush() error {
	if s == nil || !s.initialized.Load() {
		return fmt.Errorf("%w: logging engine", ErrNotInitialized)
	}
	s.lock.Enter(s.InterruptContext)
	pl := s.pipeline
	s.lock.Exit()
	var err error
	if pl != nil {
		err = pl.flush()
	}
	s.lock.Enter(s.InterruptContext)
	ferr := s.registry.flushAll()
	s.lock.Exit()
	if err == nil {
		err = ferr
	}
	return err
}

// Pending reports the approximate async queue depth; zero in sync mode.
func (s *Service) Pending() int {
	if s == nil {
		return 0
	}
	s.lock.Enter(s.InterruptContext)
	pl := s.pipeline
	s.lock.Exit()
	if pl == nil {
		return 0
	}
	return pl.pendingCount()
}

// Dropped reports how many messages overflow handling has discarded.
func (s *Service) Dropped() uint64 {
	if s == nil {
		return 0
	}
	s.lock.Enter(s.InterruptContext)
	pl := s.pipeline
	s.lock.Exit()
	if pl == nil {
		return 0
	}
	return pl.droppedCount()
}
