package logging

import "fmt"

// backendEntry is one registry slot. minLevel and enabled are mutable
// per-entry state owned by the registry, not the backend.
type backendEntry struct {
	backend  Backend
	minLevel Severity
	enabled  bool
}

// backendRegistry is the bounded set of named backends. It carries no
// locking of its own; the engine guard serializes every call.
type backendRegistry struct {
	entries []*backendEntry
}

// register validates the backend, runs its optional Init hook and appends
// it. New entries start enabled with minLevel TraceLevel.
func (r *backendRegistry) register(b Backend) error {
	if b == nil {
		return fmt.Errorf("%w: nil backend", ErrInvalidParameter)
	}
	if b.Name() == emptyString {
		return fmt.Errorf("%w: empty backend name", ErrInvalidParameter)
	}
	if r.find(b.Name()) != nil {
		return fmt.Errorf("%w: duplicate backend name %q", ErrInvalidParameter, b.Name())
	}
	if len(r.entries) >= maxBackends {
		return fmt.Errorf("%w: backend registry at capacity (%d)", ErrFull, maxBackends)
	}

	if ini, ok := b.(Initializer); ok {
		if err := ini.Init(); err != nil {
			return fmt.Errorf("%w: init of %q: %v", ErrBackend, b.Name(), err)
		}
	}

	r.entries = append(r.entries, &backendEntry{
		backend:  b,
		minLevel: TraceLevel,
		enabled:  true,
	})
	return nil
}

// unregister runs the optional Close hook and removes the entry. Every
// surviving backend remains findable by name.
func (r *backendRegistry) unregister(name string) error {
	for i, e := range r.entries {
		if e.backend.Name() != name {
			continue
		}
		if c, ok := e.backend.(Closer); ok {
			_ = c.Close()
		}
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: backend %q not found", ErrInvalidParameter, name)
}

func (r *backendRegistry) find(name string) *backendEntry {
	for _, e := range r.entries {
		if e.backend.Name() == name {
			return e
		}
	}
	return nil
}

// dispatch fans the rendered bytes out to every enabled, level-qualifying
// backend. One backend's failure never stops the others; the call fails
// only when every qualifying backend failed and at least one was tried.
func (r *backendRegistry) dispatch(level Severity, p []byte) error {
	var wrote, failed int
	for _, e := range r.entries {
		if !e.enabled || e.minLevel > level {
			continue
		}
		var err error
		if lw, ok := e.backend.(LevelWriter); ok {
			err = lw.WriteLevel(level, p)
		} else {
			err = e.backend.Write(p)
		}
		if err != nil {
			failed++
		} else {
			wrote++
		}
	}
	if wrote == 0 && failed > 0 {
		return fmt.Errorf("%w: all %d qualifying backends failed", ErrBackend, failed)
	}
	return nil
}

// flushAll invokes the optional Flush hook on every entry, returning the
// first failure after trying them all.
func (r *backendRegistry) flushAll() error {
	var first error
	for _, e := range r.entries {
		if f, ok := e.backend.(Flusher); ok {
			if err := f.Flush(); err != nil && first == nil {
				first = fmt.Errorf("%w: flush of %q: %v", ErrBackend, e.backend.Name(), err)
			}
		}
	}
	return first
}

// closeAll runs Flush then Close on every entry and empties the registry.
func (r *backendRegistry) closeAll() {
	for _, e := range r.entries {
		if f, ok := e.backend.(Flusher); ok {
			_ = f.Flush()
		}
		if c, ok := e.backend.(Closer); ok {
			_ = c.Close()
		}
	}
	r.entries = nil
}
