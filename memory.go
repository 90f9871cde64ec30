package logging

import (
	"strings"
	"sync"
)

// MemoryBackend keeps the most recent rendered lines in a bounded
// in-memory ring. It is safe for concurrent use: the async consumer
// writes while tests and diagnostic tooling read.
type MemoryBackend struct {
	name  string
	mu    sync.Mutex
	lines []string
	max   int
}

// NewMemoryBackend returns a memory backend retaining up to maxLines
// lines; maxLines <= 0 selects 256.
func NewMemoryBackend(name string, maxLines int) *MemoryBackend {
	if maxLines <= 0 {
		maxLines = 256
	}
	return &MemoryBackend{name: name, max: maxLines}
}

func (m *MemoryBackend) Name() string { return m.name }

func (m *MemoryBackend) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, string(p))
	if len(m.lines) > m.max {
		m.lines = m.lines[len(m.lines)-m.max:]
	}
	return nil
}

// Lines returns a copy of the retained lines, oldest first.
func (m *MemoryBackend) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

// Contents returns the retained lines joined into one string.
func (m *MemoryBackend) Contents() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.lines, emptyString)
}

// Len reports the number of retained lines.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// Reset discards all retained lines.
func (m *MemoryBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
}
