package logging

import (
	"fmt"
	"strings"
)

// moduleFilterEntry is one (pattern, level) override. A pattern is either
// an exact module name or a literal prefix ending in '*'; a bare "*"
// matches every module.
type moduleFilterEntry struct {
	pattern string
	level   Severity
	active  bool
}

// moduleFilterTable is a fixed-capacity override table. Entries occupy
// arbitrary slots, so specificity is resolved at lookup time, never by
// insertion order. The engine guard serializes all access.
type moduleFilterTable struct {
	entries [maxModuleFilters]moduleFilterEntry
}

// set installs or updates an override. An active entry with the identical
// pattern is updated in place; otherwise the first free slot is taken.
func (t *moduleFilterTable) set(pattern string, level Severity) error {
	if pattern == emptyString {
		return fmt.Errorf("%w: empty module filter pattern", ErrInvalidParameter)
	}
	if len(pattern) > maxPatternLen {
		return fmt.Errorf("%w: module filter pattern exceeds %d bytes", ErrInvalidParameter, maxPatternLen)
	}
	if !level.valid() {
		return fmt.Errorf("%w: level %d out of range", ErrInvalidParameter, level)
	}

	for i := range t.entries {
		if t.entries[i].active && t.entries[i].pattern == pattern {
			t.entries[i].level = level
			return nil
		}
	}
	for i := range t.entries {
		if !t.entries[i].active {
			t.entries[i] = moduleFilterEntry{pattern: pattern, level: level, active: true}
			return nil
		}
	}
	return fmt.Errorf("%w: module filter table at capacity (%d)", ErrFull, maxModuleFilters)
}

// clear deactivates the entry whose pattern matches exactly.
func (t *moduleFilterTable) clear(pattern string) error {
	for i := range t.entries {
		if t.entries[i].active && t.entries[i].pattern == pattern {
			t.entries[i].active = false
			return nil
		}
	}
	return fmt.Errorf("%w: module filter %q not found", ErrInvalidParameter, pattern)
}

// clearAll deactivates every entry.
func (t *moduleFilterTable) clearAll() {
	for i := range t.entries {
		t.entries[i].active = false
	}
}

// effective resolves the level for a module name. Exact matches win over
// any wildcard; among matching wildcards the longest pattern wins, ties
// going to the lowest slot. An empty name or no match yields the global
// level.
func (t *moduleFilterTable) effective(module string, global Severity) Severity {
	if module == emptyString {
		return global
	}

	for i := range t.entries {
		if t.entries[i].active && t.entries[i].pattern == module {
			return t.entries[i].level
		}
	}

	best := -1
	for i := range t.entries {
		e := &t.entries[i]
		if !e.active || !strings.HasSuffix(e.pattern, "*") {
			continue
		}
		if !strings.HasPrefix(module, e.pattern[:len(e.pattern)-1]) {
			continue
		}
		if best < 0 || len(e.pattern) > len(t.entries[best].pattern) {
			best = i
		}
	}
	if best >= 0 {
		return t.entries[best].level
	}
	return global
}
