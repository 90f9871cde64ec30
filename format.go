package logging

import (
	"strconv"
	"time"
)

// Recognized pattern tokens. Case-sensitive; anything else after '%' is
// copied through as the two literal characters.
//
//	%T  milliseconds since engine initialization
//	%t  wall time HH:MM:SS
//	%L  full level name        %l  single-letter level code
//	%M  module name            %m  user message
//	%F  file basename          %f  function name
//	%n  line number
//	%c  color on               %C  color off
//	%%  literal percent
const ansiReset = "\x1b[0m"

var levelColors = [...]string{
	"\x1b[90m", // trace
	"\x1b[36m", // debug
	"\x1b[32m", // info
	"\x1b[33m", // warn
	"\x1b[31m", // error
	"\x1b[35m", // fatal
	emptyString,
}

func levelColor(l Severity) string {
	if !l.valid() {
		return emptyString
	}
	return levelColors[l]
}

// appendBounded appends s to dst without growing past dst's capacity.
func appendBounded(dst []byte, s string) []byte {
	room := cap(dst) - len(dst)
	if room <= 0 {
		return dst
	}
	if len(s) > room {
		s = s[:room]
	}
	return append(dst, s...)
}

// renderPattern expands pattern into buf, which must carry its full
// physical capacity. The scan stops when the pattern is exhausted or the
// buffer is full; the result never exceeds cap(buf). A trailing newline
// is appended when missing and room remains.
func renderPattern(buf []byte, pattern string, rec *record, color bool, epoch time.Time) []byte {
	for i := 0; i < len(pattern) && len(buf) < cap(buf); i++ {
		ch := pattern[i]
		if ch != '%' {
			buf = append(buf, ch)
			continue
		}
		if i+1 >= len(pattern) {
			buf = append(buf, '%')
			break
		}
		i++
		switch pattern[i] {
		case 'T':
			buf = appendBounded(buf, strconv.FormatInt(rec.time.Sub(epoch).Milliseconds(), 10))
		case 't':
			buf = appendBounded(buf, rec.time.Format("15:04:05"))
		case 'L':
			buf = appendBounded(buf, rec.level.String())
		case 'l':
			buf = append(buf, rec.level.Code())
		case 'M':
			buf = appendBounded(buf, rec.module)
		case 'm':
			buf = appendBounded(buf, rec.msg)
		case 'F':
			buf = appendBounded(buf, fileBase(rec.file))
		case 'f':
			buf = appendBounded(buf, funcBase(rec.fn))
		case 'n':
			buf = appendBounded(buf, strconv.Itoa(rec.line))
		case 'c':
			if color {
				buf = appendBounded(buf, levelColor(rec.level))
			}
		case 'C':
			if color {
				buf = appendBounded(buf, ansiReset)
			}
		case '%':
			buf = append(buf, '%')
		default:
			// Unrecognized token: both characters pass through verbatim.
			buf = append(buf, '%')
			if len(buf) < cap(buf) {
				buf = append(buf, pattern[i])
			}
		}
	}

	if len(buf) < cap(buf) && (len(buf) == 0 || buf[len(buf)-1] != '\n') {
		buf = append(buf, '\n')
	}
	return buf
}

// truncateMessage bounds the expanded user message. A zero max falls back
// to the physical buffer capacity. When max exceeds the marker length the
// cut message ends in "...", occupying exactly max bytes.
func truncateMessage(msg string, max, bufCap int) string {
	if max <= 0 {
		max = bufCap
	}
	if len(msg) <= max {
		return msg
	}
	if max > len(truncationMarker) {
		return msg[:max-len(truncationMarker)] + truncationMarker
	}
	return msg[:max]
}

// scanFormat is the best-effort pattern check run by SetFormat. Unknown
// tokens are accepted by contract; only an empty pattern is rejected.
func scanFormat(pattern string) error {
	if pattern == emptyString {
		return ErrInvalidParameter
	}
	return nil
}
