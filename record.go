package logging

import "time"

// record carries one log call from the façade to the format engine. It
// lives for the duration of a single Write; nothing retains it afterwards.
type record struct {
	time   time.Time
	module string
	file   string
	fn     string
	msg    string
	line   int
	level  Severity
}

// queueEntry is the value copied into the async queue. The message bytes
// are owned by the entry; no pointer into the producer's buffer crosses
// the consumer boundary.
type queueEntry struct {
	msg   []byte
	level Severity
}
