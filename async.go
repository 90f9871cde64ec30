package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// OverflowPolicy governs an enqueue against a full async queue.
type OverflowPolicy int8

const (
	// DropOldest evicts exactly one oldest entry to make room.
	DropOldest OverflowPolicy = iota
	// DropNewest rejects the incoming message, leaving the queue intact.
	DropNewest
	// Block waits without bound for the consumer to drain space.
	Block
)

func (p OverflowPolicy) String() string {
	switch p {
	case DropOldest:
		return "drop_oldest"
	case DropNewest:
		return "drop_newest"
	case Block:
		return "block"
	}
	return "unknown"
}

// ParsePolicy parses a textual overflow policy name.
func ParsePolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop_oldest", emptyString:
		return DropOldest, nil
	case "drop_newest":
		return DropNewest, nil
	case "block":
		return Block, nil
	}
	return DropOldest, fmt.Errorf("%w: unknown overflow policy %q", ErrInvalidParameter, s)
}

// asyncPipeline decouples producers from backend I/O through a bounded
// queue and a single background consumer. Producers interact only with
// the queue's own synchronization, never with the engine guard, so an
// enqueue never waits on a backend write.
//
// stateMu protects the queue channel against a close while a producer is
// mid-send: producers hold the read side and re-check running before
// sending, stop takes the write side before closing (abyssdigger/lgr
// discipline).
type asyncPipeline struct {
	queue     chan queueEntry
	policy    OverflowPolicy
	slotSize  int
	sink      func(level Severity, p []byte)
	flushWait time.Duration

	stateMu  sync.RWMutex
	wg       sync.WaitGroup
	running  atomic.Bool
	flushReq atomic.Bool
	pending  atomic.Int64
	dropped  atomic.Uint64
}

func newAsyncPipeline(policy OverflowPolicy, slotSize int, sink func(level Severity, p []byte)) *asyncPipeline {
	return &asyncPipeline{policy: policy, slotSize: slotSize, sink: sink, flushWait: flushTimeout}
}

// start creates the queue and spawns the consumer.
func (p *asyncPipeline) start(capacity int) error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.running.Load() {
		return fmt.Errorf("%w: pipeline already running", ErrAlreadyInitialized)
	}
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	p.queue = make(chan queueEntry, capacity)
	p.running.Store(true)
	p.wg.Add(1)
	go p.consume()
	return nil
}

// stop closes the queue and waits out a bounded grace period for the
// consumer to drain it and exit.
func (p *asyncPipeline) stop() {
	p.stateMu.Lock()
	if !p.running.Load() {
		p.stateMu.Unlock()
		return
	}
	p.running.Store(false)
	close(p.queue)
	p.stateMu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopGrace):
	}
}

// enqueue copies the rendered message into a fixed-size slot and inserts
// it under the configured overflow policy.
func (p *asyncPipeline) enqueue(level Severity, msg []byte) error {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	if !p.running.Load() {
		return fmt.Errorf("%w: async pipeline stopped", ErrNotInitialized)
	}

	if len(msg) > p.slotSize {
		msg = msg[:p.slotSize]
	}
	e := queueEntry{level: level, msg: append([]byte(nil), msg...)}

	switch p.policy {
	case Block:
		p.pending.Inc()
		p.queue <- e
		return nil

	case DropNewest:
		select {
		case p.queue <- e:
			p.pending.Inc()
			return nil
		default:
			p.dropped.Inc()
			return fmt.Errorf("%w: async queue full", ErrFull)
		}

	default: // DropOldest
		select {
		case p.queue <- e:
			p.pending.Inc()
			return nil
		default:
		}
		select {
		case <-p.queue:
			p.pending.Dec()
			p.dropped.Inc()
		default:
		}
		select {
		case p.queue <- e:
			p.pending.Inc()
			return nil
		default:
			p.dropped.Inc()
			return fmt.Errorf("%w: async queue full", ErrFull)
		}
	}
}

// consume is the single background drain loop. It polls with a bounded
// timeout so a requested flush is acknowledged even while the queue sits
// empty, and exits once the queue is closed and drained.
func (p *asyncPipeline) consume() {
	defer p.wg.Done()
	for {
		select {
		case e, ok := <-p.queue:
			if !ok {
				p.flushReq.Store(false)
				return
			}
			p.sink(e.level, e.msg)
			p.pending.Dec()
		case <-time.After(consumerPoll):
		}
		if p.flushReq.Load() && len(p.queue) == 0 {
			p.flushReq.Store(false)
		}
	}
}

// flush requests a drain and polls until the consumer has dispatched
// everything or the ceiling elapses. On timeout the pipeline and its
// pending messages are left intact.
func (p *asyncPipeline) flush() error {
	if !p.running.Load() {
		return nil
	}
	p.flushReq.Store(true)
	deadline := time.Now().Add(p.flushWait)
	for time.Now().Before(deadline) {
		if p.pending.Load() <= 0 {
			p.flushReq.Store(false)
			return nil
		}
		if !p.flushReq.Load() {
			return nil
		}
		time.Sleep(flushPoll)
	}
	return fmt.Errorf("%w: %d messages still pending", ErrFlushIncomplete, p.pending.Load())
}

// pendingCount reports the approximate queue depth.
func (p *asyncPipeline) pendingCount() int {
	n := p.pending.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// droppedCount reports how many messages overflow handling discarded.
func (p *asyncPipeline) droppedCount() uint64 {
	return p.dropped.Load()
}
