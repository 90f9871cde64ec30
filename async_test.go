package logging

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector is a pipeline sink for tests. With a gate installed, every
// sink call blocks until the gate closes, simulating a slow backend.
type collector struct {
	mu      sync.Mutex
	msgs    []string
	gate    chan struct{}
	entered chan struct{}
}

func newCollector() *collector {
	return &collector{}
}

func newGatedCollector() *collector {
	return &collector{
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 64),
	}
}

func (c *collector) sink(level Severity, p []byte) {
	if c.entered != nil {
		c.entered <- struct{}{}
	}
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	c.msgs = append(c.msgs, string(p))
	c.mu.Unlock()
}

func (c *collector) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in       string
		expected OverflowPolicy
		wantErr  bool
	}{
		{"drop_oldest", DropOldest, false},
		{"drop_newest", DropNewest, false},
		{"block", Block, false},
		{"", DropOldest, false},
		{" Block ", Block, false},
		{"bogus", DropOldest, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePolicy(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
			assert.NotEqual(t, "unknown", p.String())
		})
	}
}

func TestPipelineFIFO(t *testing.T) {
	c := newCollector()
	p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
	require.NoError(t, p.start(64))
	defer p.stop()

	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, p.enqueue(InfoLevel, []byte(fmt.Sprintf("msg-%02d", i))))
	}
	require.NoError(t, p.flush())

	msgs := c.messages()
	require.Len(t, msgs, n)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("msg-%02d", i), m)
	}
	assert.Zero(t, p.pendingCount())
}

func TestPipelineDropOldest(t *testing.T) {
	c := newGatedCollector()
	p := newAsyncPipeline(DropOldest, DefaultBufferSize, c.sink)
	require.NoError(t, p.start(2))
	defer p.stop()

	// m1 is picked up by the consumer and parks in the gated sink.
	require.NoError(t, p.enqueue(InfoLevel, []byte("m1")))
	<-c.entered

	// m2 and m3 fill the queue; m4 must evict m2.
	require.NoError(t, p.enqueue(InfoLevel, []byte("m2")))
	require.NoError(t, p.enqueue(InfoLevel, []byte("m3")))
	require.NoError(t, p.enqueue(InfoLevel, []byte("m4")))
	assert.EqualValues(t, 1, p.droppedCount())

	close(c.gate)
	require.NoError(t, p.flush())
	assert.Equal(t, []string{"m1", "m3", "m4"}, c.messages())
}

func TestPipelineDropNewest(t *testing.T) {
	c := newGatedCollector()
	p := newAsyncPipeline(DropNewest, DefaultBufferSize, c.sink)
	require.NoError(t, p.start(2))
	defer p.stop()

	require.NoError(t, p.enqueue(InfoLevel, []byte("m1")))
	<-c.entered

	require.NoError(t, p.enqueue(InfoLevel, []byte("m2")))
	require.NoError(t, p.enqueue(InfoLevel, []byte("m3")))

	err := p.enqueue(InfoLevel, []byte("m4"))
	require.ErrorIs(t, err, ErrFull)
	assert.EqualValues(t, 1, p.droppedCount())

	close(c.gate)
	require.NoError(t, p.flush())
	assert.Equal(t, []string{"m1", "m2", "m3"}, c.messages())
}

func TestPipelineBlock(t *testing.T) {
	c := newGatedCollector()
	p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
	require.NoError(t, p.start(1))
	defer p.stop()

	require.NoError(t, p.enqueue(InfoLevel, []byte("m1")))
	<-c.entered
	require.NoError(t, p.enqueue(InfoLevel, []byte("m2")))

	done := make(chan struct{})
	go func() {
		_ = p.enqueue(InfoLevel, []byte("m3"))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("enqueue must block while the queue is full")
	case <-time.After(50 * time.Millisecond):
	}

	close(c.gate)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked producer never resumed")
	}

	require.NoError(t, p.flush())
	assert.Equal(t, []string{"m1", "m2", "m3"}, c.messages())
	assert.Zero(t, p.droppedCount())
}

func TestPipelinePending(t *testing.T) {
	c := newGatedCollector()
	p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
	require.NoError(t, p.start(8))
	defer p.stop()

	require.NoError(t, p.enqueue(InfoLevel, []byte("m1")))
	<-c.entered
	require.NoError(t, p.enqueue(InfoLevel, []byte("m2")))
	require.NoError(t, p.enqueue(InfoLevel, []byte("m3")))

	assert.Equal(t, 3, p.pendingCount())

	close(c.gate)
	require.NoError(t, p.flush())
	assert.Zero(t, p.pendingCount())
}

func TestPipelineStop(t *testing.T) {
	t.Run("stop drains queued entries", func(t *testing.T) {
		c := newCollector()
		p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
		require.NoError(t, p.start(64))
		for i := 0; i < 10; i++ {
			require.NoError(t, p.enqueue(InfoLevel, []byte(fmt.Sprintf("m%d", i))))
		}
		p.stop()
		assert.Len(t, c.messages(), 10)
	})

	t.Run("enqueue after stop fails", func(t *testing.T) {
		c := newCollector()
		p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
		require.NoError(t, p.start(4))
		p.stop()
		assert.ErrorIs(t, p.enqueue(InfoLevel, []byte("late")), ErrNotInitialized)
	})

	t.Run("double stop is harmless", func(t *testing.T) {
		c := newCollector()
		p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
		require.NoError(t, p.start(4))
		p.stop()
		p.stop()
	})

	t.Run("double start fails", func(t *testing.T) {
		c := newCollector()
		p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
		require.NoError(t, p.start(4))
		defer p.stop()
		assert.ErrorIs(t, p.start(4), ErrAlreadyInitialized)
	})
}

func TestPipelineSlotClamp(t *testing.T) {
	c := newCollector()
	p := newAsyncPipeline(Block, 5, c.sink)
	require.NoError(t, p.start(4))
	defer p.stop()

	require.NoError(t, p.enqueue(InfoLevel, []byte("0123456789")))
	require.NoError(t, p.flush())
	require.Len(t, c.messages(), 1)
	assert.Equal(t, "01234", c.messages()[0])
}

func TestPipelineFlushIdle(t *testing.T) {
	c := newCollector()
	p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
	require.NoError(t, p.start(4))
	defer p.stop()

	// Nothing pending: flush must return promptly.
	require.NoError(t, p.flush())

	p.stop()
	assert.NoError(t, p.flush(), "flush on a stopped pipeline is a no-op")
}

func TestPipelineFlushTimeoutThenStopDrains(t *testing.T) {
	c := newGatedCollector()
	p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
	p.flushWait = 20 * time.Millisecond
	require.NoError(t, p.start(4))

	require.NoError(t, p.enqueue(InfoLevel, []byte("m1")))
	<-c.entered
	require.NoError(t, p.enqueue(InfoLevel, []byte("m2")))

	// The consumer is parked, so the shortened ceiling elapses first.
	require.ErrorIs(t, p.flush(), ErrFlushIncomplete)
	assert.Equal(t, 2, p.pendingCount())

	// stop's close-to-drain still delivers everything.
	close(c.gate)
	p.stop()
	assert.Equal(t, []string{"m1", "m2"}, c.messages())
	assert.Zero(t, p.pendingCount())
}

func TestPipelineConcurrentProducers(t *testing.T) {
	c := newCollector()
	p := newAsyncPipeline(Block, DefaultBufferSize, c.sink)
	require.NoError(t, p.start(32))
	defer p.stop()

	var wg sync.WaitGroup
	const producers = 8
	const perProducer = 100
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				_ = p.enqueue(InfoLevel, []byte(fmt.Sprintf("p%d-%d", id, j)))
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, p.flush())
	assert.Len(t, c.messages(), producers*perProducer)
}
