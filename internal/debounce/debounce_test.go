package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const delay = 1500 * time.Millisecond

func newCounting(t *testing.T) (*Debouncer, *FakeClock, *atomic.Int32) {
	t.Helper()
	clock := NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	var calls atomic.Int32
	d := New(delay, func() { calls.Add(1) }, WithClock(clock))
	return d, clock, &calls
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	t.Parallel()
	d, clock, calls := newCounting(t)

	for i := 0; i < 5; i++ {
		d.Trigger()
		clock.Advance(200 * time.Millisecond)
	}
	assert.Equal(t, int32(0), calls.Load(), "nothing runs inside the quiet period")
	assert.True(t, d.Pending())

	clock.Advance(delay)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())

	clock.Advance(10 * delay)
	assert.Equal(t, int32(1), calls.Load(), "no extra runs afterwards")
}

func TestDebouncer_TrailingEdge(t *testing.T) {
	t.Parallel()
	d, clock, calls := newCounting(t)

	d.Trigger()
	clock.Advance(delay - time.Millisecond)
	d.Trigger()
	clock.Advance(delay - time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "each trigger restarts the timer")

	clock.Advance(time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_FlushAndCancel(t *testing.T) {
	t.Parallel()
	d, clock, calls := newCounting(t)

	assert.False(t, d.Flush(), "nothing pending")

	d.Trigger()
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	clock.Advance(delay)
	assert.Equal(t, int32(1), calls.Load(), "flushed call does not fire again")

	d.Trigger()
	d.Cancel()
	clock.Advance(delay)
	assert.Equal(t, int32(1), calls.Load())

	d.Trigger()
	d.Now()
	assert.Equal(t, int32(2), calls.Load())
	clock.Advance(delay)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDebouncer_Close(t *testing.T) {
	t.Parallel()
	d, clock, calls := newCounting(t)

	d.Trigger()
	d.Close()
	d.Trigger()
	clock.Advance(delay)

	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 0, clock.Pending())
}

func TestDebouncer_RealClock(t *testing.T) {
	t.Parallel()
	done := make(chan struct{})
	d := New(10*time.Millisecond, func() { close(done) })

	d.Trigger()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never ran")
	}
}

func TestDebouncer_FlushWaitsForTimerRun(t *testing.T) {
	t.Parallel()
	clock := NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	d := New(delay, func() {
		close(entered)
		<-release
		finished.Store(true)
	}, WithClock(clock))

	d.Trigger()
	go clock.Advance(delay)
	<-entered
	assert.False(t, d.Pending(), "the timer run has taken the pending call")

	flushed := make(chan bool)
	go func() { flushed <- d.Flush() }()

	select {
	case <-flushed:
		t.Fatal("Flush returned while the timer run was still in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case ran := <-flushed:
		assert.True(t, ran)
		assert.True(t, finished.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("Flush never returned")
	}
}
