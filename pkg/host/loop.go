package host

import (
	"context"
	"sync"
)

// Loop is a FIFO task queue drained by a single goroutine.
// Schedule, Do and Pending are safe for concurrent use.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Schedule queues task to run on a later tick.
func (l *Loop) Schedule(task func()) {
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}

// Step runs the next queued task on the calling goroutine and reports
// whether there was one.
func (l *Loop) Step() bool {
	task, ok := l.pop()
	if !ok {
		return false
	}
	task()
	return true
}

// Drain runs tasks on the calling goroutine until the queue is empty,
// including tasks queued by the tasks it runs. It returns the number of
// tasks run.
func (l *Loop) Drain() int {
	n := 0
	for l.Step() {
		n++
	}
	return n
}

// Run executes tasks as they are queued until ctx is done. It must be the
// only goroutine draining the loop.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.Step() {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Do runs fn on the loop and waits for it to return. It returns ctx.Err()
// if ctx ends first; fn may still run later in that case. Do must not be
// called from a task running on the loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Schedule(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
