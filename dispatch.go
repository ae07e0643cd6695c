package oneclick

import (
	"context"
	"sync"
)

// Dispatcher delivers results and icon clicks on the execution context the
// caller expects them on.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc is an adapter to use ordinary functions as Dispatchers.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) {
	f(fn)
}

var (
	// InlineDispatcher calls fn on the goroutine that produced the event.
	InlineDispatcher Dispatcher = DispatcherFunc(func(fn func()) { fn() })
	// GoDispatcher calls fn on a new goroutine.
	GoDispatcher Dispatcher = DispatcherFunc(func(fn func()) { go fn() })
)

// QueueDispatcher serialises all calls on the goroutine running Run, the
// same way UI toolkits deliver everything on the main thread.  Dispatch never
// blocks.  While Run is not running, functions are queued; once Run has
// returned, the pending functions are executed and further calls to Dispatch
// run fn inline, so that no result is lost.
type QueueDispatcher struct {
	mu      sync.Mutex
	pending []func()
	stopped bool
	notify  chan struct{}
}

// NewQueueDispatcher returns the QueueDispatcher with the initial queue
// capacity n.
func NewQueueDispatcher(n int) *QueueDispatcher {
	if n < 0 {
		n = 0
	}
	return &QueueDispatcher{
		pending: make([]func(), 0, n),
		notify:  make(chan struct{}, 1),
	}
}

func (q *QueueDispatcher) Dispatch(fn func()) {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		fn()
		return
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// take returns the pending functions and empties the queue.
func (q *QueueDispatcher) take(stop bool) []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := q.pending
	q.pending = nil
	q.stopped = stop
	return fns
}

// Run executes queued functions until ctx is cancelled.  Functions still
// pending when ctx is cancelled are executed before Run returns.
func (q *QueueDispatcher) Run(ctx context.Context) error {
	for {
		for _, fn := range q.take(false) {
			fn()
		}
		select {
		case <-ctx.Done():
			for _, fn := range q.take(true) {
				fn()
			}
			return ctx.Err()
		case <-q.notify:
		}
	}
}
