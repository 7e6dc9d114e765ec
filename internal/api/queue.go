package api

import "sync"

// CallbackQueue is the single context completions are delivered on.
type CallbackQueue interface {
	Post(fn func())
}

// QueueFunc adapts a dispatcher function, such as a UI toolkit's
// run-on-main-thread hook, to CallbackQueue.
type QueueFunc func(fn func())

// Post calls f(fn).
func (f QueueFunc) Post(fn func()) { f(fn) }

// MainQueue runs every posted func on one goroutine, in post order.
type MainQueue struct {
	q *serialQueue
}

// NewMainQueue starts the queue goroutine.
func NewMainQueue() *MainQueue {
	return &MainQueue{q: newSerialQueue()}
}

// Post schedules fn. After Close, fn runs on the caller's goroutine
// so a completion is never dropped.
func (m *MainQueue) Post(fn func()) {
	if !m.q.post(fn) {
		fn()
	}
}

// Close runs what is queued and stops the goroutine.
// It must not be called from a posted func.
func (m *MainQueue) Close() { m.q.close() }

// serialQueue runs posted funcs one at a time, in order, on its own goroutine.
// The backlog is unbounded.
type serialQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []func()
	closed bool
	done   chan struct{}
}

func newSerialQueue() *serialQueue {
	q := &serialQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// post reports false once the queue is closed.
func (q *serialQueue) post(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, fn)
	q.cond.Signal()
	return true
}

func (q *serialQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		fn()
	}
}

// close stops accepting work and waits until the backlog has run.
func (q *serialQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	<-q.done
}
