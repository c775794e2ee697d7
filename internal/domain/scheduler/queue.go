package scheduler

import "sync"

// Queue is a cooperative pending-callback queue. Callbacks scheduled while a
// drain is running wait for the next drain.
type Queue struct {
	pending []func()
	mu      sync.Mutex
}

// Schedule appends a callback.
func (q *Queue) Schedule(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs the callbacks pending at call time. A non-blocking drain runs
// at most one.
func (q *Queue) Drain(blocking bool) {
	q.mu.Lock()
	n := len(q.pending)
	if !blocking && n > 1 {
		n = 1
	}
	batch := q.pending[:n:n]
	q.pending = append([]func(){}, q.pending[n:]...)
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
}
