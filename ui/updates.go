package ui

import (
	"sync"

	"github.com/rivo/tview"
)

var queues sync.Map // *tview.Application -> *drawQueue

func queueFor(app *tview.Application) *drawQueue {
	if q, ok := queues.Load(app); ok {
		return q.(*drawQueue)
	}
	q, _ := queues.LoadOrStore(app, newDrawQueue(app.QueueUpdateDraw))
	return q.(*drawQueue)
}

// drawQueue forwards updates to post from a single goroutine, keeping their
// order. push never blocks, so it is safe to call from the event loop.
type drawQueue struct {
	post func(func()) *tview.Application

	mu      sync.Mutex
	pending []func()
	signal  chan struct{}
	once    sync.Once
}

func newDrawQueue(post func(func()) *tview.Application) *drawQueue {
	return &drawQueue{post: post, signal: make(chan struct{}, 1)}
}

func (q *drawQueue) push(f func()) {
	q.once.Do(func() { go q.loop() })

	q.mu.Lock()
	q.pending = append(q.pending, f)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *drawQueue) loop() {
	for range q.signal {
		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				q.mu.Unlock()
				break
			}
			f := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()
			q.post(f)
		}
	}
}
