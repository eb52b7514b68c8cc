package quiz

import (
	"context"
	"sync"

	"github.com/abhisek/gainbrain/internal/logger"
)

// Dispatcher runs work in parallel across keys and strictly in arrival
// order within a key. Each key with queued items gets one goroutine,
// which exits once its queue is empty. Keys are user identities.
type Dispatcher[T any] struct {
	ctx     context.Context
	process func(context.Context, T)
	log     *logger.Logger

	mu     sync.Mutex
	queues map[string][]T
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher that calls process for every
// submitted item with ctx. log may be nil.
func NewDispatcher[T any](ctx context.Context, process func(context.Context, T), log *logger.Logger) *Dispatcher[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher[T]{
		ctx:     ctx,
		process: process,
		log:     log,
		queues:  make(map[string][]T),
	}
}

// Submit queues item behind any pending items with the same key. It
// returns false once the dispatcher is closed.
func (d *Dispatcher[T]) Submit(key string, item T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}

	q, running := d.queues[key]
	d.queues[key] = append(q, item)
	if !running {
		d.wg.Add(1)
		go d.drain(key)
	}
	return true
}

// Close stops accepting items and waits for queued ones to finish.
func (d *Dispatcher[T]) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

// Pending returns the number of keys with queued or running items.
func (d *Dispatcher[T]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}

func (d *Dispatcher[T]) drain(key string) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		q := d.queues[key]
		if len(q) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		item := q[0]
		d.queues[key] = q[1:]
		d.mu.Unlock()

		d.run(key, item)
	}
}

func (d *Dispatcher[T]) run(key string, item T) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("queued handler panicked", "user", key, "panic", r)
		}
	}()
	d.process(d.ctx, item)
}
