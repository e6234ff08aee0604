package engine

import (
	"sync"
)

// Dispatcher serializes turn processing per visitor: turns for one
// visitor run in arrival order, turns for different visitors run in
// parallel. This closes the double-tap lost-update window without any
// external coordination, which is enough for human-paced chat traffic.
type Dispatcher struct {
	mu     sync.Mutex
	queues map[string][]func()
	active map[string]bool
	wg     sync.WaitGroup
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		queues: make(map[string][]func()),
		active: make(map[string]bool),
	}
}

// Enqueue schedules fn on the visitor's FIFO queue, starting a drain
// goroutine if one is not already running for that visitor.
func (d *Dispatcher) Enqueue(visitorID string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.queues[visitorID] = append(d.queues[visitorID], fn)
	if !d.active[visitorID] {
		d.active[visitorID] = true
		d.wg.Add(1)
		go d.drain(visitorID)
	}
}

func (d *Dispatcher) drain(visitorID string) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.queues[visitorID]
		if len(queue) == 0 {
			d.active[visitorID] = false
			delete(d.queues, visitorID)
			d.mu.Unlock()
			return
		}
		fn := queue[0]
		d.queues[visitorID] = queue[1:]
		d.mu.Unlock()

		fn()
	}
}

// Wait blocks until every queued turn has finished. Used on shutdown and
// in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
