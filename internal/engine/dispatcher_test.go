package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_SameVisitorRunsInOrder(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	var order []int

	for i := 0; i < 50; i++ {
		i := i
		d.Enqueue("visitor-a", func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	d.Wait()

	assert.Len(t, order, 50)
	for i, got := range order {
		assert.Equal(t, i, got, "turn %d ran out of order", i)
	}
}

func TestDispatcher_DifferentVisitorsRunInParallel(t *testing.T) {
	d := NewDispatcher()

	release := make(chan struct{})
	aStarted := make(chan struct{})
	var bRan bool
	var mu sync.Mutex

	d.Enqueue("visitor-a", func() {
		close(aStarted)
		<-release
	})

	<-aStarted
	d.Enqueue("visitor-b", func() {
		mu.Lock()
		bRan = true
		mu.Unlock()
	})

	// visitor-b must not be held up by visitor-a's in-flight turn.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bRan
	}, time.Second, 5*time.Millisecond)

	close(release)
	d.Wait()
}

func TestDispatcher_QueueDrainsAndRestarts(t *testing.T) {
	d := NewDispatcher()

	var count int
	var mu sync.Mutex
	bump := func() {
		mu.Lock()
		count++
		mu.Unlock()
	}

	d.Enqueue("visitor-a", bump)
	d.Wait()

	// A new turn after the queue emptied starts a fresh drain.
	d.Enqueue("visitor-a", bump)
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, count)
}
