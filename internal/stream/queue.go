package stream

import (
	"container/list"
	"sync"
)

// ChunkLoadTask is one unit of shard work: a player's load/unload sets for
// the region(s) those chunks belong to, grounded on chunk_system.rs's
// ChunkLoadTask{player, loads, unloads}.
type ChunkLoadTask struct {
	Player  *PlayerHandle
	Loads   []uint64 // packed chunk coords
	Unloads []uint64
}

// eventQueue is a genuinely unbounded per-shard FIFO: a linked list guarded
// by a mutex and condition variable, since a buffered channel would impose
// an artificial capacity spec §4.5 doesn't call for ("per-shard unbounded
// queues").
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *list.List
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{items: list.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a task and wakes one waiting consumer.
func (q *eventQueue) Push(t ChunkLoadTask) {
	q.mu.Lock()
	q.items.PushBack(t)
	q.mu.Unlock()
	q.cond.Signal()
}

// Close signals shutdown; blocked PopBatch calls return immediately with
// whatever remains queued.
func (q *eventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// PopBatch blocks until at least one item is available (or the queue is
// closed), then drains up to maxBatch items, matching spec §4.5's "each
// worker consumes up to 100 events per batch" rule.
func (q *eventQueue) PopBatch(maxBatch int) ([]ChunkLoadTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.items.Len() == 0 && q.closed {
		return nil, false
	}
	batch := make([]ChunkLoadTask, 0, maxBatch)
	for len(batch) < maxBatch {
		e := q.items.Front()
		if e == nil {
			break
		}
		q.items.Remove(e)
		batch = append(batch, e.Value.(ChunkLoadTask))
	}
	return batch, true
}
