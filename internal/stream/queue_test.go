package stream

import (
	"sync"
	"testing"
	"time"
)

func TestEventQueuePushPopBatch(t *testing.T) {
	q := newEventQueue()
	q.Push(ChunkLoadTask{Loads: []uint64{1}})
	q.Push(ChunkLoadTask{Loads: []uint64{2}})

	batch, ok := q.PopBatch(100)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if len(batch) != 2 {
		t.Fatalf("got %d items, want 2", len(batch))
	}
}

func TestEventQueueRespectsMaxBatch(t *testing.T) {
	q := newEventQueue()
	for i := 0; i < 150; i++ {
		q.Push(ChunkLoadTask{Loads: []uint64{uint64(i)}})
	}
	batch, ok := q.PopBatch(100)
	if !ok || len(batch) != 100 {
		t.Fatalf("got %d items, want 100", len(batch))
	}
	batch2, ok := q.PopBatch(100)
	if !ok || len(batch2) != 50 {
		t.Fatalf("got %d items, want 50 remaining", len(batch2))
	}
}

func TestEventQueueBlocksUntilPush(t *testing.T) {
	q := newEventQueue()
	var wg sync.WaitGroup
	wg.Add(1)
	var got []ChunkLoadTask
	go func() {
		defer wg.Done()
		batch, _ := q.PopBatch(10)
		got = batch
	}()
	time.Sleep(20 * time.Millisecond)
	q.Push(ChunkLoadTask{Loads: []uint64{42}})
	wg.Wait()
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
}

func TestEventQueueCloseUnblocksPop(t *testing.T) {
	q := newEventQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok := q.PopBatch(10)
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	q.Close()
	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected ok=false after close with no items")
		}
	case <-time.After(time.Second):
		t.Fatal("PopBatch did not unblock after Close")
	}
}
