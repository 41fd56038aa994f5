package capture

import (
	"context"
	"sync"
)

// Default chunk queue capacity. A 10-second recording at the canonical
// format produces far fewer chunks than this.
const defaultChunkCapacity = 4096

// chunkQueue is a bounded in-memory queue of binary chunks. Insertion order
// is preserved: it equals playback order when the chunks are concatenated.
// Chunks are consumed exactly once, on finalization.
type chunkQueue struct {
	chunks   chan []byte
	capacity int

	mu     sync.RWMutex
	closed bool
}

func newChunkQueue(capacity int) *chunkQueue {
	if capacity <= 0 {
		capacity = defaultChunkCapacity
	}
	return &chunkQueue{
		chunks:   make(chan []byte, capacity),
		capacity: capacity,
	}
}

// enqueue adds a chunk to the queue. Returns false if the queue is full or
// closed and the chunk was not enqueued.
func (q *chunkQueue) enqueue(ctx context.Context, chunk []byte) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.chunks <- chunk:
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// drain closes the queue and returns all accumulated chunks in insertion
// order. Safe to call once per queue.
func (q *chunkQueue) drain() [][]byte {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.chunks)
	}
	q.mu.Unlock()

	out := make([][]byte, 0, len(q.chunks))
	for chunk := range q.chunks {
		out = append(out, chunk)
	}
	return out
}

// size returns the current number of queued chunks.
func (q *chunkQueue) size() int {
	return len(q.chunks)
}
