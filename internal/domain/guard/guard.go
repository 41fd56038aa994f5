// Package guard tracks in-flight submission IDs so each intake form is
// relayed at most once.
package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Guard records submission IDs to ensure at-most-once relay.
type Guard interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	// With a TTL configured, a record older than the TTL counts as unseen
	// and is refreshed.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing a resubmission.
	// Used when a submission was recorded but the relay was refused or
	// failed downstream.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// entry is a node in the insertion-ordered list backing bounded mode.
type entry struct {
	id         string
	recordedAt time.Time
	next       *entry
}

func (e *entry) reset() {
	e.id = ""
	e.recordedAt = time.Time{}
	e.next = nil
}

// inMemoryGuard implements Guard with an in-memory set.
// Bounded mode (maxSize > 0) keeps a linked list for eviction of the
// oldest entry; unbounded mode is a plain map.
type inMemoryGuard struct {
	mu      sync.Mutex
	seen    map[string]*entry
	head    *entry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	size    atomic.Int64
	pool    sync.Pool
}

// NewInMemoryGuard creates a new in-memory guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.seen = make(map[string]*entry)
	g.pool = sync.Pool{
		New: func() interface{} {
			return &entry{}
		},
	}
	return g
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (g *inMemoryGuard) SeenAndRecord(ctx context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.seen[id]; exists {
		if g.ttl <= 0 || g.now().Sub(e.recordedAt) < g.ttl {
			return true
		}
		// An expired record belongs to a completed submission; refresh it
		// and let this one through.
		e.recordedAt = g.now()
		return false
	}

	if g.maxSize > 0 && len(g.seen) >= g.maxSize {
		g.evictOldest()
	}
	e := g.pool.Get().(*entry)
	e.id = id
	e.recordedAt = g.now()
	if g.maxSize > 0 {
		e.next = g.head
		g.head = e
	}
	g.seen[id] = e
	g.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen set.
func (g *inMemoryGuard) Unrecord(ctx context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, exists := g.seen[id]
	if !exists {
		return
	}
	delete(g.seen, id)

	if g.maxSize > 0 {
		if g.head == e {
			g.head = e.next
		} else {
			cur := g.head
			for cur != nil && cur.next != e {
				cur = cur.next
			}
			if cur != nil {
				cur.next = e.next
			}
		}
	}
	e.reset()
	g.pool.Put(e)
	g.size.Add(-1)
}

// evictOldest drops the tail of the list. Caller holds g.mu.
func (g *inMemoryGuard) evictOldest() {
	if g.head == nil {
		return
	}

	if g.head.next == nil {
		delete(g.seen, g.head.id)
		g.head.reset()
		g.pool.Put(g.head)
		g.head = nil
		g.size.Add(-1)
		return
	}

	var prev *entry
	cur := g.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	prev.next = nil
	delete(g.seen, cur.id)
	cur.reset()
	g.pool.Put(cur)
	g.size.Add(-1)
}

// Size returns the current number of tracked IDs.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
