// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bytebuf

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Concurrency selects the synchronization strategy a Pool uses for its
// per-tier freelists.
type Concurrency int

const (
	// SingleThreaded keeps a plain, unsynchronized freelist per tier.
	// Concurrent Acquire/Release from multiple goroutines is undefined.
	SingleThreaded Concurrency = iota
	// MultiThreaded guards each tier's freelist with a mutex and backs
	// Hits/Misses/PeakPoolSize/CurrentPoolSize with xsync counters,
	// making Acquire/Release/Stats safe for concurrent use without an
	// external mutex.
	MultiThreaded
)

// DefaultBufferSize is the size Acquire uses when called with size <= 0.
const DefaultBufferSize = BufferSizeSmall

// MaxPoolSize is the default per-tier cap on idle Buffers a Pool will
// retain; Release drops buffers beyond this cap instead of growing
// without bound.
const MaxPoolSize = 256

// Stats is a snapshot of a Pool's counters.
type Stats struct {
	Hits            int64
	Misses          int64
	PeakPoolSize    int64
	CurrentPoolSize int64
}

// HitRate returns Hits / (Hits + Misses), or 0 if the pool has never been
// acquired from.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Pool is a size-classed store of idle Buffers, bucketed into the 12-tier
// hierarchy documented in package doc.go. Acquire returns the smallest
// tier whose capacity satisfies the requested size, reusing an idle
// Buffer when one exists and allocating fresh backing storage otherwise.
//
// The zero value is not usable; construct with NewPool.
type Pool struct {
	mode          Concurrency
	defaultSize   int
	maxPoolSize   int
	freelists     [TierEnd]*freelist
	hits, misses  counter
	peak, current counter
}

// PoolOption configures a Pool at construction.
type PoolOption func(*Pool)

// WithDefaultBufferSize overrides the size Acquire(0) returns.
func WithDefaultBufferSize(size int) PoolOption {
	return func(p *Pool) { p.defaultSize = size }
}

// WithMaxPoolSize overrides the per-tier idle-buffer cap.
func WithMaxPoolSize(n int) PoolOption {
	return func(p *Pool) { p.maxPoolSize = n }
}

// NewPool constructs a Pool running in the given concurrency mode.
func NewPool(mode Concurrency, opts ...PoolOption) *Pool {
	p := &Pool{
		mode:        mode,
		defaultSize: DefaultBufferSize,
		maxPoolSize: MaxPoolSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	for t := BufferTier(0); t < TierEnd; t++ {
		p.freelists[t] = newFreelist(mode, p.maxPoolSize)
	}
	if mode == MultiThreaded {
		p.hits, p.misses = newAtomicCounter(), newAtomicCounter()
		p.peak, p.current = newAtomicCounter(), newAtomicCounter()
	} else {
		p.hits, p.misses = newPlainCounter(), newPlainCounter()
		p.peak, p.current = newPlainCounter(), newPlainCounter()
	}
	return p
}

// Acquire returns a Buffer whose capacity is at least size (the pool's
// default buffer size if size <= 0), positioned for writing. It reuses an
// idle Buffer from the matching tier's freelist when one is available;
// otherwise it allocates a new one. Acquire never blocks.
func (p *Pool) Acquire(size int) *Buffer {
	if size <= 0 {
		size = p.defaultSize
	}
	if size > BufferSizeTitan {
		p.misses.add(1)
		return New(size)
	}
	tier := TierBySize(size)
	fl := p.freelists[tier]

	if buf, ok := fl.take(); ok {
		p.hits.add(1)
		p.current.add(-1)
		buf.ResetForWrite()
		return buf
	}
	p.misses.add(1)
	return p.alloc(tier)
}

// Release returns buf to the pool for reuse, provided the owning tier's
// idle-buffer cap has not been reached; otherwise buf is dropped. A buffer
// smaller than the smallest tier (32 bytes) is always dropped. buf
// must not be used by the caller after Release returns. Release applies
// ResetForWrite to buf before it becomes eligible for reuse.
func (p *Pool) Release(buf *Buffer) {
	if buf == nil {
		return
	}
	buf.ResetForWrite()
	tier := TierBySize(buf.Capacity())
	if buf.Capacity() < tier.Size() {
		// Not a full tier size: file it under the largest tier it can hold.
		if tier == TierPico {
			return
		}
		tier--
	}
	fl := p.freelists[tier]
	if fl.put(buf) {
		p.current.add(1)
		if cur := p.current.load(); cur > p.peak.load() {
			p.peak.store(cur)
		}
	}
}

// Clear drops every idle Buffer currently held by the pool. In-flight
// (acquired but not yet released) Buffers are unaffected.
func (p *Pool) Clear() {
	for t := BufferTier(0); t < TierEnd; t++ {
		p.freelists[t].clear()
	}
	p.current.store(0)
}

// ClearStats resets the Hits/Misses/PeakPoolSize counters to zero without
// affecting idle buffers. CurrentPoolSize is left untouched.
func (p *Pool) ClearStats() {
	p.hits.store(0)
	p.misses.store(0)
	p.peak.store(p.current.load())
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Hits:            p.hits.load(),
		Misses:          p.misses.load(),
		PeakPoolSize:    p.peak.load(),
		CurrentPoolSize: p.current.load(),
	}
}

// WithBuffer acquires a Buffer of the given size, passes it to body, and
// guarantees Release on every exit path including a panic propagating out
// of body.
func (p *Pool) WithBuffer(size int, body func(*Buffer) error) error {
	buf := p.Acquire(size)
	defer p.Release(buf)
	return body(buf)
}

// WithPool passes p to body and guarantees Clear at scope end, even if
// body panics.
func WithPool(p *Pool, body func(*Pool) error) error {
	defer p.Clear()
	return body(p)
}

func (p *Pool) alloc(tier BufferTier) *Buffer {
	size := tier.Size()
	if tier >= TierBig {
		return Wrap(CacheLineAlignedMem(size))
	}
	return New(size)
}

// freelist is the per-tier idle-buffer store. In SingleThreaded mode it is
// a plain stack whose mutex is never locked; in
// MultiThreaded mode it is backed by a mutex-guarded stack sized to the
// pool's cap, trading the teacher's lock-free BoundedPool[int] ring
// (defined in bounded_pool.go)
// for a simpler design better suited to *Buffer values of heterogeneous
// capacity within a tier.
type freelist struct {
	mode Concurrency
	cap  int
	mu   sync.Mutex
	idle []*Buffer
}

func newFreelist(mode Concurrency, cap int) *freelist {
	return &freelist{mode: mode, cap: cap}
}

func (f *freelist) take() (*Buffer, bool) {
	if f.mode == MultiThreaded {
		f.mu.Lock()
		defer f.mu.Unlock()
	}
	n := len(f.idle)
	if n == 0 {
		return nil, false
	}
	buf := f.idle[n-1]
	f.idle = f.idle[:n-1]
	return buf, true
}

func (f *freelist) put(buf *Buffer) bool {
	if f.mode == MultiThreaded {
		f.mu.Lock()
		defer f.mu.Unlock()
	}
	if len(f.idle) >= f.cap {
		return false
	}
	f.idle = append(f.idle, buf)
	return true
}

func (f *freelist) clear() {
	if f.mode == MultiThreaded {
		f.mu.Lock()
		defer f.mu.Unlock()
	}
	f.idle = nil
}

// counter abstracts over a plain int64 (SingleThreaded pools) and an
// xsync-backed atomic counter (MultiThreaded pools), so Pool's stat
// bookkeeping is written once regardless of mode.
type counter interface {
	add(delta int64)
	load() int64
	store(v int64)
}

type plainCounter struct{ v int64 }

func newPlainCounter() counter { return &plainCounter{} }
func (c *plainCounter) add(delta int64) { c.v += delta }
func (c *plainCounter) load() int64     { return c.v }
func (c *plainCounter) store(v int64)   { c.v = v }

// atomicCounter is a MultiThreaded-mode counter backed by xsync's
// cache-line-padded Counter, which spreads increments across per-CPU
// shards to avoid the contention a single atomic.Int64 would see under
// many concurrent Acquire/Release calls.
type atomicCounter struct {
	c *xsync.Counter
}

func newAtomicCounter() counter { return &atomicCounter{c: xsync.NewCounter()} }

func (c *atomicCounter) add(delta int64) { c.c.Add(delta) }
func (c *atomicCounter) load() int64     { return c.c.Value() }
func (c *atomicCounter) store(v int64) {
	// xsync.Counter exposes Add/Value only; reset via the delta from the
	// current snapshot, which is exact as long as callers serialize
	// store() against concurrent add() for that field (true for Clear
	// and ClearStats, the only store() callers).
	c.c.Add(v - c.c.Value())
}
