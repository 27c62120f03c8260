package attack

import (
	"math"
	"sync"
	"sync/atomic"
)

// Dispatcher hands out 16-bit work units at most once each to any number of
// concurrent callers. For round counts 6, 7, and 8 it also advances an index
// into a fixed Pair slice once the 16-bit space wraps, so every pair is
// swept by every work unit value in turn.
//
// The pair-free case (r ∈ {4, 5}) is served by a single atomic counter, the
// hot path exercised by dispatcher concurrency property 10. The pair-aware
// case additionally needs to advance a second counter on wraparound, which
// a lone atomic cannot do without a lost-update race, so it is guarded by
// one mutex — still a single shared region, not the original's three.
type Dispatcher struct {
	next     uint32
	mu       sync.Mutex
	nextPair uint32
	pairs    []Pair
	shutdown atomic.Bool
}

// NewDispatcher builds a dispatcher over the given pairs. For attacks that
// do not use pairs (r ∈ {4, 5}), pass a nil or empty slice.
func NewDispatcher(pairs []Pair) *Dispatcher {
	return &Dispatcher{pairs: pairs}
}

// Shutdown forces every subsequent Request to report exhausted. A Request
// that has already passed its shutdown check still returns its unit.
func (d *Dispatcher) Shutdown() {
	d.shutdown.Store(true)
}

// ShuttingDown reports whether Shutdown has been called.
func (d *Dispatcher) ShuttingDown() bool {
	return d.shutdown.Load()
}

// Request returns the next 16-bit work unit and, when this dispatcher was
// built with pairs, the Pair it should be attacked against. ok is false
// when the work space is exhausted or shutdown has been requested.
func (d *Dispatcher) Request() (w uint32, pair Pair, ok bool) {
	if d.shutdown.Load() {
		return 0, Pair{}, false
	}
	if len(d.pairs) == 0 {
		n := atomic.AddUint32(&d.next, 1) - 1
		if n >= 0x10000 {
			return 0, Pair{}, false
		}
		return n, Pair{}, true
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if int(d.nextPair) >= len(d.pairs) {
		return 0, Pair{}, false
	}
	if d.next >= 0x10000 {
		d.next = 0
		d.nextPair++
		if int(d.nextPair) >= len(d.pairs) {
			return 0, Pair{}, false
		}
	}
	w = d.next
	pair = d.pairs[d.nextPair]
	d.next++
	return w, pair, true
}

// Remaining reports how many work units have not been handed out yet, for
// the Progress Reporter: over the 16-bit work space, or over every pair's
// work space when built with pairs (capped at the largest uint32). It never
// returns a negative value.
func (d *Dispatcher) Remaining() uint32 {
	if len(d.pairs) == 0 {
		n := atomic.LoadUint32(&d.next)
		if n > 0x10000 {
			return 0
		}
		return 0x10000 - n
	}
	d.mu.Lock()
	left := uint64(len(d.pairs)-int(d.nextPair))*0x10000 - uint64(d.next)
	d.mu.Unlock()
	if left > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(left)
}
