package attack

import (
	"sync"
	"testing"
)

func TestDispatcherNoPairsServesEveryUnitOnce(t *testing.T) {
	d := NewDispatcher(nil)
	seen := make(map[uint32]bool)
	for {
		w, _, ok := d.Request()
		if !ok {
			break
		}
		if seen[w] {
			t.Fatalf("work unit %d served twice", w)
		}
		seen[w] = true
	}
	if len(seen) != 0x10000 {
		t.Fatalf("got %d units, want 65536", len(seen))
	}
}

func TestDispatcherConcurrentCallersUnionToFullRange(t *testing.T) {
	d := NewDispatcher(nil)
	const workers = 8
	var mu sync.Mutex
	seen := make(map[uint32]int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				w, _, ok := d.Request()
				if !ok {
					return
				}
				mu.Lock()
				seen[w]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 0x10000 {
		t.Fatalf("got %d distinct units, want 65536", len(seen))
	}
	for w, n := range seen {
		if n != 1 {
			t.Fatalf("unit %d served %d times, want 1", w, n)
		}
	}
}

func TestDispatcherShutdownHalts(t *testing.T) {
	d := NewDispatcher(nil)
	if _, _, ok := d.Request(); !ok {
		t.Fatal("expected first request to succeed")
	}
	d.Shutdown()
	if _, _, ok := d.Request(); ok {
		t.Fatal("expected request after shutdown to fail")
	}
	if !d.ShuttingDown() {
		t.Fatal("expected ShuttingDown to report true")
	}
}

func TestDispatcherWithPairsAdvancesAfterWrap(t *testing.T) {
	pairs := []Pair{{}, {}}
	d := NewDispatcher(pairs)
	// Drain the first pair's work space.
	for i := 0; i < 0x10000; i++ {
		if _, _, ok := d.Request(); !ok {
			t.Fatalf("request %d failed before wraparound", i)
		}
	}
	w, _, ok := d.Request()
	if !ok {
		t.Fatal("expected a request to succeed after wraparound onto the second pair")
	}
	if w != 0 {
		t.Fatalf("got work unit %d after wraparound, want 0", w)
	}
	for i := 0; i < 0x10000-1; i++ {
		if _, _, ok := d.Request(); !ok {
			t.Fatalf("request %d failed in second pair's range", i)
		}
	}
	if _, _, ok := d.Request(); ok {
		t.Fatal("expected exhaustion after both pairs' work spaces are served")
	}
}

func TestDispatcherRemaining(t *testing.T) {
	d := NewDispatcher(nil)
	if got := d.Remaining(); got != 0x10000 {
		t.Fatalf("got %d remaining, want 65536", got)
	}
	d.Request()
	if got := d.Remaining(); got != 0xffff {
		t.Fatalf("got %d remaining after one request, want 65535", got)
	}
}
