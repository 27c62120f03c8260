package attack

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/dansarie/socracked-go/internal/crackerr"
)

// CrackRun is the single place that owns a key-recovery attack's state:
// the tuples it was given, the pairs derived from them for round counts
// that need a filter, the dispatcher handing out work units, and the sink
// candidate keys are written to. It replaces the original program's global
// variables and three free-standing mutexes with one struct any number of
// workers can be pointed at.
type CrackRun struct {
	ID     string
	Rounds int
	Store  *TupleStore
	Pairs  *PairStore
	Sink   *Sink

	dispatcher *Dispatcher
}

// NewCrackRun builds a run for rounds against the tuples in store, writing
// verified keys to sink. For round counts 6, 7, and 8 it filters store's
// tuples into pairs first; for every other round count pairs is left empty
// and the dispatcher serves plain 16-bit work units.
func NewCrackRun(rounds int, store *TupleStore, sink *Sink) (*CrackRun, error) {
	run := &CrackRun{
		ID:     uuid.NewString(),
		Rounds: rounds,
		Store:  store,
		Sink:   sink,
	}

	switch rounds {
	case 6, 7, 8:
		run.Pairs = FilterPairs(store.Tuples, rounds)
		if len(run.Pairs.Pairs) == 0 {
			return nil, crackerr.New(crackerr.NoCandidatePairs,
				fmt.Sprintf("no candidate pairs survived the %d-round filter", rounds), nil)
		}
		run.dispatcher = NewDispatcher(run.Pairs.Pairs)
	default:
		run.dispatcher = NewDispatcher(nil)
	}
	return run, nil
}

// Dispatcher returns the run's work dispatcher, for the Progress Reporter.
func (r *CrackRun) Dispatcher() *Dispatcher { return r.dispatcher }

// WorkerCount reports how many goroutines Run will spawn for this round
// count: one per logical CPU for the parallel attacks (4, 5, 6, 7, 8), one
// for the attacks that run to completion on the calling goroutine (2, 3).
func (r *CrackRun) WorkerCount() int {
	switch r.Rounds {
	case 2, 3:
		return 1
	default:
		n := runtime.NumCPU()
		if n < 1 {
			n = 1
		}
		return n
	}
}

// Run executes the attack to completion, spawning WorkerCount goroutines
// for round counts that parallelize and blocking until every work unit has
// been served or Shutdown has been called.
func (r *CrackRun) Run() error {
	switch r.Rounds {
	case 2:
		return Attack2(r.Store, r.Sink)
	case 3:
		return Attack3(r.Store, r.Sink)
	}

	workers := r.WorkerCount()
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = r.runWorker()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			r.dispatcher.Shutdown()
			return err
		}
	}
	return nil
}

func (r *CrackRun) runWorker() error {
	switch r.Rounds {
	case 4:
		return Attack4(r.Store, r.dispatcher, r.Sink)
	case 5:
		return Attack5(r.Store, r.dispatcher, r.Sink)
	case 6, 7, 8:
		return Attack678(r.Rounds, r.Store, r.dispatcher, r.Sink)
	default:
		return crackerr.New(crackerr.UsageError,
			fmt.Sprintf("unsupported round count %d", r.Rounds), nil)
	}
}

// Shutdown makes every future work request to this run's dispatcher report
// exhausted, so workers return after the unit they are working on.
func (r *CrackRun) Shutdown() {
	if r.dispatcher != nil {
		r.dispatcher.Shutdown()
	}
}
