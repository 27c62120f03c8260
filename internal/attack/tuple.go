package attack

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dansarie/socracked-go/internal/crackerr"
)

// Tuple is a single plaintext/ciphertext/tweak observation under an unknown
// key. Immutable once loaded.
type Tuple struct {
	Pt uint32
	Ct uint32
	Tw uint64
}

// TupleStore holds every observation loaded for one attack run, in file
// order; duplicate lines are kept.
type TupleStore struct {
	Tuples []Tuple
}

// LoadTupleStore reads SoDark-3 tuples from path, one per line in the
// "%06x %06x %016x" (pt ct tw) form. Lines that do not match are skipped.
func LoadTupleStore(path string) (*TupleStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, crackerr.New(crackerr.IoError, "open tuple file", err)
	}
	defer f.Close()

	store := &TupleStore{}
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		var pt, ct uint32
		var tw uint64
		n, err := fmt.Sscanf(line, "%06x %06x %016x", &pt, &ct, &tw)
		if err != nil || n != 3 {
			continue
		}
		store.Tuples = append(store.Tuples, Tuple{Pt: pt, Ct: ct, Tw: tw})
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, crackerr.New(crackerr.IoError, "read tuple file", err)
	}
	return store, nil
}

// FirstDistinctPair returns the first tuple and the first subsequent tuple
// that differs from it, deduplicating a leading run of identical
// observations. ok is false if every loaded tuple is identical.
func (s *TupleStore) FirstDistinctPair() (t0, t1 Tuple, ok bool) {
	if len(s.Tuples) == 0 {
		return Tuple{}, Tuple{}, false
	}
	t0 = s.Tuples[0]
	for _, t := range s.Tuples[1:] {
		if t != t0 {
			return t0, t, true
		}
	}
	return Tuple{}, Tuple{}, false
}

// ConfirmingTuple returns the first loaded tuple distinct from both t0 and
// t1. The attacks do not call it: Verify already checks every candidate
// against all loaded tuples. ok is false if no third distinct tuple was
// loaded.
func (s *TupleStore) ConfirmingTuple(t0, t1 Tuple) (t2 Tuple, ok bool) {
	for _, t := range s.Tuples {
		if t != t0 && t != t1 {
			return t, true
		}
	}
	return Tuple{}, false
}

// RequireDistinctPair returns the first distinct pair or an
// InsufficientTuples error, for round counts that need exactly two tuples
// to attack directly.
func (s *TupleStore) RequireDistinctPair() (Tuple, Tuple, error) {
	t0, t1, ok := s.FirstDistinctPair()
	if !ok {
		return Tuple{}, Tuple{}, crackerr.New(crackerr.InsufficientTuples,
			fmt.Sprintf("need two distinct tuples, loaded %d", len(s.Tuples)), nil)
	}
	return t0, t1, nil
}
