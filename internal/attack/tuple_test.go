package attack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dansarie/socracked-go/internal/crackerr"
)

func TestLoadTupleStoreParsesAndSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuples.txt")
	content := "012345 abcdef 0123456789abcdef\n" +
		"not a tuple line\n" +
		"000000 000000 0000000000000000\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := LoadTupleStore(path)
	if err != nil {
		t.Fatalf("LoadTupleStore: %v", err)
	}
	if len(store.Tuples) != 2 {
		t.Fatalf("got %d tuples, want 2", len(store.Tuples))
	}
	if store.Tuples[0].Pt != 0x012345 || store.Tuples[0].Ct != 0xabcdef || store.Tuples[0].Tw != 0x0123456789abcdef {
		t.Errorf("first tuple parsed wrong: %+v", store.Tuples[0])
	}
}

func TestLoadTupleStoreMissingFile(t *testing.T) {
	_, err := LoadTupleStore(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !crackerr.OfKind(err, crackerr.IoError) {
		t.Errorf("expected an IoError, got %v", err)
	}
}

func TestFirstDistinctPair(t *testing.T) {
	store := &TupleStore{Tuples: []Tuple{
		{Pt: 1, Ct: 1, Tw: 1},
		{Pt: 1, Ct: 1, Tw: 1},
		{Pt: 2, Ct: 2, Tw: 2},
	}}
	t0, t1, ok := store.FirstDistinctPair()
	if !ok {
		t.Fatal("expected a distinct pair")
	}
	if t0 != store.Tuples[0] || t1 != store.Tuples[2] {
		t.Errorf("got t0=%+v t1=%+v", t0, t1)
	}
}

func TestFirstDistinctPairAllIdentical(t *testing.T) {
	store := &TupleStore{Tuples: []Tuple{
		{Pt: 1, Ct: 1, Tw: 1},
		{Pt: 1, Ct: 1, Tw: 1},
	}}
	if _, _, ok := store.FirstDistinctPair(); ok {
		t.Fatal("expected no distinct pair")
	}
}

func TestConfirmingTuple(t *testing.T) {
	store := &TupleStore{Tuples: []Tuple{
		{Pt: 1, Ct: 1, Tw: 1},
		{Pt: 2, Ct: 2, Tw: 2},
		{Pt: 3, Ct: 3, Tw: 3},
	}}
	t2, ok := store.ConfirmingTuple(store.Tuples[0], store.Tuples[1])
	if !ok || t2 != store.Tuples[2] {
		t.Errorf("got t2=%+v ok=%v", t2, ok)
	}
}

func TestRequireDistinctPairInsufficientTuples(t *testing.T) {
	store := &TupleStore{}
	_, _, err := store.RequireDistinctPair()
	if err == nil {
		t.Fatal("expected an error")
	}
}
