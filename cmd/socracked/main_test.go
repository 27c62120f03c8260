package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dansarie/socracked-go/internal/attack"
	"github.com/dansarie/socracked-go/internal/crackerr"
	"github.com/dansarie/socracked-go/internal/sodark"
)

func withArgs(t *testing.T, args []string) {
	t.Helper()
	old := os.Args
	os.Args = args
	t.Cleanup(func() { os.Args = old })
}

func TestRunWrongArgumentCount(t *testing.T) {
	withArgs(t, []string{"cracker", "2", "in.txt"})
	if code := run(); code != 1 {
		t.Fatalf("run() = %d, want 1 for wrong argument count", code)
	}
}

func TestRunInvalidRounds(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, []string{"cracker", "9", filepath.Join(dir, "in.txt"), filepath.Join(dir, "out.txt")})
	if code := run(); code != 1 {
		t.Fatalf("run() = %d, want 1 for out-of-range rounds", code)
	}
}

func TestRunRoundsNotAnInteger(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, []string{"cracker", "five", filepath.Join(dir, "in.txt"), filepath.Join(dir, "out.txt")})
	if code := run(); code != 1 {
		t.Fatalf("run() = %d, want 1 for non-integer rounds", code)
	}
}

func TestRunMissingInputFile(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, []string{"cracker", "2", filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.txt")})
	if code := run(); code != 1 {
		t.Fatalf("run() = %d, want 1 for a missing input file", code)
	}
}

func TestRunTwoRoundFindsPlantedKey(t *testing.T) {
	const key = 0xc2284a1ce7be2f
	const tw1, tw2 uint64 = 0x543bd88000017550, 0xaa3bd88000017551
	const pt1, pt2 = 0x54e0cd, 0x112233
	ct1 := sodark.EncryptSodark3(2, pt1, key, tw1)
	ct2 := sodark.EncryptSodark3(2, pt2, key, tw2)

	dir := t.TempDir()
	infile := filepath.Join(dir, "tuples.txt")
	outfile := filepath.Join(dir, "keys.txt")
	content := fmt.Sprintf("%06x %06x %016x\n%06x %06x %016x\n", pt1, ct1, tw1, pt2, ct2, tw2)
	if err := os.WriteFile(infile, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	withArgs(t, []string{"cracker", "2", infile, outfile})
	if code := run(); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := attack.FormatKey(key); !containsLine(string(data), want) {
		t.Fatalf("planted key %s not found in output:\n%s", want, data)
	}
	if _, err := os.Stat(outfile + ".sha256"); err != nil {
		t.Fatalf("expected checksum sidecar: %v", err)
	}
}

func TestRunInsufficientTuplesIsExitOne(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "tuples.txt")
	outfile := filepath.Join(dir, "keys.txt")
	if err := os.WriteFile(infile, []byte("54e0cd d0721d 543bd88000017550\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	withArgs(t, []string{"cracker", "2", infile, outfile})
	if code := run(); code != 1 {
		t.Fatalf("run() = %d, want 1 for a single distinct tuple", code)
	}
}

func TestRunNoCandidatePairsIsCleanExit(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "tuples.txt")
	outfile := filepath.Join(dir, "keys.txt")

	// Every tuple shares the same tweak, so no pair can satisfy the r=6
	// filter's nonzero-byte-5 tweak-difference precondition.
	var content string
	for i := 1; i <= 5; i++ {
		content += fmt.Sprintf("%06x %06x 543bd88000017550\n", i, i)
	}
	if err := os.WriteFile(infile, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	withArgs(t, []string{"cracker", "6", infile, outfile})
	if code := run(); code != 0 {
		t.Fatalf("run() = %d, want 0 for a filter that matches no pairs", code)
	}
	data, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected an empty output file, got:\n%s", data)
	}
}

func TestFailMapsCrackerrToOne(t *testing.T) {
	err := crackerr.New(crackerr.IoError, "example", nil)
	if code := fail(err); code != 1 {
		t.Fatalf("fail() = %d, want 1", code)
	}
}

func TestTotalWorkByRoundCount(t *testing.T) {
	store := &attack.TupleStore{Tuples: []attack.Tuple{
		{Pt: 1, Ct: 1, Tw: 0x543bd88000017550},
		{Pt: 2, Ct: 2, Tw: 0x543bd88000017551},
	}}
	sink, err := attack.NewSink(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	defer sink.Close()

	for _, rounds := range []int{2, 3} {
		r, err := attack.NewCrackRun(rounds, store, sink)
		if err != nil {
			t.Fatalf("NewCrackRun(%d): %v", rounds, err)
		}
		if w := totalWork(r); w != 0 {
			t.Errorf("totalWork(rounds=%d) = %d, want 0", rounds, w)
		}
	}
	for _, rounds := range []int{4, 5} {
		r, err := attack.NewCrackRun(rounds, store, sink)
		if err != nil {
			t.Fatalf("NewCrackRun(%d): %v", rounds, err)
		}
		if w := totalWork(r); w != 0x10000 {
			t.Errorf("totalWork(rounds=%d) = %d, want 0x10000", rounds, w)
		}
	}
}

func containsLine(data, line string) bool {
	for _, l := range splitLines(data) {
		if l == line {
			return true
		}
	}
	return false
}

func splitLines(data string) []string {
	var lines []string
	start := 0
	for i, c := range data {
		if c == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	return lines
}
