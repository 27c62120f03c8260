/*
SoCracked-Go - SoDark key-recovery cryptanalysis toolkit

Description:

	Recovers the 56-bit key of a SoDark-3 block cipher reduced to a given
	number of rounds from a handful of known plaintext/ciphertext/tweak
	tuples, the way MIL-STD-188-141 ALE's SoDark cipher has been shown
	vulnerable to meet-in-the-middle and differential attacks for r <= 8.

Algorithm (per round count):

	2/3 rounds: direct algebraic inversion of the S-box layers, single pass.
	4/5 rounds: meet-in-the-middle; 4 rounds probe a backward hash table
	            with a forward sweep, 5 rounds probe a forward hash table
	            with a backward sweep.
	6/7/8 rounds: differential pair filter narrows candidate tuple pairs,
	            then a guess-and-verify sweep over the remaining key bytes.

Usage:

	cracker <rounds> <infile> <outfile>

Exit codes:

	0 - clean completion, including the case where no keys were found.
	1 - usage error, I/O failure, or a broken internal invariant.

Author: David Zita
License: MIT
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/dansarie/socracked-go/internal/attack"
	"github.com/dansarie/socracked-go/internal/crackerr"
	"github.com/dansarie/socracked-go/internal/sodark"
)

// usage prints the command's calling convention to stderr, mirroring the
// teacher's argument-count usage message.
func usage() {
	fmt.Fprintln(os.Stderr, "Usage: cracker <rounds> <infile> <outfile>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Arguments:")
	fmt.Fprintln(os.Stderr, "  rounds      - Reduced round count to attack, 2 through 8")
	fmt.Fprintln(os.Stderr, "  infile      - Tuple file: one \"%06x %06x %016x\" (pt ct tw) line per observation")
	fmt.Fprintln(os.Stderr, "  outfile     - Output file for recovered keys (appended, one per line)")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Example:")
	fmt.Fprintln(os.Stderr, "  cracker 5 tuples.txt keys.txt")
}

// fail prints err's message to stderr and returns the process exit code the
// spec's CLI contract assigns to it: every crackerr.Kind, and any error that
// does not wrap one, maps to 1. This is the one place in the program that
// turns a typed error into a number.
func fail(err error) int {
	var kerr *crackerr.Error
	if errors.As(err, &kerr) {
		fmt.Fprintf(os.Stderr, "cracker: %s\n", kerr.Error())
	} else {
		fmt.Fprintf(os.Stderr, "cracker: %s\n", err.Error())
	}
	return 1
}

func totalWork(run *attack.CrackRun) uint64 {
	switch run.Rounds {
	case 4, 5:
		return 0x10000
	case 6, 7, 8:
		return 0x10000 * uint64(len(run.Pairs.Pairs))
	default:
		return 0
	}
}

func run() int {
	if len(os.Args) != 4 {
		usage()
		return 1
	}

	rounds, err := strconv.Atoi(os.Args[1])
	if err != nil || rounds < 2 || rounds > 8 {
		fmt.Fprintf(os.Stderr, "cracker: rounds must be an integer in [2, 8], got %q\n", os.Args[1])
		return 1
	}
	infile := os.Args[2]
	outfile := os.Args[3]

	runtime.GOMAXPROCS(runtime.NumCPU())

	fmt.Printf("╔════════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║  SoCracked-Go - SoDark key-recovery cryptanalysis toolkit    ║\n")
	fmt.Printf("╚════════════════════════════════════════════════════════════╝\n\n")
	fmt.Printf("CPU: %s\n", attack.CPUBanner())
	fmt.Printf("Rounds: %d | Input: %s | Output: %s\n\n", rounds, infile, outfile)

	if err := sodark.SelfCheck(); err != nil {
		return fail(crackerr.New(crackerr.InternalInvariant, "cipher self-check", err))
	}

	store, err := attack.LoadTupleStore(infile)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Loaded %d tuples from %s\n", len(store.Tuples), infile)

	sink, err := attack.NewSink(outfile)
	if err != nil {
		return fail(err)
	}

	crackRun, err := attack.NewCrackRun(rounds, store, sink)
	if err != nil {
		// A pair filter that matched nothing is a clean "no keys" outcome,
		// not a failure: the tuples were read and searched, they just did
		// not contain a pair the distinguisher recognizes.
		if crackerr.OfKind(err, crackerr.NoCandidatePairs) {
			if closeErr := sink.Close(); closeErr != nil {
				return fail(closeErr)
			}
			fmt.Printf("\nNo candidate keys found: %s.\n", err)
			return 0
		}
		sink.Close()
		return fail(err)
	}
	fmt.Printf("Run ID: %s\n", crackRun.ID)

	if work := totalWork(crackRun); work > 0 {
		fmt.Printf("Starting %d-round attack...\n", rounds)
		fmt.Printf("════════════════════════════════════════════════════════════\n\n")
		done := make(chan struct{})
		go attack.ReportProgress(os.Stdout, crackRun.Dispatcher(), sink, work, 100*time.Millisecond, done)
		defer close(done)
	} else {
		fmt.Printf("Starting %d-round attack...\n", rounds)
		fmt.Printf("════════════════════════════════════════════════════════════\n\n")
	}

	startTime := time.Now()
	runErr := crackRun.Run()
	elapsed := time.Since(startTime)

	if runErr != nil {
		sink.Close()
		return fail(runErr)
	}

	if err := sink.Close(); err != nil {
		return fail(err)
	}

	found := sink.Found()
	if found == 0 {
		fmt.Printf("\nNo candidate keys found in %.1fs.\n", elapsed.Seconds())
	} else {
		fmt.Printf("\n%d candidate key(s) found in %.1fs, written to %s.\n", found, elapsed.Seconds(), outfile)
	}
	return 0
}

func main() {
	os.Exit(run())
}
