package attack

import "github.com/dansarie/socracked-go/internal/sodark"

// delta4Entry is one (k4, k5) hypothesis in Attack4's backward hash table.
// next is a 1-based index into the owning arena; 0 marks the end of a
// bucket chain.
type delta4Entry struct {
	k5                                 byte
	app1, app2, bpp1, bpp2, cpp1, cpp2 byte
	next                               uint32
}

// attack4Table is the backward hash table's two arena slices, allocated
// once per worker and reused across every (k2, k3) work unit it serves.
type attack4Table struct {
	items []delta4Entry
	heads []uint32
}

func newAttack4Table() *attack4Table {
	return &attack4Table{
		items: make([]delta4Entry, 0x10000),
		heads: make([]uint32, 0x10000),
	}
}

// Attack4 recovers 56-bit keys consistent with two tuples under a 4-round
// reduction with a meet-in-the-middle split after round two. For every
// (k2, k3) work unit handed out by dispatcher, it builds a backward hash
// table over all 65536 (k4, k5) guesses, bucketed on the byte the forward
// and backward halves of the cipher must agree on, then sweeps (k1, k4)
// forward and probes the table for matches.
//
// The table lives in two slices reused across work units: heads[addr] is a
// 1-based index into items, or 0 for an empty bucket, and items[i].next
// chains to the previous occupant of the same bucket. This replaces the
// original's per-thread pointer-linked lists with an arena indexed by
// plain integers, which only needs its head slice cleared between units.
func Attack4(store *TupleStore, dispatcher *Dispatcher, sink *Sink) error {
	tA, tB, err := store.RequireDistinctPair()
	if err != nil {
		return err
	}

	table := newAttack4Table()
	for {
		w, _, ok := dispatcher.Request()
		if !ok {
			return nil
		}
		k2 := byte(w >> 8)
		k3 := byte(w)
		if err := attack4Unit(tA, tB, k2, k3, table, store.Tuples, sink); err != nil {
			return err
		}
	}
}

// attack4Unit runs the full table-build-and-probe body for one (k2, k3)
// work unit against the two split tuples tA and tB, emitting every
// candidate key that verifies against tuples.
func attack4Unit(tA, tB Tuple, k2, k3 byte, table *attack4Table, tuples []Tuple, sink *Sink) error {
	tw1 := tweakBytes(tA.Tw)
	tw2 := tweakBytes(tB.Tw)
	r1tw1 := uint32(tA.Tw>>40) & 0xffffff
	r1tw2 := uint32(tB.Tw>>40) & 0xffffff
	r4tw1 := uint32(tA.Tw>>32) & 0xffffff
	r4tw2 := uint32(tB.Tw>>32) & 0xffffff

	items := table.items
	heads := table.heads
	for i := range heads {
		heads[i] = 0
	}

	for k45 := 0; k45 < 0x10000; k45++ {
		k4 := byte(k45 >> 8)
		k5 := byte(k45)
		k345 := uint32(k3)<<16 | uint32(k45)

		r31 := sodark.Dec3(tA.Ct, k345^r4tw1)
		r32 := sodark.Dec3(tB.Ct, k345^r4tw2)
		r31a, r31b, r31c := byte(r31>>16), byte(r31>>8), byte(r31)
		r32a, r32b, r32c := byte(r32>>16), byte(r32>>8), byte(r32)

		bpp1 := sodark.InvSBox[r31b] ^ r31a ^ r31c ^ k2 ^ tw1[0]
		bpp2 := sodark.InvSBox[r32b] ^ r32a ^ r32c ^ k2 ^ tw2[0]
		app1 := sodark.InvSBox[r31a] ^ bpp1 ^ tw1[6]
		app2 := sodark.InvSBox[r32a] ^ bpp2 ^ tw2[6]
		cpp1 := sodark.InvSBox[r31c] ^ bpp1 ^ tw1[7]
		cpp2 := sodark.InvSBox[r32c] ^ bpp2 ^ tw2[7]

		addr := uint16(k4)<<8 | uint16(app1^app2)
		items[k45] = delta4Entry{
			k5: k5, app1: app1, app2: app2,
			bpp1: bpp1, bpp2: bpp2, cpp1: cpp1, cpp2: cpp2,
			next: heads[addr],
		}
		heads[addr] = uint32(k45) + 1
	}

	for k1i := 0; k1i < 256; k1i++ {
		k1 := byte(k1i)
		k123 := uint32(k1)<<16 | uint32(k2)<<8 | uint32(k3)
		r11 := sodark.Enc3(tA.Pt, k123^r1tw1)
		r12 := sodark.Enc3(tB.Pt, k123^r1tw2)
		r11a, r11b, r11c := byte(r11>>16), byte(r11>>8), byte(r11)
		r12a, r12b, r12c := byte(r12>>16), byte(r12>>8), byte(r12)

		for k4i := 0; k4i < 256; k4i++ {
			k4 := byte(k4i)
			app1 := sodark.SBox[r11a^r11b^k4^tw1[3]]
			app2 := sodark.SBox[r12a^r12b^k4^tw2[3]]
			addr := uint16(k4)<<8 | uint16(app1^app2)

			for idx := heads[addr]; idx != 0; idx = items[idx-1].next {
				e := &items[idx-1]
				cpp1 := sodark.SBox[r11b^r11c^e.k5^tw1[4]]
				cpp2 := sodark.SBox[r12b^r12c^e.k5^tw2[4]]
				k11 := cpp1 ^ e.cpp1
				k12 := cpp2 ^ e.cpp2
				k61 := r11b ^ app1 ^ cpp1 ^ tw1[5] ^ sodark.InvSBox[e.bpp1]
				k62 := r12b ^ app2 ^ cpp2 ^ tw2[5] ^ sodark.InvSBox[e.bpp2]
				k71 := app1 ^ e.app1
				k72 := app2 ^ e.app2
				if k11 != k12 || k61 != k62 || k71 != k72 {
					continue
				}
				key := uint64(k123)<<32 | uint64(k4)<<24 |
					uint64(e.k5)<<16 | uint64(k61)<<8 | uint64(k71)
				if !Verify(key, 4, tuples) {
					continue
				}
				if err := sink.Emit(key); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
