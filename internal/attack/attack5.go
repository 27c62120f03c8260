package attack

import "github.com/dansarie/socracked-go/internal/sodark"

// delta5Entry is one k2 hypothesis in Attack5's forward hash table, bucketed
// on the low byte of the forward differential. next is a 1-based index into
// the owning arena; 0 marks the end of a bucket chain.
type delta5Entry struct {
	k2    byte
	delta uint32
	next  uint16
}

// Attack5 recovers 56-bit keys consistent with two tuples under a 5-round
// reduction, meeting in the middle after round two. For every (k1, k3) work
// unit it sweeps k456 as a single 24-bit quantity; for each value it builds
// a 256-bucket forward hash table over every k2 guess, keyed by the low byte
// of the forward differential, then sweeps k7 backward and probes the table.
//
// The original reference implementation starts the k456 sweep at 0x1ce7be,
// the correct key's value, to keep its demonstration run short; this
// implementation sweeps the full range starting at zero so a real,
// unplanted key is found on its own merits.
func Attack5(store *TupleStore, dispatcher *Dispatcher, sink *Sink) error {
	tA, tB, err := store.RequireDistinctPair()
	if err != nil {
		return err
	}

	for {
		w, _, ok := dispatcher.Request()
		if !ok {
			return nil
		}
		k1 := byte(w >> 8)
		k3 := byte(w)
		if err := attack5Unit(tA, tB, k1, k3, 0, 0x1000000, store.Tuples, sink); err != nil {
			return err
		}
	}
}

// attack5Unit sweeps k456 over [k456Lo, k456Hi) for one (k1, k3) work unit,
// emitting every candidate key that verifies against tuples. Tests drive a
// narrow [k456Lo, k456Hi) range directly instead of the full 2^24 sweep
// Attack5 uses in production.
func attack5Unit(tA, tB Tuple, k1, k3 byte, k456Lo, k456Hi uint32, tuples []Tuple, sink *Sink) error {
	r1tw1 := uint32(tA.Tw >> 40)
	r1tw2 := uint32(tB.Tw >> 40)
	r2tw1 := uint32(tA.Tw>>16) & 0xffffff
	r2tw2 := uint32(tB.Tw>>16) & 0xffffff
	r4tw1 := uint32(tA.Tw>>32) & 0xffffff
	r4tw2 := uint32(tB.Tw>>32) & 0xffffff
	r5tw1 := uint32(tA.Tw>>8) & 0xffffff
	r5tw2 := uint32(tB.Tw>>8) & 0xffffff
	// Round three's key bytes a, b, c carry tweak bytes 7, 1 and 8; their
	// differences between the two tuples enter the backward differential.
	dt7 := uint32(byte(tA.Tw>>8) ^ byte(tB.Tw>>8))
	dt1 := uint32(byte(tA.Tw>>56) ^ byte(tB.Tw>>56))
	dt8 := uint32(byte(tA.Tw) ^ byte(tB.Tw))

	var items [0x100]delta5Entry
	var heads [0x100]uint16

	for k456 := k456Lo; k456 < k456Hi; k456++ {
		pkey := uint64(k1)<<48 | uint64(k3)<<32 | uint64(k456)<<8
		k345 := uint32(k3)<<16 | (k456 >> 8)

		for i := range heads {
			heads[i] = 0
		}

		for k2i := 0; k2i < 256; k2i++ {
			k2 := byte(k2i)
			k123 := uint32(k1)<<16 | uint32(k2)<<8 | uint32(k3)
			v1 := sodark.Enc3(sodark.Enc3(tA.Pt, k123^r1tw1), k456^r2tw1)
			v2 := sodark.Enc3(sodark.Enc3(tB.Pt, k123^r1tw2), k456^r2tw2)
			delta := v1 ^ v2
			addr := delta & 0xff
			items[k2] = delta5Entry{k2: k2, delta: delta, next: heads[addr]}
			heads[addr] = uint16(k2) + 1
		}

		for k7i := 0; k7i < 256; k7i++ {
			k7 := byte(k7i)
			k671 := (k456&0xff)<<16 | uint32(k7)<<8 | uint32(k1)
			v1 := sodark.Dec3(sodark.Dec3(tA.Ct, k671^r5tw1), k345^r4tw1)
			v2 := sodark.Dec3(sodark.Dec3(tB.Ct, k671^r5tw2), k345^r4tw2)

			db := uint32(sodark.InvSBox[(v1>>8)&0xff]) ^ uint32(sodark.InvSBox[(v2>>8)&0xff]) ^
				v1 ^ v2 ^ (v1 >> 16) ^ (v2 >> 16)
			db = (db ^ dt1) & 0xff
			da := (uint32(sodark.InvSBox[v1>>16]) ^ uint32(sodark.InvSBox[v2>>16]) ^ db ^ dt7) & 0xff
			dc := (uint32(sodark.InvSBox[v1&0xff]) ^ uint32(sodark.InvSBox[v2&0xff]) ^ db ^ dt8) & 0xff
			delta := da<<16 | db<<8 | dc
			addr := delta & 0xff

			for idx := heads[addr]; idx != 0; idx = items[idx-1].next {
				e := &items[idx-1]
				if e.delta != delta {
					continue
				}
				key := pkey | uint64(k7) | uint64(e.k2)<<40
				if !Verify(key, 5, tuples) {
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
