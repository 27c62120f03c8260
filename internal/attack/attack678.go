package attack

import "github.com/dansarie/socracked-go/internal/sodark"

// Attack678 recovers 56-bit keys consistent with a Pair under a 6-, 7-, or
// 8-round reduction. It guesses (k1, k2) per work unit, derives a1/b1/c1
// one round forward, then nests k3/k4/k5/k6 computing a differential that
// must match the known tweak difference at byte five before the final byte
// k7 is swept and every candidate verified against the whole Tuple Store.
//
// For r=8, k3 is restricted to pair.K3Candidates, the byte values the Pair
// Filter already proved consistent with the algebraic relation linking a1,
// b1, and c1 across rounds three through five. For r=6 and r=7 every Pair
// surviving the filter already satisfies the equivalent relation for those
// round counts, so k3 sweeps its entire range.
func Attack678(rounds int, store *TupleStore, dispatcher *Dispatcher, sink *Sink) error {
	for {
		w, pair, ok := dispatcher.Request()
		if !ok {
			return nil
		}
		k1 := byte(w >> 8)
		k2 := byte(w)
		if err := attack678Unit(rounds, pair, k1, k2, store.Tuples, sink); err != nil {
			return err
		}
	}
}

// attack678Unit runs the full k3/k4/k5/k6/k7 search for one (k1, k2) guess
// against pair, emitting every candidate key that verifies against tuples.
func attack678Unit(rounds int, pair Pair, k1, k2 byte, tuples []Tuple, sink *Sink) error {
	t1, t2 := pair.T1, pair.T2
	tw1 := tweakBytes(t1.Tw)
	tw2 := tweakBytes(t2.Tw)

	a01 := byte(t1.Pt >> 16)
	a02 := byte(t2.Pt >> 16)
	b01 := byte(t1.Pt >> 8)
	b02 := byte(t2.Pt >> 8)
	c01 := byte(t1.Pt)
	c02 := byte(t2.Pt)

	a11 := sodark.SBox[a01^b01^k1^tw1[0]]
	a12 := sodark.SBox[a02^b02^k1^tw2[0]]
	c11 := sodark.SBox[c01^b01^k2^tw1[1]]
	c12 := sodark.SBox[c02^b02^k2^tw2[1]]

	tryK3 := func(k3 byte) error {
		b11 := sodark.SBox[a11^b01^c11^k3^tw1[2]]
		b12 := sodark.SBox[a12^b02^c12^k3^tw2[2]]
		for k4i := 0; k4i < 256; k4i++ {
			k4 := byte(k4i)
			a21 := sodark.SBox[a11^b11^k4^tw1[3]]
			a22 := sodark.SBox[a12^b12^k4^tw2[3]]
			for k5i := 0; k5i < 256; k5i++ {
				k5 := byte(k5i)
				c21 := sodark.SBox[c11^b11^k5^tw1[4]]
				c22 := sodark.SBox[c12^b12^k5^tw2[4]]
				for k6i := 0; k6i < 256; k6i++ {
					k6 := byte(k6i)
					b21 := sodark.SBox[a21^b11^c21^k6^tw1[5]]
					b22 := sodark.SBox[a22^b12^c22^k6^tw2[5]]
					c31 := sodark.SBox[c21^b21^k1^tw1[7]]
					c32 := sodark.SBox[c22^b22^k1^tw2[7]]
					if c31^c32 != tw1[4]^tw2[4] {
						continue
					}
					pkey := uint64(k1)<<48 | uint64(k2)<<40 | uint64(k3)<<32 |
						uint64(k4)<<24 | uint64(k5)<<16 | uint64(k6)<<8
					for k7i := 0; k7i < 256; k7i++ {
						key := pkey | uint64(k7i)
						if !Verify(key, rounds, tuples) {
							continue
						}
						if err := sink.Emit(key); err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	}

	if rounds == 8 {
		for _, k3 := range pair.K3Candidates {
			if err := tryK3(k3); err != nil {
				return err
			}
		}
		return nil
	}
	for k3i := 0; k3i < 256; k3i++ {
		if err := tryK3(byte(k3i)); err != nil {
			return err
		}
	}
	return nil
}
