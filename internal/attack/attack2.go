package attack

import "github.com/dansarie/socracked-go/internal/sodark"

// Attack2 recovers every 56-bit key consistent with two tuples under a
// 2-round reduction; since k7 is not used by two rounds, each solution is
// emitted once for every k7 value. It runs on the calling goroutine: the
// search space is small enough (roughly 2^10-2^12 S-box calls) that spreading it over the
// worker pool would not pay for itself.
func Attack2(store *TupleStore, sink *Sink) error {
	tA, tB, err := store.RequireDistinctPair()
	if err != nil {
		return err
	}

	tw1 := [6]byte{byte(tA.Tw >> 56), byte(tA.Tw >> 48), byte(tA.Tw >> 40), byte(tA.Tw >> 32), byte(tA.Tw >> 24), byte(tA.Tw >> 16)}
	tw2 := [6]byte{byte(tB.Tw >> 56), byte(tB.Tw >> 48), byte(tB.Tw >> 40), byte(tB.Tw >> 32), byte(tB.Tw >> 24), byte(tB.Tw >> 16)}

	b1 := byte(tA.Pt>>8) ^ tw1[2]
	a1 := byte((tA.Pt>>16)^(tA.Pt>>8)) ^ tw1[0]
	c1 := byte(tA.Pt^(tA.Pt>>8)) ^ tw1[1]
	b2 := byte(tB.Pt>>8) ^ tw2[2]
	a2 := byte((tB.Pt>>16)^(tB.Pt>>8)) ^ tw2[0]
	c2 := byte(tB.Pt^(tB.Pt>>8)) ^ tw2[1]

	app1 := byte(tA.Ct >> 16)
	app2 := byte(tB.Ct >> 16)
	cpp1 := byte(tA.Ct)
	cpp2 := byte(tB.Ct)
	bpp1 := sodark.InvSBox[byte(tA.Ct>>8)] ^ app1 ^ cpp1 ^ tw1[5]
	bpp2 := sodark.InvSBox[byte(tB.Ct>>8)] ^ app2 ^ cpp2 ^ tw2[5]
	sapp1 := sodark.InvSBox[app1] ^ tw1[3]
	sapp2 := sodark.InvSBox[app2] ^ tw2[3]
	scpp1 := sodark.InvSBox[cpp1] ^ tw1[4]
	scpp2 := sodark.InvSBox[cpp2] ^ tw2[4]
	da := sapp1 ^ sapp2 ^ bpp1 ^ bpp2
	dc := scpp1 ^ scpp2 ^ bpp1 ^ bpp2

	var k1cands, k2cands []byte
	for k := 0; k < 256; k++ {
		kb := byte(k)
		if sodark.SBox[a1^kb]^sodark.SBox[a2^kb] == da {
			k1cands = append(k1cands, kb)
		}
		if sodark.SBox[c1^kb]^sodark.SBox[c2^kb] == dc {
			k2cands = append(k2cands, kb)
		}
	}

	for _, k1 := range k1cands {
		ap1 := sodark.SBox[a1^k1]
		ap2 := sodark.SBox[a2^k1]
		for _, k2 := range k2cands {
			cp1 := sodark.SBox[c1^k2]
			cp2 := sodark.SBox[c2^k2]
			for k3 := 0; k3 < 256; k3++ {
				k3b := byte(k3)
				bp1 := sodark.SBox[b1^ap1^cp1^k3b]
				bp2 := sodark.SBox[b2^ap2^cp2^k3b]
				k41 := bp1 ^ ap1 ^ sapp1
				k42 := bp2 ^ ap2 ^ sapp2
				k51 := bp1 ^ cp1 ^ scpp1
				k52 := bp2 ^ cp2 ^ scpp2
				k6 := bp1 ^ bpp1
				if k41 != k42 || k51 != k52 {
					continue
				}
				key := uint64(k1)<<48 | uint64(k2)<<40 | uint64(k3b)<<32 |
					uint64(k41)<<24 | uint64(k51)<<16 | uint64(k6)<<8
				if !Verify(key, 2, store.Tuples) {
					continue
				}
				// Two rounds never use k7, so every k7 value gives an
				// equivalent key; all 256 are emitted.
				for k7 := 0; k7 < 256; k7++ {
					if err := sink.Emit(key | uint64(k7)); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
