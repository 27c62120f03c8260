package attack

import "github.com/dansarie/socracked-go/internal/sodark"

// Attack3 recovers every 56-bit key consistent with two tuples under a
// 3-round reduction. Like Attack2 it runs on the calling goroutine: the
// search space (roughly 2^16-2^17 S-box calls) is still small next to the
// per-worker setup cost of the parallel attacks.
func Attack3(store *TupleStore, sink *Sink) error {
	tA, tB, err := store.RequireDistinctPair()
	if err != nil {
		return err
	}

	tw1 := [9]byte{} // index 1..8, mirroring the 1-indexed byte labels
	tw2 := [9]byte{}
	for i := 1; i <= 8; i++ {
		shift := uint(64 - 8*i)
		tw1[i] = byte(tA.Tw >> shift)
		tw2[i] = byte(tB.Tw >> shift)
	}

	b1 := byte(tA.Pt>>8) ^ tw1[3]
	a1 := byte((tA.Pt>>16)^(tA.Pt>>8)) ^ tw1[1]
	c1 := byte(tA.Pt^(tA.Pt>>8)) ^ tw1[2]
	b2 := byte(tB.Pt>>8) ^ tw2[3]
	a2 := byte((tB.Pt>>16)^(tB.Pt>>8)) ^ tw2[1]
	c2 := byte(tB.Pt^(tB.Pt>>8)) ^ tw2[2]

	bppp1 := (sodark.InvSBox[byte(tA.Ct>>8)] ^ byte(tA.Ct) ^ byte(tA.Ct>>16)) ^ tw1[1]
	appp1 := sodark.InvSBox[byte(tA.Ct>>16)] ^ tw1[7]
	cppp1 := sodark.InvSBox[byte(tA.Ct)] ^ tw1[8]
	bppp2 := (sodark.InvSBox[byte(tB.Ct>>8)] ^ byte(tB.Ct) ^ byte(tB.Ct>>16)) ^ tw2[1]
	appp2 := sodark.InvSBox[byte(tB.Ct>>16)] ^ tw2[7]
	cppp2 := sodark.InvSBox[byte(tB.Ct)] ^ tw2[8]

	dbpp := bppp1 ^ bppp2
	dapp := appp1 ^ appp2 ^ dbpp
	dcpp := cppp1 ^ cppp2 ^ dbpp
	dacpp := dapp ^ dcpp
	dtw4 := tw1[4] ^ tw2[4]
	dtw5 := tw1[5] ^ tw2[5]
	dtw6 := tw1[6] ^ tw2[6]

	for k2i := 0; k2i < 256; k2i++ {
		k2 := byte(k2i)
		bpp1 := bppp1 ^ k2
		bpp2 := bppp2 ^ k2
		sbpp1 := sodark.InvSBox[bpp1]
		sbpp2 := sodark.InvSBox[bpp2]
		dfbpp := sbpp1 ^ sbpp2 ^ dtw6
		cp1 := sodark.SBox[c1^k2]
		cp2 := sodark.SBox[c2^k2]
		dcp := cp1 ^ cp2

		for k1i := 0; k1i < 256; k1i++ {
			k1 := byte(k1i)
			ap1 := sodark.SBox[a1^k1]
			ap2 := sodark.SBox[a2^k1]
			cpp1 := cppp1 ^ k1 ^ bpp1
			cpp2 := cppp2 ^ k1 ^ bpp2
			scpp1 := sodark.InvSBox[cpp1]
			scpp2 := sodark.InvSBox[cpp2]
			dbp := dcp ^ scpp1 ^ scpp2 ^ dtw5
			if dfbpp != (dacpp ^ dbp) {
				continue
			}
			dap := ap1 ^ ap2 ^ dtw4

			for k7i := 0; k7i < 256; k7i++ {
				k7 := byte(k7i)
				app1 := appp1 ^ bpp1 ^ k7
				app2 := appp2 ^ bpp2 ^ k7
				sapp1 := sodark.InvSBox[app1]
				sapp2 := sodark.InvSBox[app2]
				if sapp1^sapp2^dap != dbp {
					continue
				}

				for k3i := 0; k3i < 256; k3i++ {
					k3 := byte(k3i)
					bp1 := sodark.SBox[ap1^cp1^b1^k3]
					bp2 := sodark.SBox[ap2^cp2^b2^k3]
					k41 := sapp1 ^ ap1 ^ bp1 ^ tw1[4]
					k42 := sapp2 ^ ap2 ^ bp2 ^ tw2[4]
					if k41 != k42 {
						continue
					}
					k5 := scpp1 ^ cp1 ^ bp1 ^ tw1[5]
					k6 := sbpp1 ^ app1 ^ cpp1 ^ bp1 ^ tw1[6]
					key := uint64(k1)<<48 | uint64(k2)<<40 | uint64(k3)<<32 |
						uint64(k41)<<24 | uint64(k5)<<16 | uint64(k6)<<8 | uint64(k7)
					if !Verify(key, 3, store.Tuples) {
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
