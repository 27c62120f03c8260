package attack

import "github.com/dansarie/socracked-go/internal/sodark"

// Pair is two Tuples whose tweak and ciphertext differences satisfy a
// round-specific distinguisher. K3Candidates is populated only for the
// 8-round filter; 6- and 7-round pairs sweep k3 over the full byte range
// instead.
type Pair struct {
	T1, T2       Tuple
	K3Candidates []byte
}

// PairStore holds every Pair surviving the filter for one attack run.
type PairStore struct {
	Pairs []Pair
}

// tweakDiffOk reports whether the tweak difference between two tuples is
// zero everywhere except byte 5 (the byte at bit offset 24), and nonzero
// there. This precondition is shared by the 6-, 7-, and 8-round filters.
func tweakDiffOk(tw1, tw2 uint64) bool {
	d := tw1 ^ tw2
	if d&0xffffffff00ffffff != 0 {
		return false
	}
	return (d>>24)&0xff != 0
}

// FilterPairs scans every unordered pair of loaded tuples and retains those
// matching the distinguisher for the given round count (6, 7, or 8). For 6
// and 7 rounds the result is truncated to the first surviving pair, since
// one qualifying pair is enough to drive the attack. For 8 rounds every
// qualifying pair is kept.
func FilterPairs(tuples []Tuple, rounds int) *PairStore {
	store := &PairStore{}
	for i := 0; i < len(tuples); i++ {
		for j := i + 1; j < len(tuples); j++ {
			t1, t2 := tuples[i], tuples[j]
			if !tweakDiffOk(t1.Tw, t2.Tw) {
				continue
			}
			switch rounds {
			case 6:
				if t1.Ct == t2.Ct {
					store.Pairs = append(store.Pairs, Pair{T1: t1, T2: t2})
				}
			case 7:
				if filter7(t1, t2) {
					store.Pairs = append(store.Pairs, Pair{T1: t1, T2: t2})
				}
			case 8:
				if cands := filter8Candidates(t1, t2); len(cands) > 0 {
					store.Pairs = append(store.Pairs, Pair{T1: t1, T2: t2, K3Candidates: cands})
				}
			}
		}
		if rounds == 6 || rounds == 7 {
			if len(store.Pairs) > 0 {
				break
			}
		}
	}
	if rounds == 6 || rounds == 7 {
		if len(store.Pairs) > 1 {
			store.Pairs = store.Pairs[:1]
		}
	}
	return store
}

func ctBytes(ct uint32) (a, b, c byte) {
	return byte(ct >> 16), byte(ct >> 8), byte(ct)
}

// filter7 implements the 7-round distinguisher: the ciphertexts must agree
// outside the middle byte, and a derived round boundary byte must cancel.
func filter7(t1, t2 Tuple) bool {
	if (t1.Ct^t2.Ct)&0x00ff00ff != 0 {
		return false
	}
	a1, b1, c1 := ctBytes(t1.Ct)
	a2, b2, c2 := ctBytes(t2.Ct)
	tw5a := byte(t1.Tw >> 24)
	tw5b := byte(t2.Tw >> 24)
	dbh := sodark.InvSBox[b1] ^ a1 ^ c1 ^ tw5a ^ sodark.InvSBox[b2] ^ a2 ^ c2 ^ tw5b
	return dbh == 0
}

// filter8Candidates implements the 8-round distinguisher: the three
// S-inverse byte differentials must coincide, and returns the set of k3
// values consistent with the pair's ciphertexts, tweaks byte 5 and byte 8.
// A nil/empty return means the pair does not qualify.
func filter8Candidates(t1, t2 Tuple) []byte {
	a1, b1, c1 := ctBytes(t1.Ct)
	a2, b2, c2 := ctBytes(t2.Ct)
	da := sodark.InvSBox[a1] ^ sodark.InvSBox[a2]
	dc := sodark.InvSBox[c1] ^ sodark.InvSBox[c2]
	db := sodark.InvSBox[b1] ^ sodark.InvSBox[b2] ^ a1 ^ a2 ^ c1 ^ c2
	if da != dc || dc != db {
		return nil
	}
	t8a := byte(t1.Tw)
	t8b := byte(t2.Tw)
	t5a := byte(t1.Tw >> 24)
	t5b := byte(t2.Tw >> 24)
	sa1 := sodark.InvSBox[b1] ^ a1 ^ c1
	sa2 := sodark.InvSBox[b2] ^ a2 ^ c2
	var cands []byte
	for k3 := 0; k3 < 256; k3++ {
		left := sodark.InvSBox[sa1^byte(k3)^t8a]
		right := sodark.InvSBox[sa2^byte(k3)^t8b]
		if left^right == t5a^t5b {
			cands = append(cands, byte(k3))
		}
	}
	return cands
}
