package sodark

import (
	"math/rand"
	"testing"
)

// TestSBoxIsInvolutionInverse checks that InvSBox undoes SBox for every byte.
func TestInvSBoxInvertsSBox(t *testing.T) {
	for i := 0; i < 256; i++ {
		if got := InvSBox[SBox[i]]; got != byte(i) {
			t.Fatalf("InvSBox[SBox[%d]] = %d, want %d", i, got, i)
		}
	}
}

// TestOneRoundVectors checks the fixed one-round vectors from the reference
// implementation.
func TestOneRoundVectors(t *testing.T) {
	if got := Enc3(0x54e0cd, 0xc2284a^0x543bd8); got != 0xd0721d {
		t.Errorf("Enc3 = %06x, want %06x", got, 0xd0721d)
	}
	if got := Dec3(0xd0721d, 0xc2284a^0x543bd8); got != 0x54e0cd {
		t.Errorf("Dec3 = %06x, want %06x", got, 0x54e0cd)
	}
	if got := Dec3(Dec3(0xd0721d, 0xc2284a^0x543bd8), 0); got != 0x2ac222 {
		t.Errorf("Dec3(Dec3(...)) = %06x, want %06x", got, 0x2ac222)
	}
	if got := Dec6(Enc6(0x1234567890ab, 0x6d7dddd48390), 0x6d7dddd48390); got != 0x1234567890ab {
		t.Errorf("Dec6(Enc6(...)) = %012x, want %012x", got, uint64(0x1234567890ab))
	}
}

// TestMultiRoundVectors checks the fixed multi-round vectors from the
// reference implementation, including the rounds == 1 edge case where the
// decrypt pre-rotation shift amount is zero.
func TestMultiRoundVectors(t *testing.T) {
	const key = 0xc2284a1ce7be2f
	const tweak = 0x543bd88000017550

	cases := []struct {
		rounds int
		pt     uint32
		ct     uint32
	}{
		{3, 0x54e0cd, 0x41db0c},
		{4, 0x54e0cd, 0x987c6d},
	}
	for _, c := range cases {
		if got := EncryptSodark3(c.rounds, c.pt, key, tweak); got != c.ct {
			t.Errorf("EncryptSodark3(%d) = %06x, want %06x", c.rounds, got, c.ct)
		}
	}

	decCases := []struct {
		rounds int
		ct     uint32
		pt     uint32
	}{
		{1, 0xd0721d, 0x54e0cd},
		{3, 0x41db0c, 0x54e0cd},
		{4, 0x987c6d, 0x54e0cd},
	}
	for _, c := range decCases {
		if got := DecryptSodark3(c.rounds, c.ct, key, tweak); got != c.pt {
			t.Errorf("DecryptSodark3(%d) = %06x, want %06x", c.rounds, got, c.pt)
		}
	}

	ct6 := EncryptSodark6(1, 0xdeafcafebabe, key, tweak)
	if got := DecryptSodark6(1, ct6, key, tweak); got != 0xdeafcafebabe {
		t.Errorf("DecryptSodark6(1) round trip = %012x, want %012x", got, uint64(0xdeafcafebabe))
	}
}

// TestSelfCheck checks that the packaged self-check battery passes.
func TestSelfCheck(t *testing.T) {
	if err := SelfCheck(); err != nil {
		t.Fatalf("SelfCheck() = %v, want nil", err)
	}
}

// TestSodark3RoundTrip fuzzes random keys, tweaks, and plaintexts across
// every supported round count and checks that decryption undoes encryption.
func TestSodark3RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for rounds := 1; rounds <= 8; rounds++ {
		for i := 0; i < 1000; i++ {
			pt := uint32(rng.Uint32() & 0xffffff)
			key := rng.Uint64() & key56Mask
			tweak := rng.Uint64()
			ct := EncryptSodark3(rounds, pt, key, tweak)
			if got := DecryptSodark3(rounds, ct, key, tweak); got != pt {
				t.Fatalf("rounds=%d: DecryptSodark3(EncryptSodark3(pt)) = %06x, want %06x", rounds, got, pt)
			}
		}
	}
}

// TestSodark6RoundTrip fuzzes random keys, tweaks, and plaintexts across
// every supported round count and checks that decryption undoes encryption.
func TestSodark6RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for rounds := 1; rounds <= 8; rounds++ {
		for i := 0; i < 1000; i++ {
			pt := rng.Uint64() & 0xffffffffffff
			key := rng.Uint64() & key56Mask
			tweak := rng.Uint64()
			ct := EncryptSodark6(rounds, pt, key, tweak)
			if got := DecryptSodark6(rounds, ct, key, tweak); got != pt {
				t.Fatalf("rounds=%d: DecryptSodark6(EncryptSodark6(pt)) = %012x, want %012x", rounds, got, pt)
			}
		}
	}
}

// TestEnc3Deterministic checks that Enc3 is a pure function of its inputs.
func TestEnc3Deterministic(t *testing.T) {
	a := Enc3(0x112233, 0x445566)
	b := Enc3(0x112233, 0x445566)
	if a != b {
		t.Errorf("Enc3 not deterministic: %06x != %06x", a, b)
	}
}
