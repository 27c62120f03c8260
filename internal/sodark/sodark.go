package sodark

import "fmt"

// key56Mask keeps a 56-bit key confined to its low bits after shifts.
const key56Mask = 0x00ffffffffffffff

func rotl64(x uint64, n uint) uint64 {
	n &= 63
	return (x << n) | (x >> (64 - n))
}

func rotr64(x uint64, n uint) uint64 {
	n &= 63
	return (x >> n) | (x << (64 - n))
}

func rotl56(x uint64, n uint) uint64 {
	n %= 56
	return ((x << n) | (x >> (56 - n))) & key56Mask
}

func rotr56(x uint64, n uint) uint64 {
	n %= 56
	return ((x >> n) | (x << (56 - n))) & key56Mask
}

// Enc3 performs one round of SoDark-3 encryption.
// pt is the 24-bit block a||b||c; rkey is the 24-bit round key ka||kc||kb.
func Enc3(pt, rkey uint32) uint32 {
	pa := pt >> 16
	pb := (pt >> 8) & 0xff
	pc := pt & 0xff
	ka := rkey >> 16
	kc := (rkey >> 8) & 0xff
	kb := rkey & 0xff
	ca := uint32(SBox[(pa^pb^ka)&0xff])
	cc := uint32(SBox[(pc^pb^kc)&0xff])
	cb := uint32(SBox[(ca^pb^cc^kb)&0xff])
	return (ca << 16) | (cb << 8) | cc
}

// Dec3 performs one round of SoDark-3 decryption, the inverse of Enc3.
func Dec3(ct, rkey uint32) uint32 {
	ca := ct >> 16
	cb := (ct >> 8) & 0xff
	cc := ct & 0xff
	ka := rkey >> 16
	kc := (rkey >> 8) & 0xff
	kb := rkey & 0xff
	pb := uint32(InvSBox[cb]) ^ ca ^ cc ^ kb
	pc := uint32(InvSBox[cc]) ^ pb ^ kc
	pa := uint32(InvSBox[ca]) ^ pb ^ ka
	return (pa << 16) | (pb << 8) | pc
}

// Enc6 performs one round of SoDark-6 encryption.
// pt is the 48-bit block a||b||c||d||e||f; rkey is the 48-bit round key
// ka||kc||ke||kb||kd||kf.
func Enc6(pt, rkey uint64) uint64 {
	pa := pt >> 40
	pb := (pt >> 32) & 0xff
	pc := (pt >> 24) & 0xff
	pd := (pt >> 16) & 0xff
	pe := (pt >> 8) & 0xff
	pf := pt & 0xff
	ka := rkey >> 40
	kc := (rkey >> 32) & 0xff
	ke := (rkey >> 24) & 0xff
	kb := (rkey >> 16) & 0xff
	kd := (rkey >> 8) & 0xff
	kf := rkey & 0xff
	ca := uint64(SBox[(pa^pb^pf^ka)&0xff])
	cc := uint64(SBox[(pb^pc^pd^kc)&0xff])
	ce := uint64(SBox[(pd^pe^pf^ke)&0xff])
	cb := uint64(SBox[(ca^pb^cc^kb)&0xff])
	cd := uint64(SBox[(cc^pd^ce^kd)&0xff])
	cf := uint64(SBox[(ca^pf^ce^kf)&0xff])
	return (ca << 40) | (cb << 32) | (cc << 24) | (cd << 16) | (ce << 8) | cf
}

// Dec6 performs one round of SoDark-6 decryption, the inverse of Enc6.
func Dec6(ct, rkey uint64) uint64 {
	ca := ct >> 40
	cb := (ct >> 32) & 0xff
	cc := (ct >> 24) & 0xff
	cd := (ct >> 16) & 0xff
	ce := (ct >> 8) & 0xff
	cf := ct & 0xff
	ka := rkey >> 40
	kc := (rkey >> 32) & 0xff
	ke := (rkey >> 24) & 0xff
	kb := (rkey >> 16) & 0xff
	kd := (rkey >> 8) & 0xff
	kf := rkey & 0xff
	pb := uint64(InvSBox[cb]) ^ ca ^ cc ^ kb
	pd := uint64(InvSBox[cd]) ^ cc ^ ce ^ kd
	pf := uint64(InvSBox[cf]) ^ ca ^ ce ^ kf
	pa := uint64(InvSBox[ca]) ^ pb ^ pf ^ ka
	pc := uint64(InvSBox[cc]) ^ pb ^ pd ^ kc
	pe := uint64(InvSBox[ce]) ^ pd ^ pf ^ ke
	return (pa << 40) | (pb << 32) | (pc << 24) | (pd << 16) | (pe << 8) | pf
}

// EncryptSodark3 encrypts a 24-bit plaintext with the full SoDark-3
// round function for the given number of rounds, key, and tweak.
func EncryptSodark3(rounds int, pt uint32, key, tweak uint64) uint32 {
	ct := pt
	for r := 0; r < rounds; r++ {
		rkey := uint32((key>>32)^(tweak>>40)) & 0xffffff
		tweak = rotl64(tweak, 24)
		key = rotl56(key, 24)
		ct = Enc3(ct, rkey)
	}
	return ct
}

// DecryptSodark3 decrypts a 24-bit ciphertext with the full SoDark-3
// round function, mirroring EncryptSodark3.
func DecryptSodark3(rounds int, ct uint32, key, tweak uint64) uint32 {
	tshift := uint(24*(rounds-1)) % 64
	kshift := uint(24*(rounds-1)) % 56
	tweak = rotl64(tweak, tshift)
	key = rotl56(key, kshift)
	pt := ct
	for r := 0; r < rounds; r++ {
		rkey := uint32((key>>32)^(tweak>>40)) & 0xffffff
		tweak = rotr64(tweak, 24)
		key = rotr56(key, 24)
		pt = Dec3(pt, rkey)
	}
	return pt
}

// EncryptSodark6 encrypts a 48-bit plaintext with the full SoDark-6
// round function for the given number of rounds, key, and tweak.
func EncryptSodark6(rounds int, pt uint64, key, tweak uint64) uint64 {
	ct := pt
	for r := 0; r < rounds; r++ {
		rkey := ((key >> 8) ^ (tweak >> 16)) & 0xffffffffffff
		tweak = rotl64(tweak, 48)
		key = rotl56(key, 48)
		ct = Enc6(ct, rkey)
	}
	return ct
}

// DecryptSodark6 decrypts a 48-bit ciphertext with the full SoDark-6
// round function, mirroring EncryptSodark6.
func DecryptSodark6(rounds int, ct uint64, key, tweak uint64) uint64 {
	tshift := uint(48*(rounds-1)) % 64
	kshift := uint(48*(rounds-1)) % 56
	tweak = rotl64(tweak, tshift)
	key = rotl56(key, kshift)
	pt := ct
	for r := 0; r < rounds; r++ {
		rkey := ((key >> 8) ^ (tweak >> 16)) & 0xffffffffffff
		tweak = rotr64(tweak, 48)
		key = rotr56(key, 48)
		pt = Dec6(pt, rkey)
	}
	return pt
}

// SelfCheck runs the fixed battery of cipher vectors the original
// SoDark reference implementation asserts at startup (sodark.c, socracked.c).
// It returns an error describing the first mismatch instead of aborting the
// process, so a broken build fails with a diagnostic rather than silently
// producing wrong candidate keys.
func SelfCheck() error {
	type vec struct {
		name string
		got  uint64
		want uint64
	}
	vecs := []vec{
		{"enc_one_round_3", uint64(Enc3(0x54e0cd, 0xc2284a^0x543bd8)), 0xd0721d},
		{"dec_one_round_3", uint64(Dec3(0xd0721d, 0xc2284a^0x543bd8)), 0x54e0cd},
		{"dec_one_round_3^2", uint64(Dec3(Dec3(0xd0721d, 0xc2284a^0x543bd8), 0)), 0x2ac222},
		{"encrypt_sodark_3(3)", uint64(EncryptSodark3(3, 0x54e0cd, 0xc2284a1ce7be2f, 0x543bd88000017550)), 0x41db0c},
		{"encrypt_sodark_3(4)", uint64(EncryptSodark3(4, 0x54e0cd, 0xc2284a1ce7be2f, 0x543bd88000017550)), 0x987c6d},
		{"decrypt_sodark_3(1)", uint64(DecryptSodark3(1, 0xd0721d, 0xc2284a1ce7be2f, 0x543bd88000017550)), 0x54e0cd},
		{"decrypt_sodark_3(3)", uint64(DecryptSodark3(3, 0x41db0c, 0xc2284a1ce7be2f, 0x543bd88000017550)), 0x54e0cd},
		{"decrypt_sodark_3(4)", uint64(DecryptSodark3(4, 0x987c6d, 0xc2284a1ce7be2f, 0x543bd88000017550)), 0x54e0cd},
	}
	for _, v := range vecs {
		if v.got != v.want {
			return fmt.Errorf("sodark self-check failed for %s: got %x, want %x", v.name, v.got, v.want)
		}
	}
	if got := Dec6(Enc6(0x1234567890ab, 0x6d7dddd48390), 0x6d7dddd48390); got != 0x1234567890ab {
		return fmt.Errorf("sodark self-check failed for dec_one_round_6(enc_one_round_6(...)): got %x, want %x", got, uint64(0x1234567890ab))
	}
	rt6 := DecryptSodark6(1, EncryptSodark6(1, 0xdeafcafebabe, 0xc2284a1ce7be2f, 0x543bd88000017550),
		0xc2284a1ce7be2f, 0x543bd88000017550)
	if rt6 != 0xdeafcafebabe {
		return fmt.Errorf("sodark self-check failed for sodark-6 round trip: got %x, want %x", rt6, uint64(0xdeafcafebabe))
	}
	return nil
}
