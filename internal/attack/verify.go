package attack

import "github.com/dansarie/socracked-go/internal/sodark"

// Verify re-encrypts every loaded tuple under key and reports whether all
// of them match, short-circuiting on the first mismatch.
func Verify(key uint64, rounds int, tuples []Tuple) bool {
	for _, t := range tuples {
		if sodark.EncryptSodark3(rounds, t.Pt, key, t.Tw) != t.Ct {
			return false
		}
	}
	return true
}

// tweakBytes splits a 64-bit tweak into its eight bytes, most significant
// first, so attack code can refer to them the way the reference material
// numbers them (tw1..tw8, here indices 0..7).
func tweakBytes(tw uint64) [8]byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(tw >> uint(56-8*i))
	}
	return b
}

// FormatKey renders a 56-bit candidate key as the fixed 14-hex-digit line
// format the Result Sink and the original reference CLI both use.
func FormatKey(key uint64) string {
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, 14)
	for i := 13; i >= 0; i-- {
		buf[i] = hexdigits[key&0xf]
		key >>= 4
	}
	return string(buf)
}
