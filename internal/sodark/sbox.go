// Package sodark implements the SoDark-3 and SoDark-6 tweakable block
// ciphers specified in MIL-STD-188-141 for HF automatic link establishment.
package sodark

// SBox is the fixed 256-entry forward S-box defined by MIL-STD-188-141.
var SBox = [256]byte{
	0x9c, 0xf2, 0x14, 0xc1, 0x8e, 0xcb, 0xb2, 0x65,
	0x97, 0x7a, 0x60, 0x17, 0x92, 0xf9, 0x78, 0x41,
	0x07, 0x4c, 0x67, 0x6d, 0x66, 0x4a, 0x30, 0x7d,
	0x53, 0x9d, 0xb5, 0xbc, 0xc3, 0xca, 0xf1, 0x04,
	0x03, 0xec, 0xd0, 0x38, 0xb0, 0xed, 0xad, 0xc4,
	0xdd, 0x56, 0x42, 0xbd, 0xa0, 0xde, 0x1b, 0x81,
	0x55, 0x44, 0x5a, 0xe4, 0x50, 0xdc, 0x43, 0x63,
	0x09, 0x5c, 0x74, 0xcf, 0x0e, 0xab, 0x1d, 0x3d,
	0x6b, 0x02, 0x5d, 0x28, 0xe7, 0xc6, 0xee, 0xb4,
	0xd9, 0x7c, 0x19, 0x3e, 0x5e, 0x6c, 0xd6, 0x6e,
	0x2a, 0x13, 0xa5, 0x08, 0xb9, 0x2d, 0xbb, 0xa2,
	0xd4, 0x96, 0x39, 0xe0, 0xba, 0xd7, 0x82, 0x33,
	0x0d, 0x5f, 0x26, 0x16, 0xfe, 0x22, 0xaf, 0x00,
	0x11, 0xc8, 0x9e, 0x88, 0x8b, 0xa1, 0x7b, 0x87,
	0x27, 0xe6, 0xc7, 0x94, 0xd1, 0x5b, 0x9b, 0xf0,
	0x9f, 0xdb, 0xe1, 0x8d, 0xd2, 0x1f, 0x6a, 0x90,
	0xf4, 0x18, 0x91, 0x59, 0x01, 0xb1, 0xfc, 0x34,
	0x3c, 0x37, 0x47, 0x29, 0xe2, 0x64, 0x69, 0x24,
	0x0a, 0x2f, 0x73, 0x71, 0xa9, 0x84, 0x8c, 0xa8,
	0xa3, 0x3b, 0xe3, 0xe9, 0x58, 0x80, 0xa7, 0xd3,
	0xb7, 0xc2, 0x1c, 0x95, 0x1e, 0x4d, 0x4f, 0x4e,
	0xfb, 0x76, 0xfd, 0x99, 0xc5, 0xc9, 0xe8, 0x2e,
	0x8a, 0xdf, 0xf5, 0x49, 0xf3, 0x6f, 0x8f, 0xe5,
	0xeb, 0xf6, 0x25, 0xd5, 0x31, 0xc0, 0x57, 0x72,
	0xaa, 0x46, 0x68, 0x0b, 0x93, 0x89, 0x83, 0x70,
	0xef, 0xa4, 0x85, 0xf8, 0x0f, 0xb3, 0xac, 0x10,
	0x62, 0xcc, 0x61, 0x40, 0xf7, 0xfa, 0x52, 0x7f,
	0xff, 0x32, 0x45, 0x20, 0x79, 0xce, 0xea, 0xbe,
	0xcd, 0x15, 0x21, 0x23, 0xd8, 0xb6, 0x0c, 0x3f,
	0x54, 0x1a, 0xbf, 0x98, 0x48, 0x3a, 0x75, 0x77,
	0x2b, 0xae, 0x36, 0xda, 0x7e, 0x86, 0x35, 0x51,
	0x05, 0x12, 0xb8, 0xa6, 0x9a, 0x2c, 0x06, 0x4b,
}

// InvSBox is the inverse of SBox, derived at package initialization such
// that InvSBox[SBox[i]] == i for all i.
var InvSBox [256]byte

func init() {
	for i, v := range SBox {
		InvSBox[v] = byte(i)
	}
}
