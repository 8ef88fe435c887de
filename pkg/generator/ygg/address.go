package ygg

import (
	"math/bits"
	"net/netip"
)

// AddressSize is the length of a network address in bytes.
const AddressSize = 16

// addressPrefix is the first byte of every address.
const addressPrefix = 0x02

// Address is a 128-bit network address derived from a public key.
type Address [AddressSize]byte

// String formats a in IPv6 notation.
func (a Address) String() string {
	return netip.AddrFrom16(a).String()
}

// Score returns the number of leading zero bits of pk, counting from the
// most significant bit of pk[0].
func Score(pk *PublicKey) int {
	score := 0
	for _, b := range pk {
		z := bits.LeadingZeros8(b)
		score += z
		if z != 8 {
			break
		}
	}
	return score
}

// AddressFor derives the address of pk.
//
// Byte 0 is the fixed prefix and byte 1 the score. The remaining bytes are
// the key bits that follow the first one bit, inverted, read from the byte
// holding that bit onwards. The byte count stops at the end of the key, so
// very high scores leave trailing zero bytes.
func AddressFor(pk *PublicKey) Address {
	score := Score(pk)

	var a Address
	a[0] = addressPrefix
	a[1] = byte(score)

	start := score / 8
	shift := uint((score + 1) % 8)
	for i := 0; i < AddressSize-2 && start+i+1 < KeySize; i++ {
		hi, lo := pk[start+i], pk[start+i+1]
		a[2+i] = hi<<shift ^ lo>>((8-shift)&7) ^ 0xFF
	}
	return a
}
