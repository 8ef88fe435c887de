package field

import "encoding/binary"

// SetBytes sets v to the little-endian value of x and returns v. The top
// bit of x[31] is ignored. Values in [p, 2^255) are accepted and stay
// unreduced until encoded.
func (v *Element) SetBytes(x *[32]byte) *Element {
	v[0] = binary.LittleEndian.Uint64(x[0:8]) & maskLow51Bits
	v[1] = binary.LittleEndian.Uint64(x[6:14]) >> 3 & maskLow51Bits
	v[2] = binary.LittleEndian.Uint64(x[12:20]) >> 6 & maskLow51Bits
	v[3] = binary.LittleEndian.Uint64(x[19:27]) >> 1 & maskLow51Bits
	v[4] = binary.LittleEndian.Uint64(x[24:32]) >> 12 & maskLow51Bits
	return v
}

// Bytes returns the canonical little-endian encoding of v, in [0, p).
func (v *Element) Bytes() [32]byte {
	t := *v
	t.carryFull()
	t.carryFull()

	// t < 2^255 with tight limbs; subtract p once and keep the difference
	// unless it borrowed.
	var d Element
	var b uint64
	d[0], b = subBorrow(t[0], maskLow51Bits-18, 0)
	d[1], b = subBorrow(t[1], maskLow51Bits, b)
	d[2], b = subBorrow(t[2], maskLow51Bits, b)
	d[3], b = subBorrow(t[3], maskLow51Bits, b)
	d[4], b = subBorrow(t[4], maskLow51Bits, b)
	t.Select(&t, &d, b)

	var out [32]byte
	binary.LittleEndian.PutUint64(out[0:8], t[0]|t[1]<<51)
	binary.LittleEndian.PutUint64(out[8:16], t[1]>>13|t[2]<<38)
	binary.LittleEndian.PutUint64(out[16:24], t[2]>>26|t[3]<<25)
	binary.LittleEndian.PutUint64(out[24:32], t[3]>>39|t[4]<<12)
	return out
}

// carryFull is a carry pass that leaves every limb strictly below 2^51.
func (v *Element) carryFull() {
	v[1] += v[0] >> 51
	v[0] &= maskLow51Bits
	v[2] += v[1] >> 51
	v[1] &= maskLow51Bits
	v[3] += v[2] >> 51
	v[2] &= maskLow51Bits
	v[4] += v[3] >> 51
	v[3] &= maskLow51Bits
	v[0] += v[4] >> 51 * 19
	v[4] &= maskLow51Bits
}

// subBorrow returns x - y - b modulo 2^51 and the outgoing borrow. x and y
// are below 2^51.
func subBorrow(x, y, b uint64) (uint64, uint64) {
	d := x - y - b
	return d & maskLow51Bits, d >> 63
}
