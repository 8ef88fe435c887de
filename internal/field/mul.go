package field

import "github.com/Amr-9/YggHunter/internal/u128"

// Mul sets v = a * b and returns v.
func (v *Element) Mul(a, b *Element) *Element {
	count(opMul)
	a0, a1, a2, a3, a4 := a[0], a[1], a[2], a[3], a[4]
	b0, b1, b2, b3, b4 := b[0], b[1], b[2], b[3], b[4]

	// Limb products of degree 5 or more wrap around times 19.
	b1_19 := b1 * 19
	b2_19 := b2 * 19
	b3_19 := b3 * 19
	b4_19 := b4 * 19

	r0 := mulAdd(a0, b0, a1, b4_19, a2, b3_19, a3, b2_19, a4, b1_19)
	r1 := mulAdd(a0, b1, a1, b0, a2, b4_19, a3, b3_19, a4, b2_19)
	r2 := mulAdd(a0, b2, a1, b1, a2, b0, a3, b4_19, a4, b3_19)
	r3 := mulAdd(a0, b3, a1, b2, a2, b1, a3, b0, a4, b4_19)
	r4 := mulAdd(a0, b4, a1, b3, a2, b2, a3, b1, a4, b0)

	return v.reduceWide(r0, r1, r2, r3, r4)
}

// Square sets v = a * a and returns v.
func (v *Element) Square(a *Element) *Element {
	count(opSquare)
	a0, a1, a2, a3, a4 := a[0], a[1], a[2], a[3], a[4]

	a0_2 := a0 * 2
	a1_2 := a1 * 2
	a1_38 := a1 * 38
	a2_38 := a2 * 38
	a3_19 := a3 * 19
	a3_38 := a3 * 38
	a4_19 := a4 * 19

	r0 := u128.Mul64(a0, a0).Add(u128.Mul64(a1_38, a4)).Add(u128.Mul64(a2_38, a3))
	r1 := u128.Mul64(a0_2, a1).Add(u128.Mul64(a2_38, a4)).Add(u128.Mul64(a3_19, a3))
	r2 := u128.Mul64(a0_2, a2).Add(u128.Mul64(a1, a1)).Add(u128.Mul64(a3_38, a4))
	r3 := u128.Mul64(a0_2, a3).Add(u128.Mul64(a1_2, a2)).Add(u128.Mul64(a4_19, a4))
	r4 := u128.Mul64(a0_2, a4).Add(u128.Mul64(a1_2, a3)).Add(u128.Mul64(a2, a2))

	return v.reduceWide(r0, r1, r2, r3, r4)
}

func mulAdd(x0, y0, x1, y1, x2, y2, x3, y3, x4, y4 uint64) u128.Uint128 {
	return u128.Mul64(x0, y0).
		Add(u128.Mul64(x1, y1)).
		Add(u128.Mul64(x2, y2)).
		Add(u128.Mul64(x3, y3)).
		Add(u128.Mul64(x4, y4))
}

// reduceWide carries five 128-bit column sums down to 51-bit limbs. The
// carry out of the top column is folded into limb 0 times 19 and pushed one
// step further, since a single pass does not bound limb 0.
func (v *Element) reduceWide(r0, r1, r2, r3, r4 u128.Uint128) *Element {
	r1 = r1.AddUint64(r0.Shr(51).Uint64())
	l0 := r0.Uint64() & maskLow51Bits
	r2 = r2.AddUint64(r1.Shr(51).Uint64())
	l1 := r1.Uint64() & maskLow51Bits
	r3 = r3.AddUint64(r2.Shr(51).Uint64())
	l2 := r2.Uint64() & maskLow51Bits
	r4 = r4.AddUint64(r3.Shr(51).Uint64())
	l3 := r3.Uint64() & maskLow51Bits
	c4 := r4.Shr(51).Uint64()
	l4 := r4.Uint64() & maskLow51Bits

	l0 += c4 * 19
	l1 += l0 >> 51
	l0 &= maskLow51Bits
	l2 += l1 >> 51
	l1 &= maskLow51Bits

	v[0], v[1], v[2], v[3], v[4] = l0, l1, l2, l3, l4
	return v
}
