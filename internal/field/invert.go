package field

// Invert sets v = 1/z mod p and returns v. Zero maps to zero.
//
// This is z^(p-2), computed with the usual 254 squarings and 11
// multiplications.
func (v *Element) Invert(z *Element) *Element {
	count(opInvert)
	var z2, z9, z11, z2_5_0, z2_10_0, z2_20_0, z2_50_0, z2_100_0, t Element

	z2.Square(z)             // 2
	t.Square(&z2)            // 4
	t.Square(&t)             // 8
	z9.Mul(&t, z)            // 9
	z11.Mul(&z9, &z2)        // 11
	t.Square(&z11)           // 22
	z2_5_0.Mul(&t, &z9)      // 2^5 - 2^0 = 31
	t.pow2k(&z2_5_0, 5)      // 2^10 - 2^5
	z2_10_0.Mul(&t, &z2_5_0) // 2^10 - 2^0

	t.pow2k(&z2_10_0, 10)      // 2^20 - 2^10
	z2_20_0.Mul(&t, &z2_10_0)  // 2^20 - 2^0
	t.pow2k(&z2_20_0, 20)      // 2^40 - 2^20
	t.Mul(&t, &z2_20_0)        // 2^40 - 2^0
	t.pow2k(&t, 10)            // 2^50 - 2^10
	z2_50_0.Mul(&t, &z2_10_0)  // 2^50 - 2^0
	t.pow2k(&z2_50_0, 50)      // 2^100 - 2^50
	z2_100_0.Mul(&t, &z2_50_0) // 2^100 - 2^0
	t.pow2k(&z2_100_0, 100)    // 2^200 - 2^100
	t.Mul(&t, &z2_100_0)       // 2^200 - 2^0
	t.pow2k(&t, 50)            // 2^250 - 2^50
	t.Mul(&t, &z2_50_0)        // 2^250 - 2^0
	t.pow2k(&t, 5)             // 2^255 - 2^5

	return v.Mul(&t, &z11) // 2^255 - 21
}

// pow2k sets v = a^(2^k) for k >= 1.
func (v *Element) pow2k(a *Element, k int) *Element {
	v.Square(a)
	for i := 1; i < k; i++ {
		v.Square(v)
	}
	return v
}
