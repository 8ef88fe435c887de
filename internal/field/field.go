// Package field implements arithmetic modulo p = 2^255 - 19 on five
// unsaturated 51-bit limbs.
//
// Values are kept lazily reduced: Add does not carry, every other operation
// leaves each limb within a few bits of 2^51. Only Bytes produces the
// canonical representative. Nothing in this package branches on the value of
// an element.
package field

const maskLow51Bits uint64 = 1<<51 - 1

// Element is a field element in radix 2^51, limb 0 least significant.
// The zero value is 0.
type Element [5]uint64

// Zero returns a new element equal to 0.
func Zero() *Element {
	return &Element{}
}

// One returns a new element equal to 1.
func One() *Element {
	return &Element{1, 0, 0, 0, 0}
}

// Set sets v = a and returns v.
func (v *Element) Set(a *Element) *Element {
	*v = *a
	return v
}

// Add sets v = a + b without reducing and returns v.
func (v *Element) Add(a, b *Element) *Element {
	count(opAdd)
	v[0] = a[0] + b[0]
	v[1] = a[1] + b[1]
	v[2] = a[2] + b[2]
	v[3] = a[3] + b[3]
	v[4] = a[4] + b[4]
	return v
}

// fourP is 4*p in limb form. Subtracting from a+4p keeps every limb
// non-negative as long as b is the sum of at most two reduced elements.
var fourP = Element{
	0x1fffffffffffb4,
	0x1ffffffffffffc,
	0x1ffffffffffffc,
	0x1ffffffffffffc,
	0x1ffffffffffffc,
}

// Sub sets v = a - b, runs a carry pass and returns v.
func (v *Element) Sub(a, b *Element) *Element {
	count(opSub)
	v[0] = a[0] + fourP[0] - b[0]
	v[1] = a[1] + fourP[1] - b[1]
	v[2] = a[2] + fourP[2] - b[2]
	v[3] = a[3] + fourP[3] - b[3]
	v[4] = a[4] + fourP[4] - b[4]
	return v.carry()
}

// Negate sets v = -a and returns v.
func (v *Element) Negate(a *Element) *Element {
	return v.Sub(&Element{}, a)
}

// carry propagates each limb's overflow into the next one and folds the
// top carry back into limb 0 times 19. Afterwards limbs 0 and 2-4 are below
// 2^51 and limb 1 exceeds 2^51 by at most a few units.
func (v *Element) carry() *Element {
	c0 := v[0] >> 51
	v[0] &= maskLow51Bits
	v[1] += c0
	c1 := v[1] >> 51
	v[1] &= maskLow51Bits
	v[2] += c1
	c2 := v[2] >> 51
	v[2] &= maskLow51Bits
	v[3] += c2
	c3 := v[3] >> 51
	v[3] &= maskLow51Bits
	v[4] += c3
	c4 := v[4] >> 51
	v[4] &= maskLow51Bits
	v[0] += c4 * 19
	v[1] += v[0] >> 51
	v[0] &= maskLow51Bits
	return v
}

// Select sets v = a if cond == 1 and v = b if cond == 0, and returns v.
// cond must be 0 or 1.
func (v *Element) Select(a, b *Element, cond uint64) *Element {
	count(opSelect)
	m := -cond
	v[0] = m&a[0] | ^m&b[0]
	v[1] = m&a[1] | ^m&b[1]
	v[2] = m&a[2] | ^m&b[2]
	v[3] = m&a[3] | ^m&b[3]
	v[4] = m&a[4] | ^m&b[4]
	return v
}

// Equal returns 1 if v and u have identical limbs and 0 otherwise. Two
// representations of the same value may compare unequal; compare Bytes for
// value equality.
func (v *Element) Equal(u *Element) int {
	var acc uint64
	for i := range v {
		acc |= v[i] ^ u[i]
	}
	return int((acc | -acc) >> 63 ^ 1)
}

// IsNegative returns 1 if the canonical encoding of v is odd.
func (v *Element) IsNegative() int {
	b := v.Bytes()
	return int(b[0] & 1)
}
