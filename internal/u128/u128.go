// Package u128 provides the 64x64->128 bit multiply and the few 128-bit
// operations the field arithmetic needs. Products are assembled from 32-bit
// partial products so the same code maps onto devices without a native wide
// multiply.
package u128

// Uint128 is an unsigned 128-bit integer held as two 64-bit halves.
type Uint128 struct {
	Hi, Lo uint64
}

const mask32 = 1<<32 - 1

// From64 widens v.
func From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Mul64 returns the exact product a*b.
func Mul64(a, b uint64) Uint128 {
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	ll := aLo * bLo
	lh := aLo * bHi
	hl := aHi * bLo
	hh := aHi * bHi

	// Middle column: high half of ll plus the low halves of both cross terms.
	mid := ll>>32 + lh&mask32 + hl&mask32

	return Uint128{
		Lo: ll&mask32 | mid<<32,
		Hi: hh + lh>>32 + hl>>32 + mid>>32,
	}
}

// Add returns x+y modulo 2^128.
func (x Uint128) Add(y Uint128) Uint128 {
	lo := x.Lo + y.Lo
	carry := (x.Lo&y.Lo | (x.Lo|y.Lo)&^lo) >> 63
	return Uint128{Hi: x.Hi + y.Hi + carry, Lo: lo}
}

// AddUint64 returns x+v modulo 2^128.
func (x Uint128) AddUint64(v uint64) Uint128 {
	return x.Add(Uint128{Lo: v})
}

// Shr returns x>>n for n in [0, 127].
func (x Uint128) Shr(n uint) Uint128 {
	switch {
	case n == 0:
		return x
	case n >= 64:
		return Uint128{Lo: x.Hi >> (n - 64)}
	default:
		return Uint128{Hi: x.Hi >> n, Lo: x.Lo>>n | x.Hi<<(64-n)}
	}
}

// Uint64 returns the low 64 bits.
func (x Uint128) Uint64() uint64 {
	return x.Lo
}
