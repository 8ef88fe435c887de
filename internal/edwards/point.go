// Package edwards implements the twisted Edwards curve -x^2 + y^2 = 1 + d x^2 y^2
// over GF(2^255 - 19), in just enough breadth to turn a scalar into an
// encoded public key: point addition and doubling in the usual coordinate
// systems, encoding, and constant-time multiplication of the base point.
package edwards

import (
	"crypto/subtle"

	"github.com/Amr-9/YggHunter/internal/field"
)

// Point is a curve point in extended coordinates (X:Y:Z:T) with
// x = X/Z, y = Y/Z and xy = T/Z. The zero value is not a valid point; use
// NewIdentityPoint or NewGeneratorPoint.
type Point struct {
	x, y, z, t field.Element
}

// projP2 is (X:Y:Z) with x = X/Z, y = Y/Z.
type projP2 struct {
	X, Y, Z field.Element
}

// projP1xP1 is the completed form ((X:Z), (Y:T)) with x = X/Z, y = Y/T,
// produced by additions and doublings.
type projP1xP1 struct {
	X, Y, Z, T field.Element
}

// projCached is an addend prepared for repeated use: (Y+X, Y-X, Z, 2dT).
type projCached struct {
	YplusX, YminusX, Z, T2d field.Element
}

// affineCached is an addend with Z = 1: (y+x, y-x, 2dxy).
type affineCached struct {
	YplusX, YminusX, T2d field.Element
}

// d2 is 2*d, d = -121665/121666.
var d2 = &field.Element{
	1859910466990425, 932731440258426, 1072319116312658,
	1815898335770999, 633789495995903,
}

var (
	baseX = [32]byte{
		0x1a, 0xd5, 0x25, 0x8f, 0x60, 0x2d, 0x56, 0xc9,
		0xb2, 0xa7, 0x25, 0x95, 0x60, 0xc7, 0x2c, 0x69,
		0x5c, 0xdc, 0xd6, 0xfd, 0x31, 0xe2, 0xa4, 0xc0,
		0xfe, 0x53, 0x6e, 0xcd, 0xd3, 0x36, 0x69, 0x21,
	}
	baseY = [32]byte{
		0x58, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
		0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
		0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
		0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	}
)

// NewIdentityPoint returns a new Point set to the identity (0, 1).
func NewIdentityPoint() *Point {
	p := &Point{}
	p.y.Set(field.One())
	p.z.Set(field.One())
	return p
}

// NewGeneratorPoint returns a new Point set to the standard base point B.
func NewGeneratorPoint() *Point {
	p := &Point{}
	p.x.SetBytes(&baseX)
	p.y.SetBytes(&baseY)
	p.z.Set(field.One())
	p.t.Mul(&p.x, &p.y)
	return p
}

// Set sets v = u and returns v.
func (v *Point) Set(u *Point) *Point {
	*v = *u
	return v
}

// Bytes returns the 32-byte encoding of v: the canonical y coordinate with
// the parity of x in the top bit.
func (v *Point) Bytes() [32]byte {
	var zInv, x, y field.Element
	zInv.Invert(&v.z)
	x.Mul(&v.x, &zInv)
	y.Mul(&v.y, &zInv)

	out := y.Bytes()
	out[31] |= byte(x.IsNegative() << 7)
	return out
}

// Equal returns 1 if v and u encode to the same bytes and 0 otherwise.
func (v *Point) Equal(u *Point) int {
	a, b := v.Bytes(), u.Bytes()
	return subtle.ConstantTimeCompare(a[:], b[:])
}

// Add sets v = p + q and returns v.
func (v *Point) Add(p, q *Point) *Point {
	var qc projCached
	var r projP1xP1
	qc.FromP3(q)
	r.Add(p, &qc)
	return v.fromP1xP1(&r)
}

// Subtract sets v = p - q and returns v.
func (v *Point) Subtract(p, q *Point) *Point {
	var qc projCached
	var r projP1xP1
	qc.FromP3(q)
	r.Sub(p, &qc)
	return v.fromP1xP1(&r)
}

// Conversions.

func (v *Point) fromP1xP1(p *projP1xP1) *Point {
	v.x.Mul(&p.X, &p.T)
	v.y.Mul(&p.Y, &p.Z)
	v.z.Mul(&p.Z, &p.T)
	v.t.Mul(&p.X, &p.Y)
	return v
}

func (v *projP2) FromP3(p *Point) *projP2 {
	v.X.Set(&p.x)
	v.Y.Set(&p.y)
	v.Z.Set(&p.z)
	return v
}

func (v *projP2) FromP1xP1(p *projP1xP1) *projP2 {
	v.X.Mul(&p.X, &p.T)
	v.Y.Mul(&p.Y, &p.Z)
	v.Z.Mul(&p.Z, &p.T)
	return v
}

func (v *projCached) FromP3(p *Point) *projCached {
	v.YplusX.Add(&p.y, &p.x)
	v.YminusX.Sub(&p.y, &p.x)
	v.Z.Set(&p.z)
	v.T2d.Mul(&p.t, d2)
	return v
}

func (v *affineCached) FromP3(p *Point) *affineCached {
	var zInv, x, y field.Element
	zInv.Invert(&p.z)
	x.Mul(&p.x, &zInv)
	y.Mul(&p.y, &zInv)

	v.YplusX.Add(&y, &x)
	v.YminusX.Sub(&y, &x)
	v.T2d.Mul(x.Mul(&x, &y), d2)
	return v
}

// Select sets v = a if cond == 1 and v = b if cond == 0.
func (v *projCached) Select(a, b *projCached, cond uint64) *projCached {
	v.YplusX.Select(&a.YplusX, &b.YplusX, cond)
	v.YminusX.Select(&a.YminusX, &b.YminusX, cond)
	v.Z.Select(&a.Z, &b.Z, cond)
	v.T2d.Select(&a.T2d, &b.T2d, cond)
	return v
}

// Group law.

func (v *projP1xP1) Add(p *Point, q *projCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Sub(&p.y, &p.x)

	PP.Mul(&YplusX, &q.YplusX)
	MM.Mul(&YminusX, &q.YminusX)
	TT2d.Mul(&p.t, &q.T2d)
	ZZ2.Mul(&p.z, &q.Z)
	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Sub(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&ZZ2, &TT2d)
	v.T.Sub(&ZZ2, &TT2d)
	return v
}

func (v *projP1xP1) Sub(p *Point, q *projCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Sub(&p.y, &p.x)

	PP.Mul(&YplusX, &q.YminusX) // flipped sign
	MM.Mul(&YminusX, &q.YplusX) // flipped sign
	TT2d.Mul(&p.t, &q.T2d)
	ZZ2.Mul(&p.z, &q.Z)
	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Sub(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Sub(&ZZ2, &TT2d) // flipped sign
	v.T.Add(&ZZ2, &TT2d) // flipped sign
	return v
}

func (v *projP1xP1) AddAffine(p *Point, q *affineCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Sub(&p.y, &p.x)

	PP.Mul(&YplusX, &q.YplusX)
	MM.Mul(&YminusX, &q.YminusX)
	TT2d.Mul(&p.t, &q.T2d)
	Z2.Add(&p.z, &p.z)

	v.X.Sub(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&Z2, &TT2d)
	v.T.Sub(&Z2, &TT2d)
	return v
}

func (v *projP1xP1) SubAffine(p *Point, q *affineCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Sub(&p.y, &p.x)

	PP.Mul(&YplusX, &q.YminusX)
	MM.Mul(&YminusX, &q.YplusX)
	TT2d.Mul(&p.t, &q.T2d)
	Z2.Add(&p.z, &p.z)

	v.X.Sub(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Sub(&Z2, &TT2d)
	v.T.Add(&Z2, &TT2d)
	return v
}

// Double sets v = 2p using four squarings.
func (v *projP1xP1) Double(p *projP2) *projP1xP1 {
	var XX, YY, ZZ2, XplusYsq field.Element

	XX.Square(&p.X)
	YY.Square(&p.Y)
	ZZ2.Square(&p.Z)
	ZZ2.Add(&ZZ2, &ZZ2)
	XplusYsq.Add(&p.X, &p.Y)
	XplusYsq.Square(&XplusYsq)

	v.Y.Add(&YY, &XX)
	v.Z.Sub(&YY, &XX)

	v.X.Sub(&XplusYsq, &v.Y)
	v.T.Sub(&ZZ2, &v.Z)
	return v
}
