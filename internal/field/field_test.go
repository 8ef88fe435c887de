package field

import (
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var modulus = func() *uint256.Int {
	p := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	return p.Sub(p, uint256.NewInt(19))
}()

// toInt reads b as a little-endian integer with bit 255 cleared, which is
// the value SetBytes sees.
func toInt(b [32]byte) *uint256.Int {
	b[31] &= 0x7f
	var be [32]byte
	for i := range b {
		be[31-i] = b[i]
	}
	return new(uint256.Int).SetBytes32(be[:])
}

func fromInt(x *uint256.Int) [32]byte {
	be := x.Bytes32()
	var le [32]byte
	for i := range be {
		le[31-i] = be[i]
	}
	return le
}

func randBytes(rng *rand.Rand) [32]byte {
	var b [32]byte
	rng.Read(b[:])
	return b
}

func elem(b [32]byte) *Element {
	return new(Element).SetBytes(&b)
}

func requireValue(t *testing.T, want *uint256.Int, got *Element) {
	t.Helper()
	require.Equal(t, fromInt(want), got.Bytes())
}

func TestRoundTrip(t *testing.T) {
	edges := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(19),
		new(uint256.Int).Sub(modulus, uint256.NewInt(1)),
		modulus,
		new(uint256.Int).Add(modulus, uint256.NewInt(1)),
		new(uint256.Int).Add(modulus, uint256.NewInt(18)),
		new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1)),
	}
	for _, x := range edges {
		b := fromInt(x)
		requireValue(t, new(uint256.Int).Mod(x, modulus), elem(b))
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		b := randBytes(rng)
		want := new(uint256.Int).Mod(toInt(b), modulus)
		requireValue(t, want, elem(b))
	}
}

func TestTopBitIgnored(t *testing.T) {
	var b [32]byte
	b[0] = 5
	b[31] = 0x80
	requireValue(t, uint256.NewInt(5), elem(b))
}

func TestArithmetic(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		ab, bb := randBytes(rng), randBytes(rng)
		a, b := elem(ab), elem(bb)
		x, y := toInt(ab), toInt(bb)

		requireValue(t, new(uint256.Int).AddMod(x, y, modulus), new(Element).Add(a, b))
		requireValue(t, new(uint256.Int).MulMod(x, y, modulus), new(Element).Mul(a, b))
		requireValue(t, new(uint256.Int).MulMod(x, x, modulus), new(Element).Square(a))

		diff := new(uint256.Int).Sub(new(uint256.Int).Add(new(uint256.Int).Mod(x, modulus), modulus), new(uint256.Int).Mod(y, modulus))
		requireValue(t, diff.Mod(diff, modulus), new(Element).Sub(a, b))
	}
}

func TestLooseInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		ab, bb, cb := randBytes(rng), randBytes(rng), randBytes(rng)
		x, y, z := toInt(ab), toInt(bb), toInt(cb)

		// Sums of two reduced values feed Mul and Sub in the group law.
		s := new(Element).Add(elem(ab), elem(bb))
		sum := new(uint256.Int).AddMod(x, y, modulus)

		requireValue(t, new(uint256.Int).MulMod(sum, sum, modulus), new(Element).Square(s))
		requireValue(t, new(uint256.Int).MulMod(sum, z, modulus), new(Element).Mul(s, elem(cb)))

		diff := new(uint256.Int).Add(new(uint256.Int).Mod(z, modulus), modulus)
		diff.Sub(diff, sum).Mod(diff, modulus)
		requireValue(t, diff, new(Element).Sub(elem(cb), s))
	}
}

func TestInvert(t *testing.T) {
	requireValue(t, uint256.NewInt(0), new(Element).Invert(Zero()))
	requireValue(t, uint256.NewInt(1), new(Element).Invert(One()))

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		b := randBytes(rng)
		a := elem(b)
		if toInt(b).IsZero() {
			continue
		}
		inv := new(Element).Invert(a)
		requireValue(t, uint256.NewInt(1), new(Element).Mul(a, inv))
	}
}

func TestSelectAndEqual(t *testing.T) {
	a := &Element{1, 2, 3, 4, 5}
	b := &Element{6, 7, 8, 9, 10}
	require.Equal(t, *a, *new(Element).Select(a, b, 1))
	require.Equal(t, *b, *new(Element).Select(a, b, 0))

	require.Equal(t, 1, a.Equal(&Element{1, 2, 3, 4, 5}))
	require.Equal(t, 0, a.Equal(b))

	// p and 0 are the same value in different limbs.
	p := fromInt(modulus)
	require.Equal(t, 0, elem(p).Equal(Zero()))
	require.Equal(t, elem(p).Bytes(), Zero().Bytes())
}

func TestIsNegative(t *testing.T) {
	require.Equal(t, 0, Zero().IsNegative())
	require.Equal(t, 1, One().IsNegative())
	minusOne := new(Element).Negate(One())
	require.Equal(t, 0, minusOne.IsNegative())
}

func TestCountOps(t *testing.T) {
	var c OpCounts
	restore := CountOps(&c)
	a := One()
	new(Element).Mul(a, a)
	new(Element).Add(a, a)
	restore()
	new(Element).Mul(a, a)
	require.Equal(t, OpCounts{Mul: 1, Add: 1}, c)
}
