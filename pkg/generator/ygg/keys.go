// Package ygg turns random seeds into Ed25519 public keys and the 128-bit
// network addresses derived from them, and keeps track of the best address
// found so far for each search pattern.
package ygg

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/Amr-9/YggHunter/internal/edwards"
	"github.com/Amr-9/YggHunter/internal/hash512"
)

// KeySize is the size of a seed and of a public key in bytes.
const KeySize = 32

// Seed is the 32-byte secret an Ed25519 key pair is derived from.
type Seed [KeySize]byte

// PublicKey is an encoded Ed25519 public key.
type PublicKey [KeySize]byte

// String returns the key in lower-case hex.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// ReadSeeds fills buf, a whole number of seeds laid out back to back, from r.
func ReadSeeds(r io.Reader, buf []byte) error {
	if len(buf)%KeySize != 0 {
		return fmt.Errorf("seed buffer of %d bytes is not a multiple of %d", len(buf), KeySize)
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read seeds: %w", err)
	}
	return nil
}

// Clamp clears the three low bits and the top bit of s and sets bit 254.
func Clamp(s *[32]byte) {
	s[0] &= 248
	s[31] &= 63
	s[31] |= 64
}

// Derive returns the public key for seed: SHA-512 of the seed, lower half
// clamped, times the base point.
func Derive(seed *Seed) PublicKey {
	digest := hash512.Sum32((*[32]byte)(seed))

	var scalar [32]byte
	copy(scalar[:], digest[:32])
	Clamp(&scalar)

	return new(edwards.Point).ScalarBaseMult(&scalar).Bytes()
}

// Kernel replaces every 32-byte seed in buf with its public key. Elements
// are independent, so any partition of buf may be processed concurrently.
// len(buf) must be a multiple of KeySize.
func Kernel(buf []byte) {
	for off := 0; off+KeySize <= len(buf); off += KeySize {
		elem := (*Seed)(buf[off : off+KeySize])
		pk := Derive(elem)
		copy(elem[:], pk[:])
	}
}
