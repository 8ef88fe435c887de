package main

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"filippo.io/edwards25519"
	"github.com/spf13/cobra"

	"github.com/Amr-9/YggHunter/pkg/generator/gpu"
	"github.com/Amr-9/YggHunter/pkg/generator/ygg"
)

// rfc8032Seed is the secret key of RFC 8032 test 1.
const rfc8032Seed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

var errMismatch = errors.New("derivation mismatch")

func newVerifyCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check key derivation on the CPU, the compute device and a reference implementation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seeds, err := verificationSeeds(count)
			if err != nil {
				return err
			}
			return verify(cmd.OutOrStdout(), gpu.NewSoftwareDevice(0), seeds)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", gpu.WorkgroupSize-1, "random seeds to check in addition to the RFC 8032 vector")
	return cmd
}

// verificationSeeds returns the RFC 8032 seed followed by n random ones.
func verificationSeeds(n int) ([]ygg.Seed, error) {
	if n < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", n)
	}
	var fixed ygg.Seed
	if _, err := hex.Decode(fixed[:], []byte(rfc8032Seed)); err != nil {
		return nil, err
	}
	seeds := make([]ygg.Seed, n+1)
	seeds[0] = fixed
	for i := 1; i <= n; i++ {
		if _, err := rand.Read(seeds[i][:]); err != nil {
			return nil, err
		}
	}
	return seeds, nil
}

// referenceKey derives the public key with filippo.io/edwards25519.
func referenceKey(seed *ygg.Seed) ([]byte, error) {
	h := sha512.Sum512(seed[:])
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, err
	}
	return new(edwards25519.Point).ScalarBaseMult(s).Bytes(), nil
}

// verify derives every seed three ways and prints one line per seed. The
// device batch is padded with zero seeds to a whole workgroup.
func verify(out io.Writer, dev gpu.Device, seeds []ygg.Seed) error {
	defer dev.Close()

	lanes := dev.Lanes()
	padded := (len(seeds) + lanes - 1) / lanes * lanes
	batch := make([]byte, padded*ygg.KeySize)
	for i := range seeds {
		copy(batch[i*ygg.KeySize:], seeds[i][:])
	}
	if err := dev.Submit(batch); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	devKeys := make([]byte, len(batch))
	if err := dev.Read(devKeys); err != nil {
		return fmt.Errorf("read: %w", err)
	}

	failed := 0
	for i := range seeds {
		cpuKey := ygg.Derive(&seeds[i])
		refKey, err := referenceKey(&seeds[i])
		if err != nil {
			return err
		}
		devKey := devKeys[i*ygg.KeySize : (i+1)*ygg.KeySize]

		status := "ok"
		if !bytes.Equal(cpuKey[:], refKey) || !bytes.Equal(cpuKey[:], devKey) {
			status = "MISMATCH"
			failed++
		}
		fmt.Fprintf(out, "%3d  %s  %s  %s  %s\n", i, hex.EncodeToString(seeds[i][:4]), cpuKey, ygg.AddressFor(&cpuKey), status)
		if status != "ok" {
			fmt.Fprintf(out, "     device    %x\n     reference %x\n", devKey, refKey)
		}
	}

	fmt.Fprintf(out, "%d/%d seeds agree on %s\n", len(seeds)-failed, len(seeds), dev.Name())
	if failed > 0 {
		return fmt.Errorf("%d of %d seeds: %w", failed, len(seeds), errMismatch)
	}
	return nil
}
