package hash512

import (
	"crypto/sha512"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroMessage(t *testing.T) {
	var msg [32]byte
	got := Sum32(&msg)
	require.Equal(t,
		"5046adc1dba838867b2bbbfdd0c3423e58b57970b5267a90f57960924a87f196"+
			"0a6a85eaa642dac835424b5d7c8d637c00408c7a73da672b7f498521420b6dd3",
		hex.EncodeToString(got[:]))
}

func TestMatchesStandardLibrary(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		var msg [32]byte
		rng.Read(msg[:])
		require.Equal(t, sha512.Sum512(msg[:]), Sum32(&msg))
	}
}
