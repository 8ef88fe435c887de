package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amr-9/YggHunter/pkg/generator/gpu"
	"github.com/Amr-9/YggHunter/pkg/generator/ygg"
)

func TestVerifyAgrees(t *testing.T) {
	seeds, err := verificationSeeds(5)
	require.NoError(t, err)
	require.Len(t, seeds, 6)

	var out bytes.Buffer
	require.NoError(t, verify(&out, gpu.NewSoftwareDevice(2), seeds))
	assert.Contains(t, out.String(), "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a")
	assert.Contains(t, out.String(), "6/6 seeds agree on software")
	assert.NotContains(t, out.String(), "MISMATCH")
}

// corruptDevice flips a bit in every key it returns.
type corruptDevice struct {
	gpu.Device
}

func (d corruptDevice) Read(dst []byte) error {
	if err := d.Device.Read(dst); err != nil {
		return err
	}
	for i := 0; i < len(dst); i += ygg.KeySize {
		dst[i] ^= 1
	}
	return nil
}

func TestVerifyDetectsMismatch(t *testing.T) {
	seeds, err := verificationSeeds(1)
	require.NoError(t, err)

	var out bytes.Buffer
	err = verify(&out, corruptDevice{gpu.NewSoftwareDevice(1)}, seeds)
	require.ErrorIs(t, err, errMismatch)
	assert.Contains(t, out.String(), "MISMATCH")
}

func TestVerifyCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"verify", "-n", "3"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "4/4 seeds agree")
}

func runSearch(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestSearchCPU(t *testing.T) {
	out, logs, err := runSearch(t, "--backend", "cpu", "-w", "2", "-s", "--stats-interval", "100ms")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, separatorLine+"\nPrivateKey: "), out)
	assert.Contains(t, out, "Height: ")
	assert.Contains(t, logs, "search started")
	assert.Contains(t, logs, "keys")
}

func TestSearchGPUJSON(t *testing.T) {
	out, _, err := runSearch(t, "--backend", "gpu", "-b", "1", "-f", "json", "-r", "^2")
	require.NoError(t, err)
	first := strings.SplitN(out, "\n", 2)[0]
	assert.Contains(t, first, `"address":"2`)
	assert.Contains(t, first, `"pattern":"^2"`)
}

func TestSearchRejectsBadPattern(t *testing.T) {
	_, _, err := runSearch(t, "--backend", "cpu", "-r", "(")
	require.Error(t, err)
}

const separatorLine = "======================================="
