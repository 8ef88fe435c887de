package cpu

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amr-9/YggHunter/pkg/generator"
	"github.com/Amr-9/YggHunter/pkg/generator/ygg"
)

type lockedReader struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Read(p)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func testConfig(t *testing.T) (*generator.Config, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return &generator.Config{
		Backend: generator.CPU,
		Workers: 2,
		Logger:  logger,
		Rand:    &lockedReader{rng: rand.New(rand.NewSource(1))},
	}, hook
}

func TestCPUReportsValidKeys(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, hook := testConfig(t)
	g := NewCPUGenerator(0)
	results, err := g.Start(ctx, cfg)
	require.NoError(t, err)

	res, ok := <-results
	require.True(t, ok)

	seed := ygg.Seed(res.Seed())
	pk := ygg.Derive(&seed)
	assert.Equal(t, pk[:], []byte(res.PublicKey))
	assert.Equal(t, ygg.AddressFor(&pk).String(), res.Address)
	assert.Equal(t, ygg.Score(&pk), res.Height)
	assert.Len(t, res.PrivateKey, 64)

	cancel()
	for range results {
	}
	require.NoError(t, g.Wait())
	assert.Positive(t, g.Stats().Attempts)
	assert.Equal(t, "search stopped", hook.LastEntry().Message)
}

func TestCPUHeightsNeverDecrease(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reports from different workers may arrive out of order, so use one.
	cfg, _ := testConfig(t)
	cfg.Workers = 1
	g := NewCPUGenerator(4)
	results, err := g.Start(ctx, cfg)
	require.NoError(t, err)

	best := -1
	for i := 0; i < 5; i++ {
		res := <-results
		assert.GreaterOrEqual(t, res.Height, best)
		if res.Height > best {
			best = res.Height
		}
	}
	cancel()
	for range results {
	}
	require.NoError(t, g.Wait())
}

func TestCPUInvalidPattern(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.Patterns = []string{"[z-a]"}
	_, err := NewCPUGenerator(1).Start(context.Background(), cfg)
	require.Error(t, err)
}

func TestCPUEntropyFailure(t *testing.T) {
	cfg, hook := testConfig(t)
	cfg.Rand = failingReader{}
	g := NewCPUGenerator(1)
	results, err := g.Start(context.Background(), cfg)
	require.NoError(t, err)

	for range results {
	}
	err = g.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
