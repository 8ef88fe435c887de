package ygg

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	matches []Match
}

func (r *recorder) Report(m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, *m)
}

// keyWithScore returns a public key with exactly score leading zero bits.
func keyWithScore(score int, fill byte) PublicKey {
	var pk PublicKey
	for i := range pk {
		pk[i] = fill
	}
	for i := 0; i < score/8; i++ {
		pk[i] = 0
	}
	pk[score/8] = 0x80 >> (score % 8)
	return pk
}

func TestTrackerRejectsBadPattern(t *testing.T) {
	_, err := NewTracker([]string{"ok", "(unclosed"}, &recorder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(unclosed")
}

func TestTrackerDefaultPattern(t *testing.T) {
	rec := &recorder{}
	tr, err := NewTracker(nil, rec)
	require.NoError(t, err)
	require.Equal(t, []string{""}, tr.Patterns())

	var seed Seed
	pk := keyWithScore(3, 0x55)
	tr.Evaluate(&seed, &pk)
	require.Len(t, rec.matches, 1)
	assert.Equal(t, 3, rec.matches[0].Score)
	assert.Equal(t, AddressFor(&pk).String(), rec.matches[0].Address)
	assert.Equal(t, "", rec.matches[0].Pattern)
}

func TestTrackerMonotonic(t *testing.T) {
	rec := &recorder{}
	tr, err := NewTracker(nil, rec)
	require.NoError(t, err)

	var seed Seed
	for _, score := range []int{5, 2, 9, 9, 4, 12, 0} {
		pk := keyWithScore(score, 0x33)
		tr.Evaluate(&seed, &pk)
	}

	var got []int
	for _, m := range rec.matches {
		got = append(got, m.Score)
	}
	// Ties with the current best are reported again.
	assert.Equal(t, []int{5, 9, 9, 12}, got)
	assert.Equal(t, 12, tr.Best(0))
}

func TestTrackerPerPattern(t *testing.T) {
	rec := &recorder{}
	low := keyWithScore(4, 0x11)
	high := keyWithScore(10, 0x11)
	lowAddr := AddressFor(&low).String()

	tr, err := NewTracker([]string{"^" + lowAddr[:4], "^2"}, rec)
	require.NoError(t, err)

	var seed Seed
	tr.Evaluate(&seed, &low)
	tr.Evaluate(&seed, &high)

	// "^2" matches every address; the first pattern only the low key's.
	assert.Equal(t, 4, tr.Best(0))
	assert.Equal(t, 10, tr.Best(1))
	require.Len(t, rec.matches, 3)
}

func TestTrackerConcurrent(t *testing.T) {
	rec := &recorder{}
	tr, err := NewTracker(nil, rec)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var seed Seed
			seed[0] = byte(w)
			for score := 0; score < 40; score++ {
				pk := keyWithScore((score*7+w)%40, byte(w))
				tr.Evaluate(&seed, &pk)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 39, tr.Best(0))
	require.NotEmpty(t, rec.matches)

	// Every report was at least as good as the best at the time it was made,
	// so the highest report equals the final best.
	top := 0
	for _, m := range rec.matches {
		if m.Score > top {
			top = m.Score
		}
	}
	assert.Equal(t, 39, top)
}

func TestFetchMax(t *testing.T) {
	rec := &recorder{}
	tr, err := NewTracker(nil, rec)
	require.NoError(t, err)
	p := &tr.patterns[0].best

	assert.Equal(t, uint32(0), fetchMax(p, 5))
	assert.Equal(t, uint32(5), fetchMax(p, 3))
	assert.Equal(t, uint32(5), p.Load())
	assert.Equal(t, uint32(5), fetchMax(p, 7))
	assert.Equal(t, uint32(7), p.Load())
}

func TestMatchSecret(t *testing.T) {
	m := Match{}
	m.Seed[0] = 1
	m.PublicKey[31] = 2
	sk := m.Secret()
	assert.Equal(t, byte(1), sk[0])
	assert.Equal(t, byte(2), sk[63])
}
