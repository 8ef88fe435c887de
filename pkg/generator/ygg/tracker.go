package ygg

import (
	"fmt"
	"regexp"
	"sync/atomic"
)

// Match is a key pair whose address matched a pattern with a score at least
// as high as any reported before for that pattern.
type Match struct {
	Seed      Seed
	PublicKey PublicKey
	Address   string // IPv6 text form
	Score     int
	Pattern   string
}

// Secret returns the 64-byte private key: seed followed by public key.
func (m *Match) Secret() [64]byte {
	var sk [64]byte
	copy(sk[:KeySize], m.Seed[:])
	copy(sk[KeySize:], m.PublicKey[:])
	return sk
}

// Reporter receives matches. Report may be called from many goroutines at
// once.
type Reporter interface {
	Report(m *Match)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(m *Match)

// Report calls f(m).
func (f ReporterFunc) Report(m *Match) { f(m) }

type pattern struct {
	expr string
	re   *regexp.Regexp
	best atomic.Uint32
}

// Tracker holds the best score seen per pattern. It is safe for concurrent
// use; all state is per-pattern atomics.
//
// Two candidates with the same score racing on one pattern can both be
// reported. Scores reported for a pattern never decrease.
type Tracker struct {
	patterns []*pattern
	reporter Reporter
}

// NewTracker compiles exprs and returns a tracker that reports to r. An
// empty list tracks the single pattern "", which matches every address.
func NewTracker(exprs []string, r Reporter) (*Tracker, error) {
	if len(exprs) == 0 {
		exprs = []string{""}
	}
	t := &Tracker{reporter: r}
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
		}
		t.patterns = append(t.patterns, &pattern{expr: expr, re: re})
	}
	return t, nil
}

// Patterns returns the tracked expressions in order.
func (t *Tracker) Patterns() []string {
	out := make([]string, len(t.patterns))
	for i, p := range t.patterns {
		out[i] = p.expr
	}
	return out
}

// Best returns the best score recorded for pattern i.
func (t *Tracker) Best(i int) int {
	return int(t.patterns[i].best.Load())
}

// Evaluate scores the key pair and reports it for every pattern whose
// address matches and whose best score it reaches.
func (t *Tracker) Evaluate(seed *Seed, pk *PublicKey) {
	score := Score(pk)
	addr := AddressFor(pk).String()

	for _, p := range t.patterns {
		if int(p.best.Load()) > score {
			continue
		}
		if !p.re.MatchString(addr) {
			continue
		}
		if prev := fetchMax(&p.best, uint32(score)); int(prev) <= score {
			t.reporter.Report(&Match{
				Seed:      *seed,
				PublicKey: *pk,
				Address:   addr,
				Score:     score,
				Pattern:   p.expr,
			})
		}
	}
}

// fetchMax stores max(*v, n) in v and returns the previous value.
func fetchMax(v *atomic.Uint32, n uint32) uint32 {
	for {
		cur := v.Load()
		if cur >= n || v.CompareAndSwap(cur, n) {
			return cur
		}
	}
}
