// Package generator defines the interface for key pair search backends.
// This design allows easy swapping between the CPU worker pool and the
// batched device pipeline; both feed the same ygg.Tracker.
package generator

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"github.com/Amr-9/YggHunter/pkg/generator/ygg"
)

// Backend selects where public keys are derived.
type Backend int

const (
	CPU Backend = iota // goroutine per core
	GPU                // batched compute device
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case CPU:
		return "CPU"
	case GPU:
		return "GPU"
	default:
		return "Unknown"
	}
}

// ParseBackend parses a backend name, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "cpu":
		return CPU, nil
	case "gpu":
		return GPU, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (want cpu or gpu)", s)
	}
}

// Config holds the configuration for a search.
type Config struct {
	Backend   Backend            // Where keys are derived
	Patterns  []string           // Regular expressions over the address text; empty matches all
	Workers   int                // Concurrent workers; 0 means one per CPU
	BatchSize int                // Device batch size in workgroups
	Logger    logrus.FieldLogger // Defaults to the standard logrus logger
	Rand      io.Reader          // Seed source; defaults to crypto/rand
}

// Log returns the configured logger or the logrus standard logger.
func (c *Config) Log() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// Entropy returns the configured seed source or crypto/rand.
func (c *Config) Entropy() io.Reader {
	if c.Rand == nil {
		return rand.Reader
	}
	return c.Rand
}

// Result is a reported key pair.
type Result struct {
	PrivateKey hexutil.Bytes `json:"privateKey"` // seed followed by public key
	PublicKey  hexutil.Bytes `json:"publicKey"`
	Address    string        `json:"address"`
	Height     int           `json:"height"`
	Pattern    string        `json:"pattern"`
}

// NewResult converts a tracker match.
func NewResult(m *ygg.Match) Result {
	sk := m.Secret()
	return Result{
		PrivateKey: sk[:],
		PublicKey:  m.PublicKey[:],
		Address:    m.Address,
		Height:     m.Score,
		Pattern:    m.Pattern,
	}
}

// Seed returns the 32-byte seed half of the private key.
func (r *Result) Seed() []byte {
	return r.PrivateKey[:ygg.KeySize]
}

// Stats holds real-time performance statistics.
type Stats struct {
	Attempts    uint64  // Total number of keys derived
	HashRate    float64 // Keys per second since start
	ElapsedSecs float64 // Time elapsed since start
}

// Generator defines the contract for search backends.
type Generator interface {
	// Start begins the search with the given configuration. Results arrive on
	// the returned channel, which is closed once the search stops. The search
	// runs until ctx is cancelled or the backend fails.
	Start(ctx context.Context, config *Config) (<-chan Result, error)

	// Wait blocks until the search has stopped and returns the error that
	// stopped it, or nil after cancellation.
	Wait() error

	// Stats returns the current performance statistics.
	// This method is safe to call concurrently from any goroutine.
	Stats() Stats

	// Name returns the implementation name (e.g., "CPU", "GPU (software)").
	Name() string
}

// Meter counts derived keys for Stats.
type Meter struct {
	attempts atomic.Uint64
	start    atomic.Int64
}

// Reset zeroes the counter and restarts the clock.
func (m *Meter) Reset() {
	m.attempts.Store(0)
	m.start.Store(time.Now().UnixNano())
}

// Add records n derived keys.
func (m *Meter) Add(n uint64) {
	m.attempts.Add(n)
}

// Stats returns the statistics since the last Reset.
func (m *Meter) Stats() Stats {
	attempts := m.attempts.Load()
	elapsed := time.Since(time.Unix(0, m.start.Load())).Seconds()

	var hashRate float64
	if elapsed > 0 {
		hashRate = float64(attempts) / elapsed
	}

	return Stats{
		Attempts:    attempts,
		HashRate:    hashRate,
		ElapsedSecs: elapsed,
	}
}

// Forward returns a reporter that sends every match to results. Sends block
// until the consumer receives or ctx is done, so reports are delivered in
// order and never dropped while the search runs.
func Forward(ctx context.Context, results chan<- Result) ygg.Reporter {
	return ygg.ReporterFunc(func(m *ygg.Match) {
		select {
		case results <- NewResult(m):
		case <-ctx.Done():
		}
	})
}

// Stopped maps an error from a search goroutine to the error Wait returns:
// cancellation is a normal stop and yields nil.
func Stopped(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
