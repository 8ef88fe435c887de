package cpu

import (
	"context"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Amr-9/YggHunter/pkg/generator"
	"github.com/Amr-9/YggHunter/pkg/generator/ygg"
)

// seedsPerRead is how many seeds a worker draws from the entropy source at
// once.
const seedsPerRead = 64

// CPUGenerator implements the Generator interface using CPU-based goroutines.
// Each worker derives keys from its own seeds; the only shared state is the
// tracker and the attempts counter.
type CPUGenerator struct {
	meter   generator.Meter
	workers int // Number of concurrent workers

	done chan struct{}
	err  error
}

// NewCPUGenerator creates a new CPU-based generator.
// If workers is 0, it defaults to the number of CPU cores.
func NewCPUGenerator(workers int) *CPUGenerator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUGenerator{
		workers: workers,
	}
}

// Name returns the implementation name.
func (g *CPUGenerator) Name() string {
	return "CPU"
}

// Stats returns the current performance statistics.
func (g *CPUGenerator) Stats() generator.Stats {
	return g.meter.Stats()
}

// Start launches the workers. The returned channel is closed after every
// worker has exited.
func (g *CPUGenerator) Start(ctx context.Context, config *generator.Config) (<-chan generator.Result, error) {
	workers := g.workers
	if config.Workers > 0 {
		workers = config.Workers
	}

	group, gctx := errgroup.WithContext(ctx)
	results := make(chan generator.Result)
	tracker, err := ygg.NewTracker(config.Patterns, generator.Forward(gctx, results))
	if err != nil {
		return nil, err
	}

	log := config.Log().WithFields(logrus.Fields{"backend": g.Name(), "workers": workers})
	log.WithField("patterns", tracker.Patterns()).Info("search started")

	g.meter.Reset()
	g.done = make(chan struct{})
	entropy := config.Entropy()

	for i := 0; i < workers; i++ {
		group.Go(func() error {
			return g.work(gctx, tracker, entropy)
		})
	}

	go func() {
		defer close(g.done)
		defer close(results)
		g.err = generator.Stopped(group.Wait())
		if g.err != nil {
			log.WithError(g.err).Error("search aborted")
			return
		}
		log.WithField("attempts", g.meter.Stats().Attempts).Info("search stopped")
	}()

	return results, nil
}

// Wait blocks until all workers have exited.
func (g *CPUGenerator) Wait() error {
	if g.done == nil {
		return nil
	}
	<-g.done
	return g.err
}

func (g *CPUGenerator) work(ctx context.Context, tracker *ygg.Tracker, entropy io.Reader) error {
	buf := make([]byte, seedsPerRead*ygg.KeySize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ygg.ReadSeeds(entropy, buf); err != nil {
			return err
		}
		for off := 0; off < len(buf); off += ygg.KeySize {
			seed := (*ygg.Seed)(buf[off : off+ygg.KeySize])
			pk := ygg.Derive(seed)
			tracker.Evaluate(seed, &pk)
		}
		g.meter.Add(seedsPerRead)
	}
}
