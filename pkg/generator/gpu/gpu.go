package gpu

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Amr-9/YggHunter/pkg/generator"
	"github.com/Amr-9/YggHunter/pkg/generator/ygg"
)

// DefaultBatchSize is the number of workgroups per batch when the config
// leaves it unset.
const DefaultBatchSize = 1024

// GPUGenerator implements the Generator interface on top of a Device.
//
// One control goroutine keeps two seed buffers and one public key buffer.
// Each iteration submits the prepared buffer, matches the previous batch on
// the host while the device runs, swaps the seed buffers, refills the free
// one and then waits for the device.
type GPUGenerator struct {
	device Device
	meter  generator.Meter

	done chan struct{}
	err  error
}

// NewGPUGenerator creates a generator on dev. The generator does not take
// ownership of dev; call Release or dev.Close when done.
func NewGPUGenerator(dev Device) *GPUGenerator {
	return &GPUGenerator{device: dev}
}

// Name returns the implementation name.
func (g *GPUGenerator) Name() string {
	return fmt.Sprintf("GPU (%s)", g.device.Name())
}

// Stats returns the current performance statistics.
func (g *GPUGenerator) Stats() generator.Stats {
	return g.meter.Stats()
}

// Start validates the batch size, compiles the patterns and launches the
// dispatch loop.
func (g *GPUGenerator) Start(ctx context.Context, config *generator.Config) (<-chan generator.Result, error) {
	blocks := config.BatchSize
	if blocks == 0 {
		blocks = DefaultBatchSize
	}
	if blocks < 0 {
		return nil, fmt.Errorf("batch size %d: %w", blocks, ErrBatchSize)
	}
	keys := blocks * g.device.Lanes()

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	results := make(chan generator.Result)
	tracker, err := ygg.NewTracker(config.Patterns, generator.Forward(loopCtx, results))
	if err != nil {
		cancel()
		return nil, err
	}

	log := config.Log().WithFields(logrus.Fields{"backend": g.Name(), "batch": keys})
	log.WithField("patterns", tracker.Patterns()).Info("search started")

	g.meter.Reset()
	g.done = make(chan struct{})
	l := &loop{
		device:  g.device,
		tracker: tracker,
		meter:   &g.meter,
		log:     log,
		workers: workers,
		keys:    keys,
	}

	go func() {
		defer close(g.done)
		defer close(results)
		defer cancel()
		g.err = generator.Stopped(l.run(loopCtx, config))
		if g.err != nil {
			log.WithError(g.err).Error("search aborted")
			return
		}
		log.WithField("attempts", g.meter.Stats().Attempts).Info("search stopped")
	}()

	return results, nil
}

// Wait blocks until the dispatch loop has exited.
func (g *GPUGenerator) Wait() error {
	if g.done == nil {
		return nil
	}
	<-g.done
	return g.err
}

// Release closes the device.
func (g *GPUGenerator) Release() error {
	return g.device.Close()
}

type loop struct {
	device  Device
	tracker *ygg.Tracker
	meter   *generator.Meter
	log     logrus.FieldLogger
	workers int
	keys    int
}

func (l *loop) run(ctx context.Context, config *generator.Config) error {
	size := l.keys * ygg.KeySize
	current := make([]byte, size)
	next := make([]byte, size)
	pubkeys := make([]byte, size)
	entropy := config.Entropy()

	if err := ygg.ReadSeeds(entropy, next); err != nil {
		return err
	}

	// A failed Submit or Read leaves the queue in an unknown state, so any
	// device error ends the search.
	for batch := 0; ; batch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()

		if err := l.device.Submit(next); err != nil {
			return fmt.Errorf("submit batch %d: %w", batch, err)
		}
		if batch > 0 {
			if err := l.evaluate(ctx, current, pubkeys); err != nil {
				l.drain()
				return err
			}
		}

		current, next = next, current
		if err := ygg.ReadSeeds(entropy, next); err != nil {
			l.drain()
			return err
		}

		if err := l.device.Read(pubkeys); err != nil {
			return fmt.Errorf("read batch %d: %w", batch, err)
		}
		l.meter.Add(uint64(l.keys))

		l.log.WithFields(logrus.Fields{
			"batch":   batch,
			"elapsed": time.Since(start),
		}).Debug("batch complete")
	}
}

// evaluate matches every (seed, public key) pair of a completed batch,
// split across the host workers.
func (l *loop) evaluate(ctx context.Context, seeds, pubkeys []byte) error {
	group, gctx := errgroup.WithContext(ctx)
	chunk := (l.keys + l.workers - 1) / l.workers

	for first := 0; first < l.keys; first += chunk {
		first := first
		last := min(first+chunk, l.keys)
		group.Go(func() error {
			for i := first; i < last; i++ {
				if i%WorkgroupSize == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				off := i * ygg.KeySize
				seed := (*ygg.Seed)(seeds[off : off+ygg.KeySize])
				pk := (*ygg.PublicKey)(pubkeys[off : off+ygg.KeySize])
				l.tracker.Evaluate(seed, pk)
			}
			return nil
		})
	}
	return group.Wait()
}

// drain collects the batch in flight so the device is idle on return.
func (l *loop) drain() {
	if err := l.device.Read(make([]byte, l.keys*ygg.KeySize)); err != nil {
		l.log.WithError(err).Warn("discarding batch in flight")
	}
}
