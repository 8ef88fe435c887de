package gpu

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Amr-9/YggHunter/pkg/generator/ygg"
)

// SoftwareDevice runs the kernel on the host, one goroutine per workgroup
// with at most Parallelism running at once. It has the same submission
// rules as a hardware queue and owns its buffer between Submit and Read.
type SoftwareDevice struct {
	parallelism int

	mu       sync.Mutex
	buf      []byte
	inflight chan error
	closed   bool
}

// NewSoftwareDevice creates a device running up to parallelism workgroups
// at once; 0 means one per CPU.
func NewSoftwareDevice(parallelism int) *SoftwareDevice {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	return &SoftwareDevice{parallelism: parallelism}
}

// Name returns the device name.
func (d *SoftwareDevice) Name() string {
	return "software"
}

// Lanes returns the workgroup size.
func (d *SoftwareDevice) Lanes() int {
	return WorkgroupSize
}

// Submit copies seeds into device memory and starts the kernel.
func (d *SoftwareDevice) Submit(seeds []byte) error {
	if err := checkBatch(seeds, WorkgroupSize); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.closed:
		return ErrClosed
	case d.inflight != nil:
		return ErrBusy
	}

	if cap(d.buf) < len(seeds) {
		d.buf = make([]byte, len(seeds))
	}
	d.buf = d.buf[:len(seeds)]
	copy(d.buf, seeds)

	done := make(chan error, 1)
	d.inflight = done
	go func(buf []byte) {
		var group errgroup.Group
		group.SetLimit(d.parallelism)
		stride := WorkgroupSize * ygg.KeySize
		for off := 0; off < len(buf); off += stride {
			lanes := buf[off : off+stride]
			group.Go(func() error {
				ygg.Kernel(lanes)
				return nil
			})
		}
		done <- group.Wait()
	}(d.buf)
	return nil
}

// Read waits for the batch in flight and copies its public keys into dst.
func (d *SoftwareDevice) Read(dst []byte) error {
	d.mu.Lock()
	done := d.inflight
	d.mu.Unlock()
	if done == nil {
		return ErrIdle
	}

	err := <-done

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight = nil
	if err != nil {
		return err
	}
	if len(dst) != len(d.buf) {
		return ErrBatchSize
	}
	copy(dst, d.buf)
	return nil
}

// Close waits for any batch in flight and rejects further submissions.
func (d *SoftwareDevice) Close() error {
	d.mu.Lock()
	done := d.inflight
	d.closed = true
	d.mu.Unlock()
	if done != nil {
		<-done
		d.mu.Lock()
		d.inflight = nil
		d.mu.Unlock()
	}
	return nil
}
