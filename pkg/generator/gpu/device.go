// Package gpu drives a batched compute device with a double-buffered
// dispatch loop. The device runs ygg.Kernel over a buffer of seeds; the host
// matches the previous batch while the device works on the current one.
package gpu

import "errors"

// WorkgroupSize is the number of lanes in one kernel workgroup. Batches are
// always a whole number of workgroups.
const WorkgroupSize = 64

var (
	// ErrBatchSize is returned for a buffer that is empty or not a whole
	// number of workgroups.
	ErrBatchSize = errors.New("gpu: batch is not a positive multiple of the workgroup size")
	// ErrBusy is returned by Submit while a batch is still in flight.
	ErrBusy = errors.New("gpu: a batch is already in flight")
	// ErrIdle is returned by Read when nothing was submitted.
	ErrIdle = errors.New("gpu: no batch in flight")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("gpu: device closed")
)

// Device is a compute device that runs the key derivation kernel.
//
// At most one batch is in flight: Submit uploads seeds and starts the
// kernel, Read waits for it to finish and copies the public keys out. Both
// buffers hold 32-byte elements back to back and have the same length.
type Device interface {
	Name() string
	Lanes() int
	Submit(seeds []byte) error
	Read(dst []byte) error
	Close() error
}

func checkBatch(buf []byte, lanes int) error {
	group := lanes * 32
	if len(buf) == 0 || len(buf)%group != 0 {
		return ErrBatchSize
	}
	return nil
}
