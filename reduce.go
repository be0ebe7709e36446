package vfi

import (
	"math"

	"github.com/macrokit/vfi/compute"
)

// Reductions over device buffers. The solver's convergence check is a
// sup-norm distance between successive value functions, evaluated once per
// sweep; the rest are diagnostics for reports and tests.

// Sum computes the sum of the first n float64 elements.
func (d DevicePtr) Sum(n int) float64 {
	return compute.Sum(d.Float64()[:n])
}

// Max returns the maximum of the first n float64 elements.
func (d DevicePtr) Max(n int) float64 {
	if n == 0 {
		return math.Inf(-1)
	}
	return compute.Max(d.Float64()[:n])
}

// Min returns the minimum of the first n float64 elements.
func (d DevicePtr) Min(n int) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	return compute.Min(d.Float64()[:n])
}

// Mean computes the arithmetic mean of the first n float64 elements.
func (d DevicePtr) Mean(n int) float64 {
	if n == 0 {
		return 0
	}
	return d.Sum(n) / float64(n)
}

// MaxAbsDiff returns max |a[i]-b[i]| over the first n elements of two
// device buffers, running serially.
func (d DevicePtr) MaxAbsDiff(other DevicePtr, n int) float64 {
	return compute.MaxAbsDiff(d.Float64()[:n], other.Float64()[:n])
}

// MaxAbsDiff computes the sup-norm distance between two device buffers.
// Small inputs run serially; larger ones are reduced in two phases, CUDA
// style: a kernel launch writes per-block partial maxima over L2-sized
// chunks, and the partials are folded after the synchronization barrier.
func (ctx *Context) MaxAbsDiff(a, b DevicePtr, n int) (float64, error) {
	if n < 0 || a.Size() < n*8 || b.Size() < n*8 {
		return 0, ErrBufferTooSmall
	}
	if n <= ParallelReduceThreshold {
		return a.MaxAbsDiff(b, n), nil
	}

	numChunks := (n + ReduceChunk - 1) / ReduceChunk
	partials, err := ctx.Malloc(numChunks * 8)
	if err != nil {
		return 0, err
	}
	defer ctx.Free(partials)

	av := a.Float64()[:n]
	bv := b.Float64()[:n]
	pv := partials.Float64()[:numChunks]

	// One block per chunk; the block's single thread reduces its chunk
	// with the dispatched serial kernel.
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		c := tid.BlockIdx.X
		lo := c * ReduceChunk
		if lo >= n {
			return
		}
		hi := lo + ReduceChunk
		if hi > n {
			hi = n
		}
		pv[c] = compute.MaxAbsDiff(av[lo:hi], bv[lo:hi])
	})

	grid := Dim3{X: numChunks, Y: 1, Z: 1}
	block := Dim3{X: 1, Y: 1, Z: 1}
	if err := ctx.LaunchFunc(kernel, grid, block); err != nil {
		return 0, err
	}
	if err := ctx.Synchronize(); err != nil {
		return 0, err
	}

	return compute.Max(pv), nil
}
