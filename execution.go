package vfi

import (
	"runtime"
	"sync"
)

// launchInternal implements the core kernel execution logic
func (ctx *Context) launchInternal(
	kernelFunc func(ThreadID, ...interface{}),
	grid, block Dim3,
	stream *Stream,
	args ...interface{},
) error {
	// Calculate total work items
	gridSize := grid.Size()
	blockSize := block.Size()

	// Handle edge case where grid size is zero
	if gridSize == 0 {
		// Submit an empty task to maintain stream ordering
		stream.Submit(func() {})
		return nil
	}

	// Determine parallelism strategy
	numWorkers := runtime.NumCPU()
	if gridSize < numWorkers {
		numWorkers = gridSize
	}

	// Cache-aware scheduling: each worker processes multiple blocks
	// to maximize cache reuse
	blocksPerWorker := (gridSize + numWorkers - 1) / numWorkers

	// Submit work to stream
	stream.Submit(func() {
		var wg sync.WaitGroup
		wg.Add(numWorkers)

		for workerID := 0; workerID < numWorkers; workerID++ {
			wID := workerID
			startBlock := wID * blocksPerWorker
			endBlock := startBlock + blocksPerWorker
			if endBlock > gridSize {
				endBlock = gridSize
			}

			go func() {
				defer wg.Done()

				// Threads within a block run sequentially on CPU: the
				// value-function sweep reads contiguous rows of V0, so
				// in-block order maximizes cache reuse and needs no
				// synchronization.
				for blockID := startBlock; blockID < endBlock; blockID++ {
					blockIdx := linearTo3D(blockID, grid)

					for threadID := 0; threadID < blockSize; threadID++ {
						threadIdx := linearTo3D(threadID, block)

						tid := ThreadID{
							BlockIdx:  blockIdx,
							ThreadIdx: threadIdx,
							BlockDim:  block,
							GridDim:   grid,
						}

						kernelFunc(tid, args...)
					}
				}
			}()
		}

		wg.Wait()
	})

	return nil
}

// linearTo3D converts a linear index to 3D coordinates
func linearTo3D(linear int, dim Dim3) Dim3 {
	z := linear / (dim.X * dim.Y)
	y := (linear % (dim.X * dim.Y)) / dim.X
	x := linear % dim.X
	return Dim3{X: x, Y: y, Z: z}
}

// launchConfig returns the grid and block dimensions for a 1D sweep over
// n elements with the default block size.
func launchConfig(n int) (grid, block Dim3) {
	grid = Dim3{X: (n + DefaultBlockSize - 1) / DefaultBlockSize, Y: 1, Z: 1}
	block = Dim3{X: DefaultBlockSize, Y: 1, Z: 1}
	return grid, block
}

// Helper functions for common patterns

// ForEach applies fn to each element of a float64 device buffer in
// parallel. fn receives the element index and a pointer to the element.
func ForEach(data DevicePtr, size int, fn func(idx int, val *float64)) error {
	grid, block := launchConfig(size)

	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < size {
			slice := data.Float64()
			fn(idx, &slice[idx])
		}
	})

	return Launch(kernel, grid, block)
}

// Map writes fn(input[i]) to output[i] for each element in parallel.
// input and output may be the same buffer.
func Map(input, output DevicePtr, size int, fn func(float64) float64) error {
	grid, block := launchConfig(size)

	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < size {
			in := input.Float64()
			out := output.Float64()
			out[idx] = fn(in[idx])
		}
	})

	return Launch(kernel, grid, block)
}

// Reduce folds the first size elements of data with op. The fold is
// sequential, so op need not be associative.
func Reduce(data DevicePtr, size int, op func(a, b float64) float64) (float64, error) {
	if size == 0 {
		return 0, NewInvalidArgError("Reduce", "empty reduction")
	}
	slice := data.Float64()[:size]
	result := slice[0]
	for i := 1; i < size; i++ {
		result = op(result, slice[i])
	}
	return result, nil
}
