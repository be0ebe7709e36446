package vfi

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
)

// Test basic memory allocation and deallocation
func TestMemoryAllocation(t *testing.T) {
	sizes := []int{100, 1000, 10000, 1000000}

	for _, size := range sizes {
		ptr, err := Malloc(size * 8)
		if err != nil {
			t.Fatalf("Failed to allocate %d bytes: %v", size*8, err)
		}

		// Verify we can access the memory
		slice := ptr.Float64()
		if len(slice) != size {
			t.Errorf("Expected slice length %d, got %d", size, len(slice))
		}

		// Write and read test
		for i := 0; i < min(100, size); i++ {
			slice[i] = float64(i)
		}

		for i := 0; i < min(100, size); i++ {
			if slice[i] != float64(i) {
				t.Errorf("Memory corruption at index %d", i)
			}
		}

		err = Free(ptr)
		if err != nil {
			t.Fatalf("Failed to free memory: %v", err)
		}
	}
}

// Test that zero and negative sizes are rejected
func TestMallocInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -4096} {
		_, err := Malloc(size)
		if err != ErrInvalidSize {
			t.Errorf("Malloc(%d): expected ErrInvalidSize, got %v", size, err)
		}
	}
}

// Test memory copy operations
func TestMemcpy(t *testing.T) {
	const N = 1000

	rng := rand.New(rand.NewSource(1))

	// Create host data
	h_src := make([]float64, N)
	h_dst := make([]float64, N)
	for i := 0; i < N; i++ {
		h_src[i] = rng.Float64()
	}

	// Allocate device memory
	d_src, _ := Malloc(N * 8)
	d_dst, _ := Malloc(N * 8)
	defer Free(d_src)
	defer Free(d_dst)

	// Test H2D copy
	err := Memcpy(d_src, h_src, N*8, MemcpyHostToDevice)
	if err != nil {
		t.Fatalf("H2D copy failed: %v", err)
	}

	// Test D2D copy
	err = Memcpy(d_dst, d_src, N*8, MemcpyDeviceToDevice)
	if err != nil {
		t.Fatalf("D2D copy failed: %v", err)
	}

	// Test D2H copy
	err = Memcpy(h_dst, d_dst, N*8, MemcpyDeviceToHost)
	if err != nil {
		t.Fatalf("D2H copy failed: %v", err)
	}

	// Copies are exact
	for i := 0; i < N; i++ {
		if h_src[i] != h_dst[i] {
			t.Errorf("Data mismatch at index %d: %f vs %f", i, h_src[i], h_dst[i])
		}
	}
}

// Test int32 copies used for the policy buffer
func TestMemcpyInt32(t *testing.T) {
	const N = 512

	h_src := make([]int32, N)
	h_dst := make([]int32, N)
	for i := range h_src {
		h_src[i] = int32(3 * i)
	}

	d_buf, _ := Malloc(N * 4)
	defer Free(d_buf)

	if err := Memcpy(d_buf, h_src, N*4, MemcpyHostToDevice); err != nil {
		t.Fatalf("H2D copy failed: %v", err)
	}
	if err := Memcpy(h_dst, d_buf, N*4, MemcpyDeviceToHost); err != nil {
		t.Fatalf("D2H copy failed: %v", err)
	}

	for i := range h_dst {
		if h_dst[i] != h_src[i] {
			t.Errorf("Data mismatch at index %d: %d vs %d", i, h_src[i], h_dst[i])
		}
	}
}

// Test basic kernel launch
func TestKernelLaunch(t *testing.T) {
	const N = 10000

	// Allocate memory
	d_data, _ := Malloc(N * 8)
	defer Free(d_data)

	// Initialize to zero
	slice := d_data.Float64()
	for i := 0; i < N; i++ {
		slice[i] = 0
	}

	// Launch kernel to set values
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < N {
			slice[idx] = float64(idx)
		}
	})

	grid, block := launchConfig(N)
	err := Launch(kernel, grid, block)
	if err != nil {
		t.Fatalf("Kernel launch failed: %v", err)
	}

	err = Synchronize()
	if err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	// Verify results
	for i := 0; i < N; i++ {
		if slice[i] != float64(i) {
			t.Errorf("Incorrect value at index %d: expected %f, got %f", i, float64(i), slice[i])
		}
	}
}

// Test launch geometry for 1D sweeps
func TestLaunchConfig(t *testing.T) {
	cases := []struct {
		n, gridX int
	}{
		{1, 1},
		{255, 1},
		{256, 1},
		{257, 2},
		{4096, 16},
		{4097, 17},
	}
	for _, tc := range cases {
		grid, block := launchConfig(tc.n)
		if grid.X != tc.gridX || grid.Y != 1 || grid.Z != 1 {
			t.Errorf("launchConfig(%d): grid %v, expected X=%d", tc.n, grid, tc.gridX)
		}
		if block.X != DefaultBlockSize || block.Y != 1 || block.Z != 1 {
			t.Errorf("launchConfig(%d): block %v, expected X=%d", tc.n, block, DefaultBlockSize)
		}
		if grid.X*block.X < tc.n {
			t.Errorf("launchConfig(%d): covers only %d threads", tc.n, grid.X*block.X)
		}
	}
}

// Test the ForEach / Map / Reduce helpers
func TestHelpers(t *testing.T) {
	const N = 1000

	d_data, _ := Malloc(N * 8)
	d_out, _ := Malloc(N * 8)
	defer Free(d_data)
	defer Free(d_out)

	// ForEach: fill with index squared
	err := ForEach(d_data, N, func(idx int, val *float64) {
		*val = float64(idx * idx)
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	Synchronize()

	slice := d_data.Float64()
	for i := 0; i < N; i++ {
		if slice[i] != float64(i*i) {
			t.Fatalf("ForEach result wrong at %d: got %f", i, slice[i])
		}
	}

	// Map: square root back to index
	err = Map(d_data, d_out, N, math.Sqrt)
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	Synchronize()

	out := d_out.Float64()
	for i := 0; i < N; i++ {
		if out[i] != float64(i) {
			t.Errorf("Map result wrong at %d: got %f", i, out[i])
			break
		}
	}

	// Reduce: sequential sum of indices
	total, err := Reduce(d_out, N, func(a, b float64) float64 { return a + b })
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	want := float64(N*(N-1)) / 2
	if total != want {
		t.Errorf("Reduce sum: expected %f, got %f", want, total)
	}

	// Reduce on an empty range is an error
	if _, err := Reduce(d_out, 0, math.Max); err == nil {
		t.Error("Reduce over zero elements should have failed")
	}
}

// Test stream ordering: kernels on one stream observe each other's writes
func TestStreamOrdering(t *testing.T) {
	const N = 4096

	d_data, _ := Malloc(N * 8)
	defer Free(d_data)
	slice := d_data.Float64()

	ctx := NewContext()
	stream := ctx.CreateStream()

	grid, block := launchConfig(N)
	set := KernelFunc(func(tid ThreadID, args ...interface{}) {
		if idx := tid.Global(); idx < N {
			slice[idx] = 1
		}
	})
	double := KernelFunc(func(tid ThreadID, args ...interface{}) {
		if idx := tid.Global(); idx < N {
			slice[idx] *= 2
		}
	})

	for pass := 0; pass < 3; pass++ {
		if err := ctx.LaunchFuncStream(set, grid, block, stream); err != nil {
			t.Fatalf("launch set failed: %v", err)
		}
		if err := ctx.LaunchFuncStream(double, grid, block, stream); err != nil {
			t.Fatalf("launch double failed: %v", err)
		}
	}
	stream.Synchronize()

	for i := 0; i < N; i++ {
		if slice[i] != 2 {
			t.Fatalf("stream ordering violated at %d: got %f", i, slice[i])
		}
	}
}

// Test error conditions
func TestErrorHandling(t *testing.T) {
	// Test double free
	ptr, _ := Malloc(100)
	err := Free(ptr)
	if err != nil {
		t.Fatalf("First free failed: %v", err)
	}

	err = Free(ptr)
	if err == nil {
		t.Error("Double free should have failed")
	}

	// Test invalid device
	err = SetDevice(1)
	if err == nil {
		t.Error("SetDevice(1) should have failed")
	}

	// Test device count
	count := GetDeviceCount()
	if count != 1 {
		t.Errorf("Expected 1 device, got %d", count)
	}
}

// Test device and CPU reporting used in solve records
func TestDeviceInfo(t *testing.T) {
	dev := GetDevice()
	if dev == nil || dev.Name == "" {
		t.Fatal("GetDevice returned no usable device")
	}

	props, err := GetDeviceProperties(0)
	if err != nil {
		t.Fatalf("GetDeviceProperties(0) failed: %v", err)
	}
	if props.Name != dev.Name {
		t.Errorf("Device name mismatch: %q vs %q", props.Name, dev.Name)
	}

	if _, err := GetDeviceProperties(3); err == nil {
		t.Error("GetDeviceProperties(3) should have failed")
	}

	if info := GetCPUInfo(); info == "" {
		t.Error("GetCPUInfo returned empty string")
	}
}

// Test memory pool statistics
func TestMemoryPoolStats(t *testing.T) {
	// Get initial stats
	allocated1, _ := defaultContext.memory.GetStats()

	// Allocate some memory
	ptrs := make([]DevicePtr, 10)
	for i := range ptrs {
		ptrs[i], _ = Malloc(1024 * 1024) // 1MB each
	}

	// Check stats increased
	allocated2, peak2 := defaultContext.memory.GetStats()
	if allocated2 <= allocated1 {
		t.Error("Allocated memory should have increased")
	}
	if peak2 < allocated2 {
		t.Error("Peak should be at least current allocation")
	}

	// Free half
	for i := 0; i < 5; i++ {
		Free(ptrs[i])
	}

	// Check allocated decreased but peak unchanged
	allocated3, peak3 := defaultContext.memory.GetStats()
	if allocated3 >= allocated2 {
		t.Error("Allocated memory should have decreased")
	}
	if peak3 != peak2 {
		t.Error("Peak should not have changed")
	}

	// Clean up
	for i := 5; i < 10; i++ {
		Free(ptrs[i])
	}
}

// Benchmark raw kernel launch overhead across sweep sizes
func BenchmarkKernelLaunch(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}

	for _, N := range sizes {
		b.Run(fmt.Sprintf("Size_%d", N), func(b *testing.B) {
			d_data, _ := Malloc(N * 8)
			defer Free(d_data)
			slice := d_data.Float64()

			kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
				if idx := tid.Global(); idx < N {
					slice[idx] = float64(idx)
				}
			})
			grid, block := launchConfig(N)

			b.ResetTimer()
			b.SetBytes(int64(N * 8))

			for i := 0; i < b.N; i++ {
				Launch(kernel, grid, block)
				Synchronize()
			}
		})
	}
}
