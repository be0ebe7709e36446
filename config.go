// Runtime configuration constants.
package vfi

// Cache sizes for different levels (in bytes)
const (
	// L1 cache size per core (typical for modern CPUs)
	L1CacheSize = 32 * 1024 // 32KB

	// L2 cache size per core (typical for modern CPUs)
	L2CacheSize = 256 * 1024 // 256KB

	// L3 cache size (shared, typical for modern CPUs)
	L3CacheSize = 8 * 1024 * 1024 // 8MB
)

// Thread and block dimensions
const (
	// Default block size for 1D kernel sweeps
	DefaultBlockSize = 256

	// Maximum threads per block
	MaxThreadsPerBlock = 1024
)

// Memory pool parameters
const (
	// Memory alignment for allocations
	MemoryAlignment = 64

	// Default SIMD alignment in bytes
	SIMDAlignment = 64
)

// Reduction parameters
const (
	// Chunk size in elements for parallel two-operand float64 reductions,
	// sized so both operand chunks sit in L2 together.
	ReduceChunk = L2CacheSize / (2 * 8)

	// Below this many elements a reduction runs serially; the launch
	// overhead dominates otherwise.
	ParallelReduceThreshold = 4 * ReduceChunk
)

// Numerical constants
const (
	// Machine epsilon for float64
	Float64Epsilon = 2.220446049250313e-16

	// Maximum ULP difference for float64 comparisons
	MaxULPDiff = 4
)
