package vfi

import (
	"testing"
)

// MallocOrFail allocates device memory and fails the test if unsuccessful
func MallocOrFail(t testing.TB, size int) DevicePtr {
	t.Helper()
	ptr, err := Malloc(size)
	if err != nil {
		t.Fatalf("Failed to allocate %d bytes: %v", size, err)
	}
	return ptr
}

// MemcpyOrFail copies data and fails the test if unsuccessful
func MemcpyOrFail(t testing.TB, dst DevicePtr, src interface{}, size int, direction MemcpyKind) {
	t.Helper()
	err := Memcpy(dst, src, size, direction)
	if err != nil {
		t.Fatalf("Memcpy failed: %v", err)
	}
}

// LaunchOrFail launches a kernel and fails the test if unsuccessful
func LaunchOrFail(t testing.TB, kernel KernelFunc, grid, block Dim3, args ...interface{}) {
	t.Helper()
	err := Launch(kernel, grid, block, args...)
	if err != nil {
		t.Fatalf("Kernel launch failed: %v", err)
	}
}

// SynchronizeOrFail synchronizes and fails the test if unsuccessful
func SynchronizeOrFail(t testing.TB) {
	t.Helper()
	err := Synchronize()
	if err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}
}

// NewSolverOrFail constructs a solver and fails the test if the parameters
// are rejected or setup kernels fail. The caller owns the returned solver.
func NewSolverOrFail(t testing.TB, p Params) *Solver {
	t.Helper()
	s, err := NewSolver(p)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	return s
}

// SolveOrFail runs a solver to completion and fails the test on error.
// Non-convergence within MaxIter is not an error; check Solution.Converged.
func SolveOrFail(t testing.TB, s *Solver) *Solution {
	t.Helper()
	sol, err := s.Solve()
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	return sol
}
