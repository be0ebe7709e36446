// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vfi solves the stochastic neoclassical growth model by value
// function iteration, using a device-style execution runtime on the CPU.
//
// The model: a planner chooses next-period capital from a fixed grid to
// maximize expected discounted CRRA utility, with log productivity
// following an AR(1) discretized by Tauchen's method. The solver iterates
// the Bellman operator over the nk x nz state space until the sup-norm
// distance between successive value functions falls below tolerance,
// optionally accelerated by Howard policy-improvement sweeps.
//
// The runtime mirrors the CUDA programming model so state-space sweeps are
// written as kernels: device buffers are allocated with Malloc, kernels are
// launched over a grid of thread blocks, and Synchronize is the barrier
// between a sweep and the convergence check that reads its output. On CPU a
// "device" is the set of cores; blocks are distributed across worker
// goroutines and threads within a block run sequentially for cache reuse.
//
// Typical use:
//
//	p := vfi.DefaultParams()
//	p.NK, p.NZ = 2048, 8
//	s, err := vfi.NewSolver(p)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//	sol, err := s.Solve()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(sol.Iterations, sol.MaxDiff)
//
// The pure numeric kernels (Tauchen discretization, Bellman objective,
// bracket searches, reductions) live in the compute subpackage and operate
// on plain float64 slices; this package wires them to device memory and
// parallel launches.
package vfi
