// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compute provides the scalar and slice-level numeric kernels for
// the stochastic growth model: Tauchen discretization of the AR(1)
// productivity process, the neoclassical closed forms (steady-state capital,
// resources, CRRA utility), the Bellman objective and its two maximization
// strategies, and the reductions used for convergence checks.
//
// Everything in this package operates on plain float64 slices with
// row-major layout and explicit leading dimensions, so kernels can be
// called directly from tests or wrapped in device kernels by the parent
// package. No function here allocates or retains state.
package compute
