// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SteadyStateCapital returns the deterministic steady-state capital stock
// for productivity level z:
//
//	k*(z) = ((1/(alpha*z)) * (1/beta - 1 + delta))^(1/(alpha-1))
//
// It is the fixed point of the Euler equation with no uncertainty and is
// used both to place the capital grid and to seed the value function.
// Requires alpha != 1 and z > 0.
func SteadyStateCapital(z, alpha, beta, delta float64) float64 {
	return math.Pow((1/(alpha*z))*(1/beta-1+delta), 1/(alpha-1))
}

// Resources returns output plus undepreciated capital,
// z*k^alpha + (1-delta)*k, the total available for consumption and
// next-period capital at state (k, z).
func Resources(k, z, alpha, delta float64) float64 {
	return z*math.Pow(k, alpha) + (1-delta)*k
}

// CRRA returns constant-relative-risk-aversion utility c^(1-eta)/(1-eta).
// eta == 1 (log utility) is not representable by this form and is rejected
// during parameter validation. Zero consumption yields -Inf for eta > 1,
// which orders correctly below every feasible choice.
func CRRA(c, eta float64) float64 {
	return math.Pow(c, 1-eta) / (1 - eta)
}

// StateValue evaluates the Bellman objective at one candidate choice:
// utility of consuming resources net of next-period capital K[kp], plus the
// discounted expectation of v0 over next-period productivity.
//
// prow is the transition-matrix row for the current productivity state and
// v0 is the full current value function, row-major nk x nz with the stride
// equal to len(prow). The expectation is a contiguous dot product of prow
// against row kp of v0.
//
// Every update rule funnels through this one evaluator so that a
// policy-fixed pass reproduces the maximizer's values bit for bit.
func StateValue(ydepK, eta, beta float64, kp int, K, prow, v0 []float64) float64 {
	nz := len(prow)
	ev := floats.Dot(prow, v0[kp*nz:(kp+1)*nz])
	return CRRA(ydepK-K[kp], eta) + beta*ev
}
