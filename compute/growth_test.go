// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"math"
	"testing"
)

func TestSteadyStateCapital(t *testing.T) {
	// k* satisfies the deterministic Euler equation
	// alpha*z*k^(alpha-1) + 1 - delta = 1/beta.
	tests := []struct {
		z, alpha, beta, delta float64
	}{
		{1.0, 0.35, 0.984, 0.01},
		{0.95, 0.35, 0.984, 0.01},
		{1.2, 0.36, 0.95, 0.08},
	}
	for _, tt := range tests {
		k := SteadyStateCapital(tt.z, tt.alpha, tt.beta, tt.delta)
		if k <= 0 || math.IsNaN(k) {
			t.Fatalf("k*(%v) = %v", tt.z, k)
		}
		lhs := tt.alpha*tt.z*math.Pow(k, tt.alpha-1) + 1 - tt.delta
		if math.Abs(lhs-1/tt.beta) > 1e-12 {
			t.Errorf("Euler residual at k*(%v): %v vs %v", tt.z, lhs, 1/tt.beta)
		}
	}
}

func TestCRRA(t *testing.T) {
	// eta = 2 gives u(c) = -1/c.
	if got := CRRA(2, 2); got != -0.5 {
		t.Errorf("CRRA(2, 2) = %v, want -0.5", got)
	}
	if got := CRRA(1, 5); got != -0.25 {
		t.Errorf("CRRA(1, 5) = %v, want -0.25", got)
	}
	// Marginal utility is positive: more consumption is better.
	if CRRA(3, 2) <= CRRA(2, 2) {
		t.Error("CRRA not increasing in consumption")
	}
	// Zero consumption is infinitely bad for eta > 1, which keeps it from
	// ever being chosen by a maximizer.
	if got := CRRA(0, 2); !math.IsInf(got, -1) {
		t.Errorf("CRRA(0, 2) = %v, want -Inf", got)
	}
}

func TestResources(t *testing.T) {
	const (
		k     = 4.0
		z     = 1.1
		alpha = 0.35
		delta = 0.02
	)
	want := z*math.Pow(k, alpha) + (1-delta)*k
	if got := Resources(k, z, alpha, delta); got != want {
		t.Errorf("Resources = %v, want %v", got, want)
	}
	// More capital, more resources.
	if Resources(5, z, alpha, delta) <= Resources(4, z, alpha, delta) {
		t.Error("Resources not increasing in capital")
	}
}
