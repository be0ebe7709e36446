package vfi

import (
	"fmt"
	"testing"

	"github.com/macrokit/vfi/compute"
)

// stepState allocates solver-shaped buffers, runs the setup kernels, and
// applies warm maximization sweeps so V0 holds a non-trivial concave
// iterate. The returned buffers are freed via t.Cleanup.
func stepState(t *testing.T, p Params, warm int) (ctx *Context, d_K, d_Z, d_P, d_V0, d_V, d_G DevicePtr) {
	t.Helper()
	ctx = NewContext()
	n := p.States()

	var err error
	alloc := func(size int) DevicePtr {
		d, e := ctx.Malloc(size)
		if e != nil && err == nil {
			err = e
		}
		t.Cleanup(func() { ctx.Free(d) })
		return d
	}
	d_Z = alloc(p.NZ * 8)
	d_P = alloc(p.NZ * p.NZ * 8)
	d_K = alloc(p.NK * 8)
	d_V0 = alloc(n * 8)
	d_V = alloc(n * 8)
	d_G = alloc(n * 4)
	if err != nil {
		t.Fatalf("Malloc failed: %v", err)
	}

	if err := ctx.AR1(p, d_Z, d_P); err != nil {
		t.Fatalf("AR1 failed: %v", err)
	}
	if err := ctx.CapitalGrid(p, d_Z, d_K); err != nil {
		t.Fatalf("CapitalGrid failed: %v", err)
	}
	if err := ctx.InitValue(p, d_Z, d_V0); err != nil {
		t.Fatalf("InitValue failed: %v", err)
	}

	for i := 0; i < warm; i++ {
		if err := ctx.Step(p, RuleMaximize, d_K, d_Z, d_P, d_V0, d_V, d_G); err != nil {
			t.Fatalf("warm sweep %d failed: %v", i, err)
		}
		d_V0, d_V = d_V, d_V0
	}
	return ctx, d_K, d_Z, d_P, d_V0, d_V, d_G
}

// Test one maximization sweep against an exhaustive host search
func TestStepMatchesBruteForce(t *testing.T) {
	p := DefaultParams()
	p.NK = 40
	p.NZ = 3

	ctx, d_K, d_Z, d_P, d_V0, d_V, d_G := stepState(t, p, 5)

	if err := ctx.Step(p, RuleMaximize, d_K, d_Z, d_P, d_V0, d_V, d_G); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	K := d_K.Float64()[:p.NK]
	Z := d_Z.Float64()[:p.NZ]
	P := d_P.Float64()[:p.NZ*p.NZ]
	V0 := d_V0.Float64()[:p.States()]
	V := d_V.Float64()[:p.States()]
	G := d_G.Int32()[:p.States()]

	for ik := 0; ik < p.NK; ik++ {
		for jz := 0; jz < p.NZ; jz++ {
			ydepK := compute.Resources(K[ik], Z[jz], p.Alpha, p.Delta)
			prow := P[jz*p.NZ : (jz+1)*p.NZ]

			// Exhaustive scan over the affordable choices, first argmax wins
			wmax, kpmax := 0.0, -1
			for kp := 0; kp < p.NK && K[kp] <= ydepK; kp++ {
				w := compute.StateValue(ydepK, p.Eta, p.Beta, kp, K, prow, V0)
				if kpmax < 0 || w > wmax {
					wmax, kpmax = w, kp
				}
			}
			if kpmax < 0 {
				t.Fatalf("No affordable choice at ik=%d jz=%d", ik, jz)
			}

			idx := ik*p.NZ + jz
			if V[idx] != wmax {
				t.Errorf("V(%d,%d) = %v, brute force %v", ik, jz, V[idx], wmax)
			}
			if int(G[idx]) != kpmax {
				t.Errorf("G(%d,%d) = %d, brute force %d", ik, jz, G[idx], kpmax)
			}
		}
	}
}

// Test that bisection and grid search agree exactly on solver state.
// The objective is strictly concave in the capital choice once the
// iterate is concave, so both searches land on the same index.
func TestStepBisectionMatchesGrid(t *testing.T) {
	p := DefaultParams()
	p.NK = 257
	p.NZ = 4

	ctx, d_K, d_Z, d_P, d_V0, _, _ := stepState(t, p, 5)
	n := p.States()

	d_Vg, _ := ctx.Malloc(n * 8)
	d_Vb, _ := ctx.Malloc(n * 8)
	d_Gg, _ := ctx.Malloc(n * 4)
	d_Gb, _ := ctx.Malloc(n * 4)
	defer ctx.Free(d_Vg)
	defer ctx.Free(d_Vb)
	defer ctx.Free(d_Gg)
	defer ctx.Free(d_Gb)

	pg := p
	pg.MaxType = MaxGrid
	if err := ctx.Step(pg, RuleMaximize, d_K, d_Z, d_P, d_V0, d_Vg, d_Gg); err != nil {
		t.Fatalf("grid Step failed: %v", err)
	}

	pb := p
	pb.MaxType = MaxBisection
	if err := ctx.Step(pb, RuleMaximize, d_K, d_Z, d_P, d_V0, d_Vb, d_Gb); err != nil {
		t.Fatalf("bisection Step failed: %v", err)
	}

	Vg := d_Vg.Float64()[:n]
	Vb := d_Vb.Float64()[:n]
	Gg := d_Gg.Int32()[:n]
	Gb := d_Gb.Int32()[:n]
	for i := 0; i < n; i++ {
		if Vg[i] != Vb[i] || Gg[i] != Gb[i] {
			t.Fatalf("Mismatch at state %d: grid (%v, %d), bisection (%v, %d)",
				i, Vg[i], Gg[i], Vb[i], Gb[i])
		}
	}
}

// Test that a policy sweep with the maximizer's own policy reproduces the
// maximizer's values bit for bit. Howard acceleration depends on this:
// both paths price the policy through the same evaluation.
func TestStepPolicyReproducesMaximize(t *testing.T) {
	p := DefaultParams()
	p.NK = 65
	p.NZ = 4

	ctx, d_K, d_Z, d_P, d_V0, d_V, d_G := stepState(t, p, 3)
	n := p.States()

	if err := ctx.Step(p, RuleMaximize, d_K, d_Z, d_P, d_V0, d_V, d_G); err != nil {
		t.Fatalf("maximize Step failed: %v", err)
	}

	d_V2, _ := ctx.Malloc(n * 8)
	defer ctx.Free(d_V2)

	if err := ctx.Step(p, RulePolicy, d_K, d_Z, d_P, d_V0, d_V2, d_G); err != nil {
		t.Fatalf("policy Step failed: %v", err)
	}

	V := d_V.Float64()[:n]
	V2 := d_V2.Float64()[:n]
	for i := 0; i < n; i++ {
		if V[i] != V2[i] {
			t.Fatalf("Policy sweep diverged at state %d: %v vs %v", i, V[i], V2[i])
		}
	}
}

// Test buffer size validation on the sweep
func TestStepBufferChecks(t *testing.T) {
	p := DefaultParams()
	p.NK = 16
	p.NZ = 2

	ctx, d_K, d_Z, d_P, d_V0, d_V, d_G := stepState(t, p, 0)

	d_small, _ := ctx.Malloc(8)
	defer ctx.Free(d_small)

	cases := []struct {
		name                    string
		dK, dZ, dP, dV0, dV, dG DevicePtr
	}{
		{"K", d_small, d_Z, d_P, d_V0, d_V, d_G},
		{"Z", d_K, d_small, d_P, d_V0, d_V, d_G},
		{"P", d_K, d_Z, d_small, d_V0, d_V, d_G},
		{"V0", d_K, d_Z, d_P, d_small, d_V, d_G},
		{"V", d_K, d_Z, d_P, d_V0, d_small, d_G},
		{"G", d_K, d_Z, d_P, d_V0, d_V, d_small},
	}
	for _, tc := range cases {
		if err := ctx.Step(p, RuleMaximize, tc.dK, tc.dZ, tc.dP, tc.dV0, tc.dV, tc.dG); err != ErrBufferTooSmall {
			t.Errorf("short %s buffer: expected ErrBufferTooSmall, got %v", tc.name, err)
		}
	}
}

// Benchmark one Bellman sweep at production grid sizes
func BenchmarkStep(b *testing.B) {
	for _, nk := range []int{256, 1024, 4096} {
		p := DefaultParams()
		p.NK = nk

		ctx := NewContext()
		n := p.States()
		d_Z, _ := ctx.Malloc(p.NZ * 8)
		d_P, _ := ctx.Malloc(p.NZ * p.NZ * 8)
		d_K, _ := ctx.Malloc(p.NK * 8)
		d_V0, _ := ctx.Malloc(n * 8)
		d_V, _ := ctx.Malloc(n * 8)
		d_G, _ := ctx.Malloc(n * 4)

		ctx.AR1(p, d_Z, d_P)
		ctx.CapitalGrid(p, d_Z, d_K)
		ctx.InitValue(p, d_Z, d_V0)

		for _, mt := range []MaxType{MaxGrid, MaxBisection} {
			p.MaxType = mt
			b.Run(fmt.Sprintf("%s_%d", mt, nk), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					ctx.Step(p, RuleMaximize, d_K, d_Z, d_P, d_V0, d_V, d_G)
				}
			})
		}

		ctx.Free(d_G)
		ctx.Free(d_V)
		ctx.Free(d_V0)
		ctx.Free(d_K)
		ctx.Free(d_P)
		ctx.Free(d_Z)
	}
}
