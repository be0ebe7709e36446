package vfi

import (
	"math"

	"github.com/macrokit/vfi/compute"
)

// CapitalGrid fills dK with nk equally spaced capital values spanning
// [0.95*k*(Z[0]), 1.05*k*(Z[nz-1])], where k*(z) is the deterministic
// steady state. dZ must already hold the productivity grid from AR1.
//
// The 5% margins keep the ergodic set inside the grid and guarantee a
// nonempty feasible choice set at every state: resources at the smallest
// grid point always cover the smallest grid point, since the marginal
// product at 0.95*k* exceeds depreciation.
func (ctx *Context) CapitalGrid(p Params, dZ, dK DevicePtr) error {
	nk, nz := p.NK, p.NZ
	if nk < 2 {
		return NewInvalidArgError("CapitalGrid", "nk must be at least 2")
	}
	if dZ.Size() < nz*8 || dK.Size() < nk*8 {
		return ErrBufferTooSmall
	}

	Z := dZ.Float64()[:nz]
	K := dK.Float64()[:nk]

	kmin := 0.95 * compute.SteadyStateCapital(Z[0], p.Alpha, p.Beta, p.Delta)
	kmax := 1.05 * compute.SteadyStateCapital(Z[nz-1], p.Alpha, p.Beta, p.Delta)
	kstep := (kmax - kmin) / float64(nk-1)

	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < nk {
			K[idx] = kmin + kstep*float64(idx)
		}
	})

	grid, block := launchConfig(nk)
	if err := ctx.LaunchFunc(kernel, grid, block); err != nil {
		return err
	}
	return ctx.Synchronize()
}

// InitValue seeds dV with the value-function iterate the solver starts
// from: for productivity state j, every capital row gets the utility of
// steady-state consumption u(Z[j]*k*^alpha - delta*k*) at k* = k*(Z[j]).
// Flat-in-capital is deliberate; it is concave (weakly) in capital, so the
// bisection maximizer is valid from the first sweep.
//
// dV is laid out row-major nk x nz, so the per-state fill strides by nz.
// One kernel thread handles each productivity state.
func (ctx *Context) InitValue(p Params, dZ, dV DevicePtr) error {
	nk, nz := p.NK, p.NZ
	if dZ.Size() < nz*8 || dV.Size() < nk*nz*8 {
		return ErrBufferTooSmall
	}

	Z := dZ.Float64()[:nz]
	V := dV.Float64()[:nk*nz]

	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		j := tid.Global()
		if j >= nz {
			return
		}
		kj := compute.SteadyStateCapital(Z[j], p.Alpha, p.Beta, p.Delta)
		vj := compute.CRRA(Z[j]*math.Pow(kj, p.Alpha)-p.Delta*kj, p.Eta)
		for ik := 0; ik < nk; ik++ {
			V[ik*nz+j] = vj
		}
	})

	grid, block := launchConfig(nz)
	if err := ctx.LaunchFunc(kernel, grid, block); err != nil {
		return err
	}
	return ctx.Synchronize()
}
