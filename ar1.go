package vfi

import (
	"github.com/macrokit/vfi/compute"
)

// AR1 fills dZ with the discretized productivity grid (nz float64 levels,
// strictly increasing) and dP with the nz x nz transition matrix, row-major
// with origin states as rows. Rows sum to one by construction.
//
// The grid fill is a cheap sequential pass; the transition rows, each
// costing O(nz) normal CDF evaluations, are computed by a kernel with one
// thread per origin state. AR1 synchronizes before returning, so both
// buffers are ready for the grid and sweep stages.
//
// p must satisfy Params.Validate apart from the capital-grid fields, which
// AR1 does not read.
func (ctx *Context) AR1(p Params, dZ, dP DevicePtr) error {
	nz := p.NZ
	if nz < 1 {
		return NewInvalidArgError("AR1", "nz must be at least 1")
	}
	if dZ.Size() < nz*8 || dP.Size() < nz*nz*8 {
		return ErrBufferTooSmall
	}

	Z := dZ.Float64()[:nz]
	P := dP.Float64()[:nz*nz]

	compute.TauchenGrid(p.Mu, p.Rho, p.Sigma, p.Lambda, Z)

	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		i := tid.Global()
		if i < nz {
			compute.TauchenRow(i, p.Mu, p.Rho, p.Sigma, Z, P[i*nz:(i+1)*nz])
		}
	})

	grid, block := launchConfig(nz)
	if err := ctx.LaunchFunc(kernel, grid, block); err != nil {
		return err
	}
	return ctx.Synchronize()
}
