package vfi

import (
	"github.com/macrokit/vfi/compute"
)

// UpdateRule selects how a Bellman sweep updates each state.
type UpdateRule int

const (
	// RuleMaximize searches the feasible capital bracket for the best
	// choice and records both the value and the policy index.
	RuleMaximize UpdateRule = iota

	// RulePolicy re-evaluates the objective at the stored policy without
	// searching. Howard improvement sweeps use this; the policy buffer is
	// read-only under this rule.
	RulePolicy
)

// String returns the name of the update rule.
func (r UpdateRule) String() string {
	if r == RulePolicy {
		return "policy"
	}
	return "maximize"
}

// Step performs one Bellman sweep over the nk x nz state space, reading
// the current iterate dV0 and writing the updated one to dV. Under
// RuleMaximize it also writes the policy dG; under RulePolicy it reads dG
// and leaves it untouched. dV0 and dV must not alias.
//
// Each kernel thread owns one flat state index idx, with capital row
// idx/nz and productivity column idx%nz, so a block of consecutive threads
// reads consecutive rows of dV0 and the same transition rows. The feasible
// bracket [0, khi] caps next-period capital at current resources; grids
// built by CapitalGrid make it nonempty at every state.
//
// Step synchronizes before returning: dV is ready for the convergence
// check as soon as the call comes back.
func (ctx *Context) Step(p Params, rule UpdateRule, dK, dZ, dP, dV0, dV, dG DevicePtr) error {
	nk, nz := p.NK, p.NZ
	n := nk * nz
	if dK.Size() < nk*8 || dZ.Size() < nz*8 || dP.Size() < nz*nz*8 ||
		dV0.Size() < n*8 || dV.Size() < n*8 || dG.Size() < n*4 {
		return ErrBufferTooSmall
	}

	K := dK.Float64()[:nk]
	Z := dZ.Float64()[:nz]
	P := dP.Float64()[:nz*nz]
	V0 := dV0.Float64()[:n]
	V := dV.Float64()[:n]
	G := dG.Int32()[:n]

	eta, beta := p.Eta, p.Beta
	alpha, delta := p.Alpha, p.Delta
	maxtype := p.MaxType

	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx >= n {
			return
		}
		ik := idx / nz
		jz := idx % nz

		ydepK := compute.Resources(K[ik], Z[jz], alpha, delta)
		prow := P[jz*nz : (jz+1)*nz]

		if rule == RulePolicy {
			V[idx] = compute.StateValue(ydepK, eta, beta, int(G[idx]), K, prow, V0)
			return
		}

		nksub := compute.FeasibleUpper(ydepK, K) + 1

		var w float64
		var kp int
		if maxtype == MaxBisection {
			w, kp = compute.BinaryMax(0, nksub, ydepK, eta, beta, K, prow, V0)
		} else {
			w, kp = compute.GridMax(0, nksub, ydepK, eta, beta, K, prow, V0)
		}
		V[idx] = w
		G[idx] = int32(kp)
	})

	grid, block := launchConfig(n)
	if err := ctx.LaunchFunc(kernel, grid, block); err != nil {
		return err
	}
	return ctx.Synchronize()
}
