package vfi

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Solver owns the device buffers for one model configuration. Construction
// validates the parameters and runs the setup kernels (productivity grid,
// transition matrix, capital grid, initial value function); Solve runs the
// iteration. A Solver may be solved repeatedly; each Solve restarts from
// the steady-state seed. Not safe for concurrent use.
type Solver struct {
	ctx *Context
	p   Params

	dZ  DevicePtr // productivity grid, nz
	dP  DevicePtr // transition matrix, nz x nz
	dK  DevicePtr // capital grid, nk
	dV0 DevicePtr // current value-function iterate, nk x nz
	dV  DevicePtr // updated value-function iterate, nk x nz
	dG  DevicePtr // policy indices, nk x nz

	closed bool
}

// Solution is the host-side result of a solve. The slices are copies;
// they remain valid after the Solver is closed.
type Solution struct {
	Params Params

	K []float64 // capital grid, nk
	Z []float64 // productivity grid, nz
	P []float64 // transition matrix, nz x nz row-major
	V []float64 // value function, nk x nz row-major
	G []int32   // policy as capital grid indices, nk x nz row-major

	Iterations int           // sweeps performed
	MaxDiff    float64       // sup-norm distance at the last sweep
	Converged  bool          // whether MaxDiff < Tol on a maximization sweep
	Elapsed    time.Duration // wall-clock solve time
}

// NewSolver validates p, allocates device buffers, and runs the setup
// kernels. The caller must Close the solver to release the buffers.
func NewSolver(p Params) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ctx := NewContext()
	s := &Solver{ctx: ctx, p: p}
	n := p.States()

	var err error
	alloc := func(size int) DevicePtr {
		var d DevicePtr
		if err == nil {
			d, err = ctx.Malloc(size)
		}
		return d
	}
	s.dZ = alloc(p.NZ * 8)
	s.dP = alloc(p.NZ * p.NZ * 8)
	s.dK = alloc(p.NK * 8)
	s.dV0 = alloc(n * 8)
	s.dV = alloc(n * 8)
	s.dG = alloc(n * 4)
	if err != nil {
		s.Close()
		return nil, err
	}

	if err := s.reset(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// reset runs the setup kernels: discretize the productivity process, place
// the capital grid, seed the value function.
func (s *Solver) reset() error {
	if err := s.ctx.AR1(s.p, s.dZ, s.dP); err != nil {
		return err
	}
	if err := s.ctx.CapitalGrid(s.p, s.dZ, s.dK); err != nil {
		return err
	}
	return s.ctx.InitValue(s.p, s.dZ, s.dV0)
}

// Params returns the parameters the solver was built with.
func (s *Solver) Params() Params {
	return s.p
}

// Close releases the solver's device buffers. Safe to call more than once.
func (s *Solver) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var first error
	for _, d := range []DevicePtr{s.dG, s.dV, s.dV0, s.dK, s.dP, s.dZ} {
		if d.ptr == nil {
			continue
		}
		if err := s.ctx.Free(d); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Solve iterates the Bellman operator until the sup-norm distance between
// successive value functions falls below Tol or MaxIter sweeps have run.
//
// With Howard > 1, a full maximization runs on the first sweep and then
// every Howard-th sweep; the sweeps between re-evaluate the objective at
// the stored policy, which costs one objective evaluation per state
// instead of a search. Convergence is only declared on maximization
// sweeps: a policy sweep measures the fixed point of the current policy,
// not of the Bellman operator.
//
// Running out of iterations is not an error; it is reported through
// Solution.Converged. A NaN in the convergence metric is an error, since
// it means the value function left the representable range.
func (s *Solver) Solve() (*Solution, error) {
	p := s.p
	n := p.States()
	start := time.Now()

	if err := s.reset(); err != nil {
		return nil, err
	}

	dV0, dV := s.dV0, s.dV
	var (
		diff       = math.Inf(1)
		iterations int
		converged  bool
	)
	for it := 0; it < p.MaxIter; it++ {
		rule := RuleMaximize
		if p.Howard > 1 && it%p.Howard != 0 {
			rule = RulePolicy
		}

		if err := s.ctx.Step(p, rule, s.dK, s.dZ, s.dP, dV0, dV, s.dG); err != nil {
			return nil, err
		}

		d, err := s.ctx.MaxAbsDiff(dV, dV0, n)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(d) {
			return nil, NewNumericalError("Solve", "value function is NaN", it)
		}

		dV0, dV = dV, dV0
		iterations = it + 1
		diff = d

		if rule == RuleMaximize && d < p.Tol {
			converged = true
			break
		}
	}
	// After the swap dV0 holds the most recent iterate.

	sol := &Solution{
		Params:     p,
		K:          make([]float64, p.NK),
		Z:          make([]float64, p.NZ),
		P:          make([]float64, p.NZ*p.NZ),
		V:          make([]float64, n),
		G:          make([]int32, n),
		Iterations: iterations,
		MaxDiff:    diff,
		Converged:  converged,
	}
	if err := s.ctx.Memcpy(sol.K, s.dK, p.NK*8, MemcpyDeviceToHost); err != nil {
		return nil, err
	}
	if err := s.ctx.Memcpy(sol.Z, s.dZ, p.NZ*8, MemcpyDeviceToHost); err != nil {
		return nil, err
	}
	if err := s.ctx.Memcpy(sol.P, s.dP, p.NZ*p.NZ*8, MemcpyDeviceToHost); err != nil {
		return nil, err
	}
	if err := s.ctx.Memcpy(sol.V, dV0, n*8, MemcpyDeviceToHost); err != nil {
		return nil, err
	}
	if err := s.ctx.Memcpy(sol.G, s.dG, n*4, MemcpyDeviceToHost); err != nil {
		return nil, err
	}
	sol.Elapsed = time.Since(start)

	return sol, nil
}

// ValueView returns the value function as an nk x nz matrix backed by
// Solution.V.
func (sol *Solution) ValueView() *mat.Dense {
	return mat.NewDense(sol.Params.NK, sol.Params.NZ, sol.V)
}

// TransitionView returns the transition matrix as an nz x nz matrix backed
// by Solution.P.
func (sol *Solution) TransitionView() *mat.Dense {
	return mat.NewDense(sol.Params.NZ, sol.Params.NZ, sol.P)
}

// PolicyView returns the policy indices as an nk x nz grid backed by
// Solution.G.
func (sol *Solution) PolicyView() *IntGrid {
	return NewIntGrid(sol.Params.NK, sol.Params.NZ, sol.G)
}

// PolicyLevels returns a freshly allocated nk x nz matrix of next-period
// capital levels K[G].
func (sol *Solution) PolicyLevels() *mat.Dense {
	nk, nz := sol.Params.NK, sol.Params.NZ
	out := mat.NewDense(nk, nz, nil)
	for ik := 0; ik < nk; ik++ {
		row := out.RawRowView(ik)
		for jz := 0; jz < nz; jz++ {
			row[jz] = sol.K[sol.G[ik*nz+jz]]
		}
	}
	return out
}

// FixedPoints returns the capital grid indices that the policy maps to
// themselves in productivity state j. These bracket the stochastic steady
// state of the policy in that state.
func (sol *Solution) FixedPoints(j int) []int {
	nz := sol.Params.NZ
	var pts []int
	for ik := 0; ik < sol.Params.NK; ik++ {
		if int(sol.G[ik*nz+j]) == ik {
			pts = append(pts, ik)
		}
	}
	return pts
}
