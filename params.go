package vfi

import (
	"fmt"
)

// MaxType selects the strategy used to maximize the Bellman objective over
// next-period capital.
type MaxType int

const (
	// MaxGrid searches every point of the feasible bracket. Robust to any
	// shape of the value function.
	MaxGrid MaxType = iota

	// MaxBisection bisects the bracket assuming the value function is
	// concave in capital. O(log nk) objective evaluations per state
	// instead of O(nk).
	MaxBisection
)

// String returns the flag spelling of the maximization type.
func (m MaxType) String() string {
	switch m {
	case MaxGrid:
		return "grid"
	case MaxBisection:
		return "bisection"
	default:
		return fmt.Sprintf("MaxType(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler so the type round-trips
// through JSON configs and flags by name.
func (m MaxType) MarshalText() ([]byte, error) {
	switch m {
	case MaxGrid, MaxBisection:
		return []byte(m.String()), nil
	}
	return nil, NewInvalidArgError("MaxType", fmt.Sprintf("unknown maximization type %d", int(m)))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MaxType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "grid", "g":
		*m = MaxGrid
	case "bisection", "b":
		*m = MaxBisection
	default:
		return NewInvalidArgError("MaxType", fmt.Sprintf("unknown maximization type %q", text))
	}
	return nil
}

// Params collects the economic and computational parameters of the model.
// The zero value is not usable; start from DefaultParams.
type Params struct {
	// Preferences and technology.
	Eta   float64 `json:"eta"`   // CRRA coefficient, positive and != 1
	Beta  float64 `json:"beta"`  // discount factor, in (0,1)
	Alpha float64 `json:"alpha"` // capital share, in (0,1)
	Delta float64 `json:"delta"` // depreciation rate, in [0,1]

	// Productivity process log z' = Mu + Rho*log z + eps, eps ~ N(0, Sigma^2).
	Mu     float64 `json:"mu"`
	Rho    float64 `json:"rho"`    // persistence, in (-1,1)
	Sigma  float64 `json:"sigma"`  // innovation standard deviation
	Lambda float64 `json:"lambda"` // grid half-width in unconditional std deviations

	// Grid sizes.
	NK int `json:"nk"` // capital grid points, at least 2
	NZ int `json:"nz"` // productivity states, at least 1

	// Solver controls.
	Tol     float64 `json:"tol"`      // sup-norm convergence tolerance
	MaxIter int     `json:"max_iter"` // iteration cap
	MaxType MaxType `json:"max_type"` // maximization strategy
	Howard  int     `json:"howard"`   // sweeps per maximization; 1 disables acceleration
}

// DefaultParams returns the standard calibration: quarterly discounting,
// persistent low-variance productivity, and a 1024 x 4 state space solved
// by exhaustive search to 1e-8.
func DefaultParams() Params {
	return Params{
		Eta:     2,
		Beta:    0.984,
		Alpha:   0.35,
		Delta:   0.01,
		Mu:      0,
		Rho:     0.95,
		Sigma:   0.005,
		Lambda:  3,
		NK:      1024,
		NZ:      4,
		Tol:     1e-8,
		MaxIter: 10000,
		MaxType: MaxGrid,
		Howard:  1,
	}
}

// States returns the number of states nk*nz in the discretized problem.
func (p Params) States() int {
	return p.NK * p.NZ
}

// Validate reports the first parameter that makes the model ill-posed or
// the solver ill-defined. NewSolver calls it; components assume it passed.
func (p Params) Validate() error {
	switch {
	case p.Eta <= 0 || p.Eta == 1:
		// eta == 1 is log utility, which c^(1-eta)/(1-eta) cannot express.
		return NewInvalidArgError("Params", fmt.Sprintf("eta must be positive and not 1, got %v", p.Eta))
	case p.Beta <= 0 || p.Beta >= 1:
		return NewInvalidArgError("Params", fmt.Sprintf("beta must lie in (0,1), got %v", p.Beta))
	case p.Alpha <= 0 || p.Alpha >= 1:
		return NewInvalidArgError("Params", fmt.Sprintf("alpha must lie in (0,1), got %v", p.Alpha))
	case p.Delta < 0 || p.Delta > 1:
		return NewInvalidArgError("Params", fmt.Sprintf("delta must lie in [0,1], got %v", p.Delta))
	case p.Rho <= -1 || p.Rho >= 1:
		return NewInvalidArgError("Params", fmt.Sprintf("rho must lie in (-1,1), got %v", p.Rho))
	case p.NZ < 1:
		return NewInvalidArgError("Params", fmt.Sprintf("nz must be at least 1, got %d", p.NZ))
	case p.NZ > 1 && p.Sigma <= 0:
		return NewInvalidArgError("Params", fmt.Sprintf("sigma must be positive, got %v", p.Sigma))
	case p.NZ > 1 && p.Lambda <= 0:
		return NewInvalidArgError("Params", fmt.Sprintf("lambda must be positive, got %v", p.Lambda))
	case p.NK < 2:
		return NewInvalidArgError("Params", fmt.Sprintf("nk must be at least 2, got %d", p.NK))
	case p.Tol <= 0:
		return NewInvalidArgError("Params", fmt.Sprintf("tol must be positive, got %v", p.Tol))
	case p.MaxIter < 1:
		return NewInvalidArgError("Params", fmt.Sprintf("max_iter must be at least 1, got %d", p.MaxIter))
	case p.Howard < 1:
		return NewInvalidArgError("Params", fmt.Sprintf("howard must be at least 1, got %d", p.Howard))
	case p.MaxType != MaxGrid && p.MaxType != MaxBisection:
		return NewInvalidArgError("Params", fmt.Sprintf("unknown maximization type %d", int(p.MaxType)))
	case p.MaxType == MaxBisection && p.Howard > 1:
		// Policy sweeps need not preserve concavity of V in capital, and
		// the bisection maximizer is only correct on concave objectives.
		return NewInvalidArgError("Params", "bisection maximization cannot be combined with Howard acceleration")
	}
	return nil
}
