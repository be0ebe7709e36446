// Tolerance-based verification for floating-point comparisons.
package vfi

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for float64 comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// ULPTol is the maximum allowed difference in ULPs (Units in Last Place)
	ULPTol int

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool

	// CheckInf determines if Inf values should be considered equal
	CheckInf bool
}

// DefaultTolerance returns the default tolerance configuration, suitable
// for comparing value functions produced by different update orders.
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-10,
		RelTol:   1e-8,
		ULPTol:   4,
		CheckNaN: true,
		CheckInf: true,
	}
}

// StrictTolerance returns a strict configuration for results that should
// agree to rounding error, e.g. two maximization strategies evaluating the
// same objective.
func StrictTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-14,
		RelTol:   1e-12,
		ULPTol:   1,
		CheckNaN: true,
		CheckInf: true,
	}
}

// RelaxedTolerance returns a relaxed configuration for quantities that
// accumulate error over many iterations, e.g. a converged value function
// against a closed form.
func RelaxedTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-6,
		RelTol:   1e-5,
		ULPTol:   1 << 20,
		CheckNaN: true,
		CheckInf: true,
	}
}

// Float64NearEqual checks if two float64 values are equal within tolerance
func Float64NearEqual(a, b float64, tol ToleranceConfig) bool {
	// Handle special cases
	if tol.CheckNaN && math.IsNaN(a) && math.IsNaN(b) {
		return true
	}

	if tol.CheckInf {
		if math.IsInf(a, 1) && math.IsInf(b, 1) {
			return true
		}
		if math.IsInf(a, -1) && math.IsInf(b, -1) {
			return true
		}
	}

	// Check if exactly equal (handles ±0)
	if a == b {
		return true
	}

	diff := math.Abs(a - b)

	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(a), math.Abs(b))
	if diff <= larger*tol.RelTol {
		return true
	}

	if tol.ULPTol > 0 {
		if Float64ULPDiff(a, b) <= tol.ULPTol {
			return true
		}
	}

	return false
}

// Float64ULPDiff computes the difference in ULPs between two float64
// values. Values of different sign, and differences too large to matter,
// report MaxInt32.
func Float64ULPDiff(a, b float64) int {
	aBits := math.Float64bits(a)
	bBits := math.Float64bits(b)

	if (aBits^bBits)&(1<<63) != 0 {
		// Different signs, can't use simple subtraction
		return math.MaxInt32
	}

	var diff uint64
	if aBits > bBits {
		diff = aBits - bBits
	} else {
		diff = bBits - aBits
	}
	if diff > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(diff)
}

// VerificationResult summarizes an element-wise array comparison.
type VerificationResult struct {
	MaxAbsError float64
	MaxRelError float64
	MaxULPError int
	NumErrors   int
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// VerifyFloat64Array compares two float64 arrays and returns detailed results
func VerifyFloat64Array(expected, actual []float64, tol ToleranceConfig) VerificationResult {
	result := VerificationResult{
		TotalItems: len(expected),
		FirstError: -1,
	}

	if len(expected) != len(actual) {
		result.NumErrors = len(expected)
		return result
	}

	for i := range expected {
		if !Float64NearEqual(expected[i], actual[i], tol) {
			result.NumErrors++
			if result.FirstError == -1 {
				result.FirstError = i
			}

			absDiff := math.Abs(expected[i] - actual[i])
			if absDiff > result.MaxAbsError {
				result.MaxAbsError = absDiff
			}

			// Relative error (avoid division by zero)
			if expected[i] != 0 {
				relDiff := absDiff / math.Abs(expected[i])
				if relDiff > result.MaxRelError {
					result.MaxRelError = relDiff
				}
			}

			ulpDiff := Float64ULPDiff(expected[i], actual[i])
			if ulpDiff > result.MaxULPError {
				result.MaxULPError = ulpDiff
			}
		}
	}

	return result
}

// IsAcceptable returns true if the verification result is within tolerance
func (r VerificationResult) IsAcceptable(tol ToleranceConfig) bool {
	return r.NumErrors == 0 ||
		(r.MaxAbsError <= tol.AbsTol &&
			r.MaxRelError <= tol.RelTol &&
			r.MaxULPError <= tol.ULPTol)
}

// String formats the verification result for display
func (r VerificationResult) String() string {
	if r.NumErrors == 0 {
		return "PASS: All values match within tolerance"
	}

	errorRate := float64(r.NumErrors) / float64(r.TotalItems) * 100
	return fmt.Sprintf("FAIL: %d/%d values differ (%.2f%%)\n"+
		"  Max absolute error: %e\n"+
		"  Max relative error: %e\n"+
		"  Max ULP difference: %d\n"+
		"  First error at index: %d",
		r.NumErrors, r.TotalItems, errorRate,
		r.MaxAbsError, r.MaxRelError, r.MaxULPError,
		r.FirstError)
}
