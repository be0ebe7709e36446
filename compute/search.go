// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

// BinaryVal returns the smallest index i such that X[i] >= x, where X is
// sorted ascending. Out-of-range values clamp: x below the grid returns 0
// and x above the grid returns len(X)-1, so the result is always a valid
// index. For in-range x the result is the unique i with X[i-1] < x <= X[i].
func BinaryVal(x float64, X []float64) int {
	n := len(X)
	if x <= X[0] {
		return 0
	}
	if x > X[n-1] {
		return n - 1
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		switch {
		case X[mid] == x:
			return mid
		case X[mid] > x:
			hi = mid
		default:
			lo = mid
		}
	}
	return hi
}

// FeasibleUpper returns the largest index kp with K[kp] <= ydepK, the upper
// bound of the feasible choice set for next-period capital (consumption
// stays nonnegative). Returns -1 if even K[0] exceeds ydepK; grids built by
// the parent package never produce that case because resources at the
// smallest grid point always cover it.
func FeasibleUpper(ydepK float64, K []float64) int {
	khi := BinaryVal(ydepK, K)
	if K[khi] > ydepK {
		khi--
	}
	return khi
}

// GridMax maximizes the Bellman objective by exhaustive search over the
// feasible bracket K[klo:klo+nksub] and returns the maximum together with
// the chosen grid index. Ties resolve to the lowest index. Works for any
// shape of v0; use BinaryMax only when v0 is known to be concave in
// capital.
func GridMax(klo, nksub int, ydepK, eta, beta float64, K, prow, v0 []float64) (float64, int) {
	wmax := StateValue(ydepK, eta, beta, klo, K, prow, v0)
	windmax := 0
	for l := 1; l < nksub; l++ {
		w := StateValue(ydepK, eta, beta, klo+l, K, prow, v0)
		if w > wmax {
			wmax = w
			windmax = l
		}
	}
	return wmax, klo + windmax
}

// BinaryMax maximizes the Bellman objective over the feasible bracket
// K[klo:klo+nksub] by concavity bisection, following Heer and Maussner
// (2005, p. 26): evaluate the objective at the two midpoints of the
// bracket, discard the half that cannot contain the maximum, and repeat
// until three candidates remain. O(log nksub) evaluations instead of
// GridMax's O(nksub).
//
// Requires v0 concave in its capital dimension; on a non-concave v0 the
// discarded half can contain the true maximum and the result is only a
// local one. Returns the maximum and the chosen grid index.
func BinaryMax(klo, nksub int, ydepK, eta, beta float64, K, prow, v0 []float64) (float64, int) {
	kslo := 0
	kshi := nksub - 1

	switch {
	case nksub > 3:
		var w1, w2 float64
		for kshi-kslo > 2 {
			mid1 := (kslo + kshi) / 2
			mid2 := mid1 + 1
			w1 = StateValue(ydepK, eta, beta, klo+mid1, K, prow, v0)
			w2 = StateValue(ydepK, eta, beta, klo+mid2, K, prow, v0)
			if w2 > w1 {
				kslo = mid1
			} else {
				kshi = mid2
			}
		}
		// Three candidates remain and the last midpoint pair covers two
		// of them, so only the third needs a fresh evaluation.
		if w2 > w1 {
			w1 = StateValue(ydepK, eta, beta, klo+kshi, K, prow, v0)
			if w2 > w1 {
				return w2, klo + kslo + 1
			}
			return w1, klo + kshi
		}
		w2 = StateValue(ydepK, eta, beta, klo+kslo, K, prow, v0)
		if w2 > w1 {
			return w2, klo + kslo
		}
		return w1, klo + kslo + 1

	case nksub == 3:
		w1 := StateValue(ydepK, eta, beta, klo, K, prow, v0)
		w2 := StateValue(ydepK, eta, beta, klo+1, K, prow, v0)
		w3 := StateValue(ydepK, eta, beta, klo+2, K, prow, v0)
		w, kp := w1, klo
		if w2 > w {
			w, kp = w2, klo+1
		}
		if w3 > w {
			w, kp = w3, klo+2
		}
		return w, kp

	default:
		w1 := StateValue(ydepK, eta, beta, klo+kslo, K, prow, v0)
		w2 := StateValue(ydepK, eta, beta, klo+kshi, K, prow, v0)
		if w2 > w1 {
			return w2, klo + kshi
		}
		return w1, klo + kslo
	}
}
