// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal is the standard normal used for Tauchen's CDF binning.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// TauchenGrid fills Z with the level grid of a Tauchen (1986) discretization
// of the log-AR(1) process log z' = mu + rho*log z + eps, eps ~ N(0, sigma^2).
//
// The grid places len(Z) equally spaced points in log space on
// [mu_z - lambda*sigma_z, mu_z + lambda*sigma_z], where mu_z and sigma_z are
// the unconditional mean and standard deviation, and exponentiates them, so
// Z holds strictly increasing positive levels.
//
// A single-point grid degenerates to the unconditional mean: Z[0] =
// exp(mu_z). Requires |rho| < 1.
func TauchenGrid(mu, rho, sigma, lambda float64, Z []float64) {
	nz := len(Z)
	muZ := mu / (1 - rho)
	if nz == 1 {
		Z[0] = math.Exp(muZ)
		return
	}
	sigmaZ := sigma / math.Sqrt(1-rho*rho)
	zmin := muZ - lambda*sigmaZ
	zmax := muZ + lambda*sigmaZ
	zstep := (zmax - zmin) / float64(nz-1)
	for i := range Z {
		Z[i] = math.Exp(zmin + zstep*float64(i))
	}
}

// TauchenRow fills row i of the transition matrix P (row-major, len(Z)
// columns) with the conditional distribution of next-period productivity
// given current state i. Z must be a grid produced by TauchenGrid.
//
// Interior columns are differences of normal CDFs evaluated at the
// midpoints between consecutive log-grid points, centered on the
// conditional mean mu + rho*log(Z[i]). The first column absorbs the left
// tail. The last column is never integrated: it starts from the complement
// of the first column and has every interior mass subtracted from it, so
// the row sums to one by construction rather than within
// numerical-integration error.
//
// Rows are independent, so callers may fill them concurrently.
func TauchenRow(i int, mu, rho, sigma float64, Z, row []float64) {
	nz := len(Z)
	if nz == 1 {
		row[0] = 1
		return
	}
	zstep := (math.Log(Z[nz-1]) - math.Log(Z[0])) / float64(nz-1)
	half := 0.5 * zstep / sigma
	cond := mu + rho*math.Log(Z[i])

	row[0] = stdNormal.CDF((math.Log(Z[0])-cond)/sigma + half)
	row[nz-1] = 1 - row[0]
	for j := 1; j < nz-1; j++ {
		norm := (math.Log(Z[j]) - cond) / sigma
		row[j] = stdNormal.CDF(norm+half) - stdNormal.CDF(norm-half)
		row[nz-1] -= row[j]
	}
}
