// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tauchen prints the discretized productivity process for a given
// AR(1) calibration: the grid in levels and the transition matrix.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/macrokit/vfi"
)

func main() {
	var (
		mu     = flag.Float64("mu", 0, "Intercept of the log process")
		rho    = flag.Float64("rho", 0.95, "Persistence")
		sigma  = flag.Float64("sigma", 0.005, "Innovation standard deviation")
		lambda = flag.Float64("lambda", 3, "Grid half-width in unconditional std deviations")
		n      = flag.Int("n", 9, "Number of states")
	)
	flag.Parse()

	p := vfi.DefaultParams()
	p.Mu = *mu
	p.Rho = *rho
	p.Sigma = *sigma
	p.Lambda = *lambda
	p.NZ = *n
	if err := p.Validate(); err != nil {
		log.Fatalf("Bad process parameters: %v", err)
	}

	ctx := vfi.NewContext()
	d_Z, err := ctx.Malloc(p.NZ * 8)
	if err != nil {
		log.Fatalf("Malloc failed: %v", err)
	}
	defer ctx.Free(d_Z)
	d_P, err := ctx.Malloc(p.NZ * p.NZ * 8)
	if err != nil {
		log.Fatalf("Malloc failed: %v", err)
	}
	defer ctx.Free(d_P)

	if err := ctx.AR1(p, d_Z, d_P); err != nil {
		log.Fatalf("Discretization failed: %v", err)
	}

	Z := d_Z.Float64()[:p.NZ]
	fmt.Printf("log z' = %g + %g log z + eps,  eps ~ N(0, %g^2),  %d states\n\n",
		p.Mu, p.Rho, p.Sigma, p.NZ)
	fmt.Println("z grid:")
	for i, z := range Z {
		fmt.Printf("  [%2d] %.6f\n", i, z)
	}

	fmt.Println("\nTransition matrix (rows are origins):")
	P := vfi.DenseView(d_P, p.NZ, p.NZ)
	for i := 0; i < p.NZ; i++ {
		fmt.Print(" ")
		for j := 0; j < p.NZ; j++ {
			fmt.Printf(" %8.6f", P.At(i, j))
		}
		fmt.Println()
	}
}
