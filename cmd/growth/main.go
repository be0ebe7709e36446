// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command growth solves the stochastic growth model from the command line.
//
// Parameters come from three layers, later ones winning: built-in defaults,
// a JSON parameter file (-params, or VFI_PARAMS from the environment or a
// .env file), and individual flags.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/macrokit/vfi"
)

func main() {
	// A .env file supplies environment defaults for containerized runs
	_ = godotenv.Load()

	var (
		paramsFile = flag.String("params", os.Getenv("VFI_PARAMS"), "JSON parameter file")
		session    = flag.String("log", os.Getenv("VFI_SESSION"), "Session name for run logging, empty disables")
		nk         = flag.Int("nk", 0, "Capital grid points")
		nz         = flag.Int("nz", 0, "Productivity states")
		tol        = flag.Float64("tol", 0, "Convergence tolerance")
		maxIter    = flag.Int("maxiter", 0, "Iteration cap")
		howard     = flag.Int("howard", 0, "Sweeps per maximization, 1 disables acceleration")
		maxName    = flag.String("max", "", "Maximization strategy: grid or bisection")
		verbose    = flag.Bool("v", false, "Print the stationary policy per productivity state")
	)
	flag.Parse()

	p := vfi.DefaultParams()
	if *paramsFile != "" {
		data, err := os.ReadFile(*paramsFile)
		if err != nil {
			log.Fatalf("Failed to read parameter file: %v", err)
		}
		if err := json.Unmarshal(data, &p); err != nil {
			log.Fatalf("Failed to parse parameter file: %v", err)
		}
	}

	// Flags override the file, but only the ones actually given
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nk":
			p.NK = *nk
		case "nz":
			p.NZ = *nz
		case "tol":
			p.Tol = *tol
		case "maxiter":
			p.MaxIter = *maxIter
		case "howard":
			p.Howard = *howard
		case "max":
			if err := p.MaxType.UnmarshalText([]byte(*maxName)); err != nil {
				log.Fatalf("Bad -max value: %v", err)
			}
		}
	})

	fmt.Println("=== Stochastic Growth Model ===")
	fmt.Printf("Date: %s\n", time.Now().Format(time.RFC3339))
	if v, _ := vfi.Version(); v != "" {
		fmt.Printf("Version: %s\n", v)
	}
	fmt.Printf("Device: %s\n", vfi.GetDevice().Name)
	fmt.Printf("CPU: %s\n", vfi.GetCPUInfo())
	fmt.Printf("States: %d x %d, %s search, howard %d\n", p.NK, p.NZ, p.MaxType, p.Howard)

	if *session != "" {
		if err := vfi.InitRunLogger(*session); err != nil {
			log.Fatalf("Failed to initialize run logger: %v", err)
		}
	}

	solver, err := vfi.NewSolver(p)
	if err != nil {
		log.Fatalf("Failed to construct solver: %v", err)
	}
	defer solver.Close()

	sol, err := solver.Solve()
	if err != nil {
		if *session != "" {
			vfi.LogSolveError("growth", p, err)
		}
		log.Fatalf("Solve failed: %v", err)
	}
	if *session != "" {
		vfi.LogSolution("growth", sol)
	}

	fmt.Printf("\nIterations: %d\n", sol.Iterations)
	fmt.Printf("Sup-norm diff: %.3e\n", sol.MaxDiff)
	fmt.Printf("Elapsed: %v\n", sol.Elapsed)
	if sol.Converged {
		fmt.Println("Converged!")
	} else {
		fmt.Println("NOT converged within iteration budget")
	}

	// Stationary capital per productivity state
	fmt.Println("\nStationary policy:")
	for j := 0; j < p.NZ; j++ {
		fps := sol.FixedPoints(j)
		if len(fps) == 0 {
			fmt.Printf("  z[%d] = %.4f: no fixed point on grid\n", j, sol.Z[j])
			continue
		}
		lo, hi := sol.K[fps[0]], sol.K[fps[len(fps)-1]]
		fmt.Printf("  z[%d] = %.4f: k in [%.4f, %.4f]\n", j, sol.Z[j], lo, hi)
	}

	if *verbose {
		levels := sol.PolicyLevels()
		for j := 0; j < p.NZ; j++ {
			fmt.Printf("\nPolicy k'(k) at z[%d] = %.4f:\n", j, sol.Z[j])
			for i := 0; i < p.NK; i++ {
				fmt.Printf("  %.6f -> %.6f\n", sol.K[i], levels.At(i, j))
			}
		}
	}

	if *session != "" {
		if err := vfi.PrintRunSummary(); err != nil {
			log.Printf("Run summary unavailable: %v", err)
		}
	}
}
