// Copyright ©2025 The vfi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfi

import (
	"gonum.org/v1/gonum/mat"
)

// Matrix views over device buffers. Solver state is stored flat and
// row-major; these wrappers expose the 2D shape without copying, so a
// value function or transition matrix can be handed to gonum routines or
// inspected row by row. Mutating the returned matrix mutates device
// memory.

// DenseView wraps the first rows*cols float64 elements of a device buffer
// as a gonum matrix in row-major order. It panics if the buffer is too
// small, matching the slice-view methods.
func DenseView(d DevicePtr, rows, cols int) *mat.Dense {
	return mat.NewDense(rows, cols, d.Float64()[:rows*cols])
}

// IntGrid is a 2D row-major view over int32 data, used for the capital
// policy function G where entry (i, j) is a capital grid index. gonum has
// no integer matrix type, so this carries the shape itself.
type IntGrid struct {
	rows, cols int
	data       []int32
}

// IntGridView wraps the first rows*cols int32 elements of a device buffer.
func IntGridView(d DevicePtr, rows, cols int) *IntGrid {
	return &IntGrid{rows: rows, cols: cols, data: d.Int32()[:rows*cols]}
}

// NewIntGrid wraps an existing int32 slice, which must hold rows*cols
// elements.
func NewIntGrid(rows, cols int, data []int32) *IntGrid {
	if len(data) != rows*cols {
		panic("vfi: IntGrid dimension mismatch")
	}
	return &IntGrid{rows: rows, cols: cols, data: data}
}

// Dims returns the dimensions of the grid.
func (g *IntGrid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// At returns the entry at row i, column j.
func (g *IntGrid) At(i, j int) int {
	if i < 0 || i >= g.rows || j < 0 || j >= g.cols {
		panic("vfi: IntGrid index out of range")
	}
	return int(g.data[i*g.cols+j])
}

// RawRow returns the backing slice for row i. The slice aliases the grid's
// data.
func (g *IntGrid) RawRow(i int) []int32 {
	if i < 0 || i >= g.rows {
		panic("vfi: IntGrid index out of range")
	}
	return g.data[i*g.cols : (i+1)*g.cols]
}
