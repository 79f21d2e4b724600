// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SVDRCond is the relative singular value cutoff for the minimum-norm
// fallback solve, used when the regularized system is not positive definite
const SVDRCond = 1e-12

// Tikhonov is a streaming ridge regression trainer for the OutputLayer.
// It accumulates sufficient statistics one sample at a time:
//
//	XX += x x^T    DX += d x^T
//
// and solves W = DX (XX + Beta I)^-1 on demand, so memory is independent
// of the number of samples.
type Tikhonov struct {
	Beta float64 `min:"0" desc:"ridge regularization strength -- 0 is ordinary least squares"`

	inDim  int
	outDim int
	xx     *mat.SymDense
	dx     *mat.Dense
	nSamp  int
}

// NewTikhonov returns a trainer for inDim reservoir values and outDim targets
func NewTikhonov(inDim, outDim int, beta float64) (*Tikhonov, error) {
	if inDim <= 0 || outDim <= 0 {
		return nil, errors.Errorf("esn.NewTikhonov: dimensions must be positive, got in %d out %d", inDim, outDim)
	}
	if beta < 0 {
		return nil, errors.Errorf("esn.NewTikhonov: beta must be non-negative, got %g", beta)
	}
	tk := &Tikhonov{Beta: beta, inDim: inDim, outDim: outDim}
	tk.ResetValue()
	return tk, nil
}

func (tk *Tikhonov) InDim() int  { return tk.inDim }
func (tk *Tikhonov) OutDim() int { return tk.outDim }

// NSamples returns the number of samples accumulated since the last reset
func (tk *Tikhonov) NSamples() int { return tk.nSamp }

// ResetValue zeros the accumulated statistics
func (tk *Tikhonov) ResetValue() {
	tk.xx = mat.NewSymDense(tk.inDim, nil)
	tk.dx = mat.NewDense(tk.outDim, tk.inDim, nil)
	tk.nSamp = 0
}

// Accumulate adds one (state, target) sample
func (tk *Tikhonov) Accumulate(x, d []float64) error {
	if err := checkLen(x, tk.inDim, "Tikhonov state"); err != nil {
		return err
	}
	if err := checkLen(d, tk.outDim, "Tikhonov target"); err != nil {
		return err
	}
	xv := mat.NewVecDense(len(x), x)
	tk.xx.SymRankOne(tk.xx, 1, xv)
	tk.dx.RankOne(tk.dx, 1, mat.NewVecDense(len(d), d), xv)
	tk.nSamp++
	return nil
}

// Solve returns the OutDim x InDim readout W = DX (XX + Beta I)^-1.
// The symmetric system is solved by Cholesky; when it is not positive
// definite (Beta 0 with too few or collinear samples) the minimum-norm
// least squares solution from the SVD is returned instead.  With no
// accumulated signal the result is all zeros.
func (tk *Tikhonov) Solve() (*mat.Dense, error) {
	a := mat.NewSymDense(tk.inDim, nil)
	a.CopySym(tk.xx)
	for i := 0; i < tk.inDim; i++ {
		a.SetSym(i, i, a.At(i, i)+tk.Beta)
	}
	// W A = DX  <=>  A W^T = DX^T, as A is symmetric
	var wt mat.Dense
	var ch mat.Cholesky
	if ch.Factorize(a) {
		if err := ch.SolveTo(&wt, tk.dx.T()); err == nil {
			return mat.DenseCopyOf(wt.T()), nil
		}
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errors.New("esn.Tikhonov.Solve: SVD did not converge")
	}
	rank := svd.Rank(SVDRCond)
	if rank == 0 {
		return mat.NewDense(tk.outDim, tk.inDim, nil), nil
	}
	svd.SolveTo(&wt, tk.dx.T(), rank)
	return mat.DenseCopyOf(wt.T()), nil
}

// Info returns a one-line description of the trainer
func (tk *Tikhonov) Info() string {
	return fmt.Sprintf("Tikhonov: in: %d\t out: %d\t beta: %g\t samples: %d", tk.inDim, tk.outDim, tk.Beta, tk.nSamp)
}
