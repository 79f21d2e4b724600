// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// OutputLayer is the linear readout y = W x.  W is the only trained part of
// the network, and is set from a Tikhonov solve or a weights file.
type OutputLayer struct {
	Wts *mat.Dense `view:"-" desc:"OutDim x InDim readout weights -- nil until set"`

	inDim  int
	outDim int
}

// NewOutputLayer returns an untrained readout from inDim reservoir values to outDim outputs
func NewOutputLayer(inDim, outDim int) (*OutputLayer, error) {
	if inDim <= 0 || outDim <= 0 {
		return nil, errors.Errorf("esn.NewOutputLayer: dimensions must be positive, got in %d out %d", inDim, outDim)
	}
	return &OutputLayer{inDim: inDim, outDim: outDim}, nil
}

func (ol *OutputLayer) InDim() int  { return ol.inDim }
func (ol *OutputLayer) OutDim() int { return ol.outDim }

// Trained returns whether weights have been set
func (ol *OutputLayer) Trained() bool { return ol.Wts != nil }

// SetWeights sets the readout weights (copied), which must be OutDim x InDim
func (ol *OutputLayer) SetWeights(w mat.Matrix) error {
	r, c := w.Dims()
	if r != ol.outDim || c != ol.inDim {
		return errors.Wrapf(ErrDim, "OutputLayer.SetWeights: got %d x %d, want %d x %d", r, c, ol.outDim, ol.inDim)
	}
	ol.Wts = mat.DenseCopyOf(w)
	return nil
}

// Weights returns a copy of the readout weights, or nil if not set
func (ol *OutputLayer) Weights() *mat.Dense {
	if ol.Wts == nil {
		return nil
	}
	return mat.DenseCopyOf(ol.Wts)
}

// Apply returns W x
func (ol *OutputLayer) Apply(x []float64) ([]float64, error) {
	if ol.Wts == nil {
		return nil, ErrNoWeights
	}
	if err := checkLen(x, ol.inDim, "OutputLayer"); err != nil {
		return nil, err
	}
	y := mat.NewVecDense(ol.outDim, nil)
	y.MulVec(ol.Wts, mat.NewVecDense(len(x), x))
	return y.RawVector().Data, nil
}

// Info returns a one-line description of the layer
func (ol *OutputLayer) Info() string {
	return fmt.Sprintf("OutputLayer: in: %d\t out: %d\t trained: %v", ol.inDim, ol.outDim, ol.Trained())
}
