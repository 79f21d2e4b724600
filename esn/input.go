// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// InputLayer is a fixed random linear projection from the raw input
// dimension to the input dimension of a reservoir.  It has no state.
type InputLayer struct {
	Scale float64    `desc:"input scaling -- effective weights are uniform on [-Scale, Scale]; negative flips the sign"`
	Seed  int64      `desc:"seed used to draw the weights"`
	Wts   *mat.Dense `view:"-" desc:"OutDim x InDim weights, uniform on [-1, 1] before scaling"`
}

// NewInputLayer draws a new input projection from inDim to outDim
func NewInputLayer(inDim, outDim int, scale float64, seed int64) (*InputLayer, error) {
	if inDim <= 0 || outDim <= 0 {
		return nil, errors.Errorf("esn.NewInputLayer: dimensions must be positive, got in %d out %d", inDim, outDim)
	}
	il := &InputLayer{Scale: scale, Seed: seed}
	il.Wts = UniformDense(outDim, inDim, NewSource(seed))
	return il, nil
}

func (il *InputLayer) InDim() int  { _, c := il.Wts.Dims(); return c }
func (il *InputLayer) OutDim() int { r, _ := il.Wts.Dims(); return r }

// Apply projects u: Scale * Wts * u
func (il *InputLayer) Apply(u []float64) ([]float64, error) {
	if err := checkLen(u, il.InDim(), "InputLayer"); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(il.OutDim(), nil)
	out.MulVec(il.Wts, mat.NewVecDense(len(u), u))
	out.ScaleVec(il.Scale, out)
	return out.RawVector().Data, nil
}

// Info returns a one-line description of the layer hyperparameters
func (il *InputLayer) Info() string {
	return fmt.Sprintf("InputLayer: in: %d\t out: %d\t scale: %g\t seed: %d", il.InDim(), il.OutDim(), il.Scale, il.Seed)
}
