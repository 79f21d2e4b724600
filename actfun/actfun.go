// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package actfun provides the node activation functions used by reservoir layers.

Reservoir nodes are simple rate units: each update computes a net input
(recurrent drive plus input drive) and passes it through one of these functions
before leaky integration.  Tanh is the standard choice for echo state networks,
as it is odd-symmetric and saturating, which keeps the state bounded.  Identity
gives a linear reservoir, mostly useful for analysis and testing.
*/
package actfun

import (
	"math"

	"github.com/goki/ki/kit"
)

// Func is the type of activation function applied to reservoir net input
type Func int32

//go:generate stringer -type=Func

var KiT_Func = kit.Enums.AddEnum(FuncN, kit.NotBitFlag, nil)

func (ev Func) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Func) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The activation functions
const (
	// Tanh is the hyperbolic tangent, the standard ESN nonlinearity
	Tanh Func = iota

	// Identity passes net input through unchanged (linear reservoir)
	Identity

	// Sigmoid is the logistic function 1 / (1 + exp(-x))
	Sigmoid

	// ReLU is max(0, x)
	ReLU

	FuncN
)

// Apply computes the activation for one net input value
func (fn Func) Apply(x float64) float64 {
	switch fn {
	case Identity:
		return x
	case Sigmoid:
		return 1 / (1 + math.Exp(-x))
	case ReLU:
		if x < 0 {
			return 0
		}
		return x
	default:
		return math.Tanh(x)
	}
}

// ApplyVec applies the function in place to each element of vals
func (fn Func) ApplyVec(vals []float64) {
	for i, v := range vals {
		vals[i] = fn.Apply(v)
	}
}
