// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewSource returns the deterministic random source used to draw one layer's
// fixed weights.  Each layer owns its own source, so construction order across
// layers never changes the weights a given seed produces.
func NewSource(seed int64) rand.Source {
	return rand.NewSource(uint64(seed))
}

// UniformDense returns an r x c matrix with entries uniform on [-1, 1]
func UniformDense(r, c int, src rand.Source) *mat.Dense {
	un := distuv.Uniform{Min: -1, Max: 1, Src: src}
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = un.Rand()
	}
	return mat.NewDense(r, c, vals)
}

// SparseDense returns an n x n matrix in which each entry is nonzero with
// probability density, with nonzero values uniform on [-1, 1].
func SparseDense(n int, density float64, src rand.Source) *mat.Dense {
	coin := distuv.Bernoulli{P: density, Src: src}
	un := distuv.Uniform{Min: -1, Max: 1, Src: src}
	vals := make([]float64, n*n)
	for i := range vals {
		if coin.Rand() == 1 {
			vals[i] = un.Rand()
		}
	}
	return mat.NewDense(n, n, vals)
}
