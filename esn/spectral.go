// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SpectralRadius returns the largest eigenvalue magnitude of the square matrix m
func SpectralRadius(m mat.Matrix) (float64, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return 0, errors.New("esn.SpectralRadius: eigen decomposition did not converge")
	}
	rad := 0.0
	for _, v := range eig.Values(nil) {
		if a := cmplx.Abs(v); a > rad {
			rad = a
		}
	}
	return rad, nil
}

// ScaleToRadius rescales m in place so that its spectral radius equals rho,
// returning the radius before scaling.  A matrix whose eigenvalues are all
// zero (empty or nilpotent) has no recurrent dynamics to scale and is left
// unchanged, except that rho 0 always zeroes m.
func ScaleToRadius(m *mat.Dense, rho float64) (float64, error) {
	rad, err := SpectralRadius(m)
	if err != nil {
		return 0, err
	}
	if rho == 0 {
		m.Zero()
		return rad, nil
	}
	if rad == 0 {
		return 0, nil
	}
	m.Scale(rho/rad, m)
	return rad, nil
}
