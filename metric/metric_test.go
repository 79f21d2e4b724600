// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"math"
	"testing"
)

const difTol = 1.0e-12

func TestRMSE(t *testing.T) {
	y := []float64{9, 1, 2, 3}
	d := []float64{0, 1, 2, 5}
	rmse, err := RMSE(y, d, 1)
	if err != nil {
		t.Fatal(err)
	}
	cor := math.Sqrt(4.0 / 3.0)
	if math.Abs(rmse-cor) > difTol {
		t.Errorf("rmse: %v, cor: %v\n", rmse, cor)
	}
}

func TestNRMSE(t *testing.T) {
	d := []float64{1, 0, 1, 0}
	y := []float64{0.9, 0.1, 0.9, 0.1}
	nr, err := NRMSE(y, d, 0)
	if err != nil {
		t.Fatal(err)
	}
	// rmse = 0.1, std of d = 0.5
	if math.Abs(nr-0.2) > difTol {
		t.Errorf("nrmse: %v, cor: 0.2\n", nr)
	}

	flat := []float64{2, 2, 2}
	nr, _ = NRMSE(flat, flat, 0)
	if nr != 0 {
		t.Errorf("exact match on constant target should give 0, got %v\n", nr)
	}
	nr, _ = NRMSE([]float64{1, 2, 3}, flat, 0)
	if !math.IsInf(nr, 1) {
		t.Errorf("mismatch on constant target should give +Inf, got %v\n", nr)
	}
}

func TestErrors(t *testing.T) {
	if _, err := RMSE([]float64{1}, []float64{1, 2}, 0); err == nil {
		t.Errorf("expected length mismatch error")
	}
	if _, err := RMSE([]float64{1, 2}, []float64{1, 2}, 2); err == nil {
		t.Errorf("expected error when skip consumes all samples")
	}
	if _, err := MeanNRMSE(nil, nil, 0); err == nil {
		t.Errorf("expected error with no episodes")
	}
}

func TestMeanNRMSE(t *testing.T) {
	d := []float64{1, 0, 1, 0}
	ys := [][]float64{{1, 0, 1, 0}, {0.9, 0.1, 0.9, 0.1}}
	ds := [][]float64{d, d}
	m, err := MeanNRMSE(ys, ds, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m-0.1) > difTol {
		t.Errorf("mean nrmse: %v, cor: 0.1\n", m)
	}
}
