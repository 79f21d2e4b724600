// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metric scores predicted time series against targets.
// All functions take a skip count: the number of leading samples
// excluded from the score, so that the reservoir's initial transient
// does not dominate the error.
package metric

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// window returns the scored parts of y and d, checking lengths
func window(y, d []float64, skip int) ([]float64, []float64, error) {
	if len(y) != len(d) {
		return nil, nil, errors.Errorf("metric: prediction length %d != target length %d", len(y), len(d))
	}
	if skip < 0 {
		skip = 0
	}
	if skip >= len(y) {
		return nil, nil, errors.Errorf("metric: skip %d leaves no samples of %d", skip, len(y))
	}
	return y[skip:], d[skip:], nil
}

// RMSE returns the root mean squared error between prediction y and
// target d, ignoring the first skip samples.
func RMSE(y, d []float64, skip int) (float64, error) {
	ys, ds, err := window(y, d, skip)
	if err != nil {
		return 0, err
	}
	return floats.Distance(ys, ds, 2) / math.Sqrt(float64(len(ys))), nil
}

// NRMSE returns the RMSE normalized by the (population) standard deviation
// of the target over the scored window.  A constant target gives +Inf
// unless the prediction matches it exactly, in which case it is 0.
func NRMSE(y, d []float64, skip int) (float64, error) {
	rmse, err := RMSE(y, d, skip)
	if err != nil {
		return 0, err
	}
	_, ds, _ := window(y, d, skip)
	_, vr := stat.PopMeanVariance(ds, nil)
	if vr == 0 {
		if rmse == 0 {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return rmse / math.Sqrt(vr), nil
}

// MeanNRMSE averages NRMSE over paired episodes
func MeanNRMSE(ys, ds [][]float64, skip int) (float64, error) {
	if len(ys) != len(ds) {
		return 0, errors.Errorf("metric: %d predictions for %d targets", len(ys), len(ds))
	}
	if len(ys) == 0 {
		return 0, errors.New("metric: no episodes to score")
	}
	sum := 0.0
	for i := range ys {
		nr, err := NRMSE(ys[i], ds[i], skip)
		if err != nil {
			return 0, errors.Wrapf(err, "episode %d", i)
		}
		sum += nr
	}
	return sum / float64(len(ys)), nil
}
