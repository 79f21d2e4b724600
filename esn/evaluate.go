// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"github.com/emer/esn/metric"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EvalConfig controls how Network.Evaluate scores test episodes
type EvalConfig struct {
	Skip      int  `def:"200" min:"0" desc:"number of leading samples of each episode excluded from the score"`
	Mask      Mask `desc:"branch mask used for the test episodes -- nil leaves every branch on"`
	MaskFirst bool `desc:"apply Mask to the first test episode too -- by default the first episode runs with every branch on"`
}

func (ec *EvalConfig) Defaults() {
	ec.Skip = 200
}

// maskFor returns the mask used for test episode ep
func (ec *EvalConfig) maskFor(ep int) Mask {
	if ep == 0 && !ec.MaskFirst {
		return nil
	}
	return ec.Mask
}

// EvaluateEpisodes resets the state before each test episode, predicts it,
// and returns the NRMSE of each episode averaged over the output dimensions.
func (nt *Network) EvaluateEpisodes(inputs, targets []Seq, ev EvalConfig) ([]float64, error) {
	nt.FunTimerStart("Evaluate")
	defer nt.FunTimerStop("Evaluate")
	if err := nt.checkEpisodes(inputs, targets); err != nil {
		return nil, errors.Wrap(err, "esn.Network.Evaluate")
	}
	scores := make([]float64, len(inputs))
	for ep, useq := range inputs {
		nt.ResetState()
		ys, err := nt.Predict(useq, ev.maskFor(ep))
		if err != nil {
			return nil, errors.Wrapf(err, "esn.Network.Evaluate episode %d", ep)
		}
		od := nt.OutDim()
		yc := make([][]float64, od)
		dc := make([][]float64, od)
		for j := 0; j < od; j++ {
			yc[j] = ys.Col(j)
			dc[j] = targets[ep].Col(j)
		}
		if scores[ep], err = metric.MeanNRMSE(yc, dc, ev.Skip); err != nil {
			return nil, errors.Wrapf(err, "esn.Network.Evaluate episode %d", ep)
		}
		nt.Log.WithFields(logrus.Fields{
			"net": nt.Nm, "episode": ep, "mask": ev.maskFor(ep), "nrmse": scores[ep],
		}).Debug("test episode")
	}
	return scores, nil
}

// Evaluate returns the mean over test episodes of EvaluateEpisodes
func (nt *Network) Evaluate(inputs, targets []Seq, ev EvalConfig) (float64, error) {
	scores, err := nt.EvaluateEpisodes(inputs, targets, ev)
	if err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, errors.New("esn.Network.Evaluate: no test episodes")
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), nil
}
