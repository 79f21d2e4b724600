// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stim generates the stimulus waveforms used to drive reservoirs:
// piecewise-constant step protocols (e.g., odor on / off presentations),
// sine waves, and fixed-width episode windows cut from a longer recording.
package stim

import (
	"math"

	"github.com/pkg/errors"
)

// Steps returns a piecewise-constant waveform holding values[i] for
// durations[i] samples, in order.
func Steps(values []float64, durations []int) ([]float64, error) {
	if len(values) != len(durations) {
		return nil, errors.Errorf("stim.Steps: %d values for %d durations", len(values), len(durations))
	}
	n := 0
	for i, d := range durations {
		if d < 0 {
			return nil, errors.Errorf("stim.Steps: negative duration %d at step %d", d, i)
		}
		n += d
	}
	out := make([]float64, 0, n)
	for i, v := range values {
		for j := 0; j < durations[i]; j++ {
			out = append(out, v)
		}
	}
	return out, nil
}

// ScaledSteps is Steps with each value mapped to v*gain + bias,
// which is how a single protocol is reused at several stimulus strengths.
func ScaledSteps(values []float64, durations []int, gain, bias float64) ([]float64, error) {
	sv := make([]float64, len(values))
	for i, v := range values {
		sv[i] = v*gain + bias
	}
	return Steps(sv, durations)
}

// Sine returns n samples of amp * sin(2 pi t / period)
func Sine(n int, period, amp float64) []float64 {
	out := make([]float64, n)
	for t := range out {
		out[t] = amp * math.Sin(2*math.Pi*float64(t)/period)
	}
	return out
}

// Bias returns a copy of seq with b added to every sample
func Bias(seq []float64, b float64) []float64 {
	out := make([]float64, len(seq))
	for i, v := range seq {
		out[i] = v + b
	}
	return out
}

// Windows cuts full windows of the given width out of data, starting at
// start and advancing by stride.  Partial trailing windows are dropped.
// Windows share no memory with data.
func Windows(data []float64, start, stride, width int) ([][]float64, error) {
	if stride <= 0 || width <= 0 {
		return nil, errors.Errorf("stim.Windows: stride %d and width %d must be positive", stride, width)
	}
	if start < 0 {
		start = 0
	}
	var out [][]float64
	for fr := start; fr+width <= len(data); fr += stride {
		w := make([]float64, width)
		copy(w, data[fr:fr+width])
		out = append(out, w)
	}
	return out, nil
}

// LeakyResponse returns the response of a first-order low-pass filter with
// time constant tau (in samples) to seq, starting from 0:
//
//	y[t] = y[t-1] + (seq[t] - y[t-1]) / tau
//
// This is the slow rise and decay typical of a calcium-imaging trace under
// a step stimulus.  tau <= 1 returns a copy of seq.
func LeakyResponse(seq []float64, tau float64) []float64 {
	out := make([]float64, len(seq))
	if tau <= 1 {
		copy(out, seq)
		return out
	}
	prv := 0.0
	for t, v := range seq {
		prv += (v - prv) / tau
		out[t] = prv
	}
	return out
}

// StepProtocol is the step-stimulus episode family used to fit reservoirs:
// each episode rests for a sixth of EpLen, steps on for a third, and rests
// again, and the target is the leaky response to that step.
type StepProtocol struct {

	// number of samples per episode
	EpLen int `default:"600"`

	// response time constant of the fast episodes
	FastTau float64 `default:"20"`

	// response time constant of the slow episodes
	SlowTau float64 `default:"60"`
}

// StepEpisodes returns n input and target series from sp.  The step strength
// cycles through 0.5, 0.75, .. 1.5 with episode number, shifted by off / 4
// so that off = 0.25 falls between the training strengths.  Episodes before
// fastN respond with FastTau, later ones with SlowTau.
func StepEpisodes(sp StepProtocol, n, fastN int, off float64) (ins, trgs [][]float64, err error) {
	if sp.EpLen <= 0 {
		return nil, nil, errors.Errorf("stim.StepEpisodes: EpLen must be positive, got %d", sp.EpLen)
	}
	ins = make([][]float64, n)
	trgs = make([][]float64, n)
	on := sp.EpLen / 3
	durs := []int{sp.EpLen / 6, on, sp.EpLen - sp.EpLen/6 - on}
	for ep := 0; ep < n; ep++ {
		gain := 0.5 + (float64(ep%5)+off)/4
		if ins[ep], err = ScaledSteps([]float64{0, 1, 0}, durs, gain, 0); err != nil {
			return nil, nil, err
		}
		tau := sp.SlowTau
		if ep < fastN {
			tau = sp.FastTau
		}
		trgs[ep] = LeakyResponse(ins[ep], tau)
	}
	return ins, trgs, nil
}
