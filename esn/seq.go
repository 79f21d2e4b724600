// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrDim is the cause of every dimension mismatch error, so callers can test
// for shape errors with errors.Cause(err) == ErrDim.
var ErrDim = errors.New("dimension mismatch")

// ErrNoWeights is returned when an OutputLayer is applied before weights are set
var ErrNoWeights = errors.New("output layer weights not set")

// Seq is a time series of vectors: Seq[t] is the vector at step t
type Seq [][]float64

// Column converts a scalar series into a Seq of length-1 vectors
func Column(vals []float64) Seq {
	sq := make(Seq, len(vals))
	for t, v := range vals {
		sq[t] = []float64{v}
	}
	return sq
}

// Columns converts each scalar series to a Seq with Column
func Columns(series [][]float64) []Seq {
	sqs := make([]Seq, len(series))
	for i, vals := range series {
		sqs[i] = Column(vals)
	}
	return sqs
}

// Col returns element j of every step as a scalar series
func (sq Seq) Col(j int) []float64 {
	out := make([]float64, len(sq))
	for t, v := range sq {
		out[t] = v[j]
	}
	return out
}

// Dim returns the vector width of the series, checking that every step has
// the same width.  An empty series has width 0.
func (sq Seq) Dim() (int, error) {
	if len(sq) == 0 {
		return 0, nil
	}
	d := len(sq[0])
	for t, v := range sq {
		if len(v) != d {
			return 0, errors.Wrapf(ErrDim, "step %d has width %d, step 0 has %d", t, len(v), d)
		}
	}
	return d, nil
}

// Mask gates the contribution of each reservoir branch to the composite
// output: Mask[i] false switches branch i off.  A nil Mask leaves every
// branch on.  Masking is deterministic ablation, not stochastic dropout.
type Mask []bool

// MaskFromInts converts the 0 / 1 notation (e.g., 1, 1, 1, 0) to a Mask
func MaskFromInts(vals ...int) Mask {
	m := make(Mask, len(vals))
	for i, v := range vals {
		m[i] = v != 0
	}
	return m
}

// On returns whether branch i is active
func (m Mask) On(i int) bool {
	return m == nil || m[i]
}

// Check returns an error if a non-nil mask does not cover exactly n branches
func (m Mask) Check(n int) error {
	if m != nil && len(m) != n {
		return errors.Wrapf(ErrDim, "mask has %d entries for %d branches", len(m), n)
	}
	return nil
}

// String returns the mask in 0 / 1 notation, e.g., "1110", or "all" for nil
func (m Mask) String() string {
	if m == nil {
		return "all"
	}
	var b strings.Builder
	for _, on := range m {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// checkLen returns an ErrDim-caused error naming the component if len(v) != n
func checkLen(v []float64, n int, who string) error {
	if len(v) != n {
		return errors.Wrapf(ErrDim, "%s: input length %d, want %d", who, len(v), n)
	}
	return nil
}
