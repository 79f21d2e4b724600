// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

///////////////////////////////////////////////////////////////////////
//  composite.go contains the multi-reservoir strategies

// Branch is one reservoir of a Composite, with its own InputLayer
// in the Parallel and Both modes (In must be nil otherwise).
type Branch struct {
	In  *InputLayer
	Res *ReservoirLayer
}

// Composite combines several ReservoirLayer branches into one logical
// reservoir according to its Mode.  The mode is fixed at construction,
// and all dimension hand-offs between branches are checked there.
type Composite struct {
	Mode      Mode      `desc:"how branches are combined"`
	Branches  []Branch  `desc:"the reservoir branches, in chain order"`
	Intensity []float64 `desc:"per-branch gain on the branch's output as it is handed to the next branch (Serial, Both, Mixed) -- the last entry is unused in Serial and Mixed, and scales the ring feedback in Both -- unused for Parallel"`

	inDim  int
	outDim int
	offs   []int     // start of each branch in the concatenated output
	ring   []float64 // Both: last branch output from the previous step
}

// NewComposite builds a composite reservoir taking inputs of length inDim.
// intensity must have one entry per branch except in Parallel mode,
// where it may be nil.
func NewComposite(mode Mode, inDim int, branches []Branch, intensity []float64) (*Composite, error) {
	cp := &Composite{Mode: mode, Branches: branches, Intensity: intensity, inDim: inDim}
	if err := cp.validate(); err != nil {
		return nil, errors.Wrapf(err, "esn.NewComposite %v", mode)
	}
	cp.offs = make([]int, len(branches))
	for i, br := range branches {
		cp.offs[i] = cp.outDim
		if mode.Concats() || i == len(branches)-1 {
			cp.outDim += br.Res.OutDim()
		}
	}
	if !mode.Concats() {
		cp.offs[len(branches)-1] = 0
	}
	return cp, nil
}

// BuildBranches builds nb branches for mode from the template rp.  Every
// reservoir takes the branch output width (rp.OutDim, or rp.Nodes if 0),
// except the first of a Serial or Mixed chain, which takes inDim.  Parallel
// and Both branches get an inDim -> output width InputLayer with scale
// inScale[i] (1 if inScale is nil).  Branch i is seeded from
// rp.Seed + 10 (i+1), and its InputLayer from the seed after that.
// adj, if non-nil, applies per-branch changes to the params.
func BuildBranches(mode Mode, inDim, nb int, rp ReservoirParams, inScale []float64, adj func(bi int, rp *ReservoirParams)) ([]Branch, error) {
	if inScale != nil && len(inScale) != nb {
		return nil, errors.Wrapf(ErrDim, "esn.BuildBranches: %d input scales for %d branches", len(inScale), nb)
	}
	bout := rp.OutDim
	if bout == 0 {
		bout = rp.Nodes
	}
	brs := make([]Branch, nb)
	for i := range brs {
		bp := rp
		bp.OutDim = bout
		bp.InDim = bout
		if i == 0 && !mode.UsesInputLayers() {
			bp.InDim = inDim
		}
		bp.Seed = rp.Seed + 10*int64(i+1)
		if adj != nil {
			adj(i, &bp)
		}
		var err error
		if brs[i].Res, err = NewReservoir(bp); err != nil {
			return nil, errors.Wrapf(err, "esn.BuildBranches branch %d", i)
		}
		if !mode.UsesInputLayers() {
			continue
		}
		sc := 1.0
		if inScale != nil {
			sc = inScale[i]
		}
		if brs[i].In, err = NewInputLayer(inDim, bp.InDim, sc, bp.Seed+1); err != nil {
			return nil, errors.Wrapf(err, "esn.BuildBranches branch %d", i)
		}
	}
	return brs, nil
}

func (cp *Composite) validate() error {
	nb := len(cp.Branches)
	if cp.Mode < 0 || cp.Mode >= ModeN {
		return errors.Errorf("unknown mode %d", cp.Mode)
	}
	if nb == 0 {
		return errors.New("no branches")
	}
	if cp.inDim <= 0 {
		return errors.Errorf("input dimension must be positive, got %d", cp.inDim)
	}
	if cp.Mode != Parallel || cp.Intensity != nil {
		if len(cp.Intensity) != nb {
			return errors.Wrapf(ErrDim, "%d intensities for %d branches", len(cp.Intensity), nb)
		}
	}
	for i, br := range cp.Branches {
		if br.Res == nil {
			return errors.Errorf("branch %d has no reservoir", i)
		}
		if cp.Mode.UsesInputLayers() {
			if br.In == nil {
				return errors.Errorf("branch %d has no input layer", i)
			}
			if br.In.InDim() != cp.inDim {
				return errors.Wrapf(ErrDim, "branch %d input layer takes %d, composite input is %d", i, br.In.InDim(), cp.inDim)
			}
			if br.In.OutDim() != br.Res.InDim() {
				return errors.Wrapf(ErrDim, "branch %d input layer gives %d, reservoir takes %d", i, br.In.OutDim(), br.Res.InDim())
			}
		} else if br.In != nil {
			return errors.Errorf("branch %d has an input layer, which %v mode does not use", i, cp.Mode)
		}
		if cp.Mode == Parallel {
			continue
		}
		var from, fromNm = cp.inDim, "composite input"
		if i > 0 {
			from, fromNm = cp.Branches[i-1].Res.OutDim(), fmt.Sprintf("branch %d output", i-1)
		} else if cp.Mode == Both {
			from, fromNm = cp.Branches[nb-1].Res.OutDim(), fmt.Sprintf("branch %d output", nb-1)
		}
		if from != br.Res.InDim() {
			return errors.Wrapf(ErrDim, "%s is %d, branch %d reservoir takes %d", fromNm, from, i, br.Res.InDim())
		}
	}
	return nil
}

func (cp *Composite) InDim() int     { return cp.inDim }
func (cp *Composite) OutDim() int    { return cp.outDim }
func (cp *Composite) NBranches() int { return len(cp.Branches) }

// Layers returns the branch reservoirs in order
func (cp *Composite) Layers() []*ReservoirLayer {
	lys := make([]*ReservoirLayer, len(cp.Branches))
	for i, br := range cp.Branches {
		lys[i] = br.Res
	}
	return lys
}

// Apply advances every branch by one step and returns the combined output.
// Masked branches still advance; mask only gates what they contribute:
// their slice of the concatenated output, or in Serial mode their hand-off.
func (cp *Composite) Apply(u []float64, mask Mask) ([]float64, error) {
	if err := checkLen(u, cp.inDim, "Composite"); err != nil {
		return nil, err
	}
	if err := mask.Check(len(cp.Branches)); err != nil {
		return nil, err
	}
	var ys [][]float64
	var err error
	switch cp.Mode {
	case Parallel:
		ys, err = cp.applyParallel(u)
	case Serial:
		return cp.applySerial(u, mask)
	case Both:
		ys, err = cp.applyBoth(u)
	case Mixed:
		ys, err = cp.applyChain(u, nil)
	}
	if err != nil {
		return nil, err
	}
	return cp.concat(ys, mask), nil
}

func (cp *Composite) applyParallel(u []float64) ([][]float64, error) {
	ys := make([][]float64, len(cp.Branches))
	for i, br := range cp.Branches {
		in, err := br.In.Apply(u)
		if err != nil {
			return nil, errors.Wrapf(err, "branch %d", i)
		}
		if ys[i], err = br.Res.Apply(in, nil); err != nil {
			return nil, errors.Wrapf(err, "branch %d", i)
		}
	}
	return ys, nil
}

// applyChain runs the Serial / Mixed chain: branch 0 is driven by the raw
// input, branch i > 0 by Intensity[i-1] times the output of branch i-1.
// With a non-nil mask, masked outputs are zeroed before the hand-off.
func (cp *Composite) applyChain(u []float64, mask Mask) ([][]float64, error) {
	ys := make([][]float64, len(cp.Branches))
	in := u
	for i, br := range cp.Branches {
		y, err := br.Res.Apply(in, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "branch %d", i)
		}
		if mask != nil && !mask[i] {
			floats.Scale(0, y)
		}
		ys[i] = y
		if i < len(cp.Branches)-1 {
			in = make([]float64, len(y))
			floats.ScaleTo(in, cp.Intensity[i], y)
		}
	}
	return ys, nil
}

func (cp *Composite) applySerial(u []float64, mask Mask) ([]float64, error) {
	ys, err := cp.applyChain(u, mask)
	if err != nil {
		return nil, err
	}
	return ys[len(ys)-1], nil
}

func (cp *Composite) applyBoth(u []float64) ([][]float64, error) {
	nb := len(cp.Branches)
	ys := make([][]float64, nb)
	for i, br := range cp.Branches {
		in, err := br.In.Apply(u)
		if err != nil {
			return nil, errors.Wrapf(err, "branch %d", i)
		}
		fb, from := cp.ring, nb-1
		if i > 0 {
			fb, from = ys[i-1], i-1
		}
		if fb != nil {
			floats.AddScaled(in, cp.Intensity[from], fb)
		}
		if ys[i], err = br.Res.Apply(in, nil); err != nil {
			return nil, errors.Wrapf(err, "branch %d", i)
		}
	}
	if cp.ring == nil {
		cp.ring = make([]float64, len(ys[nb-1]))
	}
	copy(cp.ring, ys[nb-1])
	return ys, nil
}

// concat lays the branch outputs end to end, leaving masked slices zero
func (cp *Composite) concat(ys [][]float64, mask Mask) []float64 {
	out := make([]float64, cp.outDim)
	for i, y := range ys {
		if mask.On(i) {
			copy(out[cp.offs[i]:], y)
		}
	}
	return out
}

// ResetState resets every branch, and the Both feedback
func (cp *Composite) ResetState() {
	for _, br := range cp.Branches {
		br.Res.ResetState()
	}
	cp.ring = nil
}

// BranchRange returns the [start, end) slice of the output owned by branch bi.
// In Serial mode only the last branch owns output.
func (cp *Composite) BranchRange(bi int) (int, int) {
	if !cp.Mode.Concats() && bi != len(cp.Branches)-1 {
		return 0, 0
	}
	st := cp.offs[bi]
	return st, st + cp.Branches[bi].Res.OutDim()
}

// Info returns a multi-line description of all branch hyperparameters
func (cp *Composite) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Composite: mode: %v\t in: %d\t out: %d\t branches: %d\n", cp.Mode, cp.inDim, cp.outDim, len(cp.Branches))
	for i, br := range cp.Branches {
		fmt.Fprintf(&b, "\tBranch %d:", i)
		if cp.Intensity != nil && cp.Mode != Parallel {
			fmt.Fprintf(&b, "\t intensity: %g", cp.Intensity[i])
		}
		b.WriteString("\n")
		if br.In != nil {
			fmt.Fprintf(&b, "\t\t%s\n", br.In.Info())
		}
		fmt.Fprintf(&b, "\t\t%s\n", br.Res.Info())
	}
	return b.String()
}
