// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/v2/timer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Network is an echo state network: a fixed InputLayer projection feeding a
// Reservoir (a single ReservoirLayer or a Composite), read out by a trained
// linear OutputLayer.
type Network struct {
	Nm       string                 `desc:"overall name of network -- helps discriminate if there are multiple"`
	In       *InputLayer            `desc:"input projection -- nil passes inputs straight to the reservoir, e.g., for composites whose branches have their own InputLayers"`
	Res      Reservoir              `desc:"the reservoir"`
	Out      *OutputLayer           `desc:"the trained readout"`
	Log      *logrus.Logger         `view:"-" desc:"logger for training progress -- Warn level on stderr by default"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each major function"`
	MetaData map[string]string      `desc:"arbitrary key/value info saved with the weights, e.g., run id"`
}

// NewNetwork assembles a network, checking that the layer dimensions chain
func NewNetwork(name string, in *InputLayer, res Reservoir, out *OutputLayer) (*Network, error) {
	if res == nil || out == nil {
		return nil, errors.Errorf("esn.NewNetwork %s: reservoir and output layer are required", name)
	}
	if in != nil && in.OutDim() != res.InDim() {
		return nil, errors.Wrapf(ErrDim, "esn.NewNetwork %s: input layer gives %d, reservoir takes %d", name, in.OutDim(), res.InDim())
	}
	if res.OutDim() != out.InDim() {
		return nil, errors.Wrapf(ErrDim, "esn.NewNetwork %s: reservoir gives %d, output layer takes %d", name, res.OutDim(), out.InDim())
	}
	lg := logrus.New()
	lg.SetOutput(os.Stderr)
	lg.SetLevel(logrus.WarnLevel)
	nt := &Network{Nm: name, In: in, Res: res, Out: out, Log: lg}
	nt.FunTimes = make(map[string]*timer.Time)
	nt.MetaData = make(map[string]string)
	return nt, nil
}

// InDim is the length of the raw input vectors
func (nt *Network) InDim() int {
	if nt.In != nil {
		return nt.In.InDim()
	}
	return nt.Res.InDim()
}

// OutDim is the length of the output vectors
func (nt *Network) OutDim() int { return nt.Out.OutDim() }

// ResetState zeros all reservoir state
func (nt *Network) ResetState() {
	nt.Res.ResetState()
}

// State advances the network by one input step and returns the reservoir output
func (nt *Network) State(u []float64, mask Mask) ([]float64, error) {
	x := u
	if nt.In != nil {
		var err error
		if x, err = nt.In.Apply(u); err != nil {
			return nil, err
		}
	} else if err := checkLen(u, nt.Res.InDim(), "Network input"); err != nil {
		return nil, err
	}
	return nt.Res.Apply(x, mask)
}

// checkEpisodes checks that inputs and targets pair up step for step
func (nt *Network) checkEpisodes(inputs, targets []Seq) error {
	if len(inputs) != len(targets) {
		return errors.Wrapf(ErrDim, "%d input episodes, %d target episodes", len(inputs), len(targets))
	}
	for ep := range inputs {
		if len(inputs[ep]) != len(targets[ep]) {
			return errors.Wrapf(ErrDim, "episode %d: %d input steps, %d target steps", ep, len(inputs[ep]), len(targets[ep]))
		}
		for t, d := range targets[ep] {
			if len(d) != nt.OutDim() {
				return errors.Wrapf(ErrDim, "episode %d step %d: target length %d, want %d", ep, t, len(d), nt.OutDim())
			}
		}
	}
	return nil
}

// Train runs the input episodes back to back (no state reset between them),
// accumulates every post-washout (state, target) pair into opt, solves for
// the readout and sets it on Out.  It returns the trained readout applied to
// every recorded state, washout steps included.
func (nt *Network) Train(inputs, targets []Seq, opt *Tikhonov, tc TrainConfig) ([]Seq, error) {
	nt.FunTimerStart("Train")
	defer nt.FunTimerStop("Train")
	if err := nt.checkEpisodes(inputs, targets); err != nil {
		return nil, errors.Wrap(err, "esn.Network.Train")
	}
	if opt.InDim() != nt.Res.OutDim() || opt.OutDim() != nt.OutDim() {
		return nil, errors.Wrapf(ErrDim, "esn.Network.Train: optimizer is %d -> %d, network readout is %d -> %d", opt.InDim(), opt.OutDim(), nt.Res.OutDim(), nt.OutDim())
	}
	if err := tc.Dropout.Check(nt.Res.NBranches()); err != nil {
		return nil, errors.Wrap(err, "esn.Network.Train dropout")
	}
	states := make([]Seq, len(inputs))
	gstep := 0
	for ep, useq := range inputs {
		states[ep] = make(Seq, len(useq))
		nacc := 0
		for t, u := range useq {
			mask := tc.MaskAt(ep, gstep)
			x, err := nt.State(u, mask)
			if err != nil {
				return nil, errors.Wrapf(err, "esn.Network.Train episode %d step %d", ep, t)
			}
			states[ep][t] = x
			if t >= tc.Washout {
				if err := opt.Accumulate(x, targets[ep][t]); err != nil {
					return nil, errors.Wrapf(err, "esn.Network.Train episode %d step %d", ep, t)
				}
				nacc++
			}
			gstep++
		}
		nt.Log.WithFields(logrus.Fields{
			"net": nt.Nm, "episode": ep, "steps": len(useq), "accumulated": nacc, "mask": tc.MaskAt(ep, gstep-1),
		}).Debug("train episode")
	}
	nt.FunTimerStart("Solve")
	w, err := opt.Solve()
	nt.FunTimerStop("Solve")
	if err != nil {
		return nil, errors.Wrap(err, "esn.Network.Train")
	}
	if err := nt.Out.SetWeights(w); err != nil {
		return nil, errors.Wrap(err, "esn.Network.Train")
	}
	nt.Log.WithFields(logrus.Fields{
		"net": nt.Nm, "episodes": len(inputs), "samples": opt.NSamples(), "beta": opt.Beta,
	}).Info("readout solved")

	outs := make([]Seq, len(states))
	for ep, xs := range states {
		outs[ep] = make(Seq, len(xs))
		for t, x := range xs {
			if outs[ep][t], err = nt.Out.Apply(x); err != nil {
				return nil, errors.Wrap(err, "esn.Network.Train")
			}
		}
	}
	return outs, nil
}

// Predict runs the trained network over inputs from the current state
// (no reset) with the given branch mask, returning one output per step.
func (nt *Network) Predict(inputs Seq, mask Mask) (Seq, error) {
	nt.FunTimerStart("Predict")
	defer nt.FunTimerStop("Predict")
	if !nt.Out.Trained() {
		return nil, ErrNoWeights
	}
	if err := mask.Check(nt.Res.NBranches()); err != nil {
		return nil, errors.Wrap(err, "esn.Network.Predict")
	}
	ys := make(Seq, len(inputs))
	for t, u := range inputs {
		x, err := nt.State(u, mask)
		if err != nil {
			return nil, errors.Wrapf(err, "esn.Network.Predict step %d", t)
		}
		if ys[t], err = nt.Out.Apply(x); err != nil {
			return nil, errors.Wrapf(err, "esn.Network.Predict step %d", t)
		}
	}
	return ys, nil
}

// NWeights returns the total number of stored weight values
func (nt *Network) NWeights() int {
	nw := 0
	if nt.In != nil {
		nw += nt.In.InDim() * nt.In.OutDim()
	}
	for _, ly := range nt.Res.Layers() {
		nw += ly.NWeights()
	}
	if cp, ok := nt.Res.(*Composite); ok {
		for _, br := range cp.Branches {
			if br.In != nil {
				nw += br.In.InDim() * br.In.OutDim()
			}
		}
	}
	return nw + nt.Out.InDim()*nt.Out.OutDim()
}

// SizeReport returns a string reporting the size of each reservoir layer
// and the total weight memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	nodes := 0
	for i, ly := range nt.Res.Layers() {
		nw := ly.NWeights()
		nodes += ly.Params.Nodes
		fmt.Fprintf(&b, "%14s:\t Nodes: %d\t Wts: %d\t WtMem: %v\n", fmt.Sprintf("Res %d", i), ly.Params.Nodes, nw, datasize.ByteSize(nw*8).HumanReadable())
	}
	nw := nt.NWeights()
	fmt.Fprintf(&b, "%14s:\t Nodes: %d\t Wts: %d\t WtMem: %v\n", nt.Nm, nodes, nw, datasize.ByteSize(nw*8).HumanReadable())
	return b.String()
}

// Info returns a description of all hyperparameters, followed by the SizeReport
func (nt *Network) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network: %s\n", nt.Nm)
	if nt.In != nil {
		fmt.Fprintf(&b, "%s\n", nt.In.Info())
	}
	b.WriteString(nt.Res.Info())
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n\n", nt.Out.Info())
	b.WriteString(nt.SizeReport())
	return b.String()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Timing reports

// TimerReport reports the amount of time spent in each function
func (nt *Network) TimerReport() {
	fmt.Printf("TimerReport: %v\n", nt.Nm)
	fmt.Printf("\t%13s \t%7s\t%7s\n", "Function Name", "Secs", "Pct")
	fnms := make([]string, 0, len(nt.FunTimes))
	for k := range nt.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	pcts := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = nt.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		fmt.Printf("\t%13s \t%7.3f\t%7.1f\n", fn, pcts[i], 100*(pcts[i]/tot))
	}
	fmt.Printf("\t%13s \t%7.3f\n", "Total", tot)
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (nt *Network) FunTimerStart(fun string) {
	ft, ok := nt.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		nt.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (nt *Network) FunTimerStop(fun string) {
	ft := nt.FunTimes[fun]
	ft.Stop()
}
