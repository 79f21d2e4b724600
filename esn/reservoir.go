// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"fmt"

	"github.com/emer/esn/actfun"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

///////////////////////////////////////////////////////////////////////
//  reservoir.go contains the simple leaky-integrator reservoir layer

// Reservoir is the capability shared by a single ReservoirLayer and the
// Composite strategies, so either can sit between the InputLayer and the
// OutputLayer of a Network.
type Reservoir interface {
	// InDim is the expected length of the input vector
	InDim() int

	// OutDim is the length of the vector returned by Apply
	OutDim() int

	// NBranches is the number of reservoir branches a Mask must cover
	NBranches() int

	// Apply advances the reservoir state by one step driven by u and returns
	// the exposed state, with branches switched off by mask zeroed.
	Apply(u []float64, mask Mask) ([]float64, error)

	// ResetState sets all internal state back to zero
	ResetState()

	// Layers returns the underlying reservoir layers, in branch order
	Layers() []*ReservoirLayer

	// Info returns a description of all hyperparameters
	Info() string
}

// ReservoirParams are the hyperparameters of a ReservoirLayer
type ReservoirParams struct {
	InDim   int         `desc:"length of the input vector driving the reservoir"`
	OutDim  int         `desc:"number of nodes exposed as the layer output (the first OutDim nodes) -- 0 exposes all Nodes"`
	Nodes   int         `desc:"number of reservoir nodes (N_x)"`
	Density float64     `def:"0.24" min:"0" max:"1" desc:"probability of each directed recurrent connection existing"`
	Rho     float64     `def:"0.9" min:"0" desc:"spectral radius the recurrent weights are scaled to -- near 1 gives long memory, above 1 tends toward chaotic dynamics"`
	Act     actfun.Func `def:"Tanh" desc:"node activation function"`
	Leak    float64     `def:"1" min:"0" max:"1" desc:"leaking rate alpha -- fraction of the new activation mixed into the state each step; 1 = no leaky integration"`
	Seed    int64       `desc:"seed for drawing the fixed recurrent and input weights"`
}

func (rp *ReservoirParams) Defaults() {
	rp.Density = 0.24
	rp.Rho = 0.9
	rp.Act = actfun.Tanh
	rp.Leak = 1
}

// Update must be called after any changes to parameters
func (rp *ReservoirParams) Update() {
	if rp.OutDim == 0 {
		rp.OutDim = rp.Nodes
	}
}

// Validate returns an error describing the first out-of-range parameter
func (rp *ReservoirParams) Validate() error {
	switch {
	case rp.InDim <= 0:
		return errors.Errorf("reservoir: InDim must be positive, got %d", rp.InDim)
	case rp.Nodes <= 0:
		return errors.Errorf("reservoir: Nodes must be positive, got %d", rp.Nodes)
	case rp.OutDim < 0 || rp.OutDim > rp.Nodes:
		return errors.Errorf("reservoir: OutDim %d outside [0, Nodes=%d]", rp.OutDim, rp.Nodes)
	case rp.Density < 0 || rp.Density > 1:
		return errors.Errorf("reservoir: Density %g outside [0, 1]", rp.Density)
	case rp.Rho < 0:
		return errors.Errorf("reservoir: Rho must be non-negative, got %g", rp.Rho)
	case rp.Leak <= 0 || rp.Leak > 1:
		return errors.Errorf("reservoir: Leak %g outside (0, 1]", rp.Leak)
	case rp.Act < 0 || rp.Act >= actfun.FuncN:
		return errors.Errorf("reservoir: unknown activation %v", rp.Act)
	}
	return nil
}

// ReservoirLayer is a sparse random recurrent network of leaky-integrator
// nodes.  Its weights are fixed at construction; only the state changes.
type ReservoirLayer struct {
	Params ReservoirParams `view:"inline" desc:"hyperparameters"`
	Rec    *mat.Dense      `view:"-" desc:"Nodes x Nodes recurrent weights, scaled to spectral radius Params.Rho"`
	In     *mat.Dense      `view:"-" desc:"Nodes x InDim input weights, uniform on [-1, 1]"`
	RawRad float64         `inactive:"+" desc:"spectral radius of the recurrent weights as drawn, before scaling -- 0 means no recurrent dynamics"`

	state *mat.VecDense
	net   *mat.VecDense
	inNet *mat.VecDense
}

// NewReservoir builds a reservoir layer from the given params, which are
// validated and updated (a copy is kept)
func NewReservoir(p ReservoirParams) (*ReservoirLayer, error) {
	p.Update()
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "esn.NewReservoir")
	}
	ly := &ReservoirLayer{Params: p}
	src := NewSource(p.Seed)
	ly.Rec = SparseDense(p.Nodes, p.Density, src)
	rad, err := ScaleToRadius(ly.Rec, p.Rho)
	if err != nil {
		return nil, errors.Wrap(err, "esn.NewReservoir")
	}
	ly.RawRad = rad
	ly.In = UniformDense(p.Nodes, p.InDim, src)
	ly.state = mat.NewVecDense(p.Nodes, nil)
	ly.net = mat.NewVecDense(p.Nodes, nil)
	ly.inNet = mat.NewVecDense(p.Nodes, nil)
	return ly, nil
}

func (ly *ReservoirLayer) InDim() int                { return ly.Params.InDim }
func (ly *ReservoirLayer) OutDim() int               { return ly.Params.OutDim }
func (ly *ReservoirLayer) NBranches() int            { return 1 }
func (ly *ReservoirLayer) Layers() []*ReservoirLayer { return []*ReservoirLayer{ly} }

// Apply computes one leaky-integrator update:
//
//	x <- (1 - Leak) x + Leak * Act(Rec x + In u)
//
// and returns the first OutDim nodes of the new state.  A mask of length 1
// with the branch off zeroes the returned values; the state still advances.
func (ly *ReservoirLayer) Apply(u []float64, mask Mask) ([]float64, error) {
	if err := checkLen(u, ly.Params.InDim, "ReservoirLayer"); err != nil {
		return nil, err
	}
	if err := mask.Check(1); err != nil {
		return nil, err
	}
	ly.net.MulVec(ly.Rec, ly.state)
	ly.inNet.MulVec(ly.In, mat.NewVecDense(len(u), u))
	ly.net.AddVec(ly.net, ly.inNet)
	lr := ly.Params.Leak
	for i := 0; i < ly.Params.Nodes; i++ {
		x := ly.state.AtVec(i)
		ly.state.SetVec(i, (1-lr)*x+lr*ly.Params.Act.Apply(ly.net.AtVec(i)))
	}
	out := make([]float64, ly.Params.OutDim)
	if mask.On(0) {
		copy(out, ly.state.RawVector().Data)
	}
	return out, nil
}

// ResetState sets the node state to zero
func (ly *ReservoirLayer) ResetState() {
	ly.state.Zero()
}

// State returns a copy of the full node state
func (ly *ReservoirLayer) State() []float64 {
	st := make([]float64, ly.Params.Nodes)
	copy(st, ly.state.RawVector().Data)
	return st
}

// SpectralRadius recomputes the spectral radius of the realized recurrent weights
func (ly *ReservoirLayer) SpectralRadius() (float64, error) {
	return SpectralRadius(ly.Rec)
}

// NWeights returns the number of stored weight values (recurrent + input)
func (ly *ReservoirLayer) NWeights() int {
	return ly.Params.Nodes*ly.Params.Nodes + ly.Params.Nodes*ly.Params.InDim
}

// Info returns a one-line description of the layer hyperparameters
func (ly *ReservoirLayer) Info() string {
	p := &ly.Params
	return fmt.Sprintf("ReservoirLayer: in: %d\t out: %d\t nodes: %d\t density: %g\t rho: %g\t act: %v\t leak: %g\t seed: %d",
		p.InDim, p.OutDim, p.Nodes, p.Density, p.Rho, p.Act, p.Leak, p.Seed)
}
