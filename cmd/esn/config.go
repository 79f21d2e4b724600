// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/BurntSushi/toml"
	"github.com/emer/esn/actfun"
	"github.com/emer/esn/esn"
	"github.com/emer/esn/stim"
	"github.com/emer/esn/sweep"
	"github.com/pkg/errors"
)

// NetConfig describes the network built by every subcommand.
// An empty Mode builds a single reservoir layer.
type NetConfig struct {
	Name      string
	Mode      string
	InDim     int
	InScale   float64
	Nodes     int
	OutDim    int
	Density   float64
	Rho       float64
	Act       string
	Leak      float64
	Branches  int
	Intensity []float64
	Seed      int64
}

// TrainConfig describes the synthetic step-stimulus episodes and the
// training schedule used by fit
type TrainConfig struct {
	NTrain      int
	NTest       int
	EpLen       int
	Washout     int
	Skip        int
	Beta        float64
	Tau         float64
	SlowTau     float64
	ChangePoint int
	ChangeUnit  string
	Dropout     []int
	WtsFile     string
}

// FileConfig is the TOML config file layout
type FileConfig struct {
	Net   NetConfig    `toml:"net"`
	Train TrainConfig  `toml:"train"`
	Sweep sweep.Config `toml:"sweep"`
}

// Defaults sets the values used for anything the config file leaves out
func (fc *FileConfig) Defaults() {
	fc.Net = NetConfig{Name: "ESN", InDim: 16, InScale: 1, Nodes: 100, Density: 0.24, Rho: 0.9, Act: "Tanh", Leak: 0.3, Branches: 1}
	fc.Train = TrainConfig{NTrain: 6, NTest: 2, EpLen: 600, Washout: 100, Skip: 200, Beta: 0.01, Tau: 20, SlowTau: 20, ChangeUnit: "ChangeEpisode"}
	fc.Sweep.Defaults()
}

// LoadConfig returns the defaults overridden by the TOML file at path, if non-empty
func LoadConfig(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	fc.Defaults()
	if path == "" {
		return fc, nil
	}
	if _, err := toml.DecodeFile(path, fc); err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	return fc, nil
}

// BuildNet builds the network described by nc, with a 1-d input and output
func BuildNet(nc *NetConfig) (*esn.Network, error) {
	var act actfun.Func
	if err := act.FromString(nc.Act); err != nil {
		return nil, err
	}
	in, err := esn.NewInputLayer(1, nc.InDim, nc.InScale, nc.Seed)
	if err != nil {
		return nil, err
	}
	resp := func(inDim int, seed int64) esn.ReservoirParams {
		rp := esn.ReservoirParams{}
		rp.Defaults()
		rp.InDim = inDim
		rp.Nodes = nc.Nodes
		rp.OutDim = nc.OutDim
		rp.Density = nc.Density
		rp.Rho = nc.Rho
		rp.Act = act
		rp.Leak = nc.Leak
		rp.Seed = seed
		return rp
	}
	var res esn.Reservoir
	if nc.Mode == "" {
		if res, err = esn.NewReservoir(resp(nc.InDim, nc.Seed+1)); err != nil {
			return nil, err
		}
	} else {
		var mode esn.Mode
		if err := mode.FromString(nc.Mode); err != nil {
			return nil, err
		}
		if nc.Branches <= 0 {
			return nil, errors.Errorf("composite %v needs at least one branch", mode)
		}
		brs, err := esn.BuildBranches(mode, nc.InDim, nc.Branches, resp(nc.InDim, nc.Seed), nil, nil)
		if err != nil {
			return nil, err
		}
		inty := nc.Intensity
		if len(inty) == 0 && mode != esn.Parallel {
			inty = make([]float64, nc.Branches)
			for i := range inty {
				inty[i] = 1
			}
		}
		if res, err = esn.NewComposite(mode, nc.InDim, brs, inty); err != nil {
			return nil, err
		}
	}
	out, err := esn.NewOutputLayer(res.OutDim(), 1)
	if err != nil {
		return nil, err
	}
	return esn.NewNetwork(nc.Name, in, res, out)
}

// Protocol returns the step-stimulus episode settings
func (tc *TrainConfig) Protocol() stim.StepProtocol {
	return stim.StepProtocol{EpLen: tc.EpLen, FastTau: tc.Tau, SlowTau: tc.SlowTau}
}

// Schedule converts the training section to an esn.TrainConfig
func (tc *TrainConfig) Schedule() (esn.TrainConfig, error) {
	sc := esn.TrainConfig{}
	sc.Defaults()
	sc.Washout = tc.Washout
	sc.ChangePoint = tc.ChangePoint
	if len(tc.Dropout) > 0 {
		sc.Dropout = esn.MaskFromInts(tc.Dropout...)
	}
	if tc.ChangeUnit != "" {
		if err := sc.ChangeUnit.FromString(tc.ChangeUnit); err != nil {
			return sc, err
		}
	}
	return sc, nil
}
