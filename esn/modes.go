// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import "github.com/goki/ki/kit"

// Mode is the strategy a Composite uses to combine its reservoir branches
type Mode int32

//go:generate stringer -type=Mode

var KiT_Mode = kit.Enums.AddEnum(ModeN, kit.NotBitFlag, nil)

func (ev Mode) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Mode) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The composite reservoir strategies
const (
	// Serial chains the branches: the first branch is driven by the input,
	// and each later branch by the previous branch's output scaled by the
	// previous branch's intensity.  Only the last branch's output is exposed.
	Serial Mode = iota

	// Parallel drives every branch from the shared input through its own
	// InputLayer, and concatenates the branch outputs.
	Parallel

	// Both combines Parallel's per-branch InputLayers and concatenated output
	// with Serial's chaining: each branch also receives the previous branch's
	// output scaled by that branch's intensity, and the first branch receives
	// the last branch's output from the previous step, scaled the same way.
	Both

	// Mixed chains the branches as in Serial (no per-branch InputLayers),
	// but concatenates the outputs of every branch.
	Mixed

	ModeN
)

// UsesInputLayers returns whether branches in this mode have their own InputLayer
func (ev Mode) UsesInputLayers() bool {
	return ev == Parallel || ev == Both
}

// Concats returns whether the output is the concatenation of all branch outputs
func (ev Mode) Concats() bool {
	return ev != Serial
}

// ChangeUnit is the unit in which a training ChangePoint is counted
type ChangeUnit int32

//go:generate stringer -type=ChangeUnit

var KiT_ChangeUnit = kit.Enums.AddEnum(ChangeUnitN, kit.NotBitFlag, nil)

func (ev ChangeUnit) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ChangeUnit) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// ChangeEpisode counts the change point in training episodes
	ChangeEpisode ChangeUnit = iota

	// ChangeStep counts the change point in time steps across all episodes
	ChangeStep

	ChangeUnitN
)
