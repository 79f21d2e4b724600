// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import "testing"

func TestMaskAt(t *testing.T) {
	drop := MaskFromInts(1, 1, 1, 0)
	tc := TrainConfig{}
	tc.Defaults()
	if m := tc.MaskAt(10, 100); m != nil {
		t.Errorf("no dropout should give nil mask, got: %v\n", m)
	}
	tc.Dropout = drop
	tc.ChangePoint = 5
	for ep := 0; ep < 8; ep++ {
		m := tc.MaskAt(ep, 1000)
		if want := ep >= 5; (m != nil) != want {
			t.Errorf("episode change point: ep: %d, mask: %v\n", ep, m)
		}
	}
	tc.ChangeUnit = ChangeStep
	tc.ChangePoint = 30
	if m := tc.MaskAt(9, 29); m != nil {
		t.Errorf("step change point: before: %v\n", m)
	}
	if m := tc.MaskAt(0, 30); m.String() != "1110" {
		t.Errorf("step change point: at: %v\n", m)
	}
}

func TestModeStrings(t *testing.T) {
	for m := Serial; m < ModeN; m++ {
		var n Mode
		if err := n.FromString(m.String()); err != nil || n != m {
			t.Errorf("Mode round trip: %v -> %v, err: %v\n", m, n, err)
		}
	}
	var n Mode
	if err := n.FromString("Ring"); err == nil {
		t.Errorf("unknown mode name should be an error\n")
	}
	if Serial.Concats() || !Mixed.Concats() || Mixed.UsesInputLayers() || !Both.UsesInputLayers() {
		t.Errorf("mode predicates wrong\n")
	}
	var cu ChangeUnit
	if err := cu.FromString("ChangeStep"); err != nil || cu != ChangeStep {
		t.Errorf("ChangeUnit FromString: %v, err: %v\n", cu, err)
	}
	if Mask(nil).String() != "all" || MaskFromInts(0, 1).String() != "01" {
		t.Errorf("Mask String wrong\n")
	}
}
