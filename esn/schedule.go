// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import "fmt"

// TrainConfig controls how Network.Train steps through its episodes
type TrainConfig struct {
	Washout     int        `def:"0" min:"0" desc:"number of leading steps of each episode whose states are not accumulated into the readout statistics"`
	Dropout     Mask       `desc:"branch mask applied from ChangePoint on -- nil leaves every branch on throughout"`
	ChangePoint int        `min:"0" desc:"point at which Dropout starts to apply, counted in ChangeUnit -- before it every branch is on"`
	ChangeUnit  ChangeUnit `def:"ChangeEpisode" desc:"whether ChangePoint counts episodes or global time steps"`
}

func (tc *TrainConfig) Defaults() {
	tc.Washout = 0
	tc.ChangeUnit = ChangeEpisode
}

// MaskAt returns the branch mask for episode ep and global step gstep
// (counted across all episodes, from 0)
func (tc *TrainConfig) MaskAt(ep, gstep int) Mask {
	if tc.Dropout == nil {
		return nil
	}
	at := ep
	if tc.ChangeUnit == ChangeStep {
		at = gstep
	}
	if at < tc.ChangePoint {
		return nil
	}
	return tc.Dropout
}

// String returns a one-line description of the schedule
func (tc *TrainConfig) String() string {
	return fmt.Sprintf("washout: %d\t dropout: %v\t change point: %d %v", tc.Washout, tc.Dropout, tc.ChangePoint, tc.ChangeUnit)
}
