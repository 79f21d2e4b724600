// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// chainDims are the (in, nodes, out) of a 3-branch Serial / Mixed chain from a 2-d input
var chainDims = [][3]int{{2, 12, 4}, {4, 10, 4}, {4, 8, 3}}

// ringDims are the reservoir (in, nodes, out) of a 3-branch Both ring:
// the last output feeds the first input
var ringDims = [][3]int{{3, 12, 4}, {4, 10, 5}, {5, 8, 3}}

func newChain(t *testing.T, mode Mode) *Composite {
	t.Helper()
	brs := make([]Branch, len(chainDims))
	for i, d := range chainDims {
		brs[i].Res = newTestRes(t, d[0], d[1], d[2], int64(20+i))
	}
	cp, err := NewComposite(mode, 2, brs, []float64{1, 0.5, 0.8})
	if err != nil {
		t.Fatal(err)
	}
	return cp
}

func newRing(t *testing.T) *Composite {
	t.Helper()
	brs := make([]Branch, len(ringDims))
	for i, d := range ringDims {
		brs[i].Res = newTestRes(t, d[0], d[1], d[2], int64(30+i))
		il, err := NewInputLayer(2, d[0], 1, int64(40+i))
		if err != nil {
			t.Fatal(err)
		}
		brs[i].In = il
	}
	cp, err := NewComposite(Both, 2, brs, []float64{0.3, 0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	return cp
}

func drive(s int) []float64 {
	return []float64{math.Sin(float64(s) / 3), math.Cos(float64(s) / 5)}
}

func TestParallelIsConcat(t *testing.T) {
	mkbr := func() []Branch {
		brs := make([]Branch, 3)
		for i := range brs {
			il, err := NewInputLayer(2, 3, 1, int64(10+i))
			if err != nil {
				t.Fatal(err)
			}
			brs[i] = Branch{In: il, Res: newTestRes(t, 3, 15, 5, int64(i))}
		}
		return brs
	}
	cp, err := NewComposite(Parallel, 2, mkbr(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cp.OutDim() != 15 {
		t.Errorf("Parallel OutDim: got: %d, want: 15\n", cp.OutDim())
	}
	ref := mkbr()
	for s := 0; s < 30; s++ {
		u := drive(s)
		mask := Mask(nil)
		if s%2 == 1 {
			mask = MaskFromInts(1, 1, 1)
		}
		y, err := cp.Apply(u, mask)
		if err != nil {
			t.Fatal(err)
		}
		var want []float64
		for _, br := range ref {
			in, _ := br.In.Apply(u)
			yb, _ := br.Res.Apply(in, nil)
			want = append(want, yb...)
		}
		cmprVals(t, "Parallel concat", y, want, 0)
	}
}

func TestSerialSingleIsPlain(t *testing.T) {
	// the lone branch has no hand-off, so its intensity never touches the input
	for _, inty := range []float64{1, 2, 0} {
		cp, err := NewComposite(Serial, 4, []Branch{{Res: newTestRes(t, 4, 16, 0, 9)}}, []float64{inty})
		if err != nil {
			t.Fatal(err)
		}
		plain := newTestRes(t, 4, 16, 0, 9)
		for s := 0; s < 20; s++ {
			u := []float64{math.Sin(float64(s)), 0.2, -0.3, float64(s%3) - 1}
			y, err := cp.Apply(u, nil)
			if err != nil {
				t.Fatal(err)
			}
			yp, _ := plain.Apply(u, nil)
			cmprVals(t, "Serial single branch", y, yp, 0)
		}
	}
}

func TestChainHandOff(t *testing.T) {
	inty := []float64{1, 0.5, 0.8}
	for _, mode := range []Mode{Serial, Mixed} {
		cp := newChain(t, mode)
		ref := make([]*ReservoirLayer, len(chainDims))
		for i, d := range chainDims {
			ref[i] = newTestRes(t, d[0], d[1], d[2], int64(20+i))
		}
		for s := 0; s < 15; s++ {
			y, err := cp.Apply(drive(s), nil)
			if err != nil {
				t.Fatal(err)
			}
			in := drive(s)
			var all, last []float64
			for i, ly := range ref {
				yb, _ := ly.Apply(in, nil)
				all = append(all, yb...)
				last = yb
				in = make([]float64, len(yb))
				for j, v := range yb {
					in[j] = inty[i] * v
				}
			}
			if mode == Serial {
				cmprVals(t, "Serial hand-off", y, last, 0)
			} else {
				cmprVals(t, "Mixed hand-off", y, all, 0)
			}
		}
	}
}

func TestSerialMask(t *testing.T) {
	cp := newChain(t, Serial)
	if cp.OutDim() != 3 {
		t.Errorf("Serial OutDim: got: %d, want: 3\n", cp.OutDim())
	}
	// a masked first branch hands off zeros, so the rest of the chain stays at rest
	for s := 0; s < 10; s++ {
		y, err := cp.Apply(drive(s), MaskFromInts(0, 1, 1))
		if err != nil {
			t.Fatal(err)
		}
		cmprVals(t, "Serial masked hand-off", y, []float64{0, 0, 0}, 0)
	}
	y, err := cp.Apply(drive(11), MaskFromInts(1, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	cmprVals(t, "Serial masked last", y, []float64{0, 0, 0}, 0)
}

// checkMasked runs two identical composites, one masked, and checks that
// exactly the masked branch slices are zero and everything else matches
func checkMasked(t *testing.T, nm string, a, b *Composite, mask Mask) {
	t.Helper()
	for s := 0; s < 25; s++ {
		u := drive(s)
		ya, err := a.Apply(u, nil)
		if err != nil {
			t.Fatal(err)
		}
		yb, err := b.Apply(u, mask)
		if err != nil {
			t.Fatal(err)
		}
		for bi := 0; bi < a.NBranches(); bi++ {
			st, ed := a.BranchRange(bi)
			if mask[bi] {
				cmprVals(t, nm+" unmasked slice", yb[st:ed], ya[st:ed], 0)
			} else {
				cmprVals(t, nm+" masked slice", yb[st:ed], make([]float64, ed-st), 0)
			}
		}
	}
}

func TestMixedMask(t *testing.T) {
	a := newChain(t, Mixed)
	if a.OutDim() != 11 {
		t.Errorf("Mixed OutDim: got: %d, want: 11\n", a.OutDim())
	}
	checkMasked(t, "Mixed", a, newChain(t, Mixed), MaskFromInts(1, 0, 1))
}

func TestBothMask(t *testing.T) {
	a := newRing(t)
	if a.OutDim() != 12 {
		t.Errorf("Both OutDim: got: %d, want: 12\n", a.OutDim())
	}
	checkMasked(t, "Both", a, newRing(t), MaskFromInts(0, 1, 1))
}

func TestBothReset(t *testing.T) {
	cp := newRing(t)
	var first [][]float64
	for s := 0; s < 10; s++ {
		y, err := cp.Apply(drive(s), nil)
		if err != nil {
			t.Fatal(err)
		}
		first = append(first, y)
	}
	cp.ResetState()
	for s := 0; s < 10; s++ {
		y, _ := cp.Apply(drive(s), nil)
		cmprVals(t, "Both after reset", y, first[s], 0)
	}
}

func TestCompositeErrors(t *testing.T) {
	r := func(in, out int) *ReservoirLayer { return newTestRes(t, in, 6, out, 1) }
	il := func(in, out int) *InputLayer {
		l, _ := NewInputLayer(in, out, 1, 1)
		return l
	}
	cases := []struct {
		nm    string
		mode  Mode
		brs   []Branch
		inty  []float64
		isDim bool
	}{
		{"serial hand-off", Serial, []Branch{{Res: r(2, 4)}, {Res: r(3, 3)}}, []float64{1, 1}, true},
		{"serial first input", Serial, []Branch{{Res: r(3, 4)}}, []float64{1}, true},
		{"serial with input layer", Serial, []Branch{{In: il(2, 2), Res: r(2, 4)}}, []float64{1}, false},
		{"intensity count", Mixed, []Branch{{Res: r(2, 4)}, {Res: r(4, 3)}}, []float64{1}, true},
		{"parallel no input layer", Parallel, []Branch{{Res: r(2, 4)}}, nil, false},
		{"parallel input layer out", Parallel, []Branch{{In: il(2, 3), Res: r(2, 4)}}, nil, true},
		{"both ring", Both, []Branch{{In: il(2, 2), Res: r(2, 4)}, {In: il(2, 4), Res: r(4, 3)}}, []float64{1, 1}, true},
		{"no branches", Parallel, nil, nil, false},
	}
	for _, c := range cases {
		_, err := NewComposite(c.mode, 2, c.brs, c.inty)
		if err == nil {
			t.Errorf("%s: expected error\n", c.nm)
			continue
		}
		if c.isDim && errors.Cause(err) != ErrDim {
			t.Errorf("%s: expected ErrDim, got: %v\n", c.nm, err)
		}
	}
	cp := newChain(t, Mixed)
	if _, err := cp.Apply(drive(0), MaskFromInts(1, 1)); errors.Cause(err) != ErrDim {
		t.Errorf("short mask should be ErrDim, got: %v\n", err)
	}
	if _, err := cp.Apply([]float64{1}, nil); errors.Cause(err) != ErrDim {
		t.Errorf("short input should be ErrDim, got: %v\n", err)
	}
}

func TestBothHandOff(t *testing.T) {
	brs := make([]Branch, len(ringDims))
	ref := make([]Branch, len(ringDims))
	for i, d := range ringDims {
		brs[i].Res = newTestRes(t, d[0], d[1], d[2], int64(30+i))
		ref[i].Res = newTestRes(t, d[0], d[1], d[2], int64(30+i))
		brs[i].In, _ = NewInputLayer(2, d[0], 1, int64(40+i))
		ref[i].In, _ = NewInputLayer(2, d[0], 1, int64(40+i))
	}
	// only branch 0 hands off, so the ring into branch 0 and the 1 -> 2 link carry nothing
	cp, err := NewComposite(Both, 2, brs, []float64{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	for s := 0; s < 15; s++ {
		u := drive(s)
		y, err := cp.Apply(u, nil)
		if err != nil {
			t.Fatal(err)
		}
		in0, _ := ref[0].In.Apply(u)
		y0, _ := ref[0].Res.Apply(in0, nil)
		in1, _ := ref[1].In.Apply(u)
		for j := range in1 {
			in1[j] += y0[j]
		}
		y1, _ := ref[1].Res.Apply(in1, nil)
		in2, _ := ref[2].In.Apply(u)
		y2, _ := ref[2].Res.Apply(in2, nil)
		want := append(append(append([]float64{}, y0...), y1...), y2...)
		cmprVals(t, "Both hand-off", y, want, 1e-14)
	}
}

func TestBuildBranches(t *testing.T) {
	rp := ReservoirParams{}
	rp.Defaults()
	rp.Nodes = 10
	rp.OutDim = 4
	rp.Seed = 5
	leaks := []float64{0.2, 0.4, 0.6}
	adj := func(bi int, bp *ReservoirParams) { bp.Leak = leaks[bi] }
	for _, mode := range []Mode{Serial, Parallel, Both, Mixed} {
		brs, err := BuildBranches(mode, 3, 3, rp, nil, adj)
		if err != nil {
			t.Fatalf("%v: %v\n", mode, err)
		}
		for i, br := range brs {
			p := br.Res.Params
			wantIn := 4
			if i == 0 && !mode.UsesInputLayers() {
				wantIn = 3
			}
			if p.InDim != wantIn || p.OutDim != 4 || p.Seed != 5+10*int64(i+1) || p.Leak != leaks[i] {
				t.Errorf("%v branch %d: params %+v\n", mode, i, p)
			}
			if (br.In != nil) != mode.UsesInputLayers() {
				t.Errorf("%v branch %d: input layer %v\n", mode, i, br.In != nil)
			}
		}
		inty := []float64{1, 1, 1}
		if _, err := NewComposite(mode, 3, brs, inty); err != nil {
			t.Errorf("%v: branches do not chain: %v\n", mode, err)
		}
	}
	// same seed rule as building the branch by hand
	brs, _ := BuildBranches(Mixed, 3, 2, rp, nil, nil)
	bp := rp
	bp.InDim = 4
	bp.Seed = 25
	ly, err := NewReservoir(bp)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(brs[1].Res.Rec, ly.Rec) || !mat.Equal(brs[1].Res.In, ly.In) {
		t.Errorf("branch 1 weights differ from a reservoir seeded 25\n")
	}
	if _, err := BuildBranches(Both, 3, 2, rp, []float64{1}, nil); errors.Cause(err) != ErrDim {
		t.Errorf("short input scales should be ErrDim, got: %v\n", err)
	}
}

func TestColumns(t *testing.T) {
	sqs := Columns([][]float64{{1, 2}, {3}})
	if len(sqs) != 2 || len(sqs[0]) != 2 || sqs[0][1][0] != 2 || sqs[1][0][0] != 3 {
		t.Errorf("Columns: got %v\n", sqs)
	}
}
