// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/emer/etable/v2/etable"
)

func smallConfig() *Config {
	cf := &Config{}
	cf.Defaults()
	cf.RhoMax = 1.5
	cf.RhoStep = 0.25
	cf.Steps = 300
	cf.Transient = 100
	cf.Nodes = 20
	cf.NThreads = 3
	return cf
}

func TestRhos(t *testing.T) {
	cf := &Config{}
	cf.Defaults()
	rhos := cf.Rhos()
	if len(rhos) != 200 {
		t.Errorf("default grid: got %d points, want 200\n", len(rhos))
	}
	if rhos[0] != 0 || math.Abs(rhos[len(rhos)-1]-3.98) > 1.0e-12 {
		t.Errorf("default grid ends: %v, %v\n", rhos[0], rhos[len(rhos)-1])
	}
	if cf.NSamp() != 20 {
		t.Errorf("default NSamp: got %d, want 20\n", cf.NSamp())
	}
	if len(smallConfig().Rhos()) != 6 {
		t.Errorf("small grid: got %v\n", smallConfig().Rhos())
	}
}

func TestRhoSweepRanks(t *testing.T) {
	cf := smallConfig()
	all, err := RhoSweep(cf, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if all.NDone() != 6 {
		t.Errorf("all trials should be done: %d\n", all.NDone())
	}
	cf.NThreads = 1
	r0, err := RhoSweep(cf, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	r1, err := RhoSweep(cf, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if r0.NDone() != 3 || r1.NDone() != 3 {
		t.Errorf("rank split: %d + %d\n", r0.NDone(), r1.NDone())
	}
	if err := r0.Merge(r1); err != nil {
		t.Fatal(err)
	}
	for i, v := range all.Data {
		if r0.Data[i] != v {
			t.Errorf("merged ranks differ at %d: %v vs %v\n", i, r0.Data[i], v)
			break
		}
	}
	for _, v := range all.Data {
		if v < -1 || v > 1 {
			t.Errorf("tanh state out of range: %v\n", v)
			break
		}
	}
}

func TestLowRhoIsPeriodic(t *testing.T) {
	// with no recurrence the state follows the input, which is the same at every sample
	cf := smallConfig()
	smp, err := Trial(cf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(smp) != cf.NSamp() {
		t.Fatalf("Trial samples: got %d, want %d\n", len(smp), cf.NSamp())
	}
	for s := 1; s < len(smp); s++ {
		for k := range smp[s] {
			if dif := math.Abs(smp[s][k] - smp[0][k]); dif > 1.0e-9 {
				t.Errorf("rho 0 sample %d node %d: %v vs %v\n", s, k, smp[s][k], smp[0][k])
			}
		}
	}
}

func TestTable(t *testing.T) {
	cf := smallConfig()
	rs, err := RhoSweep(cf, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	dt := rs.Table()
	if dt.Rows != 3*cf.NSamp() {
		t.Errorf("table rows: got %d, want %d\n", dt.Rows, 3*cf.NSamp())
	}
	if rho := dt.CellFloat("Rho", 0); rho != 0.25 {
		t.Errorf("first owned rho: got %v, want 0.25\n", rho)
	}
	var b bytes.Buffer
	if err := dt.WriteCSV(&b, etable.Comma, etable.Headers); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "Rho") || !strings.Contains(b.String(), "P3") {
		t.Errorf("csv header missing columns:\n%s\n", b.String())
	}
}

func TestConfigErrors(t *testing.T) {
	mod := []func(cf *Config){
		func(cf *Config) { cf.RhoStep = 0 },
		func(cf *Config) { cf.RhoMax = cf.RhoMin },
		func(cf *Config) { cf.Transient = cf.Steps },
		func(cf *Config) { cf.NState = cf.Nodes + 1 },
	}
	for i, fn := range mod {
		cf := smallConfig()
		fn(cf)
		if _, err := RhoSweep(cf, 0, 1); err == nil {
			t.Errorf("config case %d should be an error\n", i)
		}
	}
	if _, err := RhoSweep(smallConfig(), 2, 2); err == nil {
		t.Errorf("rank out of range should be an error\n")
	}
}
