// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sweep runs the spectral radius ("edge of chaos") sweep: a single
reservoir is driven by a sine wave at each rho on a grid, and after a
transient the first few node states are sampled once per input period.
For small rho the samples collapse onto one point per node (the state
follows the input); past the edge of chaos they scatter.

Trials are independent, each with its own layers, so they are spread over
a pool of worker goroutines, and over MPI ranks by the caller (see RhoSweep).
*/
package sweep

import (
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"

	"github.com/emer/emergent/v2/timer"
	"github.com/emer/esn/actfun"
	"github.com/emer/esn/esn"
	"github.com/emer/esn/stim"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/pkg/errors"
)

// Config has the sweep grid and the reservoir driven at each grid point
type Config struct {

	// first rho value
	RhoMin float64 `default:"0"`

	// rho values run up to but not including RhoMax
	RhoMax float64 `default:"4"`

	// grid spacing
	RhoStep float64 `default:"0.02"`

	// total number of input steps per trial
	Steps int `default:"2000"`

	// input sine period, in steps -- also the sampling interval
	Period int `default:"50"`

	// number of leading steps not sampled
	Transient int `default:"1000"`

	// number of reservoir nodes
	Nodes int `default:"100"`

	// recurrent connection density
	Density float64 `default:"0.24"`

	// input layer scale
	InScale float64 `default:"1"`

	// leaking rate
	Leak float64 `default:"1"`

	// number of leading nodes whose states are sampled
	NState int `default:"3"`

	// seed for the input layer -- the reservoir uses Seed+1, the same weights at every rho
	Seed int64 `default:"0"`

	// number of worker goroutines -- 0 = GOMAXPROCS
	NThreads int `default:"0"`
}

func (cf *Config) Defaults() {
	cf.RhoMin = 0
	cf.RhoMax = 4
	cf.RhoStep = 0.02
	cf.Steps = 2000
	cf.Period = 50
	cf.Transient = 1000
	cf.Nodes = 100
	cf.Density = 0.24
	cf.InScale = 1
	cf.Leak = 1
	cf.NState = 3
}

// Validate returns an error for an empty grid or sampling window
func (cf *Config) Validate() error {
	switch {
	case cf.RhoStep <= 0:
		return errors.Errorf("sweep: RhoStep must be positive, got %g", cf.RhoStep)
	case cf.RhoMax <= cf.RhoMin:
		return errors.Errorf("sweep: empty rho range [%g, %g)", cf.RhoMin, cf.RhoMax)
	case cf.Period <= 0:
		return errors.Errorf("sweep: Period must be positive, got %d", cf.Period)
	case cf.Transient < 0 || cf.Transient >= cf.Steps:
		return errors.Errorf("sweep: Transient %d leaves no samples of %d steps", cf.Transient, cf.Steps)
	case cf.NState <= 0 || cf.NState > cf.Nodes:
		return errors.Errorf("sweep: NState %d outside [1, Nodes=%d]", cf.NState, cf.Nodes)
	}
	return nil
}

// Rhos returns the grid RhoMin, RhoMin + RhoStep, ... < RhoMax
func (cf *Config) Rhos() []float64 {
	n := int(math.Ceil((cf.RhoMax-cf.RhoMin)/cf.RhoStep - 1e-9))
	rhos := make([]float64, n)
	for i := range rhos {
		rhos[i] = cf.RhoMin + float64(i)*cf.RhoStep
	}
	return rhos
}

// NSamp returns the number of sampled steps per trial
func (cf *Config) NSamp() int {
	return (cf.Steps - cf.Transient + cf.Period - 1) / cf.Period
}

// Trial drives a fresh network at the given rho and returns NSamp rows
// of the first NState node states
func Trial(cf *Config, rho float64) ([][]float64, error) {
	il, err := esn.NewInputLayer(1, cf.Nodes, cf.InScale, cf.Seed)
	if err != nil {
		return nil, err
	}
	rp := esn.ReservoirParams{}
	rp.Defaults()
	rp.InDim = cf.Nodes
	rp.Nodes = cf.Nodes
	rp.OutDim = cf.NState
	rp.Density = cf.Density
	rp.Rho = rho
	rp.Act = actfun.Tanh
	rp.Leak = cf.Leak
	rp.Seed = cf.Seed + 1
	ly, err := esn.NewReservoir(rp)
	if err != nil {
		return nil, err
	}
	u := stim.Sine(cf.Steps, float64(cf.Period), 1)
	smp := make([][]float64, 0, cf.NSamp())
	for t, v := range u {
		x, err := il.Apply([]float64{v})
		if err != nil {
			return nil, err
		}
		y, err := ly.Apply(x, nil)
		if err != nil {
			return nil, err
		}
		if t >= cf.Transient && (t-cf.Transient)%cf.Period == 0 {
			smp = append(smp, y)
		}
	}
	return smp, nil
}

// Result holds the samples of every trial, laid out flat so results from
// several ranks can be summed into one (trials not run locally are zero).
type Result struct {
	Rhos   []float64
	NSamp  int
	NState int

	// samples: Data[(ri*NSamp + s)*NState + k] is node k at sample s of trial ri
	Data []float64

	// 1 for each trial that has been run
	Done []float64

	// seconds spent in each worker
	ThrTimes []timer.Time
}

// NewResult returns an empty result for the grid of cf
func NewResult(cf *Config) *Result {
	rs := &Result{Rhos: cf.Rhos(), NSamp: cf.NSamp(), NState: cf.NState}
	rs.Data = make([]float64, len(rs.Rhos)*rs.NSamp*rs.NState)
	rs.Done = make([]float64, len(rs.Rhos))
	return rs
}

func (rs *Result) set(ri int, smp [][]float64) {
	st := ri * rs.NSamp * rs.NState
	for s, row := range smp {
		copy(rs.Data[st+s*rs.NState:], row)
	}
	rs.Done[ri] = 1
}

// At returns node k at sample s of trial ri
func (rs *Result) At(ri, s, k int) float64 {
	return rs.Data[(ri*rs.NSamp+s)*rs.NState+k]
}

// Merge adds the trials of o, from another rank, into rs
func (rs *Result) Merge(o *Result) error {
	if len(o.Data) != len(rs.Data) || len(o.Done) != len(rs.Done) {
		return errors.Errorf("sweep.Result.Merge: shapes differ")
	}
	for i, v := range o.Data {
		rs.Data[i] += v
	}
	for i, v := range o.Done {
		rs.Done[i] += v
	}
	return nil
}

// NDone returns the number of trials that have been run
func (rs *Result) NDone() int {
	n := 0
	for _, d := range rs.Done {
		if d > 0 {
			n++
		}
	}
	return n
}

// RhoSweep runs the trials owned by rank (every size-th grid point starting
// at rank) on a pool of worker goroutines.  Use rank 0 and size 1 to run all.
func RhoSweep(cf *Config, rank, size int) (*Result, error) {
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 || rank < 0 || rank >= size {
		return nil, errors.Errorf("sweep.RhoSweep: rank %d outside [0, %d)", rank, size)
	}
	rs := NewResult(cf)
	nthr := cf.NThreads
	if nthr <= 0 {
		nthr = runtime.GOMAXPROCS(0)
	}
	rs.ThrTimes = make([]timer.Time, nthr)
	jobs := make(chan int)
	errs := make([]error, nthr)
	var wg sync.WaitGroup
	for th := 0; th < nthr; th++ {
		wg.Add(1)
		go func(th int) {
			defer wg.Done()
			for ri := range jobs {
				if errs[th] != nil {
					continue
				}
				rs.ThrTimes[th].Start()
				smp, err := Trial(cf, rs.Rhos[ri])
				rs.ThrTimes[th].Stop()
				if err != nil {
					errs[th] = errors.Wrapf(err, "sweep trial rho %g", rs.Rhos[ri])
					continue
				}
				rs.set(ri, smp)
			}
		}(th)
	}
	for ri := range rs.Rhos {
		if ri%size == rank {
			jobs <- ri
		}
	}
	close(jobs)
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// ConfigTable configures dt to hold one row per sample: Rho, Sample, and
// one column per sampled node
func (rs *Result) ConfigTable(dt *etable.Table) {
	dt.SetMetaData("name", "RhoSweep")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(6))
	sch := etable.Schema{
		{"Rho", etensor.FLOAT64, nil, nil},
		{"Sample", etensor.INT64, nil, nil},
	}
	for k := 0; k < rs.NState; k++ {
		sch = append(sch, etable.Column{fmt.Sprintf("P%d", k+1), etensor.FLOAT64, nil, nil})
	}
	dt.SetFromSchema(sch, 0)
}

// Table returns the completed trials as an etable
func (rs *Result) Table() *etable.Table {
	dt := &etable.Table{}
	rs.ConfigTable(dt)
	dt.SetNumRows(rs.NDone() * rs.NSamp)
	row := 0
	for ri, rho := range rs.Rhos {
		if rs.Done[ri] == 0 {
			continue
		}
		for s := 0; s < rs.NSamp; s++ {
			dt.SetCellFloat("Rho", row, rho)
			dt.SetCellFloat("Sample", row, float64(s))
			for k := 0; k < rs.NState; k++ {
				dt.SetCellFloat(fmt.Sprintf("P%d", k+1), row, rs.At(ri, s, k))
			}
			row++
		}
	}
	return dt
}
