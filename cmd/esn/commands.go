// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/emer/esn/esn"
	"github.com/emer/esn/stim"
	"github.com/emer/esn/sweep"
	"github.com/emer/etable/v2/etable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	fitMode  string
	fitWts   string
	sweepOut string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the network hyperparameters and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		net, err := BuildNet(&fc.Net)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), net.Info())
		return nil
	},
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the readout to step-stimulus episodes and report test NRMSE",
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if fitMode != "" {
			fc.Net.Mode = fitMode
		}
		if fitWts != "" {
			fc.Train.WtsFile = fitWts
		}
		nrmse, err := Fit(fc, newRunID())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "NRMSE: %.6f\n", nrmse)
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the spectral radius sweep and write a CSV table",
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		run := newRunID()
		log.WithFields(logrus.Fields{"run": run, "trials": len(fc.Sweep.Rhos())}).Info("sweep start")
		res, err := sweep.RhoSweep(&fc.Sweep, 0, 1)
		if err != nil {
			return err
		}
		fp, err := os.Create(sweepOut)
		if err != nil {
			return err
		}
		defer fp.Close()
		dt := res.Table()
		dt.SetMetaData("run", run)
		if err := dt.WriteCSV(fp, etable.Comma, etable.Headers); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"run": run, "rows": dt.Rows, "file": sweepOut}).Info("sweep done")
		return nil
	},
}

func init() {
	fitCmd.Flags().StringVar(&fitMode, "mode", "", "composite mode, overriding the config (Serial, Parallel, Both, Mixed)")
	fitCmd.Flags().StringVar(&fitWts, "wts", "", "save the readout weights to this file (.gz compresses)")
	sweepCmd.Flags().StringVarP(&sweepOut, "out", "o", "rho_sweep.csv", "output CSV file")
}

// Fit builds the configured network, trains it on synthetic step-stimulus
// episodes and returns the mean test NRMSE
func Fit(fc *FileConfig, run string) (float64, error) {
	net, err := BuildNet(&fc.Net)
	if err != nil {
		return 0, err
	}
	net.Log = log
	net.MetaData["run"] = run
	tc := &fc.Train
	sched, err := tc.Schedule()
	if err != nil {
		return 0, err
	}
	trnIn, trnTrg, err := stepEpisodes(tc, tc.NTrain, sched.ChangePoint, 0)
	if err != nil {
		return 0, err
	}
	tstIn, tstTrg, err := stepEpisodes(tc, tc.NTest, 1, 0.25)
	if err != nil {
		return 0, err
	}
	opt, err := esn.NewTikhonov(net.Res.OutDim(), 1, tc.Beta)
	if err != nil {
		return 0, err
	}
	log.WithFields(logrus.Fields{"run": run, "net": net.Nm, "schedule": sched.String()}).Info("fit start")
	if _, err := net.Train(trnIn, trnTrg, opt, sched); err != nil {
		return 0, err
	}
	nrmse, err := net.Evaluate(tstIn, tstTrg, esn.EvalConfig{Skip: tc.Skip, Mask: sched.Dropout})
	if err != nil {
		return 0, err
	}
	if tc.WtsFile != "" {
		if err := net.SaveWtsJSON(tc.WtsFile); err != nil {
			return 0, err
		}
		log.WithFields(logrus.Fields{"run": run, "file": tc.WtsFile}).Info("saved weights")
	}
	return nrmse, nil
}

// stepEpisodes returns n step-stimulus episodes with the leaky response as
// target: Tau before episode fastN, SlowTau after
func stepEpisodes(tc *TrainConfig, n, fastN int, off float64) ([]esn.Seq, []esn.Seq, error) {
	ins, trgs, err := stim.StepEpisodes(tc.Protocol(), n, fastN, off)
	if err != nil {
		return nil, nil, err
	}
	return esn.Columns(ins), esn.Columns(trgs), nil
}
