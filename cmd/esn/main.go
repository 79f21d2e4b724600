// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// esn is the command-line front end for building, fitting and sweeping
// echo state networks from a TOML config file.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	log     = logrus.New()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "esn",
	Short: "Echo state network runner",
	Long: `esn builds an echo state network from a TOML config and either
prints its description (info), fits its readout to synthetic step-stimulus
episodes (fit), or runs a spectral radius sweep (sweep).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// newRunID returns a fresh id used to tag outputs of one invocation
func newRunID() string {
	return uuid.New().String()
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(infoCmd, fitCmd, sweepCmd)
}
