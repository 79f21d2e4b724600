// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package esn is the overall repository for the Echo State Network (reservoir computing)
code implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* esn: the core runtime -- input projection, leaky-integrator reservoir layers, the
composite multi-reservoir strategies (Serial, Parallel, Both, Mixed), the linear readout
and the streaming Tikhonov (ridge regression) trainer that fits it.  The Network type
wires these together and provides Train / Predict / Evaluate.

* actfun: the activation functions available to reservoir nodes.

* metric: RMSE and NRMSE scoring of predicted vs. target time series.

* stim: generators for the step and sine stimulus waveforms used to drive reservoirs.

* sweep: the spectral-radius sweep used to map reservoir dynamics toward the edge of chaos.

* examples: these actually compile into runnable programs and provide the starting
point for your own experiments.  examples/stepfit is the place to start for a
multi-reservoir model fit to step-stimulus responses.

* cmd/esn: a command-line front end for the same experiments.
*/
package esn
