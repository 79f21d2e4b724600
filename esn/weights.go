// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package esn

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/goki/ki/indent"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// The input and reservoir weights are fully determined by their seeds, so
// only the trained readout is written, along with the network MetaData.

// ReadoutWts is the decoded form of a weights file
type ReadoutWts struct {
	Network  string
	MetaData map[string]string
	InDim    int
	OutDim   int
	Wts      [][]float64 // OutDim rows of InDim values
}

// SaveWtsJSON saves the readout weights to a JSON-formatted file.
// If filename has .gz extension, then file is gzip compressed.
func (nt *Network) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "esn.SaveWtsJSON")
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		return nt.WriteWtsJSON(gzr)
	}
	return nt.WriteWtsJSON(fp)
}

// OpenWtsJSON opens readout weights from a JSON-formatted file.
// If filename has .gz extension, then file is gzip uncompressed.
func (nt *Network) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "esn.OpenWtsJSON")
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			return errors.Wrap(err, "esn.OpenWtsJSON")
		}
		defer gzr.Close()
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the readout weights in a JSON text format.
// We build in the indentation logic to make it much faster and
// more efficient.
func (nt *Network) WriteWtsJSON(w io.Writer) error {
	if !nt.Out.Trained() {
		return ErrNoWeights
	}
	r, c := nt.Out.Wts.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := nt.Out.Wts.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Errorf("esn.WriteWtsJSON: readout weight [%d, %d] is %g, which JSON cannot hold", i, j, v)
			}
		}
	}
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %s,\n", jsonString(nt.Nm))))
	w.Write(indent.TabBytes(depth))
	if len(nt.MetaData) == 0 {
		w.Write([]byte("\"MetaData\": null,\n"))
	} else {
		w.Write([]byte("\"MetaData\": {\n"))
		depth++
		keys := make([]string, 0, len(nt.MetaData))
		for k := range nt.MetaData {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for ki, k := range keys {
			w.Write(indent.TabBytes(depth))
			w.Write([]byte(fmt.Sprintf("%s: %s", jsonString(k), jsonString(nt.MetaData[k]))))
			if ki < len(keys)-1 {
				w.Write([]byte(","))
			}
			w.Write([]byte("\n"))
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("},\n"))
	}
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"InDim\": %d,\n", c)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"OutDim\": %d,\n", r)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Wts\": [\n"))
	depth++
	for i := 0; i < r; i++ {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("["))
		for j := 0; j < c; j++ {
			if j > 0 {
				w.Write([]byte(", "))
			}
			w.Write([]byte(strconv.FormatFloat(nt.Out.Wts.At(i, j), 'g', -1, 64)))
		}
		if i == r-1 {
			w.Write([]byte("]\n"))
		} else {
			w.Write([]byte("],\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	_, err := w.Write([]byte("}\n"))
	return err
}

// jsonString returns s as a quoted JSON string
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// ReadWtsJSON reads readout weights in the JSON format written by
// WriteWtsJSON and sets them on Out, merging any MetaData.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	var rw ReadoutWts
	if err := json.NewDecoder(r).Decode(&rw); err != nil {
		return errors.Wrap(err, "esn.ReadWtsJSON")
	}
	if rw.OutDim != nt.Out.OutDim() || rw.InDim != nt.Out.InDim() || len(rw.Wts) != rw.OutDim {
		return errors.Wrapf(ErrDim, "esn.ReadWtsJSON: file is %d x %d, readout is %d x %d", rw.OutDim, rw.InDim, nt.Out.OutDim(), nt.Out.InDim())
	}
	w := mat.NewDense(rw.OutDim, rw.InDim, nil)
	for i, row := range rw.Wts {
		if len(row) != rw.InDim {
			return errors.Wrapf(ErrDim, "esn.ReadWtsJSON: row %d has %d values, want %d", i, len(row), rw.InDim)
		}
		w.SetRow(i, row)
	}
	if err := nt.Out.SetWeights(w); err != nil {
		return err
	}
	if rw.Network != "" {
		nt.Nm = rw.Network
	}
	if nt.MetaData == nil {
		nt.MetaData = make(map[string]string)
	}
	for k, v := range rw.MetaData {
		nt.MetaData[k] = v
	}
	return nil
}
