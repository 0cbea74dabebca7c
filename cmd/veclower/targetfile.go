// Copyright 2025 go-veclower Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/lower"
)

// targetSpec is the YAML shape of a custom target description:
//
//	name: mydsp
//	vector_bits: 512
//	lut_size: 64
//	align_bytes: 64
//	native_widths:
//	  - {elem: i16, lanes: 64, split: 32}
//	  - {elem: i32, lanes: 32, split: 16}
type targetSpec struct {
	Name       string `yaml:"name"`
	VectorBits int    `yaml:"vector_bits"`
	LUTSize    int    `yaml:"lut_size"`
	AlignBytes int    `yaml:"align_bytes"`
	Native     []struct {
		Elem  string `yaml:"elem"`
		Lanes int    `yaml:"lanes"`
		Split int    `yaml:"split"`
	} `yaml:"native_widths"`
}

func loadTargetFile(path string) (lower.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lower.Target{}, err
	}
	tgt, err := parseTarget(data)
	if err != nil {
		return lower.Target{}, fmt.Errorf("%s: %w", path, err)
	}
	return tgt, nil
}

func parseTarget(data []byte) (lower.Target, error) {
	var spec targetSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return lower.Target{}, err
	}
	if spec.VectorBits <= 0 {
		return lower.Target{}, fmt.Errorf("vector_bits must be positive")
	}
	if spec.Name == "" {
		spec.Name = "custom"
	}
	if spec.AlignBytes == 0 {
		spec.AlignBytes = spec.VectorBits / 8
	}

	tgt := lower.Target{
		Name:         spec.Name,
		VectorBits:   spec.VectorBits,
		LUTSize:      spec.LUTSize,
		AlignBytes:   spec.AlignBytes,
		NativeWidths: make(map[ir.Type]int, len(spec.Native)),
	}
	for _, nw := range spec.Native {
		vt, err := parseVecType(nw.Elem, nw.Lanes)
		if err != nil {
			return lower.Target{}, err
		}
		if nw.Split <= 0 || nw.Lanes%nw.Split != 0 {
			return lower.Target{}, fmt.Errorf("native width %s: %d does not split into %d",
				nw.Elem, nw.Lanes, nw.Split)
		}
		tgt.NativeWidths[vt] = nw.Split
	}
	return tgt, nil
}

// parseVecType reads an element name like i16, u32 or f32 and attaches
// the lane count.
func parseVecType(elem string, lanes int) (ir.Type, error) {
	if len(elem) < 2 || lanes <= 0 {
		return ir.Type{}, fmt.Errorf("bad native width entry %q x%d", elem, lanes)
	}
	bits, err := strconv.Atoi(elem[1:])
	if err != nil || bits <= 0 {
		return ir.Type{}, fmt.Errorf("bad element width %q", elem)
	}
	switch elem[0] {
	case 'i':
		return ir.Int(bits, lanes), nil
	case 'u':
		return ir.UInt(bits, lanes), nil
	case 'f':
		return ir.Float(bits, lanes), nil
	}
	return ir.Type{}, fmt.Errorf("bad element kind %q", elem)
}
