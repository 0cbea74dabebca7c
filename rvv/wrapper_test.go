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

package rvv

import (
	"strings"
	"testing"
)

func TestModuleWrappers(t *testing.T) {
	g := Generator{VectorBits: 128}
	s := g.Module().String()

	for _, want := range []string{
		"@rvv_halving_add_i16(",
		"declare <8 x i16> @llvm.riscv.vaadd.v8i16.v8i16.i64",
		"alwaysinline",
		"nounwind",
		"readnone",
		"internal",
		// plain and rounding averages program opposite vxrm modes
		`csrwi vxrm, 2`,
		`csrwi vxrm, 0`,
		"sideeffect",
		// undef passthru and the constant vector length
		"<8 x i16> undef",
		"i64 8",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("module is missing %q:\n%s", want, s)
		}
	}
}

func TestModuleDeduplicatesDeclarations(t *testing.T) {
	g := Generator{VectorBits: 128}
	m := g.Module()

	// Plain and rounding halving_add share one vaadd declaration per
	// width.
	n := 0
	for _, f := range m.Funcs {
		if f.Name() == "llvm.riscv.vaadd.v8i16.v8i16.i64" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("vaadd declared %d times, want 1", n)
	}
}

func TestModuleScalableTypes(t *testing.T) {
	g := Generator{VectorBits: 128, Scalable: true}
	s := g.Module().String()
	if !strings.Contains(s, "<vscale x 8 x i16>") {
		t.Errorf("scalable generator did not emit vscale types")
	}
	if !strings.Contains(s, "@llvm.riscv.vaadd.nxv8i16.nxv8i16.i64") {
		t.Errorf("scalable generator did not mangle nxv names")
	}
}

func TestWrappersMetadata(t *testing.T) {
	g := Generator{VectorBits: 128}
	bySymbol := make(map[string]Wrapper)
	for _, w := range g.Wrappers() {
		if prev, dup := bySymbol[w.Symbol]; dup {
			t.Errorf("duplicate wrapper symbol %q (%+v, %+v)", w.Symbol, prev, w)
		}
		bySymbol[w.Symbol] = w
	}

	w, ok := bySymbol["rvv_widening_mul_i32"]
	if !ok {
		t.Fatalf("widening_mul i32 wrapper missing")
	}
	if w.Intrinsic != "llvm.riscv.vwmul.v4i64.v4i32.v4i32.i64" {
		t.Errorf("widening_mul i32 intrinsic = %q", w.Intrinsic)
	}

	// Halving scales all the way to 64 bit elements; widening stops a
	// scale earlier.
	if _, ok := bySymbol["rvv_halving_add_i64"]; !ok {
		t.Errorf("halving_add i64 wrapper missing")
	}
	if _, ok := bySymbol["rvv_widening_add_i64"]; ok {
		t.Errorf("widening_add i64 would need a 128 bit result")
	}
}
