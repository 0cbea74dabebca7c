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
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/imports"

	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/lower"
)

// bindTable names the wrapper instance serving each lowered intrinsic
// with a direct RISC-V vector form. Single widening operations bind
// even though the DSP accumulates at 48 bits: one add or product of 16
// bit operands fits a 32 bit result. Multi-operation accumulator
// intrinsics have no single instruction here and stay unbound.
var bindTable = map[string]struct {
	op   string
	elem ir.Type
}{
	"vdsp_avg_i16":       {"halving_add", ir.Int(16)},
	"vdsp_avg_u16":       {"halving_add", ir.UInt(16)},
	"vdsp_avg_round_i16": {"rounding_halving_add", ir.Int(16)},
	"vdsp_avg_round_u16": {"rounding_halving_add", ir.UInt(16)},
	"vdsp_widen_add_i48": {"widening_add", ir.Int(16)},
	"vdsp_widen_add_u48": {"widening_add", ir.UInt(16)},
	"vdsp_widen_sub_i48": {"widening_sub", ir.Int(16)},
	"vdsp_widen_sub_u48": {"widening_sub", ir.UInt(16)},
	"vdsp_widen_mul_i48": {"widening_mul", ir.Int(16)},
	"vdsp_widen_mul_u48": {"widening_mul", ir.UInt(16)},
	"vdsp_widen_mul_i64": {"widening_mul", ir.Int(32)},
}

// EmitBindings renders a generated Go source file for package pkg
// mapping lowered intrinsic names to the generator's wrapper symbols.
func EmitBindings(pkg string, g Generator) ([]byte, error) {
	bySig := make(map[string]Wrapper)
	for _, w := range g.Wrappers() {
		bySig[w.Op+"/"+typeSuffix(w.Elem)] = w
	}

	type binding struct {
		intrin, ident, symbol string
	}
	var bound []binding
	for _, name := range lower.Intrinsics() {
		want, ok := bindTable[name]
		if !ok {
			continue
		}
		w, ok := bySig[want.op+"/"+typeSuffix(want.elem)]
		if !ok {
			return nil, fmt.Errorf("rvv: no %s wrapper for %s", want.op, name)
		}
		bound = append(bound, binding{intrin: name, ident: goName(name), symbol: w.Symbol})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by veclower; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("// Wrapper symbols for the lowered intrinsics with a RISC-V vector form.\n")
	b.WriteString("const (\n")
	for _, bd := range bound {
		fmt.Fprintf(&b, "\t%s = %q\n", bd.ident, bd.symbol)
	}
	b.WriteString(")\n\n")
	b.WriteString("// Bindings maps lowered intrinsic names to wrapper symbols.\n")
	b.WriteString("var Bindings = map[string]string{\n")
	for _, bd := range bound {
		fmt.Fprintf(&b, "\t%q: %s,\n", bd.intrin, bd.ident)
	}
	b.WriteString("}\n")

	return imports.Process("bindings.go", []byte(b.String()), nil)
}

// goName converts an intrinsic name to an exported Go identifier,
// vdsp_avg_u16 to VdspAvgU16.
func goName(intrin string) string {
	caser := cases.Title(language.English)
	parts := strings.Split(intrin, "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "")
}
