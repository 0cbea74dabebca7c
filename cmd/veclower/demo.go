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
	"sort"
	"strings"

	"github.com/ajroetker/go-veclower/ir"
)

var demoBuilders = map[string]func() ir.Stmt{
	"blur": buildBlur,
}

func demos() []string {
	names := make([]string, 0, len(demoBuilders))
	for name := range demoBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildDemo(name string) (ir.Stmt, error) {
	build, ok := demoBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo: %s (valid: %s)", name, strings.Join(demos(), ", "))
	}
	return build(), nil
}

// buildBlur returns the horizontal stage of a 3x3 box blur over u16
// samples, 32 outputs per iteration:
//
//	out(x) = u16((u32(in(x)) + in(x+1) + in(x+2)) * 21845 / 65536)
//
// The multiply and divide are the fixed point /3, and the overlapping
// windows give the carry pass something to do.
func buildBlur() ir.Stmt {
	x := &ir.Var{T: ir.Int(32), Name: "x"}
	one := ir.Const(ir.Int(32), 1)
	window := func(off int64) ir.Expr {
		base := ir.Expr(x)
		if off != 0 {
			base = &ir.Binary{Op: ir.OpAdd, A: x, B: ir.Const(ir.Int(32), off)}
		}
		return &ir.Cast{T: ir.UInt(32, 32), Value: &ir.Load{
			T:     ir.UInt(16, 32),
			Buf:   "in",
			Index: &ir.Ramp{Base: base, Stride: one, Lanes: 32},
		}}
	}

	sum := &ir.Binary{Op: ir.OpAdd,
		A: &ir.Binary{Op: ir.OpAdd, A: window(0), B: window(1)},
		B: window(2)}
	scaled := &ir.Binary{Op: ir.OpDiv,
		A: &ir.Binary{Op: ir.OpMul, A: sum, B: ir.Const(ir.UInt(32, 32), 21845)},
		B: ir.Const(ir.UInt(32, 32), 65536)}

	return &ir.For{
		Name:   "x",
		Min:    ir.Const(ir.Int(32), 0),
		Extent: &ir.Var{T: ir.Int(32), Name: "n"},
		Body: &ir.Store{
			Buf:   "out",
			Value: &ir.Cast{T: ir.UInt(16, 32), Value: scaled},
			Index: &ir.Ramp{Base: x, Stride: one, Lanes: 32},
		},
	}
}
