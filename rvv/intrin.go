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

// Package rvv emits an LLVM wrapper module binding the lowering
// pipeline's intrinsics to RISC-V vector instructions. Each wrapper is
// a tiny always-inline function that sets the fixed point rounding
// mode when needed and forwards to the llvm.riscv intrinsic with the
// vector length appended.
package rvv

import "github.com/ajroetker/go-veclower/ir"

// Flags describe how an entry of the intrinsic table is declared and
// called.
type Flags uint8

const (
	// AddVLArg appends a constant vector length operand and mangles
	// its integer type into the intrinsic symbol.
	AddVLArg Flags = 1 << iota
	// MangleReturnType mangles the result vector type into the symbol,
	// ahead of the operand types. Widening instructions need it since
	// their result type is not deducible from the operands alone.
	MangleReturnType
	// RoundDown sets vxrm to truncating rounding before the call.
	RoundDown
	// RoundUp sets vxrm to round-to-nearest-up before the call.
	RoundUp
)

// Def is one row of the intrinsic table. Types are given at the 8 bit
// scale with no lane count; the generator multiplies widths and fills
// in lanes for each register shape it emits.
type Def struct {
	Intrin string // llvm.riscv intrinsic base name
	Op     string // lowering operation the wrapper implements
	Ret    ir.Type
	Args   []ir.Type
	Flags  Flags
}

var defs = []Def{
	// Halving adds. vaadd with truncating rounding is a plain average,
	// with round-to-nearest-up it is the rounding average.
	{Intrin: "vaadd", Op: "halving_add", Ret: ir.Int(8), Args: args2(ir.Int(8)), Flags: AddVLArg | RoundDown},
	{Intrin: "vaaddu", Op: "halving_add", Ret: ir.UInt(8), Args: args2(ir.UInt(8)), Flags: AddVLArg | RoundDown},
	{Intrin: "vaadd", Op: "rounding_halving_add", Ret: ir.Int(8), Args: args2(ir.Int(8)), Flags: AddVLArg | RoundUp},
	{Intrin: "vaaddu", Op: "rounding_halving_add", Ret: ir.UInt(8), Args: args2(ir.UInt(8)), Flags: AddVLArg | RoundUp},

	// Widening arithmetic, double width results.
	{Intrin: "vwadd", Op: "widening_add", Ret: ir.Int(16), Args: args2(ir.Int(8)), Flags: AddVLArg | MangleReturnType},
	{Intrin: "vwaddu", Op: "widening_add", Ret: ir.UInt(16), Args: args2(ir.UInt(8)), Flags: AddVLArg | MangleReturnType},
	{Intrin: "vwsub", Op: "widening_sub", Ret: ir.Int(16), Args: args2(ir.Int(8)), Flags: AddVLArg | MangleReturnType},
	{Intrin: "vwsubu", Op: "widening_sub", Ret: ir.UInt(16), Args: args2(ir.UInt(8)), Flags: AddVLArg | MangleReturnType},
	{Intrin: "vwmul", Op: "widening_mul", Ret: ir.Int(16), Args: args2(ir.Int(8)), Flags: AddVLArg | MangleReturnType},
	{Intrin: "vwmulu", Op: "widening_mul", Ret: ir.UInt(16), Args: args2(ir.UInt(8)), Flags: AddVLArg | MangleReturnType},
}

func args2(t ir.Type) []ir.Type { return []ir.Type{t, t} }

// Defs returns the intrinsic table.
func Defs() []Def { return defs }

// scaled returns d with every element width multiplied by scale, or
// false when the result would go past 64 bit elements.
func (d Def) scaled(scale int) (Def, bool) {
	if d.Ret.Bits*scale > 64 {
		return Def{}, false
	}
	out := d
	out.Ret = d.Ret.WithBits(d.Ret.Bits * scale)
	out.Args = make([]ir.Type, len(d.Args))
	for i, a := range d.Args {
		if a.Bits*scale > 64 {
			return Def{}, false
		}
		out.Args[i] = a.WithBits(a.Bits * scale)
	}
	return out, true
}

// vxrm returns the fixed point rounding mode csr value the flags ask
// for.
func (f Flags) vxrm() (mode int, set bool) {
	switch {
	case f&RoundUp != 0:
		return 0, true
	case f&RoundDown != 0:
		return 2, true
	}
	return 0, false
}
