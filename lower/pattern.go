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

// Package lower rewrites vector IR into target intrinsic calls. The
// core is a table of patterns per operator: expression shapes with
// wildcard placeholders, matched in order against every vector node,
// plus operand transformations requested by per-rule flags. Around the
// rewriter sit the supporting passes of the pipeline: indirect load
// strength reduction, load alignment, loop carries, splitting to
// native register widths, and slice/concat cleanup.
package lower

import "github.com/ajroetker/go-veclower/ir"

// Flags request operand transformations that run after a structural
// match succeeds. Each transform group owns a disjoint bit range, so
// one rule can combine them freely.
type Flags uint32

const (
	// Swap operands prior to substitution.
	SwapOps01 Flags = 1 << 1
	SwapOps12 Flags = 1 << 2

	// Replace operand i with its base-2 logarithm when it is a
	// constant power of two, and reject the match when it is not.
	// Mainly to turn divisions into shifts.
	ExactLog2Op1 Flags = 1 << 3
	ExactLog2Op2 Flags = 1 << 4

	// Replace operand i with a half-width equivalent when the
	// conversion is provably lossless, and reject the match when it is
	// not. The bit position encodes the operand index, so all five can
	// be checked in a loop.
	NarrowOp0 Flags = 1 << 10
	NarrowOp1 Flags = 1 << 11
	NarrowOp2 Flags = 1 << 12
	NarrowOp3 Flags = 1 << 13
	NarrowOp4 Flags = 1 << 14
	NarrowOps       = NarrowOp0 | NarrowOp1 | NarrowOp2 | NarrowOp3 | NarrowOp4

	// Same as NarrowOp, but force the half-width type to be unsigned.
	NarrowUnsignedOp0 Flags = 1 << 15
	NarrowUnsignedOp1 Flags = 1 << 16
	NarrowUnsignedOp2 Flags = 1 << 17
	NarrowUnsignedOp3 Flags = 1 << 18
	NarrowUnsignedOp4 Flags = 1 << 19
	NarrowUnsignedOps       = NarrowUnsignedOp0 | NarrowUnsignedOp1 |
		NarrowUnsignedOp2 | NarrowUnsignedOp3 | NarrowUnsignedOp4

	// The replacement produces a wide accumulator; the call is built
	// at the accumulator type and cast back to the matched type.
	AccumulatorOutput24 Flags = 1 << 20
	AccumulatorOutput48 Flags = 1 << 21
	AccumulatorOutput64 Flags = 1 << 22

	// Substitute only the flagged operands, in index order.
	PassOnlyOp0 Flags = 1 << 23
	PassOnlyOp1 Flags = 1 << 24
	PassOnlyOp2 Flags = 1 << 25
	PassOnlyOp3 Flags = 1 << 26
	PassOps           = PassOnlyOp0 | PassOnlyOp1 | PassOnlyOp2 | PassOnlyOp3

	// Operands 0 and 1 must be the same expression; only one is kept.
	SameOp01 Flags = 1 << 27
)

// Pattern maps an expression shape to a target intrinsic. Shapes are
// ordinary expressions containing Wild placeholders; the first table
// entry that matches wins.
type Pattern struct {
	Intrin string // replacement intrinsic name
	Shape  ir.Expr
	Flags  Flags
}

// Scalar wildcards.
var (
	wildI16 = &ir.Wild{T: ir.Int(16)}
	wildI32 = &ir.Wild{T: ir.Int(32)}
	wildI64 = &ir.Wild{T: ir.Int(64)}
	wildU16 = &ir.Wild{T: ir.UInt(16)}
	wildU32 = &ir.Wild{T: ir.UInt(32)}
)

// Vector wildcards, matching any lane count.
var (
	wildBx   = &ir.Wild{T: ir.Bool(0)}
	wildI8x  = &ir.Wild{T: ir.Int(8, 0)}
	wildU8x  = &ir.Wild{T: ir.UInt(8, 0)}
	wildI16x = &ir.Wild{T: ir.Int(16, 0)}
	wildU16x = &ir.Wild{T: ir.UInt(16, 0)}
	wildI24x = &ir.Wild{T: ir.Int(24, 0)}
	wildI32x = &ir.Wild{T: ir.Int(32, 0)}
	wildU32x = &ir.Wild{T: ir.UInt(32, 0)}
	wildI48x = &ir.Wild{T: ir.Int(48, 0)}
	wildI64x = &ir.Wild{T: ir.Int(64, 0)}
)

func add(a, b ir.Expr) ir.Expr   { return &ir.Binary{Op: ir.OpAdd, A: a, B: b} }
func sub(a, b ir.Expr) ir.Expr   { return &ir.Binary{Op: ir.OpSub, A: a, B: b} }
func mul(a, b ir.Expr) ir.Expr   { return &ir.Binary{Op: ir.OpMul, A: a, B: b} }
func div(a, b ir.Expr) ir.Expr   { return &ir.Binary{Op: ir.OpDiv, A: a, B: b} }
func shr(a, b ir.Expr) ir.Expr   { return &ir.Binary{Op: ir.OpShr, A: a, B: b} }
func minOf(a, b ir.Expr) ir.Expr { return &ir.Binary{Op: ir.OpMin, A: a, B: b} }
func maxOf(a, b ir.Expr) ir.Expr { return &ir.Binary{Op: ir.OpMax, A: a, B: b} }

// Concise casts. The result keeps the operand's lane count, so casting
// a wildcard yields a pattern cast with unconstrained lanes.
func vcast(code ir.Code, bits int, x ir.Expr) ir.Expr {
	return &ir.Cast{T: ir.Type{Code: code, Bits: bits, Lanes: x.Type().Lanes}, Value: x}
}

func i8(x ir.Expr) ir.Expr  { return vcast(ir.TInt, 8, x) }
func u8(x ir.Expr) ir.Expr  { return vcast(ir.TUInt, 8, x) }
func i16(x ir.Expr) ir.Expr { return vcast(ir.TInt, 16, x) }
func u16(x ir.Expr) ir.Expr { return vcast(ir.TUInt, 16, x) }
func i32(x ir.Expr) ir.Expr { return vcast(ir.TInt, 32, x) }
func u32(x ir.Expr) ir.Expr { return vcast(ir.TUInt, 32, x) }

func satI16(x ir.Expr) ir.Expr { return ir.SaturatingCast(ir.Int(16, x.Type().Lanes), x) }
func satI32(x ir.Expr) ir.Expr { return ir.SaturatingCast(ir.Int(32, x.Type().Lanes), x) }
func satU8(x ir.Expr) ir.Expr  { return ir.SaturatingCast(ir.UInt(8, x.Type().Lanes), x) }

// bc broadcasts a scalar to an unknown number of lanes, for making
// patterns.
func bc(x ir.Expr) ir.Expr { return &ir.Broadcast{Value: x, Lanes: 0} }

// bcConst is a broadcast constant with unconstrained lanes.
func bcConst(elem ir.Type, v int64) ir.Expr { return ir.Const(elem.WithLanes(0), v) }

func patCall(t ir.Type, name string, args ...ir.Expr) ir.Expr {
	return &ir.Call{T: t, Name: name, Args: args, Kind: ir.CallExtern}
}

// Shape constructors for intrinsics that appear inside other patterns.
// The accumulator argument type is always the signed 48-bit type, for
// the unsigned variants too.
func widenMulI48(a, b ir.Expr) ir.Expr {
	return patCall(ir.Int(48, 0), "vdsp_widen_mul_i48", a, b)
}

func widenMulAddI48(acc, a, b ir.Expr) ir.Expr {
	return patCall(ir.Int(48, 0), "vdsp_widen_mul_add_i48", acc, a, b)
}

func widenAddI48(acc, v ir.Expr) ir.Expr {
	return patCall(ir.Int(48, 0), "vdsp_widen_add_i48", acc, v)
}

func widenAddU48(acc, v ir.Expr) ir.Expr {
	return patCall(ir.Int(48, 0), "vdsp_widen_add_u48", acc, v)
}

func concat2(elem ir.Type, a, b ir.Expr) ir.Expr {
	return patCall(elem.WithLanes(0), concatFromNativeName, a, b)
}

func concat4(elem ir.Type, a, b, c, d ir.Expr) ir.Expr {
	return patCall(elem.WithLanes(0), concatFromNativeName, a, b, c, d)
}

func sliceOf(elem ir.Type, v, ix, native, total ir.Expr) ir.Expr {
	return patCall(elem.WithLanes(0), sliceToNativeName, v, ix, native, total)
}

func reduceOf(op ir.ReduceOp, v ir.Expr) ir.Expr {
	return &ir.VectorReduce{T: v.Type(), Op: op, Value: v}
}

var addRules = []Pattern{
	{Intrin: "vdsp_widen_pair_mul_i48", Shape: add(mul(wildI32x, wildI32x), mul(wildI32x, wildI32x)), Flags: NarrowOps | AccumulatorOutput48},
	{Intrin: "vdsp_widen_pair_mul_u48", Shape: add(mul(wildU32x, wildU32x), mul(wildU32x, wildU32x)), Flags: NarrowOps | AccumulatorOutput48},

	// Multiply-add to accumulator type.
	{Intrin: "vdsp_widen_pair_mul_add_i48", Shape: add(i32(widenMulAddI48(wildI48x, wildI16x, wildI16x)), i32(widenMulI48(wildI16x, wildI16x))), Flags: AccumulatorOutput48},
	{Intrin: "vdsp_widen_mul_add_i48", Shape: add(i32(wildI48x), i32(widenMulI48(wildI16x, wildI16x))), Flags: AccumulatorOutput48},

	{Intrin: "vdsp_widen_mul_add_vu8_si16_i24", Shape: add(i16(wildI24x), i16(patCall(ir.Int(24, 0), "vdsp_widen_mul_vu8_si16_i24", wildU8x, wildI16))), Flags: AccumulatorOutput24},

	// Paired add to accumulator type.
	{Intrin: "vdsp_widen_pair_add_i48", Shape: add(i32(widenAddI48(wildI48x, wildI16x)), i32(wildI16x)), Flags: AccumulatorOutput48},
	{Intrin: "vdsp_widen_pair_add_i48", Shape: add(i32(widenAddI48(wildI48x, wildI16x)), wildI32x), Flags: AccumulatorOutput48 | NarrowOp2},
	{Intrin: "vdsp_widen_pair_add_u48", Shape: add(u32(widenAddU48(wildI48x, wildU16x)), u32(wildU16x)), Flags: AccumulatorOutput48},
	{Intrin: "vdsp_widen_pair_add_u48", Shape: add(u32(widenAddU48(wildI48x, wildU16x)), wildU32x), Flags: AccumulatorOutput48 | NarrowUnsignedOp2},
	// Single add.
	{Intrin: "vdsp_widen_add_i48", Shape: add(i32(wildI48x), i32(wildI16x)), Flags: AccumulatorOutput48},
	{Intrin: "vdsp_widen_add_i48", Shape: add(i32(wildI48x), wildI32x), Flags: AccumulatorOutput48 | NarrowOp1},
	{Intrin: "vdsp_widen_add_u48", Shape: add(u32(wildI48x), u32(wildU16x)), Flags: AccumulatorOutput48},
	{Intrin: "vdsp_widen_add_u48", Shape: add(u32(wildI48x), wildU32x), Flags: AccumulatorOutput48 | NarrowUnsignedOp1},

	{Intrin: "vdsp_widen_add_i24", Shape: add(i16(wildI24x), i16(wildI8x)), Flags: AccumulatorOutput24},
	{Intrin: "vdsp_widen_add_i24", Shape: add(i16(wildI24x), wildI16x), Flags: AccumulatorOutput24 | NarrowOp1},

	// Widening addition.
	{Intrin: "vdsp_widen_add_u48", Shape: add(wildU32x, wildU32x), Flags: NarrowUnsignedOps | AccumulatorOutput48},
	{Intrin: "vdsp_widen_add_i48", Shape: add(wildI32x, wildI32x), Flags: NarrowOps | AccumulatorOutput48},

	{Intrin: "vdsp_widen_mul_add_i64", Shape: add(mul(wildI64x, wildI64x), wildI64x), Flags: NarrowOps | AccumulatorOutput64},
}

var subRules = []Pattern{
	// Widening subtraction. The difference of two 16-bit values needs a
	// 17th bit, so the result lands in the signed accumulator either way.
	{Intrin: "vdsp_widen_sub_i48", Shape: sub(wildI32x, wildI32x), Flags: NarrowOps | AccumulatorOutput48},
	{Intrin: "vdsp_widen_sub_u48", Shape: sub(wildU32x, wildU32x), Flags: NarrowUnsignedOps | AccumulatorOutput48},
}

var mulRules = []Pattern{
	{Intrin: "vdsp_widen_mul_vu8_si16_i24", Shape: mul(wildI16x, bc(wildI16)), Flags: NarrowUnsignedOp0 | AccumulatorOutput24},

	// Widening multiplication.
	{Intrin: "vdsp_widen_mul_i48", Shape: mul(wildI32x, bc(wildI32)), Flags: NarrowOps | AccumulatorOutput48},
	{Intrin: "vdsp_widen_mul_u48", Shape: mul(wildU32x, wildU32x), Flags: NarrowOps | AccumulatorOutput48},
	{Intrin: "vdsp_widen_mul_i48", Shape: mul(wildI32x, wildI32x), Flags: NarrowOps | AccumulatorOutput48},

	{Intrin: "vdsp_widen_mul_i64", Shape: mul(wildI64x, wildI64x), Flags: NarrowOps | AccumulatorOutput64},
}

var divRules = []Pattern{
	// Division by a constant power of two is a shift.
	{Intrin: "vdsp_shift_right_i16", Shape: div(wildI16x, bc(wildI16)), Flags: ExactLog2Op1},
	{Intrin: "vdsp_shift_right_u16", Shape: div(wildU16x, bc(wildU16)), Flags: ExactLog2Op1},
	{Intrin: "vdsp_shift_right_i32", Shape: div(wildI32x, bc(wildI32)), Flags: ExactLog2Op1},
	{Intrin: "vdsp_shift_right_u32", Shape: div(wildU32x, bc(wildU32)), Flags: ExactLog2Op1},
}

var minRules = []Pattern{
	// min(max(x, lo), hi) clamps x to [lo, hi].
	{Intrin: "vdsp_clamp_i16", Shape: minOf(maxOf(wildI16x, bc(wildI16)), bc(wildI16))},
	{Intrin: "vdsp_clamp_i32", Shape: minOf(maxOf(wildI32x, bc(wildI32)), bc(wildI32))},
}

var maxRules = []Pattern{
	// max(min(x, hi), lo) binds the bounds in the wrong order for the
	// clamp intrinsic, hence the swap.
	{Intrin: "vdsp_clamp_i16", Shape: maxOf(minOf(wildI16x, bc(wildI16)), bc(wildI16)), Flags: SwapOps12},
	{Intrin: "vdsp_clamp_i32", Shape: maxOf(minOf(wildI32x, bc(wildI32)), bc(wildI32)), Flags: SwapOps12},
}

var castRules = []Pattern{
	// Averaging.
	{Intrin: "vdsp_avg_u16", Shape: u16(div(add(wildU32x, wildU32x), bcConst(ir.UInt(32), 2))), Flags: NarrowOps},
	{Intrin: "vdsp_avg_i16", Shape: i16(div(add(wildI32x, wildI32x), bcConst(ir.Int(32), 2))), Flags: NarrowOps},

	{Intrin: "vdsp_avg_round_u16", Shape: u16(div(add(add(wildU32x, wildU32x), bcConst(ir.UInt(32), 1)), bcConst(ir.UInt(32), 2))), Flags: NarrowOps},
	{Intrin: "vdsp_avg_round_i16", Shape: i16(div(add(add(wildI32x, wildI32x), bcConst(ir.Int(32), 1)), bcConst(ir.Int(32), 2))), Flags: NarrowOps},

	// Saturating add/subtract.
	{Intrin: "vdsp_sat_add_i16", Shape: satI16(add(wildI32x, wildI32x)), Flags: NarrowOps},
	{Intrin: "vdsp_sat_add_i32", Shape: satI32(add(wildI64x, wildI64x)), Flags: NarrowOps},
	{Intrin: "vdsp_sat_sub_i16", Shape: satI16(sub(wildI32x, wildI32x)), Flags: NarrowOps},

	// Narrowing with shifting.
	{Intrin: "vdsp_narrow_i48_with_shift_i16", Shape: i16(shr(i32(wildI48x), bc(wildI32)))},
	{Intrin: "vdsp_narrow_i48_with_shift_i16", Shape: i16(div(i32(wildI48x), bc(wildI32))), Flags: ExactLog2Op1},

	{Intrin: "vdsp_narrow_i48_with_shift_u16", Shape: u16(shr(u32(wildI48x), bc(wildU32)))},
	{Intrin: "vdsp_narrow_i48_with_shift_u16", Shape: u16(div(u32(wildI48x), bc(wildU32))), Flags: ExactLog2Op1},

	{Intrin: "vdsp_narrow_with_shift_i16", Shape: i16(shr(wildI32x, bc(wildI32)))},
	{Intrin: "vdsp_narrow_with_shift_i16", Shape: i16(div(wildI32x, bc(wildI32))), Flags: ExactLog2Op1},

	{Intrin: "vdsp_narrow_with_shift_u16", Shape: u16(shr(wildI32x, bc(wildI32)))},
	{Intrin: "vdsp_narrow_with_shift_u16", Shape: u16(div(wildI32x, bc(wildI32))), Flags: ExactLog2Op1},

	{Intrin: "vdsp_narrow_high_i32", Shape: i32(shr(wildI64x, bcConst(ir.Int(64), 32)))},
	{Intrin: "vdsp_narrow_high_i32", Shape: i32(div(wildI64x, bcConst(ir.Int(64), 4294967296)))},

	{Intrin: "vdsp_sat_narrow_shift_i32", Shape: satI32(shr(wildI64x, bc(wildI64)))},
	{Intrin: "vdsp_sat_narrow_shift_i32", Shape: satI32(div(wildI64x, bc(wildI64))), Flags: ExactLog2Op1},

	{Intrin: "vdsp_sat_narrow_i24_with_shift_u8", Shape: satU8(shr(i16(wildI24x), bc(wildI16)))},
	{Intrin: "vdsp_sat_narrow_i24_with_shift_u8", Shape: satU8(div(i16(wildI24x), bc(wildI16))), Flags: ExactLog2Op1},

	// Concat and cast.
	{Intrin: "vdsp_convert_concat_i16_to_i8", Shape: i8(concat2(ir.Int(16), wildI16x, wildI16x))},
	{Intrin: "vdsp_convert_concat_i16_to_u8", Shape: u8(concat2(ir.Int(16), wildI16x, wildI16x))},
	{Intrin: "vdsp_convert_concat_u16_to_i8", Shape: i8(concat2(ir.UInt(16), wildU16x, wildU16x))},
	{Intrin: "vdsp_convert_concat_u16_to_u8", Shape: u8(concat2(ir.UInt(16), wildU16x, wildU16x))},
	{Intrin: "vdsp_convert_concat_i32_to_i16", Shape: i16(concat2(ir.Int(32), wildI32x, wildI32x))},
	{Intrin: "vdsp_convert_concat_i32_to_u16", Shape: u16(concat2(ir.Int(32), wildI32x, wildI32x))},

	{Intrin: "vdsp_convert_concat_u32_to_i16", Shape: i16(concat2(ir.UInt(32), wildU32x, wildU32x))},
	{Intrin: "vdsp_convert_concat_u32_to_u16", Shape: u16(concat2(ir.UInt(32), wildU32x, wildU32x))},
}

var callRules = []Pattern{
	// Slice and convert.
	{Intrin: "vdsp_convert_u8_low_u16", Shape: sliceOf(ir.UInt(16), u16(wildU8x), intArg(0), wildI32, wildI32)},
	{Intrin: "vdsp_convert_u8_high_u16", Shape: sliceOf(ir.UInt(16), u16(wildU8x), intArg(1), wildI32, wildI32)},
	{Intrin: "vdsp_convert_u8_low_i16", Shape: sliceOf(ir.Int(16), i16(wildU8x), intArg(0), wildI32, wildI32)},
	{Intrin: "vdsp_convert_u8_high_i16", Shape: sliceOf(ir.Int(16), i16(wildU8x), intArg(1), wildI32, wildI32)},
	{Intrin: "vdsp_convert_i8_low_u16", Shape: sliceOf(ir.UInt(16), u16(wildI8x), intArg(0), wildI32, wildI32)},
	{Intrin: "vdsp_convert_i8_high_u16", Shape: sliceOf(ir.UInt(16), u16(wildI8x), intArg(1), wildI32, wildI32)},
	{Intrin: "vdsp_convert_i8_low_i16", Shape: sliceOf(ir.Int(16), i16(wildI8x), intArg(0), wildI32, wildI32)},
	{Intrin: "vdsp_convert_i8_high_i16", Shape: sliceOf(ir.Int(16), i16(wildI8x), intArg(1), wildI32, wildI32)},

	{Intrin: "vdsp_convert_i32_u16", Shape: sliceOf(ir.UInt(16), u16(concat4(ir.Int(32), wildI32x, wildI32x, wildI32x, wildI32x)), intArg(0), intArg(32), intArg(64)), Flags: PassOnlyOp0 | PassOnlyOp1},
	{Intrin: "vdsp_convert_i32_u16", Shape: sliceOf(ir.UInt(16), u16(concat4(ir.Int(32), wildI32x, wildI32x, wildI32x, wildI32x)), intArg(1), intArg(32), intArg(64)), Flags: PassOnlyOp2 | PassOnlyOp3},

	{Intrin: "vdsp_convert_i48_low_i32", Shape: sliceOf(ir.Int(32), i32(wildI48x), intArg(0), intArg(16), intArg(32))},
	{Intrin: "vdsp_convert_i48_high_i32", Shape: sliceOf(ir.Int(32), i32(wildI48x), intArg(1), intArg(16), intArg(32))},
	{Intrin: "vdsp_convert_i48_low_i32", Shape: sliceOf(ir.Int(32), i32(concat2(ir.Int(48), wildI48x, wildI48x)), intArg(0), intArg(16), intArg(64)), Flags: PassOnlyOp0},
	{Intrin: "vdsp_convert_i48_high_i32", Shape: sliceOf(ir.Int(32), i32(concat2(ir.Int(48), wildI48x, wildI48x)), intArg(1), intArg(16), intArg(64)), Flags: PassOnlyOp0},
	{Intrin: "vdsp_convert_i48_low_i32", Shape: sliceOf(ir.Int(32), i32(concat2(ir.Int(48), wildI48x, wildI48x)), intArg(2), intArg(16), intArg(64)), Flags: PassOnlyOp1},
	{Intrin: "vdsp_convert_i48_high_i32", Shape: sliceOf(ir.Int(32), i32(concat2(ir.Int(48), wildI48x, wildI48x)), intArg(3), intArg(16), intArg(64)), Flags: PassOnlyOp1},
	{Intrin: "vdsp_convert_i48_low_u32", Shape: sliceOf(ir.UInt(32), u32(wildI48x), intArg(0), intArg(16), intArg(32))},
	{Intrin: "vdsp_convert_i48_high_u32", Shape: sliceOf(ir.UInt(32), u32(wildI48x), intArg(1), intArg(16), intArg(32))},
	{Intrin: "vdsp_convert_i16_low_i32", Shape: sliceOf(ir.Int(32), i32(wildI16x), intArg(0), wildI32, wildI32)},
	{Intrin: "vdsp_convert_i16_high_i32", Shape: sliceOf(ir.Int(32), i32(wildI16x), intArg(1), wildI32, wildI32)},

	{Intrin: "vdsp_convert_bool_to_i32", Shape: sliceOf(ir.Int(32), i32(concat4(ir.Bool(), wildBx, wildBx, wildBx, wildBx)), intArg(0), intArg(16), intArg(64)), Flags: PassOnlyOp0},
	{Intrin: "vdsp_convert_bool_to_i32", Shape: sliceOf(ir.Int(32), i32(concat4(ir.Bool(), wildBx, wildBx, wildBx, wildBx)), intArg(1), intArg(16), intArg(64)), Flags: PassOnlyOp1},
	{Intrin: "vdsp_convert_bool_to_i32", Shape: sliceOf(ir.Int(32), i32(concat4(ir.Bool(), wildBx, wildBx, wildBx, wildBx)), intArg(2), intArg(16), intArg(64)), Flags: PassOnlyOp2},
	{Intrin: "vdsp_convert_bool_to_i32", Shape: sliceOf(ir.Int(32), i32(concat4(ir.Bool(), wildBx, wildBx, wildBx, wildBx)), intArg(3), intArg(16), intArg(64)), Flags: PassOnlyOp3},
}

// Full reductions, applied only when the result is scalar.
var reduceRules = []Pattern{
	{Intrin: "vdsp_full_reduce_i16", Shape: reduceOf(ir.ReduceAdd, wildI32x), Flags: NarrowOps},
}
