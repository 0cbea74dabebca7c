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

package lower

import (
	"testing"

	"github.com/ajroetker/go-veclower/ir"
)

func vecVar(t ir.Type, name string) *ir.Var { return &ir.Var{T: t, Name: name} }

// nopMutator satisfies ir.Mutator without touching anything, for
// driving applyPatterns outside a full rewrite pass.
type nopMutator struct{}

func (nopMutator) MutateExpr(e ir.Expr) ir.Expr { return e }
func (nopMutator) MutateStmt(s ir.Stmt) ir.Stmt { return s }

func TestMatchBindsWildcardsInOrder(t *testing.T) {
	a := vecVar(ir.Int(32, 32), "a")
	b := vecVar(ir.Int(32, 32), "b")
	var matches []ir.Expr
	if !Match(add(wildI32x, wildI32x), add(a, b), &matches) {
		t.Fatalf("add of i32 vectors did not match")
	}
	if len(matches) != 2 || matches[0] != ir.Expr(a) || matches[1] != ir.Expr(b) {
		t.Errorf("matches = %v, want [a b] in traversal order", matches)
	}
}

func TestMatchRejectsOperandType(t *testing.T) {
	a := vecVar(ir.UInt(32, 32), "a")
	b := vecVar(ir.UInt(32, 32), "b")
	var matches []ir.Expr
	if Match(add(wildI32x, wildI32x), add(a, b), &matches) {
		t.Errorf("signed pattern matched unsigned operands")
	}
}

func TestMatchWildcardLaneCount(t *testing.T) {
	var matches []ir.Expr
	for _, lanes := range []int{16, 32, 64} {
		v := vecVar(ir.Int(16, lanes), "v")
		if !Match(wildI16x, v, &matches) {
			t.Errorf("wildI16x did not match %d lanes", lanes)
		}
	}
	if Match(wildI16x, vecVar(ir.Int(32, 32), "w"), &matches) {
		t.Errorf("wildI16x matched an i32 vector")
	}
}

func TestMatchResetsBindings(t *testing.T) {
	a := vecVar(ir.Int(32, 32), "a")
	b := vecVar(ir.Int(32, 32), "b")
	var matches []ir.Expr
	Match(add(wildI32x, wildI32x), add(a, b), &matches)
	Match(add(wildI32x, wildI32x), add(b, a), &matches)
	if len(matches) != 2 {
		t.Errorf("second Match kept %d bindings, want 2", len(matches))
	}
	if matches[0] != ir.Expr(b) {
		t.Errorf("second Match bound %s first, want b", ir.Print(matches[0]))
	}
}

func TestMatchBroadcast(t *testing.T) {
	var matches []ir.Expr
	x := vecVar(ir.Int(16, 32), "x")
	e := div(x, ir.Const(ir.Int(16, 32), 4))
	if !Match(div(wildI16x, bc(wildI16)), e, &matches) {
		t.Fatalf("broadcast divisor did not match")
	}
	if v, ok := ir.ConstValue(matches[1]); !ok || v != 4 {
		t.Errorf("bound divisor = %s, want the scalar 4", ir.Print(matches[1]))
	}
	// A non-broadcast divisor must not match a broadcast pattern.
	if Match(div(wildI16x, bc(wildI16)), div(x, x), &matches) {
		t.Errorf("vector divisor matched broadcast pattern")
	}
}

func TestMatchBroadcastConstant(t *testing.T) {
	var matches []ir.Expr
	shape := bcConst(ir.UInt(32), 2)
	if !Match(shape, ir.Const(ir.UInt(32, 32), 2), &matches) {
		t.Errorf("broadcast of 2 did not match")
	}
	if Match(shape, ir.Const(ir.UInt(32, 32), 3), &matches) {
		t.Errorf("broadcast of 3 matched a pattern requiring 2")
	}
}

func TestMatchNestedCall(t *testing.T) {
	acc := vecVar(ir.Int(48, 32), "acc")
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	e := patCall(ir.Int(48, 32), "vdsp_widen_mul_add_i48", acc, a, b)
	var matches []ir.Expr
	if !Match(widenMulAddI48(wildI48x, wildI16x, wildI16x), e, &matches) {
		t.Fatalf("multiply-add call did not match")
	}
	if len(matches) != 3 || matches[0] != ir.Expr(acc) {
		t.Errorf("matches = %v, want [acc a b]", matches)
	}
	other := patCall(ir.Int(48, 32), "vdsp_widen_mul_i48", a, b)
	if Match(widenMulAddI48(wildI48x, wildI16x, wildI16x), other, &matches) {
		t.Errorf("call with a different name matched")
	}
}

func TestProcessMatchFlagsNarrow(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	widened := i32(a)
	ops, ok := processMatchFlags([]ir.Expr{widened}, NarrowOp0)
	if !ok {
		t.Fatalf("narrowing a widening cast failed")
	}
	if ops[0] != ir.Expr(a) {
		t.Errorf("narrowed operand = %s, want the uncast a", ir.Print(ops[0]))
	}

	// A value that genuinely uses 32 bits cannot be narrowed.
	wide := vecVar(ir.Int(32, 32), "wide")
	if _, ok := processMatchFlags([]ir.Expr{wide}, NarrowOp0); ok {
		t.Errorf("narrowing a full width operand succeeded")
	}
}

func TestProcessMatchFlagsNarrowUnsigned(t *testing.T) {
	u := vecVar(ir.UInt(16, 32), "u")
	ops, ok := processMatchFlags([]ir.Expr{i32(u)}, NarrowUnsignedOp0)
	if !ok {
		t.Fatalf("unsigned narrowing failed")
	}
	if ops[0] != ir.Expr(u) {
		t.Errorf("narrowed operand = %s, want the u16 source", ir.Print(ops[0]))
	}
	if got := ops[0].Type(); !got.IsUInt() || got.Bits != 16 {
		t.Errorf("narrowed type = %v, want u16x32", got)
	}
}

func TestProcessMatchFlagsExactLog2(t *testing.T) {
	x := vecVar(ir.Int(16, 32), "x")
	ops, ok := processMatchFlags([]ir.Expr{x, ir.Const(ir.Int(16), 8)}, ExactLog2Op1)
	if !ok {
		t.Fatalf("power of two divisor rejected")
	}
	if v, _ := ir.ConstValue(ops[1]); v != 3 {
		t.Errorf("log2(8) bound as %s, want 3", ir.Print(ops[1]))
	}

	for _, bad := range []int64{6, 0, -8} {
		if _, ok := processMatchFlags([]ir.Expr{x, ir.Const(ir.Int(16), bad)}, ExactLog2Op1); ok {
			t.Errorf("ExactLog2 accepted %d", bad)
		}
	}
	if _, ok := processMatchFlags([]ir.Expr{x, x}, ExactLog2Op1); ok {
		t.Errorf("ExactLog2 accepted a non-constant operand")
	}
}

func TestProcessMatchFlagsPassOnly(t *testing.T) {
	ops := []ir.Expr{
		vecVar(ir.Int(32, 32), "m0"),
		vecVar(ir.Int(32, 32), "m1"),
		vecVar(ir.Int(32, 32), "m2"),
		vecVar(ir.Int(32, 32), "m3"),
	}
	got, ok := processMatchFlags(ops, PassOnlyOp0|PassOnlyOp2)
	if !ok {
		t.Fatalf("PassOnly rejected a plain operand list")
	}
	if len(got) != 2 || got[0] != ops[0] || got[1] != ops[2] {
		t.Errorf("passed operands = %v, want [m0 m2]", got)
	}
}

func TestProcessMatchFlagsSwap(t *testing.T) {
	m0 := vecVar(ir.Int(16, 32), "m0")
	m1 := vecVar(ir.Int(16, 32), "m1")
	m2 := vecVar(ir.Int(16, 32), "m2")

	got, _ := processMatchFlags([]ir.Expr{m0, m1}, SwapOps01)
	if got[0] != ir.Expr(m1) || got[1] != ir.Expr(m0) {
		t.Errorf("SwapOps01 produced %v, want [m1 m0]", got)
	}

	got, _ = processMatchFlags([]ir.Expr{m0, m1, m2}, SwapOps12)
	if got[0] != ir.Expr(m0) || got[1] != ir.Expr(m2) || got[2] != ir.Expr(m1) {
		t.Errorf("SwapOps12 produced %v, want [m0 m2 m1]", got)
	}
}

func TestProcessMatchFlagsSwapPanicsOnShortList(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("SwapOps01 on one operand did not panic")
		}
	}()
	processMatchFlags([]ir.Expr{vecVar(ir.Int(16, 32), "m0")}, SwapOps01)
}

func TestProcessMatchFlagsSameOp(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")

	// Structural equality is enough; the two adds are distinct nodes.
	got, ok := processMatchFlags([]ir.Expr{add(a, b), add(a, b)}, SameOp01)
	if !ok {
		t.Fatalf("SameOp01 rejected equal operands")
	}
	if len(got) != 1 {
		t.Errorf("SameOp01 kept %d operands, want 1", len(got))
	}

	if _, ok := processMatchFlags([]ir.Expr{add(a, b), add(b, a)}, SameOp01); ok {
		t.Errorf("SameOp01 accepted different operands")
	}
}

func TestMatchPanicsOnUnsupportedShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("shape containing a Var did not panic")
		}
	}()
	var matches []ir.Expr
	Match(vecVar(ir.Int(32, 32), "v"), vecVar(ir.Int(32, 32), "v"), &matches)
}
