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

func TestApplyPatternsFirstMatchWins(t *testing.T) {
	table := []Pattern{
		{Intrin: "first", Shape: add(wildI16x, wildI16x)},
		{Intrin: "second", Shape: add(wildI16x, wildI16x)},
	}
	a := vecVar(ir.Int(16, 32), "a")
	got := applyPatterns(add(a, a), table, nopMutator{})
	call, ok := got.(*ir.Call)
	if !ok || call.Name != "first" {
		t.Errorf("applyPatterns chose %s, want the first table entry", ir.Print(got))
	}
}

func TestApplyPatternsFlagRejectFallsThrough(t *testing.T) {
	table := []Pattern{
		{Intrin: "shift", Shape: div(wildI16x, bc(wildI16)), Flags: ExactLog2Op1},
		{Intrin: "general", Shape: div(wildI16x, bc(wildI16))},
	}
	x := vecVar(ir.Int(16, 32), "x")
	got := applyPatterns(div(x, ir.Const(ir.Int(16, 32), 6)), table, nopMutator{})
	call, ok := got.(*ir.Call)
	if !ok || call.Name != "general" {
		t.Errorf("non power of two divisor produced %s, want the general rule", ir.Print(got))
	}
}

func TestApplyPatternsNoMatchReturnsInput(t *testing.T) {
	x := vecVar(ir.Int(16, 32), "x")
	e := add(x, x)
	if got := applyPatterns(e, divRules, nopMutator{}); got != e {
		t.Errorf("no-match rewrote the expression to %s", ir.Print(got))
	}
}

func TestApplyPatternsAccumulatorWrapsResult(t *testing.T) {
	table := []Pattern{
		{Intrin: "widen_sub", Shape: sub(wildI32x, wildI32x), Flags: NarrowOps | AccumulatorOutput48},
	}
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	got := applyPatterns(sub(i32(a), i32(b)), table, nopMutator{})

	cast, ok := got.(*ir.Cast)
	if !ok {
		t.Fatalf("accumulator result is %s, want a cast back to i32", ir.Print(got))
	}
	if cast.T != ir.Int(32, 32) {
		t.Errorf("cast type = %v, want i32x32", cast.T)
	}
	call, ok := cast.Value.(*ir.Call)
	if !ok || call.Name != "widen_sub" {
		t.Fatalf("cast wraps %s, want the widen_sub call", ir.Print(cast.Value))
	}
	if call.T != ir.Int(48, 32) {
		t.Errorf("call type = %v, want the i48x32 accumulator", call.T)
	}
	if call.Args[0] != ir.Expr(a) || call.Args[1] != ir.Expr(b) {
		t.Errorf("call args = %s, want the narrowed a and b", ir.Print(call))
	}
}

func TestApplyCommutativePatternsRetriesSwapped(t *testing.T) {
	table := []Pattern{
		{Intrin: "acc_add", Shape: add(i32(wildI48x), i32(wildI16x)), Flags: AccumulatorOutput48},
	}
	acc := vecVar(ir.Int(48, 32), "acc")
	v := vecVar(ir.Int(16, 32), "v")

	// Accumulator on the right only matches after commuting.
	e := &ir.Binary{Op: ir.OpAdd, A: i32(v), B: i32(acc)}
	if got := applyPatterns(e, table, nopMutator{}); got != ir.Expr(e) {
		t.Fatalf("forward order matched unexpectedly: %s", ir.Print(got))
	}
	got := applyCommutativePatterns(e, table, nopMutator{})
	cast, ok := got.(*ir.Cast)
	if !ok {
		t.Fatalf("commuted match produced %s", ir.Print(got))
	}
	call := cast.Value.(*ir.Call)
	if call.Args[0] != ir.Expr(acc) || call.Args[1] != ir.Expr(v) {
		t.Errorf("commuted args = %s, want [acc v]", ir.Print(call))
	}
}

func TestApplyCommutativePatternsKeepsUnmatched(t *testing.T) {
	x := vecVar(ir.UInt(16, 32), "x")
	e := &ir.Binary{Op: ir.OpAdd, A: x, B: x}
	if got := applyCommutativePatterns(e, mulRules, nopMutator{}); got != ir.Expr(e) {
		t.Errorf("unmatched commutative apply rewrote to %s", ir.Print(got))
	}
}
