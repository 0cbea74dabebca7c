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

package simplify

import (
	"testing"

	"github.com/ajroetker/go-veclower/ir"
)

func c32(v int64) ir.Expr { return ir.Const(ir.Int(32), v) }

func bin(op ir.BinOp, a, b ir.Expr) ir.Expr { return &ir.Binary{Op: op, A: a, B: b} }

func TestSimplifyFolding(t *testing.T) {
	x := &ir.Var{T: ir.Int(32), Name: "x"}
	tests := []struct {
		name string
		in   ir.Expr
		want ir.Expr
	}{
		{"add", bin(ir.OpAdd, c32(2), c32(3)), c32(5)},
		{"mul", bin(ir.OpMul, c32(6), c32(7)), c32(42)},
		{"sub to zero", bin(ir.OpSub, x, x), c32(0)},
		{"div floor", bin(ir.OpDiv, c32(-7), c32(2)), c32(-4)},
		{"mod positive", bin(ir.OpMod, c32(-7), c32(4)), c32(1)},
		{"min", bin(ir.OpMin, c32(3), c32(9)), c32(3)},
		{"max", bin(ir.OpMax, c32(3), c32(9)), c32(9)},
		{"add zero", bin(ir.OpAdd, x, c32(0)), x},
		{"mul one", bin(ir.OpMul, c32(1), x), x},
		{"mul zero", bin(ir.OpMul, x, c32(0)), c32(0)},
		{"reassociate add", bin(ir.OpAdd, bin(ir.OpAdd, x, c32(5)), c32(7)), bin(ir.OpAdd, x, c32(12))},
		{"reassociate sub", bin(ir.OpSub, bin(ir.OpAdd, x, c32(5)), c32(5)), x},
		{"min same", bin(ir.OpMin, x, x), x},
		{"lt const", bin(ir.OpLT, c32(60), c32(64)), ir.ConstBool(true)},
		{"lt const false", bin(ir.OpLT, c32(64), c32(64)), ir.ConstBool(false)},
		{"cast const", &ir.Cast{T: ir.Int(16), Value: c32(100)}, ir.Const(ir.Int(16), 100)},
		{"cast same type", &ir.Cast{T: ir.Int(32), Value: x}, x},
		{"select const cond", &ir.Select{Cond: ir.ConstBool(false), Then: x, Else: c32(1)}, c32(1)},
		{"let of const", &ir.Let{Name: "t", Value: c32(5), Body: bin(ir.OpAdd, &ir.Var{T: ir.Int(32), Name: "t"}, c32(1))}, c32(6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.in)
			if !ir.Equal(got, tt.want) {
				t.Errorf("Simplify(%s) = %s, want %s", ir.Print(tt.in), ir.Print(got), ir.Print(tt.want))
			}
		})
	}
}

func TestSimplifyVectorFold(t *testing.T) {
	t32 := ir.Int(32, 32)
	e := bin(ir.OpAdd, ir.Const(t32, 20), ir.Const(t32, 22))
	got := Simplify(e)
	if !ir.Equal(got, ir.Const(t32, 42)) {
		t.Errorf("vector fold = %s, want x32(42)", ir.Print(got))
	}
	if got.Type() != t32 {
		t.Errorf("vector fold type = %v, want %v", got.Type(), t32)
	}
}

func TestSimplifyIsStable(t *testing.T) {
	x := &ir.Var{T: ir.Int(32), Name: "x"}
	e := bin(ir.OpAdd, bin(ir.OpAdd, bin(ir.OpMul, x, c32(4)), c32(3)), c32(4))
	once := Simplify(e)
	twice := Simplify(once)
	if !ir.Equal(once, twice) {
		t.Errorf("simplify not stable: %s then %s", ir.Print(once), ir.Print(twice))
	}
}

func TestCanProve(t *testing.T) {
	x := &ir.Var{T: ir.Int(32), Name: "x"}
	tests := []struct {
		name string
		e    ir.Expr
		want bool
	}{
		{"const true", bin(ir.OpLT, c32(63), c32(64)), true},
		{"const false", bin(ir.OpLT, c32(64), c32(64)), false},
		{"folded chain", bin(ir.OpLT, bin(ir.OpSub, c32(70), c32(10)), c32(64)), true},
		{"unknown", bin(ir.OpLT, x, c32(64)), false},
		{"x le x", bin(ir.OpLE, x, x), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanProve(tt.e); got != tt.want {
				t.Errorf("CanProve(%s) = %v, want %v", ir.Print(tt.e), got, tt.want)
			}
		})
	}
}

func TestSimplifyStmtPrunesBranch(t *testing.T) {
	store := &ir.Store{Buf: "out", Value: c32(1), Index: c32(0)}
	s := &ir.IfThenElse{Cond: bin(ir.OpLT, c32(1), c32(2)), Then: store}
	got := SimplifyStmt(s)
	if _, ok := got.(*ir.Store); !ok {
		t.Errorf("constant branch not pruned: got %T", got)
	}
}
