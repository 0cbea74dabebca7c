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

package ir

import "testing"

func vi32(name string) *Var { return &Var{T: Int(32, 32), Name: name} }
func addE(a, b Expr) Expr { return &Binary{Op: OpAdd, A: a, B: b} }
func mulE(a, b Expr) Expr { return &Binary{Op: OpMul, A: a, B: b} }

func TestEqual(t *testing.T) {
	x, y := vi32("x"), vi32("y")
	tests := []struct {
		name string
		a, b Expr
		want bool
	}{
		{"same node", x, x, true},
		{"same structure", addE(x, y), addE(x, y), true},
		{"different op", addE(x, y), mulE(x, y), false},
		{"swapped operands", addE(x, y), addE(y, x), false},
		{"different var", x, y, false},
		{"var vs rebuilt var", x, vi32("x"), true},
		{"const types differ", Const(Int(16), 3), Const(Int(32), 3), false},
		{"const match", Const(Int(32), 3), Const(Int(32), 3), true},
		{"cast", &Cast{T: Int(16, 32), Value: x}, &Cast{T: Int(16, 32), Value: vi32("x")}, true},
		{"shuffle indices differ",
			MakeSlice(x, 0, 1, 16), MakeSlice(x, 1, 1, 16), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", Print(tt.a), Print(tt.b), got, tt.want)
			}
		})
	}
}

func TestEqualSharedGraph(t *testing.T) {
	x := vi32("x")
	shared := addE(x, Const(Int(32, 32), 1))
	a := mulE(shared, shared)
	b := mulE(addE(vi32("x"), Const(Int(32, 32), 1)), addE(vi32("x"), Const(Int(32, 32), 1)))
	if !Equal(a, b) {
		t.Errorf("shared DAG not equal to unshared equivalent")
	}
}

func TestHashMatchesEqual(t *testing.T) {
	x := vi32("x")
	a := mulE(addE(x, Const(Int(32, 32), 1)), x)
	b := mulE(addE(vi32("x"), Const(Int(32, 32), 1)), vi32("x"))
	if Hash(a) != Hash(b) {
		t.Errorf("structurally equal expressions hash differently")
	}
	c := mulE(addE(x, Const(Int(32, 32), 2)), x)
	if Hash(a) == Hash(c) {
		t.Errorf("distinct expressions collided: %s vs %s", Print(a), Print(c))
	}
}

func TestEqualStmt(t *testing.T) {
	x := vi32("x")
	s1 := &Store{Buf: "out", Value: addE(x, x), Index: &Ramp{Base: Const(Int(32), 0), Stride: Const(Int(32), 1), Lanes: 32}}
	s2 := &Store{Buf: "out", Value: addE(vi32("x"), vi32("x")), Index: &Ramp{Base: Const(Int(32), 0), Stride: Const(Int(32), 1), Lanes: 32}}
	if !EqualStmt(s1, s2) {
		t.Errorf("equivalent stores not equal")
	}
	s3 := &Store{Buf: "other", Value: s1.Value, Index: s1.Index}
	if EqualStmt(s1, s3) {
		t.Errorf("stores to different buffers compared equal")
	}
}
