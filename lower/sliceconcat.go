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

import "github.com/ajroetker/go-veclower/ir"

type sliceConcatSimplifier struct {
	ir.Memo
}

// SimplifySliceConcat cancels the redundant seams the width splitter
// leaves behind: a native slice of a matching concatenation is just the
// selected piece, and a degenerate slice of a scalar boolean is the
// scalar.
func SimplifySliceConcat(s ir.Stmt) ir.Stmt {
	sc := &sliceConcatSimplifier{}
	return sc.MutateStmt(s)
}

func (sc *sliceConcatSimplifier) MutateStmt(s ir.Stmt) ir.Stmt {
	if c, ok := sc.CachedStmt(s); ok {
		return c
	}
	return sc.StoreStmt(s, ir.MutateStmtChildren(sc, s))
}

func (sc *sliceConcatSimplifier) MutateExpr(e ir.Expr) ir.Expr {
	if c, ok := sc.CachedExpr(e); ok {
		return c
	}
	return sc.StoreExpr(e, sc.simplifySlice(e))
}

func (sc *sliceConcatSimplifier) simplifySlice(e ir.Expr) ir.Expr {
	op, ok := e.(*ir.Call)
	if !ok || op.Name != sliceToNativeName {
		return ir.MutateExprChildren(sc, e)
	}
	first := sc.MutateExpr(op.Args[0])
	ix := mustConstInt(op.Args[1], "slice index")
	native := mustConstInt(op.Args[2], "native lane count")
	total := mustConstInt(op.Args[3], "total lane count")

	if call, ok := first.(*ir.Call); ok && call.Name == concatFromNativeName &&
		call.T.Lanes == total && len(call.Args) == total/native {
		return call.Args[ix]
	}
	if sh, ok := first.(*ir.Shuffle); ok && sh.IsConcat() &&
		len(sh.Vectors) == total/native && sh.Vectors[ix].Type().Lanes == native {
		return sh.Vectors[ix]
	}
	if ft := first.Type(); ft.IsBool() && ft.IsScalar() {
		return first
	}
	if first == op.Args[0] {
		return op
	}
	return &ir.Call{T: op.T, Name: op.Name,
		Args: []ir.Expr{first, op.Args[1], op.Args[2], op.Args[3]}, Kind: op.Kind}
}

func mustConstInt(e ir.Expr, what string) int {
	v, ok := ir.ConstValue(e)
	if !ok {
		panic("lower: " + what + " of " + sliceToNativeName + " must be constant")
	}
	return int(v)
}
