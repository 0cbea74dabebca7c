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
	"github.com/ajroetker/go-veclower/bounds"
	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/simplify"
)

type loadAligner struct {
	ir.Memo
	alignBytes int
}

// AlignLoads prepares dense vector loads for targets whose load unit
// wants alignBytes boundaries. Loads with a provably aligned start are
// tagged with their alignment. Loads provably offset from a boundary
// become one double width aligned load plus a slice, trading
// bandwidth for the aligned access.
func AlignLoads(s ir.Stmt, alignBytes int) ir.Stmt {
	a := &loadAligner{alignBytes: alignBytes}
	return a.MutateStmt(s)
}

func (a *loadAligner) MutateStmt(s ir.Stmt) ir.Stmt {
	if c, ok := a.CachedStmt(s); ok {
		return c
	}
	return a.StoreStmt(s, ir.MutateStmtChildren(a, s))
}

func (a *loadAligner) MutateExpr(e ir.Expr) ir.Expr {
	if c, ok := a.CachedExpr(e); ok {
		return c
	}
	out := ir.MutateExprChildren(a, e)
	if load, ok := out.(*ir.Load); ok {
		out = a.alignLoad(load)
	}
	return a.StoreExpr(e, out)
}

func (a *loadAligner) alignLoad(op *ir.Load) ir.Expr {
	if op.Predicate != nil || !op.T.IsVector() {
		return op
	}
	ramp, ok := op.Index.(*ir.Ramp)
	if !ok || !ir.IsConstValue(ramp.Stride, 1) {
		return op
	}
	alignElems := int64(a.alignBytes / op.T.Bytes())
	if alignElems < 2 {
		return op
	}
	offset, known := bounds.AlignmentOf(ramp.Base, alignElems)
	if !known {
		return op
	}
	want := ir.ModRem{Modulus: alignElems, Remainder: 0}
	if offset == 0 {
		if op.Align.Known() {
			return op
		}
		return &ir.Load{T: op.T, Buf: op.Buf, Index: op.Index, Align: want}
	}
	lanes := op.T.Lanes
	if offset >= int64(lanes) {
		// The slice would reach past a double width load.
		return op
	}
	base := simplify.Simplify(sub(ramp.Base, ir.Const(ramp.Base.Type(), offset)))
	wide := &ir.Load{
		T:     op.T.WithLanes(2 * lanes),
		Buf:   op.Buf,
		Index: &ir.Ramp{Base: base, Stride: ir.Const(base.Type(), 1), Lanes: 2 * lanes},
		Align: want,
	}
	debugf("realigned load of %s by %d elements", op.Buf, offset)
	return ir.MakeSlice(wide, int(offset), 1, lanes)
}
