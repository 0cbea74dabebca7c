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

// gatherOptimizer strength-reduces indirect loads. A load indexed by a
// vector expression is a gather; when the index provably stays inside a
// small window, loading the whole window densely and selecting lanes
// with dynamic_shuffle beats issuing per-lane loads.
//
// Results depend on the bindings in scope, so this pass does not
// memoize: the same load node under different lets can rewrite
// differently.
type gatherOptimizer struct {
	lutSize    int // max window size, in elements
	alignBytes int
	scope      *bounds.Scope
}

// OptimizeGathers rewrites indirectly indexed vector loads in s into
// dense table loads plus dynamic_shuffle selections, sized and aligned
// for t.
func OptimizeGathers(s ir.Stmt, t *Target) ir.Stmt {
	g := &gatherOptimizer{lutSize: t.LUTSize, alignBytes: t.AlignBytes, scope: bounds.NewScope()}
	return g.MutateStmt(s)
}

func (g *gatherOptimizer) MutateStmt(s ir.Stmt) ir.Stmt {
	if let, ok := s.(*ir.LetStmt); ok && let.Value.Type().IsVector() {
		g.scope.Push(let.Name, bounds.Of(let.Value, g.scope))
		defer g.scope.Pop(let.Name)
	}
	return ir.MutateStmtChildren(g, s)
}

func (g *gatherOptimizer) MutateExpr(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case *ir.Let:
		if n.Value.Type().IsVector() {
			g.scope.Push(n.Name, bounds.Of(n.Value, g.scope))
			defer g.scope.Pop(n.Name)
		}
	case *ir.Load:
		return g.mutateLoad(n)
	}
	return ir.MutateExprChildren(g, e)
}

func (g *gatherOptimizer) mutateLoad(op *ir.Load) ir.Expr {
	if op.Predicate != nil {
		// A predicated gather would need a predicated table load.
		return ir.MutateExprChildren(g, op)
	}
	if _, dense := op.Index.(*ir.Ramp); dense || !op.T.IsVector() {
		return ir.MutateExprChildren(g, op)
	}

	index := g.MutateExpr(op.Index)
	unaligned := bounds.Of(index, g.scope)
	if !unaligned.Bounded() {
		return ir.MutateExprChildren(g, op)
	}

	// Try the window rounded out to the load alignment first; when that
	// is too big the exact window may still fit.
	align := g.alignBytes / op.T.Bytes()
	if align < 1 {
		align = 1
	}
	alignC := ir.Const(unaligned.Min.Type(), int64(align))
	aligned := bounds.Interval{
		Min: mul(div(unaligned.Min, alignC), alignC),
		Max: sub(mul(div(add(unaligned.Max, alignC), alignC), alignC),
			ir.Const(unaligned.Max.Type(), 1)),
	}
	alignment := ir.ModRem{Modulus: int64(align), Remainder: 0}

	for _, window := range []bounds.Interval{aligned, unaligned} {
		span := spanOfBounds(window)
		span = simplify.EliminateCSEExpr(span)
		span = simplify.Simplify(span)

		fits := &ir.Binary{Op: ir.OpLT, A: span, B: ir.Const(span.Type(), int64(g.lutSize))}
		if simplify.CanProve(fits) {
			base := simplify.Simplify(window.Min)
			extent := g.lutSize
			if v, ok := ir.ConstValue(span); ok {
				extent = int((v + int64(align)) / int64(align) * int64(align))
			}
			lut := &ir.Load{
				T:     op.T.WithLanes(extent),
				Buf:   op.Buf,
				Index: &ir.Ramp{Base: base, Stride: ir.Const(base.Type(), 1), Lanes: extent},
				Align: alignment,
			}
			// The table is small, so the lane indices fit the element
			// type dynamic_shuffle wants.
			sel := sub(index, &ir.Broadcast{Value: base, Lanes: op.T.Lanes})
			sel = simplify.Simplify(&ir.Cast{T: ir.Int(op.T.Bits, op.T.Lanes), Value: sel})
			debugf("gather %s -> dynamic_shuffle over %d elements", op.Buf, extent)
			return dynamicShuffle(op.T, lut, sel)
		}
		// Only the first window is aligned.
		alignment = ir.ModRem{}
	}
	return ir.MutateExprChildren(g, op)
}

// spanOfBounds measures max-min, first stripping structure shared by
// both ends so min(x,c)..max(x,c) style windows measure the span of x.
func spanOfBounds(b bounds.Interval) ir.Expr {
	lo, _ := b.Min.(*ir.Binary)
	hi, _ := b.Max.(*ir.Binary)
	if lo != nil && hi != nil && lo.Op == hi.Op && ir.Equal(lo.B, hi.B) {
		switch lo.Op {
		case ir.OpMin, ir.OpMax, ir.OpAdd, ir.OpSub:
			return spanOfBounds(bounds.Interval{Min: lo.A, Max: hi.A})
		}
	}
	return sub(b.Max, b.Min)
}
