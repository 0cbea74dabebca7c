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
	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/simplify"
)

// loopCarrier finds loads in a loop body whose value next iteration
// provably equals another load this iteration, the sliding-window shape
// stencils produce, and carries those values across iterations in a
// scratch buffer instead of reloading them.
type loopCarrier struct {
	maxCarried int
}

// CarryLoops rewrites sliding-window reloads in s into loop carries:
// a scratch buffer initialized before the loop, read in place of the
// reload, and refreshed at the end of each iteration. At most
// maxCarried values are carried per loop.
func CarryLoops(s ir.Stmt, maxCarried int) ir.Stmt {
	c := &loopCarrier{maxCarried: maxCarried}
	return c.MutateStmt(s)
}

// Expressions are never rewritten directly; all the work happens on
// For statements.
func (c *loopCarrier) MutateExpr(e ir.Expr) ir.Expr { return e }

func (c *loopCarrier) MutateStmt(s ir.Stmt) ir.Stmt {
	out := ir.MutateStmtChildren(c, s)
	if f, ok := out.(*ir.For); ok {
		return c.carryLoop(f)
	}
	return out
}

type carryPair struct {
	from *ir.Load // reload replaced by the scratch read
	to   *ir.Load // load whose value is next iteration's from
}

func (c *loopCarrier) carryLoop(f *ir.For) ir.Stmt {
	scan := &bodyScan{storedBufs: map[string]bool{}, bound: map[string]bool{}}
	scan.MutateStmt(f.Body)

	// A candidate must depend on the loop variable (otherwise it is
	// loop invariant, not a window), come from a buffer the body never
	// stores to, and not reference names bound inside the body, since
	// its initial value is hoisted in front of the loop.
	var candidates []*ir.Load
	for _, ld := range scan.loads {
		if ld.Predicate != nil || !ld.T.IsVector() || scan.storedBufs[ld.Buf] {
			continue
		}
		if !ir.UsesVar(ld.Index, f.Name) {
			continue
		}
		inner := false
		for name := range scan.bound {
			if ir.UsesVar(ld.Index, name) {
				inner = true
				break
			}
		}
		if inner {
			continue
		}
		candidates = append(candidates, ld)
	}

	loopVar := &ir.Var{T: f.Min.Type(), Name: f.Name}
	next := add(loopVar, ir.Const(loopVar.T, 1))

	// One scratch buffer serves the whole loop, so every carried value
	// shares the first pair's element type and lane count.
	var pairs []carryPair
	lanes := 0
	var elem ir.Type
	for _, a := range candidates {
		if len(pairs) >= c.maxCarried {
			break
		}
		if len(pairs) > 0 && (a.T.Lanes != lanes || a.T.Elem() != elem) {
			continue
		}
		shifted := simplify.Simplify(ir.Substitute(f.Name, next, a.Index))
		for _, b := range candidates {
			if b == a || b.Buf != a.Buf || b.T != a.T {
				continue
			}
			if !ir.Equal(shifted, simplify.Simplify(b.Index)) {
				continue
			}
			if len(pairs) == 0 {
				lanes, elem = a.T.Lanes, a.T.Elem()
			}
			pairs = append(pairs, carryPair{from: a, to: b})
			break
		}
	}
	if len(pairs) == 0 {
		return f
	}

	n := len(pairs)
	scratch := ir.UniqueName("carry")
	align := ir.ModRem{Modulus: int64(lanes), Remainder: 0}
	slot := func(i int) ir.Expr {
		return &ir.Ramp{Base: intArg(i * lanes), Stride: intArg(1), Lanes: lanes}
	}

	replacer := &loadReplacer{repl: make(map[ir.Expr]ir.Expr, n)}
	reads := make([]*ir.Load, n)
	for i, p := range pairs {
		reads[i] = &ir.Load{T: p.from.T, Buf: scratch, Index: slot(i), Align: align}
		replacer.repl[p.from] = reads[i]
	}
	body := replacer.MutateStmt(f.Body)

	// Prime the window with the first iteration's values.
	pro := make([]ir.Stmt, n)
	for i, p := range pairs {
		init := &ir.Load{
			T:     p.from.T,
			Buf:   p.from.Buf,
			Index: simplify.Simplify(ir.Substitute(f.Name, f.Min, p.from.Index)),
			Align: p.from.Align,
		}
		pro[i] = &ir.Store{Buf: scratch, Value: init, Index: slot(i), Align: align}
	}

	// Refresh the slots at the end of each iteration. When one slot's
	// new value reads another slot, as chains of carries do, the
	// reader's store must run before the read slot is overwritten.
	values := make([]ir.Expr, n)
	for i, p := range pairs {
		values[i] = replacer.MutateExpr(p.to)
	}
	emitted := make([]bool, n)
	epi := make([]ir.Stmt, 0, n)
	for len(epi) < n {
		progress := false
		for i := 0; i < n; i++ {
			if emitted[i] {
				continue
			}
			blocked := false
			for k := 0; k < n; k++ {
				if k != i && !emitted[k] && containsNode(values[k], reads[i]) {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
			epi = append(epi, &ir.Store{Buf: scratch, Value: values[i], Index: slot(i), Align: align})
			emitted[i] = true
			progress = true
		}
		if !progress {
			// A read cycle between slots; leave the loop alone.
			return f
		}
	}

	loop := &ir.For{
		Name:   f.Name,
		Min:    f.Min,
		Extent: f.Extent,
		Body:   &ir.Block{Stmts: append([]ir.Stmt{body}, epi...)},
	}
	prologue := ir.Stmt(&ir.Block{Stmts: pro})
	positive := &ir.Binary{Op: ir.OpGT, A: f.Extent, B: ir.Const(f.Extent.Type(), 0)}
	if !simplify.CanProve(positive) {
		prologue = &ir.IfThenElse{Cond: positive, Then: prologue}
	}
	debugf("carrying %d loads across %s", n, f.Name)
	return &ir.Allocate{
		Name:    scratch,
		Elem:    elem,
		Extents: []ir.Expr{intArg(lanes * n)},
		Body:    &ir.Block{Stmts: []ir.Stmt{prologue, loop}},
	}
}

// bodyScan collects the loads, stored buffers and bound names of a
// loop body in one walk.
type bodyScan struct {
	ir.Memo
	loads      []*ir.Load
	storedBufs map[string]bool
	bound      map[string]bool
}

func (b *bodyScan) MutateExpr(e ir.Expr) ir.Expr {
	if _, ok := b.CachedExpr(e); ok {
		return e
	}
	switch n := e.(type) {
	case *ir.Load:
		b.loads = append(b.loads, n)
	case *ir.Let:
		b.bound[n.Name] = true
	}
	ir.MutateExprChildren(b, e)
	return b.StoreExpr(e, e)
}

func (b *bodyScan) MutateStmt(s ir.Stmt) ir.Stmt {
	if _, ok := b.CachedStmt(s); ok {
		return s
	}
	switch n := s.(type) {
	case *ir.Store:
		b.storedBufs[n.Buf] = true
	case *ir.LetStmt:
		b.bound[n.Name] = true
	case *ir.For:
		b.bound[n.Name] = true
	case *ir.Allocate:
		b.bound[n.Name] = true
	}
	ir.MutateStmtChildren(b, s)
	return b.StoreStmt(s, s)
}

// loadReplacer swaps nodes by identity.
type loadReplacer struct {
	ir.Memo
	repl map[ir.Expr]ir.Expr
}

func (r *loadReplacer) MutateExpr(e ir.Expr) ir.Expr {
	if c, ok := r.CachedExpr(e); ok {
		return c
	}
	if n, ok := r.repl[e]; ok {
		return r.StoreExpr(e, n)
	}
	return r.StoreExpr(e, ir.MutateExprChildren(r, e))
}

func (r *loadReplacer) MutateStmt(s ir.Stmt) ir.Stmt {
	if c, ok := r.CachedStmt(s); ok {
		return c
	}
	return r.StoreStmt(s, ir.MutateStmtChildren(r, s))
}

type nodeFinder struct {
	ir.Memo
	target ir.Expr
	found  bool
}

func (nf *nodeFinder) MutateExpr(e ir.Expr) ir.Expr {
	if nf.found {
		return e
	}
	if _, ok := nf.CachedExpr(e); ok {
		return e
	}
	if e == nf.target {
		nf.found = true
		return e
	}
	ir.MutateExprChildren(nf, e)
	return nf.StoreExpr(e, e)
}

func (nf *nodeFinder) MutateStmt(s ir.Stmt) ir.Stmt { return s }

// containsNode reports whether target occurs in e, by identity.
func containsNode(e, target ir.Expr) bool {
	nf := &nodeFinder{target: target}
	nf.MutateExpr(e)
	return nf.found
}
