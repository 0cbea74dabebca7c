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
	"fmt"

	"github.com/ajroetker/go-veclower/ir"
)

// cseState numbers structurally equal subexpressions and counts how
// often each class is referenced. Let expressions are treated as
// opaque so nothing is ever hoisted across a binder.
type cseState struct {
	hasher *ir.Hasher
	bucket map[uint64][]ir.Expr
	canon  map[ir.Expr]ir.Expr
	count  map[ir.Expr]int
}

func newCSEState() *cseState {
	return &cseState{
		hasher: ir.NewHasher(),
		bucket: make(map[uint64][]ir.Expr),
		canon:  make(map[ir.Expr]ir.Expr),
		count:  make(map[ir.Expr]int),
	}
}

func (c *cseState) canonical(e ir.Expr) ir.Expr {
	if cn, ok := c.canon[e]; ok {
		return cn
	}
	h := c.hasher.Hash(e)
	for _, cand := range c.bucket[h] {
		if ir.Equal(cand, e) {
			c.canon[e] = cand
			return cand
		}
	}
	c.bucket[h] = append(c.bucket[h], e)
	c.canon[e] = e
	return e
}

func (c *cseState) walk(e ir.Expr) {
	cn := c.canonical(e)
	c.count[cn]++
	if c.count[cn] > 1 {
		// Children were already counted through the first occurrence;
		// after extraction they are referenced from the binding alone.
		return
	}
	switch n := e.(type) {
	case *ir.Let:
		// Opaque: occurrences under a binder stay put.
	case *ir.Cast:
		c.walk(n.Value)
	case *ir.Broadcast:
		c.walk(n.Value)
	case *ir.Ramp:
		c.walk(n.Base)
		c.walk(n.Stride)
	case *ir.Binary:
		c.walk(n.A)
		c.walk(n.B)
	case *ir.Not:
		c.walk(n.Value)
	case *ir.Select:
		c.walk(n.Cond)
		c.walk(n.Then)
		c.walk(n.Else)
	case *ir.Load:
		c.walk(n.Index)
		if n.Predicate != nil {
			c.walk(n.Predicate)
		}
	case *ir.Call:
		for _, a := range n.Args {
			c.walk(a)
		}
	case *ir.Shuffle:
		for _, v := range n.Vectors {
			c.walk(v)
		}
	case *ir.VectorReduce:
		c.walk(n.Value)
	}
}

// shouldExtract rejects expressions that are cheaper to repeat than to
// name.
func shouldExtract(e ir.Expr) bool {
	switch n := e.(type) {
	case *ir.IntImm, *ir.UIntImm, *ir.FloatImm, *ir.StringImm, *ir.Var, *ir.Wild:
		return false
	case *ir.Broadcast:
		return shouldExtract(n.Value)
	case *ir.Cast:
		return shouldExtract(n.Value)
	case *ir.Ramp:
		return false
	}
	return true
}

type cseBinding struct {
	name  string
	value ir.Expr
}

type cseRewriter struct {
	ir.Memo
	state *cseState
	vars  map[ir.Expr]*ir.Var
	defs  []cseBinding
}

func (r *cseRewriter) MutateExpr(e ir.Expr) ir.Expr {
	if c, ok := r.CachedExpr(e); ok {
		return c
	}
	cn := r.state.canonical(e)
	if v, ok := r.vars[cn]; ok {
		return r.StoreExpr(e, v)
	}
	var out ir.Expr
	if _, isLet := e.(*ir.Let); isLet {
		out = e
	} else {
		out = ir.MutateExprChildren(r, e)
	}
	if r.state.count[cn] > 1 && shouldExtract(cn) {
		name := fmt.Sprintf("t%d", len(r.defs))
		v := &ir.Var{T: e.Type(), Name: name}
		r.defs = append(r.defs, cseBinding{name: name, value: out})
		r.vars[cn] = v
		out = v
	}
	return r.StoreExpr(e, out)
}

func (r *cseRewriter) MutateStmt(s ir.Stmt) ir.Stmt { return s }

// EliminateCSEExpr rewrites e so that repeated subexpressions are
// computed once in a chain of lets.
func EliminateCSEExpr(e ir.Expr) ir.Expr {
	state := newCSEState()
	state.walk(e)
	r := &cseRewriter{state: state, vars: make(map[ir.Expr]*ir.Var)}
	out := r.MutateExpr(e)
	for i := len(r.defs) - 1; i >= 0; i-- {
		out = &ir.Let{Name: r.defs[i].name, Value: r.defs[i].value, Body: out}
	}
	return out
}

type cseStmt struct {
	ir.Memo
}

func (c *cseStmt) MutateExpr(e ir.Expr) ir.Expr { return EliminateCSEExpr(e) }

func (c *cseStmt) MutateStmt(s ir.Stmt) ir.Stmt {
	if out, ok := c.CachedStmt(s); ok {
		return out
	}
	return c.StoreStmt(s, ir.MutateStmtChildren(c, s))
}

// EliminateCSE applies common subexpression elimination to every
// expression root in s.
func EliminateCSE(s ir.Stmt) ir.Stmt {
	c := &cseStmt{}
	return c.MutateStmt(s)
}
