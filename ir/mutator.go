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

// Mutator rewrites IR graphs. A pass implements MutateExpr and
// MutateStmt with its special cases and falls back to
// MutateExprChildren / MutateStmtChildren for the default traversal,
// so recursion always flows back through the pass's own methods.
type Mutator interface {
	MutateExpr(Expr) Expr
	MutateStmt(Stmt) Stmt
}

// Memo caches mutation results by node identity for the duration of
// one pass. Passes embed it so shared subgraphs are rewritten once and
// sharing is preserved in the output.
type Memo struct {
	exprs map[Expr]Expr
	stmts map[Stmt]Stmt
}

// CachedExpr returns the cached rewrite of e, if any.
func (c *Memo) CachedExpr(e Expr) (Expr, bool) {
	r, ok := c.exprs[e]
	return r, ok
}

// StoreExpr records the rewrite of orig and returns it.
func (c *Memo) StoreExpr(orig, result Expr) Expr {
	if c.exprs == nil {
		c.exprs = make(map[Expr]Expr)
	}
	c.exprs[orig] = result
	return result
}

// CachedStmt returns the cached rewrite of s, if any.
func (c *Memo) CachedStmt(s Stmt) (Stmt, bool) {
	r, ok := c.stmts[s]
	return r, ok
}

// StoreStmt records the rewrite of orig and returns it.
func (c *Memo) StoreStmt(orig, result Stmt) Stmt {
	if c.stmts == nil {
		c.stmts = make(map[Stmt]Stmt)
	}
	c.stmts[orig] = result
	return result
}

// ResetMemo drops all cached rewrites.
func (c *Memo) ResetMemo() {
	c.exprs = nil
	c.stmts = nil
}

func mutateExprList(m Mutator, exprs []Expr) ([]Expr, bool) {
	var out []Expr
	for i, e := range exprs {
		n := m.MutateExpr(e)
		if out == nil && n != e {
			out = make([]Expr, len(exprs))
			copy(out, exprs[:i])
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return exprs, false
	}
	return out, true
}

func mutateOpt(m Mutator, e Expr) Expr {
	if e == nil {
		return nil
	}
	return m.MutateExpr(e)
}

// MutateExprChildren rebuilds e with each child expression passed
// through m. The original node is returned when no child changed, so
// untouched subgraphs keep their identity.
func MutateExprChildren(m Mutator, e Expr) Expr {
	switch n := e.(type) {
	case *IntImm, *UIntImm, *FloatImm, *StringImm, *Var, *Wild:
		return e
	case *Cast:
		if v := m.MutateExpr(n.Value); v != n.Value {
			return &Cast{T: n.T, Value: v}
		}
	case *Broadcast:
		if v := m.MutateExpr(n.Value); v != n.Value {
			return &Broadcast{Value: v, Lanes: n.Lanes}
		}
	case *Ramp:
		base, stride := m.MutateExpr(n.Base), m.MutateExpr(n.Stride)
		if base != n.Base || stride != n.Stride {
			return &Ramp{Base: base, Stride: stride, Lanes: n.Lanes}
		}
	case *Binary:
		a, b := m.MutateExpr(n.A), m.MutateExpr(n.B)
		if a != n.A || b != n.B {
			return &Binary{Op: n.Op, A: a, B: b}
		}
	case *Not:
		if v := m.MutateExpr(n.Value); v != n.Value {
			return &Not{Value: v}
		}
	case *Select:
		cond, then, els := m.MutateExpr(n.Cond), m.MutateExpr(n.Then), m.MutateExpr(n.Else)
		if cond != n.Cond || then != n.Then || els != n.Else {
			return &Select{Cond: cond, Then: then, Else: els}
		}
	case *Load:
		index, pred := m.MutateExpr(n.Index), mutateOpt(m, n.Predicate)
		if index != n.Index || pred != n.Predicate {
			return &Load{T: n.T, Buf: n.Buf, Index: index, Predicate: pred, Align: n.Align}
		}
	case *Call:
		if args, changed := mutateExprList(m, n.Args); changed {
			return &Call{T: n.T, Name: n.Name, Args: args, Kind: n.Kind}
		}
	case *Let:
		value, body := m.MutateExpr(n.Value), m.MutateExpr(n.Body)
		if value != n.Value || body != n.Body {
			return &Let{Name: n.Name, Value: value, Body: body}
		}
	case *Shuffle:
		if vecs, changed := mutateExprList(m, n.Vectors); changed {
			return &Shuffle{Vectors: vecs, Indices: n.Indices}
		}
	case *VectorReduce:
		if v := m.MutateExpr(n.Value); v != n.Value {
			return &VectorReduce{T: n.T, Op: n.Op, Value: v}
		}
	default:
		panic("ir: MutateExprChildren of unknown expression kind")
	}
	return e
}

// MutateStmtChildren rebuilds s with each child passed through m,
// returning the original statement when nothing changed.
func MutateStmtChildren(m Mutator, s Stmt) Stmt {
	switch n := s.(type) {
	case *LetStmt:
		value, body := m.MutateExpr(n.Value), m.MutateStmt(n.Body)
		if value != n.Value || body != n.Body {
			return &LetStmt{Name: n.Name, Value: value, Body: body}
		}
	case *For:
		min, extent, body := m.MutateExpr(n.Min), m.MutateExpr(n.Extent), m.MutateStmt(n.Body)
		if min != n.Min || extent != n.Extent || body != n.Body {
			return &For{Name: n.Name, Min: min, Extent: extent, Body: body}
		}
	case *Block:
		var out []Stmt
		for i, st := range n.Stmts {
			ns := m.MutateStmt(st)
			if out == nil && ns != st {
				out = make([]Stmt, len(n.Stmts))
				copy(out, n.Stmts[:i])
			}
			if out != nil {
				out[i] = ns
			}
		}
		if out != nil {
			return &Block{Stmts: out}
		}
	case *Store:
		value, index, pred := m.MutateExpr(n.Value), m.MutateExpr(n.Index), mutateOpt(m, n.Predicate)
		if value != n.Value || index != n.Index || pred != n.Predicate {
			return &Store{Buf: n.Buf, Value: value, Index: index, Predicate: pred, Align: n.Align}
		}
	case *Evaluate:
		if v := m.MutateExpr(n.Value); v != n.Value {
			return &Evaluate{Value: v}
		}
	case *IfThenElse:
		cond, then := m.MutateExpr(n.Cond), m.MutateStmt(n.Then)
		var els Stmt
		if n.Else != nil {
			els = m.MutateStmt(n.Else)
		}
		if cond != n.Cond || then != n.Then || els != n.Else {
			return &IfThenElse{Cond: cond, Then: then, Else: els}
		}
	case *Allocate:
		extents, changed := mutateExprList(m, n.Extents)
		body := m.MutateStmt(n.Body)
		if changed || body != n.Body {
			return &Allocate{Name: n.Name, Elem: n.Elem, Extents: extents, Body: body}
		}
	case *Free:
		return s
	default:
		panic("ir: MutateStmtChildren of unknown statement kind")
	}
	return s
}
