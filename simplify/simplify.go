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

// Package simplify folds constants and applies cheap algebraic
// identities to IR, and eliminates common subexpressions. The lowering
// passes lean on it in two places: proving that gather index spans fit
// in a table, and tidying the IR between rewrite stages.
package simplify

import (
	"github.com/ajroetker/go-veclower/ir"
)

type simplifier struct {
	ir.Memo
}

func (s *simplifier) MutateExpr(e ir.Expr) ir.Expr {
	if c, ok := s.CachedExpr(e); ok {
		return c
	}
	out := ir.MutateExprChildren(s, e)
	if let, ok := out.(*ir.Let); ok {
		// Lets of variables and constants are inlined, and the body
		// re-simplified with the value in place.
		switch let.Value.(type) {
		case *ir.Var, *ir.IntImm, *ir.UIntImm, *ir.FloatImm:
			return s.StoreExpr(e, s.MutateExpr(ir.Substitute(let.Name, let.Value, let.Body)))
		}
	}
	return s.StoreExpr(e, simplifyNode(out))
}

func (s *simplifier) MutateStmt(st ir.Stmt) ir.Stmt {
	if c, ok := s.CachedStmt(st); ok {
		return c
	}
	out := ir.MutateStmtChildren(s, st)
	if ite, ok := out.(*ir.IfThenElse); ok {
		if c, isConst := boolConst(ite.Cond); isConst {
			if c {
				out = ite.Then
			} else if ite.Else != nil {
				out = ite.Else
			} else {
				out = &ir.Block{}
			}
		}
	}
	return s.StoreStmt(st, out)
}

// Simplify returns e with constants folded and trivial identities
// removed. The result is structurally stable: simplifying twice gives
// the same expression.
func Simplify(e ir.Expr) ir.Expr {
	s := &simplifier{}
	return s.MutateExpr(e)
}

// SimplifyStmt simplifies every expression in s.
func SimplifyStmt(st ir.Stmt) ir.Stmt {
	s := &simplifier{}
	return s.MutateStmt(st)
}

func boolConst(e ir.Expr) (value, isConst bool) {
	switch n := e.(type) {
	case *ir.UIntImm:
		if n.T.IsBool() {
			return n.Value != 0, true
		}
	case *ir.Broadcast:
		return boolConst(n.Value)
	}
	return false, false
}

// CanProve reports whether e simplifies to a constant true.
func CanProve(e ir.Expr) bool {
	v, isConst := boolConst(Simplify(e))
	return isConst && v
}

// euclidDiv rounds the quotient toward negative infinity, matching the
// IR's division semantics.
func euclidDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func euclidModI(a, b int64) int64 {
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		r += b
	}
	return r
}

func simplifyNode(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case *ir.Binary:
		return simplifyBinary(n)
	case *ir.Cast:
		return simplifyCast(n)
	case *ir.Not:
		if v, isConst := boolConst(n.Value); isConst {
			return ir.ConstU(n.Value.Type(), boolBit(!v))
		}
		if inner, ok := n.Value.(*ir.Not); ok {
			return inner.Value
		}
	case *ir.Select:
		if v, isConst := boolConst(n.Cond); isConst {
			if v {
				return n.Then
			}
			return n.Else
		}
		if ir.Equal(n.Then, n.Else) {
			return n.Then
		}
	}
	return e
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func simplifyCast(n *ir.Cast) ir.Expr {
	if n.Value.Type() == n.T {
		return n.Value
	}
	elem := n.T.Elem()
	if v, ok := ir.ConstValue(n.Value); ok && (elem.IsInt() || elem.IsUInt()) && elem.CanRepresentInt(v) {
		return ir.Const(n.T, v)
	}
	if f, ok := ir.ConstFloat(n.Value); ok && elem.IsFloat() {
		return ir.ConstF(n.T, f)
	}
	return n
}

func simplifyBinary(n *ir.Binary) ir.Expr {
	t := n.A.Type()
	intLike := t.IsInt() || t.IsUInt()

	if intLike {
		a, aok := ir.ConstValue(n.A)
		b, bok := ir.ConstValue(n.B)
		if aok && bok {
			if out, ok := foldInt(n.Op, a, b, t, n.Type()); ok {
				return out
			}
		}
		if out, ok := foldIntIdentities(n, a, aok, b, bok); ok {
			return out
		}
	}

	if t.IsFloat() {
		a, aok := ir.ConstFloat(n.A)
		b, bok := ir.ConstFloat(n.B)
		if aok && bok {
			if out, ok := foldFloat(n.Op, a, b, t, n.Type()); ok {
				return out
			}
		}
	}

	if t.IsBool() {
		if out, ok := foldBool(n); ok {
			return out
		}
	}

	switch n.Op {
	case ir.OpMin, ir.OpMax:
		if ir.Equal(n.A, n.B) {
			return n.A
		}
	case ir.OpEQ, ir.OpLE, ir.OpGE:
		if intLike && ir.Equal(n.A, n.B) {
			return ir.ConstU(ir.Bool(t.Lanes), 1)
		}
	case ir.OpNE, ir.OpLT, ir.OpGT:
		if intLike && ir.Equal(n.A, n.B) {
			return ir.ConstU(ir.Bool(t.Lanes), 0)
		}
	}
	return n
}

func foldInt(op ir.BinOp, a, b int64, opndT, resT ir.Type) (ir.Expr, bool) {
	var v int64
	switch op {
	case ir.OpAdd:
		v = a + b
	case ir.OpSub:
		v = a - b
	case ir.OpMul:
		v = a * b
	case ir.OpDiv:
		if b == 0 {
			return nil, false
		}
		v = euclidDiv(a, b)
	case ir.OpMod:
		if b == 0 {
			return nil, false
		}
		v = euclidModI(a, b)
	case ir.OpShl:
		if b < 0 || b >= 63 {
			return nil, false
		}
		v = a << uint(b)
	case ir.OpShr:
		if b < 0 || b >= 64 {
			return nil, false
		}
		v = a >> uint(b)
	case ir.OpMin:
		v = min(a, b)
	case ir.OpMax:
		v = max(a, b)
	case ir.OpEQ:
		return ir.ConstU(resT, boolBit(a == b)), true
	case ir.OpNE:
		return ir.ConstU(resT, boolBit(a != b)), true
	case ir.OpLT:
		return ir.ConstU(resT, boolBit(a < b)), true
	case ir.OpLE:
		return ir.ConstU(resT, boolBit(a <= b)), true
	case ir.OpGT:
		return ir.ConstU(resT, boolBit(a > b)), true
	case ir.OpGE:
		return ir.ConstU(resT, boolBit(a >= b)), true
	default:
		return nil, false
	}
	if !opndT.Elem().CanRepresentInt(v) {
		return nil, false
	}
	return ir.Const(opndT, v), true
}

func foldIntIdentities(n *ir.Binary, a int64, aok bool, b int64, bok bool) (ir.Expr, bool) {
	switch n.Op {
	case ir.OpAdd:
		if bok && b == 0 {
			return n.A, true
		}
		if aok && a == 0 {
			return n.B, true
		}
		// (x + c1) + c2 folds into x + (c1 + c2).
		if bok {
			if inner, ok := n.A.(*ir.Binary); ok && inner.Op == ir.OpAdd {
				if c1, ok := ir.ConstValue(inner.B); ok && n.A.Type().Elem().CanRepresentInt(c1+b) {
					if c1+b == 0 {
						return inner.A, true
					}
					return &ir.Binary{Op: ir.OpAdd, A: inner.A, B: ir.Const(inner.B.Type(), c1+b)}, true
				}
			}
		}
	case ir.OpSub:
		if bok && b == 0 {
			return n.A, true
		}
		if bok {
			if inner, ok := n.A.(*ir.Binary); ok && inner.Op == ir.OpAdd {
				if c1, ok := ir.ConstValue(inner.B); ok && n.A.Type().Elem().CanRepresentInt(c1-b) {
					if c1-b == 0 {
						return inner.A, true
					}
					return &ir.Binary{Op: ir.OpAdd, A: inner.A, B: ir.Const(inner.B.Type(), c1-b)}, true
				}
			}
		}
		if ir.Equal(n.A, n.B) {
			return ir.Const(n.A.Type(), 0), true
		}
	case ir.OpMul:
		if bok && b == 1 {
			return n.A, true
		}
		if aok && a == 1 {
			return n.B, true
		}
		if (bok && b == 0) || (aok && a == 0) {
			return ir.Const(n.A.Type(), 0), true
		}
	case ir.OpDiv:
		if bok && b == 1 {
			return n.A, true
		}
	case ir.OpMod:
		if bok && b == 1 {
			return ir.Const(n.A.Type(), 0), true
		}
	case ir.OpShl, ir.OpShr:
		if bok && b == 0 {
			return n.A, true
		}
	}
	return nil, false
}

func foldFloat(op ir.BinOp, a, b float64, opndT, resT ir.Type) (ir.Expr, bool) {
	switch op {
	case ir.OpAdd:
		return ir.ConstF(opndT, a+b), true
	case ir.OpSub:
		return ir.ConstF(opndT, a-b), true
	case ir.OpMul:
		return ir.ConstF(opndT, a*b), true
	case ir.OpDiv:
		if b == 0 {
			return nil, false
		}
		return ir.ConstF(opndT, a/b), true
	case ir.OpMin:
		return ir.ConstF(opndT, min(a, b)), true
	case ir.OpMax:
		return ir.ConstF(opndT, max(a, b)), true
	case ir.OpEQ:
		return ir.ConstU(resT, boolBit(a == b)), true
	case ir.OpNE:
		return ir.ConstU(resT, boolBit(a != b)), true
	case ir.OpLT:
		return ir.ConstU(resT, boolBit(a < b)), true
	case ir.OpLE:
		return ir.ConstU(resT, boolBit(a <= b)), true
	case ir.OpGT:
		return ir.ConstU(resT, boolBit(a > b)), true
	case ir.OpGE:
		return ir.ConstU(resT, boolBit(a >= b)), true
	}
	return nil, false
}

func foldBool(n *ir.Binary) (ir.Expr, bool) {
	a, aok := boolConst(n.A)
	b, bok := boolConst(n.B)
	switch n.Op {
	case ir.OpAnd:
		if aok && bok {
			return ir.ConstU(n.A.Type(), boolBit(a && b)), true
		}
		if aok && !a {
			return n.A, true
		}
		if bok && !b {
			return n.B, true
		}
		if aok && a {
			return n.B, true
		}
		if bok && b {
			return n.A, true
		}
	case ir.OpOr:
		if aok && bok {
			return ir.ConstU(n.A.Type(), boolBit(a || b)), true
		}
		if aok && a {
			return n.A, true
		}
		if bok && b {
			return n.B, true
		}
		if aok && !a {
			return n.B, true
		}
		if bok && !b {
			return n.A, true
		}
	}
	return nil, false
}
