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

// Package bounds infers conservative value intervals and alignment
// facts for IR expressions. The indirect-load strength reducer uses it
// to prove that a gather index stays inside a small table.
package bounds

import (
	"github.com/ajroetker/go-veclower/ir"
)

// Interval is an inclusive range of scalar values. A nil side is
// unbounded. Min and Max are expressions, not constants: callers
// simplify them before trying to prove anything.
type Interval struct {
	Min ir.Expr
	Max ir.Expr
}

// Bounded reports whether both sides are known.
func (iv Interval) Bounded() bool { return iv.Min != nil && iv.Max != nil }

// Point returns the degenerate interval [e, e].
func Point(e ir.Expr) Interval { return Interval{Min: e, Max: e} }

// Unbounded returns the interval with no information.
func Unbounded() Interval { return Interval{} }

// Scope is a stack-structured symbol table of intervals for let-bound
// names.
type Scope struct {
	stacks map[string][]Interval
}

// NewScope returns an empty scope.
func NewScope() *Scope { return &Scope{stacks: make(map[string][]Interval)} }

// Push enters a binding for name.
func (s *Scope) Push(name string, iv Interval) {
	s.stacks[name] = append(s.stacks[name], iv)
}

// Pop leaves the innermost binding for name.
func (s *Scope) Pop(name string) {
	st := s.stacks[name]
	if len(st) == 0 {
		panic("bounds: pop of unbound name " + name)
	}
	s.stacks[name] = st[:len(st)-1]
}

// Get returns the innermost interval bound to name.
func (s *Scope) Get(name string) (Interval, bool) {
	if s == nil {
		return Unbounded(), false
	}
	st := s.stacks[name]
	if len(st) == 0 {
		return Unbounded(), false
	}
	return st[len(st)-1], true
}

func minExpr(a, b ir.Expr) ir.Expr {
	if ir.Equal(a, b) {
		return a
	}
	return &ir.Binary{Op: ir.OpMin, A: a, B: b}
}

func maxExpr(a, b ir.Expr) ir.Expr {
	if ir.Equal(a, b) {
		return a
	}
	return &ir.Binary{Op: ir.OpMax, A: a, B: b}
}

func addExpr(a, b ir.Expr) ir.Expr { return &ir.Binary{Op: ir.OpAdd, A: a, B: b} }
func subExpr(a, b ir.Expr) ir.Expr { return &ir.Binary{Op: ir.OpSub, A: a, B: b} }

// typeRange returns the representable range of narrow integer types.
// Wider types yield no information, mirroring how little a 32-bit
// value constrains a table index.
func typeRange(t ir.Type) Interval {
	t = t.Elem()
	switch {
	case t.IsBool():
		return Interval{Min: ir.Const(ir.Int(32), 0), Max: ir.Const(ir.Int(32), 1)}
	case (t.IsInt() || t.IsUInt()) && t.Bits <= 16:
		return Interval{
			Min: ir.Const(t, t.MinInt()),
			Max: ir.Const(t, t.MaxInt()),
		}
	}
	return Unbounded()
}

// Of infers the interval of values e can take, over all lanes. The
// scope supplies intervals for let-bound vector names.
func Of(e ir.Expr, sc *Scope) Interval {
	switch n := e.(type) {
	case *ir.IntImm, *ir.UIntImm, *ir.FloatImm:
		return Point(e)
	case *ir.Var:
		if iv, ok := sc.Get(n.Name); ok {
			return iv
		}
		return typeRange(n.T)
	case *ir.Cast:
		inner := Of(n.Value, sc)
		elem := n.T.Elem()
		if inner.Bounded() {
			lo, okLo := ir.ConstValue(inner.Min)
			hi, okHi := ir.ConstValue(inner.Max)
			if okLo && okHi && elem.CanRepresentInt(lo) && elem.CanRepresentInt(hi) {
				return Interval{Min: ir.Const(elem, lo), Max: ir.Const(elem, hi)}
			}
			if elem.CanRepresent(n.Value.Type().Elem()) {
				return Interval{
					Min: &ir.Cast{T: elem, Value: inner.Min},
					Max: &ir.Cast{T: elem, Value: inner.Max},
				}
			}
		}
		return typeRange(n.T)
	case *ir.Broadcast:
		return Of(n.Value, sc)
	case *ir.Ramp:
		base, stride := Of(n.Base, sc), Of(n.Stride, sc)
		if !base.Bounded() || !stride.Bounded() {
			return Unbounded()
		}
		last := int64(n.Lanes - 1)
		scale := ir.Const(n.Stride.Type().Elem(), last)
		loEnd := addExpr(base.Min, &ir.Binary{Op: ir.OpMul, A: stride.Min, B: scale})
		hiEnd := addExpr(base.Max, &ir.Binary{Op: ir.OpMul, A: stride.Max, B: scale})
		return Interval{Min: minExpr(base.Min, loEnd), Max: maxExpr(base.Max, hiEnd)}
	case *ir.Binary:
		return ofBinary(n, sc)
	case *ir.Not:
		return typeRange(ir.Bool())
	case *ir.Select:
		a, b := Of(n.Then, sc), Of(n.Else, sc)
		if a.Bounded() && b.Bounded() {
			return Interval{Min: minExpr(a.Min, b.Min), Max: maxExpr(a.Max, b.Max)}
		}
		return Unbounded()
	case *ir.Let:
		sc2 := sc
		if sc2 == nil {
			sc2 = NewScope()
		}
		sc2.Push(n.Name, Of(n.Value, sc2))
		iv := Of(n.Body, sc2)
		sc2.Pop(n.Name)
		return iv
	case *ir.Shuffle:
		out := Of(n.Vectors[0], sc)
		for _, v := range n.Vectors[1:] {
			iv := Of(v, sc)
			if !iv.Bounded() || !out.Bounded() {
				return Unbounded()
			}
			out = Interval{Min: minExpr(out.Min, iv.Min), Max: maxExpr(out.Max, iv.Max)}
		}
		return out
	case *ir.VectorReduce:
		if n.Op == ir.ReduceMin || n.Op == ir.ReduceMax {
			return Of(n.Value, sc)
		}
		return typeRange(n.T)
	}
	return typeRange(e.Type())
}

func ofBinary(n *ir.Binary, sc *Scope) Interval {
	if n.Op.IsComparison() {
		return typeRange(ir.Bool())
	}
	a, b := Of(n.A, sc), Of(n.B, sc)
	switch n.Op {
	case ir.OpAdd:
		if a.Bounded() && b.Bounded() {
			return Interval{Min: addExpr(a.Min, b.Min), Max: addExpr(a.Max, b.Max)}
		}
	case ir.OpSub:
		if a.Bounded() && b.Bounded() {
			return Interval{Min: subExpr(a.Min, b.Max), Max: subExpr(a.Max, b.Min)}
		}
	case ir.OpMul:
		if c, ok := ir.ConstValue(n.B); ok && a.Bounded() {
			scale := ir.Const(n.A.Type().Elem(), c)
			lo := &ir.Binary{Op: ir.OpMul, A: a.Min, B: scale}
			hi := &ir.Binary{Op: ir.OpMul, A: a.Max, B: scale}
			if c >= 0 {
				return Interval{Min: lo, Max: hi}
			}
			return Interval{Min: hi, Max: lo}
		}
	case ir.OpDiv:
		if c, ok := ir.ConstValue(n.B); ok && c > 0 && a.Bounded() {
			d := ir.Const(n.A.Type().Elem(), c)
			return Interval{
				Min: &ir.Binary{Op: ir.OpDiv, A: a.Min, B: d},
				Max: &ir.Binary{Op: ir.OpDiv, A: a.Max, B: d},
			}
		}
	case ir.OpMod:
		// Euclidean mod by a positive constant lands in [0, c-1]
		// regardless of the dividend.
		if c, ok := ir.ConstValue(n.B); ok && c > 0 {
			elem := n.A.Type().Elem()
			return Interval{Min: ir.Const(elem, 0), Max: ir.Const(elem, c-1)}
		}
	case ir.OpMin:
		if a.Bounded() && b.Bounded() {
			return Interval{Min: minExpr(a.Min, b.Min), Max: minExpr(a.Max, b.Max)}
		}
	case ir.OpMax:
		if a.Bounded() && b.Bounded() {
			return Interval{Min: maxExpr(a.Min, b.Min), Max: maxExpr(a.Max, b.Max)}
		}
	case ir.OpAnd, ir.OpOr:
		return typeRange(ir.Bool())
	}
	return typeRange(n.Type())
}
