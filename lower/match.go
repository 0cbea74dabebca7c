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
	"fmt"

	"modernc.org/mathutil"

	"github.com/ajroetker/go-veclower/ir"
)

// Match reports whether e has the structure of shape. Subexpressions of
// e bound by wildcards are appended to *matches in shape traversal
// order; *matches is reset first and is meaningless when Match returns
// false.
func Match(shape, e ir.Expr, matches *[]ir.Expr) bool {
	*matches = (*matches)[:0]
	return matchExpr(shape, e, matches)
}

func matchExpr(shape, e ir.Expr, matches *[]ir.Expr) bool {
	switch p := shape.(type) {
	case *ir.Wild:
		if !typeMatches(p.T, e.Type()) {
			return false
		}
		*matches = append(*matches, e)
		return true
	case *ir.IntImm:
		o, ok := e.(*ir.IntImm)
		return ok && o.T == p.T && o.Value == p.Value
	case *ir.UIntImm:
		o, ok := e.(*ir.UIntImm)
		return ok && o.T == p.T && o.Value == p.Value
	case *ir.FloatImm:
		o, ok := e.(*ir.FloatImm)
		return ok && o.T == p.T && o.Value == p.Value
	case *ir.Cast:
		o, ok := e.(*ir.Cast)
		return ok && typeMatches(p.T, o.T) && matchExpr(p.Value, o.Value, matches)
	case *ir.Broadcast:
		o, ok := e.(*ir.Broadcast)
		return ok && (p.Lanes == 0 || p.Lanes == o.Lanes) && matchExpr(p.Value, o.Value, matches)
	case *ir.Ramp:
		o, ok := e.(*ir.Ramp)
		return ok && p.Lanes == o.Lanes &&
			matchExpr(p.Base, o.Base, matches) && matchExpr(p.Stride, o.Stride, matches)
	case *ir.Binary:
		o, ok := e.(*ir.Binary)
		return ok && o.Op == p.Op &&
			matchExpr(p.A, o.A, matches) && matchExpr(p.B, o.B, matches)
	case *ir.Call:
		o, ok := e.(*ir.Call)
		if !ok || o.Name != p.Name || o.Kind != p.Kind ||
			len(o.Args) != len(p.Args) || !typeMatches(p.T, o.T) {
			return false
		}
		for i := range p.Args {
			if !matchExpr(p.Args[i], o.Args[i], matches) {
				return false
			}
		}
		return true
	case *ir.VectorReduce:
		o, ok := e.(*ir.VectorReduce)
		return ok && o.Op == p.Op && typeMatches(p.T, o.T) &&
			matchExpr(p.Value, o.Value, matches)
	}
	panic(fmt.Sprintf("lower: unsupported node in pattern shape: %s", ir.Print(shape)))
}

// typeMatches checks an expression type against a pattern type. A
// pattern lane count of zero matches anything.
func typeMatches(pattern, t ir.Type) bool {
	if pattern.Lanes != 0 && pattern.Lanes != t.Lanes {
		return false
	}
	return pattern.Code == t.Code && pattern.Bits == t.Bits
}

// processMatchFlags applies the operand transformations requested by
// flags, returning false when a precondition fails and the rule must be
// skipped.
func processMatchFlags(matches []ir.Expr, flags Flags) ([]ir.Expr, bool) {
	// The narrowing flags are laid out so the operand index can be
	// recovered from the bit position.
	for i := range matches {
		t := matches[i].Type()
		half := t.WithBits(t.Bits / 2)
		if flags&(NarrowOp0<<i) != 0 {
			matches[i] = ir.LosslessCast(half, matches[i])
		} else if flags&(NarrowUnsignedOp0<<i) != 0 {
			matches[i] = ir.LosslessCast(half.WithCode(ir.TUInt), matches[i])
		}
		if matches[i] == nil {
			return nil, false
		}
	}

	for i := 1; i < 3; i++ {
		if flags&(ExactLog2Op1<<(i-1)) == 0 {
			continue
		}
		v, ok := ir.ConstValue(matches[i])
		if !ok || v <= 0 || v&(v-1) != 0 {
			return nil, false
		}
		pow := mathutil.Log2Uint64(uint64(v))
		matches[i] = ir.Const(matches[i].Type().WithLanes(1), int64(pow))
	}

	if flags&PassOps != 0 {
		passed := make([]ir.Expr, 0, 4)
		for i := 0; i < 4; i++ {
			if flags&(PassOnlyOp0<<i) != 0 {
				passed = append(passed, matches[i])
			}
		}
		matches = passed
	}

	if flags&SwapOps01 != 0 {
		if len(matches) < 2 {
			panic("lower: SwapOps01 needs two operands")
		}
		matches[0], matches[1] = matches[1], matches[0]
	}
	if flags&SwapOps12 != 0 {
		if len(matches) < 3 {
			panic("lower: SwapOps12 needs three operands")
		}
		matches[1], matches[2] = matches[2], matches[1]
	}
	if flags&SameOp01 != 0 {
		if len(matches) != 2 {
			panic("lower: SameOp01 needs exactly two operands")
		}
		if !ir.Equal(matches[0], matches[1]) {
			return nil, false
		}
		matches = matches[:1]
	}
	return matches, true
}
