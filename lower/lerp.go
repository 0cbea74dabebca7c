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

	"github.com/ajroetker/go-veclower/ir"
)

// LowerLerp expands the linear interpolation lerp(a, b, w) into
// arithmetic the pattern tables can work on. Expanding before matching
// lets the widening and averaging rules claim the intermediate
// products.
//
// Integer lerps blend in fixed point with a double width intermediate:
// the products are bounded by (2^bits-1)^2, so the wide type cannot
// overflow. Signed types are biased into the unsigned range first,
// then shifted back.
func LowerLerp(a, b, w ir.Expr) ir.Expr {
	t := a.Type()
	if w.Type().IsScalar() && t.IsVector() {
		w = &ir.Broadcast{Value: w, Lanes: t.Lanes}
	}
	if w.Type().IsBool() {
		return &ir.Select{Cond: w, Then: b, Else: a}
	}
	switch {
	case t.IsFloat():
		return add(a, mul(sub(b, a), w))
	case t.IsUInt():
		return lowerUIntLerp(a, b, w)
	case t.IsInt():
		ut := t.WithCode(ir.TUInt)
		// Same-width int to uint conversion wraps, so adding half the
		// range maps the signed order onto the unsigned one.
		bias := ir.Const(ut, int64(1)<<(t.Bits-1))
		ua := add(&ir.Cast{T: ut, Value: a}, bias)
		ub := add(&ir.Cast{T: ut, Value: b}, bias)
		return &ir.Cast{T: t, Value: sub(lowerUIntLerp(ua, ub, w), bias)}
	}
	panic(fmt.Sprintf("lower: cannot lower lerp of type %v", t))
}

func lowerUIntLerp(a, b, w ir.Expr) ir.Expr {
	t := a.Type()
	if t.Bits > 32 {
		panic(fmt.Sprintf("lower: cannot lower lerp of type %v", t))
	}
	if !w.Type().IsUInt() || w.Type().Bits != t.Bits {
		panic(fmt.Sprintf("lower: lerp weight %v does not fit value type %v", w.Type(), t))
	}
	wide := t.WithBits(2 * t.Bits)
	maxW := int64(1)<<t.Bits - 1
	wa := &ir.Cast{T: wide, Value: a}
	wb := &ir.Cast{T: wide, Value: b}
	ww := &ir.Cast{T: wide, Value: w}
	blend := add(mul(wa, sub(ir.Const(wide, maxW), ww)), mul(wb, ww))
	rounded := add(blend, ir.Const(wide, maxW/2))
	return &ir.Cast{T: t, Value: div(rounded, ir.Const(wide, maxW))}
}
