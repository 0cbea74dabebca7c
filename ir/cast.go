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

// LosslessCast returns e converted to type t when the conversion
// provably loses no information, and nil otherwise. It strips widening
// casts, narrows constants that fit, and looks through broadcasts.
// This is what the narrowing match flags use to reinterpret operands
// at half width.
func LosslessCast(t Type, e Expr) Expr {
	if e == nil || e.Type() == t {
		return e
	}
	if t.CanRepresent(e.Type()) {
		return &Cast{T: t, Value: e}
	}
	switch n := e.(type) {
	case *Cast:
		if n.T.CanRepresent(n.Value.Type()) {
			return LosslessCast(t, n.Value)
		}
	case *Broadcast:
		if v := LosslessCast(t.Elem(), n.Value); v != nil {
			return &Broadcast{Value: v, Lanes: n.Lanes}
		}
	case *IntImm:
		if t.CanRepresentInt(n.Value) {
			return Const(t, n.Value)
		}
	case *UIntImm:
		if t.CanRepresentUint(n.Value) {
			return ConstU(t, n.Value)
		}
	}
	return nil
}

// SaturatingCast converts e to the integer type t, clamping to t's
// representable range first. The clamp runs in e's type, which must be
// wide enough to hold t's bounds.
func SaturatingCast(t Type, e Expr) Expr {
	et := e.Type()
	hi := Const(et, t.Elem().MaxInt())
	lo := Const(et, t.Elem().MinInt())
	clamped := &Binary{Op: OpMax, A: &Binary{Op: OpMin, A: e, B: hi}, B: lo}
	return &Cast{T: t, Value: clamped}
}
