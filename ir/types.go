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

// Package ir defines the vector expression IR that the lowering passes
// operate on: scalar and vector types, expression and statement nodes,
// structural equality over shared graphs, and the mutator machinery
// used by every pass.
//
// Expressions form a DAG, not a tree: subtrees are shared freely and
// passes are expected to preserve that sharing. Mutators therefore cache
// results by node identity (see Memo) and rebuild a node only when one
// of its children actually changed.
package ir

import "fmt"

// Code classifies the element type of a Type.
type Code uint8

const (
	TInt Code = iota
	TUInt
	TFloat
	TBool
	THandle
)

// Type describes the type of an expression: an element kind, the bit
// width of one element, and a lane count. Lanes == 1 is a scalar.
// Pattern types may carry Lanes == 0, meaning "any lane count"; real IR
// never does.
//
// Bit widths are not restricted to powers of two: the fixed-point
// accumulator types int24 and int48 are first class.
type Type struct {
	Code  Code
	Bits  int
	Lanes int
}

func lanesOf(lanes []int) int {
	switch len(lanes) {
	case 0:
		return 1
	case 1:
		return lanes[0]
	}
	panic("ir: too many lane arguments")
}

// Int returns a signed integer type. Int(32) is a scalar, Int(32, 16)
// a 16-lane vector.
func Int(bits int, lanes ...int) Type { return Type{TInt, bits, lanesOf(lanes)} }

// UInt returns an unsigned integer type.
func UInt(bits int, lanes ...int) Type { return Type{TUInt, bits, lanesOf(lanes)} }

// Float returns a floating point type.
func Float(bits int, lanes ...int) Type { return Type{TFloat, bits, lanesOf(lanes)} }

// Bool returns a boolean type. Booleans are one bit wide.
func Bool(lanes ...int) Type { return Type{TBool, 1, lanesOf(lanes)} }

// Handle returns the opaque pointer type.
func Handle() Type { return Type{THandle, 64, 1} }

func (t Type) IsInt() bool    { return t.Code == TInt }
func (t Type) IsUInt() bool   { return t.Code == TUInt }
func (t Type) IsFloat() bool  { return t.Code == TFloat }
func (t Type) IsBool() bool   { return t.Code == TBool }
func (t Type) IsHandle() bool { return t.Code == THandle }

func (t Type) IsScalar() bool { return t.Lanes == 1 }
func (t Type) IsVector() bool { return t.Lanes != 1 }

// Elem returns the scalar type of one lane.
func (t Type) Elem() Type { t.Lanes = 1; return t }

// WithLanes returns t with the lane count replaced.
func (t Type) WithLanes(lanes int) Type { t.Lanes = lanes; return t }

// WithBits returns t with the element bit width replaced.
func (t Type) WithBits(bits int) Type { t.Bits = bits; return t }

// WithCode returns t with the element kind replaced.
func (t Type) WithCode(c Code) Type { t.Code = c; return t }

// Bytes returns the storage size of one element, rounding sub-byte
// widths up.
func (t Type) Bytes() int { return (t.Bits + 7) / 8 }

// MaxInt returns the largest value representable by an integer type.
func (t Type) MaxInt() int64 {
	switch t.Code {
	case TInt:
		return (1 << (t.Bits - 1)) - 1
	case TUInt:
		if t.Bits >= 64 {
			return 1<<63 - 1
		}
		return (1 << t.Bits) - 1
	case TBool:
		return 1
	}
	panic(fmt.Sprintf("ir: MaxInt of non-integer type %v", t))
}

// MinInt returns the smallest value representable by an integer type.
func (t Type) MinInt() int64 {
	if t.Code == TInt {
		return -(1 << (t.Bits - 1))
	}
	return 0
}

func mantissaBits(floatBits int) int {
	switch floatBits {
	case 16:
		return 11
	case 32:
		return 24
	case 64:
		return 53
	}
	return 0
}

// CanRepresent reports whether every value of type o is exactly
// representable in t. Lane counts must agree.
func (t Type) CanRepresent(o Type) bool {
	if t.Lanes != o.Lanes {
		return false
	}
	if o.Code == TBool {
		o.Code, o.Bits = TUInt, 1
	}
	switch t.Code {
	case TInt:
		return (o.Code == TInt && o.Bits <= t.Bits) || (o.Code == TUInt && o.Bits < t.Bits)
	case TUInt:
		return o.Code == TUInt && o.Bits <= t.Bits
	case TFloat:
		if o.Code == TFloat {
			return o.Bits <= t.Bits
		}
		return (o.Code == TInt || o.Code == TUInt) && o.Bits <= mantissaBits(t.Bits)
	case TBool:
		return o.Code == TUInt && o.Bits == 1
	case THandle:
		return o.Code == THandle
	}
	return false
}

// CanRepresentInt reports whether the signed value v is exactly
// representable in t.
func (t Type) CanRepresentInt(v int64) bool {
	switch t.Code {
	case TInt:
		return v >= t.MinInt() && v <= t.MaxInt()
	case TUInt:
		return v >= 0 && (t.Bits >= 64 || v <= t.MaxInt())
	case TBool:
		return v == 0 || v == 1
	case TFloat:
		m := int64(1) << mantissaBits(t.Bits)
		return v >= -m && v <= m
	}
	return false
}

// CanRepresentUint reports whether the unsigned value v is exactly
// representable in t.
func (t Type) CanRepresentUint(v uint64) bool {
	if v <= 1<<63-1 {
		return t.CanRepresentInt(int64(v))
	}
	return t.Code == TUInt && t.Bits >= 64
}

func (t Type) String() string {
	var s string
	switch t.Code {
	case TInt:
		s = fmt.Sprintf("int%d", t.Bits)
	case TUInt:
		s = fmt.Sprintf("uint%d", t.Bits)
	case TFloat:
		s = fmt.Sprintf("float%d", t.Bits)
	case TBool:
		s = "bool"
	case THandle:
		s = "handle"
	default:
		s = fmt.Sprintf("code(%d)?%d", t.Code, t.Bits)
	}
	if t.Lanes != 1 {
		s += fmt.Sprintf("x%d", t.Lanes)
	}
	return s
}

// ModRem records what is known about the alignment of an integer
// quantity: the value is congruent to Remainder modulo Modulus. The
// zero value means nothing is known.
type ModRem struct {
	Modulus   int64
	Remainder int64
}

// Known reports whether the alignment carries any information.
func (m ModRem) Known() bool { return m.Modulus > 0 }
