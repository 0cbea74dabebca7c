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

import (
	"fmt"
	"sync/atomic"
)

// Expr is an expression node. All implementations are pointers, so
// comparing two Expr values with == tests node identity, which the
// mutator caches and the equality check use as a fast path.
type Expr interface {
	Type() Type
	exprNode()
}

// BinOp identifies a binary operator.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv // Euclidean: rounds toward negative infinity
	OpMod // result has the sign of the divisor
	OpShl
	OpShr // arithmetic for signed types, logical for unsigned
	OpMin
	OpMax
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpAnd
	OpOr
)

// IsComparison reports whether the operator yields a boolean.
func (op BinOp) IsComparison() bool { return op >= OpEQ && op <= OpGE }

// IsCommutative reports whether swapping the operands preserves the
// result.
func (op BinOp) IsCommutative() bool {
	switch op {
	case OpAdd, OpMul, OpMin, OpMax, OpEQ, OpNE, OpAnd, OpOr:
		return true
	}
	return false
}

func (op BinOp) String() string {
	names := [...]string{"+", "-", "*", "/", "%", "<<", ">>", "min", "max", "==", "!=", "<", "<=", ">", ">=", "&&", "||"}
	if int(op) < len(names) {
		return names[op]
	}
	return fmt.Sprintf("binop(%d)", op)
}

// CallKind distinguishes IR-level intrinsics, which later passes may
// expand, from opaque target intrinsic calls.
type CallKind uint8

const (
	CallIntrinsic CallKind = iota
	CallExtern
)

// ReduceOp identifies the combining operator of a VectorReduce.
type ReduceOp uint8

const (
	ReduceAdd ReduceOp = iota
	ReduceMul
	ReduceMin
	ReduceMax
	ReduceAnd
	ReduceOr
)

func (op ReduceOp) String() string {
	names := [...]string{"add", "mul", "min", "max", "and", "or"}
	if int(op) < len(names) {
		return names[op]
	}
	return fmt.Sprintf("reduce(%d)", op)
}

// IntImm is a signed integer constant.
type IntImm struct {
	T     Type
	Value int64
}

// UIntImm is an unsigned integer or boolean constant.
type UIntImm struct {
	T     Type
	Value uint64
}

// FloatImm is a floating point constant.
type FloatImm struct {
	T     Type
	Value float64
}

// StringImm is a string constant, used for buffer names passed to
// intrinsics.
type StringImm struct {
	Value string
}

// Var is a named scalar or vector value bound by a Let, LetStmt or For.
type Var struct {
	T    Type
	Name string
}

// Wild is a typed wildcard. It appears only inside pattern shapes,
// never in real IR. A pattern type with Lanes == 0 matches any lane
// count.
type Wild struct {
	T Type
}

// Cast converts a value to another type with the same lane count.
type Cast struct {
	T     Type
	Value Expr
}

// Broadcast replicates a scalar across Lanes lanes. Pattern shapes may
// carry Lanes == 0, matching any broadcast.
type Broadcast struct {
	Value Expr
	Lanes int
}

// Ramp is the vector Base, Base+Stride, ..., Base+(Lanes-1)*Stride.
type Ramp struct {
	Base   Expr
	Stride Expr
	Lanes  int
}

// Binary applies Op lane-wise to two operands of identical type
// (comparisons yield a boolean vector of the operand lane count).
type Binary struct {
	Op   BinOp
	A, B Expr
}

// Not is lane-wise boolean negation.
type Not struct {
	Value Expr
}

// Select chooses lane-wise between Then and Else.
type Select struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Load reads from a named buffer. A nil Predicate means the load is
// unconditional. Align carries what is known about the alignment of
// Index's first element, in elements.
type Load struct {
	T         Type
	Buf       string
	Index     Expr
	Predicate Expr
	Align     ModRem
}

// Call invokes a named intrinsic.
type Call struct {
	T    Type
	Name string
	Args []Expr
	Kind CallKind
}

// Let binds Name to Value inside Body.
type Let struct {
	Name  string
	Value Expr
	Body  Expr
}

// Shuffle selects lanes from the concatenation of Vectors. Index i
// refers to lane i of that concatenation. The vectors must share an
// element type.
type Shuffle struct {
	Vectors []Expr
	Indices []int
}

// VectorReduce combines groups of lanes of Value with Op. The result
// type T must have a lane count that divides Value's.
type VectorReduce struct {
	T     Type
	Op    ReduceOp
	Value Expr
}

func (e *IntImm) Type() Type    { return e.T }
func (e *UIntImm) Type() Type   { return e.T }
func (e *FloatImm) Type() Type  { return e.T }
func (e *StringImm) Type() Type { return Handle() }
func (e *Var) Type() Type       { return e.T }
func (e *Wild) Type() Type      { return e.T }
func (e *Cast) Type() Type      { return e.T }
func (e *Broadcast) Type() Type { return e.Value.Type().WithLanes(e.Lanes) }
func (e *Ramp) Type() Type      { return e.Base.Type().WithLanes(e.Lanes) }

func (e *Binary) Type() Type {
	if e.Op.IsComparison() {
		return Bool(e.A.Type().Lanes)
	}
	return e.A.Type()
}

func (e *Not) Type() Type    { return e.Value.Type() }
func (e *Select) Type() Type { return e.Then.Type() }
func (e *Load) Type() Type   { return e.T }
func (e *Call) Type() Type   { return e.T }
func (e *Let) Type() Type    { return e.Body.Type() }

func (e *Shuffle) Type() Type {
	return e.Vectors[0].Type().Elem().WithLanes(len(e.Indices))
}

func (e *VectorReduce) Type() Type { return e.T }

func (*IntImm) exprNode()       {}
func (*UIntImm) exprNode()      {}
func (*FloatImm) exprNode()     {}
func (*StringImm) exprNode()    {}
func (*Var) exprNode()          {}
func (*Wild) exprNode()         {}
func (*Cast) exprNode()         {}
func (*Broadcast) exprNode()    {}
func (*Ramp) exprNode()         {}
func (*Binary) exprNode()       {}
func (*Not) exprNode()          {}
func (*Select) exprNode()       {}
func (*Load) exprNode()         {}
func (*Call) exprNode()         {}
func (*Let) exprNode()          {}
func (*Shuffle) exprNode()      {}
func (*VectorReduce) exprNode() {}

// Const returns a constant of type t holding the signed value v;
// vector types produce a broadcast.
func Const(t Type, v int64) Expr {
	if t.Lanes != 1 {
		return &Broadcast{Value: Const(t.Elem(), v), Lanes: t.Lanes}
	}
	switch t.Code {
	case TInt:
		return &IntImm{T: t, Value: v}
	case TUInt, TBool:
		return &UIntImm{T: t, Value: uint64(v)}
	case TFloat:
		return &FloatImm{T: t, Value: float64(v)}
	}
	panic(fmt.Sprintf("ir: Const of type %v", t))
}

// ConstU returns an unsigned constant of type t.
func ConstU(t Type, v uint64) Expr {
	if t.Lanes != 1 {
		return &Broadcast{Value: ConstU(t.Elem(), v), Lanes: t.Lanes}
	}
	switch t.Code {
	case TUInt, TBool:
		return &UIntImm{T: t, Value: v}
	case TInt:
		return &IntImm{T: t, Value: int64(v)}
	case TFloat:
		return &FloatImm{T: t, Value: float64(v)}
	}
	panic(fmt.Sprintf("ir: ConstU of type %v", t))
}

// ConstF returns a floating point constant of type t.
func ConstF(t Type, v float64) Expr {
	if t.Lanes != 1 {
		return &Broadcast{Value: ConstF(t.Elem(), v), Lanes: t.Lanes}
	}
	return &FloatImm{T: t, Value: v}
}

// ConstBool returns a scalar boolean constant.
func ConstBool(v bool) Expr {
	var u uint64
	if v {
		u = 1
	}
	return &UIntImm{T: Bool(), Value: u}
}

// ConstValue extracts the signed integer value of a constant
// expression: an integer immediate or a broadcast of one.
func ConstValue(e Expr) (int64, bool) {
	switch n := e.(type) {
	case *IntImm:
		return n.Value, true
	case *UIntImm:
		if n.Value <= 1<<63-1 {
			return int64(n.Value), true
		}
	case *Broadcast:
		return ConstValue(n.Value)
	}
	return 0, false
}

// ConstFloat extracts the value of a floating point constant or a
// broadcast of one.
func ConstFloat(e Expr) (float64, bool) {
	switch n := e.(type) {
	case *FloatImm:
		return n.Value, true
	case *Broadcast:
		return ConstFloat(n.Value)
	}
	return 0, false
}

// IsConstValue reports whether e is a constant equal to v.
func IsConstValue(e Expr, v int64) bool {
	c, ok := ConstValue(e)
	return ok && c == v
}

var nameCounter atomic.Int64

// UniqueName returns a fresh name with the given prefix. Names are
// unique for the lifetime of the process.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, nameCounter.Add(1))
}
