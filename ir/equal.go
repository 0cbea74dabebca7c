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

import "math"

// Equal reports structural equality of two expression graphs. Shared
// nodes compare by identity first, so equality over a DAG does not
// re-walk shared subtrees that are pointer-identical.
func Equal(a, b Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch x := a.(type) {
	case *IntImm:
		y, ok := b.(*IntImm)
		return ok && x.T == y.T && x.Value == y.Value
	case *UIntImm:
		y, ok := b.(*UIntImm)
		return ok && x.T == y.T && x.Value == y.Value
	case *FloatImm:
		y, ok := b.(*FloatImm)
		return ok && x.T == y.T && x.Value == y.Value
	case *StringImm:
		y, ok := b.(*StringImm)
		return ok && x.Value == y.Value
	case *Var:
		y, ok := b.(*Var)
		return ok && x.T == y.T && x.Name == y.Name
	case *Wild:
		y, ok := b.(*Wild)
		return ok && x.T == y.T
	case *Cast:
		y, ok := b.(*Cast)
		return ok && x.T == y.T && Equal(x.Value, y.Value)
	case *Broadcast:
		y, ok := b.(*Broadcast)
		return ok && x.Lanes == y.Lanes && Equal(x.Value, y.Value)
	case *Ramp:
		y, ok := b.(*Ramp)
		return ok && x.Lanes == y.Lanes && Equal(x.Base, y.Base) && Equal(x.Stride, y.Stride)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.A, y.A) && Equal(x.B, y.B)
	case *Not:
		y, ok := b.(*Not)
		return ok && Equal(x.Value, y.Value)
	case *Select:
		y, ok := b.(*Select)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *Load:
		y, ok := b.(*Load)
		return ok && x.T == y.T && x.Buf == y.Buf && Equal(x.Index, y.Index) && Equal(x.Predicate, y.Predicate)
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.T != y.T || x.Name != y.Name || x.Kind != y.Kind || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Let:
		y, ok := b.(*Let)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value) && Equal(x.Body, y.Body)
	case *Shuffle:
		y, ok := b.(*Shuffle)
		if !ok || len(x.Vectors) != len(y.Vectors) || len(x.Indices) != len(y.Indices) {
			return false
		}
		for i := range x.Indices {
			if x.Indices[i] != y.Indices[i] {
				return false
			}
		}
		for i := range x.Vectors {
			if !Equal(x.Vectors[i], y.Vectors[i]) {
				return false
			}
		}
		return true
	case *VectorReduce:
		y, ok := b.(*VectorReduce)
		return ok && x.T == y.T && x.Op == y.Op && Equal(x.Value, y.Value)
	}
	return false
}

// EqualStmt reports structural equality of two statement trees.
func EqualStmt(a, b Stmt) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch x := a.(type) {
	case *LetStmt:
		y, ok := b.(*LetStmt)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value) && EqualStmt(x.Body, y.Body)
	case *For:
		y, ok := b.(*For)
		return ok && x.Name == y.Name && Equal(x.Min, y.Min) && Equal(x.Extent, y.Extent) && EqualStmt(x.Body, y.Body)
	case *Block:
		y, ok := b.(*Block)
		if !ok || len(x.Stmts) != len(y.Stmts) {
			return false
		}
		for i := range x.Stmts {
			if !EqualStmt(x.Stmts[i], y.Stmts[i]) {
				return false
			}
		}
		return true
	case *Store:
		y, ok := b.(*Store)
		return ok && x.Buf == y.Buf && Equal(x.Value, y.Value) && Equal(x.Index, y.Index) && Equal(x.Predicate, y.Predicate)
	case *Evaluate:
		y, ok := b.(*Evaluate)
		return ok && Equal(x.Value, y.Value)
	case *IfThenElse:
		y, ok := b.(*IfThenElse)
		return ok && Equal(x.Cond, y.Cond) && EqualStmt(x.Then, y.Then) && EqualStmt(x.Else, y.Else)
	case *Allocate:
		y, ok := b.(*Allocate)
		if !ok || x.Name != y.Name || x.Elem != y.Elem || len(x.Extents) != len(y.Extents) {
			return false
		}
		for i := range x.Extents {
			if !Equal(x.Extents[i], y.Extents[i]) {
				return false
			}
		}
		return EqualStmt(x.Body, y.Body)
	case *Free:
		y, ok := b.(*Free)
		return ok && x.Name == y.Name
	}
	return false
}

const (
	hashOffset = 14695981039346656037
	hashPrime  = 1099511628211
)

func mix(h, v uint64) uint64 { return (h ^ v) * hashPrime }

func hashType(h uint64, t Type) uint64 {
	return mix(mix(mix(h, uint64(t.Code)), uint64(t.Bits)), uint64(t.Lanes))
}

func hashString(h uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		h = mix(h, uint64(s[i]))
	}
	return h
}

// Hasher computes structural hashes of expressions, caching by node
// identity so shared subgraphs are hashed once.
type Hasher struct {
	memo map[Expr]uint64
}

// NewHasher returns a Hasher with an empty cache.
func NewHasher() *Hasher { return &Hasher{memo: make(map[Expr]uint64)} }

// Hash returns a structural hash of e. Structurally equal expressions
// hash identically.
func (hr *Hasher) Hash(e Expr) uint64 {
	if e == nil {
		return hashOffset
	}
	if h, ok := hr.memo[e]; ok {
		return h
	}
	var h uint64 = hashOffset
	switch n := e.(type) {
	case *IntImm:
		h = mix(hashType(mix(h, 1), n.T), uint64(n.Value))
	case *UIntImm:
		h = mix(hashType(mix(h, 2), n.T), n.Value)
	case *FloatImm:
		h = mix(hashType(mix(h, 3), n.T), math.Float64bits(n.Value))
	case *StringImm:
		h = hashString(mix(h, 4), n.Value)
	case *Var:
		h = hashString(hashType(mix(h, 5), n.T), n.Name)
	case *Wild:
		h = hashType(mix(h, 6), n.T)
	case *Cast:
		h = mix(hashType(mix(h, 7), n.T), hr.Hash(n.Value))
	case *Broadcast:
		h = mix(mix(mix(h, 8), uint64(n.Lanes)), hr.Hash(n.Value))
	case *Ramp:
		h = mix(mix(mix(mix(h, 9), uint64(n.Lanes)), hr.Hash(n.Base)), hr.Hash(n.Stride))
	case *Binary:
		h = mix(mix(mix(mix(h, 10), uint64(n.Op)), hr.Hash(n.A)), hr.Hash(n.B))
	case *Not:
		h = mix(mix(h, 11), hr.Hash(n.Value))
	case *Select:
		h = mix(mix(mix(mix(h, 12), hr.Hash(n.Cond)), hr.Hash(n.Then)), hr.Hash(n.Else))
	case *Load:
		h = mix(hashString(hashType(mix(h, 13), n.T), n.Buf), hr.Hash(n.Index))
		h = mix(h, hr.Hash(n.Predicate))
	case *Call:
		h = hashString(hashType(mix(h, 14), n.T), n.Name)
		h = mix(h, uint64(n.Kind))
		for _, a := range n.Args {
			h = mix(h, hr.Hash(a))
		}
	case *Let:
		h = mix(mix(hashString(mix(h, 15), n.Name), hr.Hash(n.Value)), hr.Hash(n.Body))
	case *Shuffle:
		h = mix(h, 16)
		for _, v := range n.Vectors {
			h = mix(h, hr.Hash(v))
		}
		for _, idx := range n.Indices {
			h = mix(h, uint64(idx))
		}
	case *VectorReduce:
		h = mix(mix(hashType(mix(h, 17), n.T), uint64(n.Op)), hr.Hash(n.Value))
	default:
		panic("ir: Hash of unknown expression kind")
	}
	hr.memo[e] = h
	return h
}

// Hash returns a structural hash of e using a fresh cache.
func Hash(e Expr) uint64 { return NewHasher().Hash(e) }
