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

// Stmt is a statement node. Like expressions, all implementations are
// pointers and identity comparison with == is meaningful.
type Stmt interface {
	stmtNode()
}

// LetStmt binds Name to Value for the statements in Body.
type LetStmt struct {
	Name  string
	Value Expr
	Body  Stmt
}

// For is a serial loop over [Min, Min+Extent).
type For struct {
	Name   string
	Min    Expr
	Extent Expr
	Body   Stmt
}

// Block runs statements in order.
type Block struct {
	Stmts []Stmt
}

// Store writes Value to a named buffer at Index. A nil Predicate means
// the store is unconditional.
type Store struct {
	Buf       string
	Value     Expr
	Index     Expr
	Predicate Expr
	Align     ModRem
}

// Evaluate computes an expression for its side effects.
type Evaluate struct {
	Value Expr
}

// IfThenElse branches on a scalar condition. Else may be nil.
type IfThenElse struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// Allocate introduces a scratch buffer of Elem elements over Body and
// frees it afterwards.
type Allocate struct {
	Name    string
	Elem    Type
	Extents []Expr
	Body    Stmt
}

// Free releases a buffer introduced by Allocate early.
type Free struct {
	Name string
}

func (*LetStmt) stmtNode()    {}
func (*For) stmtNode()        {}
func (*Block) stmtNode()      {}
func (*Store) stmtNode()      {}
func (*Evaluate) stmtNode()   {}
func (*IfThenElse) stmtNode() {}
func (*Allocate) stmtNode()   {}
func (*Free) stmtNode()       {}
