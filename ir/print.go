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
	"strconv"
	"strings"
)

// Print renders an expression on one line, for traces and test
// failures.
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

func printList(b *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			b.WriteString(", ")
		}
		printExpr(b, e)
	}
}

func printExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *IntImm:
		if n.T == Int(32) {
			fmt.Fprintf(b, "%d", n.Value)
		} else {
			fmt.Fprintf(b, "(%v)%d", n.T, n.Value)
		}
	case *UIntImm:
		if n.T.IsBool() {
			if n.Value != 0 {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		} else {
			fmt.Fprintf(b, "(%v)%d", n.T, n.Value)
		}
	case *FloatImm:
		fmt.Fprintf(b, "%sf", strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *StringImm:
		fmt.Fprintf(b, "%q", n.Value)
	case *Var:
		b.WriteString(n.Name)
	case *Wild:
		fmt.Fprintf(b, "wild<%v>", n.T)
	case *Cast:
		fmt.Fprintf(b, "%v(", n.T)
		printExpr(b, n.Value)
		b.WriteByte(')')
	case *Broadcast:
		fmt.Fprintf(b, "x%d(", n.Lanes)
		printExpr(b, n.Value)
		b.WriteByte(')')
	case *Ramp:
		b.WriteString("ramp(")
		printExpr(b, n.Base)
		b.WriteString(", ")
		printExpr(b, n.Stride)
		fmt.Fprintf(b, ", %d)", n.Lanes)
	case *Binary:
		switch n.Op {
		case OpMin, OpMax:
			fmt.Fprintf(b, "%v(", n.Op)
			printExpr(b, n.A)
			b.WriteString(", ")
			printExpr(b, n.B)
			b.WriteByte(')')
		default:
			b.WriteByte('(')
			printExpr(b, n.A)
			fmt.Fprintf(b, " %v ", n.Op)
			printExpr(b, n.B)
			b.WriteByte(')')
		}
	case *Not:
		b.WriteByte('!')
		printExpr(b, n.Value)
	case *Select:
		b.WriteString("select(")
		printList(b, []Expr{n.Cond, n.Then, n.Else})
		b.WriteByte(')')
	case *Load:
		b.WriteString(n.Buf)
		b.WriteByte('[')
		printExpr(b, n.Index)
		b.WriteByte(']')
		if n.Predicate != nil {
			b.WriteString(" if ")
			printExpr(b, n.Predicate)
		}
	case *Call:
		b.WriteString(n.Name)
		b.WriteByte('(')
		printList(b, n.Args)
		b.WriteByte(')')
	case *Let:
		fmt.Fprintf(b, "(let %s = ", n.Name)
		printExpr(b, n.Value)
		b.WriteString(" in ")
		printExpr(b, n.Body)
		b.WriteByte(')')
	case *Shuffle:
		switch {
		case n.IsConcat():
			b.WriteString("concat(")
			printList(b, n.Vectors)
			b.WriteByte(')')
		case n.IsInterleave():
			b.WriteString("interleave(")
			printList(b, n.Vectors)
			b.WriteByte(')')
		case n.IsSlice():
			b.WriteString("slice(")
			printExpr(b, n.Vectors[0])
			fmt.Fprintf(b, ", %d, %d, %d)", n.SliceBegin(), n.SliceStride(), len(n.Indices))
		default:
			b.WriteString("shuffle([")
			printList(b, n.Vectors)
			b.WriteString("], [")
			for i, idx := range n.Indices {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(b, "%d", idx)
			}
			b.WriteString("])")
		}
	case *VectorReduce:
		fmt.Fprintf(b, "vector_reduce_%v(", n.Op)
		printExpr(b, n.Value)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<unknown %T>", e)
	}
}

// PrintStmt renders a statement tree with indentation.
func PrintStmt(s Stmt) string {
	var b strings.Builder
	printStmt(&b, s, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func printStmt(b *strings.Builder, s Stmt, depth int) {
	switch n := s.(type) {
	case nil:
		return
	case *LetStmt:
		indent(b, depth)
		fmt.Fprintf(b, "let %s = %s\n", n.Name, Print(n.Value))
		printStmt(b, n.Body, depth)
	case *For:
		indent(b, depth)
		fmt.Fprintf(b, "for (%s, %s, %s) {\n", n.Name, Print(n.Min), Print(n.Extent))
		printStmt(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case *Block:
		for _, st := range n.Stmts {
			printStmt(b, st, depth)
		}
	case *Store:
		indent(b, depth)
		fmt.Fprintf(b, "%s[%s] = %s", n.Buf, Print(n.Index), Print(n.Value))
		if n.Predicate != nil {
			fmt.Fprintf(b, " if %s", Print(n.Predicate))
		}
		b.WriteByte('\n')
	case *Evaluate:
		indent(b, depth)
		b.WriteString(Print(n.Value))
		b.WriteByte('\n')
	case *IfThenElse:
		indent(b, depth)
		fmt.Fprintf(b, "if (%s) {\n", Print(n.Cond))
		printStmt(b, n.Then, depth+1)
		if n.Else != nil {
			indent(b, depth)
			b.WriteString("} else {\n")
			printStmt(b, n.Else, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *Allocate:
		indent(b, depth)
		fmt.Fprintf(b, "allocate %s[%v", n.Name, n.Elem)
		for _, e := range n.Extents {
			fmt.Fprintf(b, " * %s", Print(e))
		}
		b.WriteString("]\n")
		printStmt(b, n.Body, depth)
	case *Free:
		indent(b, depth)
		fmt.Fprintf(b, "free %s\n", n.Name)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown %T>\n", s)
	}
}
