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

import "github.com/ajroetker/go-veclower/ir"

// nativeSplitter cuts vectors wider than a target register down to
// native width, expressing each wide operation as per-piece operations
// glued with slice_to_native / concat_from_native. Adjacent
// slice-of-concat pairs are cleaned up by SimplifySliceConcat
// afterwards.
type nativeSplitter struct {
	ir.Memo
	target *Target
}

// SplitToNative rewrites operations on vectors wider than t's native
// registers into concatenations of native width pieces.
func SplitToNative(s ir.Stmt, t *Target) ir.Stmt {
	sp := &nativeSplitter{target: t}
	return sp.MutateStmt(s)
}

func (sp *nativeSplitter) MutateStmt(s ir.Stmt) ir.Stmt {
	if c, ok := sp.CachedStmt(s); ok {
		return c
	}
	return sp.StoreStmt(s, ir.MutateStmtChildren(sp, s))
}

func (sp *nativeSplitter) MutateExpr(e ir.Expr) ir.Expr {
	if c, ok := sp.CachedExpr(e); ok {
		return c
	}
	return sp.StoreExpr(e, sp.split(e))
}

func (sp *nativeSplitter) split(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case *ir.Broadcast:
		t := n.Type()
		if native := sp.target.NativeLanes(t); native > 0 {
			value := sp.MutateExpr(n.Value)
			parts := make([]ir.Expr, t.Lanes/native)
			for i := range parts {
				parts[i] = &ir.Broadcast{Value: value, Lanes: native}
			}
			return concatFromNative(t, parts)
		}

	case *ir.Select:
		t := n.Type()
		if native := sp.target.NativeLanes(t); native > 0 {
			total := t.Lanes
			cond := sp.MutateExpr(n.Cond)
			then := sp.MutateExpr(n.Then)
			els := sp.MutateExpr(n.Else)
			parts := make([]ir.Expr, total/native)
			for i := range parts {
				// A scalar condition gets a degenerate slice here;
				// the slice/concat cleanup drops it.
				parts[i] = &ir.Select{
					Cond: sliceToNative(cond, i, native, total),
					Then: sliceToNative(then, i, native, total),
					Else: sliceToNative(els, i, native, total),
				}
			}
			return concatFromNative(t, parts)
		}

	case *ir.Binary:
		// Keyed on the operand type: comparisons produce bool vectors
		// that have no native width of their own.
		if native := sp.target.NativeLanes(n.A.Type()); native > 0 {
			total := n.Type().Lanes
			a := sp.MutateExpr(n.A)
			b := sp.MutateExpr(n.B)
			parts := make([]ir.Expr, total/native)
			for i := range parts {
				parts[i] = &ir.Binary{
					Op: n.Op,
					A:  sliceToNative(a, i, native, total),
					B:  sliceToNative(b, i, native, total),
				}
			}
			return concatFromNative(n.Type(), parts)
		}

	case *ir.Call:
		// The i16 interleave intrinsic keeps its double width result
		// by contract.
		if native := sp.target.NativeLanes(n.T); native > 0 && n.Name != "vdsp_interleave_i16" {
			total := n.T.Lanes
			args := make([]ir.Expr, len(n.Args))
			for i, a := range n.Args {
				args[i] = sp.MutateExpr(a)
			}
			parts := make([]ir.Expr, total/native)
			for ix := range parts {
				sliced := make([]ir.Expr, len(args))
				for j, a := range args {
					if a.Type().IsScalar() {
						sliced[j] = a
					} else {
						sliced[j] = sliceToNative(a, ix, native, total)
					}
				}
				parts[ix] = &ir.Call{T: n.T.WithLanes(native), Name: n.Name, Args: sliced, Kind: n.Kind}
			}
			return concatFromNative(n.T, parts)
		}
	}
	return ir.MutateExprChildren(sp, e)
}
