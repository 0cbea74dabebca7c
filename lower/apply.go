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

// applyPatterns rewrites x with the first pattern whose shape and flags
// both accept it. Bound operands are mutated with m before substitution
// so nested rewrites happen inside out. Returns x itself when no rule
// applies.
func applyPatterns(x ir.Expr, patterns []Pattern, m ir.Mutator) ir.Expr {
	var matches []ir.Expr
	for i := range patterns {
		p := &patterns[i]
		if !Match(p.Shape, x, &matches) {
			continue
		}
		ops, ok := processMatchFlags(matches, p.Flags)
		if !ok {
			continue
		}
		for j := range ops {
			ops[j] = m.MutateExpr(ops[j])
		}

		// Rules producing a wide accumulator build the call at the
		// accumulator type and convert back, so the surrounding
		// expression keeps its type while narrowing rules above can
		// still claim the conversion.
		old := x.Type()
		callType := old
		switch {
		case p.Flags&AccumulatorOutput24 != 0:
			callType = ir.Int(24, old.Lanes)
		case p.Flags&AccumulatorOutput48 != 0:
			callType = ir.Int(48, old.Lanes)
		case p.Flags&AccumulatorOutput64 != 0:
			callType = ir.Int(64, old.Lanes)
		}
		args := make([]ir.Expr, len(ops))
		copy(args, ops)
		repl := ir.Expr(&ir.Call{T: callType, Name: p.Intrin, Args: args, Kind: ir.CallExtern})
		if callType != old {
			repl = &ir.Cast{T: old, Value: repl}
		}
		debugf("rewrote %s -> %s", ir.Print(x), ir.Print(repl))
		return repl
	}
	return x
}

// applyCommutativePatterns is applyPatterns plus a retry with the
// operands exchanged, for operators where a*b and b*a are the same
// expression.
func applyCommutativePatterns(op *ir.Binary, patterns []Pattern, m ir.Mutator) ir.Expr {
	if x := applyPatterns(op, patterns, m); x != ir.Expr(op) {
		return x
	}
	commuted := &ir.Binary{Op: op.Op, A: op.B, B: op.A}
	if x := applyPatterns(commuted, patterns, m); x != ir.Expr(commuted) {
		return x
	}
	return op
}
