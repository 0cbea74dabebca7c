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
	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/simplify"
)

const (
	// rewritePasses bounds the pattern table iteration. Rules fire
	// inside out, so each pass can expose shapes for the next; in
	// practice the tables converge well before this.
	rewritePasses = 10

	// maxCarriedValues caps scratch buffer slots per loop.
	maxCarriedValues = 16
)

// Lower runs the whole lowering pipeline over s for target t: indirect
// load strength reduction, load alignment, loop carries, pattern
// rewriting to intrinsics, splitting to native register widths, seam
// cleanup, and CSE.
//
// The result deliberately skips a final algebraic simplification:
// intrinsic calls are opaque to the simplifier, and re-simplifying can
// undo shapes the backend wants kept.
func Lower(s ir.Stmt, t *Target) ir.Stmt {
	s = OptimizeGathers(s, t)
	traceStage("gather optimization", s)

	s = AlignLoads(s, t.AlignBytes)
	traceStage("load alignment", s)

	s = CarryLoops(s, maxCarriedValues)
	traceStage("loop carry", s)

	s = simplify.SimplifyStmt(s)
	for i := 0; i < rewritePasses; i++ {
		s = RewritePatterns(s, t)
	}
	traceStage("pattern rewriting", s)

	s = ir.SubstituteInAllLets(s)
	s = SplitToNative(s, t)
	traceStage("native splitting", s)

	s = SimplifySliceConcat(s)
	// One more table pass over what the splitting exposed, casts of
	// concatenations mainly.
	s = RewritePatterns(s, t)
	s = simplify.EliminateCSE(s)
	traceStage("cse", s)
	return s
}
