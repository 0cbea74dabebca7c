package lower

import (
	"fmt"

	"github.com/ajroetker/go-veclower/ir"
)

// patternRewriter walks a statement and replaces vector expressions
// with intrinsic calls, one table lookup per operator. Operands of a
// successful match are mutated before substitution, so rewrites
// compose from the leaves up in a single pass.
type patternRewriter struct {
	ir.Memo
	target    *Target
	loopDepth int
}

// RewritePatterns runs one pass of the pattern tables over s. The
// driver runs it to a fixed point; a fresh pass starts with an empty
// cache.
func RewritePatterns(s ir.Stmt, t *Target) ir.Stmt {
	r := &patternRewriter{target: t}
	return r.MutateStmt(s)
}

func (r *patternRewriter) MutateExpr(e ir.Expr) ir.Expr {
	if c, ok := r.CachedExpr(e); ok {
		return c
	}
	return r.StoreExpr(e, r.rewriteExpr(e))
}

func (r *patternRewriter) rewriteExpr(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case *ir.Binary:
		if x := r.rewriteBinary(n); x != ir.Expr(n) {
			return x
		}
	case *ir.Cast:
		if n.T.IsVector() {
			if x := applyPatterns(n, castRules, r); x != ir.Expr(n) {
				return x
			}
		}
	case *ir.Call:
		if x := r.rewriteCall(n); x != ir.Expr(n) {
			return x
		}
	case *ir.Shuffle:
		if x := r.rewriteShuffle(n); x != ir.Expr(n) {
			return x
		}
	case *ir.VectorReduce:
		// Only full reductions; partial ones keep their lanes.
		if n.T.IsScalar() {
			if x := applyPatterns(n, reduceRules, r); x != ir.Expr(n) {
				return x
			}
		}
	}
	return ir.MutateExprChildren(r, e)
}

func (r *patternRewriter) rewriteBinary(op *ir.Binary) ir.Expr {
	if !op.Type().IsVector() {
		return op
	}
	switch op.Op {
	case ir.OpAdd:
		return applyCommutativePatterns(op, addRules, r)
	case ir.OpSub:
		return applyPatterns(op, subRules, r)
	case ir.OpMul:
		return applyCommutativePatterns(op, mulRules, r)
	case ir.OpDiv:
		return applyPatterns(op, divRules, r)
	case ir.OpMin:
		return applyCommutativePatterns(op, minRules, r)
	case ir.OpMax:
		return applyCommutativePatterns(op, maxRules, r)
	}
	return op
}

func (r *patternRewriter) rewriteCall(op *ir.Call) ir.Expr {
	if op.Kind == ir.CallIntrinsic {
		switch op.Name {
		case lerpName:
			// Lowered here, ahead of matching, so the arithmetic it
			// expands into feeds the widening rules.
			if len(op.Args) != 3 {
				panic("lower: lerp takes three arguments")
			}
			return r.MutateExpr(LowerLerp(op.Args[0], op.Args[1], op.Args[2]))
		case absdName:
			if t := op.Type(); t.IsVector() && t.IsUInt() && t.Bits == 16 {
				if len(op.Args) != 2 {
					panic("lower: absd takes two arguments")
				}
				return &ir.Call{T: t, Name: "vdsp_absd_i16",
					Args: []ir.Expr{r.MutateExpr(op.Args[0]), r.MutateExpr(op.Args[1])},
					Kind: ir.CallExtern}
			}
		}
	}
	if op.Type().IsVector() {
		return applyPatterns(op, callRules, r)
	}
	return op
}

func (r *patternRewriter) rewriteShuffle(op *ir.Shuffle) ir.Expr {
	t := op.Type()
	intOrUInt := t.IsInt() || t.IsUInt()
	switch {
	case op.IsInterleave() && len(op.Vectors) == 2 && intOrUInt && t.Bits == 16 &&
		t.Lanes == 2*r.target.VectorLanes(16):
		return r.shuffleCall(t, "vdsp_interleave"+typeSuffix(t), op.Vectors...)

	case op.IsInterleave() && len(op.Vectors) == 2 && intOrUInt && t.Bits == 8 &&
		t.Lanes == 2*r.target.VectorLanes(8):
		return r.shuffleCall(t, "vdsp_interleave"+typeSuffix(t), op.Vectors...)

	case op.IsSlice() && op.SliceStride() == 1 && intOrUInt && t.Bits == 16 &&
		t.Lanes == r.target.VectorLanes(16):
		return r.sliceCall(t, op)

	case op.IsSlice() && op.SliceStride() == 1 && t.IsUInt() && t.Bits == 8 &&
		t.Lanes == r.target.VectorLanes(8):
		return r.sliceCall(t, op)

	case op.IsSlice() && op.SliceStride() == 1 && t.IsFloat() && t.Bits == 32 &&
		t.Lanes == r.target.VectorLanes(32):
		return &ir.Call{T: t, Name: "vdsp_slice" + typeSuffix(t),
			Args: []ir.Expr{r.MutateExpr(op.Vectors[0]), intArg(op.SliceBegin())},
			Kind: ir.CallExtern}

	case len(op.Vectors) == 1 && intOrUInt && t.Bits == 16 &&
		t.Lanes == r.target.VectorLanes(16) &&
		op.Vectors[0].Type().Lanes == 2*r.target.VectorLanes(16) &&
		isStrided(op, 2, 0):
		return r.shuffleCall(t, "vdsp_deinterleave_even"+typeSuffix(t), op.Vectors[0])

	case len(op.Vectors) == 1 && intOrUInt && t.Bits == 16 &&
		t.Lanes == r.target.VectorLanes(16) &&
		op.Vectors[0].Type().Lanes == 2*r.target.VectorLanes(16) &&
		isStrided(op, 2, 1):
		return r.shuffleCall(t, "vdsp_deinterleave_odd"+typeSuffix(t), op.Vectors[0])

	case len(op.Vectors) == 1 && intOrUInt && t.Bits == 8 &&
		t.Lanes == r.target.VectorLanes(8) &&
		op.Vectors[0].Type().Lanes == 2*r.target.VectorLanes(8) &&
		isStrided(op, 2, 0):
		return r.shuffleCall(t, "vdsp_deinterleave_even"+typeSuffix(t), op.Vectors[0])

	case len(op.Vectors) == 1 && intOrUInt && t.Bits == 8 &&
		t.Lanes == r.target.VectorLanes(8) &&
		op.Vectors[0].Type().Lanes == 2*r.target.VectorLanes(8) &&
		isStrided(op, 2, 1):
		return r.shuffleCall(t, "vdsp_deinterleave_odd"+typeSuffix(t), op.Vectors[0])

	case len(op.Vectors) == 1 && intOrUInt && t.Bits == 8 &&
		t.Lanes == r.target.VectorLanes(8) &&
		op.Vectors[0].Type().Lanes == 3*r.target.VectorLanes(8) &&
		isStrided(op, 3, 0):
		// Deinterleaving one of three planes. When the input is itself
		// a concat, hand the parts to the intrinsic unconcatenated.
		vec := r.MutateExpr(op.Vectors[0])
		args := []ir.Expr{vec}
		if sh, ok := vec.(*ir.Shuffle); ok && sh.IsConcat() {
			args = append([]ir.Expr(nil), sh.Vectors...)
		}
		return &ir.Call{T: t, Name: "vdsp_extract_0_off_3" + typeSuffix(t),
			Args: args, Kind: ir.CallExtern}

	case op.IsConcat():
		// Flatten nested concats so later passes see one level.
		changed := false
		flat := make([]ir.Expr, 0, len(op.Vectors))
		for _, v := range op.Vectors {
			mv := r.MutateExpr(v)
			if sh, ok := mv.(*ir.Shuffle); ok && sh.IsConcat() {
				flat = append(flat, sh.Vectors...)
				changed = true
				continue
			}
			if mv != v {
				changed = true
			}
			flat = append(flat, mv)
		}
		if !changed {
			return op
		}
		return ir.MakeConcat(flat)
	}
	return op
}

func (r *patternRewriter) shuffleCall(t ir.Type, name string, vectors ...ir.Expr) ir.Expr {
	args := make([]ir.Expr, len(vectors))
	for i, v := range vectors {
		args[i] = r.MutateExpr(v)
	}
	return &ir.Call{T: t, Name: name, Args: args, Kind: ir.CallExtern}
}

// sliceCall picks between the dedicated low-offset slice intrinsics,
// which the backend can fold into register selects, and the general
// form carrying the offset as an argument.
func (r *patternRewriter) sliceCall(t ir.Type, op *ir.Shuffle) ir.Expr {
	vec := r.MutateExpr(op.Vectors[0])
	begin := op.SliceBegin()
	if begin < 5 {
		name := fmt.Sprintf("vdsp_slice_start_%d%s", begin, typeSuffix(t))
		return &ir.Call{T: t, Name: name, Args: []ir.Expr{vec}, Kind: ir.CallExtern}
	}
	return &ir.Call{T: t, Name: "vdsp_slice" + typeSuffix(t),
		Args: []ir.Expr{vec, intArg(begin)}, Kind: ir.CallExtern}
}

// isStrided reports whether the shuffle selects lanes phase,
// phase+stride, phase+2*stride, ...
func isStrided(op *ir.Shuffle, stride, phase int) bool {
	for i, ix := range op.Indices {
		if ix != stride*i+phase {
			return false
		}
	}
	return len(op.Indices) > 0
}

func typeSuffix(t ir.Type) string {
	switch t.Code {
	case ir.TInt:
		return fmt.Sprintf("_i%d", t.Bits)
	case ir.TUInt:
		return fmt.Sprintf("_u%d", t.Bits)
	case ir.TFloat:
		return fmt.Sprintf("_f%d", t.Bits)
	}
	panic(fmt.Sprintf("lower: no intrinsic suffix for %v", t))
}

func (r *patternRewriter) MutateStmt(s ir.Stmt) ir.Stmt {
	if c, ok := r.CachedStmt(s); ok {
		return c
	}
	var out ir.Stmt
	switch n := s.(type) {
	case *ir.For:
		r.loopDepth++
		out = ir.MutateStmtChildren(r, s)
		r.loopDepth--
	case *ir.LetStmt:
		// Inside loops, vector lets are inlined so their uses are
		// visible to multi-node patterns. The simplifier rebuilds
		// bindings afterwards.
		vt := n.Value.Type()
		if r.loopDepth >= 1 && vt.IsVector() && !vt.IsHandle() {
			out = r.MutateStmt(ir.SubstituteStmt(n.Name, n.Value, n.Body))
		} else {
			out = ir.MutateStmtChildren(r, s)
		}
	default:
		out = ir.MutateStmtChildren(r, s)
	}
	return r.StoreStmt(s, out)
}
