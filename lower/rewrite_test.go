package lower

import (
	"strings"
	"testing"

	"github.com/ajroetker/go-veclower/ir"
)

// runRewrite runs one rewrite pass over a single expression.
func runRewrite(t *testing.T, e ir.Expr) ir.Expr {
	t.Helper()
	tgt := VDSP512Target()
	out := RewritePatterns(&ir.Evaluate{Value: e}, &tgt)
	ev, ok := out.(*ir.Evaluate)
	if !ok {
		t.Fatalf("rewrite changed the statement kind: %s", ir.PrintStmt(out))
	}
	return ev.Value
}

func TestRewriteSaturatingAdd(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	e := ir.SaturatingCast(ir.Int(16, 32), add(i32(a), i32(b)))

	got := runRewrite(t, e)
	call, ok := got.(*ir.Call)
	if !ok || call.Name != "vdsp_sat_add_i16" {
		t.Fatalf("rewrote to %s, want vdsp_sat_add_i16", ir.Print(got))
	}
	if call.T != ir.Int(16, 32) {
		t.Errorf("call type = %v, want i16x32", call.T)
	}
	if call.Args[0] != ir.Expr(a) || call.Args[1] != ir.Expr(b) {
		t.Errorf("args = %s, want the narrowed a and b", ir.Print(call))
	}
}

func TestRewriteWideningMulWrapsAccumulator(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	got := runRewrite(t, mul(i32(a), i32(b)))

	cast, ok := got.(*ir.Cast)
	if !ok || cast.T != ir.Int(32, 32) {
		t.Fatalf("rewrote to %s, want a cast back to i32x32", ir.Print(got))
	}
	call, ok := cast.Value.(*ir.Call)
	if !ok || call.Name != "vdsp_widen_mul_i48" || call.T != ir.Int(48, 32) {
		t.Errorf("cast wraps %s, want vdsp_widen_mul_i48 at i48x32", ir.Print(cast.Value))
	}
}

func TestRewriteAverageForms(t *testing.T) {
	a := vecVar(ir.UInt(16, 32), "a")
	b := vecVar(ir.UInt(16, 32), "b")
	two := ir.Const(ir.UInt(32, 32), 2)
	one := ir.Const(ir.UInt(32, 32), 1)

	avg := u16(div(add(u32(a), u32(b)), two))
	if got, ok := runRewrite(t, avg).(*ir.Call); !ok || got.Name != "vdsp_avg_u16" {
		t.Errorf("plain average rewrote to %s, want vdsp_avg_u16", ir.Print(runRewrite(t, avg)))
	}

	// The extra +1 disqualifies the plain rule: its wildcard would bind
	// the inner add, which has no lossless half width form.
	round := u16(div(add(add(u32(a), u32(b)), one), two))
	got, ok := runRewrite(t, round).(*ir.Call)
	if !ok || got.Name != "vdsp_avg_round_u16" {
		t.Fatalf("rounding average rewrote to %s, want vdsp_avg_round_u16", ir.Print(runRewrite(t, round)))
	}
	if got.Args[0] != ir.Expr(a) || got.Args[1] != ir.Expr(b) {
		t.Errorf("rounding average args = %s, want [a b]", ir.Print(got))
	}
}

func TestRewriteDivisionByPowerOfTwo(t *testing.T) {
	x := vecVar(ir.Int(16, 32), "x")
	got := runRewrite(t, div(x, ir.Const(ir.Int(16, 32), 4)))
	call, ok := got.(*ir.Call)
	if !ok || call.Name != "vdsp_shift_right_i16" {
		t.Fatalf("division rewrote to %s, want vdsp_shift_right_i16", ir.Print(got))
	}
	if v, _ := ir.ConstValue(call.Args[1]); v != 2 {
		t.Errorf("shift amount = %s, want 2", ir.Print(call.Args[1]))
	}

	odd := div(x, ir.Const(ir.Int(16, 32), 5))
	if got := runRewrite(t, odd); got != ir.Expr(odd) {
		t.Errorf("division by 5 rewrote to %s", ir.Print(got))
	}
}

func TestRewriteClampBothForms(t *testing.T) {
	x := vecVar(ir.Int(16, 32), "x")
	lo := ir.Const(ir.Int(16, 32), -100)
	hi := ir.Const(ir.Int(16, 32), 100)

	got, ok := runRewrite(t, minOf(maxOf(x, lo), hi)).(*ir.Call)
	if !ok || got.Name != "vdsp_clamp_i16" {
		t.Fatalf("min(max) form rewrote to %s, want vdsp_clamp_i16", ir.Print(runRewrite(t, minOf(maxOf(x, lo), hi))))
	}

	// The max(min) form binds hi before lo; the rule swaps them back.
	got, ok = runRewrite(t, maxOf(minOf(x, hi), lo)).(*ir.Call)
	if !ok || got.Name != "vdsp_clamp_i16" {
		t.Fatalf("max(min) form did not rewrite to the clamp")
	}
	v1, _ := ir.ConstValue(got.Args[1])
	v2, _ := ir.ConstValue(got.Args[2])
	if v1 != -100 || v2 != 100 {
		t.Errorf("clamp bounds = [%d, %d], want [-100, 100]", v1, v2)
	}
}

func TestRewriteLerpExpands(t *testing.T) {
	a := vecVar(ir.UInt(8, 32), "a")
	b := vecVar(ir.UInt(8, 32), "b")
	w := vecVar(ir.UInt(8, 32), "w")
	e := &ir.Call{T: ir.UInt(8, 32), Name: "lerp", Args: []ir.Expr{a, b, w}, Kind: ir.CallIntrinsic}

	got := runRewrite(t, e)
	if strings.Contains(ir.Print(got), "lerp") {
		t.Errorf("lerp survived lowering: %s", ir.Print(got))
	}
	if got.Type() != ir.UInt(8, 32) {
		t.Errorf("lerp expansion type = %v, want u8x32", got.Type())
	}
}

func TestRewriteAbsd(t *testing.T) {
	a := vecVar(ir.UInt(16, 32), "a")
	b := vecVar(ir.UInt(16, 32), "b")
	e := &ir.Call{T: ir.UInt(16, 32), Name: "absd", Args: []ir.Expr{a, b}, Kind: ir.CallIntrinsic}

	got, ok := runRewrite(t, e).(*ir.Call)
	if !ok || got.Name != "vdsp_absd_i16" || got.Kind != ir.CallExtern {
		t.Fatalf("absd rewrote to %s, want the vdsp_absd_i16 extern", ir.Print(runRewrite(t, e)))
	}
	if got.Args[0] != ir.Expr(a) || got.Args[1] != ir.Expr(b) {
		t.Errorf("absd args = %s, want [a b]", ir.Print(got))
	}
}

func TestRewriteInterleave(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	got, ok := runRewrite(t, ir.MakeInterleave([]ir.Expr{a, b})).(*ir.Call)
	if !ok || got.Name != "vdsp_interleave_i16" {
		t.Fatalf("interleave rewrote to %s, want vdsp_interleave_i16", ir.Print(runRewrite(t, ir.MakeInterleave([]ir.Expr{a, b}))))
	}
	if got.T != ir.Int(16, 64) {
		t.Errorf("interleave type = %v, want the double width i16x64", got.T)
	}
}

func TestRewriteSliceForms(t *testing.T) {
	v := vecVar(ir.Int(16, 64), "v")

	got, ok := runRewrite(t, ir.MakeSlice(v, 2, 1, 32)).(*ir.Call)
	if !ok || got.Name != "vdsp_slice_start_2_i16" {
		t.Errorf("offset 2 slice rewrote to %s, want vdsp_slice_start_2_i16",
			ir.Print(runRewrite(t, ir.MakeSlice(v, 2, 1, 32))))
	}

	got, ok = runRewrite(t, ir.MakeSlice(v, 7, 1, 32)).(*ir.Call)
	if !ok || got.Name != "vdsp_slice_i16" {
		t.Fatalf("offset 7 slice rewrote to %s, want vdsp_slice_i16",
			ir.Print(runRewrite(t, ir.MakeSlice(v, 7, 1, 32))))
	}
	if off, _ := ir.ConstValue(got.Args[1]); off != 7 {
		t.Errorf("slice offset argument = %s, want 7", ir.Print(got.Args[1]))
	}

	// Floats have no dedicated low-offset forms.
	f := vecVar(ir.Float(32, 32), "f")
	got, ok = runRewrite(t, ir.MakeSlice(f, 1, 1, 16)).(*ir.Call)
	if !ok || got.Name != "vdsp_slice_f32" {
		t.Errorf("f32 slice rewrote to %s, want vdsp_slice_f32",
			ir.Print(runRewrite(t, ir.MakeSlice(f, 1, 1, 16))))
	}
}

func TestRewriteDeinterleave(t *testing.T) {
	v := vecVar(ir.Int(16, 64), "v")

	even, ok := runRewrite(t, ir.MakeSlice(v, 0, 2, 32)).(*ir.Call)
	if !ok || even.Name != "vdsp_deinterleave_even_i16" {
		t.Errorf("stride 2 phase 0 rewrote to %s, want vdsp_deinterleave_even_i16",
			ir.Print(runRewrite(t, ir.MakeSlice(v, 0, 2, 32))))
	}

	odd, ok := runRewrite(t, ir.MakeSlice(v, 1, 2, 32)).(*ir.Call)
	if !ok || odd.Name != "vdsp_deinterleave_odd_i16" {
		t.Errorf("stride 2 phase 1 rewrote to %s, want vdsp_deinterleave_odd_i16",
			ir.Print(runRewrite(t, ir.MakeSlice(v, 1, 2, 32))))
	}
}

func TestRewriteExtractOffThree(t *testing.T) {
	v := vecVar(ir.UInt(8, 192), "v")
	got, ok := runRewrite(t, ir.MakeSlice(v, 0, 3, 64)).(*ir.Call)
	if !ok || got.Name != "vdsp_extract_0_off_3_u8" {
		t.Fatalf("stride 3 plane rewrote to %s, want vdsp_extract_0_off_3_u8",
			ir.Print(runRewrite(t, ir.MakeSlice(v, 0, 3, 64))))
	}
	if len(got.Args) != 1 || got.Args[0] != ir.Expr(v) {
		t.Errorf("extract args = %s, want the single input vector", ir.Print(got))
	}

	// A concatenated input hands its parts to the intrinsic directly.
	p0 := vecVar(ir.UInt(8, 64), "p0")
	p1 := vecVar(ir.UInt(8, 64), "p1")
	p2 := vecVar(ir.UInt(8, 64), "p2")
	planes := ir.MakeConcat([]ir.Expr{p0, p1, p2})
	got, ok = runRewrite(t, ir.MakeSlice(planes, 0, 3, 64)).(*ir.Call)
	if !ok || got.Name != "vdsp_extract_0_off_3_u8" {
		t.Fatalf("concat plane extract did not rewrite")
	}
	if len(got.Args) != 3 || got.Args[0] != ir.Expr(p0) || got.Args[2] != ir.Expr(p2) {
		t.Errorf("concat extract args = %s, want the three planes", ir.Print(got))
	}
}

func TestRewriteConcatFlattens(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	c := vecVar(ir.Int(16, 32), "c")
	nested := ir.MakeConcat([]ir.Expr{ir.MakeConcat([]ir.Expr{a, b}), c})

	got, ok := runRewrite(t, nested).(*ir.Shuffle)
	if !ok || !got.IsConcat() {
		t.Fatalf("nested concat rewrote to %s", ir.Print(runRewrite(t, nested)))
	}
	if len(got.Vectors) != 3 {
		t.Errorf("flattened concat has %d vectors, want 3", len(got.Vectors))
	}
}

func TestRewriteLetStmtInlinedInsideLoop(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	product := mul(i32(a), i32(b))
	loop := &ir.For{
		Name:   "x",
		Min:    ir.Const(ir.Int(32), 0),
		Extent: &ir.Var{T: ir.Int(32), Name: "n"},
		Body: &ir.LetStmt{
			Name:  "v",
			Value: product,
			Body:  &ir.Evaluate{Value: &ir.Var{T: ir.Int(32, 32), Name: "v"}},
		},
	}

	tgt := VDSP512Target()
	got, ok := RewritePatterns(loop, &tgt).(*ir.For)
	if !ok {
		t.Fatalf("loop rewrote to a different statement kind")
	}
	ev, ok := got.Body.(*ir.Evaluate)
	if !ok {
		t.Fatalf("let survived inlining: %s", ir.PrintStmt(got.Body))
	}
	if _, ok := ev.Value.(*ir.Cast); !ok {
		t.Errorf("inlined value did not reach the multiply rules: %s", ir.Print(ev.Value))
	}
}

func TestRewriteLetStmtKeptOutsideLoops(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	let := &ir.LetStmt{
		Name:  "v",
		Value: mul(i32(a), i32(b)),
		Body:  &ir.Evaluate{Value: &ir.Var{T: ir.Int(32, 32), Name: "v"}},
	}

	tgt := VDSP512Target()
	got, ok := RewritePatterns(let, &tgt).(*ir.LetStmt)
	if !ok {
		t.Fatalf("top level let was inlined")
	}
	// The binding stays but its value still goes through the tables.
	if _, ok := got.Value.(*ir.Cast); !ok {
		t.Errorf("let value not rewritten: %s", ir.Print(got.Value))
	}
}

func TestRewriteScalarUntouched(t *testing.T) {
	x := &ir.Var{T: ir.Int(32), Name: "x"}
	s := ir.Stmt(&ir.Evaluate{Value: add(x, x)})
	tgt := VDSP512Target()
	if got := RewritePatterns(s, &tgt); got != s {
		t.Errorf("scalar add rewrote to %s", ir.PrintStmt(got))
	}
}

func TestRewriteStable(t *testing.T) {
	a := vecVar(ir.Int(16, 32), "a")
	b := vecVar(ir.Int(16, 32), "b")
	s := ir.Stmt(&ir.Evaluate{Value: ir.SaturatingCast(ir.Int(16, 32), add(i32(a), i32(b)))})

	tgt := VDSP512Target()
	once := RewritePatterns(s, &tgt)
	twice := RewritePatterns(once, &tgt)
	if twice != once {
		t.Errorf("second pass rewrote again:\n%s", ir.PrintStmt(twice))
	}
}
