package lower

import (
	"sort"
	"strings"
	"testing"

	"github.com/ajroetker/go-veclower/ir"
)

func TestGetTarget(t *testing.T) {
	for _, name := range []string{"vdsp512", "vdsp256"} {
		tgt, err := GetTarget(name)
		if err != nil {
			t.Fatalf("GetTarget(%q): %v", name, err)
		}
		if tgt.Name != name {
			t.Errorf("GetTarget(%q).Name = %q", name, tgt.Name)
		}
	}

	_, err := GetTarget("avx512")
	if err == nil {
		t.Fatalf("GetTarget accepted an unknown name")
	}
	if !strings.Contains(err.Error(), "vdsp512") || !strings.Contains(err.Error(), "vdsp256") {
		t.Errorf("error does not name the valid targets: %v", err)
	}
}

func TestTargetProfiles(t *testing.T) {
	full := VDSP512Target()
	half := VDSP256Target()

	if got := full.VectorLanes(16); got != 32 {
		t.Errorf("vdsp512 16 bit lanes = %d, want 32", got)
	}
	if got := full.VectorLanes(32); got != 16 {
		t.Errorf("vdsp512 32 bit lanes = %d, want 16", got)
	}
	if got := half.VectorLanes(16); got != 16 {
		t.Errorf("vdsp256 16 bit lanes = %d, want 16", got)
	}
	if full.LUTSize != 64 || half.LUTSize != 32 {
		t.Errorf("shuffle table sizes = %d, %d, want 64, 32", full.LUTSize, half.LUTSize)
	}
	if full.AlignBytes != 64 || half.AlignBytes != 32 {
		t.Errorf("alignments = %d, %d, want 64, 32", full.AlignBytes, half.AlignBytes)
	}
}

func TestNativeLanes(t *testing.T) {
	tgt := VDSP512Target()
	cases := []struct {
		t    ir.Type
		want int
	}{
		{ir.Int(16, 32), 0}, // exactly one register
		{ir.Int(16, 64), 32},
		{ir.UInt(32, 64), 16},
		{ir.Int(48, 64), 32}, // accumulators keep the 16 bit lane count
		{ir.Float(32, 16), 0},
		{ir.Int(32), 0},
	}
	for _, c := range cases {
		if got := tgt.NativeLanes(c.t); got != c.want {
			t.Errorf("NativeLanes(%v) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestIntrinsicsRegistry(t *testing.T) {
	names := Intrinsics()
	if !sort.StringsAreSorted(names) {
		t.Errorf("intrinsic names are not sorted")
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			t.Errorf("registry contains an empty name")
		}
		if seen[n] {
			t.Errorf("duplicate intrinsic %q", n)
		}
		seen[n] = true
	}

	for _, want := range []string{
		"vdsp_avg_u16",
		"vdsp_sat_add_i16",
		"vdsp_widen_mul_i48",
		"vdsp_clamp_i16",
		"vdsp_full_reduce_i16",
		"vdsp_dynamic_shuffle",
		"vdsp_slice_to_native",
		"vdsp_concat_from_native",
		"vdsp_interleave_i16",
		"vdsp_absd_i16",
	} {
		if !seen[want] {
			t.Errorf("registry is missing %q", want)
		}
	}

	// lerp and absd calls are rewritten away, never emitted.
	if seen["lerp"] || seen["absd"] {
		t.Errorf("registry leaks pre-lowering call names")
	}
}
