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

package main

import (
	"strings"
	"testing"

	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/lower"
)

func TestParseTarget(t *testing.T) {
	tgt, err := parseTarget([]byte(`
name: minidsp
vector_bits: 256
lut_size: 32
native_widths:
  - {elem: i16, lanes: 32, split: 16}
  - {elem: u32, lanes: 16, split: 8}
`))
	if err != nil {
		t.Fatalf("parseTarget: %v", err)
	}
	if tgt.Name != "minidsp" || tgt.VectorBits != 256 || tgt.LUTSize != 32 {
		t.Errorf("target = %+v", tgt)
	}
	// align_bytes defaults to the register width
	if tgt.AlignBytes != 32 {
		t.Errorf("AlignBytes = %d, want 32", tgt.AlignBytes)
	}
	if got := tgt.NativeLanes(ir.Int(16, 32)); got != 16 {
		t.Errorf("i16x32 split = %d, want 16", got)
	}
	if got := tgt.NativeLanes(ir.UInt(32, 16)); got != 8 {
		t.Errorf("u32x16 split = %d, want 8", got)
	}
}

func TestParseTargetRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"missing width": `name: x`,
		"bad element":   "vector_bits: 256\nnative_widths:\n  - {elem: q16, lanes: 32, split: 16}",
		"bad split":     "vector_bits: 256\nnative_widths:\n  - {elem: i16, lanes: 32, split: 5}",
	}
	for name, src := range cases {
		if _, err := parseTarget([]byte(src)); err == nil {
			t.Errorf("%s: parseTarget accepted %q", name, src)
		}
	}
}

func TestBlurDemoLowers(t *testing.T) {
	stmt, err := buildDemo("blur")
	if err != nil {
		t.Fatalf("buildDemo: %v", err)
	}

	tgt := lower.VDSP512Target()
	got, err := runPasses(stmt, &tgt, "all")
	if err != nil {
		t.Fatalf("runPasses: %v", err)
	}
	// Three overlapping windows leave two carried values.
	if _, ok := got.(*ir.Allocate); !ok {
		t.Errorf("blur did not gain a carry buffer:\n%s", ir.PrintStmt(got))
	}
	if !strings.Contains(ir.PrintStmt(got), "vdsp_") {
		t.Errorf("blur reached no intrinsics:\n%s", ir.PrintStmt(got))
	}
}

func TestRunPassesSubset(t *testing.T) {
	stmt, _ := buildDemo("blur")
	tgt := lower.VDSP512Target()

	// Rewriting alone keeps the plain loop shape.
	got, err := runPasses(stmt, &tgt, "rewrite")
	if err != nil {
		t.Fatalf("runPasses: %v", err)
	}
	if _, ok := got.(*ir.For); !ok {
		t.Errorf("rewrite-only run changed the statement kind to %T", got)
	}

	if _, err := runPasses(stmt, &tgt, "rewrite,fuse"); err == nil {
		t.Errorf("unknown pass name was accepted")
	}
}

func TestBuildDemoUnknown(t *testing.T) {
	if _, err := buildDemo("sharpen"); err == nil {
		t.Errorf("unknown demo was accepted")
	}
}

func TestHostTargetIsBuiltin(t *testing.T) {
	tgt := hostTarget()
	if _, err := lower.GetTarget(tgt.Name); err != nil {
		t.Errorf("host picked %q, not a built-in: %v", tgt.Name, err)
	}
}
