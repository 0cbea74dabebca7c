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
	"fmt"
	"sort"

	"github.com/ajroetker/go-veclower/ir"
)

// Structural intrinsics introduced by the splitter. Backends lower
// slices and concats of native registers to register moves, so both
// use one generic name with the element type carried on the call node.
const (
	sliceToNativeName    = "vdsp_slice_to_native"
	concatFromNativeName = "vdsp_concat_from_native"
	dynamicShuffleName   = "vdsp_dynamic_shuffle"

	// IR-level intrinsics the rewriter expands rather than matches.
	lerpName = "lerp"
	absdName = "absd"
)

// sliceToNative extracts part ix of a vector split into total/native
// native-width parts.
func sliceToNative(v ir.Expr, ix, native, total int) ir.Expr {
	return &ir.Call{
		T:    v.Type().WithLanes(native),
		Name: sliceToNativeName,
		Args: []ir.Expr{v, intArg(ix), intArg(native), intArg(total)},
		Kind: ir.CallExtern,
	}
}

// concatFromNative reassembles native-width parts into one vector of
// type t.
func concatFromNative(t ir.Type, parts []ir.Expr) ir.Expr {
	return &ir.Call{T: t, Name: concatFromNativeName, Args: parts, Kind: ir.CallExtern}
}

func dynamicShuffle(t ir.Type, lut, index ir.Expr) ir.Expr {
	return &ir.Call{T: t, Name: dynamicShuffleName, Args: []ir.Expr{lut, index}, Kind: ir.CallExtern}
}

func intArg(v int) ir.Expr { return ir.Const(ir.Int(32), int64(v)) }

// Intrinsics returns the sorted names of every target intrinsic the
// pipeline can emit. Code generators use it to check that a binding
// set is complete.
func Intrinsics() []string {
	seen := map[string]bool{
		sliceToNativeName:    true,
		concatFromNativeName: true,
		dynamicShuffleName:   true,
		"vdsp_absd_i16":      true,
	}
	for _, rules := range [][]Pattern{
		addRules, subRules, mulRules, divRules,
		minRules, maxRules, castRules, callRules, reduceRules,
	} {
		for _, p := range rules {
			seen[p.Intrin] = true
		}
	}
	for _, name := range shuffleIntrinsics() {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// shuffleIntrinsics lists the names the shuffle rewriter emits, which
// never appear in the rule tables.
func shuffleIntrinsics() []string {
	names := []string{
		"vdsp_interleave_i16", "vdsp_interleave_u16",
		"vdsp_interleave_i8", "vdsp_interleave_u8",
		"vdsp_slice_i16", "vdsp_slice_u16", "vdsp_slice_u8", "vdsp_slice_f32",
		"vdsp_deinterleave_even_i16", "vdsp_deinterleave_odd_i16",
		"vdsp_deinterleave_even_u16", "vdsp_deinterleave_odd_u16",
		"vdsp_deinterleave_even_i8", "vdsp_deinterleave_odd_i8",
		"vdsp_deinterleave_even_u8", "vdsp_deinterleave_odd_u8",
		"vdsp_extract_0_off_3_i8", "vdsp_extract_0_off_3_u8",
	}
	for begin := 0; begin < 5; begin++ {
		for _, suffix := range []string{"_i16", "_u16", "_u8"} {
			names = append(names, fmt.Sprintf("vdsp_slice_start_%d%s", begin, suffix))
		}
	}
	return names
}
