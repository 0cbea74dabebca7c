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
	"fmt"
	"strings"

	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/lower"
)

// passStages lists the individually selectable lowering stages in
// pipeline order. "all" runs lower.Lower instead, which adds the
// simplifier and CSE glue between stages.
var passStages = []struct {
	name string
	run  func(ir.Stmt, *lower.Target) ir.Stmt
}{
	{"gather", lower.OptimizeGathers},
	{"align", func(s ir.Stmt, t *lower.Target) ir.Stmt { return lower.AlignLoads(s, t.AlignBytes) }},
	{"carry", func(s ir.Stmt, t *lower.Target) ir.Stmt { return lower.CarryLoops(s, 16) }},
	{"rewrite", lower.RewritePatterns},
	{"split", func(s ir.Stmt, t *lower.Target) ir.Stmt {
		return lower.SimplifySliceConcat(lower.SplitToNative(s, t))
	}},
}

func passNames() []string {
	names := make([]string, len(passStages))
	for i, st := range passStages {
		names[i] = st.name
	}
	return names
}

// runPasses applies the selected stages to s in pipeline order.
func runPasses(s ir.Stmt, t *lower.Target, sel string) (ir.Stmt, error) {
	if sel == "" || sel == "all" {
		return lower.Lower(s, t), nil
	}

	want := make(map[string]bool)
	for _, name := range strings.Split(sel, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		known := false
		for _, st := range passStages {
			if st.name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown pass: %s (valid: %s)",
				name, strings.Join(passNames(), ", "))
		}
		want[name] = true
	}

	for _, st := range passStages {
		if want[st.name] {
			s = st.run(s, t)
		}
	}
	return s, nil
}
