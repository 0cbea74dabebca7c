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

// Command veclower runs the vector lowering pipeline over a demo
// pipeline and prints the IR before and after.
//
// Usage:
//
//	veclower -demo blur -target vdsp512
//	veclower -demo blur -target-file dsp.yaml -o lowered.txt
//	veclower -demo blur -passes gather,rewrite
//	veclower -emit-llvm wrappers.ll -emit-bindings bindings_gen.go
//
// Without -target or -target-file the host's vector width picks a
// built-in profile.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ajroetker/go-veclower/ir"
	"github.com/ajroetker/go-veclower/lower"
	"github.com/ajroetker/go-veclower/rvv"
)

var (
	demoName     = flag.String("demo", "blur", "Demo pipeline to lower ("+strings.Join(demos(), ",")+")")
	targetName   = flag.String("target", "", "Built-in target (vdsp512, vdsp256); empty picks by host vector width")
	targetFile   = flag.String("target-file", "", "YAML target description (overrides -target)")
	passSel      = flag.String("passes", "all", "Comma-separated stages ("+strings.Join(passNames(), ",")+") or 'all'")
	outputFile   = flag.String("o", "", "Write lowered IR to this file instead of stdout")
	emitLLVM     = flag.String("emit-llvm", "", "Write the RISC-V vector wrapper LLVM module to this file")
	emitBindings = flag.String("emit-bindings", "", "Write the generated Go bindings to this file")
	bindingsPkg  = flag.String("bindings-pkg", "rvvbind", "Package name for -emit-bindings")
	scalable     = flag.Bool("scalable", false, "Use scalable vector types in the LLVM module")
)

func main() {
	flag.Parse()

	tgt, err := pickTarget()
	if err != nil {
		fail(err)
	}

	stmt, err := buildDemo(*demoName)
	if err != nil {
		fail(err)
	}

	fmt.Printf("target %s\n\nbefore:\n%s\n", tgt.Name, ir.PrintStmt(stmt))

	lowered, err := runPasses(stmt, &tgt, *passSel)
	if err != nil {
		fail(err)
	}

	out := fmt.Sprintf("after:\n%s", ir.PrintStmt(lowered))
	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(out), 0o644); err != nil {
			fail(err)
		}
	} else {
		fmt.Print(out)
	}

	gen := rvv.Generator{VectorBits: tgt.VectorBits, Scalable: *scalable}
	if *emitLLVM != "" {
		if err := os.WriteFile(*emitLLVM, []byte(gen.Module().String()), 0o644); err != nil {
			fail(err)
		}
	}
	if *emitBindings != "" {
		src, err := rvv.EmitBindings(*bindingsPkg, gen)
		if err != nil {
			fail(err)
		}
		if err := os.WriteFile(*emitBindings, src, 0o644); err != nil {
			fail(err)
		}
	}
}

func pickTarget() (lower.Target, error) {
	if *targetFile != "" {
		return loadTargetFile(*targetFile)
	}
	if *targetName != "" {
		return lower.GetTarget(*targetName)
	}
	return hostTarget(), nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
