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

package rvv

import (
	"fmt"
	"strings"

	"github.com/ajroetker/go-veclower/ir"
)

// mangleVector returns the LLVM overload name component of a vector of
// lanes integer elements: nxv<lanes>i<bits> for scalable vectors,
// v<lanes>i<bits> for fixed ones.
func mangleVector(elem ir.Type, lanes int, scalable bool) string {
	if scalable {
		return fmt.Sprintf("nxv%di%d", lanes, elem.Bits)
	}
	return fmt.Sprintf("v%di%d", lanes, elem.Bits)
}

// intrinsicSymbol builds the full mangled llvm.riscv intrinsic name
// for a scaled table entry at the given lane count: the return type
// when the entry asks for it, then the operand vectors, then the
// vector length integer.
func intrinsicSymbol(d Def, lanes int, scalable bool) string {
	var b strings.Builder
	b.WriteString("llvm.riscv.")
	b.WriteString(d.Intrin)
	if d.Flags&MangleReturnType != 0 {
		b.WriteByte('.')
		b.WriteString(mangleVector(d.Ret, lanes, scalable))
	}
	for _, a := range d.Args {
		b.WriteByte('.')
		b.WriteString(mangleVector(a, lanes, scalable))
	}
	if d.Flags&AddVLArg != 0 {
		b.WriteString(".i64")
	}
	return b.String()
}

// wrapperSymbol names the defined wrapper for a scaled entry, for
// example rvv_halving_add_u16.
func wrapperSymbol(d Def) string {
	return fmt.Sprintf("rvv_%s_%s", d.Op, typeSuffix(d.Args[0]))
}

func typeSuffix(t ir.Type) string {
	prefix := "i"
	if t.IsUInt() {
		prefix = "u"
	}
	return fmt.Sprintf("%s%d", prefix, t.Bits)
}
