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

	llvmir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ajroetker/go-veclower/ir"
)

// Generator emits the wrapper module for one register shape.
type Generator struct {
	// VectorBits is the register width the wrappers assume; it fixes
	// both the lane counts and the constant vector length operands.
	VectorBits int
	// Scalable switches the emitted types to LLVM scalable vectors.
	// The vector length operands stay constant either way.
	Scalable bool
}

// Wrapper describes one emitted wrapper function.
type Wrapper struct {
	Symbol    string  // defined function name
	Op        string  // lowering operation it implements
	Elem      ir.Type // operand element type
	Intrinsic string  // mangled llvm.riscv symbol it forwards to
}

// wrapper element widths are the table's 8 bit base times these.
var scales = []int{1, 2, 4, 8}

type instance struct {
	def   Def
	lanes int
}

func (g Generator) instances() []instance {
	var out []instance
	for _, d := range defs {
		for _, s := range scales {
			sd, ok := d.scaled(s)
			if !ok {
				continue
			}
			out = append(out, instance{def: sd, lanes: g.VectorBits / sd.Args[0].Bits})
		}
	}
	return out
}

// Wrappers lists the wrapper functions Module emits, in table order.
func (g Generator) Wrappers() []Wrapper {
	insts := g.instances()
	out := make([]Wrapper, len(insts))
	for i, in := range insts {
		out[i] = Wrapper{
			Symbol:    wrapperSymbol(in.def),
			Op:        in.def.Op,
			Elem:      in.def.Args[0],
			Intrinsic: intrinsicSymbol(in.def, in.lanes, g.Scalable),
		}
	}
	return out
}

// Module builds the LLVM module holding every intrinsic declaration
// and wrapper definition for the generator's register shape.
func (g Generator) Module() *llvmir.Module {
	m := llvmir.NewModule()
	m.SourceFilename = "veclower_rvv"
	decls := make(map[string]*llvmir.Func)
	for _, in := range g.instances() {
		g.emitWrapper(m, decls, in)
	}
	return m
}

func (g Generator) vecType(elem ir.Type, lanes int) *types.VectorType {
	v := types.NewVector(uint64(lanes), types.NewInt(uint64(elem.Bits)))
	v.Scalable = g.Scalable
	return v
}

// declare looks up or creates the llvm.riscv declaration for an
// instance. Entries differing only in rounding mode share one symbol.
func (g Generator) declare(m *llvmir.Module, decls map[string]*llvmir.Func, in instance) *llvmir.Func {
	symbol := intrinsicSymbol(in.def, in.lanes, g.Scalable)
	if f, ok := decls[symbol]; ok {
		return f
	}
	ret := g.vecType(in.def.Ret, in.lanes)
	// The passthru operand comes first; the wrappers always leave it
	// undef.
	params := []*llvmir.Param{llvmir.NewParam("", ret)}
	for _, a := range in.def.Args {
		params = append(params, llvmir.NewParam("", g.vecType(a, in.lanes)))
	}
	if in.def.Flags&AddVLArg != 0 {
		params = append(params, llvmir.NewParam("", types.I64))
	}
	f := m.NewFunc(symbol, ret, params...)
	decls[symbol] = f
	return f
}

func (g Generator) emitWrapper(m *llvmir.Module, decls map[string]*llvmir.Func, in instance) {
	decl := g.declare(m, decls, in)
	ret := g.vecType(in.def.Ret, in.lanes)

	params := make([]*llvmir.Param, len(in.def.Args))
	for i, a := range in.def.Args {
		params[i] = llvmir.NewParam(fmt.Sprintf("arg%d", i), g.vecType(a, in.lanes))
	}
	fn := m.NewFunc(wrapperSymbol(in.def), ret, params...)
	fn.Linkage = enum.LinkageInternal
	fn.FuncAttrs = append(fn.FuncAttrs,
		enum.FuncAttrAlwaysInline, enum.FuncAttrNoUnwind, enum.FuncAttrReadNone)

	entry := fn.NewBlock("entry")
	if mode, set := in.def.Flags.vxrm(); set {
		csr := llvmir.NewInlineAsm(
			types.NewPointer(types.NewFunc(types.Void)),
			fmt.Sprintf("csrwi vxrm, %d", mode), "")
		csr.SideEffect = true
		entry.NewCall(csr)
	}

	args := make([]value.Value, 0, len(params)+2)
	args = append(args, constant.NewUndef(ret))
	for _, p := range params {
		args = append(args, p)
	}
	if in.def.Flags&AddVLArg != 0 {
		args = append(args, constant.NewInt(types.I64, int64(in.lanes)))
	}
	entry.NewRet(entry.NewCall(decl, args...))
}
