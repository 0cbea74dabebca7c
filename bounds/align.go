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

package bounds

import (
	"github.com/ajroetker/go-veclower/ir"

	"modernc.org/mathutil"
)

// modRem is the analysis lattice for linear alignment facts. exact
// means the value is the constant rem; otherwise the value is
// congruent to rem modulo mod, with mod == 1 meaning nothing is known.
type modRem struct {
	exact bool
	mod   int64
	rem   int64
}

func exactly(v int64) modRem { return modRem{exact: true, rem: v} }

func congruent(m, r int64) modRem {
	if m <= 1 {
		return modRem{mod: 1}
	}
	return modRem{mod: m, rem: euclidMod(r, m)}
}

func unknownMR() modRem { return modRem{mod: 1} }

func euclidMod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func gcd64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return int64(mathutil.GCDUint64(uint64(a), uint64(b)))
}

func (a modRem) add(b modRem) modRem {
	switch {
	case a.exact && b.exact:
		return exactly(a.rem + b.rem)
	case a.exact:
		return congruent(b.mod, b.rem+a.rem)
	case b.exact:
		return congruent(a.mod, a.rem+b.rem)
	}
	g := gcd64(a.mod, b.mod)
	return congruent(g, a.rem+b.rem)
}

func (a modRem) neg() modRem {
	if a.exact {
		return exactly(-a.rem)
	}
	return congruent(a.mod, -a.rem)
}

func (a modRem) mul(b modRem) modRem {
	switch {
	case a.exact && b.exact:
		return exactly(a.rem * b.rem)
	case a.exact:
		a, b = b, a
	}
	if b.exact {
		c := b.rem
		if c == 0 {
			return exactly(0)
		}
		m := a.mod * c
		if m < 0 {
			m = -m
		}
		return congruent(m, a.rem*c)
	}
	g := gcd64(a.mod*b.mod, gcd64(a.mod*b.rem, b.mod*a.rem))
	return congruent(g, a.rem*b.rem)
}

func modRemOf(e ir.Expr) modRem {
	switch n := e.(type) {
	case *ir.IntImm:
		return exactly(n.Value)
	case *ir.UIntImm:
		if n.Value <= 1<<62 {
			return exactly(int64(n.Value))
		}
	case *ir.Broadcast:
		return modRemOf(n.Value)
	case *ir.Cast:
		if n.T.IsInt() || n.T.IsUInt() {
			return modRemOf(n.Value)
		}
	case *ir.Ramp:
		return modRemOf(n.Base)
	case *ir.Binary:
		switch n.Op {
		case ir.OpAdd:
			return modRemOf(n.A).add(modRemOf(n.B))
		case ir.OpSub:
			return modRemOf(n.A).add(modRemOf(n.B).neg())
		case ir.OpMul:
			return modRemOf(n.A).mul(modRemOf(n.B))
		}
	case *ir.Let:
		// Alignment of the body with the bound value left opaque.
		return modRemOf(n.Body)
	}
	return unknownMR()
}

// AlignmentOf reports the remainder of e modulo align, when the linear
// structure of e proves one. align must be positive.
func AlignmentOf(e ir.Expr, align int64) (int64, bool) {
	if align <= 0 {
		panic("bounds: non-positive alignment")
	}
	mr := modRemOf(e)
	if mr.exact {
		return euclidMod(mr.rem, align), true
	}
	if mr.mod%align == 0 {
		return euclidMod(mr.rem, align), true
	}
	return 0, false
}

// ModRemOf summarizes the alignment of e as load metadata: the
// strongest modulus the linear analysis can prove, or the zero value
// when nothing is known.
func ModRemOf(e ir.Expr) ir.ModRem {
	mr := modRemOf(e)
	if mr.exact {
		// A constant is congruent to zero modulo its own magnitude.
		m := mr.rem
		if m < 0 {
			m = -m
		}
		if m == 0 {
			m = 1 << 30
		}
		return ir.ModRem{Modulus: m, Remainder: 0}
	}
	if mr.mod <= 1 {
		return ir.ModRem{}
	}
	return ir.ModRem{Modulus: mr.mod, Remainder: mr.rem}
}
