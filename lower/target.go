package lower

import (
	"fmt"

	"github.com/ajroetker/go-veclower/ir"
)

// Target describes the vector unit the lowering pipeline compiles for.
type Target struct {
	Name       string // target identifier, e.g. "vdsp512"
	VectorBits int    // bits in one vector register
	LUTSize    int    // max element count of a dynamic shuffle table
	AlignBytes int    // byte alignment of fast vector loads

	// NativeWidths maps oversized vector types to the lane count the
	// splitter must cut them down to. Types not listed pass through
	// unchanged. Accumulator types are wider than vector registers, so
	// they keep the lane count of their 16-bit operands.
	NativeWidths map[ir.Type]int
}

// ===== Built-in targets =====

// VDSP512Target returns the 512-bit fixed point DSP profile: 32 lanes
// of 16 bits per register, 48-bit accumulators at the same lane count,
// and a 64-entry dynamic shuffle unit.
func VDSP512Target() Target {
	return Target{
		Name:       "vdsp512",
		VectorBits: 512,
		LUTSize:    64,
		AlignBytes: 64,
		NativeWidths: map[ir.Type]int{
			ir.Int(16, 64):  32,
			ir.UInt(16, 64): 32,
			ir.Int(32, 32):  16,
			ir.UInt(32, 32): 16,
			ir.Int(32, 64):  16,
			ir.UInt(32, 64): 16,
			ir.Int(48, 64):  32,
			ir.Int(64, 32):  16,
			ir.Int(64, 64):  16,
		},
	}
}

// VDSP256Target returns the half width profile used by the smaller
// cores: 16 lanes of 16 bits per register and a 32-entry shuffle unit.
func VDSP256Target() Target {
	return Target{
		Name:       "vdsp256",
		VectorBits: 256,
		LUTSize:    32,
		AlignBytes: 32,
		NativeWidths: map[ir.Type]int{
			ir.Int(16, 32):  16,
			ir.UInt(16, 32): 16,
			ir.Int(32, 16):  8,
			ir.UInt(32, 16): 8,
			ir.Int(32, 32):  8,
			ir.UInt(32, 32): 8,
			ir.Int(48, 32):  16,
			ir.Int(64, 16):  8,
			ir.Int(64, 32):  8,
		},
	}
}

// GetTarget returns the built-in target with the given name.
func GetTarget(name string) (Target, error) {
	switch name {
	case "vdsp512":
		return VDSP512Target(), nil
	case "vdsp256":
		return VDSP256Target(), nil
	default:
		return Target{}, fmt.Errorf("unknown target: %s (valid: vdsp512, vdsp256)", name)
	}
}

// ===== Helper methods =====

// NativeLanes returns the lane count vectors of type t must be split
// to, or 0 when t needs no splitting.
func (t Target) NativeLanes(vt ir.Type) int { return t.NativeWidths[vt] }

// VectorLanes returns the lane count of one vector register for the
// given element width.
func (t Target) VectorLanes(elemBits int) int { return t.VectorBits / elemBits }
