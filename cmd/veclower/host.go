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
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-veclower/lower"
)

// hostTarget picks the built-in profile nearest the host's vector
// width, so the demo runs without naming a target. The profiles are
// fixed point DSPs either way; this only sizes the registers.
func hostTarget() lower.Target {
	if cpu.X86.HasAVX512F || cpu.ARM64.HasSVE {
		return lower.VDSP512Target()
	}
	return lower.VDSP256Target()
}
