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

	"github.com/ajroetker/go-veclower/ir"

	"github.com/xyproto/env/v2"
)

// Set VECLOWER_DEBUG=1 to log every pattern rewrite, and
// VECLOWER_TRACE_IR=1 to dump the IR after each pipeline stage.
var (
	debugRewrites = env.Bool("VECLOWER_DEBUG")
	traceIR       = env.Bool("VECLOWER_TRACE_IR")
)

func debugf(format string, args ...any) {
	if debugRewrites {
		fmt.Printf("[lower] "+format+"\n", args...)
	}
}

func traceStage(name string, s ir.Stmt) {
	if traceIR {
		fmt.Printf("[lower] after %s:\n%s", name, ir.PrintStmt(s))
	}
}
