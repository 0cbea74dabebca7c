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

package ir

import "fmt"

// MakeConcat returns the concatenation of the given vectors. A single
// vector is returned unchanged.
func MakeConcat(vectors []Expr) Expr {
	if len(vectors) == 0 {
		panic("ir: concat of no vectors")
	}
	if len(vectors) == 1 {
		return vectors[0]
	}
	total := 0
	for _, v := range vectors {
		total += v.Type().Lanes
	}
	indices := make([]int, total)
	for i := range indices {
		indices[i] = i
	}
	return &Shuffle{Vectors: vectors, Indices: indices}
}

// MakeSlice extracts lanes begin, begin+stride, ... from vec.
func MakeSlice(vec Expr, begin, stride, lanes int) Expr {
	if begin == 0 && stride == 1 && lanes == vec.Type().Lanes {
		return vec
	}
	if begin < 0 || begin+(lanes-1)*stride >= vec.Type().Lanes {
		panic(fmt.Sprintf("ir: slice [%d:+%d*%d] out of range of %v", begin, lanes, stride, vec.Type()))
	}
	indices := make([]int, lanes)
	for i := range indices {
		indices[i] = begin + i*stride
	}
	return &Shuffle{Vectors: []Expr{vec}, Indices: indices}
}

// MakeInterleave interleaves equal-length vectors lane by lane: the
// result is v0[0], v1[0], ..., v0[1], v1[1], ...
func MakeInterleave(vectors []Expr) Expr {
	if len(vectors) == 0 {
		panic("ir: interleave of no vectors")
	}
	if len(vectors) == 1 {
		return vectors[0]
	}
	n := len(vectors)
	lanes := vectors[0].Type().Lanes
	for _, v := range vectors {
		if v.Type().Lanes != lanes {
			panic("ir: interleave of mixed lane counts")
		}
	}
	indices := make([]int, n*lanes)
	for i := range indices {
		indices[i] = (i%n)*lanes + i/n
	}
	return &Shuffle{Vectors: vectors, Indices: indices}
}

// InputLanes returns the lane count of the concatenated input vectors.
func (e *Shuffle) InputLanes() int {
	total := 0
	for _, v := range e.Vectors {
		total += v.Type().Lanes
	}
	return total
}

// IsInterleave reports whether the shuffle interleaves its input
// vectors lane by lane.
func (e *Shuffle) IsInterleave() bool {
	n := len(e.Vectors)
	if n < 2 {
		return false
	}
	lanes := e.Vectors[0].Type().Lanes
	for _, v := range e.Vectors {
		if v.Type().Lanes != lanes {
			return false
		}
	}
	if len(e.Indices) != n*lanes {
		return false
	}
	for i, idx := range e.Indices {
		if idx != (i%n)*lanes+i/n {
			return false
		}
	}
	return true
}

// IsConcat reports whether the shuffle is the plain concatenation of
// its input vectors.
func (e *Shuffle) IsConcat() bool {
	if len(e.Indices) != e.InputLanes() {
		return false
	}
	for i, idx := range e.Indices {
		if idx != i {
			return false
		}
	}
	return true
}

// IsSlice reports whether the indices form an arithmetic progression
// over a single input vector.
func (e *Shuffle) IsSlice() bool {
	if len(e.Vectors) != 1 || len(e.Indices) == 0 {
		return false
	}
	begin, stride := e.SliceBegin(), e.SliceStride()
	for i, idx := range e.Indices {
		if idx != begin+i*stride {
			return false
		}
	}
	return true
}

// SliceBegin returns the first selected lane.
func (e *Shuffle) SliceBegin() int { return e.Indices[0] }

// SliceStride returns the step between selected lanes.
func (e *Shuffle) SliceStride() int {
	if len(e.Indices) < 2 {
		return 1
	}
	return e.Indices[1] - e.Indices[0]
}
