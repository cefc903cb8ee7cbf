// Copyright (c) 2024 Symbol Not Found LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package parts defines the positional alphabets that make up one
// collision campaign's Cartesian product.
package parts

import (
	"bytes"
	"sort"
)

// Part is an ordered, deduplicated, sorted list of candidate byte strings
// for one position of the concatenation. Callers are expected to pre-sort
// and deduplicate (mirroring original_source/python/collide.py's
// `list(sorted(set(part)))`); Normalize re-verifies defensively since the
// engine does not trust caller discipline for something this cheap to
// re-check.
type Part [][]byte

// FromStrings is a convenience constructor accepting plain strings, used
// when recipes build alphabets out of literal fragments.
func FromStrings(values ...string) Part {
	out := make(Part, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}
	return Normalize(out)
}

// Normalize deduplicates and sorts a Part's elements. Empty parts are
// returned unchanged (an empty part is meaningful: it collapses the whole
// product to nothing, per spec's empty-product rule).
func Normalize(p Part) Part {
	if len(p) == 0 {
		return p
	}
	cp := make(Part, len(p))
	copy(cp, p)
	sort.Slice(cp, func(i, j int) bool { return bytes.Compare(cp[i], cp[j]) < 0 })

	out := cp[:0:0]
	for i, v := range cp {
		if i > 0 && bytes.Equal(v, cp[i-1]) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Cardinality returns the product of each part's length (the size of the
// Cartesian product), or 0 if any part is empty.
func Cardinality(ps []Part) uint64 {
	if len(ps) == 0 {
		return 0
	}
	total := uint64(1)
	for _, p := range ps {
		if len(p) == 0 {
			return 0
		}
		total *= uint64(len(p))
	}
	return total
}
