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

// Package enumerate walks the Cartesian product of an ordered list of parts,
// treating the positions as an N-digit odometer with variable radices
// |P1|..|PN|. The innermost digit (the last part) varies fastest.
//
// The key optimization is incremental Adler-32 hashing: a running prefix
// state is kept per digit position, so advancing an outer digit only
// recomputes the states downstream of it instead of re-hashing the whole
// candidate from scratch.
package enumerate

import (
	"github.com/symbolforge/collide2077/adler32"
	"github.com/symbolforge/collide2077/parts"
)

// Candidate is one emitted concatenation along with its incrementally
// computed Adler-32 checksum. Bytes is only valid for the duration of the
// Walk callback invocation that produced it -- callers that need to retain
// it must copy.
type Candidate struct {
	Bytes []byte
	Adler uint32
}

// Range is a contiguous half-open slice [Start, End) of the outermost
// digit's radix, used to partition the product across worker goroutines.
type Range struct {
	Start, End int
}

// Partition slices the outermost digit's range into `total` contiguous,
// roughly equal blocks and returns the block for `index`. Every candidate
// in the full product is produced by exactly one partition across
// index in [0, total).
func Partition(outerRadix, total, index int) Range {
	if total <= 0 {
		total = 1
	}
	base := outerRadix / total
	rem := outerRadix % total
	start := index*base + min(index, rem)
	size := base
	if index < rem {
		size++
	}
	end := start + size
	if end > outerRadix {
		end = outerRadix
	}
	if start > outerRadix {
		start = outerRadix
	}
	return Range{Start: start, End: end}
}

// Enumerator walks the product of ps, restricted to the given Range of the
// outermost (first) digit. A zero-value Enumerator is not valid; use New.
type Enumerator struct {
	ps    []parts.Part
	outer Range

	// prefix[k] is the Adler-32 state of parts[0..k) concatenated
	// (prefix[0] is the initial state, prefix[len(ps)] is the full
	// candidate's state). buf mirrors prefix as concatenated bytes so the
	// candidate can be materialized without re-copying every position on
	// every step.
	prefix []adler32.Digest
	offset []int // byte offset in buf where part k's bytes start
	buf    []byte
}

// New returns an Enumerator over the full product of ps (equivalent to
// NewRange(ps, Range{0, len(ps[0])})). If ps is empty or any part is empty,
// the product is empty and Walk invokes its callback zero times, per the
// empty-product rule.
func New(ps []parts.Part) *Enumerator {
	outer := 0
	if len(ps) > 0 {
		outer = len(ps[0])
	}
	return NewRange(ps, Range{Start: 0, End: outer})
}

// NewRange returns an Enumerator restricted to `outer` of the first part's
// indices -- the partitioning hook worker goroutines use to divide the
// product without coordination.
func NewRange(ps []parts.Part, outer Range) *Enumerator {
	e := &Enumerator{
		ps:     ps,
		outer:  outer,
		prefix: make([]adler32.Digest, len(ps)+1),
		offset: make([]int, len(ps)+1),
	}
	e.prefix[0] = adler32.New()
	return e
}

// Walk invokes fn once for every candidate in the enumerator's assigned
// range, in odometer order (unspecified to callers per the engine's
// ordering contract). Walk returns early, without error, if fn returns
// false -- used by the collision driver to observe the batch/cancellation
// boundary without restarting the product.
func (e *Enumerator) Walk(fn func(Candidate) bool) {
	if len(e.ps) == 0 {
		return
	}
	for _, p := range e.ps {
		if len(p) == 0 {
			return
		}
	}
	if e.outer.Start >= e.outer.End {
		return
	}

	digits := make([]int, len(e.ps))
	digits[0] = e.outer.Start

	// Prime the buffer and prefix hashes for the starting digit vector.
	e.resetBuf()
	for k := range e.ps {
		e.extend(k, digits[k])
	}

	for {
		if !fn(Candidate{Bytes: e.buf, Adler: e.prefix[len(e.ps)].Sum32()}) {
			return
		}

		// Advance the odometer: innermost digit first.
		k := len(e.ps) - 1
		for k >= 0 {
			digits[k]++
			limit := len(e.ps[k])
			if k == 0 {
				limit = e.outer.End
			}
			if digits[k] < limit {
				break
			}
			digits[k] = 0
			if k == 0 {
				return // outer range exhausted
			}
			k--
		}
		if k < 0 {
			return
		}

		// Recompute the advanced digit and everything downstream of it.
		e.truncateBuf(k)
		for j := k; j < len(e.ps); j++ {
			e.extend(j, digits[j])
		}
	}
}

// extend appends parts[k][digit] to the buffer, rolling prefix[k] forward
// into prefix[k+1] and recording the new byte offset for position k+1.
func (e *Enumerator) extend(k, digit int) {
	v := e.ps[k][digit]
	e.buf = append(e.buf, v...)
	e.prefix[k+1] = e.prefix[k].Extend(v)
	e.offset[k+1] = len(e.buf)
}

// truncateBuf rewinds the buffer and prefix chain to the state immediately
// before position k was chosen, so positions k..N can be re-extended.
func (e *Enumerator) truncateBuf(k int) {
	e.buf = e.buf[:e.offset[k]]
}

func (e *Enumerator) resetBuf() {
	e.buf = e.buf[:0]
	e.offset[0] = 0
}
