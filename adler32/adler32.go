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

// Package adler32 provides the RFC 1950 rolling checksum used as a cheap
// prefilter ahead of an authoritative hash.
//
// Unlike hash/adler32 in the standard library, Digest exposes its running
// (s1, s2) state directly so that callers driving a combinatorial search can
// fork a prefix's state without re-hashing the prefix for every suffix they
// try (see the enumerate package's incremental rolling across Cartesian
// product positions).
package adler32

// mod is the largest prime less than 2^16, per RFC 1950.
const mod uint32 = 65521

// Digest is the running (s1, s2) state of an Adler-32 checksum. The zero
// value is not valid; use New.
type Digest struct {
	s1, s2 uint32
}

// New returns the initial Adler-32 state (s1=1, s2=0).
func New() Digest {
	return Digest{s1: 1, s2: 0}
}

// Extend returns a new Digest with buf's bytes folded into d's state. d is
// left unmodified, so the same prefix Digest can be extended many times with
// different suffixes without recomputation -- this is the operation the
// product enumerator relies on.
func (d Digest) Extend(buf []byte) Digest {
	s1, s2 := d.s1, d.s2
	// Process in bounded runs so the modulo is only taken once per run
	// instead of once per byte; 5552 is the largest n such that
	// 255*n*(n+1)/2 + (n+1)*(mod-1) <= 2^32-1.
	const nmax = 5552
	for len(buf) > 0 {
		n := len(buf)
		if n > nmax {
			n = nmax
		}
		for _, b := range buf[:n] {
			s1 += uint32(b)
			s2 += s1
		}
		s1 %= mod
		s2 %= mod
		buf = buf[n:]
	}
	return Digest{s1: s1, s2: s2}
}

// Sum32 packs the state as (s2<<16)|s1, the wire format required by the
// target set this package is asked to match.
func (d Digest) Sum32() uint32 {
	return (d.s2 << 16) | d.s1
}

// Checksum is a convenience wrapper equivalent to New().Extend(buf).Sum32().
func Checksum(buf []byte) uint32 {
	return New().Extend(buf).Sum32()
}
