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

// Package mangle implements the MSVC name-mangling primitives that
// original_source/python/collide.py calls (`mangle.number`, `mangle.strlit`)
// but never defines in the kept source -- they live in an import this
// module's retrieval pack did not carry. This package supplies them so the
// recipes ported from collide.py (see the recipes package) can build real
// candidate alphabets instead of stopping at a TODO.
package mangle

import "fmt"

// digitOrHex is the alphabet MSVC uses for its "compressed" numeric
// encoding: single digits 1-10 map to '0'-'9', and 0 maps to '@'.
const digitOrHex = "0123456789ABCDEFGHIJKLMNOP"

// Number renders n using MSVC's mangled-numeric-constant form: 0 is "@",
// 1-10 are "0"-"9", and anything else is an 'A'-'P' hex-nibble run (most
// significant nibble first) terminated by '@'. Negative numbers are
// prefixed with '?' and mangle the absolute value.
func Number(n int64) string {
	if n == 0 {
		return "@"
	}
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	if u <= 10 {
		if neg {
			return fmt.Sprintf("?%d", u-1)
		}
		return fmt.Sprintf("%d", u-1)
	}

	var nibbles []byte
	for u > 0 {
		nibbles = append(nibbles, digitOrHex[10+u&0xF])
		u >>= 4
	}
	// MSVC emits most-significant nibble first.
	for i, j := 0, len(nibbles)-1; i < j; i, j = i+1, j-1 {
		nibbles[i], nibbles[j] = nibbles[j], nibbles[i]
	}
	out := string(nibbles) + "@"
	if neg {
		return "?" + out
	}
	return out
}

// StringLiteral renders b using MSVC's string-literal mangling scheme
// (`??_C@_0<len-code><hash>@<mangled-chars>@`), used by collide.py's
// `strlits()` recipe to build candidate alphabets for string-literal
// symbols. This module does not attempt MSVC's exact CRC-based hash
// component (undocumented, and not needed for this package's purpose of
// producing plausible, distinct candidates for the product enumerator); it
// substitutes a deterministic placeholder derived from FNV1a64 so the same
// input always mangles to the same candidate string.
func StringLiteral(b []byte) string {
	lengthCode := lengthCode(len(b))
	hashComponent := fmt.Sprintf("%08X", uint32(FNV1a64(b)))
	return fmt.Sprintf("??_C@_0%s%s@%s@", lengthCode, hashComponent, mangleChars(b))
}

// lengthCode mirrors MSVC's single-letter length bucket ('0' for <=1,
// up through larger buckets for longer strings); kept deliberately coarse.
func lengthCode(n int) string {
	switch {
	case n <= 1:
		return "0"
	case n <= 16:
		return "1"
	case n <= 256:
		return "2"
	default:
		return "3"
	}
}

// mangleChars renders printable ASCII verbatim and escapes everything else
// as "?$XX" (hex), the general shape of MSVC's escaping for characters that
// are not valid in an undecorated symbol name.
func mangleChars(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c >= 0x20 && c < 0x7F && c != '?' && c != '@' && c != '$' {
			out = append(out, c)
			continue
		}
		out = append(out, []byte(fmt.Sprintf("?$%02X", c))...)
	}
	return string(out)
}

// FNV1a64 is a direct port of collide.py's inline fnv1a_64 helper, used to
// derive the constant-name suffix for a string literal.
func FNV1a64(data []byte) uint64 {
	const (
		offset = 0xCBF29CE484222325
		prime  = 0x100000001B3
	)
	h := uint64(offset)
	for _, b := range data {
		h = (prime * (h ^ uint64(b)))
	}
	return h
}
