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

package sha256x_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/symbolforge/collide2077/sha256x"
)

func Test_Hashing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"lazy dog", "The quick brown fox jumps over the lazy dog",
			"d7a8fbb307d7809469ca9abcb0082e4f8d5651e46d3cdb762d02d0bf37c9e592"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := sha256x.HashString(tt.input)
			if err != nil {
				t.Fatalf("error hashing %q: %s", tt.input, err)
			}
			want, _ := hex.DecodeString(tt.expected)
			if !bytes.Equal(digest.Bytes(), want) {
				t.Errorf("hashing %q\ngot:  %x\nwant: %s", tt.input, digest.Bytes(), tt.expected)
			}
		})
	}
}

// Test_MultiBlock exercises the padding/length logic across a message that
// spans several 64-byte blocks, including one that lands exactly on the
// block boundary requiring an extra block for the length suffix.
func Test_MultiBlock(t *testing.T) {
	for _, n := range []int{55, 56, 63, 64, 65, 128, 1000} {
		input := strings.Repeat("a", n)
		got, err := sha256x.HashString(input)
		if err != nil {
			t.Fatalf("n=%d: %s", n, err)
		}
		if len(got.Bytes()) != sha256x.DIGEST_BYTES {
			t.Fatalf("n=%d: digest length = %d, want %d", n, len(got.Bytes()), sha256x.DIGEST_BYTES)
		}
	}
}

func Test_ReusableHasher(t *testing.T) {
	h := sha256x.New()
	h.Write([]byte("abc"))
	first := h.Hash()

	h.Write([]byte("abc"))
	second := h.Hash()

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("Hash() did not reset the hasher for reuse")
	}
}
