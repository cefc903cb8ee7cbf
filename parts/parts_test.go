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

package parts_test

import (
	"testing"

	"github.com/symbolforge/collide2077/parts"
)

func Test_NormalizeDedupesAndSorts(t *testing.T) {
	p := parts.FromStrings("baz", "foo", "bar", "foo")
	want := []string{"bar", "baz", "foo"}

	if len(p) != len(want) {
		t.Fatalf("got %d elements, want %d", len(p), len(want))
	}
	for i, v := range want {
		if string(p[i]) != v {
			t.Errorf("p[%d] = %q, want %q", i, p[i], v)
		}
	}
}

func Test_NormalizeEmpty(t *testing.T) {
	p := parts.FromStrings()
	if len(p) != 0 {
		t.Fatalf("expected empty part to stay empty, got %d elements", len(p))
	}
}

func Test_Cardinality(t *testing.T) {
	tests := []struct {
		name string
		ps   []parts.Part
		want uint64
	}{
		{"single part", []parts.Part{parts.FromStrings("a", "b", "c")}, 3},
		{"two parts", []parts.Part{
			parts.FromStrings("a", "b"),
			parts.FromStrings("x", "y", "z"),
		}, 6},
		{"empty part collapses product", []parts.Part{
			parts.FromStrings("a"),
			parts.FromStrings(),
			parts.FromStrings("b"),
		}, 0},
		{"no parts", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parts.Cardinality(tt.ps); got != tt.want {
				t.Errorf("Cardinality() = %d, want %d", got, tt.want)
			}
		})
	}
}
