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

package addrdump_test

import (
	"strings"
	"testing"

	"github.com/symbolforge/collide2077/addrdump"
)

const sampleDump = `{
  "Addresses": [
    {"offset": "0001:00001000", "hash": "123456", "secondary hash": "0000000000000000000000000000000000000000000000000000000000000001"},
    {"offset": "0002:00002000", "hash": "654321", "secondary hash": "0000000000000000000000000000000000000000000000000000000000000002"},
    {"offset": "0001:00003000", "hash": "111111", "secondary hash": "0000000000000000000000000000000000000000000000000000000000000003"}
  ]
}`

func Test_ParseAndSliceBySegment(t *testing.T) {
	addrs, err := addrdump.Parse(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if len(addrs) != 3 {
		t.Fatalf("got %d addresses, want 3", len(addrs))
	}

	code := addrdump.BySegment(addrs, addrdump.SegCode)
	if len(code) != 2 {
		t.Fatalf("got %d code-segment pairs, want 2", len(code))
	}

	rdata := addrdump.BySegment(addrs, addrdump.SegRData)
	if len(rdata) != 1 {
		t.Fatalf("got %d rdata-segment pairs, want 1", len(rdata))
	}
}

func Test_ByAdler(t *testing.T) {
	addrs, err := addrdump.Parse(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	got := addrdump.ByAdler(addrs, 654321)
	if len(got) != 1 || got[0].Adler != 654321 {
		t.Fatalf("ByAdler(654321) = %v", got)
	}
}

func Test_MalformedOffsetRejected(t *testing.T) {
	const bad = `{"Addresses": [{"offset": "bad", "hash": "1", "secondary hash": "00"}]}`
	if _, err := addrdump.Parse(strings.NewReader(bad)); err == nil {
		t.Fatalf("expected an error for a malformed offset")
	}
}
