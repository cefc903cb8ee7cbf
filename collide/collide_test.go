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

package collide_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/symbolforge/collide2077/adler32"
	"github.com/symbolforge/collide2077/collide"
	"github.com/symbolforge/collide2077/parts"
	"github.com/symbolforge/collide2077/sha256x"
	"github.com/symbolforge/collide2077/target"
)

func shaOf(t *testing.T, s string) target.Digest {
	t.Helper()
	d, err := sha256x.HashString(s)
	if err != nil {
		t.Fatalf("hashing %q: %s", s, err)
	}
	var out target.Digest
	copy(out[:], d.Bytes())
	return out
}

func pairOf(t *testing.T, s string) target.Pair {
	t.Helper()
	return target.Pair{Adler: adler32.Checksum([]byte(s)), SHA: shaOf(t, s)}
}

// Scenario 1: trivial single part.
func Test_Scenario1_TrivialSinglePart(t *testing.T) {
	cfg := collide.Campaign{
		Targets: []target.Pair{pairOf(t, "bar")},
		Parts:   []parts.Part{parts.FromStrings("foo", "bar", "baz")},
	}
	res, err := collide.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	assertStrings(t, res.Strings, []string{"bar"})
}

// Scenario 2: two parts, one match.
func Test_Scenario2_TwoPartsOneMatch(t *testing.T) {
	cfg := collide.Campaign{
		Targets: []target.Pair{pairOf(t, "??_7Bar@@")},
		Parts: []parts.Part{
			parts.FromStrings("??_7", "??0"),
			parts.FromStrings("Foo@@", "Bar@@"),
		},
	}
	res, err := collide.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	assertStrings(t, res.Strings, []string{"??_7Bar@@"})
}

// Scenario 3: a prefilter (adler32) collision between two distinct strings
// must not cause the SHA-256 mismatch string to be reported.
func Test_Scenario3_PrefilterCollisionDistinctSHA(t *testing.T) {
	// "ACA" and "BAB" share an Adler-32 checksum by construction; the
	// assertion below double-checks the fixture rather than assuming it.
	s1, s2 := "ACA", "BAB"
	if adler32.Checksum([]byte(s1)) != adler32.Checksum([]byte(s2)) {
		t.Fatalf("test fixture assumption broken: %q and %q must share an Adler-32 checksum", s1, s2)
	}

	cfg := collide.Campaign{
		Targets: []target.Pair{pairOf(t, s1)},
		Parts:   []parts.Part{parts.FromStrings(s1, s2)},
	}
	res, err := collide.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	assertStrings(t, res.Strings, []string{s1})
}

// Scenario 4: any empty part yields an empty result.
func Test_Scenario4_EmptyPart(t *testing.T) {
	cfg := collide.Campaign{
		Targets: []target.Pair{pairOf(t, "ab")},
		Parts: []parts.Part{
			parts.FromStrings("a"),
			{},
			parts.FromStrings("b"),
		},
	}
	res, err := collide.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if len(res.Strings) != 0 {
		t.Fatalf("expected no results for an empty part, got %v", res.Strings)
	}
}

// Scenario 5: three-part moderate product (4096 candidates), confirming the
// prepared target is the only result.
func Test_Scenario5_ThreePartModerateProduct(t *testing.T) {
	hexDigits := make([]string, 16)
	for i := range hexDigits {
		hexDigits[i] = fmt.Sprintf("%x", i)
	}
	target0 := "__real@000"

	cfg := collide.Campaign{
		Targets: []target.Pair{pairOf(t, target0)},
		Parts: []parts.Part{
			parts.FromStrings("__real@"),
			parts.FromStrings(hexDigits...),
			parts.FromStrings(hexDigits...),
			parts.FromStrings(hexDigits...),
		},
	}
	res, err := collide.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	assertStrings(t, res.Strings, []string{target0})
}

// Scenario 6 / Property 5: thread count must not change the result set.
func Test_Scenario6_ThreadInvariance(t *testing.T) {
	cfg := collide.Campaign{
		Targets: []target.Pair{pairOf(t, "??_7Bar@@"), pairOf(t, "??0Foo@@")},
		Parts: []parts.Part{
			parts.FromStrings("??_7", "??0"),
			parts.FromStrings("Foo@@", "Bar@@"),
		},
	}
	want := []string{"??0Foo@@", "??_7Bar@@"}

	for _, threads := range []int{1, 2, 4, 8} {
		cfg.NumThreads = threads
		res, err := collide.Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("threads=%d: Run: %s", threads, err)
		}
		assertStrings(t, res.Strings, want)
	}
}

func Test_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  collide.Campaign
	}{
		{"batch_size too large", collide.Campaign{BatchSize: 1 << 33, Parts: []parts.Part{parts.FromStrings("a")}}},
		{"lookup_size too large", collide.Campaign{LookupSize: 1 << 33, Parts: []parts.Part{parts.FromStrings("a")}}},
		{"negative threads", collide.Campaign{NumThreads: -1, Parts: []parts.Part{parts.FromStrings("a")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collide.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func Test_LookupCapacityExceeded(t *testing.T) {
	cfg := collide.Campaign{
		Targets:    []target.Pair{pairOf(t, "a"), pairOf(t, "b"), pairOf(t, "c")},
		Parts:      []parts.Part{parts.FromStrings("a", "b", "c")},
		LookupSize: 2,
	}
	_, err := collide.Run(context.Background(), cfg)
	if err == nil {
		t.Fatalf("expected ErrLookupCapacityExceeded")
	}
}

func Test_Cancellation(t *testing.T) {
	hexDigits := make([]string, 16)
	for i := range hexDigits {
		hexDigits[i] = fmt.Sprintf("%x", i)
	}
	cfg := collide.Campaign{
		Targets: []target.Pair{pairOf(t, "__real@fff")},
		Parts: []parts.Part{
			parts.FromStrings("__real@"),
			parts.FromStrings(hexDigits...),
			parts.FromStrings(hexDigits...),
			parts.FromStrings(hexDigits...),
		},
		BatchSize: 1,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel before the first batch boundary is even reached.

	res, err := collide.Run(ctx, cfg)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if !res.Cancelled {
		t.Fatalf("expected Cancelled=true")
	}
}

func assertStrings(t *testing.T, got []string, want []string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
