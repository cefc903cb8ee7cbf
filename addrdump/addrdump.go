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

// Package addrdump reads the address/hash dump produced by the (unmodeled)
// binary-ingestion collaborator described in spec.md §6, and slices it into
// the (adler, sha) target pairs a campaign needs.
package addrdump

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/symbolforge/collide2077/target"
)

// Segment tags the section of the binary an address falls in, carried
// through for collaborator filtering only per spec.md's glossary.
type Segment string

const (
	SegCode  Segment = "0001" // .text
	SegRData Segment = "0002" // .rdata
	SegData  Segment = "0003" // .data
)

// Address is one decoded entry from the dump: its segment, byte offset
// within that segment, and the observed (adler32, sha256) hash pair.
type Address struct {
	Segment Segment
	Offset  uint64
	Adler   uint32
	SHA     target.Digest
}

type dumpFile struct {
	Addresses []dumpEntry `json:"Addresses"`
}

type dumpEntry struct {
	Offset        string `json:"offset"`
	Hash          string `json:"hash"`
	SecondaryHash string `json:"secondary hash"`
}

// Load parses the address-dump JSON document at path.
func Load(path string) ([]Address, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("addrdump: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes the {"Addresses": [...]} document from r.
func Parse(r io.Reader) ([]Address, error) {
	var doc dumpFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("addrdump: decode: %w", err)
	}

	out := make([]Address, 0, len(doc.Addresses))
	for i, e := range doc.Addresses {
		addr, err := decode(e)
		if err != nil {
			return nil, fmt.Errorf("addrdump: entry %d: %w", i, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

func decode(e dumpEntry) (Address, error) {
	segAndOffset := strings.SplitN(e.Offset, ":", 2)
	if len(segAndOffset) != 2 {
		return Address{}, fmt.Errorf("malformed offset %q", e.Offset)
	}
	offset, err := strconv.ParseUint(segAndOffset[1], 16, 64)
	if err != nil {
		return Address{}, fmt.Errorf("malformed offset %q: %w", e.Offset, err)
	}

	adler, err := strconv.ParseUint(e.Hash, 10, 32)
	if err != nil {
		return Address{}, fmt.Errorf("malformed hash %q: %w", e.Hash, err)
	}

	raw, err := hex.DecodeString(e.SecondaryHash)
	if err != nil || len(raw) != 32 {
		return Address{}, fmt.Errorf("malformed secondary hash %q", e.SecondaryHash)
	}
	var sha target.Digest
	copy(sha[:], raw)

	return Address{
		Segment: Segment(segAndOffset[0]),
		Offset:  offset,
		Adler:   uint32(adler),
		SHA:     sha,
	}, nil
}

// BySegment returns the (adler, sha) pairs of every address whose segment
// is one of segs -- the Go shape of original_source/python/collide.py's
// `segs()` helper.
func BySegment(addrs []Address, segs ...Segment) []target.Pair {
	want := make(map[Segment]bool, len(segs))
	for _, s := range segs {
		want[s] = true
	}
	var out []target.Pair
	for _, a := range addrs {
		if want[a.Segment] {
			out = append(out, target.Pair{Adler: a.Adler, SHA: a.SHA})
		}
	}
	return out
}

// ByAdler returns the (adler, sha) pairs of every address whose adler32
// value is one of adlers -- the Go shape of collide.py's `adlers()` helper.
func ByAdler(addrs []Address, adlers ...uint32) []target.Pair {
	want := make(map[uint32]bool, len(adlers))
	for _, a := range adlers {
		want[a] = true
	}
	var out []target.Pair
	for _, a := range addrs {
		if want[a.Adler] {
			out = append(out, target.Pair{Adler: a.Adler, SHA: a.SHA})
		}
	}
	return out
}
