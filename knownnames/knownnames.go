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

// Package knownnames is the persistent SHA-256 -> name map the engine's
// caller is responsible for maintaining (spec.md §4.5). The engine itself
// never touches this state; this package is the explicit, owned object the
// Design Notes call for in place of the source's process-wide mutable map.
package knownnames

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/symbolforge/collide2077/sha256x"
	"github.com/symbolforge/collide2077/target"
)

// Map is a SHA-256 -> name table. The zero value is an empty, usable Map.
type Map struct {
	names map[target.Digest]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{names: make(map[target.Digest]string)}
}

// Load reads a known-names file in the `<sha256 hex upper> <SPACE> <name>\n`
// format of spec.md §6. Read order does not matter: later duplicate SHA
// entries overwrite earlier ones.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("knownnames: open %s: %w", path, err)
	}
	defer f.Close()

	m := New()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("knownnames: %s:%d: missing separator", path, lineNo)
		}
		shaHex, name := line[:sp], line[sp+1:]
		raw, err := hex.DecodeString(shaHex)
		if err != nil || len(raw) != 32 {
			return nil, fmt.Errorf("knownnames: %s:%d: invalid sha256 %q", path, lineNo, shaHex)
		}
		var sha target.Digest
		copy(sha[:], raw)
		m.names[sha] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("knownnames: read %s: %w", path, err)
	}
	return m, nil
}

// Save writes the map sorted by name, per spec.md §6's "sorted by name on
// write" requirement.
func (m *Map) Save(path string) error {
	type entry struct {
		sha  target.Digest
		name string
	}
	entries := make([]entry, 0, len(m.names))
	for sha, name := range m.names {
		entries = append(entries, entry{sha, name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("knownnames: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s\n", strings.ToUpper(hex.EncodeToString(e.sha[:])), e.name)
	}
	return w.Flush()
}

// Lookup returns the name recorded for sha, if any.
func (m *Map) Lookup(sha target.Digest) (string, bool) {
	name, ok := m.names[sha]
	return name, ok
}

// Filter removes pairs whose SHA is already known, the caller-side step
// spec.md §4.5 requires before building a campaign's target index.
func (m *Map) Filter(pairs []target.Pair) []target.Pair {
	out := make([]target.Pair, 0, len(pairs))
	for _, p := range pairs {
		if _, known := m.names[p.SHA]; known {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Record adds newly confirmed strings to the map, keyed by their own
// sha256 digest -- the post-run bookkeeping step in
// original_source/python/hash2077.py's `collide` method.
func (m *Map) Record(results []string) error {
	if m.names == nil {
		m.names = make(map[target.Digest]string)
	}
	for _, s := range results {
		digest, err := sha256x.HashString(s)
		if err != nil {
			return fmt.Errorf("knownnames: hash %q: %w", s, err)
		}
		var sha target.Digest
		copy(sha[:], digest.Bytes())
		m.names[sha] = s
	}
	return nil
}

// Values returns every known name, for recipes that build alphabets out of
// previously recovered names (e.g. class names feeding constructor
// searches).
func (m *Map) Values() []string {
	out := make([]string, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, name)
	}
	return out
}

// Len reports how many names are currently known.
func (m *Map) Len() int {
	return len(m.names)
}
