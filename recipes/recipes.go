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

// Package recipes builds concrete Campaigns for the symbol families a
// Cyberpunk 2077-style binary actually contains, ported from
// original_source/python/collide.py's bespoke, one-off functions
// (dynamic_ctor_dtors, unwinds, strlits, vftables, class_funcs) into
// reusable Campaign builders that read from a knownnames.Map and a parsed
// address dump instead of a module-level global.
//
// Every returned Campaign has its NumThreads/BatchSize/LookupSize left at
// zero so the engine's own defaults (runtime.NumCPU, a 2^20 batch, an
// unbounded lookup up to 2^32) apply; callers that need tighter bounds
// override the fields before calling collide.Run.
package recipes

import (
	"strconv"
	"strings"

	"github.com/symbolforge/collide2077/addrdump"
	"github.com/symbolforge/collide2077/collide"
	"github.com/symbolforge/collide2077/knownnames"
	"github.com/symbolforge/collide2077/mangle"
	"github.com/symbolforge/collide2077/parts"
	"github.com/symbolforge/collide2077/target"
)

// DynamicCtorDtors searches the code segment for the compiler-generated
// `??__E`/`??__F` dynamic initializer/terminator thunks, seeding the
// middle alphabet with every name already known plus each known dynamic
// initializer's bare symbol (its `$initializer$` wrapper stripped), the
// Go shape of collide.py's dynamic_ctor_dtors().
func DynamicCtorDtors(known *knownnames.Map, addrs []addrdump.Address) collide.Campaign {
	values := known.Values()
	middle := make(map[string]struct{}, len(values))
	for _, v := range values {
		middle[v] = struct{}{}
	}
	for _, v := range values {
		if stripped, ok := dynamicInitializerBody(v); ok {
			middle[stripped] = struct{}{}
		}
	}

	return collide.Campaign{
		Targets: addrdump.BySegment(addrs, addrdump.SegCode),
		Parts: []parts.Part{
			parts.FromStrings("??__E", "??__F"),
			parts.FromStrings(setToSlice(middle)...),
			parts.FromStrings("@@YAXXZ"),
		},
	}
}

// dynamicInitializerBody strips the `@@3P6AXXZEA` decoration and any
// `$initializer$` marker from a known name, returning the bare identifier
// collide.py's dynamic_ctor_dtors() feeds back into the candidate alphabet.
func dynamicInitializerBody(name string) (string, bool) {
	const suffix = "@@3P6AXXZEA"
	if !strings.HasSuffix(name, suffix) || len(name) <= len(suffix)+1 {
		return "", false
	}
	body := name[1 : len(name)-len(suffix)]
	body = strings.ReplaceAll(body, "$initializer$", "")
	return body, true
}

// Unwinds searches the read-only data segment for SEH unwind tables
// (`$unwind$<name>` and the chained `$chain$N$<name>` continuations),
// the Go shape of collide.py's unwinds().
func Unwinds(known *knownnames.Map, addrs []addrdump.Address) collide.Campaign {
	prefixes := make([]string, 0, 33)
	prefixes = append(prefixes, "$unwind$")
	for i := 0; i < 32; i++ {
		prefixes = append(prefixes, "$chain$"+strconv.Itoa(i)+"$")
	}

	return collide.Campaign{
		Targets: addrdump.BySegment(addrs, addrdump.SegRData),
		Parts: []parts.Part{
			parts.FromStrings(prefixes...),
			parts.FromStrings(known.Values()...),
		},
	}
}

// StrLits searches for the three symbol families MSVC emits per string
// literal: the literal's own `??_C@...` data symbol, the
// ConstNameBuilder::Build<N> instantiation that constructs its CName, and
// the corresponding `s_registered` flag, the Go shape of collide.py's
// strlits(). It returns one Campaign per symbol family since each targets
// a different segment.
func StrLits(addrs []addrdump.Address, literals [][]byte) []collide.Campaign {
	mangledLiterals := make([]string, len(literals))
	constNames := make([]string, len(literals))
	for i, v := range literals {
		mangledLiterals[i] = mangle.StringLiteral(v)
		h := mangle.FNV1a64(v)
		constNames[i] = mangle.Number(int64(h))
	}

	dataSymbols := collide.Campaign{
		Targets: addrdump.BySegment(addrs, addrdump.SegRData),
		Parts:   []parts.Part{parts.FromStrings(mangledLiterals...)},
	}
	builders := collide.Campaign{
		Targets: addrdump.BySegment(addrs, addrdump.SegCode),
		Parts: []parts.Part{
			parts.FromStrings("?Build@?$ConstNameBuilder@$0"),
			parts.FromStrings(constNames...),
			parts.FromStrings("@@SA?AVCName@@QEBD@Z"),
		},
	}
	registeredFlags := collide.Campaign{
		Targets: addrdump.BySegment(addrs, addrdump.SegData),
		Parts: []parts.Part{
			parts.FromStrings("?s_registered@?$ConstNameBuilder@$0"),
			parts.FromStrings(constNames...),
			parts.FromStrings("@@2_NA"),
		},
	}
	return []collide.Campaign{dataSymbols, builders, registeredFlags}
}

// Vftables searches for RTTI vftable symbols (`??_7<name>@@6B@`) restricted
// to the subset of addresses whose SHA-256 appears in vftableSHAs, the Go
// shape of collide.py's vftable_hashes() plus vftables(). dictionary
// supplies the candidate class-name wordlist (its casing is normalized the
// way collide.py's `v if v.isupper() else v.title()` does); namespaces
// supplies the trailing namespace alphabet (collide.py's data/ns.txt).
func Vftables(addrs []addrdump.Address, vftableSHAs map[target.Digest]bool, dictionary, namespaces []string) collide.Campaign {
	names := normalizeDictionary(dictionary)

	return collide.Campaign{
		Targets: filterByDigest(addrs, vftableSHAs),
		Parts: []parts.Part{
			parts.FromStrings("??_7"),
			parts.FromStrings("", "C", "I", "S"),
			parts.FromStrings(names...),
			parts.FromStrings(names...),
			parts.FromStrings(names...),
			parts.FromStrings(namespaces...),
			parts.FromStrings("@@6B@"),
		},
	}
}

// ClassFuncs builds the ten campaigns collide.py's class_funcs() derives
// from every already-known vftable name: constructors, destructors, the
// deleting destructor thunk, the vftable symbol itself restated, the RTTI
// type-hash accessor and its cached statics, and the RTTI type-object
// accessor and its cached statics, each over both the `U` (struct) and `V`
// (class) RTTI tags and (for ctor/dtor) the access-specifier alphabet.
func ClassFuncs(known *knownnames.Map, addrs []addrdump.Address) []collide.Campaign {
	classNames := classNamesFromVftables(known)
	dynArrays := make([]string, 0, 2*len(classNames))
	for _, c := range classNames {
		dynArrays = append(dynArrays, "?$DynArray@U"+c+"@@@red", "?$DynArray@V"+c+"@@@red")
	}
	allNames := append(append([]string{}, classNames...), dynArrays...)

	code := func(partsList ...parts.Part) collide.Campaign {
		return collide.Campaign{Targets: addrdump.BySegment(addrs, addrdump.SegCode), Parts: partsList}
	}
	data := func(partsList ...parts.Part) collide.Campaign {
		return collide.Campaign{Targets: addrdump.BySegment(addrs, addrdump.SegData), Parts: partsList}
	}

	return []collide.Campaign{
		code(parts.FromStrings("??0"), parts.FromStrings(allNames...), parts.FromStrings("@@"),
			parts.FromStrings("A", "I", "Q"), parts.FromStrings("EAA@XZ")),
		code(parts.FromStrings("??1"), parts.FromStrings(allNames...), parts.FromStrings("@@"),
			parts.FromStrings("A", "I", "Q", "E", "M", "U"), parts.FromStrings("EAA@XZ")),
		code(parts.FromStrings("??_G"), parts.FromStrings(allNames...), parts.FromStrings("@@"),
			parts.FromStrings("E", "M", "U"), parts.FromStrings("EAAPEAXI@Z")),
		code(parts.FromStrings("??_7"), parts.FromStrings(allNames...), parts.FromStrings("@@6B@")),
		code(parts.FromStrings("??$GetNativeTypeHash@"), parts.FromStrings("U", "V"),
			parts.FromStrings(allNames...), parts.FromStrings("@@@@YA_KXZ")),
		data(parts.FromStrings("?nativeTypeHash@?1???$GetNativeTypeHash@"), parts.FromStrings("U", "V"),
			parts.FromStrings(allNames...), parts.FromStrings("@@@@YA_KXZ@4IA")),
		data(parts.FromStrings("?$TSS0@?1???$GetNativeTypeHash@"), parts.FromStrings("U", "V"),
			parts.FromStrings(allNames...), parts.FromStrings("@@@@YA_KXZ@4HA")),
		code(parts.FromStrings("??$GetTypeObject@"), parts.FromStrings("U", "V"),
			parts.FromStrings(allNames...), parts.FromStrings("@@@@YAPEBVIType@rtti@@XZ")),
		data(parts.FromStrings("?rttiType@?1???$GetTypeObject@"), parts.FromStrings("U", "V"),
			parts.FromStrings(allNames...), parts.FromStrings("@@@@YAPEBVIType@rtti@@XZ@4PEBV12@EB")),
		data(parts.FromStrings("?$TSS0@?1???$GetTypeObject@"), parts.FromStrings("U", "V"),
			parts.FromStrings(allNames...), parts.FromStrings("@@@@YAPEBVIType@rtti@@XZ@4HA")),
	}
}

// classNamesFromVftables extracts the bare class name out of every known
// `??_7<name>@@6B@` vftable symbol, the Go shape of collide.py's
// `v[4:-5] for v in hasher.known.values() if v.startswith('??_7')`.
func classNamesFromVftables(known *knownnames.Map) []string {
	const prefix = "??_7"
	const suffix = "@@6B@"
	out := make(map[string]struct{})
	for _, v := range known.Values() {
		if strings.HasPrefix(v, prefix) && strings.HasSuffix(v, suffix) && len(v) > len(prefix)+len(suffix) {
			out[v[len(prefix):len(v)-len(suffix)]] = struct{}{}
		}
	}
	return setToSlice(out)
}

// normalizeDictionary title-cases every lower-case dictionary word and
// leaves already-uppercase acronyms alone, then appends the fixed
// identifier-character alphabet collide.py unions in for single-character
// namespace/class fragments.
func normalizeDictionary(words []string) []string {
	const chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_@"
	out := make([]string, 0, len(words)+len(chars))
	for _, w := range words {
		if w == strings.ToUpper(w) {
			out = append(out, w)
		} else {
			out = append(out, strings.Title(strings.ToLower(w)))
		}
	}
	for _, c := range chars {
		out = append(out, string(c))
	}
	return out
}

func filterByDigest(addrs []addrdump.Address, want map[target.Digest]bool) []target.Pair {
	var out []target.Pair
	for _, a := range addrs {
		if want[a.SHA] {
			out = append(out, target.Pair{Adler: a.Adler, SHA: a.SHA})
		}
	}
	return out
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}
