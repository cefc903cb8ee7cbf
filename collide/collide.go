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

// Package collide is the collision driver: it partitions a campaign's
// product across worker goroutines, runs the prefilter -> confirm pipeline
// per candidate, and merges per-worker results into one deduplicated set.
//
// The engine is stateless between calls to Run: nothing survives a
// cancelled or crashed campaign, per spec's restart-from-scratch contract.
package collide

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/symbolforge/collide2077/enumerate"
	"github.com/symbolforge/collide2077/parts"
	"github.com/symbolforge/collide2077/sha256x"
	"github.com/symbolforge/collide2077/target"
)

// Sentinel errors, matching spec.md's error-kind catalogue. Cancelled is
// reported via Result.Cancelled, not as an error: a cancelled campaign
// still returns a (partial) usable result, which a Go error return would
// make awkward to express without an accompanying value.
var (
	ErrInvalidConfiguration   = errors.New("collide: invalid configuration")
	ErrLookupCapacityExceeded = target.ErrLookupCapacityExceeded
	ErrWorkerFault            = errors.New("collide: worker fault")
)

// maxU32 is the 2^32 ceiling spec.md places on batch_size and lookup_size.
const maxU32 = 1 << 32

// Campaign is the immutable input to one Run: a target hash set, an ordered
// list of part alphabets, and the resource bounds that keep the engine's
// memory and parallelism independent of the product's cardinality.
type Campaign struct {
	Targets []target.Pair
	Parts   []parts.Part

	// NumThreads is the worker count; 0 selects runtime.NumCPU().
	NumThreads int
	// BatchSize bounds how many candidates one worker enumerates before
	// checking the cancellation flag.
	BatchSize uint64
	// LookupSize bounds how many (adler, sha) pairs may live in the target
	// index at once; a pledge the engine rejects campaigns for violating.
	LookupSize uint64
}

// Result is the outcome of a campaign: the set of confirmed strings
// (deduplicated by byte value) and whether the run was cut short by
// cancellation.
type Result struct {
	Strings   []string
	Cancelled bool
}

// validate checks Campaign fields against spec.md §7's InvalidConfiguration
// rule, before any worker starts.
func (c Campaign) validate() error {
	if c.BatchSize > maxU32 {
		return fmt.Errorf("%w: batch_size %d exceeds 2^32", ErrInvalidConfiguration, c.BatchSize)
	}
	if c.LookupSize > maxU32 {
		return fmt.Errorf("%w: lookup_size %d exceeds 2^32", ErrInvalidConfiguration, c.LookupSize)
	}
	if c.NumThreads < 0 {
		return fmt.Errorf("%w: num_threads %d is negative", ErrInvalidConfiguration, c.NumThreads)
	}
	return nil
}

func (c Campaign) batchSize() uint64 {
	if c.BatchSize == 0 {
		return 1 << 20
	}
	return c.BatchSize
}

func (c Campaign) lookupSize() uint64 {
	if c.LookupSize == 0 {
		return maxU32
	}
	return c.LookupSize
}

func (c Campaign) threads() int {
	if c.NumThreads > 0 {
		return c.NumThreads
	}
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes one campaign to completion (Phases 1-4 of spec.md §4.4) and
// returns the confirmed strings. ctx governs cooperative cancellation:
// workers observe ctx.Err() at batch boundaries and, on cancellation, flush
// their local buffers and return, yielding a partial Result with
// Cancelled=true and a nil error.
func Run(ctx context.Context, cfg Campaign) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	// Phase 1: Ingest. Empty product short-circuits before the index is
	// even built, per spec.md's empty-product rule (no worker is started).
	if parts.Cardinality(cfg.Parts) == 0 {
		return Result{}, nil
	}

	idx, err := target.New(cfg.Targets, cfg.lookupSize())
	if err != nil {
		return Result{}, err
	}
	if idx.Len() == 0 {
		return Result{}, nil
	}

	// Phase 2: Plan.
	numWorkers := cfg.threads()
	outerRadix := len(cfg.Parts[0])
	if numWorkers > outerRadix {
		numWorkers = outerRadix
	}
	batchSize := cfg.batchSize()

	// Phase 3: Search.
	resultsPerWorker := make([][]string, numWorkers)
	group, gctx := errgroup.WithContext(ctx)

	for w := 0; w < numWorkers; w++ {
		w := w
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", ErrWorkerFault, r)
				}
			}()

			rng := enumerate.Partition(outerRadix, numWorkers, w)
			enumerator := enumerate.NewRange(cfg.Parts, rng)

			var local []string
			var sinceBatch uint64

			enumerator.Walk(func(c enumerate.Candidate) bool {
				shas, ok := idx.Lookup(c.Adler)
				if ok {
					if sha := confirm(c.Bytes, shas); sha != nil {
						s := make([]byte, len(c.Bytes))
						copy(s, c.Bytes)
						local = append(local, string(s))
					}
				}

				sinceBatch++
				if sinceBatch >= batchSize {
					sinceBatch = 0
					if gctx.Err() != nil {
						return false
					}
				}
				return true
			})

			resultsPerWorker[w] = local
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if errors.Is(err, ErrWorkerFault) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", ErrWorkerFault, err)
	}

	// Phase 4: Collect.
	seen := make(map[string]struct{})
	var merged []string
	for _, local := range resultsPerWorker {
		for _, s := range local {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			merged = append(merged, s)
		}
	}

	return Result{Strings: merged, Cancelled: ctx.Err() != nil}, nil
}

// confirm computes sha256(bytes) and returns a pointer to the matching
// target digest if any of shas matches, or nil on a prefilter-only hit
// (Adler-32 collision without a SHA-256 match).
func confirm(bytes []byte, shas []target.Digest) *target.Digest {
	digest, err := sha256x.HashBytes(bytes)
	if err != nil {
		return nil
	}
	var got target.Digest
	copy(got[:], digest.Bytes())
	for i := range shas {
		if shas[i] == got {
			return &shas[i]
		}
	}
	return nil
}
