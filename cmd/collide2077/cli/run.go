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

package cli

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/symbolforge/collide2077/addrdump"
	"github.com/symbolforge/collide2077/collide"
	"github.com/symbolforge/collide2077/config"
	"github.com/symbolforge/collide2077/knownnames"
	"github.com/symbolforge/collide2077/recipes"
	"github.com/symbolforge/collide2077/target"
)

func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one recipe's campaign(s) against an address dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaign(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a campaign config YAML file")
	cmd.MarkFlagRequired("config")

	return cmd
}

func runCampaign(ctx context.Context, configPath string) error {
	log := logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	addrs, err := addrdump.Load(cfg.AddressDump)
	if err != nil {
		return err
	}
	known, err := knownnames.Load(cfg.KnownNames)
	if err != nil {
		return err
	}

	campaigns, err := buildCampaigns(cfg, known, addrs)
	if err != nil {
		return err
	}

	log.Info("starting campaign", slog.String("recipe", string(cfg.Recipe)), slog.Int("stages", len(campaigns)))

	var allResults []string
	for i, campaign := range campaigns {
		campaign.NumThreads = cfg.NumThreads
		campaign.BatchSize = cfg.BatchSize
		campaign.LookupSize = cfg.LookupSize

		// Known names already recovered are excluded before the index is
		// built, the caller-side step spec.md §4.5 requires.
		campaign.Targets = known.Filter(campaign.Targets)

		start := time.Now()
		result, err := collide.Run(ctx, campaign)
		if err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}

		log.Info("stage complete",
			slog.Int("stage", i),
			slog.Int("found", len(result.Strings)),
			slog.Bool("cancelled", result.Cancelled),
			slog.Duration("elapsed", time.Since(start)))

		allResults = append(allResults, result.Strings...)
		if result.Cancelled {
			break
		}
	}

	if err := known.Record(allResults); err != nil {
		return err
	}
	if err := known.Save(cfg.KnownNames); err != nil {
		return err
	}

	for _, s := range allResults {
		fmt.Println(s)
	}
	return nil
}

// buildCampaigns dispatches to the recipes package by name, loading
// whatever recipe-specific inputs the chosen recipe needs.
func buildCampaigns(cfg config.Config, known *knownnames.Map, addrs []addrdump.Address) ([]collide.Campaign, error) {
	switch cfg.Recipe {
	case config.RecipeDynamicCtorDtors:
		return []collide.Campaign{recipes.DynamicCtorDtors(known, addrs)}, nil

	case config.RecipeUnwinds:
		return []collide.Campaign{recipes.Unwinds(known, addrs)}, nil

	case config.RecipeStrLits:
		literals, err := loadLines(cfg.StringLiterals)
		if err != nil {
			return nil, err
		}
		byteLiterals := make([][]byte, len(literals))
		for i, v := range literals {
			byteLiterals[i] = []byte(v)
		}
		return recipes.StrLits(addrs, byteLiterals), nil

	case config.RecipeVftables:
		hashes, err := loadHashSet(cfg.VftableHashes)
		if err != nil {
			return nil, err
		}
		dictionary, err := loadLines(cfg.Dictionary)
		if err != nil {
			return nil, err
		}
		namespaces, err := loadLines(cfg.Namespaces)
		if err != nil {
			return nil, err
		}
		return []collide.Campaign{recipes.Vftables(addrs, hashes, dictionary, namespaces)}, nil

	case config.RecipeClassFuncs:
		return recipes.ClassFuncs(known, addrs), nil

	default:
		return nil, fmt.Errorf("unknown recipe %q", cfg.Recipe)
	}
}

func loadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func loadHashSet(path string) (map[target.Digest]bool, error) {
	lines, err := loadLines(path)
	if err != nil {
		return nil, err
	}
	out := make(map[target.Digest]bool, len(lines))
	for _, line := range lines {
		raw, err := hex.DecodeString(line)
		if err != nil || len(raw) != 32 {
			return nil, fmt.Errorf("invalid sha256 %q in %s", line, path)
		}
		var d target.Digest
		copy(d[:], raw)
		out[d] = true
	}
	return out, nil
}
