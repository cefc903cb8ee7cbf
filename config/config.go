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

// Package config loads a campaign's on-disk description: which recipe to
// run, where its address dump and known-names file live, and the resource
// bounds to hand to collide.Run. A Campaign is small and easy to hand-edit,
// so it is kept as YAML rather than a flag/env pile.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Recipe names one of the recipes package's campaign builders.
type Recipe string

const (
	RecipeDynamicCtorDtors Recipe = "dynamic-ctor-dtors"
	RecipeUnwinds          Recipe = "unwinds"
	RecipeStrLits          Recipe = "strlits"
	RecipeVftables         Recipe = "vftables"
	RecipeClassFuncs       Recipe = "class-funcs"
)

// Config is the on-disk shape of one run's settings.
type Config struct {
	Recipe Recipe `yaml:"recipe"`

	// AddressDump points at the JSON document addrdump.Load reads.
	AddressDump string `yaml:"address_dump"`
	// KnownNames points at the file knownnames.Load/Save round-trips.
	KnownNames string `yaml:"known_names"`
	// VftableHashes, Dictionary, and Namespaces feed the vftables recipe;
	// StringLiterals feeds strlits. Unused by other recipes.
	VftableHashes  string   `yaml:"vftable_hashes,omitempty"`
	Dictionary     string   `yaml:"dictionary,omitempty"`
	Namespaces     string   `yaml:"namespaces,omitempty"`
	StringLiterals string   `yaml:"string_literals,omitempty"`

	NumThreads int    `yaml:"num_threads,omitempty"`
	BatchSize  uint64 `yaml:"batch_size,omitempty"`
	LookupSize uint64 `yaml:"lookup_size,omitempty"`
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Recipe {
	case RecipeDynamicCtorDtors, RecipeUnwinds, RecipeStrLits, RecipeVftables, RecipeClassFuncs:
	default:
		return fmt.Errorf("unknown recipe %q", c.Recipe)
	}
	if c.AddressDump == "" {
		return fmt.Errorf("address_dump is required")
	}
	if c.KnownNames == "" {
		return fmt.Errorf("known_names is required")
	}
	return nil
}
