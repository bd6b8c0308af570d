// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the typed runtime configuration. Every setting
// is an explicit named field; there is no generic key-value bag.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/poiesic/clipkeep/history"
	"github.com/poiesic/clipkeep/search"
)

// Config holds the runtime configuration of the history core.
type Config struct {
	// MaxHistorySize caps the number of unpinned entries kept.
	// Default: 200
	MaxHistorySize int `toml:"max_history_size"`

	// SearchMode selects the query matching strategy.
	// One of "mixed", "exact", "fuzzy", "regexp". Default: "mixed"
	SearchMode string `toml:"search_mode"`

	// SortBy selects the history ordering.
	// One of "lastCopiedAt", "firstCopiedAt", "numberOfCopies".
	// Default: "lastCopiedAt"
	SortBy string `toml:"sort_by"`

	// PinPlacement places pinned entries at the "top" or "bottom".
	// Default: "top"
	PinPlacement string `toml:"pin_placement"`

	// RemoveFormattingByDefault strips rich-text formatting on default
	// selections.
	RemoveFormattingByDefault bool `toml:"remove_formatting_by_default"`

	// PasteByDefault makes a plain selection paste as well as copy.
	PasteByDefault bool `toml:"paste_by_default"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMaxHistorySize sets the unpinned history capacity.
func WithMaxHistorySize(size int) ConfigOption {
	return func(c *Config) {
		c.MaxHistorySize = size
	}
}

// WithSearchMode sets the query matching strategy name.
func WithSearchMode(mode string) ConfigOption {
	return func(c *Config) {
		c.SearchMode = mode
	}
}

// WithSortBy sets the history ordering name.
func WithSortBy(sortBy string) ConfigOption {
	return func(c *Config) {
		c.SortBy = sortBy
	}
}

// WithPinPlacement sets where pinned entries appear.
func WithPinPlacement(placement string) ConfigOption {
	return func(c *Config) {
		c.PinPlacement = placement
	}
}

// WithRemoveFormattingByDefault strips formatting on default selections.
func WithRemoveFormattingByDefault(remove bool) ConfigOption {
	return func(c *Config) {
		c.RemoveFormattingByDefault = remove
	}
}

// WithPasteByDefault makes default selections paste.
func WithPasteByDefault(paste bool) ConfigOption {
	return func(c *Config) {
		c.PasteByDefault = paste
	}
}

// DefaultConfig returns a Config with the stock defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxHistorySize: 200,
		SearchMode:     search.ModeMixed.String(),
		SortBy:         history.SortByLastCopied.String(),
		PinPlacement:   history.PinsTop.String(),
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads a TOML configuration file over the defaults and validates
// the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.MaxHistorySize < 1 {
		return fmt.Errorf("config: MaxHistorySize must be at least 1, got %d", c.MaxHistorySize)
	}
	if _, err := search.ParseMode(c.SearchMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := history.ParseSortBy(c.SortBy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := history.ParsePinPlacement(c.PinPlacement); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Mode returns the parsed search mode. Call Validate first.
func (c *Config) Mode() search.Mode {
	mode, _ := search.ParseMode(c.SearchMode)
	return mode
}

// Criteria returns the parsed sort criteria. Call Validate first.
func (c *Config) Criteria() history.SortCriteria {
	sortBy, _ := history.ParseSortBy(c.SortBy)
	placement, _ := history.ParsePinPlacement(c.PinPlacement)
	return history.SortCriteria{By: sortBy, PinPlacement: placement}
}
