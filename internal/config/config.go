// Package config finds and decodes the vipyrdocs settings file.
//
// Supported sources, checked in every directory from the target upwards:
//
//	vipyrdocs.toml
//	.vipyrdocs.yaml / .vipyrdocs.yml
//	pyproject.toml with a [tool.vipyrdocs] table
package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/lint"
	"vipyrdocs/internal/rules"
)

// ErrNotFound is returned by Find when no settings file exists up to the
// filesystem root.
var ErrNotFound = errors.New("no vipyrdocs configuration found")

// Config is the resolved configuration: defaults overlaid with the file.
type Config struct {
	// Path is the file the values came from; "" when defaults are used.
	Path string

	Disabled      map[diag.Code]bool
	Exclude       []string
	SkipPrivate   bool
	SkipTests     bool
	SkipOverloads bool
	Jobs          int
	MoreInfoBase  string
	Cache         bool
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Disabled:      map[diag.Code]bool{},
		SkipPrivate:   true,
		SkipTests:     true,
		SkipOverloads: true,
		MoreInfoBase:  diag.DefaultMoreInfoBase,
	}
}

// fileConfig - то, что лежит в файле. Указатели отличают «не задано» от false/0.
type fileConfig struct {
	Disable       []string `toml:"disable" yaml:"disable"`
	Exclude       []string `toml:"exclude" yaml:"exclude"`
	SkipPrivate   *bool    `toml:"skip_private" yaml:"skip_private"`
	SkipTests     *bool    `toml:"skip_tests" yaml:"skip_tests"`
	SkipOverloads *bool    `toml:"skip_overloads" yaml:"skip_overloads"`
	Jobs          *int     `toml:"jobs" yaml:"jobs"`
	MoreInfoBase  *string  `toml:"more_info_base" yaml:"more_info_base"`
	Cache         *bool    `toml:"cache" yaml:"cache"`
}

// resolve overlays fc on the defaults and validates it.
func (fc *fileConfig) resolve(src string) (Config, error) {
	cfg := Default()
	cfg.Path = src

	for _, id := range fc.Disable {
		code, ok := diag.ParseCode(id)
		if !ok {
			return Config{}, fmt.Errorf("%s: disable: unknown rule %q", src, id)
		}
		cfg.Disabled[code] = true
	}
	for _, pattern := range fc.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return Config{}, fmt.Errorf("%s: exclude: bad pattern %q: %w", src, pattern, err)
		}
	}
	cfg.Exclude = append(cfg.Exclude, fc.Exclude...)

	if fc.SkipPrivate != nil {
		cfg.SkipPrivate = *fc.SkipPrivate
	}
	if fc.SkipTests != nil {
		cfg.SkipTests = *fc.SkipTests
	}
	if fc.SkipOverloads != nil {
		cfg.SkipOverloads = *fc.SkipOverloads
	}
	if fc.Jobs != nil {
		if *fc.Jobs < 0 {
			return Config{}, fmt.Errorf("%s: jobs must be >= 0, got %d", src, *fc.Jobs)
		}
		cfg.Jobs = *fc.Jobs
	}
	if fc.MoreInfoBase != nil {
		base := strings.TrimSpace(*fc.MoreInfoBase)
		if base == "" {
			return Config{}, fmt.Errorf("%s: more_info_base must not be empty", src)
		}
		cfg.MoreInfoBase = base
	}
	if fc.Cache != nil {
		cfg.Cache = *fc.Cache
	}
	return cfg, nil
}

// LintOptions converts the settings into linter options.
func (c *Config) LintOptions() lint.Options {
	disabled := make(map[diag.Code]bool, len(c.Disabled))
	for code, off := range c.Disabled {
		disabled[code] = off
	}
	return lint.Options{
		Rules: rules.Options{
			Disabled:     disabled,
			MoreInfoBase: c.MoreInfoBase,
		},
		SkipOverloads: c.SkipOverloads,
		SkipTests:     c.SkipTests,
		SkipPrivate:   c.SkipPrivate,
	}
}

// DisableIDs adds rule IDs (or names) from the command line.
func (c *Config) DisableIDs(ids []string) error {
	if c.Disabled == nil {
		c.Disabled = map[diag.Code]bool{}
	}
	for _, raw := range ids {
		for id := range strings.SplitSeq(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			code, ok := diag.ParseCode(id)
			if !ok {
				return fmt.Errorf("unknown rule %q", id)
			}
			c.Disabled[code] = true
		}
	}
	return nil
}
