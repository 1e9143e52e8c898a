// Package config handles loading, validating, and resolving BadgeSort run
// options from a config file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chipwolf/badgesort/internal/badge"
	"github.com/chipwolf/badgesort/internal/markup"
	"github.com/chipwolf/badgesort/internal/order"
)

// EnvPrefix namespaces environment overrides, e.g. BADGESORT_COLOR_SORT.
const EnvPrefix = "BADGESORT"

// Options is the resolved configuration for one badge generation run.
type Options struct {
	Slugs         []string `yaml:"slugs"           mapstructure:"slugs"`
	Random        int      `yaml:"random"          mapstructure:"random"`
	ColorSort     string   `yaml:"color-sort"      mapstructure:"color-sort"`
	Format        string   `yaml:"format"          mapstructure:"format"`
	Output        string   `yaml:"output"          mapstructure:"output"`
	ID            string   `yaml:"id"              mapstructure:"id"`
	BadgeStyle    string   `yaml:"badge-style"     mapstructure:"badge-style"`
	HueRotate     int      `yaml:"hue-rotate"      mapstructure:"hue-rotate"`
	Reverse       bool     `yaml:"reverse"         mapstructure:"reverse"`
	Thanks        bool     `yaml:"thanks"          mapstructure:"thanks"`
	Verify        bool     `yaml:"verify"          mapstructure:"verify"`
	Provider      string   `yaml:"provider"        mapstructure:"provider"`
	EmbedSVG      bool     `yaml:"embed-svg"       mapstructure:"embed-svg"`
	SkipLogoCheck bool     `yaml:"skip-logo-check" mapstructure:"skip-logo-check"`
	MaxURLLength  int      `yaml:"max-url-length"  mapstructure:"max-url-length"`
	Minify        bool     `yaml:"minify"          mapstructure:"minify"`
	Inline        bool     `yaml:"inline"          mapstructure:"inline"`
	Icons         string   `yaml:"icons"           mapstructure:"icons"`
	IconsVersion  string   `yaml:"icons-version"   mapstructure:"icons-version"`
	Offline       bool     `yaml:"offline"         mapstructure:"offline"`
	CacheDir      string   `yaml:"cache-dir"       mapstructure:"cache-dir"`
	LogLevel      string   `yaml:"log-level"       mapstructure:"log-level"`
}

// Default returns Options populated with the command's defaults.
func Default() *Options {
	return &Options{
		ColorSort:    order.Hilbert.String(),
		Format:       string(markup.Markdown),
		ID:           "default",
		BadgeStyle:   "for-the-badge",
		Thanks:       true,
		Provider:     string(badge.Shields),
		MaxURLLength: badge.DefaultMaxURLLength,
		IconsVersion: "latest",
		LogLevel:     "info",
	}
}

// keys returns every option key with its default value.
func (o *Options) keys() map[string]any {
	return map[string]any{
		"slugs":           append([]string{}, o.Slugs...),
		"random":          o.Random,
		"color-sort":      o.ColorSort,
		"format":          o.Format,
		"output":          o.Output,
		"id":              o.ID,
		"badge-style":     o.BadgeStyle,
		"hue-rotate":      o.HueRotate,
		"reverse":         o.Reverse,
		"thanks":          o.Thanks,
		"verify":          o.Verify,
		"provider":        o.Provider,
		"embed-svg":       o.EmbedSVG,
		"skip-logo-check": o.SkipLogoCheck,
		"max-url-length":  o.MaxURLLength,
		"minify":          o.Minify,
		"inline":          o.Inline,
		"icons":           o.Icons,
		"icons-version":   o.IconsVersion,
		"offline":         o.Offline,
		"cache-dir":       o.CacheDir,
		"log-level":       o.LogLevel,
	}
}

// Load resolves Options. Defaults come first, then the config file at
// configPath (YAML or TOML, skipped when empty), then BADGESORT_*
// environment variables, then any flag in flags the user actually set.
// A changed --no-thanks flag turns the self-promotion badge off.
func Load(configPath string, flags *pflag.FlagSet) (*Options, error) {
	cfg := Default()

	v := viper.New()
	for key, val := range cfg.keys() {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		// Determine format from extension.
		switch strings.TrimPrefix(filepath.Ext(configPath), ".") {
		case "toml":
			v.SetConfigType("toml")
		default:
			v.SetConfigType("yaml")
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for key := range cfg.keys() {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if flags != nil {
		if f := flags.Lookup("no-thanks"); f != nil && f.Changed && f.Value.String() == "true" {
			cfg.Thanks = false
		}
	}
	cfg.Slugs = splitSlugs(cfg.Slugs)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// splitSlugs flattens comma and whitespace separated entries.
func splitSlugs(in []string) []string {
	var out []string
	for _, s := range in {
		out = append(out, strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})...)
	}
	return out
}

// Validate checks option values that can be rejected before any work is done.
// All problems are reported together.
func (o *Options) Validate() error {
	var errs []error
	if _, err := markup.ParseFormat(o.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := badge.ParseProvider(o.Provider); err != nil {
		errs = append(errs, err)
	}
	if _, err := order.ParseStrategy(o.ColorSort); err != nil {
		errs = append(errs, err)
	}
	if o.MaxURLLength <= 0 {
		errs = append(errs, fmt.Errorf("max-url-length must be positive (got %d)", o.MaxURLLength))
	}
	if strings.TrimSpace(o.ID) == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	return errors.Join(errs...)
}
