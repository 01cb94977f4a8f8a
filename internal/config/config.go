// Package config loads CLI configuration from TOML or YAML files, layered
// over built-in defaults and under command-line overrides.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Definitions is a directory of table definition files.
	Definitions string `koanf:"definitions"`
	// Templates overrides the vanilla renderer templates directory.
	Templates string `koanf:"templates"`
	// Presets is a JSON preset transformer document.
	Presets    string `koanf:"presets"`
	Renderer   string `koanf:"renderer"`
	Stylesheet bool   `koanf:"stylesheet"`

	Theme  Selection        `koanf:"theme"`
	Themes map[string]Theme `koanf:"themes"`

	Log Log `koanf:"log"`
}

// Log configures CLI logging. Level is used when no -v flag is given.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Selection names the default theme and variant.
type Selection struct {
	Name    string `koanf:"name"`
	Variant string `koanf:"variant"`
}

// Theme mirrors theme.Manifest. Token, template and asset keys may be written
// nested ("table: {class: x}") or dotted; both flatten to "table.class".
type Theme struct {
	Version   string             `koanf:"version"`
	Tokens    map[string]any     `koanf:"tokens"`
	Templates map[string]any     `koanf:"templates"`
	Assets    Assets             `koanf:"assets"`
	Variants  map[string]Variant `koanf:"variants"`
}

type Variant struct {
	Tokens    map[string]any `koanf:"tokens"`
	Templates map[string]any `koanf:"templates"`
	Assets    Assets         `koanf:"assets"`
}

type Assets struct {
	Prefix string         `koanf:"prefix"`
	Files  map[string]any `koanf:"files"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"renderer":   "markup",
		"stylesheet": false,
		"log.format": "console",
	}
}

// Load layers defaults, the optional file at path and overrides. Override
// keys use "." as the delimiter ("theme.name").
func Load(path string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return Config{}, errs.Wrap(err, errs.CodeConfig, "config: load defaults")
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, errs.Wrapf(err, errs.CodeConfig, "config: load %s", path).WithDetail("path", path)
		}
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(dropEmpty(overrides), "."), nil); err != nil {
			return Config{}, errs.Wrap(err, errs.CodeConfig, "config: apply overrides")
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, errs.Wrap(err, errs.CodeConfig, "config: decode")
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errs.Newf(errs.CodeConfig, "config: unsupported config format %q", filepath.Ext(path)).WithDetail("path", path)
	}
}

// dropEmpty skips zero-value overrides so unset flags do not mask the file.
func dropEmpty(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch value := v.(type) {
		case nil:
			continue
		case string:
			if value == "" {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Manifests converts the configured themes into go-theme manifests, sorted
// by name.
func (c Config) Manifests() []*theme.Manifest {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*theme.Manifest, 0, len(names))
	for _, name := range names {
		t := c.Themes[name]
		manifest := &theme.Manifest{
			Name:      name,
			Version:   t.Version,
			Tokens:    flatten(t.Tokens),
			Templates: flatten(t.Templates),
			Assets: theme.Assets{
				Prefix: t.Assets.Prefix,
				Files:  flatten(t.Assets.Files),
			},
		}
		if len(t.Variants) > 0 {
			manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
			for vname, v := range t.Variants {
				manifest.Variants[vname] = theme.Variant{
					Tokens:    flatten(v.Tokens),
					Templates: flatten(v.Templates),
					Assets: theme.Assets{
						Prefix: v.Assets.Prefix,
						Files:  flatten(v.Assets.Files),
					},
				}
			}
		}
		out = append(out, manifest)
	}
	return out
}

func flatten(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	flat, _ := maps.Flatten(in, nil, ".")
	out := make(map[string]string, len(flat))
	for k, v := range flat {
		out[k] = fmt.Sprint(v)
	}
	return out
}
