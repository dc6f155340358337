// Package config loads heroglyph's configuration with Viper from
// .heroglyph.yml, HEROGLYPH_* environment variables and command-line flags.
//
// Every key has a default, so a project without a config file builds with
// the standard layout: icons under ../deps/heroicons/optimized, content
// scanned from ./js and ../lib, and output into ../priv/static/assets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/heroglyph/internal/bundler"
	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/icons"
	"github.com/conneroisu/heroglyph/internal/logging"
	"github.com/conneroisu/heroglyph/internal/theme"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HEROGLYPH"
	// EnvConfigFile names an alternative config file.
	EnvConfigFile = "HEROGLYPH_CONFIG_FILE"
	// DefaultConfigName is the config file looked up in the working directory.
	DefaultConfigName = ".heroglyph"
)

type Config struct {
	Icons   IconsConfig   `yaml:"icons" mapstructure:"icons"`
	CSS     CSSConfig     `yaml:"css" mapstructure:"css"`
	Theme   ThemeConfig   `yaml:"theme" mapstructure:"theme"`
	Bundler BundlerConfig `yaml:"bundler" mapstructure:"bundler"`
	Hooks   HooksConfig   `yaml:"hooks" mapstructure:"hooks"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

type IconsConfig struct {
	// RootPath is the icon tree to scan.
	RootPath string          `yaml:"root_path" mapstructure:"root_path"`
	Prefix   string          `yaml:"prefix" mapstructure:"prefix"`
	Variants []VariantConfig `yaml:"variants" mapstructure:"variants"`
}

type VariantConfig struct {
	Suffix  string `yaml:"suffix" mapstructure:"suffix"`
	Path    string `yaml:"path" mapstructure:"path"`
	Variant string `yaml:"variant" mapstructure:"variant"`
}

type CSSConfig struct {
	Content         []string `yaml:"content" mapstructure:"content"`
	Output          string   `yaml:"output" mapstructure:"output"`
	LoadingVariants []string `yaml:"loading_variants" mapstructure:"loading_variants"`
	EmitPalette     bool     `yaml:"emit_palette" mapstructure:"emit_palette"`
}

type ThemeConfig struct {
	File    string            `yaml:"file,omitempty" mapstructure:"file"`
	Colors  map[string]string `yaml:"colors,omitempty" mapstructure:"colors"`
	Spacing map[string]string `yaml:"spacing,omitempty" mapstructure:"spacing"`
}

type BundlerConfig struct {
	EntryPoints []string          `yaml:"entry_points" mapstructure:"entry_points"`
	Outdir      string            `yaml:"outdir" mapstructure:"outdir"`
	Target      string            `yaml:"target" mapstructure:"target"`
	External    []string          `yaml:"external" mapstructure:"external"`
	Bundle      bool              `yaml:"bundle" mapstructure:"bundle"`
	Deploy      bool              `yaml:"deploy" mapstructure:"deploy"`
	Loader      map[string]string `yaml:"loader,omitempty" mapstructure:"loader"`
	LogLevel    string            `yaml:"log_level" mapstructure:"log_level"`
}

type HooksConfig struct {
	FlashDelay      time.Duration `yaml:"flash_delay" mapstructure:"flash_delay"`
	FlashTransition time.Duration `yaml:"flash_transition" mapstructure:"flash_transition"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SetDefaults registers the default value of every key. Keys must be known to
// Viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	variants := make([]map[string]interface{}, 0, 4)
	for _, d := range icons.DefaultVariantDirs() {
		variants = append(variants, map[string]interface{}{
			"suffix": d.Suffix, "path": d.Path, "variant": d.Variant.String(),
		})
	}
	b := bundler.DefaultOptions()

	v.SetDefault("icons.root_path", "../deps/heroicons/optimized")
	v.SetDefault("icons.prefix", icons.DefaultPrefix)
	v.SetDefault("icons.variants", variants)

	v.SetDefault("css.content", []string{"./js/**/*.js", "../lib/**/*.*ex"})
	v.SetDefault("css.output", "../priv/static/assets/app.css")
	v.SetDefault("css.loading_variants", []string{"phx-click-loading", "phx-submit-loading", "phx-change-loading"})
	v.SetDefault("css.emit_palette", true)

	v.SetDefault("theme.file", "")
	v.SetDefault("theme.colors", map[string]string{})
	v.SetDefault("theme.spacing", map[string]string{})

	v.SetDefault("bundler.entry_points", b.EntryPoints)
	v.SetDefault("bundler.outdir", b.Outdir)
	v.SetDefault("bundler.target", b.Target)
	v.SetDefault("bundler.external", b.External)
	v.SetDefault("bundler.bundle", b.Bundle)
	v.SetDefault("bundler.deploy", false)
	v.SetDefault("bundler.loader", map[string]string{})
	v.SetDefault("bundler.log_level", b.LogLevel)

	v.SetDefault("hooks.flash_delay", "5s")
	v.SetDefault("hooks.flash_transition", "300ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// NewViper returns a Viper instance with defaults and environment binding,
// pointed at the config file to use. Priority: configFile argument, then
// HEROGLYPH_CONFIG_FILE, then .heroglyph.yml in searchDirs (the working
// directory when none are given).
func NewViper(configFile string, searchDirs ...string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	switch {
	case configFile != "":
		v.SetConfigFile(configFile)
	case os.Getenv(EnvConfigFile) != "":
		v.SetConfigFile(os.Getenv(EnvConfigFile))
	default:
		if len(searchDirs) == 0 {
			searchDirs = []string{"."}
		}
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(DefaultConfigName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadConfig reads the config file. A missing default file is not an error;
// a missing explicitly named file is.
func ReadConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return herrors.NewConfigError(herrors.ErrCodeConfigInvalid, "cannot read config file: "+err.Error()).
		WithPath(v.ConfigFileUsed())
}

// LoadDotEnv loads environment files that exist, without overriding
// variables already set. With no arguments it loads ./.env.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return herrors.NewConfigError(herrors.ErrCodeConfigInvalid, "cannot load env file: "+err.Error())
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, herrors.NewConfigError(herrors.ErrCodeConfigInvalid, "cannot decode configuration: "+err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a build.
func (c *Config) Validate() error {
	if c.Icons.Prefix == "" {
		return invalid("icons.prefix must not be empty")
	}
	if _, err := c.VariantDirs(); err != nil {
		return err
	}
	if c.CSS.Output == "" {
		return invalid("css.output must be set")
	}
	if len(c.CSS.Content) == 0 {
		return invalid("css.content needs at least one glob")
	}
	for _, lv := range c.CSS.LoadingVariants {
		if lv == "" || strings.ContainsAny(lv, " .:&") {
			return invalid(fmt.Sprintf("css.loading_variants: %q is not a class name", lv))
		}
	}
	if c.Hooks.FlashDelay < 0 || c.Hooks.FlashTransition < 0 {
		return invalid("hooks durations must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: " + err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid(fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	return c.BundlerOptions().Validate()
}

// VariantDirs converts the configured variant list. Suffixes must be unique
// and the list keeps its order, which decides first-seen-wins collisions.
func (c *Config) VariantDirs() ([]icons.VariantDir, error) {
	if len(c.Icons.Variants) == 0 {
		return nil, invalid("icons.variants must list at least one directory")
	}
	seen := make(map[string]bool, len(c.Icons.Variants))
	dirs := make([]icons.VariantDir, 0, len(c.Icons.Variants))
	for _, vc := range c.Icons.Variants {
		variant, err := icons.ParseVariant(vc.Variant)
		if err != nil {
			return nil, invalid("icons.variants: " + err.Error())
		}
		if vc.Path == "" {
			return nil, invalid(fmt.Sprintf("icons.variants: %s has no path", vc.Variant))
		}
		if seen[vc.Suffix] {
			return nil, invalid(fmt.Sprintf("icons.variants: duplicate suffix %q", vc.Suffix))
		}
		seen[vc.Suffix] = true
		dirs = append(dirs, icons.VariantDir{Suffix: vc.Suffix, Path: vc.Path, Variant: variant})
	}
	return dirs, nil
}

// BundlerOptions converts the bundler section.
func (c *Config) BundlerOptions() bundler.Options {
	return bundler.Options{
		EntryPoints: c.Bundler.EntryPoints,
		Outdir:      c.Bundler.Outdir,
		Target:      c.Bundler.Target,
		External:    c.Bundler.External,
		Bundle:      c.Bundler.Bundle,
		Minify:      c.Bundler.Deploy,
		Loader:      c.Bundler.Loader,
		LogLevel:    c.Bundler.LogLevel,
	}
}

// LoadTheme builds the theme: defaults, then inline overrides, then the
// theme file if one is set.
func (c *Config) LoadTheme(baseDir string) (*theme.Theme, error) {
	overrides := theme.Overrides{Colors: c.Theme.Colors, Spacing: c.Theme.Spacing}
	if file := c.Theme.File; file != "" {
		if !filepath.IsAbs(file) && baseDir != "" {
			file = filepath.Join(baseDir, file)
		}
		return theme.LoadFile(file, overrides)
	}
	return theme.New(overrides)
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func invalid(msg string) error {
	return herrors.NewConfigError(herrors.ErrCodeConfigInvalid, msg)
}
