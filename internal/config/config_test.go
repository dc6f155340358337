package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/icons"
)

func defaultViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(defaultViper())
	require.NoError(t, err)

	assert.Equal(t, "../deps/heroicons/optimized", cfg.Icons.RootPath)
	assert.Equal(t, "hero-", cfg.Icons.Prefix)
	assert.Equal(t, []string{"./js/**/*.js", "../lib/**/*.*ex"}, cfg.CSS.Content)
	assert.Equal(t, []string{"phx-click-loading", "phx-submit-loading", "phx-change-loading"}, cfg.CSS.LoadingVariants)
	assert.True(t, cfg.CSS.EmitPalette)
	assert.Equal(t, []string{"js/app.js"}, cfg.Bundler.EntryPoints)
	assert.Equal(t, "../priv/static/assets", cfg.Bundler.Outdir)
	assert.Equal(t, "es2017", cfg.Bundler.Target)
	assert.Equal(t, []string{"*.css", "fonts/*", "images/*"}, cfg.Bundler.External)
	assert.True(t, cfg.Bundler.Bundle)
	assert.False(t, cfg.Bundler.Deploy)
	assert.Equal(t, 5*time.Second, cfg.Hooks.FlashDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Hooks.FlashTransition)
	assert.Equal(t, "info", cfg.Log.Level)

	dirs, err := cfg.VariantDirs()
	require.NoError(t, err)
	assert.Equal(t, icons.DefaultVariantDirs(), dirs)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
icons:
  root_path: ./icons
  prefix: icon-
  variants:
    - {suffix: "", path: outline, variant: outline}
    - {suffix: "-solid", path: solid, variant: solid}
css:
  content: ["./templates/**/*.html"]
  emit_palette: false
bundler:
  deploy: true
  loader: {".svg": "file"}
hooks:
  flash_delay: 2s
`), 0o644))

	v := NewViper(path)
	require.NoError(t, ReadConfig(v))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "./icons", cfg.Icons.RootPath)
	assert.Equal(t, "icon-", cfg.Icons.Prefix)
	assert.Equal(t, []string{"./templates/**/*.html"}, cfg.CSS.Content)
	assert.False(t, cfg.CSS.EmitPalette)
	assert.Equal(t, 2*time.Second, cfg.Hooks.FlashDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Hooks.FlashTransition, "unset keys keep defaults")

	dirs, err := cfg.VariantDirs()
	require.NoError(t, err)
	assert.Equal(t, []icons.VariantDir{
		{Suffix: "", Path: "outline", Variant: icons.Outline},
		{Suffix: "-solid", Path: "solid", Variant: icons.Solid},
	}, dirs)

	opts, err := cfg.BundlerOptions().BuildOptions()
	require.NoError(t, err)
	assert.True(t, opts.MinifyWhitespace)
	assert.Equal(t, api.LoaderFile, opts.Loader[".svg"])
}

func TestConfigFilePriority(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "env.yml")
	flagFile := filepath.Join(dir, "flag.yml")
	require.NoError(t, os.WriteFile(envFile, []byte("icons:\n  prefix: env-\n"), 0o644))
	require.NoError(t, os.WriteFile(flagFile, []byte("icons:\n  prefix: flag-\n"), 0o644))
	t.Setenv(EnvConfigFile, envFile)

	v := NewViper("")
	require.NoError(t, ReadConfig(v))
	assert.Equal(t, "env-", v.GetString("icons.prefix"))

	v = NewViper(flagFile)
	require.NoError(t, ReadConfig(v))
	assert.Equal(t, "flag-", v.GetString("icons.prefix"))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HEROGLYPH_ICONS_ROOT_PATH", "/opt/icons")
	t.Setenv("HEROGLYPH_LOG_LEVEL", "debug")
	t.Setenv("HEROGLYPH_BUNDLER_DEPLOY", "true")

	cfg, err := Load(NewViper(filepath.Join(t.TempDir(), "absent.yml")))
	require.NoError(t, err)
	assert.Equal(t, "/opt/icons", cfg.Icons.RootPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Bundler.Deploy)
}

func TestReadConfig(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		err := ReadConfig(NewViper(filepath.Join(t.TempDir(), "absent.yml")))
		require.Error(t, err)
		assert.True(t, herrors.IsConfigError(err))
	})

	t.Run("missing default file", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "")
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		defer os.Chdir(wd)

		assert.NoError(t, ReadConfig(NewViper("")))
	})

	t.Run("default file in search directory", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "")
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigName+".yml"),
			[]byte("icons:\n  prefix: dir-\n"), 0o644))

		v := NewViper("", dir)
		require.NoError(t, ReadConfig(v))
		assert.Equal(t, "dir-", v.GetString("icons.prefix"))
		assert.Equal(t, filepath.Join(dir, DefaultConfigName+".yml"), v.ConfigFileUsed())
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("icons: [unclosed"), 0o644))
		assert.Error(t, ReadConfig(NewViper(path)))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"empty prefix", "icons.prefix", ""},
		{"no variants", "icons.variants", []map[string]interface{}{}},
		{"unknown variant", "icons.variants", []map[string]interface{}{{"suffix": "", "path": "a", "variant": "huge"}}},
		{"variant without path", "icons.variants", []map[string]interface{}{{"suffix": "", "variant": "solid"}}},
		{"duplicate suffix", "icons.variants", []map[string]interface{}{
			{"suffix": "", "path": "a", "variant": "outline"},
			{"suffix": "", "path": "b", "variant": "solid"},
		}},
		{"no output", "css.output", ""},
		{"no content", "css.content", []string{}},
		{"bad loading variant", "css.loading_variants", []string{"phx click"}},
		{"negative delay", "hooks.flash_delay", "-1s"},
		{"bad log level", "log.level", "loud"},
		{"bad log format", "log.format", "xml"},
		{"bad target", "bundler.target", "es3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := defaultViper()
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			require.Error(t, err)
			assert.True(t, herrors.HasCode(err, herrors.ErrCodeConfigInvalid), err.Error())
		})
	}
}

func TestLoadTheme(t *testing.T) {
	cfg, err := Load(defaultViper())
	require.NoError(t, err)
	cfg.Theme.Colors = map[string]string{"brand": "#000000"}

	th, err := cfg.LoadTheme("")
	require.NoError(t, err)
	c, _ := th.Color("brand")
	assert.Equal(t, "#000000", c)

	file := filepath.Join(t.TempDir(), "theme.yml")
	require.NoError(t, os.WriteFile(file, []byte("colors:\n  brand: \"#111111\"\nspacing:\n  \"6\": 2rem\n"), 0o644))
	cfg.Theme.File = file
	th, err = cfg.LoadTheme("/elsewhere")
	require.NoError(t, err)
	c, _ = th.Color("brand")
	assert.Equal(t, "#111111", c, "the theme file wins over inline colors")
	s, _ := th.Spacing("6")
	assert.Equal(t, "2rem", s)

	cfg.Theme.File = "theme.yml"
	th, err = cfg.LoadTheme(filepath.Dir(file))
	require.NoError(t, err, "relative theme files resolve against the base directory")
	c, _ = th.Color("brand")
	assert.Equal(t, "#111111", c)

	_, err = cfg.LoadTheme(t.TempDir())
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg, err := Load(defaultViper())
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "root_path: ../deps/heroicons/optimized")
	assert.Contains(t, string(out), "flash_delay: 5s")

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg.Icons, back.Icons)
	assert.Equal(t, cfg.Hooks, back.Hooks)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HEROGLYPH_TEST_DOTENV=loaded\n"), 0o644))
	t.Setenv("HEROGLYPH_TEST_DOTENV", "")
	os.Unsetenv("HEROGLYPH_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("HEROGLYPH_TEST_DOTENV"))
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "none.env")))
}
