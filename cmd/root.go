// Package cmd provides the heroglyph command-line interface.
//
// Configuration is read, in increasing priority, from .heroglyph.yml (or the
// file named by HEROGLYPH_CONFIG_FILE or --config), from HEROGLYPH_*
// environment variables, including those set in .env files, and from flags:
//
//	HEROGLYPH_ICONS_ROOT_PATH=../deps/heroicons/optimized
//	HEROGLYPH_CSS_OUTPUT=../priv/static/assets/app.css
//	HEROGLYPH_LOG_LEVEL=debug
package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/heroglyph/internal/config"
	"github.com/conneroisu/heroglyph/internal/logging"
)

var (
	cfgFile  string
	envFiles []string
	logLevel string
	workDir  string

	appConfig *config.Config
	logger    logging.Logger = logging.Discard()
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "heroglyph/skip-config"

var rootCmd = &cobra.Command{
	Use:   "heroglyph",
	Short: "Icon CSS and asset build tool for server-rendered web UIs",
	Long: `heroglyph builds the front-end assets of a server-rendered web UI:
it turns hero-* class names found in templates into inlined, masked icon CSS,
bundles the JavaScript entry points with esbuild and checks the client hooks
referenced by templates.

Quick Start:
  heroglyph build                 Build the stylesheet and bundle
  heroglyph build --deploy        Minified production build
  heroglyph watch                 Rebuild on every change
  heroglyph icons list --tree     Show the icon catalogue`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .heroglyph.yml in --dir, can also use HEROGLYPH_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "environment files to load (default .env)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "assets directory relative paths are resolved from")
}

// normalizeFlagName accepts config-style spellings such as --skip_js.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[skipConfig]; ok {
		return nil
	}

	if err := config.LoadDotEnv(envFiles...); err != nil {
		return err
	}
	v := config.NewViper(cfgFile, workDir)
	if err := config.ReadConfig(v); err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		v.Set("log.level", logLevel)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logger = logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	appConfig = cfg

	if used := v.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			logger.Debug(cmd.Context(), "using config file", "path", used)
		}
	}
	return nil
}

func baseDir() (string, error) {
	return filepath.Abs(workDir)
}
