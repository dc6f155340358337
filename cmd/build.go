package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/heroglyph/internal/build"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build the icon stylesheet and the JavaScript bundle",
	Long: `Scan the icon tree and the content sources, generate the stylesheet for
every icon class in use, bundle the JavaScript entry points with esbuild and
then write the stylesheet.

The stylesheet is not written when a source file cannot be read or the
bundle fails.

Examples:
  heroglyph build                 # Development build
  heroglyph build --deploy        # Minified bundle
  heroglyph build --skip-js       # Stylesheet only`,
	RunE: runBuild,
}

var (
	buildDeploy bool
	buildSkipJS bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&buildDeploy, "deploy", false, "Minify the bundle for production")
	buildCmd.Flags().BoolVar(&buildSkipJS, "skip-js", false, "Only build the stylesheet")
}

func newPipeline() (*build.Pipeline, error) {
	dir, err := baseDir()
	if err != nil {
		return nil, err
	}
	opts, err := build.OptionsFromConfig(appConfig, dir, logger)
	if err != nil {
		return nil, err
	}
	return build.NewPipeline(opts, logger), nil
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if buildDeploy {
		appConfig.Bundler.Deploy = true
	}
	pipe, err := newPipeline()
	if err != nil {
		return err
	}

	result, err := pipe.Run(cmd.Context(), !buildSkipJS)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d icon rule(s) from %d icon(s) written to %s\n", result.Rules, result.Icons, result.Output)
	if result.Bundled {
		fmt.Fprintf(out, "bundle written to %s\n", appConfig.Bundler.Outdir)
	}
	return nil
}
