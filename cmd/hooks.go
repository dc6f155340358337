package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/heroglyph/internal/hooks"
	"github.com/conneroisu/heroglyph/internal/scanner"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Inspect client hooks",
}

var hooksCheckCmd = &cobra.Command{
	Use:   "check [glob]...",
	Short: "Report phx-hook names that no hook is registered for",
	Long: `Scan templates for phx-hook attributes and report every hook name that is
not registered. Without arguments the configured content globs are scanned.

Examples:
  heroglyph hooks check
  heroglyph hooks check '../lib/**/*.heex'`,
	RunE: runHooksCheck,
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered hooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range hooks.DefaultRegistry(hooksOptions()).Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksCheckCmd, hooksListCmd)
}

func hooksOptions() hooks.Options {
	return hooks.Options{
		FlashDelay:      appConfig.Hooks.FlashDelay,
		FlashTransition: appConfig.Hooks.FlashTransition,
		Logger:          logger,
	}
}

func runHooksCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir, err := baseDir()
	if err != nil {
		return err
	}
	patterns := args
	if len(patterns) == 0 {
		patterns = appConfig.CSS.Content
	}

	files, err := scanner.NewContentScanner(dir, patterns, logger).Files(ctx)
	if err != nil {
		return err
	}

	registry := hooks.DefaultRegistry(hooksOptions())
	unknown := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		for _, name := range hooks.FindHookNames(data) {
			if _, ok := registry.Lookup(name); !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: unknown hook %q\n", f, name)
				unknown++
			}
		}
	}

	if unknown > 0 {
		return fmt.Errorf("%d unknown hook reference(s) in %d file(s) scanned", unknown, len(files))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "all hook references registered (%d file(s) scanned)\n", len(files))
	return nil
}
