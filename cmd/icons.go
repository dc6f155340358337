package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/conneroisu/heroglyph/internal/build"
	"github.com/conneroisu/heroglyph/internal/components"
	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/icons"
)

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Inspect the icon catalogue",
	Long: `Inspect the icons found under the configured icon root.

Examples:
  heroglyph icons list                 # Table of class names and sources
  heroglyph icons list --tree          # Grouped by variant
  heroglyph icons css hero-x-mark-mini # CSS generated for one class
  heroglyph icons preview -o icons.html`,
}

var iconsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every icon class",
	Args:  cobra.NoArgs,
	RunE:  runIconsList,
}

var iconsCSSCmd = &cobra.Command{
	Use:   "css <class>...",
	Short: "Print the CSS generated for icon classes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIconsCSS,
}

var iconsPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render an HTML gallery of every icon",
	Args:  cobra.NoArgs,
	RunE:  runIconsPreview,
}

var (
	iconsTree          bool
	iconsPreviewOutput string
)

func init() {
	rootCmd.AddCommand(iconsCmd)
	iconsCmd.AddCommand(iconsListCmd, iconsCSSCmd, iconsPreviewCmd)

	iconsListCmd.Flags().BoolVarP(&iconsTree, "tree", "t", false, "Group icons by variant")
	iconsPreviewCmd.Flags().StringVarP(&iconsPreviewOutput, "output", "o", "", "Write the gallery to a file instead of stdout")
}

func loadMatcher(ctx context.Context) (*build.Pipeline, *icons.Catalog, *icons.Matcher, error) {
	pipe, err := newPipeline()
	if err != nil {
		return nil, nil, nil, err
	}
	diags := herrors.NewDiagnostics()
	defer diags.Flush(ctx, logger)

	catalog, matcher, err := pipe.Matcher(ctx, diags)
	if err != nil {
		return nil, nil, nil, err
	}
	return pipe, catalog, matcher, nil
}

func runIconsList(cmd *cobra.Command, _ []string) error {
	_, catalog, matcher, err := loadMatcher(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if iconsTree {
		fmt.Fprint(out, catalogTree(catalog, matcher.Prefix()).String())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tVARIANT\tSOURCE")
	for _, e := range catalog.Entries() {
		rel, err := filepath.Rel(catalog.Root(), e.SourcePath)
		if err != nil {
			rel = e.SourcePath
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\n", matcher.Prefix(), e.Identifier, e.Variant, rel)
	}
	return w.Flush()
}

func catalogTree(catalog *icons.Catalog, prefix string) treeprint.Tree {
	tree := treeprint.NewWithRoot(fmt.Sprintf("%s (%d icons)", catalog.Root(), catalog.Len()))
	branches := make(map[icons.Variant]treeprint.Tree)
	for _, dir := range catalog.Variants() {
		label := fmt.Sprintf("%s [%s]", dir.Variant, dir.Path)
		if !dir.Present {
			label += " (missing)"
		}
		branches[dir.Variant] = tree.AddBranch(label)
	}
	for _, e := range catalog.Entries() {
		if b, ok := branches[e.Variant]; ok {
			b.AddNode(prefix + e.Identifier)
		}
	}
	return tree
}

func runIconsCSS(cmd *cobra.Command, args []string) error {
	pipe, _, matcher, err := loadMatcher(cmd.Context())
	if err != nil {
		return err
	}
	engine := pipe.Engine(matcher)
	for _, arg := range args {
		if _, ok, err := engine.Resolve(arg); err == nil && !ok {
			logger.Warn(cmd.Context(), nil, "not an icon class", "class", arg)
		}
	}
	sheet, err := engine.Generate(cmd.Context(), args)
	if err != nil {
		return err
	}
	// Print rules only; the palette belongs to full builds.
	sheet.Root = nil
	_, err = sheet.WriteTo(cmd.OutOrStdout())
	return err
}

func runIconsPreview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	pipe, catalog, matcher, err := loadMatcher(ctx)
	if err != nil {
		return err
	}

	var classes []string
	for _, e := range catalog.Entries() {
		classes = append(classes, matcher.Prefix()+e.Identifier)
	}
	sheet, err := pipe.Engine(matcher).Generate(ctx, classes)
	if err != nil {
		return err
	}
	page := components.Gallery("Icons", sheet.String(), components.GroupEntries(catalog.Entries(), matcher.Prefix()))

	if iconsPreviewOutput != "" {
		f, err := os.Create(iconsPreviewOutput)
		if err != nil {
			return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot create preview file", err).WithPath(iconsPreviewOutput)
		}
		if err := page.Render(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot write preview file", err).WithPath(iconsPreviewOutput)
		}
		logger.Info(ctx, "icon gallery written", "path", iconsPreviewOutput, "icons", catalog.Len())
		return nil
	}
	return page.Render(ctx, cmd.OutOrStdout())
}
