package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/heroglyph/internal/build"
	"github.com/conneroisu/heroglyph/internal/scanner"
	"github.com/conneroisu/heroglyph/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Rebuild on every change to icons or content",
	Long: `Build once, then rebuild the stylesheet whenever an icon or a content file
changes, and keep esbuild in watch mode for the JavaScript bundle. Every
rebuild is logged; a failed rebuild keeps the previous output.

Press Ctrl+C to stop.

Examples:
  heroglyph watch
  heroglyph watch --skip-js --debounce 500ms`,
	RunE: runWatch,
}

var (
	watchSkipJS   bool
	watchDebounce time.Duration
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchSkipJS, "skip-js", false, "Do not run esbuild in watch mode")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Quiet period before a rebuild")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	pipe, err := newPipeline()
	if err != nil {
		return err
	}
	opts := pipe.Options()

	// A broken initial build is reported and fixed by the next change.
	_, _ = pipe.Stylesheet(ctx)

	fw, err := newSourceWatcher(ctx, pipe)
	if err != nil {
		return err
	}
	defer fw.Stop()
	if err := fw.Start(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "watching for changes", "directories", len(fw.WatchList()))

	if watchSkipJS || opts.Bundler == nil {
		<-ctx.Done()
		return nil
	}
	return opts.Bundler.Watch(ctx, nil)
}

// newSourceWatcher watches the icon tree and the static roots of the content
// globs, rebuilding the stylesheet for each batch of changes.
func newSourceWatcher(ctx context.Context, pipe *build.Pipeline) (*watcher.FileWatcher, error) {
	opts := pipe.Options()
	scan := scanner.NewContentScanner(opts.BaseDir, opts.Content, logger)

	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return nil, err
	}

	iconRoot := filepath.Clean(opts.IconRoot) + string(filepath.Separator)
	isIcon := func(path string) bool {
		return strings.HasPrefix(path, iconRoot) && watcher.SVGFilter(path)
	}
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddFilter(watcher.AnyOf(isIcon, scan.Match))

	roots := append([]string{opts.IconRoot}, scan.Roots()...)
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			logger.Warn(ctx, nil, "not watching missing directory", "path", root)
			continue
		}
		if err := fw.AddRecursive(root); err != nil {
			logger.Warn(ctx, err, "cannot watch directory", "path", root)
		}
	}

	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		logger.Info(ctx, "change detected", "files", len(events), "first", events[0].Path)
		// The pipeline logs its own failures.
		_, _ = pipe.Stylesheet(ctx)
		logger.Info(ctx, "rebuild stats", pipe.Metrics().LogFields()...)
		return nil
	})
	return fw, nil
}
