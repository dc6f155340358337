// Package bundler drives esbuild for the JavaScript entry points. It owns the
// option surface only; module resolution and rebuilding belong to esbuild.
package bundler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/logging"
)

// Options describes one esbuild invocation.
type Options struct {
	EntryPoints []string
	Outdir      string
	Target      string
	External    []string
	Bundle      bool
	// Minify is set for deploy builds.
	Minify bool
	// Loader maps a file extension (".svg") to an esbuild loader name ("file").
	Loader map[string]string
	// LogLevel is esbuild's own console output level.
	LogLevel string
	// WorkDir resolves relative entry points and outdir. Empty means the
	// process working directory.
	WorkDir string
}

// DefaultOptions returns the standard application bundle settings.
func DefaultOptions() Options {
	return Options{
		EntryPoints: []string{"js/app.js"},
		Outdir:      "../priv/static/assets",
		Target:      "es2017",
		External:    []string{"*.css", "fonts/*", "images/*"},
		Bundle:      true,
		LogLevel:    "info",
	}
}

var targets = map[string]api.Target{
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

var loaders = map[string]api.Loader{
	"base64":  api.LoaderBase64,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
	"css":     api.LoaderCSS,
	"dataurl": api.LoaderDataURL,
	"empty":   api.LoaderEmpty,
	"file":    api.LoaderFile,
	"js":      api.LoaderJS,
	"json":    api.LoaderJSON,
	"jsx":     api.LoaderJSX,
	"text":    api.LoaderText,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
}

var logLevels = map[string]api.LogLevel{
	"silent":  api.LogLevelSilent,
	"error":   api.LogLevelError,
	"warning": api.LogLevelWarning,
	"info":    api.LogLevelInfo,
	"debug":   api.LogLevelDebug,
	"verbose": api.LogLevelVerbose,
}

// ParseTarget maps a target name such as "es2017" to its esbuild value.
func ParseTarget(name string) (api.Target, error) {
	t, ok := targets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unknown target %q (valid: %s)", name, strings.Join(keys(targets), ", "))
	}
	return t, nil
}

// Validate reports option values esbuild would not accept.
func (o Options) Validate() error {
	if len(o.EntryPoints) == 0 {
		return herrors.NewConfigError(herrors.ErrCodeConfigInvalid, "bundler needs at least one entry point")
	}
	if o.Outdir == "" {
		return herrors.NewConfigError(herrors.ErrCodeConfigInvalid, "bundler outdir must be set")
	}
	if _, err := ParseTarget(o.Target); err != nil {
		return herrors.NewConfigError(herrors.ErrCodeConfigInvalid, err.Error())
	}
	for ext, name := range o.Loader {
		if !strings.HasPrefix(ext, ".") {
			return herrors.NewConfigError(herrors.ErrCodeConfigInvalid,
				fmt.Sprintf("loader extension %q must start with a dot", ext))
		}
		if _, ok := loaders[name]; !ok {
			return herrors.NewConfigError(herrors.ErrCodeConfigInvalid,
				fmt.Sprintf("unknown loader %q for %s", name, ext))
		}
	}
	if o.LogLevel != "" {
		if _, ok := logLevels[o.LogLevel]; !ok {
			return herrors.NewConfigError(herrors.ErrCodeConfigInvalid,
				fmt.Sprintf("unknown bundler log level %q", o.LogLevel))
		}
	}
	return nil
}

// BuildOptions translates o into esbuild options. Output is written to disk.
func (o Options) BuildOptions() (api.BuildOptions, error) {
	if err := o.Validate(); err != nil {
		return api.BuildOptions{}, err
	}
	target, _ := ParseTarget(o.Target)

	opts := api.BuildOptions{
		EntryPoints:   append([]string(nil), o.EntryPoints...),
		Outdir:        o.Outdir,
		Bundle:        o.Bundle,
		Target:        target,
		External:      append([]string(nil), o.External...),
		AbsWorkingDir: o.WorkDir,
		LogLevel:      api.LogLevelInfo,
		Write:         true,
	}
	if o.LogLevel != "" {
		opts.LogLevel = logLevels[o.LogLevel]
	}
	if o.Minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}
	if len(o.Loader) > 0 {
		opts.Loader = make(map[string]api.Loader, len(o.Loader))
		for ext, name := range o.Loader {
			opts.Loader[ext] = loaders[name]
		}
	}
	return opts, nil
}

// Bundler runs esbuild with fixed options.
type Bundler struct {
	opts   Options
	logger logging.Logger
}

// New creates a Bundler. Options are validated up front.
func New(opts Options, logger logging.Logger) (*Bundler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Bundler{opts: opts, logger: logger.WithComponent("bundler")}, nil
}

// Options returns the bundler's options.
func (b *Bundler) Options() Options { return b.opts }

// Build bundles once.
func (b *Bundler) Build(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts, err := b.opts.BuildOptions()
	if err != nil {
		return err
	}

	result := api.Build(opts)
	if len(result.Errors) > 0 {
		return bundleError("bundle failed", result.Errors)
	}
	for _, w := range result.Warnings {
		b.logger.Warn(ctx, nil, "esbuild warning", "message", formatMessage(w))
	}
	b.logger.Info(ctx, "bundle written", "outdir", b.opts.Outdir, "entry_points", b.opts.EntryPoints)
	return nil
}

// RebuildFunc is called after every watch-mode rebuild with the rebuild's
// error, or nil on success.
type RebuildFunc func(err error)

// Watch starts esbuild in watch mode and blocks until ctx is done. The
// initial build is reported like any rebuild.
func (b *Bundler) Watch(ctx context.Context, onRebuild RebuildFunc) error {
	opts, err := b.opts.BuildOptions()
	if err != nil {
		return err
	}
	opts.Plugins = append(opts.Plugins, b.rebuildPlugin(ctx, onRebuild))

	esctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return bundleError("create esbuild context", ctxErr.Errors)
	}
	defer esctx.Dispose()

	if err := esctx.Watch(api.WatchOptions{}); err != nil {
		return herrors.NewBuildError(herrors.ErrCodeBundleFailed, "start esbuild watch", err)
	}
	b.logger.Info(ctx, "watching bundle entry points", "entry_points", b.opts.EntryPoints)

	<-ctx.Done()
	return nil
}

func (b *Bundler) rebuildPlugin(ctx context.Context, onRebuild RebuildFunc) api.Plugin {
	return api.Plugin{
		Name: "heroglyph-rebuild-log",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				var err error
				if len(result.Errors) > 0 {
					err = bundleError("failed to rebuild", result.Errors)
					b.logger.Error(ctx, err, "esbuild: failed to rebuild")
				} else {
					b.logger.Info(ctx, "esbuild: rebuilt")
				}
				if onRebuild != nil {
					onRebuild(err)
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

func bundleError(msg string, messages []api.Message) error {
	texts := make([]string, len(messages))
	for i, m := range messages {
		texts[i] = formatMessage(m)
	}
	if len(texts) > 0 {
		msg += ": " + texts[0]
	}
	return herrors.NewBuildError(herrors.ErrCodeBundleFailed, msg, nil).
		WithContext("errors", texts)
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
