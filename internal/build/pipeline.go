// Package build runs the asset build: icon catalog, content scan, stylesheet
// generation and the JavaScript bundle. Every run starts from scratch, so a
// rebuild never sees icon content cached by an earlier one.
package build

import (
	"context"
	"path/filepath"
	"time"

	"github.com/conneroisu/heroglyph/internal/bundler"
	"github.com/conneroisu/heroglyph/internal/config"
	"github.com/conneroisu/heroglyph/internal/css"
	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/icons"
	"github.com/conneroisu/heroglyph/internal/logging"
	"github.com/conneroisu/heroglyph/internal/scanner"
	"github.com/conneroisu/heroglyph/internal/theme"
)

// Options configures a Pipeline.
type Options struct {
	IconRoot string
	Variants []icons.VariantDir
	Prefix   string

	// BaseDir anchors relative content globs and paths.
	BaseDir         string
	Content         []string
	Output          string
	LoadingVariants []string
	EmitPalette     bool
	Theme           *theme.Theme

	// Bundler is nil when JavaScript is not built.
	Bundler *bundler.Bundler
}

// OptionsFromConfig resolves the configuration relative to baseDir, which
// is also the bundler's working directory.
func OptionsFromConfig(cfg *config.Config, baseDir string, logger logging.Logger) (Options, error) {
	dirs, err := cfg.VariantDirs()
	if err != nil {
		return Options{}, err
	}
	th, err := cfg.LoadTheme(baseDir)
	if err != nil {
		return Options{}, err
	}
	bo := cfg.BundlerOptions()
	if baseDir != "" {
		if bo.WorkDir, err = filepath.Abs(baseDir); err != nil {
			return Options{}, err
		}
	}
	b, err := bundler.New(bo, logger)
	if err != nil {
		return Options{}, err
	}
	return Options{
		IconRoot:        resolve(baseDir, cfg.Icons.RootPath),
		Variants:        dirs,
		Prefix:          cfg.Icons.Prefix,
		BaseDir:         baseDir,
		Content:         cfg.CSS.Content,
		Output:          resolve(baseDir, cfg.CSS.Output),
		LoadingVariants: cfg.CSS.LoadingVariants,
		EmitPalette:     cfg.CSS.EmitPalette,
		Theme:           th,
		Bundler:         b,
	}, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// Result summarises one run.
type Result struct {
	Icons       int
	Files       int
	Tokens      int
	Rules       int
	Output      string
	CacheHits   int
	CacheMisses int
	Bundled     bool
	Diagnostics []herrors.Diagnostic
	Duration    time.Duration
}

// Pipeline runs builds with fixed options.
type Pipeline struct {
	opts    Options
	logger  logging.Logger
	metrics *BuildMetrics
}

// NewPipeline creates a pipeline.
func NewPipeline(opts Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Prefix == "" {
		opts.Prefix = icons.DefaultPrefix
	}
	if opts.Theme == nil {
		opts.Theme = theme.Default()
	}
	if opts.Variants == nil {
		opts.Variants = icons.DefaultVariantDirs()
	}
	return &Pipeline{opts: opts, logger: logger.WithComponent("build"), metrics: NewBuildMetrics()}
}

// Metrics returns the pipeline's build metrics.
func (p *Pipeline) Metrics() *BuildMetrics { return p.metrics }

// Options returns the options the pipeline runs with.
func (p *Pipeline) Options() Options { return p.opts }

// Run builds the stylesheet and, when a bundler is configured and bundle is
// true, the JavaScript bundle. The stylesheet is written last, so a fatal
// error, including a failed bundle, leaves the previous stylesheet in place.
func (p *Pipeline) Run(ctx context.Context, bundle bool) (*Result, error) {
	start := time.Now()
	result, err := p.run(ctx, bundle)
	duration := time.Since(start)
	p.metrics.RecordBuild(duration, err)
	if err != nil {
		p.logger.Error(ctx, err, "build failed", "duration_ms", duration.Milliseconds())
		return nil, err
	}
	result.Duration = duration
	p.logger.Info(ctx, "build completed",
		"icons", result.Icons, "rules", result.Rules, "output", result.Output,
		"bundled", result.Bundled, "duration_ms", duration.Milliseconds())
	return result, nil
}

// Stylesheet rebuilds only the stylesheet.
func (p *Pipeline) Stylesheet(ctx context.Context) (*Result, error) {
	return p.Run(ctx, false)
}

func (p *Pipeline) run(ctx context.Context, bundle bool) (*Result, error) {
	diags := herrors.NewDiagnostics()
	defer diags.Flush(ctx, p.logger)

	catalog, matcher, err := p.Matcher(ctx, diags)
	if err != nil {
		return nil, err
	}

	scan := scanner.NewContentScanner(p.opts.BaseDir, p.opts.Content, p.logger)
	files, err := scan.Files(ctx)
	if err != nil {
		return nil, err
	}
	tokens, err := scan.TokensFrom(ctx, files)
	if err != nil {
		return nil, err
	}

	sheet, err := p.Engine(matcher).Generate(ctx, tokens)
	if err != nil {
		return nil, err
	}
	bundled := false
	if bundle && p.opts.Bundler != nil {
		if err := p.opts.Bundler.Build(ctx); err != nil {
			return nil, err
		}
		bundled = true
	}

	if err := css.WriteFile(p.opts.Output, sheet); err != nil {
		return nil, err
	}

	hits, misses := matcher.Cache().Stats()
	result := &Result{
		Icons:       catalog.Len(),
		Files:       len(files),
		Tokens:      len(tokens),
		Rules:       len(sheet.Rules),
		Output:      p.opts.Output,
		CacheHits:   hits,
		CacheMisses: misses,
		Bundled:     bundled,
	}

	result.Diagnostics = diags.All()
	return result, nil
}

// Matcher builds a fresh catalog and matcher. Diagnostics go to r.
func (p *Pipeline) Matcher(ctx context.Context, r herrors.Reporter) (*icons.Catalog, *icons.Matcher, error) {
	catalog, err := icons.Build(ctx, p.opts.IconRoot, p.opts.Variants,
		icons.WithLogger(p.logger), icons.WithReporter(r))
	if err != nil {
		return nil, nil, err
	}
	return catalog, icons.NewMatcher(catalog, p.opts.Theme, icons.WithPrefix(p.opts.Prefix)), nil
}

// Engine assembles the CSS engine around matcher.
func (p *Pipeline) Engine(matcher *icons.Matcher) *css.Engine {
	variants := make([]css.Variant, 0, len(p.opts.LoadingVariants))
	for _, class := range p.opts.LoadingVariants {
		variants = append(variants, css.LoadingVariant(class))
	}
	opts := []css.Option{css.WithLogger(p.logger), css.WithVariants(variants...)}
	if p.opts.EmitPalette {
		opts = append(opts, css.WithPalette(p.opts.Theme))
	}
	return css.NewEngine([]css.Resolver{matcher}, opts...)
}
