package css

import (
	"context"
	"sort"
	"strings"

	"github.com/conneroisu/heroglyph/internal/logging"
	"github.com/conneroisu/heroglyph/internal/theme"
)

// Engine is the dispatch loop of the stylesheet build. Resolvers are
// consulted in registration order and the first to accept a token wins.
type Engine struct {
	resolvers []Resolver
	variants  map[string]Variant
	palette   *theme.Theme
	logger    logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) { e.logger = logger.WithComponent("css") }
}

// WithPalette emits the theme colours as :root custom properties.
func WithPalette(t *theme.Theme) Option {
	return func(e *Engine) { e.palette = t }
}

// WithVariants registers variants.
func WithVariants(variants ...Variant) Option {
	return func(e *Engine) {
		for _, v := range variants {
			e.variants[v.Name] = v
		}
	}
}

// NewEngine creates an engine with the given resolvers.
func NewEngine(resolvers []Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolvers: resolvers,
		variants:  make(map[string]Variant),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve dispatches a single token. Tokens may carry variant prefixes
// separated by ':'; an unknown variant makes the engine decline the token.
func (e *Engine) Resolve(token string) (Rule, bool, error) {
	parts := strings.Split(token, ":")
	utility := parts[len(parts)-1]
	if utility == "" {
		return Rule{}, false, nil
	}

	variants := make([]Variant, 0, len(parts)-1)
	for _, name := range parts[:len(parts)-1] {
		v, ok := e.variants[name]
		if !ok {
			return Rule{}, false, nil
		}
		variants = append(variants, v)
	}

	for _, r := range e.resolvers {
		decl, ok, err := r.TryResolve(utility)
		if err != nil {
			return Rule{}, false, err
		}
		if !ok {
			continue
		}

		selectors := []string{"." + EscapeClass(token)}
		for i := len(variants) - 1; i >= 0; i-- {
			selectors = variants[i].apply(selectors)
		}
		return Rule{Selectors: selectors, Declaration: decl}, true, nil
	}

	return Rule{}, false, nil
}

// Generate resolves every distinct token and returns the stylesheet. Rules
// are ordered by token so output does not depend on scan order. The first
// resolver error aborts generation and no stylesheet is returned.
func (e *Engine) Generate(ctx context.Context, tokens []string) (*Stylesheet, error) {
	unique := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		unique[t] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for t := range unique {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	sheet := &Stylesheet{}
	if e.palette != nil {
		for _, name := range e.palette.Palette() {
			value, _ := e.palette.Color(name)
			sheet.Root = append(sheet.Root, Property{Name: "--color-" + name, Value: value})
		}
	}

	for _, token := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rule, ok, err := e.Resolve(token)
		if err != nil {
			return nil, err
		}
		if ok {
			sheet.Rules = append(sheet.Rules, rule)
		}
	}

	e.logger.Debug(ctx, "stylesheet generated", "tokens", len(sorted), "rules", len(sheet.Rules))
	return sheet, nil
}
