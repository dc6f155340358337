package icons

import (
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/heroglyph/internal/css"
	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/theme"
)

// DefaultPrefix marks a class token as an icon component.
const DefaultPrefix = "hero-"

// defaultSizeKey is the spacing key used when no suffix in sizeBySuffix
// matches.
const defaultSizeKey = "6"

var sizeBySuffix = []struct {
	suffix     string
	spacingKey string
}{
	{"-mini", "5"},
	{"-micro", "4"},
}

// SizeKey returns the theme spacing key used to size identifier.
func SizeKey(identifier string) string {
	for _, s := range sizeBySuffix {
		if strings.HasSuffix(identifier, s.suffix) {
			return s.spacingKey
		}
	}
	return defaultSizeKey
}

// Matcher resolves icon class tokens against a catalog. It implements
// css.Resolver. Each Matcher owns its ContentCache, so a matcher must not
// outlive the build it was created for.
type Matcher struct {
	prefix   string
	catalog  *Catalog
	theme    *theme.Theme
	cache    *ContentCache
	readFile func(string) ([]byte, error)
}

var _ css.Resolver = (*Matcher)(nil)

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) MatcherOption {
	return func(m *Matcher) { m.prefix = prefix }
}

// NewMatcher creates a matcher with a fresh content cache.
func NewMatcher(catalog *Catalog, th *theme.Theme, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		prefix:   DefaultPrefix,
		catalog:  catalog,
		theme:    th,
		cache:    NewContentCache(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Cache exposes the per-build content cache.
func (m *Matcher) Cache() *ContentCache {
	return m.cache
}

// Prefix returns the class prefix this matcher owns.
func (m *Matcher) Prefix() string {
	return m.prefix
}

// TryResolve implements css.Resolver. Tokens without the prefix or without
// a catalog entry are declined. An entry whose file cannot be read is a
// fatal error.
func (m *Matcher) TryResolve(token string) (css.Declaration, bool, error) {
	if !strings.HasPrefix(token, m.prefix) {
		return nil, false, nil
	}
	id := strings.TrimPrefix(token, m.prefix)
	entry, ok := m.catalog.Lookup(id)
	if !ok {
		return nil, false, nil
	}

	content, err := m.content(entry)
	if err != nil {
		return nil, false, err
	}

	size, err := m.size(id)
	if err != nil {
		return nil, false, err
	}

	return m.declaration(id, content, size), true, nil
}

func (m *Matcher) content(entry Entry) (string, error) {
	if cached, ok := m.cache.Get(entry.Identifier); ok {
		return cached, nil
	}

	raw, err := m.readFile(entry.SourcePath)
	if err != nil {
		return "", herrors.NewIOError(herrors.ErrCodeIconSourceUnreadable,
			fmt.Sprintf("cannot read icon %q", entry.Identifier), err).
			WithPath(entry.SourcePath).
			WithComponent("icons").
			WithContext("identifier", entry.Identifier)
	}

	encoded := EncodeSVG(raw)
	m.cache.Put(entry.Identifier, encoded)
	return encoded, nil
}

func (m *Matcher) size(identifier string) (string, error) {
	key := SizeKey(identifier)
	size, ok := m.theme.Spacing(key)
	if !ok {
		return "", herrors.NewConfigError(herrors.ErrCodeThemeInvalid,
			fmt.Sprintf("theme has no spacing %q for icon %q", key, identifier))
	}
	return size, nil
}

func (m *Matcher) declaration(id, content, size string) css.Declaration {
	custom := "--" + m.prefix + id
	ref := "var(" + custom + ")"
	return css.Declaration{
		{Name: custom, Value: "url('data:image/svg+xml;utf8," + content + "')"},
		{Name: "-webkit-mask", Value: ref},
		{Name: "mask", Value: ref},
		{Name: "mask-repeat", Value: "no-repeat"},
		{Name: "background-color", Value: "currentColor"},
		{Name: "vertical-align", Value: "middle"},
		{Name: "display", Value: "inline-block"},
		{Name: "width", Value: size},
		{Name: "height", Value: size},
	}
}
