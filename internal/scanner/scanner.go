// Package scanner finds the source files named by the content globs and
// extracts the class-name candidates they contain.
//
// Globs follow doublestar syntax (`**`, `{a,b}`) and are resolved relative to
// the scanner's base directory, so a pattern such as
// `../lib/app_web/**/*.*ex` reaches outside the assets directory just like
// the CSS framework's own content configuration. Files are read
// sequentially; the scanner is invoked once per build.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/logging"
)

// ContentScanner resolves content globs and extracts class tokens.
type ContentScanner struct {
	baseDir  string
	patterns []string
	logger   logging.Logger
}

// NewContentScanner creates a scanner. Relative patterns are resolved
// against baseDir.
func NewContentScanner(baseDir string, patterns []string, logger logging.Logger) *ContentScanner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ContentScanner{
		baseDir:  baseDir,
		patterns: patterns,
		logger:   logger.WithComponent("scanner"),
	}
}

// Validate checks every pattern for syntax errors.
func (s *ContentScanner) Validate() error {
	for _, p := range s.patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return herrors.NewConfigError(herrors.ErrCodeConfigInvalid,
				fmt.Sprintf("invalid content pattern %q", p))
		}
	}
	return nil
}

func (s *ContentScanner) absPattern(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.baseDir, p)
}

// Files returns every regular file matched by the patterns, sorted and
// de-duplicated.
func (s *ContentScanner) Files(ctx context.Context) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, p := range s.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches, err := doublestar.FilepathGlob(s.absPattern(p), doublestar.WithFilesOnly())
		if err != nil {
			return nil, herrors.NewIOError(herrors.ErrCodeContentScanFailed,
				fmt.Sprintf("cannot expand content pattern %q", p), err)
		}
		if len(matches) == 0 {
			s.logger.Debug(ctx, "content pattern matched no files", "pattern", p)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// Tokens returns the sorted set of class-name candidates found in every
// matched file.
func (s *ContentScanner) Tokens(ctx context.Context) ([]string, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	return s.TokensFrom(ctx, files)
}

// TokensFrom is Tokens over an already expanded file list.
func (s *ContentScanner) TokensFrom(ctx context.Context, files []string) ([]string, error) {
	set := make(map[string]struct{})
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, herrors.NewIOError(herrors.ErrCodeContentScanFailed,
				"cannot read content file", err).WithPath(f)
		}
		for _, tok := range ExtractTokens(data) {
			set[tok] = struct{}{}
		}
	}

	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	s.logger.Debug(ctx, "content scanned", "files", len(files), "tokens", len(tokens))
	return tokens, nil
}

// Roots returns the static directory prefix of every pattern, which is what
// a watcher has to observe to see changes to matched files.
func (s *ContentScanner) Roots() []string {
	seen := make(map[string]struct{})
	roots := make([]string, 0, len(s.patterns))
	for _, p := range s.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(s.absPattern(p)))
		base = filepath.FromSlash(base)
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		roots = append(roots, base)
	}
	sort.Strings(roots)
	return roots
}

// Match reports whether path is matched by any pattern.
func (s *ContentScanner) Match(path string) bool {
	for _, p := range s.patterns {
		ok, err := doublestar.PathMatch(s.absPattern(p), path)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// ExtractTokens splits source text into class-name candidates. Anything that
// cannot appear in a class name (whitespace, quotes, brackets, markup
// punctuation) separates tokens; variant separators and slashes are kept.
func ExtractTokens(content []byte) []string {
	fields := strings.FieldsFunc(string(content), isSeparator)

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ":.")
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '"', '\'', '`', '<', '>', '{', '}', '(', ')', '[', ']', '=', ',', ';', '|', '\\', '@', '$', '~', '?', '*', '+', '^':
		return true
	}
	return false
}
