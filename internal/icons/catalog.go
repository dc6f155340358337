// Package icons builds the icon catalog from a directory tree of vector
// icons and resolves icon class names into masked CSS declarations.
package icons

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/logging"
)

// Entry is one discoverable icon.
type Entry struct {
	Identifier string
	SourcePath string
	Variant    Variant
}

// Catalog maps identifiers to icon entries. It is immutable once built.
type Catalog struct {
	root     string
	variants []VariantDir
	entries  map[string]Entry
}

type buildOptions struct {
	logger   logging.Logger
	reporter herrors.Reporter
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger logging.Logger) BuildOption {
	return func(o *buildOptions) { o.logger = logger }
}

// WithReporter collects non-fatal diagnostics.
func WithReporter(r herrors.Reporter) BuildOption {
	return func(o *buildOptions) { o.reporter = r }
}

// Build scans root and returns the catalog. Variant directories are scanned
// in the given order; when two files produce the same identifier the one
// seen first is kept. A missing root or variant directory is not an error:
// the root case is reported as a warning and yields an empty catalog.
func Build(ctx context.Context, root string, dirs []VariantDir, opts ...BuildOption) (*Catalog, error) {
	o := buildOptions{logger: logging.Discard(), reporter: herrors.Discard}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.WithComponent("icons")

	rootPresent, resolved := ResolveVariants(root, dirs)
	c := &Catalog{root: root, variants: resolved, entries: make(map[string]Entry)}

	if !rootPresent {
		logger.Warn(ctx, nil, "icon directory not found", "root", root)
		o.reporter.Report(herrors.Diagnostic{
			Severity: herrors.SeverityWarning,
			Code:     herrors.ErrCodeIconRootMissing,
			Message:  "icon directory not found",
			Path:     root,
		})
		return c, nil
	}

	for _, dir := range resolved {
		full := filepath.Join(root, dir.Path)
		if !dir.Present {
			logger.Debug(ctx, "icon variant directory missing, skipping", "path", full, "variant", dir.Variant.String())
			o.reporter.Report(herrors.Diagnostic{
				Severity: herrors.SeverityInfo,
				Code:     herrors.ErrCodeVariantDirMissing,
				Message:  "icon variant directory missing",
				Path:     full,
			})
			continue
		}

		files, err := os.ReadDir(full)
		if err != nil {
			return nil, herrors.NewIOError(herrors.ErrCodeIconSourceUnreadable,
				"cannot list icon variant directory", err).WithPath(full).WithComponent("icons")
		}

		for _, f := range files {
			name := f.Name()
			if strings.HasPrefix(name, ".") || !f.Type().IsRegular() || !IsSVG(name) {
				continue
			}
			id := Identifier(name, dir.Suffix)
			if _, seen := c.entries[id]; seen {
				continue
			}
			c.entries[id] = Entry{
				Identifier: id,
				SourcePath: filepath.Join(full, name),
				Variant:    dir.Variant,
			}
		}
	}

	logger.Debug(ctx, "icon catalog built", "root", root, "entries", len(c.entries))
	return c, nil
}

// IsSVG reports whether fileName has an .svg extension, in any case.
func IsSVG(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), svgExt)
}

// Identifier derives the catalog identifier of a file: its base name without
// the .svg extension, NFC-normalised, followed by the variant suffix.
func Identifier(fileName, suffix string) string {
	base := filepath.Base(fileName)
	if IsSVG(base) {
		base = base[:len(base)-len(svgExt)]
	}
	return norm.NFC.String(base) + suffix
}

const svgExt = ".svg"

// Lookup returns the entry registered under identifier.
func (c *Catalog) Lookup(identifier string) (Entry, bool) {
	e, ok := c.entries[identifier]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Root returns the directory the catalog was built from.
func (c *Catalog) Root() string {
	return c.root
}

// Variants returns the variant directories with their resolved presence.
func (c *Catalog) Variants() []VariantDir {
	out := make([]VariantDir, len(c.variants))
	copy(out, c.variants)
	return out
}

// Entries returns every entry ordered by identifier.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// String summarises the catalog.
func (c *Catalog) String() string {
	return fmt.Sprintf("icons.Catalog{root: %q, entries: %d}", c.root, len(c.entries))
}
