// Package components renders icon markup with templ: the Icon component used
// by page templates and a gallery page listing every catalogued icon.
package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/heroglyph/internal/icons"
)

// Icon renders an empty span carrying the icon class and any extra classes.
// The icon's shape comes entirely from the generated stylesheet.
func Icon(name string, classes ...string) templ.Component {
	return IconWithPrefix(icons.DefaultPrefix, name, classes...)
}

// IconWithPrefix is Icon for a matcher configured with a custom prefix.
func IconWithPrefix(prefix, name string, classes ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			return fmt.Errorf("icon name %q must start with %q", name, prefix)
		}
		all := append([]string{name}, classes...)
		_, err := io.WriteString(w, `<span class="`+templ.EscapeString(strings.Join(nonEmpty(all), " "))+`" aria-hidden="true"></span>`)
		return err
	})
}

// GalleryGroup is one section of the gallery.
type GalleryGroup struct {
	Variant icons.Variant
	Classes []string
}

// GroupEntries groups catalogue entries by variant, in variant order, with
// each entry turned into its class name.
func GroupEntries(entries []icons.Entry, prefix string) []GalleryGroup {
	byVariant := make(map[icons.Variant][]string)
	for _, e := range entries {
		byVariant[e.Variant] = append(byVariant[e.Variant], prefix+e.Identifier)
	}

	var groups []GalleryGroup
	for _, v := range []icons.Variant{icons.Outline, icons.Solid, icons.Mini, icons.Micro} {
		if classes := byVariant[v]; len(classes) > 0 {
			groups = append(groups, GalleryGroup{Variant: v, Classes: classes})
		}
	}
	return groups
}

// Gallery renders a standalone HTML page showing every icon class with the
// stylesheet inlined.
func Gallery(title, stylesheet string, groups []GalleryGroup) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<title>" + templ.EscapeString(title) + "</title>")
		b.WriteString("<style>" + galleryBaseCSS + "</style>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		// The generated stylesheet only contains escaped selectors and
		// percent-encoded data URIs, so it is embedded as is.
		if err := templ.Raw("<style>\n"+stylesheet+"</style>").Render(ctx, w); err != nil {
			return err
		}

		b.Reset()
		b.WriteString("</head><body><h1>" + templ.EscapeString(title) + "</h1>")
		for _, g := range groups {
			fmt.Fprintf(&b, `<section data-variant="%s"><h2>%s <small>(%d)</small></h2><ul class="grid">`,
				g.Variant, g.Variant, len(g.Classes))
			if _, err := io.WriteString(w, b.String()); err != nil {
				return err
			}
			b.Reset()
			for _, class := range g.Classes {
				if _, err := io.WriteString(w, `<li title="`+templ.EscapeString(class)+`">`); err != nil {
					return err
				}
				// Gallery entries already carry the prefix.
				if err := IconWithPrefix("", class, "icon").Render(ctx, w); err != nil {
					return err
				}
				if _, err := io.WriteString(w, `<code>`+templ.EscapeString(class)+`</code></li>`); err != nil {
					return err
				}
			}
			b.WriteString("</ul></section>")
		}
		b.WriteString("</body></html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

const galleryBaseCSS = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1F2937}` +
	`.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(10rem,1fr));gap:1rem;list-style:none;padding:0}` +
	`.grid li{display:flex;flex-direction:column;align-items:center;gap:.5rem}` +
	`.grid code{font-size:.75rem;word-break:break-all}`

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
