// Package htmldom implements hooks.Element over a document parsed with
// golang.org/x/net/html, with cascadia selectors and an in-process event
// dispatcher. It lets hooks run outside a browser: in tests, and when the
// CLI inspects server-rendered pages.
package htmldom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/conneroisu/heroglyph/internal/hooks"
)

// Document is a parsed HTML document.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	elements  map[*html.Node]*Element
	selectors map[string]cascadia.Selector
	observers map[int]func(hooks.Element)
	nextObs   int
}

var _ hooks.RemovalNotifier = (*Document)(nil)

// Parse parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		selectors: make(map[string]cascadia.Selector),
		observers: make(map[int]func(hooks.Element)),
	}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node as an element, so selectors can reach the
// whole tree.
func (d *Document) Root() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrapLocked(d.root)
}

// QuerySelector is shorthand for Root().QuerySelector.
func (d *Document) QuerySelector(selector string) hooks.Element {
	return d.Root().QuerySelector(selector)
}

// OnRemove implements hooks.RemovalNotifier.
func (d *Document) OnRemove(fn func(hooks.Element)) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.observers, id)
	}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}

func (d *Document) wrapLocked(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n, listeners: make(map[string][]*listener)}
	d.elements[n] = el
	return el
}

func (d *Document) compileLocked(selector string) (cascadia.Selector, error) {
	if sel, ok := d.selectors[selector]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	d.selectors[selector] = sel
	return sel, nil
}

func (d *Document) connectedLocked(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

func (d *Document) observersSnapshot() []func(hooks.Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fns := make([]func(hooks.Element), 0, len(d.observers))
	for i := 0; i < d.nextObs; i++ {
		if fn, ok := d.observers[i]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
