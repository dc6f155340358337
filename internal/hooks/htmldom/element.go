package htmldom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/heroglyph/internal/hooks"
)

type listener struct {
	fn hooks.Listener
}

// Element wraps one node of a Document.
type Element struct {
	doc       *Document
	node      *html.Node
	listeners map[string][]*listener
}

var _ hooks.Element = (*Element)(nil)

// TagName implements hooks.Element.
func (e *Element) TagName() string {
	if e.node.Type == html.DocumentNode {
		return "#document"
	}
	return e.node.Data
}

// Attr implements hooks.Element.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr implements hooks.Element.
func (e *Element) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.setAttrLocked(name, value)
}

func (e *Element) setAttrLocked(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// Value implements hooks.Element.
func (e *Element) Value() string {
	v, _ := e.Attr("value")
	return v
}

// SetValue implements hooks.Element.
func (e *Element) SetValue(value string) {
	e.SetAttr("value", value)
}

func (e *Element) classesLocked() []string {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

// AddClass implements hooks.Element.
func (e *Element) AddClass(classes ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	current := e.classesLocked()
	for _, c := range classes {
		if c != "" && !contains(current, c) {
			current = append(current, c)
		}
	}
	e.setAttrLocked("class", strings.Join(current, " "))
}

// RemoveClass implements hooks.Element.
func (e *Element) RemoveClass(classes ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	current := e.classesLocked()
	kept := current[:0]
	for _, c := range current {
		if !contains(classes, c) {
			kept = append(kept, c)
		}
	}
	e.setAttrLocked("class", strings.Join(kept, " "))
}

// HasClass implements hooks.Element.
func (e *Element) HasClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return contains(e.classesLocked(), class)
}

// QuerySelector implements hooks.Element. Invalid selectors match nothing.
func (e *Element) QuerySelector(selector string) hooks.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	sel, err := e.doc.compileLocked(selector)
	if err != nil {
		return nil
	}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if n := sel.MatchFirst(c); n != nil {
			return e.doc.wrapLocked(n)
		}
	}
	return nil
}

// QuerySelectorAll implements hooks.Element.
func (e *Element) QuerySelectorAll(selector string) []hooks.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	sel, err := e.doc.compileLocked(selector)
	if err != nil {
		return nil
	}
	var out []hooks.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		for _, n := range sel.MatchAll(c) {
			out = append(out, e.doc.wrapLocked(n))
		}
	}
	return out
}

// Contains implements hooks.Element.
func (e *Element) Contains(other hooks.Element) bool {
	o, ok := other.(*Element)
	if !ok || o.doc != e.doc {
		return false
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := o.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// AddEventListener implements hooks.Element.
func (e *Element) AddEventListener(eventType string, fn hooks.Listener) func() {
	l := &listener{fn: fn}
	e.doc.mu.Lock()
	e.listeners[eventType] = append(e.listeners[eventType], l)
	e.doc.mu.Unlock()

	return func() {
		e.doc.mu.Lock()
		defer e.doc.mu.Unlock()
		ls := e.listeners[eventType]
		for i, cur := range ls {
			if cur == l {
				e.listeners[eventType] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns how many listeners are registered for eventType.
func (e *Element) ListenerCount(eventType string) int {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return len(e.listeners[eventType])
}

// DispatchEvent implements hooks.Element. Listeners run on the calling
// goroutine, target first, then ancestors when the event bubbles.
func (e *Element) DispatchEvent(ev *hooks.Event) {
	ev.Target = e

	e.doc.mu.Lock()
	var path []*Element
	for n := e.node; n != nil; n = n.Parent {
		path = append(path, e.doc.wrapLocked(n))
		if !ev.Bubbles {
			break
		}
	}
	snapshots := make([][]*listener, len(path))
	for i, el := range path {
		snapshots[i] = append([]*listener(nil), el.listeners[ev.Type]...)
	}
	e.doc.mu.Unlock()

	for _, ls := range snapshots {
		for _, l := range ls {
			l.fn(ev)
		}
		if ev.PropagationStopped() {
			return
		}
	}
}

// Remove implements hooks.Element. Removal observers run before the node is
// detached.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	attached := e.node.Parent != nil
	e.doc.mu.Unlock()
	if !attached {
		return
	}

	for _, fn := range e.doc.observersSnapshot() {
		fn(e)
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Connected implements hooks.Element.
func (e *Element) Connected() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.connectedLocked(e.node)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
