// Package hooks models the client-side hook lifecycle: small named behaviours
// attached to elements the view-update protocol inserts, mounted exactly once
// and unmounted exactly once on every removal path.
//
// The DOM is reached only through the Element interface, so the same hooks run
// against a browser binding or against the parsed-HTML document in
// package htmldom.
package hooks

import "time"

// Listener handles a dispatched event.
type Listener func(ev *Event)

// Element is the slice of the DOM a hook may touch.
type Element interface {
	TagName() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	Value() string
	SetValue(value string)
	AddClass(classes ...string)
	RemoveClass(classes ...string)
	HasClass(class string) bool

	// QuerySelector returns the first descendant matching selector, or nil.
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
	// Contains reports whether other is this element or one of its descendants.
	Contains(other Element) bool

	// AddEventListener registers fn and returns a function that removes it.
	AddEventListener(eventType string, fn Listener) (remove func())
	DispatchEvent(ev *Event)

	// Remove detaches the element from the document. Removing a detached
	// element is a no-op.
	Remove()
	Connected() bool
}

// RemovalNotifier reports elements that are about to be detached.
type RemovalNotifier interface {
	OnRemove(fn func(removed Element)) (cancel func())
}

// Event is a DOM event.
type Event struct {
	Type    string
	Bubbles bool
	Detail  interface{}
	Target  Element

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent creates an event.
func NewEvent(eventType string, bubbles bool) *Event {
	return &Event{Type: eventType, Bubbles: bubbles}
}

// NewCustomEvent creates an event carrying detail.
func NewCustomEvent(eventType string, bubbles bool, detail interface{}) *Event {
	return &Event{Type: eventType, Bubbles: bubbles, Detail: detail}
}

// PreventDefault marks the default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from bubbling further.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules callbacks with the time package.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
