package hooks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
	"github.com/conneroisu/heroglyph/internal/logging"
)

// SelectionBridgeName is the registered name of the picker bridge.
const SelectionBridgeName = "OdysseyActivityPicker"

const (
	pickerSelector      = "odyssey-product-picker"
	hiddenInputSelector = `input[type="hidden"]`
)

// SelectionDetail is the payload of the picker's change event.
type SelectionDetail struct {
	SelectedIDs []string `json:"selectedIds"`
}

// SelectionBridge forwards the picker custom element's change events to the
// hidden form field next to it, so the form's own change tracking sees the
// selection.
type SelectionBridge struct {
	logger logging.Logger

	mu       sync.Mutex
	removers []func()
}

// NewSelectionBridge returns a factory for SelectionBridge hooks.
func NewSelectionBridge(logger logging.Logger) Factory {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("hooks").With("hook", SelectionBridgeName)
	return func() Hook {
		return &SelectionBridge{logger: logger}
	}
}

// Mount implements Hook. A missing picker is logged and leaves the element
// untouched.
func (b *SelectionBridge) Mount(el Element) error {
	picker := el.QuerySelector(pickerSelector)
	if picker == nil {
		b.logger.Warn(context.Background(), nil, "picker element not found",
			"code", herrors.ErrCodeHookElementMissing, "selector", pickerSelector)
		return nil
	}

	swallow := picker.AddEventListener("click", func(ev *Event) {
		ev.PreventDefault()
		ev.StopPropagation()
	})
	forward := picker.AddEventListener("change", func(ev *Event) {
		ev.PreventDefault()
		ev.StopPropagation()
		b.forward(el, ev)
	})

	b.mu.Lock()
	b.removers = append(b.removers, swallow, forward)
	b.mu.Unlock()
	return nil
}

func (b *SelectionBridge) forward(el Element, ev *Event) {
	hidden := el.QuerySelector(hiddenInputSelector)
	if hidden == nil {
		b.logger.Warn(context.Background(), nil, "hidden input not found, selection dropped",
			"code", herrors.ErrCodeHookElementMissing, "selector", hiddenInputSelector)
		return
	}

	hidden.SetValue(strings.Join(SelectedIDs(ev.Detail), ","))
	hidden.DispatchEvent(NewEvent("input", true))
}

// Unmount implements Unmounter.
func (b *SelectionBridge) Unmount(Element) {
	b.mu.Lock()
	removers := b.removers
	b.removers = nil
	b.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
}

// SelectedIDs extracts the selected ids from a change event detail. It
// accepts SelectionDetail and the decoded-JSON map form.
func SelectedIDs(detail interface{}) []string {
	switch d := detail.(type) {
	case SelectionDetail:
		return d.SelectedIDs
	case *SelectionDetail:
		if d == nil {
			return nil
		}
		return d.SelectedIDs
	case map[string]interface{}:
		switch ids := d["selectedIds"].(type) {
		case []string:
			return ids
		case []interface{}:
			out := make([]string, len(ids))
			for i, id := range ids {
				out[i] = fmt.Sprint(id)
			}
			return out
		}
	}
	return nil
}
