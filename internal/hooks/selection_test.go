package hooks_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/heroglyph/internal/hooks"
	"github.com/conneroisu/heroglyph/internal/hooks/htmldom"
	"github.com/conneroisu/heroglyph/internal/logging"
)

const pickerPage = `<form id="f"><div id="picker" phx-hook="OdysseyActivityPicker">
<odyssey-product-picker></odyssey-product-picker>
<input type="hidden" name="activity_ids" value="">
</div></form>`

func mountPicker(t *testing.T, src string, logger logging.Logger) (*htmldom.Document, *hooks.Runtime) {
	t.Helper()
	doc, err := htmldom.ParseString(src)
	require.NoError(t, err)
	reg := hooks.NewRegistry()
	require.NoError(t, reg.Register(hooks.SelectionBridgeName, hooks.NewSelectionBridge(logger)))
	rt := hooks.NewRuntime(reg, logger)
	rt.Observe(doc)
	require.NoError(t, rt.Mount(doc.QuerySelector("#picker")))
	return doc, rt
}

func TestSelectionForwardsToHiddenInput(t *testing.T) {
	doc, _ := mountPicker(t, pickerPage, nil)

	var inputs, formChanges int
	hidden := doc.QuerySelector(`input[type="hidden"]`)
	hidden.AddEventListener("input", func(ev *hooks.Event) {
		inputs++
		assert.True(t, ev.Bubbles)
	})
	form := doc.QuerySelector("#f")
	form.AddEventListener("input", func(*hooks.Event) { formChanges++ })
	form.AddEventListener("change", func(*hooks.Event) { t.Error("picker change must not reach the form") })

	ev := hooks.NewCustomEvent("change", true, hooks.SelectionDetail{SelectedIDs: []string{"a", "b"}})
	doc.QuerySelector("odyssey-product-picker").DispatchEvent(ev)

	assert.Equal(t, "a,b", hidden.Value())
	assert.Equal(t, 1, inputs)
	assert.Equal(t, 1, formChanges, "the input event bubbles to the form")
	assert.True(t, ev.DefaultPrevented())
	assert.True(t, ev.PropagationStopped())
}

func TestSelectionSwallowsClicks(t *testing.T) {
	doc, _ := mountPicker(t, pickerPage, nil)
	doc.QuerySelector("#f").AddEventListener("click", func(*hooks.Event) { t.Error("click escaped the picker") })

	ev := hooks.NewEvent("click", true)
	doc.QuerySelector("odyssey-product-picker").DispatchEvent(ev)
	assert.True(t, ev.DefaultPrevented())
}

func TestSelectionMissingHiddenInputLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Format: "json", Output: &buf})
	doc, _ := mountPicker(t, `<div id="picker" phx-hook="OdysseyActivityPicker"><odyssey-product-picker></odyssey-product-picker></div>`, logger)

	doc.QuerySelector("odyssey-product-picker").DispatchEvent(
		hooks.NewCustomEvent("change", true, hooks.SelectionDetail{SelectedIDs: []string{"a"}}))

	assert.Contains(t, buf.String(), "hidden input not found")
	assert.Contains(t, buf.String(), "HOOK_ELEMENT_MISSING")
}

func TestSelectionUnmountDetachesListeners(t *testing.T) {
	doc, rt := mountPicker(t, pickerPage, nil)
	picker := doc.QuerySelector("odyssey-product-picker").(*htmldom.Element)
	assert.Equal(t, 1, picker.ListenerCount("change"))

	rt.Unmount(doc.QuerySelector("#picker"))
	assert.Equal(t, 0, picker.ListenerCount("change"))
	assert.Equal(t, 0, picker.ListenerCount("click"))

	picker.DispatchEvent(hooks.NewCustomEvent("change", true, hooks.SelectionDetail{SelectedIDs: []string{"z"}}))
	assert.Equal(t, "", doc.QuerySelector("input").Value())
}

func TestSelectedIDs(t *testing.T) {
	tests := []struct {
		name   string
		detail interface{}
		want   []string
	}{
		{"struct", hooks.SelectionDetail{SelectedIDs: []string{"a"}}, []string{"a"}},
		{"pointer", &hooks.SelectionDetail{SelectedIDs: []string{"b"}}, []string{"b"}},
		{"nil pointer", (*hooks.SelectionDetail)(nil), nil},
		{"string slice map", map[string]interface{}{"selectedIds": []string{"c"}}, []string{"c"}},
		{"decoded json", map[string]interface{}{"selectedIds": []interface{}{"d", float64(7)}}, []string{"d", "7"}},
		{"unknown", 42, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hooks.SelectedIDs(tt.detail))
		})
	}
}
