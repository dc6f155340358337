package htmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/heroglyph/internal/hooks"
)

const page = `<!doctype html><html><head><meta name="csrf-token" content="tok"></head>
<body><div id="outer" class="a b"><span id="inner">hi</span><input type="hidden" name="ids" value=""></div></body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestQuerySelector(t *testing.T) {
	doc := mustParse(t, page)

	outer := doc.QuerySelector("#outer")
	require.NotNil(t, outer)
	assert.Equal(t, "div", outer.TagName())

	assert.NotNil(t, outer.QuerySelector(`input[type="hidden"]`))
	assert.Nil(t, outer.QuerySelector("#outer"), "selectors only match descendants")
	assert.Nil(t, outer.QuerySelector("div["), "invalid selectors match nothing")
	assert.Len(t, doc.Root().QuerySelectorAll("div, span"), 2)

	// The same node always yields the same element.
	assert.Same(t, outer, doc.QuerySelector("div"))
}

func TestAttributesAndClasses(t *testing.T) {
	doc := mustParse(t, page)
	outer := doc.QuerySelector("#outer")

	assert.True(t, outer.HasClass("a"))
	outer.AddClass("c", "a")
	outer.RemoveClass("b")
	class, _ := outer.Attr("class")
	assert.Equal(t, "a c", class)

	_, ok := outer.Attr("data-x")
	assert.False(t, ok)
	outer.SetAttr("data-x", "1")
	v, ok := outer.Attr("data-x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	input := outer.QuerySelector("input")
	input.SetValue("a,b")
	assert.Equal(t, "a,b", input.Value())
	assert.Contains(t, doc.String(), `value="a,b"`)
}

func TestDispatchBubbles(t *testing.T) {
	doc := mustParse(t, page)
	outer := doc.QuerySelector("#outer")
	inner := doc.QuerySelector("#inner")

	var seen []string
	outer.AddEventListener("click", func(ev *hooks.Event) {
		seen = append(seen, "outer")
		assert.Same(t, inner, ev.Target)
	})
	remove := inner.AddEventListener("click", func(*hooks.Event) { seen = append(seen, "inner") })

	inner.DispatchEvent(hooks.NewEvent("click", true))
	assert.Equal(t, []string{"inner", "outer"}, seen)

	seen = nil
	inner.DispatchEvent(hooks.NewEvent("click", false))
	assert.Equal(t, []string{"inner"}, seen)

	seen = nil
	remove()
	inner.AddEventListener("click", func(ev *hooks.Event) { ev.StopPropagation() })
	inner.DispatchEvent(hooks.NewEvent("click", true))
	assert.Empty(t, seen)
	assert.Equal(t, 1, inner.(*Element).ListenerCount("click"))
}

func TestRemoveNotifiesOnce(t *testing.T) {
	doc := mustParse(t, page)
	outer := doc.QuerySelector("#outer")
	inner := doc.QuerySelector("#inner")

	var removed []hooks.Element
	cancel := doc.OnRemove(func(el hooks.Element) {
		assert.True(t, el.Connected(), "observers run before detaching")
		removed = append(removed, el)
	})

	assert.True(t, outer.Contains(inner))
	outer.Remove()
	outer.Remove()

	require.Len(t, removed, 1)
	assert.Same(t, outer, removed[0])
	assert.False(t, outer.Connected())
	assert.False(t, inner.Connected())
	assert.Nil(t, doc.QuerySelector("#inner"))

	cancel()
	body := doc.QuerySelector("body")
	body.Remove()
	assert.Len(t, removed, 1)
}
