package hooks

import (
	"regexp"
	"sort"
	"time"

	"github.com/conneroisu/heroglyph/internal/logging"
)

// DefaultSocketPath is where the live socket connects.
const DefaultSocketPath = "/live"

// csrfMetaSelector locates the CSRF token rendered into the page head.
const csrfMetaSelector = `meta[name='csrf-token']`

// SocketOptions is what the client runtime is initialised with.
type SocketOptions struct {
	Path   string            `json:"path"`
	Params map[string]string `json:"params"`
	Hooks  []string          `json:"hooks"`
}

// ReadCSRFToken returns the content of the page's csrf-token meta tag.
func ReadCSRFToken(root Element) (string, bool) {
	meta := root.QuerySelector(csrfMetaSelector)
	if meta == nil {
		return "", false
	}
	return meta.Attr("content")
}

// NewSocketOptions assembles socket options from the page and registry.
func NewSocketOptions(root Element, registry *Registry) SocketOptions {
	params := make(map[string]string)
	if token, ok := ReadCSRFToken(root); ok {
		params["_csrf_token"] = token
	}
	return SocketOptions{
		Path:   DefaultSocketPath,
		Params: params,
		Hooks:  registry.Names(),
	}
}

// Options configures the built-in hooks.
type Options struct {
	FlashDelay      time.Duration
	FlashTransition time.Duration
	Clock           Clock
	Logger          logging.Logger
}

// DefaultRegistry registers the built-in hooks.
func DefaultRegistry(opts Options) *Registry {
	flash := DefaultFlashOptions()
	if opts.FlashDelay > 0 {
		flash.Delay = opts.FlashDelay
	}
	if opts.FlashTransition > 0 {
		flash.Transition = opts.FlashTransition
	}

	r := NewRegistry()
	_ = r.Register(SelectionBridgeName, NewSelectionBridge(opts.Logger))
	_ = r.Register(FlashName, NewFlash(flash, opts.Clock, opts.Logger))
	return r
}

var hookAttr = regexp.MustCompile(`phx-hook\s*=\s*(?:"([^"]+)"|'([^']+)')`)

// FindHookNames returns the distinct hook names referenced by marker
// attributes in source text, sorted.
func FindHookNames(content []byte) []string {
	seen := make(map[string]struct{})
	for _, m := range hookAttr.FindAllSubmatch(content, -1) {
		name := string(m[1])
		if name == "" {
			name = string(m[2])
		}
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
