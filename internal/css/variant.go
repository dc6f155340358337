package css

import "strings"

// Variant rewrites a utility selector. Each template contains `&`, which is
// replaced by the selector being varied.
type Variant struct {
	Name      string
	Templates []string
}

// LoadingVariant returns the variant that scopes a utility to elements
// carrying (or nested under) the given LiveView loading class, e.g.
// phx-click-loading.
func LoadingVariant(class string) Variant {
	return Variant{
		Name:      class,
		Templates: []string{"." + class + "&", "." + class + " &"},
	}
}

// DefaultLoadingVariants are the loading classes LiveView toggles.
var DefaultLoadingVariants = []string{"phx-click-loading", "phx-submit-loading", "phx-change-loading"}

func (v Variant) apply(selectors []string) []string {
	out := make([]string, 0, len(selectors)*len(v.Templates))
	for _, tpl := range v.Templates {
		for _, sel := range selectors {
			out = append(out, strings.ReplaceAll(tpl, "&", sel))
		}
	}
	return out
}
