// Package theme holds the design tokens the stylesheet generator reads:
// the spacing scale used to size icons and the colour palette.
package theme

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Theme is an immutable set of design tokens.
type Theme struct {
	spacing map[string]string
	colors  map[string]string
}

// Overrides is the on-disk shape of a theme file.
type Overrides struct {
	Spacing map[string]string `yaml:"spacing" mapstructure:"spacing"`
	Colors  map[string]string `yaml:"colors" mapstructure:"colors"`
}

// defaultSpacing is the spacing scale of the CSS framework (key -> length).
var defaultSpacing = map[string]string{
	"px":  "1px",
	"0":   "0px",
	"0.5": "0.125rem",
	"1":   "0.25rem",
	"1.5": "0.375rem",
	"2":   "0.5rem",
	"2.5": "0.625rem",
	"3":   "0.75rem",
	"3.5": "0.875rem",
	"4":   "1rem",
	"5":   "1.25rem",
	"6":   "1.5rem",
	"7":   "1.75rem",
	"8":   "2rem",
	"9":   "2.25rem",
	"10":  "2.5rem",
	"11":  "2.75rem",
	"12":  "3rem",
}

var defaultColors = map[string]string{
	"brand":                "#3957EA",
	"warning":              "#F9AA00",
	"danger":               "#E5243C",
	"info":                 "#048AF7",
	"success":              "#41B658",
	"brand-secondary":      "#1F37AD",
	"background-primary":   "#F2F3FA",
	"background-secondary": "#FAFAFF",
	"focus-shadow":         "#E9EDFD",
	"gray-primary":         "#656A81",
	"pale-green":           "#EFFFF5",
	"pale-blue":            "#E7FFFE",
	"brand-teal":           "#007494",
	"brand-green":          "#8FE98F",
	"gray-100":             "#fafaff",
	"gray-200":             "#dadce7",
	"gray-300":             "#dee2e6",
	"gray-400":             "#ced4da",
	"gray-500":             "#adb5bd",
	"gray-600":             "#868e96",
	"gray-700":             "#455460",
	"gray-800":             "#414159",
	"gray-900":             "#212529",
}

// Default returns the built-in theme.
func Default() *Theme {
	return &Theme{
		spacing: copyMap(defaultSpacing),
		colors:  copyMap(defaultColors),
	}
}

// New returns the default theme extended with overrides. Colours must be hex
// values; spacing values are taken verbatim.
func New(o Overrides) (*Theme, error) {
	t := Default()
	for key, value := range o.Spacing {
		if value == "" {
			return nil, herrors.NewConfigError(herrors.ErrCodeThemeInvalid,
				fmt.Sprintf("spacing %q has an empty value", key))
		}
		t.spacing[key] = value
	}
	for name, value := range o.Colors {
		if !hexColor.MatchString(value) {
			return nil, herrors.NewConfigError(herrors.ErrCodeThemeInvalid,
				fmt.Sprintf("color %q: %q is not a hex color", name, value))
		}
		t.colors[name] = value
	}
	return t, nil
}

// LoadFile reads a YAML theme file and merges it with base overrides; values
// from the file win.
func LoadFile(path string, base Overrides) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, herrors.NewIOError(herrors.ErrCodeThemeInvalid, "cannot read theme file", err).WithPath(path)
	}

	var file Overrides
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, herrors.NewConfigError(herrors.ErrCodeThemeInvalid, "theme file is not valid YAML: "+err.Error()).WithPath(path)
	}

	merged := Overrides{Spacing: copyMap(base.Spacing), Colors: copyMap(base.Colors)}
	for k, v := range file.Spacing {
		merged.Spacing[k] = v
	}
	for k, v := range file.Colors {
		merged.Colors[k] = v
	}
	return New(merged)
}

// Spacing returns the length registered for key.
func (t *Theme) Spacing(key string) (string, bool) {
	v, ok := t.spacing[key]
	return v, ok
}

// Color returns the hex value registered for name.
func (t *Theme) Color(name string) (string, bool) {
	v, ok := t.colors[name]
	return v, ok
}

// Palette returns colour names in sorted order.
func (t *Theme) Palette() []string {
	names := make([]string, 0, len(t.colors))
	for name := range t.colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
