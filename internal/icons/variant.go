package icons

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Variant is the style/size family of an icon.
type Variant int

const (
	Outline Variant = iota
	Solid
	Mini
	Micro
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Outline:
		return "outline"
	case Solid:
		return "solid"
	case Mini:
		return "mini"
	case Micro:
		return "micro"
	default:
		return "unknown"
	}
}

// ParseVariant parses a variant name.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "outline":
		return Outline, nil
	case "solid":
		return Solid, nil
	case "mini":
		return Mini, nil
	case "micro":
		return Micro, nil
	default:
		return Outline, fmt.Errorf("unknown icon variant %q", name)
	}
}

// VariantDir is one directory of the icon tree. Suffix is appended to the
// base name of every file inside Path (relative to the icon root) to form its
// identifier. Present is resolved once by ResolveVariants.
type VariantDir struct {
	Suffix  string
	Path    string
	Variant Variant
	Present bool
}

// DefaultVariantDirs is the heroicons layout, outline first.
func DefaultVariantDirs() []VariantDir {
	return []VariantDir{
		{Suffix: "", Path: "24/outline", Variant: Outline},
		{Suffix: "-solid", Path: "24/solid", Variant: Solid},
		{Suffix: "-mini", Path: "20/solid", Variant: Mini},
		{Suffix: "-micro", Path: "16/solid", Variant: Micro},
	}
}

// ResolveVariants stats the root and every variant directory once. It
// reports whether root exists and returns a copy of dirs with Present set.
func ResolveVariants(root string, dirs []VariantDir) (bool, []VariantDir) {
	resolved := make([]VariantDir, len(dirs))
	copy(resolved, dirs)

	if !isDir(root) {
		for i := range resolved {
			resolved[i].Present = false
		}
		return false, resolved
	}

	for i := range resolved {
		resolved[i].Present = isDir(filepath.Join(root, resolved[i].Path))
	}
	return true, resolved
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
