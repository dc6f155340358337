package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
)

func TestDefaultSpacing(t *testing.T) {
	th := Default()

	testCases := []struct {
		key      string
		expected string
	}{
		{"4", "1rem"},
		{"5", "1.25rem"},
		{"6", "1.5rem"},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			v, ok := th.Spacing(tc.key)
			require.True(t, ok)
			assert.Equal(t, tc.expected, v)
		})
	}

	_, ok := th.Spacing("999")
	assert.False(t, ok)
}

func TestDefaultPalette(t *testing.T) {
	th := Default()

	brand, ok := th.Color("brand")
	require.True(t, ok)
	assert.Equal(t, "#3957EA", brand)

	palette := th.Palette()
	assert.IsIncreasing(t, palette)
	assert.Contains(t, palette, "gray-900")
}

func TestNewAppliesOverrides(t *testing.T) {
	th, err := New(Overrides{
		Spacing: map[string]string{"6": "24px"},
		Colors:  map[string]string{"brand": "#000"},
	})
	require.NoError(t, err)

	v, _ := th.Spacing("6")
	assert.Equal(t, "24px", v)
	c, _ := th.Color("brand")
	assert.Equal(t, "#000", c)

	// Default is untouched.
	v, _ = Default().Spacing("6")
	assert.Equal(t, "1.5rem", v)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	_, err := New(Overrides{Colors: map[string]string{"brand": "blue"}})
	require.Error(t, err)
	assert.True(t, herrors.IsConfigError(err))

	_, err = New(Overrides{Spacing: map[string]string{"6": ""}})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yml")
	require.NoError(t, os.WriteFile(path, []byte("spacing:\n  \"5\": 18px\ncolors:\n  accent: \"#ff00ff\"\n"), 0644))

	th, err := LoadFile(path, Overrides{Colors: map[string]string{"accent": "#111111", "ink": "#222222"}})
	require.NoError(t, err)

	v, _ := th.Spacing("5")
	assert.Equal(t, "18px", v)
	accent, _ := th.Color("accent")
	assert.Equal(t, "#ff00ff", accent)
	ink, _ := th.Color("ink")
	assert.Equal(t, "#222222", ink)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"), Overrides{})
	require.Error(t, err)
	assert.True(t, herrors.IsIOError(err))

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("spacing: [unterminated"), 0644))
	_, err = LoadFile(path, Overrides{})
	require.Error(t, err)
	assert.True(t, herrors.IsConfigError(err))
}
