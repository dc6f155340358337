package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// layout mirrors an assets directory next to the application sources.
func layout(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	assets := filepath.Join(root, "assets")
	writeFile(t, filepath.Join(assets, "js", "app.js"), "el.classList.add('hero-x-mark')\n")
	writeFile(t, filepath.Join(assets, "js", "vendor", "topbar.js"), "const c = `hero-bolt`\n")
	writeFile(t, filepath.Join(assets, "css", "app.css"), ".ignored { }\n")
	writeFile(t, filepath.Join(root, "lib", "app_web", "core_components.ex"),
		`<.icon name="hero-x-mark-solid" class="h-5 w-5 phx-click-loading:hero-arrow-path" />`+"\n")
	writeFile(t, filepath.Join(root, "lib", "app_web", "page.html.heex"), `<span class={["hero-home", @class]} />`+"\n")
	writeFile(t, filepath.Join(root, "lib", "app_web", "notes.md"), "hero-not-scanned\n")
	return root, assets
}

func TestFiles(t *testing.T) {
	root, assets := layout(t)
	s := NewContentScanner(assets, []string{"./js/**/*.js", "../lib/app_web/**/*.*ex"}, nil)

	files, err := s.Files(context.Background())
	require.NoError(t, err)

	expected := []string{
		filepath.Join(assets, "js", "app.js"),
		filepath.Join(assets, "js", "vendor", "topbar.js"),
		filepath.Join(root, "lib", "app_web", "core_components.ex"),
		filepath.Join(root, "lib", "app_web", "page.html.heex"),
	}
	assert.ElementsMatch(t, expected, files)
	assert.IsIncreasing(t, files)
}

func TestTokens(t *testing.T) {
	_, assets := layout(t)
	s := NewContentScanner(assets, []string{"./js/**/*.js", "../lib/app_web/**/*.*ex"}, nil)

	tokens, err := s.Tokens(context.Background())
	require.NoError(t, err)

	assert.Contains(t, tokens, "hero-x-mark")
	assert.Contains(t, tokens, "hero-bolt")
	assert.Contains(t, tokens, "hero-x-mark-solid")
	assert.Contains(t, tokens, "hero-home")
	assert.Contains(t, tokens, "phx-click-loading:hero-arrow-path")
	assert.NotContains(t, tokens, "hero-not-scanned")
}

func TestNoMatchesIsNotAnError(t *testing.T) {
	s := NewContentScanner(t.TempDir(), []string{"missing/**/*.js"}, nil)

	tokens, err := s.Tokens(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestInvalidPattern(t *testing.T) {
	s := NewContentScanner(t.TempDir(), []string{"js/[unclosed"}, nil)

	_, err := s.Files(context.Background())
	require.Error(t, err)
	assert.True(t, herrors.IsConfigError(err))
}

func TestCancelledContext(t *testing.T) {
	_, assets := layout(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewContentScanner(assets, []string{"js/**/*.js"}, nil).Tokens(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRootsAndMatch(t *testing.T) {
	root, assets := layout(t)
	s := NewContentScanner(assets, []string{"./js/**/*.js", "../lib/app_web/**/*.*ex", "js/*.ts"}, nil)

	assert.Equal(t, []string{
		filepath.Join(assets, "js"),
		filepath.Join(root, "lib", "app_web"),
	}, s.Roots())

	assert.True(t, s.Match(filepath.Join(root, "lib", "app_web", "live", "page.ex")))
	assert.False(t, s.Match(filepath.Join(root, "lib", "app_web", "notes.md")))
}

func TestExtractTokens(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []string
	}{
		{"attribute", `<span class="hero-x-mark h-4"></span>`, []string{"span", "class", "hero-x-mark", "h-4", "/span"}},
		{"heex list", `class={["hero-home", @class]}`, []string{"class", "hero-home"}},
		{"variant", `"phx-submit-loading:hero-arrow-path"`, []string{"phx-submit-loading:hero-arrow-path"}},
		{"trailing punctuation", `see hero-bolt.`, []string{"see", "hero-bolt"}},
		{"duplicates", `hero-a hero-a`, []string{"hero-a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractTokens([]byte(tc.content)))
		})
	}
}
