package css

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	herrors "github.com/conneroisu/heroglyph/internal/errors"
)

// Stylesheet is the rendered output of a build.
type Stylesheet struct {
	Root  Declaration
	Rules []Rule
}

// String renders the stylesheet.
func (s *Stylesheet) String() string {
	var b strings.Builder
	b.WriteString("/* generated by heroglyph; do not edit */\n")
	if len(s.Root) > 0 {
		b.WriteString("\n")
		Rule{Selectors: []string{":root"}, Declaration: s.Root}.render(&b)
	}
	for _, r := range s.Rules {
		b.WriteString("\n")
		r.render(&b)
	}
	return b.String()
}

// WriteTo implements io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// WriteFile writes the stylesheet to path atomically: the content goes to a
// temporary file in the same directory which is then renamed over path, so a
// failed build never leaves a truncated stylesheet behind.
func WriteFile(path string, s *Stylesheet) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot create output directory", err).WithPath(dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot create temporary file", err).WithPath(dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := s.WriteTo(tmp); err != nil {
		tmp.Close()
		return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot write stylesheet", err).WithPath(tmpName)
	}
	if err := tmp.Close(); err != nil {
		return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot write stylesheet", err).WithPath(tmpName)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot set stylesheet mode", err).WithPath(tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return herrors.NewIOError(herrors.ErrCodeStylesheetWrite, "cannot move stylesheet into place", err).WithPath(path)
	}
	return nil
}
