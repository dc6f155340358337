package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestFilters(t *testing.T) {
	testCases := []struct {
		name     string
		filter   FileFilter
		path     string
		expected bool
	}{
		{"svg", SVGFilter, "icons/24/outline/x-mark.svg", true},
		{"svg upper", SVGFilter, "icons/X.SVG", true},
		{"not svg", SVGFilter, "icons/readme.md", false},
		{"hidden", NoHiddenFilter, "icons/.DS_Store", false},
		{"swap", NoHiddenFilter, "lib/page.ex~", false},
		{"visible", NoHiddenFilter, "lib/page.ex", true},
		{"git", NoGitFilter, "repo/.git/HEAD", false},
		{"git root", NoGitFilter, ".git/index", false},
		{"not git", NoGitFilter, "repo/lib/a.ex", true},
		{"any of", AnyOf(SVGFilter, func(p string) bool { return filepath.Ext(p) == ".ex" }), "lib/a.ex", true},
		{"any of none", AnyOf(SVGFilter), "lib/a.ex", false},
		{"not", Not(SVGFilter), "a.svg", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter(tc.path))
		})
	}
}

func TestCoalesce(t *testing.T) {
	events := []ChangeEvent{
		{Type: EventTypeCreated, Path: "b.svg"},
		{Type: EventTypeModified, Path: "a.svg"},
		{Type: EventTypeModified, Path: "b.svg"},
		{Type: EventTypeDeleted, Path: "a.svg"},
	}

	got := Coalesce(events)
	require.Len(t, got, 2)
	assert.Equal(t, ChangeEvent{Type: EventTypeDeleted, Path: "a.svg"}, got[0])
	assert.Equal(t, ChangeEvent{Type: EventTypeModified, Path: "b.svg"}, got[1])
	assert.Empty(t, Coalesce(nil))
}

func TestAddPathOutsideWorkingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	// Temp dirs live outside the package directory.
	dir := t.TempDir()
	assert.NoError(t, fw.AddPath(dir))
	assert.Error(t, fw.AddPath(filepath.Join(dir, "missing")))
}

func TestAddRecursiveSkipsHidden(t *testing.T) {
	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	root := t.TempDir()
	for _, d := range []string{"24/outline", "24/solid", ".cache/x"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}

	require.NoError(t, fw.AddRecursive(root))
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "24"),
		filepath.Join(root, "24", "outline"),
		filepath.Join(root, "24", "solid"),
	}, fw.WatchList())
}

type batches struct {
	mu  sync.Mutex
	got [][]ChangeEvent
}

func (b *batches) handle(_ context.Context, events []ChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, events)
	return nil
}

func (b *batches) snapshot() [][]ChangeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]ChangeEvent(nil), b.got...)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	fw, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	dir := t.TempDir()
	require.NoError(t, fw.AddRecursive(dir))
	fw.AddFilter(SVGFilter)

	var b batches
	fw.AddHandler(b.handle)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "x-mark.svg"), []byte("<svg/>"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	require.Eventually(t, func() bool { return len(b.snapshot()) > 0 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	got := b.snapshot()
	require.Len(t, got, 1, "one burst produces one batch")
	require.Len(t, got[0], 1)
	assert.Equal(t, filepath.Join(dir, "x-mark.svg"), got[0][0].Path)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	dir := t.TempDir()
	require.NoError(t, fw.AddRecursive(dir))
	fw.AddFilter(SVGFilter)

	var b batches
	fw.AddHandler(b.handle)
	fw.AddHandler(func(context.Context, []ChangeEvent) error { return errors.New("handler errors are logged") })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	sub := filepath.Join(dir, "16", "solid")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.Eventually(t, func() bool {
		for _, w := range fw.WatchList() {
			if w == sub {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "bolt.svg"), []byte("<svg/>"), 0o644))
	require.Eventually(t, func() bool {
		for _, batch := range b.snapshot() {
			for _, ev := range batch {
				if ev.Path == filepath.Join(sub, "bolt.svg") {
					return true
				}
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}
