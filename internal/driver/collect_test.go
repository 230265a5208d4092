package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifile/internal/driver"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFilter_Match(t *testing.T) {
	f, err := driver.NewFilter([]string{`src/`, `docs/.*\.md`}, []string{`.*_test\.go$`})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"src/main.go", true},
		{"SRC/Main.GO", true},
		{"src/main_test.go", false},
		{"docs/guide.md", true},
		{"docs/guide.txt", false},
		{"lib/src/x.go", false}, // match anchors at the start
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Match(tt.path), tt.path)
	}

	assert.True(t, driver.Filter{}.Match("anything"))
	assert.False(t, driver.Filter{SkipVendored: true}.Match("node_modules/x/index.js"))
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	_, err := driver.NewFilter([]string{"("}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include")
	_, err = driver.NewFilter(nil, []string{"[a-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude")
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, filepath.Join(dir, "b.txt"), "b\n")
	a := writeFile(t, filepath.Join(dir, "sub", "a.py"), "a\n")
	writeFile(t, filepath.Join(dir, ".hidden"), "h\n")
	writeFile(t, filepath.Join(dir, ".git", "config"), "c\n")
	writeFile(t, filepath.Join(dir, "sub", ".cache", "x.txt"), "x\n")

	files, err := driver.CollectFiles(context.Background(), []string{dir, b}, driver.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, files, "sorted, de-duplicated, hidden skipped")

	f, err := driver.NewFilter(nil, []string{`.*\.py$`})
	require.NoError(t, err)
	files, err = driver.CollectFiles(context.Background(), []string{dir}, f)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, files)

	files, err = driver.CollectFiles(context.Background(), []string{filepath.Join(dir, ".git")}, driver.Filter{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCollectFiles_Missing(t *testing.T) {
	_, err := driver.CollectFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, driver.Filter{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollectFiles_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.CollectFiles(ctx, []string{t.TempDir()}, driver.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}
