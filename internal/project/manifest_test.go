package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifile/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindManifest_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	manifest := filepath.Join(root, project.ManifestName)
	writeFile(t, manifest, project.Template)
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok, err := project.FindManifest(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, manifest, got)

	file := filepath.Join(nested, "x.txt")
	writeFile(t, file, "x\n")
	got, ok, err = project.FindManifest(file)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, manifest, got)

	dir, ok, err := project.FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, dir)
}

func TestLoadManifest_Template(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), project.ManifestName)
	writeFile(t, path, project.Template)

	m, err := project.LoadManifest(path)
	require.NoError(t, err)
	require.NotNil(t, m.Defaults.TabWidth)
	assert.Equal(t, 4, *m.Defaults.TabWidth)
	assert.Nil(t, m.Defaults.IndentStyle)
	assert.Equal(t, []string{"utf-8"}, m.Fix.Encodings)
	assert.Equal(t, filepath.Dir(path), m.Root)

	sec, ok := m.Section("", "Go", "go")
	require.True(t, ok)
	assert.Equal(t, "tab", *sec.IndentStyle)

	sec, ok = m.Section("Python", "py")
	assert.False(t, ok)
	assert.Nil(t, sec.TabWidth)
}

func TestLoadManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero tab width", "[defaults]\ntab_width = 0\n", "tab_width must be positive"},
		{"bad style", "[types.\"Go\"]\nindent_style = \"both\"\n", "indent_style must be tab or space"},
		{"bad eol", "[defaults]\nend_of_line = \"native\"\n", "end_of_line"},
		{"bad charset", "[defaults]\ncharset = \"klingon\"\n", "charset"},
		{"bad pattern", "[fix]\ninclude = [\"(\"]\n", "invalid pattern"},
		{"negative jobs", "[fix]\njobs = -1\n", "jobs must not be negative"},
		{"unknown key", "[defaults]\ntabsize = 2\n", "unknown keys: defaults.tabsize"},
		{"not toml", "[defaults\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), project.ManifestName)
			writeFile(t, path, tt.content)
			_, err := project.LoadManifest(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadNearest_Missing(t *testing.T) {
	t.Parallel()

	m, ok, err := project.LoadNearest(t.TempDir())
	require.NoError(t, err)
	if ok {
		// a manifest above the temp dir belongs to the environment, not to us
		t.Skipf("found unrelated manifest at %s", m.Path)
	}
	assert.Nil(t, m)
}

func TestCombine(t *testing.T) {
	t.Parallel()

	base := project.Sum([]byte("content"))
	assert.NotEqual(t, project.Combine(base, []byte("ab"), []byte("c")), project.Combine(base, []byte("a"), []byte("bc")))
	assert.Equal(t, project.Combine(base, []byte("x")), project.Combine(base, []byte("x")))
}
