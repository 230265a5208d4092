package settings_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifile/internal/indent"
	"unifile/internal/project"
	"unifile/internal/settings"
	"unifile/internal/source"
)

func intp(v int) *int       { return &v }
func boolp(v bool) *bool    { return &v }
func strp(v string) *string { return &v }

func TestPartial_Merge(t *testing.T) {
	crlf := source.CRLF
	high := settings.Partial{TabWidth: intp(8), UseTabs: boolp(true)}
	low := settings.Partial{TabWidth: intp(2), Trim: boolp(false), EndOfLine: &crlf}

	got := high.Merge(low)
	assert.Equal(t, 8, *got.TabWidth)
	assert.True(t, *got.UseTabs)
	assert.False(t, *got.Trim)
	assert.Equal(t, source.CRLF, *got.EndOfLine)
	assert.Nil(t, got.Realign)
	assert.True(t, settings.Partial{}.IsZero())
	assert.False(t, got.IsZero())
}

func TestResolve_Defaults(t *testing.T) {
	called := false
	s, err := settings.Resolve(nil, func() (int, int) {
		called = true
		return 1, 1
	}, nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, indent.Config{TabWidth: 4, UseTabs: false, Trim: true}, s.Indent)
	assert.Nil(t, s.EndOfLine)
	assert.False(t, s.Realign)
	assert.Equal(t, []string{"utf-8"}, s.Encodings)
	assert.Equal(t, settings.LayerDetected, s.Origin["indent_style"])
	assert.Equal(t, settings.LayerDefault, s.Origin["tab_width"])
}

func TestResolve_MajorityDetection(t *testing.T) {
	tests := []struct {
		name         string
		tabs, spaces int
		want         bool
	}{
		{"tabs win", 3, 1, true},
		{"spaces win", 1, 3, false},
		{"tie", 2, 2, false},
		{"nothing indented", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := settings.Resolve(nil, func() (int, int) { return tt.tabs, tt.spaces }, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Indent.UseTabs)
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	lf := source.LF
	layers := []settings.Layered{
		{Layer: settings.LayerFlag, Partial: settings.Partial{TabWidth: intp(8)}},
		{Layer: settings.LayerEditorConfig, Partial: settings.Partial{TabWidth: intp(2), UseTabs: boolp(true), EndOfLine: &lf}},
		{Layer: settings.LayerManifest, Partial: settings.Partial{UseTabs: boolp(false), Trim: boolp(false), Realign: boolp(true)}},
	}
	s, err := settings.Resolve(layers, func() (int, int) {
		t.Fatal("census must not run when a layer sets the style")
		return 0, 0
	}, []string{"utf-8"})
	require.NoError(t, err)

	assert.Equal(t, 8, s.Indent.TabWidth)
	assert.True(t, s.Indent.UseTabs)
	assert.False(t, s.Indent.Trim)
	assert.True(t, s.Realign)
	require.NotNil(t, s.EndOfLine)
	assert.Equal(t, source.LF, *s.EndOfLine)
	assert.Equal(t, map[string]settings.Layer{
		"tab_width":    settings.LayerFlag,
		"indent_style": settings.LayerEditorConfig,
		"trim":         settings.LayerManifest,
		"end_of_line":  settings.LayerEditorConfig,
		"charset":      settings.LayerDefault,
		"realign":      settings.LayerManifest,
	}, s.Origin)
}

func TestResolve_InvalidTabWidth(t *testing.T) {
	layers := []settings.Layered{
		{Layer: settings.LayerEditorConfig, Partial: settings.Partial{TabWidth: intp(0)}},
	}
	_, err := settings.Resolve(layers, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, indent.ErrInvalidTabWidth))
	assert.Contains(t, err.Error(), "editorconfig")
}

func TestSettings_Terminator(t *testing.T) {
	var s settings.Settings
	assert.Equal(t, source.CR, s.Terminator(source.CR))
	crlf := source.CRLF
	s.EndOfLine = &crlf
	assert.Equal(t, source.CRLF, s.Terminator(source.CR))
}

func TestSettings_OutputEncoding(t *testing.T) {
	decoded := source.Decoded{Encoding: "utf-8", HadBOM: true}
	name, bom := settings.Settings{}.OutputEncoding(decoded)
	assert.Equal(t, "utf-8", name)
	assert.True(t, bom)

	name, bom = settings.Settings{Charset: "latin1"}.OutputEncoding(decoded)
	assert.Equal(t, "latin1", name)
	assert.False(t, bom)

	wide := source.Decoded{Encoding: "utf-16be", HadBOM: true}
	name, bom = settings.Settings{Charset: "UTF-16"}.OutputEncoding(wide)
	assert.Equal(t, "utf-16be", name)
	assert.True(t, bom)

	name, bom = settings.Settings{Charset: "utf-16le"}.OutputEncoding(wide)
	assert.Equal(t, "utf-16le", name)
	assert.False(t, bom)
}

func TestEncodings(t *testing.T) {
	layers := []settings.Layered{
		{Layer: settings.LayerFlag},
		{Layer: settings.LayerEditorConfig, Partial: settings.Partial{Charset: strp("latin1")}},
		{Layer: settings.LayerManifest, Partial: settings.Partial{Charset: strp("utf-16le")}},
	}
	got := settings.Encodings(layers, []string{"utf-8", "LATIN1", "cp1251"})
	assert.Equal(t, []string{"latin1", "utf-8", "cp1251"}, got)
	assert.Equal(t, []string{"utf-8"}, settings.Encodings(nil, nil))
}

func TestChain(t *testing.T) {
	calls := 0
	chain := settings.Chain{
		{Layer: settings.LayerEditorConfig, Source: settings.SourceFunc(func(f settings.File) (settings.Partial, error) {
			calls++
			return settings.Partial{TabWidth: intp(2)}, nil
		})},
		{Layer: settings.LayerManifest, Source: settings.SourceFunc(func(f settings.File) (settings.Partial, error) {
			calls++
			return settings.Partial{TabWidth: intp(8), Trim: boolp(false)}, nil
		})},
	}
	merged, err := chain.Lookup(settings.File{Path: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, *merged.TabWidth)
	assert.False(t, *merged.Trim)

	failing := settings.Chain{
		{Layer: settings.LayerManifest, Source: settings.SourceFunc(func(settings.File) (settings.Partial, error) {
			return settings.Partial{}, errors.New("boom")
		})},
	}
	_, err = failing.Layers(settings.File{Path: "a.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest: boom")
}

func TestEditorConfig(t *testing.T) {
	dir := t.TempDir()
	ec := "root = true\n\n" +
		"[*]\nindent_style = space\nindent_size = 2\ntrim_trailing_whitespace = false\n\n" +
		"[*.mk]\nindent_style = tab\nindent_size = tab\ntab_width = 8\nend_of_line = crlf\n" + settings.RealignKey + " = true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".editorconfig"), []byte(ec), 0o600))

	src := settings.EditorConfig{}
	p, err := src.Lookup(settings.File{Path: filepath.Join(dir, "a.py")})
	require.NoError(t, err)
	require.NotNil(t, p.TabWidth)
	assert.Equal(t, 2, *p.TabWidth)
	assert.False(t, *p.UseTabs)
	assert.False(t, *p.Trim)
	assert.Nil(t, p.EndOfLine)
	assert.Nil(t, p.Realign)

	p, err = src.Lookup(settings.File{Path: filepath.Join(dir, "rules.mk")})
	require.NoError(t, err)
	require.NotNil(t, p.TabWidth)
	assert.Equal(t, 8, *p.TabWidth)
	assert.True(t, *p.UseTabs)
	require.NotNil(t, p.EndOfLine)
	assert.Equal(t, source.CRLF, *p.EndOfLine)
	require.NotNil(t, p.Realign)
	assert.True(t, *p.Realign)
}

func TestEditorConfig_NoFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".editorconfig"), []byte("root = true\n"), 0o600))
	p, err := settings.EditorConfig{}.Lookup(settings.File{Path: filepath.Join(dir, "x.txt")})
	require.NoError(t, err)
	assert.True(t, p.IsZero())
}

func TestManifestSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ManifestName)
	body := `[defaults]
tab_width = 4
trim_trailing_whitespace = false

[types."Go"]
indent_style = "tab"
tab_width = 8

[types."txt"]
indent_style = "space"
tab_width = 2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	m, err := project.LoadManifest(path)
	require.NoError(t, err)
	src := settings.ManifestSource{Manifest: m}

	p, err := src.Lookup(settings.File{Path: filepath.Join(dir, "main.go")})
	require.NoError(t, err)
	assert.Equal(t, 8, *p.TabWidth)
	assert.True(t, *p.UseTabs)
	assert.False(t, *p.Trim, "[defaults] fills the gaps")

	p, err = src.Lookup(settings.File{Path: filepath.Join(dir, "NOTES.TXT")})
	require.NoError(t, err)
	assert.Equal(t, 2, *p.TabWidth)
	assert.False(t, *p.UseTabs)

	p, err = src.Lookup(settings.File{Path: filepath.Join(dir, "unknown.zzz")})
	require.NoError(t, err)
	assert.Equal(t, 4, *p.TabWidth)
	assert.Nil(t, p.UseTabs)

	p, err = settings.ManifestSource{}.Lookup(settings.File{Path: "main.go"})
	require.NoError(t, err)
	assert.True(t, p.IsZero())
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "Go", settings.FileType("cmd/main.go", nil))
	assert.Equal(t, "Makefile", settings.FileType("Makefile", nil))
	assert.Equal(t, "", settings.FileType("data.zzz", nil))
	assert.True(t, settings.IsBinary([]byte{0x7f, 'E', 'L', 'F', 0, 0, 1}))
	assert.False(t, settings.IsBinary([]byte("plain text\n")))
	assert.True(t, settings.IsVendored("node_modules/left-pad/index.js"))
	assert.False(t, settings.IsVendored("src/index.js"))
}

func TestParseStyle(t *testing.T) {
	useTabs, ok := settings.ParseStyle("Tab")
	assert.True(t, ok)
	assert.True(t, useTabs)
	useTabs, ok = settings.ParseStyle("space")
	assert.True(t, ok)
	assert.False(t, useTabs)
	_, ok = settings.ParseStyle("auto")
	assert.False(t, ok)
}
