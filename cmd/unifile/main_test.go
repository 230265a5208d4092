package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifile/internal/project"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFixInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "    a  \n        b\n")

	stdout, _, err := runCLI(t, "fix", "--no-editorconfig", "--ui", "off", "-c", "tab", "-s", "4", dir)
	require.NoError(t, err)
	assert.Equal(t, "\ta\n\t\tb\n", readFile(t, path))
	assert.Contains(t, stdout, "fixed "+path)
}

func TestCheckReportsAndLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.txt", "  x\n")
	writeFile(t, dir, "clean.txt", "\tx\n")

	stdout, stderr, err := runCLI(t, "check", "--no-editorconfig", "--ui", "off", "-c", "tab", "-s", "2", dir)
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, dirty+"\n", stdout)
	assert.Contains(t, stderr, "1 file(s) would change")
	assert.Equal(t, "  x\n", readFile(t, dirty))
}

func TestCheckCleanTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clean.txt", "\tx\n")

	_, _, err := runCLI(t, "fix", "--check", "--no-editorconfig", "--ui", "off", "-c", "tab", dir)
	require.NoError(t, err)
}

func TestFixStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "\tx\r\n")

	stdout, _, err := runCLI(t, "fix", "--no-editorconfig", "--stdout", "-c", "space", "-s", "2", "-l", "lf", path)
	require.NoError(t, err)
	assert.Equal(t, "  x\n", stdout)
	assert.Equal(t, "\tx\r\n", readFile(t, path))
}

func TestFixDiff(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "keep\n\tx\n")

	stdout, stderr, err := runCLI(t, "fix", "--no-editorconfig", "--diff", "-c", "space", "-s", "4", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "-\tx\n")
	assert.Contains(t, stdout, "+    x\n")
	assert.Contains(t, stderr, "1 insertions(+)")
	assert.Equal(t, "keep\n\tx\n", readFile(t, path))
}

func TestFixJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "  x\n")
	writeFile(t, dir, "b.bin", "\x00\x01\x02")

	stdout, _, err := runCLI(t, "check", "--no-editorconfig", "--format", "json", "-c", "tab", "-s", "2", dir)
	require.ErrorIs(t, err, errReported)

	var payload []jsonResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Len(t, payload, 2)
	assert.True(t, payload[0].Changed)
	require.NotNil(t, payload[0].Settings)
	assert.Equal(t, 2, payload[0].Settings.Indent.TabWidth)
	assert.True(t, payload[1].Skipped)
	assert.Equal(t, "binary", payload[1].SkipReason)
}

func TestFixOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	path := writeFile(t, dir, "sub/a.txt", "  x\n")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, _, err = runCLI(t, "fix", "--no-editorconfig", "--ui", "off", "-c", "tab", "-s", "2", "-o", out, "sub")
	require.NoError(t, err)
	assert.Equal(t, "\tx\n", readFile(t, filepath.Join(out, "sub", "a.txt")))
	assert.Equal(t, "  x\n", readFile(t, path))
}

func TestFixManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, project.ManifestName, `
[defaults]
indent_style = "tab"
tab_width = 2

[fix]
exclude = [".*\\.skip$"]
`)
	kept := writeFile(t, dir, "a.txt", "  x\n")
	skipped := writeFile(t, dir, "b.skip", "  x\n")

	_, _, err := runCLI(t, "fix", "--no-editorconfig", "--ui", "off", dir)
	require.NoError(t, err)
	assert.Equal(t, "\tx\n", readFile(t, kept))
	assert.Equal(t, "  x\n", readFile(t, skipped))

	// флаг перекрывает [fix].exclude
	_, _, err = runCLI(t, "fix", "--no-editorconfig", "--ui", "off", "-x", "nothing", dir)
	require.NoError(t, err)
	assert.Equal(t, "\tx\n", readFile(t, skipped))
}

func TestFixEditorConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".editorconfig", "root = true\n\n[*.mk]\nindent_style = tab\nindent_size = 2\n")
	path := writeFile(t, dir, "rules.mk", "  x\n")

	_, _, err := runCLI(t, "fix", "--ui", "off", dir)
	require.NoError(t, err)
	assert.Equal(t, "\tx\n", readFile(t, path))
}

func TestFixFailureExitStatus(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "\xff\xfe broken\n")

	_, stderr, err := runCLI(t, "fix", "--no-editorconfig", "--ui", "off", "-e", "utf-8", path)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "unifile: "+path+": decode:")
}

func TestFixFlagErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x\n")

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"indent char", []string{"-c", "both"}, "--indent-char"},
		{"tab size", []string{"-s", "0"}, "--tab-size must be positive"},
		{"trim", []string{"-t", "maybe"}, "--trim"},
		{"line endings", []string{"-l", "nel"}, "--line-endings"},
		{"encoding", []string{"-e", "no-such-charset"}, "--encoding"},
		{"include", []string{"-i", "("}, "include"},
		{"modes", []string{"--stdout", "--diff"}, "mutually exclusive"},
		{"output with check", []string{"--check", "-o", dir}, "--output"},
		{"format", []string{"--format", "xml"}, "unsupported output format"},
		{"ui", []string{"--ui", "maybe"}, "--ui"},
		{"jobs", []string{"--jobs", "-1"}, "--jobs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"fix", "--no-editorconfig"}, tc.args...)
			_, _, err := runCLI(t, append(args, dir)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Equal(t, "x\n", readFile(t, filepath.Join(dir, "a.txt")))
		})
	}
}

func TestFixMissingPath(t *testing.T) {
	_, _, err := runCLI(t, "fix", "--no-editorconfig", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
}

func TestInitWritesTemplate(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCLI(t, "init", dir)
	require.NoError(t, err)
	path := filepath.Join(dir, project.ManifestName)
	assert.Contains(t, stdout, path)
	assert.Equal(t, project.Template, readFile(t, path))

	_, err = project.LoadManifest(path)
	require.NoError(t, err)

	_, _, err = runCLI(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runCLI(t, "init", "--force", dir)
	require.NoError(t, err)
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := runCLI(t, "version", "--format", "json", "--full")
	require.NoError(t, err)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "unifile", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.NotEmpty(t, payload.GitCommit)

	_, _, err = runCLI(t, "version", "--format", "yaml")
	require.Error(t, err)
}

func TestResolveColor(t *testing.T) {
	on, err := resolveColor("on", false)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := resolveColor("off", true)
	require.NoError(t, err)
	assert.False(t, off)

	auto, err := resolveColor("auto", false)
	require.NoError(t, err)
	assert.False(t, auto)

	_, err = resolveColor("sometimes", true)
	require.Error(t, err)
}

func TestUIMode(t *testing.T) {
	mode, err := readUIMode("ON")
	require.NoError(t, err)
	assert.Equal(t, uiModeOn, mode)
	assert.True(t, shouldUseTUI(uiModeOn, false))
	assert.False(t, shouldUseTUI(uiModeOn, true))
	assert.False(t, shouldUseTUI(uiModeOff, false))

	_, err = readUIMode("loud")
	require.Error(t, err)
}

func TestTraceToFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "  x\n")
	tracePath := filepath.Join(t.TempDir(), "run.ndjson")

	_, _, err := runCLI(t, "--trace", tracePath, "--trace-level", "debug",
		"fix", "--no-editorconfig", "--ui", "off", "--check", dir)
	require.NoError(t, err)
	data := readFile(t, tracePath)
	assert.Contains(t, data, `"name":"fix"`)
}

func TestFixCacheClear(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x\n")

	_, _, err := runCLI(t, "fix", "--no-editorconfig", "--ui", "off", "--cache", dir)
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(cacheHome, "unifile", "files"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	_, stderr, err := runCLI(t, "fix", "--no-editorconfig", "--ui", "off", "--cache-clear", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "cache cleared: "+filepath.Join(cacheHome, "unifile"))
	entries, err = os.ReadDir(filepath.Join(cacheHome, "unifile", "files"))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestTimings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x\n")

	_, stderr, err := runCLI(t, "--timings", "fix", "--no-editorconfig", "--ui", "off", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "timings:")
	assert.Contains(t, stderr, "collect")
}
