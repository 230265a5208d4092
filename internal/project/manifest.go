package project

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"unifile/internal/source"
)

// Manifest is a decoded unifile.toml.
type Manifest struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Defaults IndentSection            `toml:"defaults"`
	Fix      FixSection               `toml:"fix"`
	Types    map[string]IndentSection `toml:"types"`
}

// IndentSection holds indentation settings. Unset keys stay nil so that lower
// priority layers can fill them.
type IndentSection struct {
	TabWidth               *int    `toml:"tab_width"`
	IndentStyle            *string `toml:"indent_style"`
	TrimTrailingWhitespace *bool   `toml:"trim_trailing_whitespace"`
	EndOfLine              *string `toml:"end_of_line"`
	Charset                *string `toml:"charset"`
	Realign                *bool   `toml:"realign"`
}

// FixSection holds defaults for `unifile fix` flags.
type FixSection struct {
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	Encodings []string `toml:"encodings"`
	Jobs      int      `toml:"jobs"`
}

// LoadManifest decodes and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	m.Root = filepath.Dir(path)
	return &m, nil
}

// LoadNearest finds and loads the manifest governing startDir. ok is false
// when there is none.
func LoadNearest(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Validate checks value ranges and patterns.
func (m *Manifest) Validate() error {
	if err := m.Defaults.validate("[defaults]"); err != nil {
		return err
	}
	for key, sec := range m.Types {
		if err := sec.validate(fmt.Sprintf("[types.%q]", key)); err != nil {
			return err
		}
	}
	if m.Fix.Jobs < 0 {
		return fmt.Errorf("[fix].jobs must not be negative, got %d", m.Fix.Jobs)
	}
	for _, pattern := range append(append([]string(nil), m.Fix.Include...), m.Fix.Exclude...) {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("[fix]: invalid pattern %q: %w", pattern, err)
		}
	}
	for _, enc := range m.Fix.Encodings {
		if err := source.ValidEncoding(enc); err != nil {
			return fmt.Errorf("[fix].encodings: %w", err)
		}
	}
	return nil
}

func (s IndentSection) validate(where string) error {
	if s.TabWidth != nil && *s.TabWidth <= 0 {
		return fmt.Errorf("%s.tab_width must be positive, got %d", where, *s.TabWidth)
	}
	if s.IndentStyle != nil {
		switch strings.ToLower(*s.IndentStyle) {
		case "tab", "space":
		default:
			return fmt.Errorf("%s.indent_style must be tab or space, got %q", where, *s.IndentStyle)
		}
	}
	if s.EndOfLine != nil {
		if _, err := source.ParseTerminator(*s.EndOfLine); err != nil {
			return fmt.Errorf("%s.end_of_line: %w", where, err)
		}
	}
	if s.Charset != nil {
		if err := source.ValidEncoding(*s.Charset); err != nil {
			return fmt.Errorf("%s.charset: %w", where, err)
		}
	}
	return nil
}

// Section returns the [types] section for the first key that has one.
func (m *Manifest) Section(keys ...string) (IndentSection, bool) {
	if m == nil {
		return IndentSection{}, false
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if sec, ok := m.Types[key]; ok {
			return sec, true
		}
	}
	return IndentSection{}, false
}

// Template is the manifest written by `unifile init`.
const Template = `# unifile project configuration.
# Command line flags and .editorconfig files take precedence over this file.

[defaults]
tab_width = 4
# indent_style = "space"          # "tab" | "space"; unset = majority of the file
trim_trailing_whitespace = true
# end_of_line = "lf"              # "lf" | "crlf" | "cr"; unset = keep
# charset = "utf-8"
realign = false

[fix]
include = []
exclude = []
encodings = ["utf-8"]
jobs = 0                          # 0 = one worker per CPU

# Sections are keyed by detected language name or file extension.
[types."Go"]
indent_style = "tab"

[types."Makefile"]
indent_style = "tab"

[types."YAML"]
indent_style = "space"
tab_width = 2
`
