package settings

import (
	"strconv"
	"strings"

	"github.com/editorconfig/editorconfig-core-go/v2"

	"unifile/internal/source"
)

// RealignKey is the .editorconfig property that turns on column realignment.
const RealignKey = "unifile_realign"

// EditorConfig reads .editorconfig files governing a path.
type EditorConfig struct {
	// OnError receives files that could not be parsed. The lookup itself
	// then yields an empty layer.
	OnError func(path string, err error)
}

// Lookup implements Source.
func (e EditorConfig) Lookup(file File) (Partial, error) {
	def, err := editorconfig.GetDefinitionForFilename(file.Path)
	if err != nil {
		if e.OnError != nil {
			e.OnError(file.Path, err)
		}
		return Partial{}, nil
	}
	return fromDefinition(def), nil
}

func fromDefinition(def *editorconfig.Definition) Partial {
	var p Partial
	if def == nil {
		return p
	}
	if useTabs, ok := ParseStyle(def.IndentStyle); ok {
		p.UseTabs = ptr(useTabs)
	}
	if width, ok := editorconfigWidth(def); ok {
		p.TabWidth = ptr(width)
	}
	if raw, ok := def.Raw["trim_trailing_whitespace"]; ok {
		if trim, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
			p.Trim = ptr(trim)
		}
	}
	if def.EndOfLine != "" {
		if term, err := source.ParseTerminator(def.EndOfLine); err == nil {
			p.EndOfLine = ptr(term)
		}
	}
	if def.Charset != "" && source.ValidEncoding(def.Charset) == nil {
		p.Charset = ptr(def.Charset)
	}
	if raw, ok := def.Raw[RealignKey]; ok {
		if realign, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
			p.Realign = ptr(realign)
		}
	}
	return p
}

// editorconfigWidth prefers indent_size and falls back to tab_width when
// indent_size is "tab" or missing.
func editorconfigWidth(def *editorconfig.Definition) (int, bool) {
	size := strings.ToLower(strings.TrimSpace(def.IndentSize))
	if size != "" && size != "tab" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			return n, true
		}
	}
	if def.TabWidth > 0 {
		return def.TabWidth, true
	}
	return 0, false
}
