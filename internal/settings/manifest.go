package settings

import (
	"strings"

	"unifile/internal/project"
	"unifile/internal/source"
)

// ManifestSource serves settings from unifile.toml. The [types] section keyed
// by the detected language wins over the one keyed by extension; both win over
// [defaults].
type ManifestSource struct {
	Manifest *project.Manifest
}

// Lookup implements Source.
func (s ManifestSource) Lookup(file File) (Partial, error) {
	if s.Manifest == nil {
		return Partial{}, nil
	}
	base := fromSection(s.Manifest.Defaults)
	sec, ok := s.Manifest.Section(FileType(file.Path, file.Head), Extension(file.Path))
	if !ok {
		return base, nil
	}
	return fromSection(sec).Merge(base), nil
}

// Values were checked by project.Manifest.Validate; anything unparsable is
// simply skipped.
func fromSection(sec project.IndentSection) Partial {
	var p Partial
	if sec.TabWidth != nil && *sec.TabWidth > 0 {
		p.TabWidth = ptr(*sec.TabWidth)
	}
	if sec.IndentStyle != nil {
		if useTabs, ok := ParseStyle(*sec.IndentStyle); ok {
			p.UseTabs = ptr(useTabs)
		}
	}
	if sec.TrimTrailingWhitespace != nil {
		p.Trim = ptr(*sec.TrimTrailingWhitespace)
	}
	if sec.EndOfLine != nil {
		if term, err := source.ParseTerminator(*sec.EndOfLine); err == nil {
			p.EndOfLine = ptr(term)
		}
	}
	if sec.Charset != nil && strings.TrimSpace(*sec.Charset) != "" {
		p.Charset = ptr(*sec.Charset)
	}
	if sec.Realign != nil {
		p.Realign = ptr(*sec.Realign)
	}
	return p
}
