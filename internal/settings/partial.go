package settings

import (
	"strings"

	"unifile/internal/source"
)

// Partial is one layer of configuration. Nil fields are unset.
type Partial struct {
	TabWidth  *int
	UseTabs   *bool
	Trim      *bool
	EndOfLine *source.Terminator
	Charset   *string
	Realign   *bool
}

// Merge returns p with unset fields taken from lower.
func (p Partial) Merge(lower Partial) Partial {
	if p.TabWidth == nil {
		p.TabWidth = lower.TabWidth
	}
	if p.UseTabs == nil {
		p.UseTabs = lower.UseTabs
	}
	if p.Trim == nil {
		p.Trim = lower.Trim
	}
	if p.EndOfLine == nil {
		p.EndOfLine = lower.EndOfLine
	}
	if p.Charset == nil {
		p.Charset = lower.Charset
	}
	if p.Realign == nil {
		p.Realign = lower.Realign
	}
	return p
}

// IsZero reports whether no field is set.
func (p Partial) IsZero() bool {
	return p == Partial{}
}

// ParseStyle maps "tab"/"space" (any case) to UseTabs. ok is false otherwise.
func ParseStyle(s string) (useTabs, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tab", "tabs":
		return true, true
	case "space", "spaces":
		return false, true
	default:
		return false, false
	}
}

func ptr[T any](v T) *T { return &v }
