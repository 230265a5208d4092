package settings

import (
	"fmt"
	"strings"

	"unifile/internal/indent"
	"unifile/internal/source"
)

// Settings is the policy applied to one file.
type Settings struct {
	Indent    indent.Config      `json:"indent" msgpack:"indent"`
	Realign   bool               `json:"realign" msgpack:"realign"`
	EndOfLine *source.Terminator `json:"end_of_line,omitempty" msgpack:"eol"`
	// Charset is the output encoding; empty keeps the encoding the file was
	// read with.
	Charset   string   `json:"charset,omitempty" msgpack:"charset"`
	Encodings []string `json:"encodings" msgpack:"encodings"`
	// Origin names the layer each value came from, keyed by
	// tab_width, indent_style, trim, end_of_line, charset, realign.
	Origin map[string]Layer `json:"origin" msgpack:"-"`
}

// Encodings returns the decode candidates: the first charset any layer names,
// then fallback. Duplicates are dropped; an empty result becomes utf-8.
func Encodings(layers []Layered, fallback []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}
	for _, l := range layers {
		if l.Partial.Charset != nil {
			add(*l.Partial.Charset)
			break
		}
	}
	for _, name := range fallback {
		add(name)
	}
	if len(out) == 0 {
		out = append(out, source.UTF8)
	}
	return out
}

// Resolve folds layers (highest priority first) into Settings. census is only
// called when no layer decides the indent style.
func Resolve(layers []Layered, census func() (tabs, spaces int), encodings []string) (Settings, error) {
	s := Settings{
		Indent:    indent.DefaultConfig(),
		Encodings: encodings,
		Origin: map[string]Layer{
			"tab_width":    LayerDefault,
			"indent_style": LayerDefault,
			"trim":         LayerDefault,
			"end_of_line":  LayerDefault,
			"charset":      LayerDefault,
			"realign":      LayerDefault,
		},
	}

	var (
		widthSet, styleSet, trimSet, eolSet, charsetSet, realignSet bool
	)
	for _, l := range layers {
		p := l.Partial
		if !widthSet && p.TabWidth != nil {
			if *p.TabWidth <= 0 {
				return Settings{}, fmt.Errorf("%s: %w (got %d)", l.Layer, indent.ErrInvalidTabWidth, *p.TabWidth)
			}
			s.Indent.TabWidth, s.Origin["tab_width"], widthSet = *p.TabWidth, l.Layer, true
		}
		if !styleSet && p.UseTabs != nil {
			s.Indent.UseTabs, s.Origin["indent_style"], styleSet = *p.UseTabs, l.Layer, true
		}
		if !trimSet && p.Trim != nil {
			s.Indent.Trim, s.Origin["trim"], trimSet = *p.Trim, l.Layer, true
		}
		if !eolSet && p.EndOfLine != nil {
			s.EndOfLine, s.Origin["end_of_line"], eolSet = ptr(*p.EndOfLine), l.Layer, true
		}
		if !charsetSet && p.Charset != nil {
			s.Charset, s.Origin["charset"], charsetSet = *p.Charset, l.Layer, true
		}
		if !realignSet && p.Realign != nil {
			s.Realign, s.Origin["realign"], realignSet = *p.Realign, l.Layer, true
		}
	}

	if !styleSet && census != nil {
		tabs, spaces := census()
		// ничья -> пробелы
		s.Indent.UseTabs = tabs > spaces
		s.Origin["indent_style"] = LayerDetected
	}
	if len(s.Encodings) == 0 {
		s.Encodings = Encodings(layers, nil)
	}
	if err := s.Indent.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Pipeline returns the line pipeline for s.
func (s Settings) Pipeline() indent.Pipeline {
	return indent.Pipeline{Config: s.Indent, Realign: s.Realign}
}

// OutputEncoding returns the encoding to write with and whether a byte order
// mark is wanted, given what the input was decoded as. A configured UTF-16 or
// UTF-32 charset that the input already matches keeps its byte order and BOM.
func (s Settings) OutputEncoding(decoded source.Decoded) (name string, bom bool) {
	if s.Charset != "" {
		if source.WideMatch(s.Charset, decoded.Encoding) {
			return decoded.Encoding, decoded.HadBOM
		}
		return s.Charset, false
	}
	return decoded.Encoding, decoded.HadBOM
}

// Terminator picks the output line ending: the configured one, else detected.
func (s Settings) Terminator(detected source.Terminator) source.Terminator {
	if s.EndOfLine != nil {
		return *s.EndOfLine
	}
	return detected
}
