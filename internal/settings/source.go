package settings

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Layer names the origin of a resolved value.
type Layer string

const (
	LayerFlag         Layer = "flag"
	LayerEditorConfig Layer = "editorconfig"
	LayerManifest     Layer = "manifest"
	LayerDefault      Layer = "default"
	LayerDetected     Layer = "detected"
)

// File identifies the file a Source is asked about. Head holds the first bytes
// of its content and may be empty.
type File struct {
	Path string
	Head []byte
}

// Source is a configuration provider consulted once per file.
type Source interface {
	Lookup(file File) (Partial, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(file File) (Partial, error)

// Lookup calls f.
func (f SourceFunc) Lookup(file File) (Partial, error) {
	return f(file)
}

// Layered is a Partial tagged with its origin.
type Layered struct {
	Layer   Layer
	Partial Partial
}

// Named pairs a Source with the layer it represents.
type Named struct {
	Layer  Layer
	Source Source
}

// Chain consults sources in priority order.
type Chain []Named

// Layers asks every source about file, highest priority first.
func (c Chain) Layers(file File) ([]Layered, error) {
	out := make([]Layered, 0, len(c))
	for _, named := range c {
		if named.Source == nil {
			continue
		}
		p, err := named.Source.Lookup(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", named.Layer, err)
		}
		out = append(out, Layered{Layer: named.Layer, Partial: p})
	}
	return out, nil
}

// Lookup merges all layers into one Partial.
func (c Chain) Lookup(file File) (Partial, error) {
	layers, err := c.Layers(file)
	if err != nil {
		return Partial{}, err
	}
	var merged Partial
	for _, l := range layers {
		merged = merged.Merge(l.Partial)
	}
	return merged, nil
}

// Extension returns the lower-case extension of path without the dot.
func Extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
