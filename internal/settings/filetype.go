package settings

import (
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// FileType returns the language name of path, or "" when unknown. head is
// optional and only sharpens the guess.
func FileType(path string, head []byte) string {
	name := filepath.Base(path)
	if len(head) == 0 {
		if lang, safe := enry.GetLanguageByFilename(name); safe {
			return lang
		}
		lang, _ := enry.GetLanguageByExtension(name)
		return lang
	}
	return enry.GetLanguage(name, head)
}

// IsBinary reports whether data looks like binary content.
func IsBinary(data []byte) bool {
	return enry.IsBinary(data)
}

// IsVendored reports whether path is a vendored or generated location
// (node_modules/, vendor/, ...).
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}
