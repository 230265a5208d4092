package source

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

const (
	// UTF8 is the default and last-resort encoding.
	UTF8 = "utf-8"
	// UTF8BOM is UTF-8 written with a byte order mark (editorconfig spelling).
	UTF8BOM = "utf-8-bom"
)

// ErrNoEncoding is returned by Decode when no candidates were given.
var ErrNoEncoding = errors.New("source: no encoding candidates")

// Decoded is the result of Decode.
type Decoded struct {
	Text     string
	Encoding string // candidate name that succeeded, lower-cased
	HadBOM   bool
}

// Decode tries every candidate encoding in order and returns the first that
// accepts data. UTF-8 must be valid; a UTF-8 byte order mark is stripped and
// reported. UTF-16 and UTF-32 pick their byte order from a BOM when there is
// one and report the concrete form (utf-16le, ...) as Encoding. When every
// candidate fails the last error is returned.
func Decode(data []byte, candidates []string) (Decoded, error) {
	if len(candidates) == 0 {
		return Decoded{}, ErrNoEncoding
	}
	var lastErr error
	for _, name := range candidates {
		dec, err := decodeAs(data, canonicalName(name))
		if err != nil {
			lastErr = err
			continue
		}
		return dec, nil
	}
	return Decoded{}, lastErr
}

func decodeAs(data []byte, name string) (Decoded, error) {
	if isUTF8(name) {
		body, bom := removeBOM(data)
		if !utf8.Valid(body) {
			return Decoded{}, fmt.Errorf("%s: invalid byte sequence", name)
		}
		return Decoded{Text: string(body), Encoding: name, HadBOM: bom}, nil
	}
	if forms, ok := wideFamilies[name]; ok {
		return decodeWide(data, forms)
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return Decoded{}, err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return Decoded{}, fmt.Errorf("%s: %w", name, err)
	}
	return Decoded{Text: string(out), Encoding: name}, nil
}

// Encode converts text to the named encoding. For UTF-8 a byte order mark is
// written when bom is set or the name is utf-8-bom; for UTF-16 and UTF-32 when
// bom is set. Unqualified utf-16 and utf-32 are written little endian.
func Encode(text, name string, bom bool) ([]byte, error) {
	name = canonicalName(name)
	if isUTF8(name) {
		if bom || name == UTF8BOM {
			return append([]byte{0xEF, 0xBB, 0xBF}, text...), nil
		}
		return []byte(text), nil
	}
	if forms, ok := wideFamilies[name]; ok {
		return encodeWide(text, forms[0], bom)
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// ValidEncoding reports whether name can be used with Decode and Encode.
func ValidEncoding(name string) error {
	name = canonicalName(name)
	if isUTF8(name) || IsWide(name) {
		return nil
	}
	_, err := lookupEncoding(name)
	return err
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}

func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "utf8":
		return UTF8
	case "utf-8-sig", "utf8-bom":
		return UTF8BOM
	case "utf16", "utf16le", "utf16be", "utf32", "utf32le", "utf32be":
		return "utf-" + name[3:]
	}
	return name
}

func isUTF8(name string) bool {
	return name == UTF8 || name == UTF8BOM
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}
