package source

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// wideForm is one byte order of UTF-16 or UTF-32.
type wideForm struct {
	name string
	unit int
	bom  []byte
	enc  encoding.Encoding
}

var (
	utf16LE = wideForm{"utf-16le", 2, []byte{0xFF, 0xFE}, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	utf16BE = wideForm{"utf-16be", 2, []byte{0xFE, 0xFF}, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	utf32LE = wideForm{"utf-32le", 4, []byte{0xFF, 0xFE, 0x00, 0x00}, utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)}
	utf32BE = wideForm{"utf-32be", 4, []byte{0x00, 0x00, 0xFE, 0xFF}, utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)}
)

// wideFamilies maps a name to the byte orders it accepts, preferred first.
// The unqualified names sniff the BOM and default to little endian.
var wideFamilies = map[string][]wideForm{
	"utf-16":   {utf16LE, utf16BE},
	"utf-16le": {utf16LE},
	"utf-16be": {utf16BE},
	"utf-32":   {utf32LE, utf32BE},
	"utf-32le": {utf32LE},
	"utf-32be": {utf32BE},
}

// IsWide reports whether name is a UTF-16 or UTF-32 encoding. Text in these
// encodings contains NUL bytes and looks binary to content sniffing.
func IsWide(name string) bool {
	_, ok := wideFamilies[canonicalName(name)]
	return ok
}

// WideOnly keeps the UTF-16 and UTF-32 names of candidates, in order.
func WideOnly(candidates []string) []string {
	var out []string
	for _, name := range candidates {
		if IsWide(name) {
			out = append(out, name)
		}
	}
	return out
}

func decodeWide(data []byte, forms []wideForm) (Decoded, error) {
	form, hadBOM := forms[0], false
	for _, f := range forms {
		if bytes.HasPrefix(data, f.bom) {
			form, hadBOM = f, true
			break
		}
	}
	body := data
	if hadBOM {
		body = data[len(form.bom):]
	}
	if len(body)%form.unit != 0 {
		return Decoded{}, fmt.Errorf("%s: truncated input (%d bytes)", form.name, len(data))
	}
	out, err := form.enc.NewDecoder().Bytes(body)
	if err != nil {
		return Decoded{}, fmt.Errorf("%s: %w", form.name, err)
	}
	return Decoded{Text: string(out), Encoding: form.name, HadBOM: hadBOM}, nil
}

func encodeWide(text string, form wideForm, bom bool) ([]byte, error) {
	out, err := form.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", form.name, err)
	}
	if bom {
		out = append(append([]byte(nil), form.bom...), out...)
	}
	return out, nil
}

// WideMatch reports whether decoded, a concrete form returned by Decode,
// belongs to the UTF-16 or UTF-32 family called name.
func WideMatch(name, decoded string) bool {
	forms, ok := wideFamilies[canonicalName(name)]
	if !ok {
		return false
	}
	decoded = canonicalName(decoded)
	for _, f := range forms {
		if f.name == decoded {
			return true
		}
	}
	return false
}
