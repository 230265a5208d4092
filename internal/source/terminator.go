package source

import (
	"fmt"
	"strings"
)

// Terminator is a line ending convention.
type Terminator uint8

const (
	// LF is "\n".
	LF Terminator = iota
	// CRLF is "\r\n".
	CRLF
	// CR is "\r".
	CR
)

// Seq returns the characters of the terminator.
func (t Terminator) Seq() string {
	switch t {
	case CRLF:
		return "\r\n"
	case CR:
		return "\r"
	default:
		return "\n"
	}
}

// String returns the editorconfig spelling: lf, crlf or cr.
func (t Terminator) String() string {
	switch t {
	case CRLF:
		return "crlf"
	case CR:
		return "cr"
	default:
		return "lf"
	}
}

// ParseTerminator accepts lf, crlf or cr in any case.
func ParseTerminator(s string) (Terminator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	case "cr":
		return CR, nil
	default:
		return LF, fmt.Errorf("invalid line ending %q (expected lf|crlf|cr)", s)
	}
}

// detectOrder: "\r\n" must be tried before its parts.
var detectOrder = [...]Terminator{CRLF, LF, CR}

// DetectTerminator returns the first of \r\n, \n, \r that occurs in text.
// ok is false when text has no line break at all; LF is reported then.
func DetectTerminator(text string) (term Terminator, ok bool) {
	for _, t := range detectOrder {
		if strings.Contains(text, t.Seq()) {
			return t, true
		}
	}
	return LF, false
}
