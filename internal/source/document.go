package source

import "strings"

// Document is decoded text cut into lines. Every line except possibly the last
// ends with Terminator; the last one does only when FinalTerminator is set.
type Document struct {
	Lines           []string
	Terminator      Terminator
	FinalTerminator bool
}

// Split cuts text at its detected terminator. Text without any line break is a
// single line; empty text has no lines.
func Split(text string) *Document {
	term, found := DetectTerminator(text)
	doc := &Document{Terminator: term}
	if text == "" {
		return doc
	}
	if !found {
		doc.Lines = []string{text}
		return doc
	}

	seq := term.Seq()
	lines := strings.SplitAfter(text, seq)
	// SplitAfter оставляет пустой хвост, если текст кончается переводом строки
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		doc.FinalTerminator = true
	}
	doc.Lines = lines
	return doc
}

// Text reassembles the document with its own terminator.
func (d *Document) Text() string {
	return d.Join(d.Lines, d.Terminator)
}

// Join reassembles lines (which carry d.Terminator) using term instead. The
// final terminator is written only if the document had one.
func (d *Document) Join(lines []string, term Terminator) string {
	seq, out := d.Terminator.Seq(), term.Seq()
	var b strings.Builder
	for i, line := range lines {
		last := i == len(lines)-1
		if last && !d.FinalTerminator {
			b.WriteString(line)
			break
		}
		b.WriteString(strings.TrimSuffix(line, seq))
		b.WriteString(out)
	}
	return b.String()
}

// LeadingCensus counts lines starting with a tab and lines starting with a space.
func LeadingCensus(lines []string) (tabs, spaces int) {
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "\t"):
			tabs++
		case strings.HasPrefix(line, " "):
			spaces++
		}
	}
	return tabs, spaces
}
