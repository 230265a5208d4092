package indent

import "strings"

// Chunk is a maximal run of non-blank runes on a line, or the line terminator
// that closes the line. Chunks live only for one Realign call.
type Chunk struct {
	Text    string
	Offset  int // rune offset in the line
	Before  int // display width of the blank run in front of the chunk
	Natural int // column in the input line
	Target  int // column in the output line
	Width   int // display width of Text measured from column 0
	Pushed  bool

	terminator bool
}

// IsTerminator reports whether c is the closing terminator chunk.
func (c Chunk) IsTerminator() bool {
	return c.terminator
}

// End is the first column after the chunk at its target position.
func (c Chunk) End() int {
	return c.Target + c.Width
}

// Realign moves every chunk of line onto a tab stop. The first chunk snaps down
// to the nearest tab stop; later chunks snap down too unless that would leave
// less than one tab width after the previous chunk, in which case they are
// pushed right to the next tab stop past that gap. A push can cascade into the
// following chunk. Gaps are filled with tabs when useTabs is set, spaces
// otherwise. Trailing blanks keep their display width after the last chunk;
// trimming them is NormalizeIndent's job.
func Realign(line string, tabWidth int, useTabs bool) (string, error) {
	if tabWidth <= 0 {
		return "", ErrInvalidTabWidth
	}
	chunks := Segment(line, tabWidth)
	if len(chunks) == 0 {
		return "", &InvariantError{Op: "segment", Reason: "no chunks produced"}
	}
	if err := Align(chunks, tabWidth); err != nil {
		return "", err
	}
	return Emit(chunks, tabWidth, useTabs)
}

// Segment splits line into chunks. The last chunk always holds the line
// terminator, which may be empty.
func Segment(line string, tabWidth int) []Chunk {
	body, term := SplitTerminator(line)
	runes := []rune(body)

	var chunks []Chunk
	col := 0
	blankFrom := 0 // column where the current blank run started
	open := -1     // rune offset of the chunk being read, -1 between chunks
	natural, before := 0, 0
	for i, r := range runes {
		if isBlank(r) {
			if open >= 0 {
				chunks = append(chunks, newChunk(runes[open:i], open, before, natural, tabWidth))
				open = -1
				blankFrom = col
			}
			col = Advance(col, r, tabWidth)
			continue
		}
		if open < 0 {
			// граница пробельного прогона: новый чанк
			open, natural, before = i, col, col-blankFrom
		}
		col = Advance(col, r, tabWidth)
	}
	if open >= 0 {
		chunks = append(chunks, newChunk(runes[open:], open, before, natural, tabWidth))
		blankFrom = col
	}

	chunks = append(chunks, Chunk{
		Text:       term,
		Offset:     len(runes),
		Before:     col - blankFrom,
		Natural:    col,
		Target:     col,
		terminator: true,
	})
	return chunks
}

func newChunk(text []rune, offset, before, natural, tabWidth int) Chunk {
	s := string(text)
	return Chunk{
		Text:    s,
		Offset:  offset,
		Before:  before,
		Natural: natural,
		Target:  natural,
		Width:   Width(s, 0, tabWidth),
	}
}

// Align assigns a target column to every chunk, left to right.
func Align(chunks []Chunk, tabWidth int) error {
	for i := range chunks {
		c := &chunks[i]
		if c.terminator {
			// хвостовые пробелы сохраняют ширину, а не колонку
			c.Target = c.Before
			if i > 0 {
				c.Target += chunks[i-1].End()
			}
			continue
		}
		c.Target = c.Natural
		if i == 0 {
			c.Target = FloorTabStop(c.Natural, tabWidth)
			continue
		}

		prev := chunks[i-1]
		minCol := prev.End() + tabWidth
		if !c.Pushed && !IsTabStop(c.Natural, tabWidth) {
			snapped := FloorTabStop(c.Natural, tabWidth)
			if snapped < minCol {
				c.Pushed = true
			} else {
				c.Target = snapped
			}
		}
		if !c.Pushed {
			continue
		}

		pushed := CeilTabStop(minCol, tabWidth)
		if pushed < c.Target {
			return &InvariantError{
				Op:     "align",
				Offset: c.Offset,
				Column: pushed,
				Target: c.Target,
				Reason: "pushed column is left of the assigned target",
			}
		}
		c.Target = pushed

		// сдвиг вправо может наехать на следующий чанк
		if i+1 < len(chunks) {
			next := &chunks[i+1]
			if !next.terminator && next.Natural < c.End()+tabWidth {
				next.Pushed = true
			}
		}
	}
	return nil
}

// Emit writes the chunks at their target columns.
func Emit(chunks []Chunk, tabWidth int, useTabs bool) (string, error) {
	var out strings.Builder
	col := 0
	for _, c := range chunks {
		if c.Target < col {
			return "", &InvariantError{
				Op:     "emit",
				Offset: c.Offset,
				Column: col,
				Target: c.Target,
				Reason: "fill would move backwards",
			}
		}
		fill(&out, col, c.Target, tabWidth, useTabs)
		out.WriteString(c.Text)
		col = c.Target + c.Width
	}
	return out.String(), nil
}

func fill(out *strings.Builder, from, to, tabWidth int, useTabs bool) {
	col := from
	for col < to {
		if useTabs {
			if next := col + TabStopOffset(col, tabWidth); next <= to {
				out.WriteByte('\t')
				col = next
				continue
			}
		}
		out.WriteByte(' ')
		col++
	}
}
