package indent

// Advance returns the display column that follows r when r starts at col.
func Advance(col int, r rune, tabWidth int) int {
	if r == '\t' {
		return col + TabStopOffset(col, tabWidth)
	}
	return col + 1
}

// TabStopOffset reports how many columns a tab placed at col occupies.
func TabStopOffset(col, tabWidth int) int {
	return tabWidth - col%tabWidth
}

// IsTabStop reports whether col is a multiple of tabWidth.
func IsTabStop(col, tabWidth int) bool {
	return col%tabWidth == 0
}

// FloorTabStop returns the nearest tab stop at or before col.
func FloorTabStop(col, tabWidth int) int {
	return col - col%tabWidth
}

// CeilTabStop returns the nearest tab stop at or after col.
func CeilTabStop(col, tabWidth int) int {
	if col%tabWidth == 0 {
		return col
	}
	return col + TabStopOffset(col, tabWidth)
}

// Width returns the number of display columns s occupies when it starts at start.
func Width(s string, start, tabWidth int) int {
	col := start
	for _, r := range s {
		col = Advance(col, r, tabWidth)
	}
	return col - start
}

// Columns returns the starting display column of every rune in s.
func Columns(s string, tabWidth int) []int {
	out := make([]int, 0, len(s))
	col := 0
	for _, r := range s {
		out = append(out, col)
		col = Advance(col, r, tabWidth)
	}
	return out
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isTerminator(r rune) bool {
	return r == '\r' || r == '\n'
}

// SplitTerminator separates the trailing line terminator (\r\n, \n or \r) from line.
func SplitTerminator(line string) (body, term string) {
	n := len(line)
	switch {
	case n >= 2 && line[n-2] == '\r' && line[n-1] == '\n':
		return line[:n-2], line[n-2:]
	case n >= 1 && (line[n-1] == '\n' || line[n-1] == '\r'):
		return line[:n-1], line[n-1:]
	default:
		return line, ""
	}
}
