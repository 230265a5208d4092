package indent

// CollapseLine rewrites line so that runs of blanks which reach a tab stop are
// written as tabs. Blanks that stop short of a tab stop stay spaces, and a
// single space between two words is never turned into a tab. With trim set,
// whitespace directly before a line terminator is removed.
//
// Every non-blank rune keeps its display column. A tabWidth below 1 panics
// with ErrInvalidTabWidth.
func CollapseLine(line string, tabWidth int, trim bool) string {
	mustTabWidth(tabWidth)
	runes := []rune(line)
	var acc run
	acc.out.Grow(len(line))
	for i, r := range runes {
		switch r {
		case '\t':
			// pending spaces never reached a tab stop, so the tab absorbs them
			acc.tabs++
			acc.col += TabStopOffset(acc.col, tabWidth)
			acc.spaces = 0
		case ' ':
			if acc.empty() && !opensRun(runes, i+1) {
				acc.out.WriteByte(' ')
				acc.col++
				continue
			}
			acc.spaces++
			if IsTabStop(acc.col+acc.spaces, tabWidth) {
				acc.tabs++
				acc.col += acc.spaces
				acc.spaces = 0
			}
		default:
			acc.settle(r, trim)
			acc.out.WriteRune(r)
			acc.col++
		}
	}
	return acc.finish(trim)
}

// opensRun reports whether the rune at i continues a blank run. The end of the
// line counts as a terminator.
func opensRun(runes []rune, i int) bool {
	if i >= len(runes) {
		return true
	}
	return isBlank(runes[i]) || isTerminator(runes[i])
}
