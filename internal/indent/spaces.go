package indent

// ExpandLine rewrites line so that every tab becomes the spaces needed to reach
// the same display column. With trim set, whitespace directly before a line
// terminator is removed.
//
// The result never contains a tab and every non-blank rune keeps its column.
// A tabWidth below 1 panics with ErrInvalidTabWidth.
func ExpandLine(line string, tabWidth int, trim bool) string {
	mustTabWidth(tabWidth)
	var acc run
	acc.out.Grow(len(line))
	for _, r := range line {
		switch r {
		case '\t':
			// таб не пишем сразу: за ним могут идти ещё пробелы или табы
			acc.spaces += TabStopOffset(acc.col+acc.spaces, tabWidth)
		case ' ':
			acc.spaces++
		default:
			acc.settle(r, trim)
			acc.out.WriteRune(r)
			acc.col++
		}
	}
	return acc.finish(trim)
}
