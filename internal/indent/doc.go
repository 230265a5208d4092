// Package indent implements the line-level indentation transforms used by unifile.
//
// Every function in this package works on a single line of text and a fixed
// configuration. Nothing is shared between calls, so callers are free to run
// lines (or whole files) concurrently.
//
// # Columns
//
// A display column is not a character offset. A tab advances to the next
// multiple of the tab width, every other character advances by one column:
//
//	col = Advance(col, r, tabWidth)
//
// All transforms use Advance and the tab stop helpers in column.go, so a line
// rewritten by ExpandLine, CollapseLine or Realign keeps the column math of the
// line it came from.
//
// # Transforms
//
//   - ExpandLine: tabs become spaces (space indentation).
//   - CollapseLine: space runs that reach a tab stop become tabs (tab indentation).
//   - Realign: whitespace separated chunks are moved onto tab stops.
//
// NormalizeIndent selects ExpandLine or CollapseLine from a Config, and Pipeline
// chains NormalizeIndent with an optional Realign for every line of a file.
package indent
