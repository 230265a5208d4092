package indent

import "strings"

// run accumulates whitespace that has been read but not yet written.
// col is the display column of the written output plus any pending tabs;
// pending spaces are not part of it until they are flushed.
type run struct {
	out    strings.Builder
	col    int
	tabs   int
	spaces int
}

func (r *run) empty() bool {
	return r.tabs == 0 && r.spaces == 0
}

// flush writes pending tabs first, then pending spaces.
func (r *run) flush() {
	for ; r.tabs > 0; r.tabs-- {
		r.out.WriteByte('\t')
	}
	for i := 0; i < r.spaces; i++ {
		r.out.WriteByte(' ')
	}
	r.col += r.spaces
	r.spaces = 0
}

// drop forgets pending whitespace without writing it.
func (r *run) drop() {
	r.tabs = 0
	r.spaces = 0
}

// settle is called before a non-blank rune: pending whitespace is written,
// unless trimming is on and the rune ends the line.
func (r *run) settle(next rune, trim bool) {
	if trim && isTerminator(next) {
		r.drop()
		return
	}
	r.flush()
}

// finish handles whitespace still pending when the line has no terminator.
func (r *run) finish(trim bool) string {
	if trim {
		r.drop()
	} else {
		r.flush()
	}
	return r.out.String()
}
