package indent

// Pipeline applies NormalizeIndent and, when Realign is set, Realign to lines.
// It holds no state between lines.
type Pipeline struct {
	Config  Config
	Realign bool
}

// Line transforms a single line.
func (p Pipeline) Line(line string) (string, error) {
	if err := p.Config.Validate(); err != nil {
		return "", err
	}
	return p.line(line)
}

func (p Pipeline) line(line string) (string, error) {
	out := NormalizeIndent(line, p.Config)
	if !p.Realign {
		return out, nil
	}
	return Realign(out, p.Config.TabWidth, p.Config.UseTabs)
}

// Lines transforms every line. The first failure stops processing and is
// returned as a *LineError carrying the 1-based line number.
func (p Pipeline) Lines(lines []string) ([]string, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		res, err := p.line(line)
		if err != nil {
			return nil, &LineError{Line: i + 1, Err: err}
		}
		out[i] = res
	}
	return out, nil
}
