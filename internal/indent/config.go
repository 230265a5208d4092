package indent

import "fmt"

// DefaultTabWidth is used when nothing else configures a tab width.
const DefaultTabWidth = 4

// Config is the per-file indentation policy.
type Config struct {
	TabWidth int  `json:"tab_width" msgpack:"tab_width"`
	UseTabs  bool `json:"use_tabs" msgpack:"use_tabs"`
	Trim     bool `json:"trim" msgpack:"trim"`
}

// DefaultConfig returns space indentation, tab width 4, trimming on.
func DefaultConfig() Config {
	return Config{TabWidth: DefaultTabWidth, Trim: true}
}

// Validate reports whether c can be handed to the transforms.
func (c Config) Validate() error {
	if c.TabWidth <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTabWidth, c.TabWidth)
	}
	return nil
}

// Style returns "tab" or "space".
func (c Config) Style() string {
	if c.UseTabs {
		return "tab"
	}
	return "space"
}

// NormalizeIndent rewrites line with tabs (CollapseLine) or spaces (ExpandLine)
// depending on cfg.UseTabs. It panics with ErrInvalidTabWidth when
// cfg.TabWidth is not positive; Pipeline validates the Config first and
// returns the error instead.
func NormalizeIndent(line string, cfg Config) string {
	if cfg.UseTabs {
		return CollapseLine(line, cfg.TabWidth, cfg.Trim)
	}
	return ExpandLine(line, cfg.TabWidth, cfg.Trim)
}

// mustTabWidth panics on a width the column model cannot divide by.
func mustTabWidth(tabWidth int) {
	if tabWidth <= 0 {
		panic(fmt.Errorf("%w: got %d", ErrInvalidTabWidth, tabWidth))
	}
}
