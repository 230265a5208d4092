// Package settings resolves the indentation policy for a single file.
//
// Settings come in layers. Each layer is a Partial where unset values are nil;
// a higher layer wins field by field:
//
//	flags > .editorconfig > unifile.toml ([types] over [defaults]) > defaults
//
// Missing values fall back to tab width 4, trimming on, line endings kept, and
// tab indentation when most indented lines of the file start with a tab.
package settings
