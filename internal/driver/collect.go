package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"unifile/internal/settings"
	"unifile/internal/source"
)

// Filter decides which files are processed.
type Filter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
	// SkipVendored drops vendored/generated locations (node_modules, vendor, ...).
	SkipVendored bool
}

// NewFilter compiles include and exclude patterns. Patterns match from the
// start of the lower-cased, slash-separated path, but need not match all of it.
func NewFilter(include, exclude []string) (Filter, error) {
	var f Filter
	var err error
	if f.Include, err = compilePatterns(include); err != nil {
		return Filter{}, fmt.Errorf("include: %w", err)
	}
	if f.Exclude, err = compilePatterns(exclude); err != nil {
		return Filter{}, fmt.Errorf("exclude: %w", err)
	}
	return f, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)`)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Match reports whether path passes the filter. Exclude wins over include.
func (f Filter) Match(path string) bool {
	key := strings.ToLower(source.SlashPath(path))
	if len(f.Include) > 0 && !anyMatch(f.Include, key) {
		return false
	}
	if anyMatch(f.Exclude, key) {
		return false
	}
	if f.SkipVendored && settings.IsVendored(key) {
		return false
	}
	return true
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// CollectFiles expands paths into a sorted, de-duplicated list of regular
// files. Directories are walked recursively. Any path with a component
// starting with a dot is skipped, including the given paths themselves. A path
// that does not exist is an error.
func CollectFiles(ctx context.Context, paths []string, filter Filter) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if !filter.Match(path) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if source.IsHidden(p) {
			continue
		}
		if !info.IsDir() {
			if info.Mode().IsRegular() {
				addFile(filepath.Clean(p))
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if path != p && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
