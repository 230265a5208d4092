package driver

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/pmezard/go-difflib/difflib"

	"unifile/internal/source"
)

// diffContext is the number of unchanged lines around each hunk.
const diffContext = 3

// UnifiedDiff renders the change from before to after as a unified diff with
// a/ and b/ prefixed headers. Identical inputs give "".
func UnifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	name := strings.TrimPrefix(source.SlashPath(path), "/")
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContext,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return text, nil
}

// DiffStat counts added and deleted lines in a unified diff.
func DiffStat(diff string) (added, deleted int, err error) {
	if diff == "" {
		return 0, 0, nil
	}
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err != nil {
		return 0, 0, fmt.Errorf("diffstat: %w", err)
	}
	var add, del int64
	for _, f := range files {
		for _, frag := range f.TextFragments {
			add += frag.LinesAdded
			del += frag.LinesDeleted
		}
	}
	if added, err = safecast.Conv[int](add); err != nil {
		return 0, 0, err
	}
	if deleted, err = safecast.Conv[int](del); err != nil {
		return 0, 0, err
	}
	return added, deleted, nil
}
