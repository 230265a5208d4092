package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"unifile/internal/driver"
	"unifile/internal/settings"
)

type fixSummary struct {
	changed int
	failed  int
	skipped int
}

func (s *fixSummary) add(res driver.FixResult) {
	switch {
	case res.Err != nil:
		s.failed++
	case res.Skipped:
		s.skipped++
	case res.Changed:
		s.changed++
	}
}

func renderFixText(out, errOut io.Writer, results []driver.FixResult, check, quiet bool) fixSummary {
	var summary fixSummary
	for _, res := range results {
		summary.add(res)
		if res.Err != nil {
			printFileError(errOut, res)
			continue
		}
		if quiet || res.Skipped || !res.Changed {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
			continue
		}
		target := res.Path
		if res.Output != "" && res.Output != res.Path {
			target = res.Path + " -> " + res.Output
		}
		fmt.Fprintf(out, "%s %s\n", changedColor.Sprint("fixed"), target)
	}
	return summary
}

func renderFixStdout(out, errOut io.Writer, results []driver.FixResult) fixSummary {
	var summary fixSummary
	for _, res := range results {
		summary.add(res)
		if res.Err != nil {
			printFileError(errOut, res)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
	return summary
}

func renderFixDiff(out, errOut io.Writer, results []driver.FixResult) fixSummary {
	var summary fixSummary
	var added, deleted int
	for _, res := range results {
		summary.add(res)
		if res.Err != nil {
			printFileError(errOut, res)
			continue
		}
		if res.Diff == "" {
			continue
		}
		writeColoredDiff(out, res.Diff)
		added += res.Added
		deleted += res.Deleted
	}
	if summary.changed > 0 {
		fmt.Fprintf(errOut, "%d file(s) changed, %s, %s\n", summary.changed,
			addedColor.Sprintf("%d insertions(+)", added),
			deletedColor.Sprintf("%d deletions(-)", deleted))
	}
	return summary
}

func writeColoredDiff(out io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			headerColor.Fprint(out, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(out, line)
		case strings.HasPrefix(line, "+"):
			addedColor.Fprint(out, line)
		case strings.HasPrefix(line, "-"):
			deletedColor.Fprint(out, line)
		default:
			fmt.Fprint(out, line)
		}
	}
}

type jsonResult struct {
	Path       string             `json:"path"`
	Output     string             `json:"output,omitempty"`
	Changed    bool               `json:"changed"`
	Skipped    bool               `json:"skipped,omitempty"`
	SkipReason string             `json:"skip_reason,omitempty"`
	Error      string             `json:"error,omitempty"`
	Encoding   string             `json:"encoding,omitempty"`
	Lines      int                `json:"lines"`
	Cached     bool               `json:"cached,omitempty"`
	Added      int                `json:"added,omitempty"`
	Deleted    int                `json:"deleted,omitempty"`
	Diff       string             `json:"diff,omitempty"`
	Settings   *settings.Settings `json:"settings,omitempty"`
}

func renderFixJSON(out io.Writer, results []driver.FixResult) (fixSummary, error) {
	var summary fixSummary
	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		summary.add(res)
		item := jsonResult{
			Path:       res.Path,
			Output:     res.Output,
			Changed:    res.Changed,
			Skipped:    res.Skipped,
			SkipReason: res.SkipReason,
			Encoding:   res.Encoding,
			Lines:      res.Lines,
			Cached:     res.Cached,
			Added:      res.Added,
			Deleted:    res.Deleted,
			Diff:       res.Diff,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		} else if !res.Skipped {
			st := res.Settings
			item.Settings = &st
		}
		payload = append(payload, item)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return summary, err
	}
	return summary, nil
}
