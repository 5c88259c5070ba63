package review

import (
	"fmt"
	"strings"
)

// Markdown renders a review as human-readable markdown. Findings are
// grouped by priority with a summary and overall verdict; raw JSON is
// never posted to a merge request.
func Markdown(out Output) string {
	var lines []string

	if s := strings.TrimSpace(out.OverallExplanation); s != "" {
		lines = append(lines, s, "")
	}

	if len(out.Findings) > 0 {
		byPriority := func(p int) []Finding {
			var fs []Finding
			for _, f := range out.Findings {
				if f.Priority != nil && *f.Priority == p {
					fs = append(fs, f)
				}
			}
			return fs
		}
		p0 := byPriority(0)
		p1 := byPriority(1)
		p2 := byPriority(2)
		p3 := byPriority(3)
		var untagged []Finding
		for _, f := range out.Findings {
			if f.Priority == nil {
				untagged = append(untagged, f)
			}
		}

		lines = append(lines, "### Issues Found", "")

		if len(p0)+len(p1) > 0 {
			lines = append(lines, "**Critical (P0/P1)**")
			for _, f := range append(p0, p1...) {
				lines = append(lines, formatFinding(f))
			}
			lines = append(lines, "")
		}
		if len(p2) > 0 {
			lines = append(lines, "**Important (P2)**")
			for _, f := range p2 {
				lines = append(lines, formatFinding(f))
			}
			lines = append(lines, "")
		}
		if len(p3) > 0 {
			lines = append(lines, "**Minor (P3)**")
			for _, f := range p3 {
				lines = append(lines, formatFinding(f))
			}
			lines = append(lines, "")
		}
		if len(untagged) > 0 {
			lines = append(lines, "**Other Issues**")
			for _, f := range untagged {
				lines = append(lines, formatFinding(f))
			}
			lines = append(lines, "")
		}

		lines = append(lines, "### Summary")
		lines = append(lines, fmt.Sprintf("Total issues: %d critical, %d important, %d minor.",
			len(p0)+len(p1), len(p2), len(p3)))
		lines = append(lines, "")
	}

	if out.OverallCorrectness != "" {
		lines = append(lines, "### Overall Verdict")
		status := "Patch has blocking issues"
		if out.OverallCorrectness == CorrectVerdict {
			status = "Patch is correct"
		}
		lines = append(lines, "**Status**: "+status)
		if s := strings.TrimSpace(out.OverallExplanation); s != "" {
			lines = append(lines, "", "**Explanation**: "+s)
		}
	}

	return strings.Join(lines, "\n")
}

func formatFinding(f Finding) string {
	loc := f.CodeLocation
	locStr := fmt.Sprintf("%s:%d", loc.AbsoluteFilePath, loc.LineRange.Start)
	if loc.LineRange.Start != loc.LineRange.End {
		locStr = fmt.Sprintf("%s:%d-%d", loc.AbsoluteFilePath, loc.LineRange.Start, loc.LineRange.End)
	}

	title := f.Title
	if !strings.HasPrefix(title, "[P") && f.Priority != nil {
		title = fmt.Sprintf("[P%d] %s", *f.Priority, title)
	}

	lines := []string{fmt.Sprintf("- **%s** (`%s`)", title, locStr)}
	for _, bodyLine := range strings.Split(f.Body, "\n") {
		if strings.TrimSpace(bodyLine) != "" {
			lines = append(lines, "  "+bodyLine)
		}
	}
	return strings.Join(lines, "\n")
}
