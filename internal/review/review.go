// Package review parses and formats structured agent review output.
//
// Agents are asked to emit a JSON review object but often wrap it in
// markdown fences or surround it with prose. Parse applies a 3-tier
// fallback so callers always get a usable result.
package review

import (
	"encoding/json"
	"strings"
)

// LineRange is a line span within a file.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CodeLocation points a finding at a file and line range.
type CodeLocation struct {
	AbsoluteFilePath string    `json:"absolute_file_path"`
	LineRange        LineRange `json:"line_range"`
}

// Finding is a single review finding.
type Finding struct {
	Title           string       `json:"title"`
	Body            string       `json:"body"`
	ConfidenceScore float64      `json:"confidence_score"`
	CodeLocation    CodeLocation `json:"code_location"`
	// Priority is 0 (critical) through 3 (minor); nil means untagged.
	Priority *int `json:"priority,omitempty"`
}

// Output is a complete review: findings plus an overall verdict.
type Output struct {
	Findings               []Finding `json:"findings"`
	OverallCorrectness     string    `json:"overall_correctness"`
	OverallExplanation     string    `json:"overall_explanation"`
	OverallConfidenceScore float64   `json:"overall_confidence_score"`
}

// CorrectVerdict is the overall_correctness value agents emit for a
// patch with no blocking issues.
const CorrectVerdict = "patch is correct"

// Parse extracts a review from raw agent output. It never fails:
//
//  1. parse the whole text as JSON
//  2. parse the slice from the first '{' to the last '}'
//  3. wrap the text as the overall explanation
func Parse(text string) Output {
	var out Output
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last != -1 && first < last {
		var out Output
		if err := json.Unmarshal([]byte(text[first:last+1]), &out); err == nil {
			return out
		}
	}

	return Output{OverallExplanation: text}
}
