package provider

import (
	"strings"
	"testing"
	"time"
)

func TestSummarizeComments(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	comments := []Comment{
		{Body: "please add tests", Author: "alice", CreatedAt: created},
		{Body: "added label bug", Author: "bot", System: true},
		{Body: "   "},
		{Body: "done", Author: "bob"},
	}

	got := SummarizeComments(comments, 10)

	if !strings.Contains(got, "2026-03-14 09:30 @alice:\nplease add tests") {
		t.Errorf("summary missing alice's comment:\n%s", got)
	}
	if !strings.Contains(got, "@bob:\ndone") {
		t.Errorf("summary missing bob's comment:\n%s", got)
	}
	if strings.Contains(got, "added label bug") {
		t.Errorf("summary includes system note:\n%s", got)
	}
	if strings.Contains(got, "@unknown") {
		t.Errorf("empty body should be skipped, not attributed to unknown:\n%s", got)
	}
}

func TestSummarizeComments_Cap(t *testing.T) {
	comments := make([]Comment, 20)
	for i := range comments {
		comments[i] = Comment{Body: "comment", Author: "a"}
	}

	got := SummarizeComments(comments, 3)
	if n := strings.Count(got, "- "); n != 3 {
		t.Errorf("summary has %d entries, want 3", n)
	}
}

func TestSummarizeComments_Empty(t *testing.T) {
	if got := SummarizeComments(nil, 5); got != "" {
		t.Errorf("SummarizeComments(nil) = %q, want empty", got)
	}
}
