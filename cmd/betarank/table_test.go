package main

import (
	"strings"
	"testing"

	"betarank/internal/ranking"
)

func TestRenderPreview(t *testing.T) {
	entries := []ranking.Entry{
		{Item: ranking.Item{Title: "Heat", VoteCount: 1234567, MeanRating: 4.5}, Score: 4.46363},
		{Item: ranking.Item{Title: "Ronin", VoteCount: 12, MeanRating: 3}, Score: 3.1},
		{Item: ranking.Item{Title: "Thief", VoteCount: 1, MeanRating: 2}, Score: 2},
	}
	out := renderPreview(entries, 2, false)

	for _, want := range []string{"Title", "Heat", "1,234,567", "4.4636", "Ronin"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in preview:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Thief") {
		t.Fatalf("expected preview truncated to 2 rows:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := renderTable(nil, nil, nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
