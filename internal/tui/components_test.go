package tui

import (
	"strings"
	"testing"

	"forex-signal-relay/internal/domain"
)

func TestFormatVerdict(t *testing.T) {
	if got := FormatVerdict(domain.EvaluationResult{Verdict: domain.VerdictBullish}); !strings.Contains(got, "Bullish") {
		t.Fatalf("unexpected verdict text: %q", got)
	}
	failed := domain.EvaluationResult{Verdict: domain.VerdictIgnore, Reason: domain.ReasonDataUnavailable}
	if got := FormatVerdict(failed); !strings.Contains(got, "Ignore") || !strings.Contains(got, "data unavailable") {
		t.Fatalf("expected failure marker, got %q", got)
	}
}

func TestRenderPairGrid(t *testing.T) {
	grid := RenderPairGrid(domain.SupportedPairs, nil, 0, 5)
	if rows := strings.Count(grid, "\n") + 1; rows != 4 {
		t.Fatalf("expected 4 rows for 20 pairs, got %d", rows)
	}
	for _, p := range domain.SupportedPairs {
		if !strings.Contains(grid, p.Upper()) {
			t.Fatalf("expected %s in grid", p.Upper())
		}
	}
	if got := RenderPairGrid(nil, nil, 0, 5); !strings.Contains(got, "No pairs") {
		t.Fatalf("unexpected empty grid: %q", got)
	}
}

func TestRenderOutcomeBar(t *testing.T) {
	bar := RenderOutcomeBar("bullish", 5, 10, 10)
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Fatalf("expected half-filled bar, got %q", bar)
	}
	if !strings.HasSuffix(bar, " 5") {
		t.Fatalf("expected count suffix, got %q", bar)
	}
	if empty := RenderOutcomeBar("ignore", 0, 0, 4); strings.Count(empty, "░") != 4 {
		t.Fatalf("expected empty bar, got %q", empty)
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int64]string{7: "7", 1500: "1.5K", 2_500_000: "2.5M"}
	for in, want := range cases {
		if got := formatCount(in); got != want {
			t.Fatalf("formatCount(%d) = %q, want %q", in, got, want)
		}
	}
}
