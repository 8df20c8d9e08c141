package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"forex-signal-relay/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// evaluationMsg carries a finished evaluation. fromChat marks evaluations
// started from the chat screen.
type evaluationMsg struct {
	result   domain.EvaluationResult
	fromChat bool
}

func evaluateCmd(ev Evaluator, input string, fromChat bool) tea.Cmd {
	return func() tea.Msg {
		return evaluationMsg{result: ev.Evaluate(context.Background(), input), fromChat: fromChat}
	}
}

// FormatVerdict renders a verdict with its color. Failed results are marked.
func FormatVerdict(r domain.EvaluationResult) string {
	style := IgnoreStyle
	switch r.Verdict {
	case domain.VerdictBullish:
		style = BullishStyle
	case domain.VerdictBearish:
		style = BearishStyle
	}
	out := style.Render(string(r.Verdict))
	if r.Failed() {
		out += " " + SubtextStyle.Render("("+strings.ReplaceAll(string(r.Reason), "_", " ")+")")
	}
	return out
}

// RenderPairGrid renders the supported pairs as a colored board. Cells take the
// color of the pair's last verdict; the selected cell is highlighted.
func RenderPairGrid(pairs []domain.PairCode, last map[domain.PairCode]domain.EvaluationResult, selected, cols int) string {
	if len(pairs) == 0 {
		return SubtextStyle.Render("No pairs")
	}
	if cols < 1 {
		cols = 1
	}

	const cellWidth = 10
	var rows []string
	var row []string
	for i, p := range pairs {
		bg := UnknownCell
		if r, ok := last[p]; ok {
			bg = verdictColor(r)
		}
		if i == selected {
			bg = SelectedCell
		}

		cell := lipgloss.NewStyle().
			Background(bg).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Width(cellWidth - 1).
			Align(lipgloss.Center).
			MarginRight(1).
			Render(p.Upper())

		row = append(row, cell)
		if (i+1)%cols == 0 || i == len(pairs)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}

	return strings.Join(rows, "\n")
}

// RenderOutcomeBar renders an ASCII bar for one outcome counter.
func RenderOutcomeBar(outcome string, count, total int64, barWidth int) string {
	if barWidth <= 0 {
		barWidth = 20
	}
	share := 0.0
	if total > 0 {
		share = float64(count) / float64(total)
	}
	filled := int(math.Round(share * float64(barWidth)))
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	style := OutcomeIdleStyle
	switch outcome {
	case "bullish", "bearish":
		style = OutcomeGoodStyle
	case string(domain.ReasonDataUnavailable), string(domain.ReasonInvalidPair):
		style = OutcomeBadStyle
	}

	bar := style.Render(strings.Repeat("█", filled)) + SubtextStyle.Render(strings.Repeat("░", empty))
	return fmt.Sprintf("%-18s %s %s", outcome, bar, formatCount(count))
}

func verdictColor(r domain.EvaluationResult) lipgloss.Color {
	if r.Failed() {
		return UnknownCell
	}
	switch r.Verdict {
	case domain.VerdictBullish:
		return BullishCell
	case domain.VerdictBearish:
		return BearishCell
	default:
		return IgnoreCell
	}
}

func formatCount(v int64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", float64(v)/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", float64(v)/1e3)
	default:
		return fmt.Sprintf("%d", v)
	}
}
