package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"forex-signal-relay/internal/cache"
	"forex-signal-relay/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	boardColumns  = 5
	statsInterval = 15 * time.Second
)

// Pair board message types.
type statsMsg struct{ snap *cache.StatsSnapshot }
type statsErrMsg struct{ err error }
type statsTickMsg time.Time

// PairsModel shows the 20 supported pairs colored by their last verdict and
// the aggregate outcome counters.
type PairsModel struct {
	services Services
	pairs    []domain.PairCode
	last     map[domain.PairCode]domain.EvaluationResult
	pending  map[domain.PairCode]bool
	selected int
	stats    *cache.StatsSnapshot
	statsErr error
	spinner  spinner.Model
	width    int
	height   int
}

// NewPairsModel creates a new pair board.
func NewPairsModel(svc Services) PairsModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return PairsModel{
		services: svc,
		pairs:    append([]domain.PairCode(nil), domain.SupportedPairs...),
		last:     make(map[domain.PairCode]domain.EvaluationResult),
		pending:  make(map[domain.PairCode]bool),
		spinner:  sp,
	}
}

// Init fires the initial stats fetch.
func (m PairsModel) Init() tea.Cmd {
	return tea.Batch(m.fetchStatsCmd(), m.tickCmd())
}

// Update handles incoming messages.
func (m PairsModel) Update(msg tea.Msg) (PairsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluationMsg:
		if msg.result.Pair != "" && domain.IsValidPair(msg.result.Pair) {
			m.last[msg.result.Pair] = msg.result
			delete(m.pending, msg.result.Pair)
		}
		return m, m.fetchStatsCmd()

	case statsMsg:
		m.stats = msg.snap
		m.statsErr = nil
		return m, nil

	case statsErrMsg:
		m.statsErr = msg.err
		return m, nil

	case statsTickMsg:
		return m, tea.Batch(m.fetchStatsCmd(), m.tickCmd())

	case spinner.TickMsg:
		if len(m.pending) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			m.move(-boardColumns)
		case key.Matches(msg, DefaultKeyMap.Down):
			m.move(boardColumns)
		case key.Matches(msg, DefaultKeyMap.Left):
			m.move(-1)
		case key.Matches(msg, DefaultKeyMap.Right):
			m.move(1)
		case key.Matches(msg, DefaultKeyMap.Refresh):
			return m, m.fetchStatsCmd()
		case key.Matches(msg, DefaultKeyMap.Evaluate):
			return m, m.evaluateSelected()
		}
	}

	return m, nil
}

// View renders the pair board.
func (m PairsModel) View() string {
	var sections []string

	board := []string{HeaderStyle.Render("  Pairs (3m)"), RenderPairGrid(m.pairs, m.last, m.selected, boardColumns)}
	if sel, ok := m.selectedPair(); ok {
		board = append(board, "", m.renderSelected(sel))
	}
	sections = append(sections, BorderStyle.Width(max(m.width-2, 20)).Render(strings.Join(board, "\n")))
	sections = append(sections, BorderStyle.Width(max(m.width-2, 20)).Render(m.renderStats()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the model dimensions.
func (m *PairsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Selected returns the highlighted pair (for testing).
func (m PairsModel) Selected() domain.PairCode {
	p, _ := m.selectedPair()
	return p
}

// LastResult returns the last known result for a pair (for testing).
func (m PairsModel) LastResult(p domain.PairCode) (domain.EvaluationResult, bool) {
	r, ok := m.last[p]
	return r, ok
}

func (m *PairsModel) move(delta int) {
	next := m.selected + delta
	if next < 0 || next >= len(m.pairs) {
		return
	}
	m.selected = next
}

func (m PairsModel) selectedPair() (domain.PairCode, bool) {
	if m.selected < 0 || m.selected >= len(m.pairs) {
		return "", false
	}
	return m.pairs[m.selected], true
}

// evaluateSelected starts an evaluation unless one is already pending for the
// selected pair.
func (m *PairsModel) evaluateSelected() tea.Cmd {
	pair, ok := m.selectedPair()
	if !ok || m.services.Evaluator == nil || m.pending[pair] {
		return nil
	}
	m.pending[pair] = true
	return tea.Batch(evaluateCmd(m.services.Evaluator, string(pair), false), m.spinner.Tick)
}

func (m PairsModel) renderSelected(pair domain.PairCode) string {
	sym, _ := domain.ToSymbol(pair)
	line := fmt.Sprintf("  %s  %s  ", HeaderStyle.Render(pair.Upper()), SubtextStyle.Render(string(sym)))
	switch {
	case m.pending[pair]:
		line += m.spinner.View() + " " + SubtextStyle.Render(domain.AnalyzingMessage)
	default:
		if r, ok := m.last[pair]; ok {
			line += FormatVerdict(r)
		} else {
			line += SubtextStyle.Render("press enter to evaluate")
		}
	}
	return line
}

func (m PairsModel) renderStats() string {
	lines := []string{HeaderStyle.Render("  Outcomes")}
	if m.services.Stats == nil {
		return strings.Join(append(lines, SubtextStyle.Render("  Stats disabled. Set REDIS_URL to enable.")), "\n")
	}
	if m.statsErr != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.statsErr)))
	}
	if m.stats == nil || len(m.stats.Outcomes) == 0 {
		return strings.Join(append(lines, SubtextStyle.Render("  No evaluations yet")), "\n")
	}

	var total int64
	outcomes := make([]string, 0, len(m.stats.Outcomes))
	for outcome, n := range m.stats.Outcomes {
		outcomes = append(outcomes, outcome)
		total += n
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		lines = append(lines, "  "+RenderOutcomeBar(outcome, m.stats.Outcomes[outcome], total, 30))
	}
	lines = append(lines, SubtextStyle.Render(fmt.Sprintf("  total %s", formatCount(total))))
	return strings.Join(lines, "\n")
}

func (m PairsModel) fetchStatsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services.Stats == nil {
			return statsErrMsg{err: fmt.Errorf("stats not available")}
		}
		snap, err := m.services.Stats.Snapshot(context.Background())
		if err != nil {
			return statsErrMsg{err: err}
		}
		return statsMsg{snap: snap}
	}
}

func (m PairsModel) tickCmd() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}
