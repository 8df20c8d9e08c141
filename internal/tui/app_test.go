package tui

import (
	"context"
	"sync"
	"testing"

	"forex-signal-relay/internal/cache"
	"forex-signal-relay/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// --- stub services ---

type stubEvaluator struct {
	mu      sync.Mutex
	verdict domain.Verdict
	inputs  []string
}

func (s *stubEvaluator) Evaluate(ctx context.Context, raw string) domain.EvaluationResult {
	s.mu.Lock()
	s.inputs = append(s.inputs, raw)
	s.mu.Unlock()

	pair := domain.NormalizePair(raw)
	sym, err := domain.ToSymbol(pair)
	if err != nil {
		return domain.EvaluationResult{Pair: pair, Verdict: domain.VerdictIgnore, Reason: domain.ReasonInvalidPair, Err: err}
	}
	return domain.EvaluationResult{Pair: pair, Symbol: sym, Verdict: s.verdict}
}

func (s *stubEvaluator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

type stubStats struct {
	snap *cache.StatsSnapshot
	err  error
}

func (s *stubStats) Snapshot(ctx context.Context) (*cache.StatsSnapshot, error) {
	return s.snap, s.err
}

func testServices() Services {
	return Services{
		Evaluator: &stubEvaluator{verdict: domain.VerdictBullish},
		Stats: &stubStats{snap: &cache.StatsSnapshot{
			Outcomes: map[string]int64{"bullish": 3, "ignore": 1},
			Pairs:    map[string]int64{"eurusd": 4},
		}},
	}
}

func TestAppModelInitialTab(t *testing.T) {
	m := NewAppModel(testServices())
	if m.ActiveTab() != TabChat {
		t.Fatalf("expected TabChat, got %d", m.ActiveTab())
	}
}

func TestAppModelTabSwitchByNumber(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	app := updated.(AppModel)
	if app.ActiveTab() != TabPairs {
		t.Fatalf("expected TabPairs after pressing 2, got %d", app.ActiveTab())
	}

	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	app = updated.(AppModel)
	if app.ActiveTab() != TabChat {
		t.Fatalf("expected TabChat after pressing 1, got %d", app.ActiveTab())
	}
}

func TestAppModelTabSwitchByTab(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	app := updated.(AppModel)
	if app.ActiveTab() != TabPairs {
		t.Fatalf("expected TabPairs after Tab, got %d", app.ActiveTab())
	}

	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	app = updated.(AppModel)
	if app.ActiveTab() != TabChat {
		t.Fatalf("expected TabChat after Shift+Tab, got %d", app.ActiveTab())
	}
}

func TestAppModelQuitOutsideChat(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("q in chat must not quit")
		}
	}

	app := updated.(AppModel)
	app.switchTab(TabPairs)
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestAppModelRoutesEvaluationToBothScreens(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)
	m.chat.waiting = true

	res := domain.EvaluationResult{Pair: "eurusd", Symbol: "EUR/USD", Verdict: domain.VerdictBearish}
	updated, _ := m.Update(evaluationMsg{result: res, fromChat: true})
	app := updated.(AppModel)

	if app.chat.IsWaiting() {
		t.Fatal("expected chat to stop waiting")
	}
	if got := app.chat.LastMessage(); got != "EURUSD → Bearish" {
		t.Fatalf("unexpected chat reply: %q", got)
	}
	if r, ok := app.pairs.LastResult("eurusd"); !ok || r.Verdict != domain.VerdictBearish {
		t.Fatalf("expected pair board to record verdict, got %+v", r)
	}
}

func TestAppModelWindowResize(t *testing.T) {
	m := NewAppModel(testServices())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	app := updated.(AppModel)
	if app.width != 100 || app.height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", app.width, app.height)
	}
}

func TestAppModelViewRendersWithoutPanic(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)

	for _, tab := range []Tab{TabChat, TabPairs} {
		m.activeTab = tab
		view := m.View()
		if view == "" {
			t.Fatalf("expected non-empty view for tab %d", tab)
		}
	}
}
