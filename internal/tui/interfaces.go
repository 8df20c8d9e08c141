package tui

import (
	"context"

	"forex-signal-relay/internal/cache"
	"forex-signal-relay/internal/domain"
)

// Evaluator runs one pair evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, raw string) domain.EvaluationResult
}

// StatsReader provides aggregate outcome counters.
type StatsReader interface {
	Snapshot(ctx context.Context) (*cache.StatsSnapshot, error)
}

// Services bundles the dependencies injected into the TUI. Stats may be nil.
type Services struct {
	Evaluator Evaluator
	Stats     StatsReader
}
