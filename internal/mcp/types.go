package mcp

import (
	"context"
	"fmt"
	"strings"

	"forex-signal-relay/internal/domain"
)

// Evaluator runs one pair evaluation. Implemented by service.EvaluationService.
type Evaluator interface {
	Evaluate(ctx context.Context, raw string) domain.EvaluationResult
}

type pairsListInput struct{}

type pairEntry struct {
	Pair   domain.PairCode `json:"pair"`
	Symbol domain.Symbol   `json:"symbol"`
}

type pairsListOutput struct {
	Pairs     []pairEntry      `json:"pairs"`
	Timeframe domain.Timeframe `json:"timeframe"`
}

type pairsEvaluateInput struct {
	Pair string `json:"pair" jsonschema:"currency pair code (e.g. eurusd, usdjpy)"`
}

type pairsEvaluateOutput struct {
	Pair    domain.PairCode `json:"pair"`
	Symbol  domain.Symbol   `json:"symbol"`
	Verdict domain.Verdict  `json:"verdict"`
	Status  string          `json:"status"`
	Reply   string          `json:"reply"`
}

func supportedPairEntries() pairsListOutput {
	out := pairsListOutput{
		Pairs:     make([]pairEntry, 0, len(domain.SupportedPairs)),
		Timeframe: domain.DefaultTimeframe,
	}
	for _, p := range domain.SupportedPairs {
		sym, err := domain.ToSymbol(p)
		if err != nil {
			continue
		}
		out.Pairs = append(out.Pairs, pairEntry{Pair: p, Symbol: sym})
	}
	return out
}

func validatePair(raw string) (domain.PairCode, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("pair is required")
	}
	pair := domain.NormalizePair(raw)
	if !domain.IsValidPair(pair) {
		return "", fmt.Errorf("unsupported pair: %s", strings.TrimSpace(raw))
	}
	return pair, nil
}

func evaluationOutput(result domain.EvaluationResult) pairsEvaluateOutput {
	status := "ok"
	if result.Failed() {
		status = string(result.Reason)
	}
	return pairsEvaluateOutput{
		Pair:    result.Pair,
		Symbol:  result.Symbol,
		Verdict: result.Verdict,
		Status:  status,
		Reply:   result.Reply(),
	}
}
