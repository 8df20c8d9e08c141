package domain

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe is the bar interval a snapshot is computed on.
type Timeframe string

const (
	Timeframe3m Timeframe = "3m"

	DefaultTimeframe = Timeframe3m
)

// Provider request constants: market category and data source.
const (
	ScreenerForex = "forex"
	ExchangeFXIDC = "FX_IDC"
)

type Recommendation string

const (
	RecommendationStrongBuy  Recommendation = "STRONG_BUY"
	RecommendationBuy        Recommendation = "BUY"
	RecommendationNeutral    Recommendation = "NEUTRAL"
	RecommendationSell       Recommendation = "SELL"
	RecommendationStrongSell Recommendation = "STRONG_SELL"
)

func (r Recommendation) IsValid() bool {
	switch r {
	case RecommendationStrongBuy, RecommendationBuy, RecommendationNeutral,
		RecommendationSell, RecommendationStrongSell:
		return true
	}
	return false
}

// SnapshotRequest is the fixed-shape request sent to the market data gateway.
type SnapshotRequest struct {
	Symbol    Symbol
	Timeframe Timeframe
	Screener  string
	Exchange  string
}

type IndicatorSnapshot struct {
	Symbol         Symbol         `json:"symbol"`
	Timeframe      Timeframe      `json:"timeframe"`
	RSI            float64        `json:"rsi"`
	Recommendation Recommendation `json:"recommendation"`
	FetchedAt      time.Time      `json:"fetched_at"`
}

type Verdict string

const (
	VerdictBullish Verdict = "Bullish"
	VerdictBearish Verdict = "Bearish"
	VerdictIgnore  Verdict = "Ignore"
)

// FailureReason is empty for a computed verdict.
type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonInvalidPair     FailureReason = "invalid_pair"
	ReasonDataUnavailable FailureReason = "data_unavailable"
)

// EvaluationResult pairs the requested code with a verdict or a failure reason.
// Failed results always carry VerdictIgnore.
type EvaluationResult struct {
	RequestID string
	Pair      PairCode
	Symbol    Symbol
	Verdict   Verdict
	Reason    FailureReason
	Err       error
}

func (r EvaluationResult) Failed() bool {
	return r.Reason != ReasonNone
}

// Outcome names the result for counters: invalid_pair, data_unavailable or
// the lower-cased verdict.
func (r EvaluationResult) Outcome() string {
	if r.Failed() {
		return string(r.Reason)
	}
	return strings.ToLower(string(r.Verdict))
}

// Reply formats the chat reply for a valid pair, e.g. "EURUSD → Bullish".
func (r EvaluationResult) Reply() string {
	verdict := r.Verdict
	if r.Failed() || verdict == "" {
		verdict = VerdictIgnore
	}
	return fmt.Sprintf("%s → %s", r.Pair.Upper(), verdict)
}

type GatewayErrorKind string

const (
	GatewayUnreachable GatewayErrorKind = "unreachable"
	GatewayMalformed   GatewayErrorKind = "malformed"
	GatewayRejected    GatewayErrorKind = "rejected"
)

// GatewayError wraps every market data fetch failure.
type GatewayError struct {
	Symbol Symbol
	Kind   GatewayErrorKind
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gateway %s for %s", e.Kind, e.Symbol)
	}
	return fmt.Sprintf("gateway %s for %s: %v", e.Kind, e.Symbol, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
