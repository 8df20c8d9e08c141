package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestSupportedPairsHasTwentyCodes(t *testing.T) {
	if len(SupportedPairs) != 20 {
		t.Fatalf("expected 20 pairs, got %d", len(SupportedPairs))
	}
	for i := 1; i < len(SupportedPairs); i++ {
		if SupportedPairs[i-1] >= SupportedPairs[i] {
			t.Fatalf("pairs not sorted at %d: %v", i, SupportedPairs)
		}
	}
}

func TestToSymbolForEveryPair(t *testing.T) {
	for _, p := range SupportedPairs {
		sym, err := ToSymbol(p)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", p, err)
		}
		want := strings.ToUpper(string(p[:3])) + "/" + strings.ToUpper(string(p[3:]))
		if string(sym) != want {
			t.Fatalf("expected %s, got %s", want, sym)
		}
	}
}

func TestToSymbolRejectsUnknownPair(t *testing.T) {
	if _, err := ToSymbol("xyzabc"); !errors.Is(err, ErrUnknownPair) {
		t.Fatalf("expected ErrUnknownPair, got %v", err)
	}
}

func TestNormalizePair(t *testing.T) {
	cases := map[string]PairCode{
		"EURUSD":     "eurusd",
		"  usdJPY\n": "usdjpy",
		"":           "",
	}
	for in, want := range cases {
		if got := NormalizePair(in); got != want {
			t.Fatalf("NormalizePair(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidPair(t *testing.T) {
	if !IsValidPair("gbpjpy") {
		t.Fatal("expected gbpjpy to be valid")
	}
	for _, bad := range []PairCode{"xyzabc", "EURUSD", "eurusd ", "eur/usd", "btcusd", ""} {
		if IsValidPair(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestSymbolTicker(t *testing.T) {
	sym := Symbol("EUR/USD")
	if sym.Base() != "EUR" || sym.Quote() != "USD" {
		t.Fatalf("unexpected base/quote: %s %s", sym.Base(), sym.Quote())
	}
	if got := sym.Ticker(ExchangeFXIDC); got != "FX_IDC:EURUSD" {
		t.Fatalf("unexpected ticker: %s", got)
	}
}

func TestEvaluationResultReply(t *testing.T) {
	ok := EvaluationResult{Pair: "eurusd", Verdict: VerdictBullish}
	if ok.Failed() {
		t.Fatal("expected computed result not to be failed")
	}
	if got := ok.Reply(); got != "EURUSD → Bullish" {
		t.Fatalf("unexpected reply: %s", got)
	}

	failed := EvaluationResult{Pair: "usdjpy", Verdict: VerdictBearish, Reason: ReasonDataUnavailable}
	if !failed.Failed() {
		t.Fatal("expected failed result")
	}
	if got := failed.Reply(); got != "USDJPY → Ignore" {
		t.Fatalf("unexpected failure reply: %s", got)
	}
}

func TestRecommendationIsValid(t *testing.T) {
	if !RecommendationStrongSell.IsValid() || !RecommendationNeutral.IsValid() {
		t.Fatal("expected known recommendations to be valid")
	}
	if Recommendation("ERROR").IsValid() || Recommendation("buy").IsValid() {
		t.Fatal("expected unknown recommendations to be invalid")
	}
}

func TestGatewayErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&GatewayError{Symbol: "EUR/USD", Kind: GatewayUnreachable, Err: cause})

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || gwErr.Kind != GatewayUnreachable {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
	if !strings.Contains(err.Error(), "EUR/USD") {
		t.Fatalf("expected symbol in message: %s", err.Error())
	}
}

func TestEvaluationResultOutcome(t *testing.T) {
	cases := []struct {
		res  EvaluationResult
		want string
	}{
		{EvaluationResult{Verdict: VerdictBullish}, "bullish"},
		{EvaluationResult{Verdict: VerdictIgnore}, "ignore"},
		{EvaluationResult{Verdict: VerdictIgnore, Reason: ReasonDataUnavailable}, "data_unavailable"},
		{EvaluationResult{Verdict: VerdictIgnore, Reason: ReasonInvalidPair}, "invalid_pair"},
	}
	for _, tc := range cases {
		if got := tc.res.Outcome(); got != tc.want {
			t.Fatalf("Outcome() = %s, want %s", got, tc.want)
		}
	}
}
