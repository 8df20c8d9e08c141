package signal

import (
	"math"
	"testing"

	"forex-signal-relay/internal/domain"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		name string
		rsi  float64
		rec  domain.Recommendation
		want domain.Verdict
	}{
		{"rsi 30 buy is not bullish", 30, domain.RecommendationBuy, domain.VerdictIgnore},
		{"rsi 29.99 buy", 29.99, domain.RecommendationBuy, domain.VerdictBullish},
		{"rsi 70 sell is not bearish", 70, domain.RecommendationSell, domain.VerdictIgnore},
		{"rsi 70.01 sell", 70.01, domain.RecommendationSell, domain.VerdictBearish},
		{"strong buy oversold", 12, domain.RecommendationStrongBuy, domain.VerdictBullish},
		{"strong sell overbought", 88, domain.RecommendationStrongSell, domain.VerdictBearish},
		{"oversold neutral", 15, domain.RecommendationNeutral, domain.VerdictIgnore},
		{"oversold sell", 15, domain.RecommendationSell, domain.VerdictIgnore},
		{"overbought buy", 85, domain.RecommendationBuy, domain.VerdictIgnore},
		{"mid range buy", 50, domain.RecommendationStrongBuy, domain.VerdictIgnore},
		{"zero rsi buy", 0, domain.RecommendationBuy, domain.VerdictBullish},
		{"max rsi sell", 100, domain.RecommendationSell, domain.VerdictBearish},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(domain.IndicatorSnapshot{RSI: tc.rsi, Recommendation: tc.rec})
			if got != tc.want {
				t.Fatalf("Classify(rsi=%v, %s) = %s, want %s", tc.rsi, tc.rec, got, tc.want)
			}
		})
	}
}

func TestClassifyMalformedSnapshotIsIgnore(t *testing.T) {
	bad := []domain.IndicatorSnapshot{
		{RSI: math.NaN(), Recommendation: domain.RecommendationBuy},
		{RSI: -1, Recommendation: domain.RecommendationBuy},
		{RSI: 101, Recommendation: domain.RecommendationSell},
		{RSI: 10, Recommendation: ""},
		{RSI: 10, Recommendation: "ERROR"},
	}
	for _, s := range bad {
		if got := Classify(s); got != domain.VerdictIgnore {
			t.Fatalf("expected Ignore for %+v, got %s", s, got)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	snap := domain.IndicatorSnapshot{Symbol: "EUR/USD", RSI: 25, Recommendation: domain.RecommendationStrongBuy}
	first := Classify(snap)
	for i := 0; i < 100; i++ {
		if got := Classify(snap); got != first {
			t.Fatalf("iteration %d: got %s, want %s", i, got, first)
		}
	}
}
