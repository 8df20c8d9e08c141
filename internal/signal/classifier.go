package signal

import (
	"math"

	"forex-signal-relay/internal/domain"
)

const (
	oversoldRSI   = 30
	overboughtRSI = 70
)

// Classify maps an indicator snapshot to a verdict. Both thresholds are
// strict: an RSI of exactly 30 or 70 yields Ignore. Snapshots with an RSI
// outside 0..100 or an unknown recommendation are treated as no signal.
func Classify(s domain.IndicatorSnapshot) domain.Verdict {
	if math.IsNaN(s.RSI) || s.RSI < 0 || s.RSI > 100 || !s.Recommendation.IsValid() {
		return domain.VerdictIgnore
	}

	switch {
	case s.RSI < oversoldRSI && isBuy(s.Recommendation):
		return domain.VerdictBullish
	case s.RSI > overboughtRSI && isSell(s.Recommendation):
		return domain.VerdictBearish
	default:
		return domain.VerdictIgnore
	}
}

func isBuy(r domain.Recommendation) bool {
	return r == domain.RecommendationBuy || r == domain.RecommendationStrongBuy
}

func isSell(r domain.Recommendation) bool {
	return r == domain.RecommendationSell || r == domain.RecommendationStrongSell
}
