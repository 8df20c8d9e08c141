package handler

import (
	"net/http"

	"forex-signal-relay/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type pairInfo struct {
	Pair   domain.PairCode `json:"pair"`
	Symbol domain.Symbol   `json:"symbol"`
}

type evaluationResponse struct {
	Pair    domain.PairCode `json:"pair"`
	Symbol  domain.Symbol   `json:"symbol"`
	Verdict domain.Verdict  `json:"verdict"`
	Status  string          `json:"status"`
	Reply   string          `json:"reply"`
}

// GetPairs godoc
// @Summary      List supported currency pairs
// @Description  Returns the 20 supported pair codes, their provider symbols and the fixed timeframe
// @Tags         pairs
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/pairs [get]
func (h *Handler) GetPairs(c *gin.Context) {
	pairs := make([]pairInfo, 0, len(domain.SupportedPairs))
	for _, p := range domain.SupportedPairs {
		sym, err := domain.ToSymbol(p)
		if err != nil {
			continue
		}
		pairs = append(pairs, pairInfo{Pair: p, Symbol: sym})
	}
	c.JSON(http.StatusOK, gin.H{"pairs": pairs, "timeframe": domain.DefaultTimeframe})
}

// EvaluatePair godoc
// @Summary      Evaluate a currency pair
// @Description  Fetches a 3m indicator snapshot and classifies it as Bullish, Bearish or Ignore.
// @Description  status is "data_unavailable" when the market data provider could not be reached.
// @Tags         pairs
// @Produce      json
// @Param        pair  path  string  true  "Pair code (e.g., eurusd)"
// @Success      200  {object}  evaluationResponse
// @Failure      400  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/evaluate/{pair} [get]
func (h *Handler) EvaluatePair(c *gin.Context) {
	if h.evaluator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evaluation service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.evaluate-pair")
	defer span.End()

	raw := c.Param("pair")
	span.SetAttributes(attribute.String("pair", raw))

	result := h.evaluator.Evaluate(ctx, raw)
	if result.Reason == domain.ReasonInvalidPair {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "Invalid pair. Please send one of the 20 valid pairs only.",
			"supported_pairs": domain.SupportedPairs,
		})
		return
	}

	status := "ok"
	if result.Failed() {
		status = string(result.Reason)
	}
	c.JSON(http.StatusOK, evaluationResponse{
		Pair:    result.Pair,
		Symbol:  result.Symbol,
		Verdict: result.Verdict,
		Status:  status,
		Reply:   result.Reply(),
	})
}

// GetStats godoc
// @Summary      Evaluation outcome counters
// @Tags         stats
// @Produce      json
// @Success      200  {object}  cache.StatsSnapshot
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-stats")
	defer span.End()

	snap, err := h.stats.Snapshot(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
