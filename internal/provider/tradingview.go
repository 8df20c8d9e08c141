package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"forex-signal-relay/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTradingViewBaseURL = "https://scanner.tradingview.com"

	defaultHTTPTimeout = 15 * time.Second
	maxResponseBytes   = 1 << 20
)

var timeframeSuffix = map[domain.Timeframe]string{
	"1m":  "|1",
	"3m":  "|3",
	"5m":  "|5",
	"15m": "|15",
	"30m": "|30",
	"1h":  "|60",
	"4h":  "|240",
	"1d":  "",
}

// TradingViewProvider reads indicator snapshots from the TradingView scanner API.
type TradingViewProvider struct {
	tracer  trace.Tracer
	client  *http.Client
	baseURL string
	now     func() time.Time
}

func NewTradingViewProvider(tracer trace.Tracer, baseURL string, timeout time.Duration) *TradingViewProvider {
	if baseURL == "" {
		baseURL = DefaultTradingViewBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &TradingViewProvider{
		tracer:  tracer,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

type scanRequest struct {
	Symbols scanSymbols `json:"symbols"`
	Columns []string    `json:"columns"`
}

type scanSymbols struct {
	Tickers []string  `json:"tickers"`
	Query   scanQuery `json:"query"`
}

type scanQuery struct {
	Types []string `json:"types"`
}

// Fetch performs a single scan request. It never retries; every failure is a
// *domain.GatewayError.
func (p *TradingViewProvider) Fetch(ctx context.Context, req domain.SnapshotRequest) (*domain.IndicatorSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "tradingview.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("symbol", string(req.Symbol)),
		attribute.String("timeframe", string(req.Timeframe)),
		attribute.String("screener", req.Screener),
	)

	snap, err := p.fetch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	return snap, nil
}

func (p *TradingViewProvider) fetch(ctx context.Context, req domain.SnapshotRequest) (*domain.IndicatorSnapshot, error) {
	fail := func(kind domain.GatewayErrorKind, err error) error {
		return &domain.GatewayError{Symbol: req.Symbol, Kind: kind, Err: err}
	}

	suffix, ok := timeframeSuffix[req.Timeframe]
	if !ok {
		return nil, fail(domain.GatewayRejected, fmt.Errorf("unsupported timeframe %q", req.Timeframe))
	}
	if req.Symbol.Base() == "" || req.Symbol.Quote() == "" {
		return nil, fail(domain.GatewayRejected, fmt.Errorf("invalid symbol %q", req.Symbol))
	}

	payload, err := json.Marshal(scanRequest{
		Symbols: scanSymbols{
			Tickers: []string{req.Symbol.Ticker(req.Exchange)},
			Query:   scanQuery{Types: []string{}},
		},
		Columns: []string{"Recommend.All" + suffix, "RSI" + suffix},
	})
	if err != nil {
		return nil, fail(domain.GatewayMalformed, fmt.Errorf("encode scan request: %w", err))
	}

	url := fmt.Sprintf("%s/%s/scan", p.baseURL, req.Screener)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fail(domain.GatewayUnreachable, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fail(domain.GatewayUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fail(domain.GatewayUnreachable, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fail(domain.GatewayUnreachable, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	return p.parse(req, body, fail)
}

func (p *TradingViewProvider) parse(
	req domain.SnapshotRequest,
	body []byte,
	fail func(domain.GatewayErrorKind, error) error,
) (*domain.IndicatorSnapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, fail(domain.GatewayMalformed, fmt.Errorf("response is not valid json"))
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, fail(domain.GatewayMalformed, fmt.Errorf("response has no data array"))
	}
	rows := data.Array()
	if len(rows) == 0 {
		return nil, fail(domain.GatewayRejected, fmt.Errorf("symbol not found by provider"))
	}

	values := rows[0].Get("d")
	score := values.Get("0")
	rsi := values.Get("1")
	if score.Type != gjson.Number || rsi.Type != gjson.Number {
		return nil, fail(domain.GatewayMalformed, fmt.Errorf("missing indicator values: %s", truncate(values.Raw, 200)))
	}

	rec, ok := recommendationFromScore(score.Float())
	if !ok {
		return nil, fail(domain.GatewayMalformed, fmt.Errorf("recommendation score %.4f out of range", score.Float()))
	}

	return &domain.IndicatorSnapshot{
		Symbol:         req.Symbol,
		Timeframe:      req.Timeframe,
		RSI:            rsi.Float(),
		Recommendation: rec,
		FetchedAt:      p.now().UTC(),
	}, nil
}

// recommendationFromScore buckets the aggregate Recommend.All score (-1..1).
func recommendationFromScore(v float64) (domain.Recommendation, bool) {
	switch {
	case v >= -1 && v < -0.5:
		return domain.RecommendationStrongSell, true
	case v >= -0.5 && v < -0.1:
		return domain.RecommendationSell, true
	case v >= -0.1 && v <= 0.1:
		return domain.RecommendationNeutral, true
	case v > 0.1 && v <= 0.5:
		return domain.RecommendationBuy, true
	case v > 0.5 && v <= 1:
		return domain.RecommendationStrongBuy, true
	default:
		return "", false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
