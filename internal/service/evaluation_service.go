package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"forex-signal-relay/internal/domain"
	"forex-signal-relay/internal/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const (
	defaultWorkers        = 8
	defaultGatewayTimeout = 15 * time.Second
)

type MarketDataGateway interface {
	Fetch(ctx context.Context, req domain.SnapshotRequest) (*domain.IndicatorSnapshot, error)
}

// OutcomeRecorder receives every evaluation outcome. Pair is empty for
// invalid input.
type OutcomeRecorder interface {
	Record(ctx context.Context, pair domain.PairCode, outcome string) error
}

type EvaluationConfig struct {
	Workers        int
	GatewayTimeout time.Duration
}

// EvaluationService validates pair codes, fetches a snapshot on a bounded
// worker pool and classifies it. Evaluate never returns an error; failures are
// reported through EvaluationResult.Reason.
type EvaluationService struct {
	tracer   trace.Tracer
	log      zerolog.Logger
	gateway  MarketDataGateway
	recorder OutcomeRecorder
	workers  *semaphore.Weighted
	timeout  time.Duration
	newID    func() string
}

func NewEvaluationService(
	tracer trace.Tracer,
	log zerolog.Logger,
	gateway MarketDataGateway,
	recorder OutcomeRecorder,
	cfg EvaluationConfig,
) *EvaluationService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeout := cfg.GatewayTimeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	return &EvaluationService{
		tracer:   tracer,
		log:      log.With().Str("component", "evaluation").Logger(),
		gateway:  gateway,
		recorder: recorder,
		workers:  semaphore.NewWeighted(int64(workers)),
		timeout:  timeout,
		newID:    uuid.NewString,
	}
}

func (s *EvaluationService) Evaluate(ctx context.Context, raw string) domain.EvaluationResult {
	ctx, span := s.tracer.Start(ctx, "evaluation-service.evaluate")
	defer span.End()

	pair := domain.NormalizePair(raw)
	result := domain.EvaluationResult{
		RequestID: s.newID(),
		Pair:      pair,
		Verdict:   domain.VerdictIgnore,
	}
	span.SetAttributes(attribute.String("request_id", result.RequestID))

	symbol, err := domain.ToSymbol(pair)
	if err != nil {
		result.Reason = domain.ReasonInvalidPair
		result.Err = err
		span.SetAttributes(attribute.String("outcome", result.Outcome()))
		s.record(ctx, "", result)
		return result
	}
	result.Symbol = symbol
	span.SetAttributes(attribute.String("pair", string(pair)), attribute.String("symbol", string(symbol)))

	result = s.dispatch(ctx, result)
	if result.Failed() {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, string(result.Reason))
	} else {
		s.log.Info().
			Str("request_id", result.RequestID).
			Str("pair", string(result.Pair)).
			Str("verdict", string(result.Verdict)).
			Msg("pair evaluated")
	}
	span.SetAttributes(attribute.String("outcome", result.Outcome()))
	s.record(ctx, pair, result)
	return result
}

// dispatch hands the fetch off to a pooled goroutine and waits for it. This is
// the only point where Evaluate blocks.
func (s *EvaluationService) dispatch(ctx context.Context, result domain.EvaluationResult) domain.EvaluationResult {
	if s.gateway == nil {
		return s.unavailable(result, fmt.Errorf("market data gateway is not configured"))
	}
	if err := s.workers.Acquire(ctx, 1); err != nil {
		return s.unavailable(result, fmt.Errorf("acquire worker: %w", err))
	}

	done := make(chan domain.EvaluationResult, 1)
	go func() {
		defer s.workers.Release(1)
		done <- s.fetchAndClassify(ctx, result)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return s.unavailable(result, ctx.Err())
	}
}

func (s *EvaluationService) fetchAndClassify(ctx context.Context, result domain.EvaluationResult) (out domain.EvaluationResult) {
	defer func() {
		if r := recover(); r != nil {
			out = s.unavailable(result, fmt.Errorf("panic during evaluation: %v", r))
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := s.gateway.Fetch(fetchCtx, domain.SnapshotRequest{
		Symbol:    result.Symbol,
		Timeframe: domain.DefaultTimeframe,
		Screener:  domain.ScreenerForex,
		Exchange:  domain.ExchangeFXIDC,
	})
	if err != nil {
		return s.unavailable(result, normalizeGatewayError(result.Symbol, err))
	}
	if snap == nil {
		return s.unavailable(result, &domain.GatewayError{
			Symbol: result.Symbol,
			Kind:   domain.GatewayMalformed,
			Err:    errors.New("empty snapshot"),
		})
	}

	result.Verdict = signal.Classify(*snap)
	return result
}

func (s *EvaluationService) unavailable(result domain.EvaluationResult, err error) domain.EvaluationResult {
	result.Verdict = domain.VerdictIgnore
	result.Reason = domain.ReasonDataUnavailable
	result.Err = err

	ev := s.log.Warn().
		Str("request_id", result.RequestID).
		Str("pair", string(result.Pair)).
		Str("symbol", string(result.Symbol)).
		Err(err)
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		ev = ev.Str("gateway_error", string(gwErr.Kind))
	}
	ev.Msg("market data unavailable, replying Ignore")
	return result
}

func (s *EvaluationService) record(ctx context.Context, pair domain.PairCode, result domain.EvaluationResult) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), pair, result.Outcome()); err != nil {
		s.log.Warn().Err(err).Str("request_id", result.RequestID).Msg("failed to record evaluation outcome")
	}
}

// normalizeGatewayError keeps provider errors typed; anything else counts as
// an unreachable provider.
func normalizeGatewayError(symbol domain.Symbol, err error) error {
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		return err
	}
	return &domain.GatewayError{Symbol: symbol, Kind: domain.GatewayUnreachable, Err: err}
}
