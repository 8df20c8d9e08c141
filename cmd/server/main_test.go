package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"forex-signal-relay/internal/bot"
	"forex-signal-relay/internal/config"
	"forex-signal-relay/internal/domain"
	"forex-signal-relay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore, captured := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	if captured.addr != ":9191" {
		t.Fatalf("expected HTTP server on :9191, got %q", captured.addr)
	}
	if captured.token != "test-token" {
		t.Fatalf("expected bot token to be passed through, got %q", captured.token)
	}
	if captured.evalCfg.Workers != 3 || captured.evalCfg.GatewayTimeout != 4*time.Second {
		t.Fatalf("unexpected evaluation config: %+v", captured.evalCfg)
	}
	if captured.recorder != nil {
		t.Fatal("expected nil recorder when redis is disabled")
	}
	if !captured.shutdown {
		t.Fatal("expected HTTP server shutdown")
	}
}

type bootstrapCapture struct {
	addr     string
	token    string
	evalCfg  service.EvaluationConfig
	recorder service.OutcomeRecorder
	shutdown bool
}

type noopGateway struct{}

func (noopGateway) Fetch(context.Context, domain.SnapshotRequest) (*domain.IndicatorSnapshot, error) {
	return nil, errors.New("not used")
}

func stubServerDeps() (func(), *bootstrapCapture) {
	captured := &bootstrapCapture{}

	origLoadEnv := loadEnvFunc
	origNewLogger := newLoggerFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origInitRedis := initRedisFunc
	origNewProvider := newProviderFunc
	origNewEvaluation := newEvaluationServiceFunc
	origStartTelegram := startTelegramBotFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	newLoggerFunc = func(string, bool) zerolog.Logger { return zerolog.Nop() }
	loadConfigFunc = func(zerolog.Logger) *config.Config {
		return &config.Config{
			TelegramBotToken: "test-token",
			HTTPPort:         9191,
			GatewayTimeout:   4 * time.Second,
			WorkerPoolSize:   3,
		}
	}
	initTracerFunc = func(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	initRedisFunc = func(context.Context, string, zerolog.Logger) (*redis.Client, error) { return nil, nil }
	newProviderFunc = func(trace.Tracer, *config.Config) service.MarketDataGateway { return noopGateway{} }
	newEvaluationServiceFunc = func(
		tracer trace.Tracer,
		log zerolog.Logger,
		gw service.MarketDataGateway,
		rec service.OutcomeRecorder,
		cfg service.EvaluationConfig,
	) *service.EvaluationService {
		captured.evalCfg = cfg
		captured.recorder = rec
		return service.NewEvaluationService(tracer, log, gw, rec, cfg)
	}
	startTelegramBotFunc = func(ctx context.Context, token string, ev bot.Evaluator, log zerolog.Logger) (*tele.Bot, error) {
		captured.token = token
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(srv *http.Server) error {
		return http.ErrServerClosed
	}
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error {
		captured.addr = srv.Addr
		captured.shutdown = true
		return nil
	}

	return func() {
		loadEnvFunc = origLoadEnv
		newLoggerFunc = origNewLogger
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		initRedisFunc = origInitRedis
		newProviderFunc = origNewProvider
		newEvaluationServiceFunc = origNewEvaluation
		startTelegramBotFunc = origStartTelegram
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}, captured
}
