package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"forex-signal-relay/internal/bot"
	"forex-signal-relay/internal/cache"
	"forex-signal-relay/internal/config"
	"forex-signal-relay/internal/handler"
	"forex-signal-relay/internal/logger"
	"forex-signal-relay/internal/provider"
	"forex-signal-relay/internal/service"
	"forex-signal-relay/pkg/tracing"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"

	_ "forex-signal-relay/docs"
)

var (
	loadEnvFunc     = godotenv.Load
	newLoggerFunc   = logger.New
	loadConfigFunc  = config.Load
	initTracerFunc  = tracing.InitTracer
	initRedisFunc   = cache.InitRedis
	newProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.MarketDataGateway {
		return provider.NewTradingViewProvider(tracer, cfg.TradingViewBaseURL, cfg.GatewayTimeout)
	}
	newEvaluationServiceFunc = service.NewEvaluationService
	startTelegramBotFunc     = bot.StartTelegramBot
	stopTelegramBotFunc      = func(b *tele.Bot) { b.Stop() }
	newHandlerFunc           = handler.New
	newRouterFunc            = handler.NewRouter
	setupSignalNotify        = ossignal.Notify
	waitForSignalFunc        = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc      = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc   = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Forex Signal Relay API
// @version         1.0
// @description     Evaluates forex pairs on the 3m timeframe and relays Bullish, Bearish or Ignore verdicts.

// @host      localhost:8080
// @BasePath  /
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc(newLoggerFunc("info", false))
	log := newLoggerFunc(cfg.LogLevel, cfg.LogJSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	// Redis outcome counters are optional
	var (
		recorder service.OutcomeRecorder
		stats    handler.StatsReader
	)
	rdb, err := initRedisFunc(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, outcome stats disabled")
	}
	if rdb != nil {
		defer rdb.Close()
		outcomeStats := cache.NewOutcomeStats(rdb)
		recorder = outcomeStats
		stats = outcomeStats
	}

	gateway := newProviderFunc(tracer, cfg)
	evaluator := newEvaluationServiceFunc(tracer, log, gateway, recorder, service.EvaluationConfig{
		Workers:        cfg.WorkerPoolSize,
		GatewayTimeout: cfg.GatewayTimeout,
	})

	// Start Telegram bot
	tgBot, err := startTelegramBotFunc(ctx, cfg.TelegramBotToken, evaluator, log)
	if err != nil {
		log.Error().Err(err).Msg("telegram bot failed to start, continuing with HTTP only")
	}

	h := newHandlerFunc(tracer, evaluator, stats)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: newRouterFunc(h, log),
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("Shutting down server...")

	cancel()
	if tgBot != nil {
		stopTelegramBotFunc(tgBot)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
