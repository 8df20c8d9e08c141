package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"

	"forex-signal-relay/internal/cache"
	"forex-signal-relay/internal/config"
	"forex-signal-relay/internal/logger"
	mcpserver "forex-signal-relay/internal/mcp"
	"forex-signal-relay/internal/provider"
	"forex-signal-relay/internal/service"
	"forex-signal-relay/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc     = godotenv.Load
	newLoggerFunc   = func(level string, json bool) zerolog.Logger { return logger.NewWithWriter(os.Stderr, level, json) }
	loadConfigFunc  = config.Load
	initTracerFunc  = tracing.InitTracer
	initRedisFunc   = cache.InitRedis
	newProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.MarketDataGateway {
		return provider.NewTradingViewProvider(tracer, cfg.TradingViewBaseURL, cfg.GatewayTimeout)
	}
	newEvaluationServiceFunc = service.NewEvaluationService
	newMCPServerFunc         = mcpserver.NewServer
	notifyContextFunc        = ossignal.NotifyContext
	runStdioFunc             = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
)

func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc(newLoggerFunc("warn", false))
	log := newLoggerFunc(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := notifyContextFunc(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := initTracerFunc(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	var recorder service.OutcomeRecorder
	rdb, err := initRedisFunc(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, outcome stats disabled")
	}
	if rdb != nil {
		defer rdb.Close()
		recorder = cache.NewOutcomeStats(rdb)
	}

	evaluator := newEvaluationServiceFunc(tracer, log, newProviderFunc(tracer, cfg), recorder, service.EvaluationConfig{
		Workers:        cfg.WorkerPoolSize,
		GatewayTimeout: cfg.GatewayTimeout,
	})

	mcpSrv := newMCPServerFunc(tracer, evaluator, mcpserver.ServerConfig{
		RequestTimeout: cfg.MCPRequestTimeout,
	})

	log.Info().Msg("MCP stdio server starting")
	if err := runStdioFunc(ctx, mcpSrv); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("mcp stdio server failed")
	}
}
