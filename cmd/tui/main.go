package main

import (
	"context"
	"errors"
	"io"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"forex-signal-relay/internal/cache"
	"forex-signal-relay/internal/config"
	"forex-signal-relay/internal/logger"
	"forex-signal-relay/internal/provider"
	"forex-signal-relay/internal/service"
	"forex-signal-relay/internal/tui"
	"forex-signal-relay/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	openLogFileFunc = func(path string) (io.WriteCloser, error) {
		return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	}
	initTracerFunc  = tracing.InitTracer
	initRedisFunc   = cache.InitRedis
	newProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.MarketDataGateway {
		return provider.NewTradingViewProvider(tracer, cfg.TradingViewBaseURL, cfg.GatewayTimeout)
	}
	newEvaluationServiceFunc = service.NewEvaluationService
	runLocalFunc             = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
	newSSHServerFunc      = newSSHServer
	startSSHServerFunc    = func(s *ssh.Server) error { return s.ListenAndServe() }
	shutdownSSHServerFunc = func(s *ssh.Server, ctx context.Context) error { return s.Shutdown(ctx) }
	setupSignalNotify     = ossignal.Notify
	waitForSignalFunc     = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	_ = loadEnvFunc()

	// The terminal belongs to the UI, so logs go to a file.
	cfg := loadConfigFunc(zerolog.Nop())
	logOut, err := openLogFileFunc(cfg.TUILogFile)
	if err != nil {
		logOut = nopWriteCloser{io.Discard}
	}
	defer logOut.Close()
	log := logger.NewWithWriter(logOut, cfg.LogLevel, cfg.LogJSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	svc := tui.Services{}
	var recorder service.OutcomeRecorder
	rdb, err := initRedisFunc(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, outcome stats disabled")
	}
	if rdb != nil {
		defer rdb.Close()
		stats := cache.NewOutcomeStats(rdb)
		recorder = stats
		svc.Stats = stats
	}

	svc.Evaluator = newEvaluationServiceFunc(tracer, log, newProviderFunc(tracer, cfg), recorder, service.EvaluationConfig{
		Workers:        cfg.WorkerPoolSize,
		GatewayTimeout: cfg.GatewayTimeout,
	})

	if cfg.SSHListenAddr == "" {
		if err := runLocalFunc(tui.NewAppModel(svc)); err != nil {
			log.Error().Err(err).Msg("tui exited with error")
		}
		return
	}

	srv, err := newSSHServerFunc(cfg.SSHListenAddr, cfg.SSHHostKeyPath, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create ssh server")
	}

	go func() {
		log.Info().Str("addr", cfg.SSHListenAddr).Msg("SSH TUI listening")
		if err := startSSHServerFunc(srv); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error().Err(err).Msg("ssh server failed")
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("Shutting down SSH server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdownSSHServerFunc(srv, shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error().Err(err).Msg("ssh server forced to shutdown")
	}
}

// newSSHServer serves one TUI session per SSH connection. Sessions share the
// evaluation service and its worker pool.
func newSSHServer(addr, hostKeyPath string, svc tui.Services) (*ssh.Server, error) {
	return wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bm.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				pty, _, _ := s.Pty()
				m := tui.NewAppModel(svc)
				m.SetSize(pty.Window.Width, pty.Window.Height)
				return m, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
