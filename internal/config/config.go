package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	TelegramBotToken string
	RedisURL         string
	HTTPPort         int

	TradingViewBaseURL string
	GatewayTimeout     time.Duration
	WorkerPoolSize     int

	MCPRequestTimeout time.Duration

	SSHListenAddr  string
	SSHHostKeyPath string
	TUILogFile     string

	LogLevel string
	LogJSON  bool

	OTLPEndpoint string
}

// Load reads configuration from the environment. Missing or invalid values
// fall back to defaults with a warning.
func Load(log zerolog.Logger) *Config {
	cfg := &Config{
		TelegramBotToken:   strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		TradingViewBaseURL: strings.TrimSpace(os.Getenv("TRADINGVIEW_BASE_URL")),
		OTLPEndpoint:       strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		SSHListenAddr:      strings.TrimSpace(os.Getenv("SSH_LISTEN_ADDR")),
		SSHHostKeyPath:     strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH")),
		TUILogFile:         strings.TrimSpace(os.Getenv("TUI_LOG_FILE")),
	}

	if cfg.TelegramBotToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, outcome stats will be disabled")
	}
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/signal_relay_ed25519"
	}
	if cfg.TUILogFile == "" {
		cfg.TUILogFile = "signal-relay-tui.log"
	}
	if cfg.TradingViewBaseURL == "" {
		cfg.TradingViewBaseURL = "https://scanner.tradingview.com"
	}

	cfg.HTTPPort = positiveInt(log, "HTTP_PORT", 8080)
	cfg.GatewayTimeout = time.Duration(positiveInt(log, "GATEWAY_TIMEOUT_SECS", 15)) * time.Second
	cfg.WorkerPoolSize = positiveInt(log, "WORKER_POOL_SIZE", 8)
	cfg.MCPRequestTimeout = time.Duration(positiveInt(log, "MCP_REQUEST_TIMEOUT_SECS", 20)) * time.Second

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogJSON = strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_JSON")), "true")

	return cfg
}

func positiveInt(log zerolog.Logger, key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", fallback).Msg("invalid config value, using default")
		return fallback
	}
	return n
}
