package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forex-signal-relay/internal/domain"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

const (
	greetingMessage    = domain.GreetingMessage
	invalidPairMessage = domain.InvalidPairMessage
	analyzingMessage   = domain.AnalyzingMessage

	pollTimeout = 10 * time.Second
)

type Evaluator interface {
	Evaluate(ctx context.Context, raw string) domain.EvaluationResult
}

// replier is the part of tele.Context the text handler needs.
type replier interface {
	Send(what interface{}, opts ...interface{}) error
}

type notifier interface {
	Notify(action tele.ChatAction) error
}

type handlerRegistrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

// StartTelegramBot starts long polling in the background. With an empty token
// it logs a warning and returns a nil bot.
func StartTelegramBot(ctx context.Context, token string, evaluator Evaluator, log zerolog.Logger) (*tele.Bot, error) {
	if token == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			ev := log.Error().Err(err)
			if c != nil && c.Chat() != nil {
				ev = ev.Int64("chat_id", c.Chat().ID)
			}
			ev.Msg("telegram handler error")
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	registerHandlers(ctx, b, evaluator, log)

	log.Info().Str("bot", b.Me.Username).Msg("Telegram bot started")
	go b.Start()
	return b, nil
}

func registerHandlers(ctx context.Context, r handlerRegistrar, evaluator Evaluator, log zerolog.Logger) {
	r.Handle("/start", func(c tele.Context) error {
		return c.Send(greetingMessage)
	})

	r.Handle("/help", func(c tele.Context) error {
		return c.Send(greetingMessage)
	})

	r.Handle("/pairs", func(c tele.Context) error {
		return c.Send(formatPairs())
	})

	// Telebot runs each update in its own goroutine, so a slow evaluation
	// only holds up its own conversation.
	r.Handle(tele.OnText, func(c tele.Context) error {
		chatLog := log
		if chat := c.Chat(); chat != nil {
			chatLog = log.With().Int64("chat_id", chat.ID).Logger()
		}
		return handleText(ctx, c, evaluator, c.Text(), chatLog)
	})
}

// handleText answers one inbound message. For a valid pair the interim
// acknowledgement is always sent before the evaluation starts.
func handleText(ctx context.Context, r replier, evaluator Evaluator, text string, log zerolog.Logger) error {
	pair := domain.NormalizePair(text)
	if !domain.IsValidPair(pair) {
		log.Debug().Str("input", truncate(text, 32)).Msg("rejected invalid pair")
		return r.Send(invalidPairMessage)
	}

	if err := r.Send(analyzingMessage); err != nil {
		return err
	}
	if n, ok := r.(notifier); ok {
		_ = n.Notify(tele.Typing)
	}

	if evaluator == nil {
		return r.Send(domain.EvaluationResult{Pair: pair, Reason: domain.ReasonDataUnavailable}.Reply())
	}
	result := evaluator.Evaluate(ctx, string(pair))
	if result.Reason == domain.ReasonInvalidPair {
		return r.Send(invalidPairMessage)
	}
	return r.Send(result.Reply())
}

func formatPairs() string {
	codes := make([]string, 0, len(domain.SupportedPairs))
	for _, p := range domain.SupportedPairs {
		codes = append(codes, p.Upper())
	}
	return fmt.Sprintf("Supported pairs (%d):\n%s", len(codes), strings.Join(codes, ", "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
