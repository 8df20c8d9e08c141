package cache

import (
	"context"
	"fmt"
	"strconv"

	"forex-signal-relay/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	outcomesKey = "signal-relay:outcomes"
	pairsKey    = "signal-relay:pairs"
)

// InitRedis connects to addr. An empty addr disables Redis and returns nil.
func InitRedis(ctx context.Context, addr string, log zerolog.Logger) (*redis.Client, error) {
	if addr == "" {
		log.Warn().Msg("REDIS_URL not set, outcome stats disabled")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Msg("connected to Redis")
	return client, nil
}

// OutcomeStats keeps aggregate evaluation counters. No per-request data is stored.
type OutcomeStats struct {
	client *redis.Client
}

type StatsSnapshot struct {
	Outcomes map[string]int64 `json:"outcomes"`
	Pairs    map[string]int64 `json:"pairs"`
}

func NewOutcomeStats(client *redis.Client) *OutcomeStats {
	return &OutcomeStats{client: client}
}

func (s *OutcomeStats) Record(ctx context.Context, pair domain.PairCode, outcome string) error {
	if s == nil || s.client == nil {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, outcomesKey, outcome, 1)
	if pair != "" {
		pipe.HIncrBy(ctx, pairsKey, string(pair), 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record outcome %s: %w", outcome, err)
	}
	return nil
}

func (s *OutcomeStats) Snapshot(ctx context.Context) (*StatsSnapshot, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("outcome stats are disabled")
	}
	outcomes, err := readCounters(ctx, s.client, outcomesKey)
	if err != nil {
		return nil, err
	}
	pairs, err := readCounters(ctx, s.client, pairsKey)
	if err != nil {
		return nil, err
	}
	return &StatsSnapshot{Outcomes: outcomes, Pairs: pairs}, nil
}

func readCounters(ctx context.Context, client *redis.Client, key string) (map[string]int64, error) {
	raw, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	out := make(map[string]int64, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s[%s]: %w", key, field, err)
		}
		out[field] = n
	}
	return out, nil
}
