package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"forex-signal-relay/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubEvaluator struct {
	mu      sync.Mutex
	verdict domain.Verdict
	reason  domain.FailureReason
	inputs  []string
}

func (s *stubEvaluator) Evaluate(ctx context.Context, raw string) domain.EvaluationResult {
	s.mu.Lock()
	s.inputs = append(s.inputs, raw)
	s.mu.Unlock()

	pair := domain.NormalizePair(raw)
	sym, _ := domain.ToSymbol(pair)
	verdict := s.verdict
	if s.reason != domain.ReasonNone {
		verdict = domain.VerdictIgnore
	}
	return domain.EvaluationResult{Pair: pair, Symbol: sym, Verdict: verdict, Reason: s.reason}
}

func (s *stubEvaluator) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.inputs...)
}

func testServer() (*sdkmcp.Server, *stubEvaluator) {
	ev := &stubEvaluator{verdict: domain.VerdictBullish}
	srv := NewServer(nil, ev, ServerConfig{RequestTimeout: time.Second})
	return srv, ev
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}

func decodeToolJSON(result *sdkmcp.CallToolResult, out any) error {
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
