package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, evaluator Evaluator) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "pairs_list",
		Description: "List the 20 supported forex pair codes and their provider symbols",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ pairsListInput) (*mcp.CallToolResult, pairsListOutput, error) {
		return nil, supportedPairEntries(), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pairs_evaluate",
		Description: "Fetch the 3m RSI and recommendation for a pair and classify it as Bullish, Bearish or Ignore",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in pairsEvaluateInput) (*mcp.CallToolResult, pairsEvaluateOutput, error) {
		if evaluator == nil {
			return nil, pairsEvaluateOutput{}, fmt.Errorf("evaluation service unavailable")
		}
		pair, err := validatePair(in.Pair)
		if err != nil {
			return nil, pairsEvaluateOutput{}, err
		}
		return nil, evaluationOutput(evaluator.Evaluate(ctx, string(pair))), nil
	})
}
