package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, evaluator Evaluator) {
	server.AddResource(&mcp.Resource{
		URI:         "market://supported-pairs",
		Name:        "supported-pairs",
		Description: "Forex pairs accepted by the relay with their provider symbols",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return jsonResource(req.Params.URI, supportedPairEntries())
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "verdict://{pair}",
		Name:        "verdict-by-pair",
		Description: "Fresh 3m verdict for a single pair",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if evaluator == nil {
			return nil, fmt.Errorf("evaluation service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil || parsed.Scheme != "verdict" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		pair, err := validatePair(strings.Trim(parsed.Host+parsed.Path, "/"))
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, evaluationOutput(evaluator.Evaluate(ctx, string(pair))))
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
