package solve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/numlab/pkg/history"
	"github.com/tb0hdan/numlab/pkg/methods"
	"github.com/tb0hdan/numlab/pkg/numerics"
	"github.com/tb0hdan/numlab/pkg/server"
	"github.com/tb0hdan/numlab/pkg/tools"
)

const ToolName = "solve"

type Input struct {
	Method string         `json:"method" validate:"required" jsonschema:"method slug or route path, e.g. bisection or /GaussSeidel"`
	Params methods.Params `json:"params" jsonschema:"method inputs; each method reads only the fields it needs"`
	Save   bool           `json:"save,omitempty" jsonschema:"append the run to the computation history when it carries equation, a, b and epsilon"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        ToolName,
		Description: "Run a numerical method (root finding, linear systems, interpolation, regression, integration, differentiation) and return its result with the iteration table.",
	}

	handler := tools.WrapToolHandler(srv.History(), t.logger, ToolName, Extract, t.SolveHandler)
	mcp.AddTool(&srv.Server, tool, handler)
	t.logger.Debug().Msg("solve tool registered")

	return nil
}

// Extract selects the calls that are saved to history.
func Extract(in Input) (history.SaveRequest, bool) {
	if !in.Save {
		return history.SaveRequest{}, false
	}
	m, ok := methods.Lookup(in.Method)
	if !ok {
		return history.SaveRequest{}, false
	}
	return history.RequestFromParams(m.Slug, in.Params)
}

func (t *Tool) SolveHandler(_ context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	result, err := methods.Solve(input.Method, input.Params)
	switch {
	case errors.Is(err, methods.ErrUnknownMethod):
		// A *jsonrpc.Error reaches the client as a protocol error, not a tool result.
		return nil, nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
	case err != nil && !errors.Is(err, numerics.ErrMaxIterations):
		// Numerical failures are reported to the model as tool errors.
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		}, nil, nil
	}

	response := map[string]any{"method": input.Method, "result": result, "converged": err == nil}
	if err != nil {
		response["warning"] = err.Error()
	}
	data, _ := json.MarshalIndent(response, "", "  ")

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", ToolName).Logger(),
		validator: validator.New(),
	}
}
