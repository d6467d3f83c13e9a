package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/numlab/pkg/methods"
	"github.com/tb0hdan/numlab/pkg/server"
	"github.com/tb0hdan/numlab/pkg/tools"
)

type Input struct {
	Category string `json:"category,omitempty" validate:"omitempty,oneof=root linear interpolation regression integration" jsonschema:"only list methods in this category"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        "methods",
		Description: "List the numerical methods the solve tool accepts, optionally filtered by category.",
	}

	mcp.AddTool(&srv.Server, tool, t.MethodsHandler)
	t.logger.Debug().Msg("methods tool registered")

	return nil
}

func (t *Tool) MethodsHandler(_ context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	list := make([]methods.Method, 0)
	for _, m := range methods.Catalog() {
		if m.Category == methods.CategoryHome {
			continue
		}
		if input.Category != "" && string(m.Category) != input.Category {
			continue
		}
		list = append(list, m)
	}

	data, _ := json.MarshalIndent(list, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", "methods").Logger(),
		validator: validator.New(),
	}
}
