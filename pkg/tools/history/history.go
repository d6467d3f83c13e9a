package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	svc "github.com/tb0hdan/numlab/pkg/history"
	"github.com/tb0hdan/numlab/pkg/server"
	"github.com/tb0hdan/numlab/pkg/tools"
	"github.com/tb0hdan/numlab/pkg/types"
)

type Input struct {
	Action string `json:"action" validate:"required,oneof=list get"`
	ID     string `json:"id,omitempty" validate:"omitempty,uuid"`
	Limit  int    `json:"limit,omitempty" validate:"min=0"`
	Offset int    `json:"offset,omitempty" validate:"min=0"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	history   *svc.Service
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        "history",
		Description: "Browse saved computations. Actions: list (newest first, paginated), get (by ID).",
	}

	t.history = srv.History()

	mcp.AddTool(&srv.Server, tool, t.HistoryHandler)
	t.logger.Debug().Msg("history tool registered")

	return nil
}

func (t *Tool) HistoryHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	var resultText string

	switch input.Action {
	case "list":
		limit := input.Limit
		if limit > types.MaxHistoryLimit {
			return nil, nil, fmt.Errorf("limit must be at most %d", types.MaxHistoryLimit)
		}
		if limit == 0 {
			limit = types.DefaultHistoryLimit
		}
		page, err := t.history.Page(ctx, limit, input.Offset)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list computations: %w", err)
		}
		data, _ := json.MarshalIndent(page, "", "  ")
		resultText = string(data)

	case "get":
		if input.ID == "" {
			return nil, nil, fmt.Errorf("id is required for get action")
		}
		rec, err := t.history.Get(ctx, input.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("computation %s: %w", input.ID, err)
		}
		data, _ := json.MarshalIndent(rec, "", "  ")
		resultText = string(data)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resultText},
		},
	}, nil, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", "history").Logger(),
		validator: validator.New(),
	}
}
