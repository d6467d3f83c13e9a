package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/numlab/pkg/history"
)

// Extractor turns a tool input into a history entry; ok is false when the
// call has nothing worth recording.
type Extractor[In any] func(In) (req history.SaveRequest, ok bool)

// WrapToolHandler wraps a tool handler so that successful calls are appended
// to the computation history.
func WrapToolHandler[In, Out any](
	svc *history.Service,
	logger zerolog.Logger,
	toolName string,
	extract Extractor[In],
	handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error),
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		startTime := time.Now()

		sessionID := ""
		if req != nil && req.Session != nil {
			sessionID = req.Session.ID()
		}

		result, output, err := handler(ctx, req, input)

		event := logger.Debug().
			Str("tool", toolName).
			Str("session", sessionID).
			Dur("duration", time.Since(startTime))
		if err != nil {
			event.Err(err).Msg("tool call failed")
			return result, output, err
		}
		event.Msg("tool call")

		if result != nil && result.IsError {
			return result, output, err
		}
		saveReq, ok := extract(input)
		if !ok {
			return result, output, err
		}

		// Recorded in the background; Server.Shutdown drains pending writes.
		if saveErr := svc.SaveAsync(saveReq); saveErr != nil {
			logger.Warn().Err(saveErr).Str("tool", toolName).Msg("failed to record computation")
		}

		return result, output, err
	}
}
