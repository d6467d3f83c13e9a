package tools

import (
	"github.com/tb0hdan/numlab/pkg/server"
)

// Tool is an MCP tool that registers itself on the server.
type Tool interface {
	Register(srv *server.Server) error
}
