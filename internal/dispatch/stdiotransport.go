package dispatch

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ServeStdio runs server over the stdio JSON-RPC transport until ctx is
// canceled or the client closes its end — one process, one implicit
// session, no transport table.
func ServeStdio(ctx context.Context, server *mcp.Server, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("starting stdio transport")
	err := server.Run(ctx, &mcp.StdioTransport{})
	if err != nil {
		log.Error("stdio transport exited", zap.Error(err))
	}
	return err
}
