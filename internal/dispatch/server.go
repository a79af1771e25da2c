package dispatch

import (
	"net/http"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/memsvc"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Implementation identifies this server to connecting clients.
var Implementation = &mcp.Implementation{
	Name:    "kuzumem-mcp",
	Version: "1.0.0",
}

// NewServer builds one *mcp.Server with every fixed tool registered,
// dispatching through svc. defaultRoot is used when a call supplies no
// clientProjectRoot, no session default is set, and no root is registered
// for the call's (repository, branch). sessions registers the
// one dispatch.Session this server's tool calls close over, so stats
// (Count/EvictIdle) reflect real connections instead of an always-empty
// map. The stdio transport calls this once per process; the HTTP
// transport's factory calls it once per new MCP connection. log (nil
// tolerated) is threaded into every tool call's error/progress logging.
func NewServer(svc *memsvc.Service, defaultRoot string, sessions *SessionManager, log *zap.Logger) *mcp.Server {
	session := sessions.Create()
	server := mcp.NewServer(Implementation, nil)
	tools.Register(server, svc, defaultRoot, session, log)
	return server
}

// NewHTTPServerFactory returns the per-request server constructor the
// streamable-HTTP handler calls once per new MCP session. Every HTTP
// session gets its own *mcp.Server instance (and its own dispatch.Session,
// registered in sessions), all sharing the same underlying memsvc.Service
// (and therefore the same DHM handle cache).
func NewHTTPServerFactory(svc *memsvc.Service, defaultRoot string, sessions *SessionManager, log *zap.Logger) func(*http.Request) *mcp.Server {
	return func(_ *http.Request) *mcp.Server {
		return NewServer(svc, defaultRoot, sessions, log)
	}
}
