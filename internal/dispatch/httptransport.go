package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	maxBodyBytes   = 10 << 20 // 10MB
	requestTimeout = 30 * time.Second
	idleSweep      = 10 * time.Minute
	idleMaxAge     = 30 * time.Minute
)

// HTTPServer wraps the streamable-HTTP MCP transport in a gin router: one
// gin.Engine, grouped middleware, and a background sweep goroutine instead
// of a cron job.
type HTTPServer struct {
	router   *gin.Engine
	sessions *SessionManager
	log      *zap.Logger
}

// NewHTTPServer builds the router. newServer is called once per MCP session
// by the streamable-HTTP handler (the go-sdk's contract), letting each HTTP
// session get its own *mcp.Server bound to its own dispatch Session.
func NewHTTPServer(newServer func(*http.Request) *mcp.Server, sessions *SessionManager, log *zap.Logger) *HTTPServer {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(bodyLimitMiddleware(maxBodyBytes))
	r.Use(timeoutMiddleware(requestTimeout))

	mcpHandler := mcp.NewStreamableHTTPHandler(newServer, nil)

	r.Any("/mcp", gin.WrapH(mcpHandler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessions.Count()})
	})

	return &HTTPServer{router: r, sessions: sessions, log: log}
}

// Handler returns the http.Handler to pass to http.Server.
func (s *HTTPServer) Handler() http.Handler { return s.router }

// RunIdleSweep evicts sessions idle past idleMaxAge every idleSweep interval
// until ctx is canceled.
func (s *HTTPServer) RunIdleSweep(ctx context.Context) {
	ticker := time.NewTicker(idleSweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.sessions.EvictIdle(idleMaxAge)
			if n > 0 {
				s.log.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, mcp-session-id")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// bodyLimitMiddleware enforces §5's 10MB request body cap. It reads the
// body itself (rather than just wrapping it in http.MaxBytesReader and
// deferring to the handler) so an oversized body can be turned into the
// §7 JSON-RPC error envelope here, before the streamable-HTTP handler ever
// sees it — gin.WrapH gives us no hook into errors the wrapped handler's
// own body reads produce.
func bodyLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSONRPCError(c, http.StatusRequestEntityTooLarge, "Payload Too Large")
				return
			}
			writeJSONRPCError(c, http.StatusBadRequest, "failed to read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Next()
	}
}

// writeJSONRPCError aborts the request with a JSON-RPC -32000 error body
// (§7's generic server-error code) under the given HTTP status.
func writeJSONRPCError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"jsonrpc": "2.0",
		"id":      nil,
		"error": gin.H{
			"code":    -32000,
			"message": message,
		},
	})
}

func timeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
