package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/config"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dispatch"
	"github.com/urfave/cli/v2"
)

// NewServeCommand starts the MCP server, over stdio or streamable HTTP.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the MCP server",
		Subcommands: []*cli.Command{
			serveStdioCmd(),
			serveHTTPCmd(),
		},
	}
}

func serveStdioCmd() *cli.Command {
	return &cli.Command{
		Name:  "stdio",
		Usage: "serve over the stdio JSON-RPC transport",
		Flags: []cli.Flag{projectRootFlag, debugFlag},
		Action: func(c *cli.Context) error {
			svc, root, log, cleanup, err := buildServiceWithLogger(c)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sessions := dispatch.NewSessionManager()
			server := dispatch.NewServer(svc, root, sessions, log)
			return dispatch.ServeStdio(ctx, server, log)
		},
	}
}

func serveHTTPCmd() *cli.Command {
	return &cli.Command{
		Name:  "http",
		Usage: "serve over the streamable-HTTP transport",
		Flags: append([]cli.Flag{projectRootFlag, debugFlag}, []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "bind host, overrides $HOST"},
			&cli.IntFlag{Name: "port", Usage: "bind port, overrides $HTTP_STREAM_PORT"},
		}...),
		Action: func(c *cli.Context) error {
			svc, root, log, cleanup, err := buildServiceWithLogger(c)
			if err != nil {
				return err
			}
			defer cleanup()

			sessions := dispatch.NewSessionManager()
			factory := dispatch.NewHTTPServerFactory(svc, root, sessions, log)
			httpServer := dispatch.NewHTTPServer(factory, sessions, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go httpServer.RunIdleSweep(ctx)

			cfg := config.Load()
			addr := fmt.Sprintf("%s:%d", httpHost(c, cfg.Host), httpPort(c, cfg.HTTPStreamPort))
			srv := &http.Server{Addr: addr, Handler: httpServer.Handler()}

			go func() {
				<-ctx.Done()
				_ = srv.Close()
			}()

			fmt.Printf("listening on %s\n", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}

func httpHost(c *cli.Context, fallback string) string {
	if h := c.String("host"); h != "" {
		return h
	}
	return fallback
}

func httpPort(c *cli.Context, fallback int) int {
	if p := c.Int("port"); p != 0 {
		return p
	}
	return fallback
}
