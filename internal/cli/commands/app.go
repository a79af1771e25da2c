// Package commands implements the kuzumem CLI's subcommands. Every command
// goes through the same memsvc.Service tool handlers dispatch through —
// there is no separate CLI-only data path.
package commands

import (
	"fmt"
	"os"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/config"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dhm"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/logging"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/memsvc"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// buildService constructs the Memory Service from process configuration,
// the way each command needs it for the duration of one invocation.
func buildService(c *cli.Context) (*memsvc.Service, string, func(), error) {
	svc, root, _, cleanup, err := buildServiceWithLogger(c)
	return svc, root, cleanup, err
}

// buildServiceWithLogger is buildService plus the logger, for commands (the
// serve subcommands) that need to hand it to the transport.
func buildServiceWithLogger(c *cli.Context) (*memsvc.Service, string, *zap.Logger, func(), error) {
	cfg := config.Load()
	if lvl := c.String("debug"); lvl != "" {
		cfg.DebugLevel = config.ParseDebugLevel(lvl)
	}
	log := logging.New(cfg.DebugLevel)
	manager := dhm.New(log, cfg.DBPathOverride)
	svc := memsvc.New(manager, log)

	root := c.String("project-root")
	if root == "" {
		root = cfg.ClientProjectRoot
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", nil, nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}

	cleanup := func() {
		_ = svc.Shutdown()
		_ = log.Sync()
	}
	return svc, root, log, cleanup, nil
}

// projectRootFlag is shared by every command that talks to a memory bank.
var projectRootFlag = &cli.StringFlag{
	Name:  "project-root",
	Usage: "project root whose .kuzumem memory bank to use (default: $CLIENT_PROJECT_ROOT or cwd)",
}

var repoBranchFlags = []cli.Flag{
	&cli.StringFlag{Name: "repository", Aliases: []string{"r"}, Required: true, Usage: "repository name"},
	&cli.StringFlag{Name: "branch", Aliases: []string{"b"}, Value: "main", Usage: "branch name"},
}

var debugFlag = &cli.StringFlag{
	Name:  "debug",
	Usage: "log level override, 0-3",
}
