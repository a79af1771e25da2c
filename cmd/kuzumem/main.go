package main

import (
	"log"
	"os"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/cli/commands"
	"github.com/urfave/cli/v2"
)

// Version is set during build with ldflags.
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "kuzumem",
		Usage:   "per-project graph memory bank, over MCP or the command line",
		Version: Version,
		Commands: []*cli.Command{
			commands.NewInitCommand(),
			commands.NewAddComponentCommand(),
			commands.NewAddDecisionCommand(),
			commands.NewAddRuleCommand(),
			commands.NewAddContextCommand(),
			commands.NewExportCommand(),
			commands.NewImportCommand(),
			commands.NewServeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
