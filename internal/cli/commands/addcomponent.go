package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/urfave/cli/v2"
)

// NewAddComponentCommand records or updates one Component.
func NewAddComponentCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-component",
		Usage:     "create or update a component",
		ArgsUsage: "[id]",
		Flags: append([]cli.Flag{
			projectRootFlag, debugFlag,
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "kind", Usage: "free-form component kind, e.g. service, library"},
			&cli.StringFlag{Name: "status", Value: string(model.ComponentActive), Usage: "active|deprecated|planned"},
			&cli.StringSliceFlag{Name: "depends-on", Usage: "component ids this one depends on"},
		}, repoBranchFlags...),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("component id is required")
			}
			id := c.Args().First()

			svc, root, cleanup, err := buildService(c)
			if err != nil {
				return err
			}
			defer cleanup()

			store, err := svc.Resolve(context.Background(), root)
			if err != nil {
				return err
			}
			comp, err := store.UpsertComponent(context.Background(), c.String("repository"), c.String("branch"), repo.UpsertComponentInput{
				ID:        id,
				Name:      c.String("name"),
				Kind:      c.String("kind"),
				Status:    model.ComponentStatus(c.String("status")),
				DependsOn: c.StringSlice("depends-on"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("component %s saved (depends_on: %s)\n", comp.ID, strings.Join(comp.DependsOn, ", "))
			return nil
		},
	}
}
