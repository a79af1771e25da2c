package commands

import (
	"context"
	"fmt"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/urfave/cli/v2"
)

// NewAddRuleCommand records or updates one governance Rule.
func NewAddRuleCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-rule",
		Usage:     "record a governance rule",
		ArgsUsage: "[id]",
		Flags: append([]cli.Flag{
			projectRootFlag, debugFlag,
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "content", Usage: "rule body"},
			&cli.StringFlag{Name: "status", Value: "active"},
			&cli.StringSliceFlag{Name: "triggers", Usage: "when this rule applies"},
			&cli.StringSliceFlag{Name: "governs", Usage: "component ids this rule governs"},
		}, repoBranchFlags...),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("rule id is required")
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
			r, err := store.UpsertRule(context.Background(), c.String("repository"), c.String("branch"), repo.UpsertRuleInput{
				ID:                 id,
				Name:               c.String("name"),
				Content:            c.String("content"),
				Status:             c.String("status"),
				Triggers:           c.StringSlice("triggers"),
				GovernedComponents: c.StringSlice("governs"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("rule %s (%s) saved\n", r.ID, r.Name)
			return nil
		},
	}
}
