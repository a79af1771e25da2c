package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/urfave/cli/v2"
)

// NewAddDecisionCommand records or updates one architectural Decision.
func NewAddDecisionCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-decision",
		Usage:     "record an architectural decision",
		ArgsUsage: "[id]",
		Flags: append([]cli.Flag{
			projectRootFlag, debugFlag,
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "context", Usage: "why the decision was made"},
			&cli.StringFlag{Name: "date", Usage: "ISO-8601 date, defaults to today"},
			&cli.StringSliceFlag{Name: "affects", Usage: "component ids this decision affects"},
		}, repoBranchFlags...),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("decision id is required")
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
			date := c.String("date")
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			dec, err := store.UpsertDecision(context.Background(), c.String("repository"), c.String("branch"), repo.UpsertDecisionInput{
				ID:                 id,
				Name:               c.String("name"),
				Context:            c.String("context"),
				Date:               date,
				AffectedComponents: c.StringSlice("affects"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("decision %s (%s) saved\n", dec.ID, dec.Name)
			return nil
		},
	}
}
