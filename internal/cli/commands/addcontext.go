package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/urfave/cli/v2"
)

// NewAddContextCommand records one daily journal entry.
func NewAddContextCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-context",
		Usage:     "record a daily working-context entry",
		ArgsUsage: "[id]",
		Flags: append([]cli.Flag{
			projectRootFlag, debugFlag,
			&cli.StringFlag{Name: "summary", Required: true},
			&cli.StringFlag{Name: "agent", Usage: "agent or person recording this entry"},
			&cli.StringFlag{Name: "date", Usage: "ISO-8601 date, defaults to today"},
			&cli.StringFlag{Name: "related-issue"},
			&cli.StringSliceFlag{Name: "observations"},
			&cli.StringSliceFlag{Name: "related-items", Usage: "component/decision/rule ids this entry is about"},
		}, repoBranchFlags...),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("context id is required")
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
			entry, err := store.UpsertContext(context.Background(), c.String("repository"), c.String("branch"), repo.UpsertContextInput{
				ID:           id,
				ISODate:      date,
				Summary:      c.String("summary"),
				Agent:        c.String("agent"),
				RelatedIssue: c.String("related-issue"),
				Observations: c.StringSlice("observations"),
				RelatedItems: c.StringSlice("related-items"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("context %s saved\n", entry.GUID)
			return nil
		},
	}
}
