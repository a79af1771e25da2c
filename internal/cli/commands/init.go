package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

// NewInitCommand creates the memory bank for a (repository, branch) pair.
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "initialize the memory bank for a repository/branch",
		Flags: append([]cli.Flag{projectRootFlag, debugFlag}, repoBranchFlags...),
		Action: func(c *cli.Context) error {
			svc, root, cleanup, err := buildService(c)
			if err != nil {
				return err
			}
			defer cleanup()

			store, err := svc.Resolve(context.Background(), root)
			if err != nil {
				return err
			}
			if _, err := store.UpsertMetadata(context.Background(), c.String("repository"), c.String("branch"), "__init__", map[string]any{}); err != nil {
				return err
			}
			fmt.Printf("initialized memory bank for %s@%s at %s\n", c.String("repository"), c.String("branch"), root)
			return nil
		},
	}
}
