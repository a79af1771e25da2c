package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/urfave/cli/v2"
)

// NewImportCommand loads a JSON snapshot produced by `export` back into a
// memory bank, upserting its metadata, components, decisions and rules.
// Context entries in the snapshot are not imported.
func NewImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import a memory bank snapshot from JSON",
		ArgsUsage: "[file]",
		Flags:     []cli.Flag{projectRootFlag, debugFlag},
		Action: func(c *cli.Context) error {
			var r io.Reader = os.Stdin
			if c.NArg() > 0 {
				f, err := os.Open(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var doc exportDoc
			if err := json.NewDecoder(r).Decode(&doc); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			if doc.Repository == "" || doc.Branch == "" {
				return fmt.Errorf("snapshot is missing repository/branch")
			}

			svc, root, cleanup, err := buildService(c)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			store, err := svc.Resolve(ctx, root)
			if err != nil {
				return err
			}

			if doc.Metadata != nil {
				if _, err := store.UpsertMetadata(ctx, doc.Repository, doc.Branch, "metadata", doc.Metadata); err != nil {
					return err
				}
			}

			var imported int
			for _, item := range doc.Components {
				id, _ := item["id"].(string)
				name, _ := item["name"].(string)
				kind, _ := item["kind"].(string)
				status, _ := item["status"].(string)
				if _, err := store.UpsertComponent(ctx, doc.Repository, doc.Branch, repo.UpsertComponentInput{
					ID: id, Name: name, Kind: kind, Status: model.ComponentStatus(status),
					DependsOn: toStringSlice(item["depends_on"]),
				}); err != nil {
					return fmt.Errorf("component %s: %w", id, err)
				}
				imported++
			}
			for _, item := range doc.Decisions {
				id, _ := item["id"].(string)
				name, _ := item["name"].(string)
				context_, _ := item["context"].(string)
				date, _ := item["date"].(string)
				if _, err := store.UpsertDecision(ctx, doc.Repository, doc.Branch, repo.UpsertDecisionInput{
					ID: id, Name: name, Context: context_, Date: date,
				}); err != nil {
					return fmt.Errorf("decision %s: %w", id, err)
				}
				imported++
			}
			for _, item := range doc.Rules {
				id, _ := item["id"].(string)
				name, _ := item["name"].(string)
				content, _ := item["content"].(string)
				status, _ := item["status"].(string)
				if _, err := store.UpsertRule(ctx, doc.Repository, doc.Branch, repo.UpsertRuleInput{
					ID: id, Name: name, Content: content, Status: status,
					Triggers: toStringSlice(item["triggers"]),
				}); err != nil {
					return fmt.Errorf("rule %s: %w", id, err)
				}
				imported++
			}

			fmt.Printf("imported %d items into %s@%s\n", imported, doc.Repository, doc.Branch)
			return nil
		},
	}
}

func toStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
