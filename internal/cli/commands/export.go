package commands

import (
	"context"
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"
)

// exportDoc is the on-disk shape produced by `export` and consumed by
// `import` — one flat snapshot of a (repository, branch) pair's metadata,
// active components, decisions, rules and context entries. Components with
// any other status, files and tags are not included.
type exportDoc struct {
	Repository string           `json:"repository"`
	Branch     string           `json:"branch"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
	Components []map[string]any `json:"components"`
	Decisions  []map[string]any `json:"decisions"`
	Rules      []map[string]any `json:"rules"`
	Contexts   []map[string]any `json:"contexts"`
}

// NewExportCommand dumps one memory bank's (repository, branch) scope to a
// JSON file (or stdout with --output -).
func NewExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export a memory bank to JSON",
		Flags: append([]cli.Flag{
			projectRootFlag, debugFlag,
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "-", Usage: "output path, or - for stdout"},
		}, repoBranchFlags...),
		Action: func(c *cli.Context) error {
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

			repository, branch := c.String("repository"), c.String("branch")
			doc := exportDoc{Repository: repository, Branch: branch}

			if meta, err := store.GetMetadata(ctx, repository, branch); err == nil {
				doc.Metadata = meta.Content
			}

			components, err := store.GetActiveComponents(ctx, repository, branch)
			if err != nil {
				return err
			}
			for _, cmp := range components {
				doc.Components = append(doc.Components, componentToMap(cmp))
			}

			decisions, err := store.ListDecisions(ctx, repository, branch)
			if err != nil {
				return err
			}
			for _, d := range decisions {
				doc.Decisions = append(doc.Decisions, decisionToMap(d))
			}

			rules, err := store.ListRules(ctx, repository, branch)
			if err != nil {
				return err
			}
			for _, r := range rules {
				doc.Rules = append(doc.Rules, ruleToMap(r))
			}

			contexts, err := store.ListContexts(ctx, repository, branch, 0)
			if err != nil {
				return err
			}
			for _, entry := range contexts {
				doc.Contexts = append(doc.Contexts, contextToMap(entry))
			}

			b, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}

			if c.String("output") == "-" {
				_, err = os.Stdout.Write(append(b, '\n'))
				return err
			}
			return os.WriteFile(c.String("output"), append(b, '\n'), 0o644)
		},
	}
}
