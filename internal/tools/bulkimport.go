package tools

import (
	"context"
	"fmt"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// BulkImportInput is the `bulk-import` tool's argument shape.
type BulkImportInput struct {
	Type              string           `json:"type"` // "components" | "decisions" | "rules"
	ClientProjectRoot string           `json:"clientProjectRoot,omitempty"`
	Repository        string           `json:"repository"`
	Branch            string           `json:"branch"`
	Items             []map[string]any `json:"items"`
	Overwrite         bool             `json:"overwrite,omitempty"`
}

func (d *deps) handleBulkImport(ctx context.Context, req *mcp.CallToolRequest, in BulkImportInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("bulk-import", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	if len(in.Items) == 0 {
		return d.result("bulk-import", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "items must not be empty"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("bulk-import", nil, err)
	}

	progress := d.progressReporter(ctx, req, "bulk-import")
	total := len(in.Items)
	imported, skipped, failed := 0, 0, 0
	var errs []string

	for i, item := range in.Items {
		progress("running", fmt.Sprintf("importing item %d/%d", i+1, total), (i*100)/total, false)
		id, _ := item["id"].(string)
		if id == "" {
			failed++
			errs = append(errs, fmt.Sprintf("item %d: missing id", i))
			continue
		}
		if !in.Overwrite {
			if exists, _ := itemExists(ctx, store, lower(in.Type), in.Repository, in.Branch, id); exists {
				skipped++
				continue
			}
		}

		var importErr error
		switch lower(in.Type) {
		case "components":
			name, _ := item["name"].(string)
			kind, _ := item["kind"].(string)
			status, _ := item["status"].(string)
			_, importErr = store.UpsertComponent(ctx, in.Repository, in.Branch, repo.UpsertComponentInput{
				ID:        id,
				Name:      name,
				Kind:      kind,
				Status:    model.ComponentStatus(status),
				DependsOn: stringSlice(item["depends_on"]),
			})

		case "decisions":
			name, _ := item["name"].(string)
			context_, _ := item["context"].(string)
			date, _ := item["date"].(string)
			_, importErr = store.UpsertDecision(ctx, in.Repository, in.Branch, repo.UpsertDecisionInput{
				ID:                 id,
				Name:               name,
				Context:            context_,
				Date:               date,
				AffectedComponents: stringSlice(item["affected_components"]),
			})

		case "rules":
			name, _ := item["name"].(string)
			created, _ := item["created"].(string)
			content, _ := item["content"].(string)
			status, _ := item["status"].(string)
			_, importErr = store.UpsertRule(ctx, in.Repository, in.Branch, repo.UpsertRuleInput{
				ID:                 id,
				Name:               name,
				Created:            created,
				Triggers:           stringSlice(item["triggers"]),
				Content:            content,
				Status:             status,
				GovernedComponents: stringSlice(item["governed_components"]),
			})

		default:
			return d.result("bulk-import", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown bulk-import type: " + in.Type})
		}

		if importErr != nil {
			failed++
			errs = append(errs, fmt.Sprintf("item %d (%s): %v", i, id, importErr))
			continue
		}
		imported++
	}

	progress("complete", fmt.Sprintf("imported %d, skipped %d, failed %d", imported, skipped, failed), 100, true)
	return d.result("bulk-import", map[string]any{
		"imported": imported,
		"skipped":  skipped,
		"failed":   failed,
		"errors":   errs,
	}, nil)
}

func itemExists(ctx context.Context, store *repo.Store, typ, repository, branch, id string) (bool, error) {
	switch typ {
	case "components":
		_, err := store.FindComponentByID(ctx, repository, branch, id)
		return err == nil, nil
	case "decisions":
		_, err := store.FindDecisionByID(ctx, repository, branch, id)
		return err == nil, nil
	case "rules":
		_, err := store.FindRuleByID(ctx, repository, branch, id)
		return err == nil, nil
	default:
		return false, nil
	}
}
