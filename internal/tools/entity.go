package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EntityInput is the `entity` tool's argument shape: it
// multiplexes CRUD over every entity kind through one tool surface so an
// agent only has to learn one schema shape per operation.
type EntityInput struct {
	EntityType        string         `json:"entityType"`
	Operation         string         `json:"operation"`
	ClientProjectRoot string         `json:"clientProjectRoot,omitempty"`
	Repository        string         `json:"repository"`
	Branch            string         `json:"branch"`
	ID                string         `json:"id,omitempty"`
	Data              map[string]any `json:"data,omitempty"`
}

func (d *deps) handleEntity(ctx context.Context, _ *mcp.CallToolRequest, in EntityInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("entity", nil, err)
	}

	switch lower(in.EntityType) {
	case "component":
		return d.handleComponentEntity(ctx, store, in)
	case "decision":
		return d.handleDecisionEntity(ctx, store, in)
	case "rule":
		return d.handleRuleEntity(ctx, store, in)
	case "file":
		return d.handleFileEntity(ctx, store, in)
	case "tag":
		return d.handleTagEntity(ctx, store, in)
	default:
		return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown entityType: " + in.EntityType})
	}
}

func (d *deps) handleComponentEntity(ctx context.Context, store *repo.Store, in EntityInput) (*mcp.CallToolResult, any, error) {
	switch lower(in.Operation) {
	case "create", "update":
		id, _ := in.Data["id"].(string)
		if id == "" {
			id = in.ID
		}
		name, _ := in.Data["name"].(string)
		kind, _ := in.Data["kind"].(string)
		status, _ := in.Data["status"].(string)
		c, err := store.UpsertComponent(ctx, in.Repository, in.Branch, repo.UpsertComponentInput{
			ID:        id,
			Name:      name,
			Kind:      kind,
			Status:    model.ComponentStatus(status),
			DependsOn: stringSlice(in.Data["depends_on"]),
		})
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", componentToMap(c), nil)

	case "get":
		c, err := store.FindComponentByID(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", componentToMap(*c), nil)

	case "set-status":
		id := in.ID
		if id == "" {
			id, _ = in.Data["id"].(string)
		}
		status, _ := in.Data["status"].(string)
		if status == "" {
			return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "data.status is required for set-status"})
		}
		c, err := store.UpdateComponentStatus(ctx, in.Repository, in.Branch, id, model.ComponentStatus(status))
		if err != nil {
			return d.result("entity", nil, err)
		}
		if c == nil {
			return d.result("entity", nil, nil)
		}
		return d.result("entity", componentToMap(*c), nil)

	case "delete":
		return d.handleDelete(ctx, store, "component", in)

	default:
		return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown component operation: " + in.Operation})
	}
}

func (d *deps) handleDecisionEntity(ctx context.Context, store *repo.Store, in EntityInput) (*mcp.CallToolResult, any, error) {
	switch lower(in.Operation) {
	case "create", "update":
		id, _ := in.Data["id"].(string)
		if id == "" {
			id = in.ID
		}
		name, _ := in.Data["name"].(string)
		context_, _ := in.Data["context"].(string)
		date, _ := in.Data["date"].(string)
		dec, err := store.UpsertDecision(ctx, in.Repository, in.Branch, repo.UpsertDecisionInput{
			ID:                 id,
			Name:               name,
			Context:            context_,
			Date:               date,
			AffectedComponents: stringSlice(in.Data["affected_components"]),
		})
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", decisionToMap(dec), nil)

	case "get":
		dec, err := store.FindDecisionByID(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", decisionToMap(dec), nil)

	case "delete":
		return d.handleDelete(ctx, store, "decision", in)

	default:
		return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown decision operation: " + in.Operation})
	}
}

func (d *deps) handleRuleEntity(ctx context.Context, store *repo.Store, in EntityInput) (*mcp.CallToolResult, any, error) {
	switch lower(in.Operation) {
	case "create", "update":
		id, _ := in.Data["id"].(string)
		if id == "" {
			id = in.ID
		}
		name, _ := in.Data["name"].(string)
		created, _ := in.Data["created"].(string)
		content, _ := in.Data["content"].(string)
		status, _ := in.Data["status"].(string)
		r, err := store.UpsertRule(ctx, in.Repository, in.Branch, repo.UpsertRuleInput{
			ID:                 id,
			Name:               name,
			Created:            created,
			Triggers:           stringSlice(in.Data["triggers"]),
			Content:            content,
			Status:             status,
			GovernedComponents: stringSlice(in.Data["governed_components"]),
		})
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", ruleToMap(r), nil)

	case "get":
		r, err := store.FindRuleByID(ctx, in.Repository, in.Branch, in.ID)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", ruleToMap(r), nil)

	case "delete":
		return d.handleDelete(ctx, store, "rule", in)

	default:
		return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown rule operation: " + in.Operation})
	}
}

func (d *deps) handleFileEntity(ctx context.Context, store *repo.Store, in EntityInput) (*mcp.CallToolResult, any, error) {
	switch lower(in.Operation) {
	case "create", "update":
		id, _ := in.Data["id"].(string)
		if id == "" {
			id = in.ID
		}
		name, _ := in.Data["name"].(string)
		path, _ := in.Data["path"].(string)
		mimeType, _ := in.Data["mime_type"].(string)
		var size int64
		if n, ok := in.Data["size"].(float64); ok {
			size = int64(n)
		}
		branch, _ := in.Data["branch"].(string)
		if branch == "" {
			branch = in.Branch
		}
		content, _ := in.Data["content"].(string)
		f, err := store.UpsertFile(ctx, repo.UpsertFileInput{
			ID:       id,
			Name:     name,
			Path:     path,
			MimeType: mimeType,
			Size:     size,
			Metadata: model.FileMetadata{Branch: branch, Content: content},
			Repo:     in.Repository,
			Branch:   in.Branch,
		})
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", fileToMap(f), nil)

	case "get":
		f, err := store.FindFileByID(ctx, in.ID)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", fileToMap(f), nil)

	case "delete":
		return d.handleDelete(ctx, store, "file", in)

	default:
		return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown file operation: " + in.Operation})
	}
}

func (d *deps) handleTagEntity(ctx context.Context, store *repo.Store, in EntityInput) (*mcp.CallToolResult, any, error) {
	switch lower(in.Operation) {
	case "create":
		name, _ := in.Data["name"].(string)
		category, _ := in.Data["category"].(string)
		description, _ := in.Data["description"].(string)
		color, _ := in.Data["color"].(string)
		t, err := store.UpsertTag(ctx, name, category, description, color)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", tagToMap(t), nil)

	case "get":
		t, err := store.FindTagByID(ctx, in.ID)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", tagToMap(t), nil)

	default:
		return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown tag operation: " + in.Operation})
	}
}

func stringSlice(v any) []string {
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

func deleteResultMap(r repo.DeleteResult) map[string]any {
	return map[string]any{
		"success":      true,
		"dryRun":       r.DryRun,
		"deletedCount": len(r.GUIDs),
		"guids":        r.GUIDs,
		"edgesRemoved": r.EdgesRemoved,
	}
}
