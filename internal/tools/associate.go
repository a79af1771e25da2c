package tools

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AssociateInput is the `associate` tool's argument shape: it
// creates a relationship edge between two already-existing items, or
// attaches a tag to one.
type AssociateInput struct {
	Kind              string `json:"kind"` // "tag" | "implements" | "governs" | "affects"
	ClientProjectRoot string `json:"clientProjectRoot,omitempty"`
	Repository        string `json:"repository"`
	Branch            string `json:"branch"`
	FromID            string `json:"from_id,omitempty"`
	ToID              string `json:"to_id,omitempty"`
	ItemID            string `json:"item_id,omitempty"`
	Tag               string `json:"tag,omitempty"`
}

func (d *deps) handleAssociate(ctx context.Context, _ *mcp.CallToolRequest, in AssociateInput) (*mcp.CallToolResult, any, error) {
	in.Repository, in.Branch = d.resolveScope(in.Repository, in.Branch)
	if in.Repository == "" || in.Branch == "" {
		return d.result("associate", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "repository and branch are required"})
	}
	root := d.resolveRoot(ctx, in.ClientProjectRoot, in.Repository, in.Branch)
	store, err := d.store(ctx, root)
	if err != nil {
		return d.result("associate", nil, err)
	}

	switch lower(in.Kind) {
	case "tag":
		if in.ItemID == "" || in.Tag == "" {
			return d.result("associate", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "item_id and tag are required"})
		}
		t, err := store.TagItem(ctx, in.Repository, in.Branch, in.ItemID, in.Tag)
		if err != nil {
			return d.result("associate", nil, err)
		}
		return d.result("associate", tagToMap(t), nil)

	case "implements":
		// IMPLEMENTS points Component -> File; File is keyed by its bare
		// logical id (no repo:branch prefix), unlike the component side.
		if in.FromID == "" || in.ToID == "" {
			return d.result("associate", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "from_id and to_id are required"})
		}
		if err := store.LinkComponentToFile(ctx, in.Repository, in.Branch, in.FromID, in.ToID); err != nil {
			return d.result("associate", nil, err)
		}
		return d.result("associate", map[string]any{"success": true, "label": repo.RelImplements, "from_id": in.FromID, "to_id": in.ToID}, nil)
	case "governs":
		return d.link(ctx, store, in, repo.RelGoverns)
	case "affects":
		return d.link(ctx, store, in, repo.RelAffects)

	default:
		return d.result("associate", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown associate kind: " + in.Kind})
	}
}

func (d *deps) link(ctx context.Context, store *repo.Store, in AssociateInput, label string) (*mcp.CallToolResult, any, error) {
	if in.FromID == "" || in.ToID == "" {
		return d.result("associate", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "from_id and to_id are required"})
	}
	if err := store.LinkItems(ctx, in.Repository, in.Branch, label, in.FromID, in.ToID); err != nil {
		return d.result("associate", nil, err)
	}
	return d.result("associate", map[string]any{"success": true, "label": label, "from_id": in.FromID, "to_id": in.ToID}, nil)
}
