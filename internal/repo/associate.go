package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

// linkableLabels are the relationship kinds the `associate` tool is allowed
// to create directly between two existing items. PART_OF, DEPENDS_ON,
// CONTEXT_OF and TAGGED_WITH are all managed as a side effect of an upsert
// instead, so they're excluded here.
var linkableLabels = map[string]bool{
	RelImplements: true,
	RelGoverns:    true,
	RelAffects:    true,
}

// LinkItems creates a relationship edge of the given label between two
// existing logical ids scoped to (repoName, branch), failing if the label
// isn't one the associate tool is allowed to create directly or if either
// endpoint doesn't exist.
func (s *Store) LinkItems(ctx context.Context, repoName, branch, label, fromID, toID string) error {
	if !linkableLabels[label] {
		return invalidArgs("unsupported association label: %s", label)
	}
	from := model.GID(repoName, branch, fromID)
	to := model.GID(repoName, branch, toID)
	return s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		return upsertEdge(ctx, tx, label, from, to)
	})
}

// LinkComponentToFile creates an IMPLEMENTS edge from a component (scoped to
// repoName/branch) to a file. Unlike LinkItems, the target isn't built with
// model.GID: File's primary key is its bare logical id, with no repo/branch
// prefix (its branch scoping lives in Metadata.Branch instead, per I6).
func (s *Store) LinkComponentToFile(ctx context.Context, repoName, branch, componentID, fileID string) error {
	from := model.GID(repoName, branch, componentID)
	return s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		return upsertEdge(ctx, tx, RelImplements, from, fileID)
	})
}

// TagItem attaches an existing tag to an existing logical item scoped to
// (repoName, branch), creating the tag first if it doesn't exist by name.
func (s *Store) TagItem(ctx context.Context, repoName, branch, itemID, tagName string) (model.Tag, error) {
	tag, err := s.UpsertTag(ctx, tagName, "", "", "")
	if err != nil {
		return model.Tag{}, err
	}
	itemGUID := model.GID(repoName, branch, itemID)
	if err := s.AddItemTag(ctx, itemGUID, tag.ID); err != nil {
		return model.Tag{}, err
	}
	return tag, nil
}
