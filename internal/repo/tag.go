package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

func rowToTag(row engine.Row) model.Tag {
	return model.Tag{
		ID:          col(row, "id").AsString(),
		Name:        col(row, "name").AsString(),
		Category:    col(row, "category").AsString(),
		Description: col(row, "description").AsString(),
		Color:       col(row, "color").AsString(),
		CreatedAt:   col(row, "created_at").AsTime(),
		UpdatedAt:   col(row, "updated_at").AsTime(),
	}
}

// UpsertTag creates a tag by name if it doesn't already exist (tags are
// global within one project database, not scoped per repo/branch), or
// returns the existing one unchanged.
func (s *Store) UpsertTag(ctx context.Context, name, category, description, color string) (model.Tag, error) {
	if name == "" {
		return model.Tag{}, invalidArgs("tag name is required")
	}
	existing, err := s.FindTagByName(ctx, name)
	if err == nil {
		return existing, nil
	}

	id := uuid.NewString()
	err = s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		now := nowNs()
		return tx.Exec(ctx,
			`INSERT INTO tags (id, name, category, description, color, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, name, category, description, color, now, now)
	})
	if err != nil {
		return model.Tag{}, err
	}
	return s.FindTagByID(ctx, id)
}

// FindTagByID returns one tag by its generated id.
func (s *Store) FindTagByID(ctx context.Context, id string) (model.Tag, error) {
	rows, err := s.query(ctx,
		`SELECT id, name, category, description, color, created_at, updated_at FROM tags WHERE id = ?`, id)
	if err != nil {
		return model.Tag{}, err
	}
	if len(rows) == 0 {
		return model.Tag{}, notFound("tag %q not found", id)
	}
	return rowToTag(rows[0]), nil
}

// FindTagByName returns one tag by its unique name.
func (s *Store) FindTagByName(ctx context.Context, name string) (model.Tag, error) {
	rows, err := s.query(ctx,
		`SELECT id, name, category, description, color, created_at, updated_at FROM tags WHERE name = ?`, name)
	if err != nil {
		return model.Tag{}, err
	}
	if len(rows) == 0 {
		return model.Tag{}, notFound("tag %q not found", name)
	}
	return rowToTag(rows[0]), nil
}

// AddItemTag attaches tagID to itemGUID (any entity kind) via a TAGGED_WITH
// edge, idempotently.
func (s *Store) AddItemTag(ctx context.Context, itemGUID, tagID string) error {
	return s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		return upsertEdge(ctx, tx, RelTaggedWith, itemGUID, tagID)
	})
}

// FindItemsByTag returns the guids of every entity tagged with tagID.
func (s *Store) FindItemsByTag(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.query(ctx,
		`SELECT from_guid FROM edges WHERE label = ? AND to_guid = ?`, RelTaggedWith, tagID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, col(r, "from_guid").AsString())
	}
	return out, nil
}
