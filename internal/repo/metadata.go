package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

func rowToMetadata(row engine.Row) model.Metadata {
	return model.Metadata{
		GUID:      col(row, "guid").AsString(),
		Name:      col(row, "name").AsString(),
		Content:   unmarshalMap(col(row, "content").AsString()),
		CreatedAt: col(row, "created_at").AsTime(),
		UpdatedAt: col(row, "updated_at").AsTime(),
	}
}

// GetMetadata returns the single metadata record for (repo, branch), or
// NOT_FOUND if it has never been set.
func (s *Store) GetMetadata(ctx context.Context, repoName, branch string) (model.Metadata, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := s.query(ctx,
		`SELECT guid, name, content, created_at, updated_at FROM metadata WHERE repo_pk = ?`, pk)
	if err != nil {
		return model.Metadata{}, err
	}
	if len(rows) == 0 {
		return model.Metadata{}, notFound("no metadata set for %s@%s", repoName, branch)
	}
	return rowToMetadata(rows[0]), nil
}

// UpsertMetadata creates or replaces the single metadata record for (repo,
// branch), creating the Repository node if this is its first touch.
func (s *Store) UpsertMetadata(ctx context.Context, repoName, branch, name string, content map[string]any) (model.Metadata, error) {
	pk := model.RepoGID(repoName, branch)
	guid := pk // metadata is 1:1 with its repository, so it shares the PK as its own identity
	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		if err := ensureRepository(ctx, tx, repoName, branch); err != nil {
			return err
		}
		now := nowNs()
		rows, err := tx.ExecuteQuery(ctx, `SELECT guid FROM metadata WHERE guid = ?`, []any{guid})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return tx.Exec(ctx,
				`INSERT INTO metadata (guid, repo_pk, name, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
				guid, pk, name, marshalJSON(content), now, now)
		}
		return tx.Exec(ctx,
			`UPDATE metadata SET name = ?, content = ?, updated_at = ? WHERE guid = ?`,
			name, marshalJSON(content), now, guid)
	})
	if err != nil {
		return model.Metadata{}, err
	}
	return s.GetMetadata(ctx, repoName, branch)
}
