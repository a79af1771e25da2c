package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

func rowToFile(row engine.Row) model.File {
	var meta model.FileMetadata
	raw := unmarshalMap(col(row, "metadata").AsString())
	if raw != nil {
		if b, ok := raw["branch"].(string); ok {
			meta.Branch = b
		}
		if c, ok := raw["content"].(string); ok {
			meta.Content = c
		}
		if m, ok := raw["metrics"].(map[string]any); ok {
			meta.Metrics = m
		}
	}
	return model.File{
		ID:        col(row, "id").AsString(),
		Name:      col(row, "name").AsString(),
		Path:      col(row, "path").AsString(),
		MimeType:  col(row, "mime_type").AsString(),
		Size:      col(row, "size").AsInt64(),
		Metadata:  meta,
		CreatedAt: col(row, "created_at").AsTime(),
		UpdatedAt: col(row, "updated_at").AsTime(),
	}
}

// UpsertFileInput is the caller-supplied shape for UpsertFile. Repo/Branch
// are used only to resolve the optional PART_OF edge — a File's own primary
// key (its ID) never carries them, since invariant I6 scopes branch through
// Metadata.Branch instead.
type UpsertFileInput struct {
	ID       string
	Name     string
	Path     string
	MimeType string
	Size     int64
	Metadata model.FileMetadata
	Repo     string
	Branch   string
}

// UpsertFile creates or updates a file record. If the (Repo, Branch)
// Repository the file would be attached to does not exist yet, the PART_OF
// edge is silently skipped rather than forcing the Repository into
// existence — files can be registered ahead of any repository touch (Q3).
func (s *Store) UpsertFile(ctx context.Context, in UpsertFileInput) (model.File, error) {
	if in.ID == "" {
		return model.File{}, invalidArgs("file id is required")
	}
	meta := map[string]any{"branch": in.Metadata.Branch}
	if in.Metadata.Content != "" {
		meta["content"] = in.Metadata.Content
	}
	if in.Metadata.Metrics != nil {
		meta["metrics"] = in.Metadata.Metrics
	}

	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		now := nowNs()
		rows, err := tx.ExecuteQuery(ctx, `SELECT id FROM files WHERE id = ?`, []any{in.ID})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			if err := tx.Exec(ctx,
				`INSERT INTO files (id, name, path, mime_type, size, metadata, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				in.ID, in.Name, in.Path, in.MimeType, in.Size, marshalJSON(meta), now, now); err != nil {
				return err
			}
		} else {
			if err := tx.Exec(ctx,
				`UPDATE files SET name = ?, path = ?, mime_type = ?, size = ?, metadata = ?, updated_at = ? WHERE id = ?`,
				in.Name, in.Path, in.MimeType, in.Size, marshalJSON(meta), now, in.ID); err != nil {
				return err
			}
		}

		if in.Repo == "" {
			return nil
		}
		exists, err := repositoryExists(ctx, tx, in.Repo, in.Branch)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		return upsertEdge(ctx, tx, RelPartOf, in.ID, model.RepoGID(in.Repo, in.Branch))
	})
	if err != nil {
		return model.File{}, err
	}
	return s.FindFileByID(ctx, in.ID)
}

// FindFileByID returns one file by its own primary key.
func (s *Store) FindFileByID(ctx context.Context, id string) (model.File, error) {
	rows, err := s.query(ctx,
		`SELECT id, name, path, mime_type, size, metadata, created_at, updated_at FROM files WHERE id = ?`, id)
	if err != nil {
		return model.File{}, err
	}
	if len(rows) == 0 {
		return model.File{}, notFound("file %q not found", id)
	}
	return rowToFile(rows[0]), nil
}

// ListFilesByBranch returns every file whose stored metadata.branch matches
// branch (a JSON-filtered scan, since branch is not a column on files).
func (s *Store) ListFilesByBranch(ctx context.Context, branch string) ([]model.File, error) {
	rows, err := s.query(ctx,
		`SELECT id, name, path, mime_type, size, metadata, created_at, updated_at FROM files`)
	if err != nil {
		return nil, err
	}
	var out []model.File
	for _, r := range rows {
		f := rowToFile(r)
		if f.Metadata.Branch == branch {
			out = append(out, f)
		}
	}
	return out, nil
}

// FindFilesByComponent returns the files componentID IMPLEMENTS, filtered to
// files whose stored branch matches branch (the component side is already
// scoped to (repoName, branch) by its GUID).
func (s *Store) FindFilesByComponent(ctx context.Context, repoName, branch, componentID string) ([]model.File, error) {
	compGUID := model.GID(repoName, branch, componentID)
	rows, err := s.query(ctx,
		`SELECT f.id, f.name, f.path, f.mime_type, f.size, f.metadata, f.created_at, f.updated_at
		 FROM edges e JOIN files f ON f.id = e.to_guid
		 WHERE e.label = ? AND e.from_guid = ?`,
		RelImplements, compGUID)
	if err != nil {
		return nil, err
	}
	out := make([]model.File, 0, len(rows))
	for _, r := range rows {
		f := rowToFile(r)
		if f.Metadata.Branch == branch {
			out = append(out, f)
		}
	}
	return out, nil
}

// FindComponentsByFile returns the components that IMPLEMENTS fileID,
// filtered to (repoName, branch) on the component side.
func (s *Store) FindComponentsByFile(ctx context.Context, repoName, branch, fileID string) ([]model.Component, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := s.query(ctx,
		`SELECT c.guid, c.logical_id, c.name, c.kind, c.status, c.created_at, c.updated_at
		 FROM edges e JOIN components c ON c.guid = e.from_guid
		 WHERE e.label = ? AND e.to_guid = ? AND c.repo_pk = ?`,
		RelImplements, fileID, pk)
	if err != nil {
		return nil, err
	}
	out := make([]model.Component, 0, len(rows))
	for _, r := range rows {
		c := rowToComponent(r)
		c.DependsOn, err = s.dependsOnIDs(ctx, c.GUID)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
