package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/sanitize"
)

func rowToComponent(row engine.Row) model.Component {
	return model.Component{
		GUID:      col(row, "guid").AsString(),
		ID:        col(row, "logical_id").AsString(),
		Name:      col(row, "name").AsString(),
		Kind:      col(row, "kind").AsString(),
		Status:    model.ComponentStatus(col(row, "status").AsString()),
		CreatedAt: col(row, "created_at").AsTime(),
		UpdatedAt: col(row, "updated_at").AsTime(),
	}
}

// GetActiveComponents returns every component with status "active" for
// (repo, branch), ordered by logical id.
func (s *Store) GetActiveComponents(ctx context.Context, repoName, branch string) ([]model.Component, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := s.query(ctx,
		`SELECT guid, logical_id, name, kind, status, created_at, updated_at
		 FROM components WHERE repo_pk = ? AND status = ? ORDER BY logical_id`,
		pk, string(model.ComponentActive))
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

// FindComponentByID returns the component with logical id id in (repo, branch).
func (s *Store) FindComponentByID(ctx context.Context, repoName, branch, id string) (*model.Component, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := s.query(ctx,
		`SELECT guid, logical_id, name, kind, status, created_at, updated_at
		 FROM components WHERE repo_pk = ? AND logical_id = ?`,
		pk, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound("component %q not found in %s@%s", id, repoName, branch)
	}
	c := rowToComponent(rows[0])
	c.DependsOn, err = s.dependsOnIDs(ctx, c.GUID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) dependsOnIDs(ctx context.Context, componentGUID string) ([]string, error) {
	rows, err := s.query(ctx,
		`SELECT c.logical_id FROM edges e
		 JOIN components c ON c.guid = e.to_guid
		 WHERE e.label = ? AND e.from_guid = ? ORDER BY c.logical_id`,
		RelDependsOn, componentGUID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, col(r, "logical_id").AsString())
	}
	return out, nil
}

// UpsertComponentInput is the caller-supplied shape for UpsertComponent. An
// empty Status is stored as "active" on both insert and update; Name and
// Kind are written as given, so an empty Kind replaces the stored one.
type UpsertComponentInput struct {
	ID        string
	Name      string
	Kind      string
	Status    model.ComponentStatus
	DependsOn []string
}

// UpsertComponent creates or updates a component by (repo, branch, id),
// rewrites its DEPENDS_ON edges to exactly the supplied set, and creates a
// placeholder component for any dependency id that doesn't exist yet — the
// same forward-reference tolerance the data model requires for components
// that reference each other before both have been declared.
func (s *Store) UpsertComponent(ctx context.Context, repoName, branch string, in UpsertComponentInput) (model.Component, error) {
	if !sanitize.Identifier(in.ID) {
		return model.Component{}, invalidArgs("component id %q is not a valid identifier", in.ID)
	}
	status := in.Status
	if status == "" {
		status = model.ComponentActive
	}
	guid := model.GID(repoName, branch, in.ID)
	pk := model.RepoGID(repoName, branch)

	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		if err := ensureRepository(ctx, tx, repoName, branch); err != nil {
			return err
		}

		rows, err := tx.ExecuteQuery(ctx, `SELECT guid FROM components WHERE guid = ?`, []any{guid})
		if err != nil {
			return err
		}
		now := nowNs()
		if len(rows) == 0 {
			if err := tx.Exec(ctx,
				`INSERT INTO components (guid, repo_pk, logical_id, name, kind, status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				guid, pk, in.ID, in.Name, in.Kind, string(status), now, now); err != nil {
				return err
			}
		} else {
			if err := tx.Exec(ctx,
				`UPDATE components SET name = ?, kind = ?, status = ?, updated_at = ? WHERE guid = ?`,
				in.Name, in.Kind, string(status), now, guid); err != nil {
				return err
			}
		}

		if err := upsertEdge(ctx, tx, RelPartOf, guid, pk); err != nil {
			return err
		}

		if err := tx.Exec(ctx, `DELETE FROM edges WHERE label = ? AND from_guid = ?`, RelDependsOn, guid); err != nil {
			return err
		}
		for _, depID := range in.DependsOn {
			depGUID := model.GID(repoName, branch, depID)
			depRows, err := tx.ExecuteQuery(ctx, `SELECT guid FROM components WHERE guid = ?`, []any{depGUID})
			if err != nil {
				return err
			}
			if len(depRows) == 0 {
				// Forward reference: create a placeholder so the edge has a
				// valid target; it is reconciled the next time that id is
				// itself upserted.
				if err := tx.Exec(ctx,
					`INSERT INTO components (guid, repo_pk, logical_id, name, kind, status, created_at, updated_at)
					 VALUES (?, ?, ?, ?, '', ?, ?, ?)`,
					depGUID, pk, depID, depID, string(model.ComponentPlanned), now, now); err != nil {
					return err
				}
				if err := upsertEdge(ctx, tx, RelPartOf, depGUID, pk); err != nil {
					return err
				}
			}
			if err := upsertEdge(ctx, tx, RelDependsOn, guid, depGUID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Component{}, err
	}
	out, err := s.FindComponentByID(ctx, repoName, branch, in.ID)
	if err != nil {
		return model.Component{}, err
	}
	return *out, nil
}

// UpdateComponentStatus sets a component's status and updated_at without
// touching its dependency edges. If the component is absent, it returns
// (nil, nil) rather than an error.
func (s *Store) UpdateComponentStatus(ctx context.Context, repoName, branch, id string, status model.ComponentStatus) (*model.Component, error) {
	guid := model.GID(repoName, branch, id)
	absent := false
	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		rows, err := tx.ExecuteQuery(ctx, `SELECT guid FROM components WHERE guid = ?`, []any{guid})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			absent = true
			return nil
		}
		return tx.Exec(ctx, `UPDATE components SET status = ?, updated_at = ? WHERE guid = ?`, string(status), nowNs(), guid)
	})
	if err != nil {
		return nil, err
	}
	if absent {
		return nil, nil
	}
	return s.FindComponentByID(ctx, repoName, branch, id)
}
