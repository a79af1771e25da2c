package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/sanitize"
)

func rowToDecision(row engine.Row) model.Decision {
	return model.Decision{
		GUID:      col(row, "guid").AsString(),
		ID:        col(row, "logical_id").AsString(),
		Name:      col(row, "name").AsString(),
		Context:   col(row, "context").AsString(),
		Date:      col(row, "date").AsString(),
		CreatedAt: col(row, "created_at").AsTime(),
		UpdatedAt: col(row, "updated_at").AsTime(),
	}
}

// UpsertDecisionInput is the caller-supplied shape for UpsertDecision.
// AffectedComponents names the components this decision is wired to via
// AFFECTS edges, stored decision -> component and read back as "governing
// decisions" from the component side.
type UpsertDecisionInput struct {
	ID                 string
	Name               string
	Context            string
	Date               string
	AffectedComponents []string
}

// UpsertDecision creates or updates a decision and rewrites its AFFECTS
// edges to exactly the supplied component ids.
func (s *Store) UpsertDecision(ctx context.Context, repoName, branch string, in UpsertDecisionInput) (model.Decision, error) {
	if !sanitize.Identifier(in.ID) {
		return model.Decision{}, invalidArgs("decision id %q is not a valid identifier", in.ID)
	}
	guid := model.GID(repoName, branch, in.ID)
	pk := model.RepoGID(repoName, branch)

	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		if err := ensureRepository(ctx, tx, repoName, branch); err != nil {
			return err
		}
		now := nowNs()
		rows, err := tx.ExecuteQuery(ctx, `SELECT guid FROM decisions WHERE guid = ?`, []any{guid})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			if err := tx.Exec(ctx,
				`INSERT INTO decisions (guid, repo_pk, logical_id, name, context, date, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				guid, pk, in.ID, in.Name, in.Context, in.Date, now, now); err != nil {
				return err
			}
		} else {
			if err := tx.Exec(ctx,
				`UPDATE decisions SET name = ?, context = ?, date = ?, updated_at = ? WHERE guid = ?`,
				in.Name, in.Context, in.Date, now, guid); err != nil {
				return err
			}
		}

		if err := tx.Exec(ctx, `DELETE FROM edges WHERE label = ? AND from_guid = ?`, RelAffects, guid); err != nil {
			return err
		}
		for _, compID := range in.AffectedComponents {
			compGUID := model.GID(repoName, branch, compID)
			if err := upsertEdge(ctx, tx, RelAffects, guid, compGUID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Decision{}, err
	}
	return s.FindDecisionByID(ctx, repoName, branch, in.ID)
}

// FindDecisionByID returns one decision by logical id.
func (s *Store) FindDecisionByID(ctx context.Context, repoName, branch, id string) (model.Decision, error) {
	guid := model.GID(repoName, branch, id)
	rows, err := s.query(ctx,
		`SELECT guid, logical_id, name, context, date, created_at, updated_at FROM decisions WHERE guid = ?`, guid)
	if err != nil {
		return model.Decision{}, err
	}
	if len(rows) == 0 {
		return model.Decision{}, notFound("decision %q not found in %s@%s", id, repoName, branch)
	}
	return rowToDecision(rows[0]), nil
}

// ListDecisions returns every decision for (repo, branch), most recent date first.
func (s *Store) ListDecisions(ctx context.Context, repoName, branch string) ([]model.Decision, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := s.query(ctx,
		`SELECT guid, logical_id, name, context, date, created_at, updated_at
		 FROM decisions WHERE repo_pk = ? ORDER BY date DESC`, pk)
	if err != nil {
		return nil, err
	}
	out := make([]model.Decision, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToDecision(r))
	}
	return out, nil
}
