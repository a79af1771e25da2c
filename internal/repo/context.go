package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

func rowToContext(row engine.Row) model.Context {
	return model.Context{
		GUID:         col(row, "guid").AsString(),
		ISODate:      col(row, "iso_date").AsString(),
		Summary:      col(row, "summary").AsString(),
		Agent:        col(row, "agent").AsString(),
		RelatedIssue: col(row, "related_issue").AsString(),
		Decisions:    unmarshalStringSlice(col(row, "decisions").AsString()),
		Observations: unmarshalStringSlice(col(row, "observations").AsString()),
		CreatedAt:    col(row, "created_at").AsTime(),
		UpdatedAt:    col(row, "updated_at").AsTime(),
	}
}

// UpsertContextInput is the caller-supplied shape for UpsertContext. ID is
// required: UpsertContext rejects an empty one, and no caller generates one.
type UpsertContextInput struct {
	ID           string
	ISODate      string
	Summary      string
	Agent        string
	RelatedIssue string
	Decisions    []string
	Observations []string
	RelatedItems []string // component/decision/rule logical ids this entry is CONTEXT_OF
}

// UpsertContext creates or updates one context entry and rewrites its
// CONTEXT_OF edges to exactly the supplied related items.
func (s *Store) UpsertContext(ctx context.Context, repoName, branch string, in UpsertContextInput) (model.Context, error) {
	if in.ID == "" {
		return model.Context{}, invalidArgs("context id is required")
	}
	guid := model.GID(repoName, branch, in.ID)
	pk := model.RepoGID(repoName, branch)

	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		if err := ensureRepository(ctx, tx, repoName, branch); err != nil {
			return err
		}
		now := nowNs()
		rows, err := tx.ExecuteQuery(ctx, `SELECT guid FROM contexts WHERE guid = ?`, []any{guid})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			if err := tx.Exec(ctx,
				`INSERT INTO contexts (guid, repo_pk, iso_date, summary, agent, related_issue, decisions, observations, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				guid, pk, in.ISODate, in.Summary, in.Agent, in.RelatedIssue,
				marshalJSON(in.Decisions), marshalJSON(in.Observations), now, now); err != nil {
				return err
			}
		} else {
			if err := tx.Exec(ctx,
				`UPDATE contexts SET iso_date = ?, summary = ?, agent = ?, related_issue = ?, decisions = ?, observations = ?, updated_at = ?
				 WHERE guid = ?`,
				in.ISODate, in.Summary, in.Agent, in.RelatedIssue,
				marshalJSON(in.Decisions), marshalJSON(in.Observations), now, guid); err != nil {
				return err
			}
		}

		if err := tx.Exec(ctx, `DELETE FROM edges WHERE label = ? AND from_guid = ?`, RelContextOf, guid); err != nil {
			return err
		}
		for _, itemID := range in.RelatedItems {
			itemGUID := model.GID(repoName, branch, itemID)
			if err := upsertEdge(ctx, tx, RelContextOf, guid, itemGUID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Context{}, err
	}
	return s.FindContextByID(ctx, repoName, branch, in.ID)
}

// FindContextByID returns one context entry by logical id.
func (s *Store) FindContextByID(ctx context.Context, repoName, branch, id string) (model.Context, error) {
	guid := model.GID(repoName, branch, id)
	rows, err := s.query(ctx,
		`SELECT guid, iso_date, summary, agent, related_issue, decisions, observations, created_at, updated_at
		 FROM contexts WHERE guid = ?`, guid)
	if err != nil {
		return model.Context{}, err
	}
	if len(rows) == 0 {
		return model.Context{}, notFound("context %q not found in %s@%s", id, repoName, branch)
	}
	return rowToContext(rows[0]), nil
}

// ListContexts returns every context entry for (repo, branch), newest first,
// optionally limited to the most recent limit entries (0 = unlimited).
func (s *Store) ListContexts(ctx context.Context, repoName, branch string, limit int) ([]model.Context, error) {
	pk := model.RepoGID(repoName, branch)
	q := `SELECT guid, iso_date, summary, agent, related_issue, decisions, observations, created_at, updated_at
	      FROM contexts WHERE repo_pk = ? ORDER BY iso_date DESC, created_at DESC`
	args := []any{pk}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Context, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToContext(r))
	}
	return out, nil
}
