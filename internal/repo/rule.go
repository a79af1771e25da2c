package repo

import (
	"context"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/sanitize"
)

func rowToRule(row engine.Row) model.Rule {
	return model.Rule{
		GUID:      col(row, "guid").AsString(),
		ID:        col(row, "logical_id").AsString(),
		Name:      col(row, "name").AsString(),
		Created:   col(row, "created").AsString(),
		Triggers:  unmarshalStringSlice(col(row, "triggers").AsString()),
		Content:   col(row, "content").AsString(),
		Status:    col(row, "status").AsString(),
		CreatedAt: col(row, "created_at").AsTime(),
		UpdatedAt: col(row, "updated_at").AsTime(),
	}
}

// UpsertRuleInput is the caller-supplied shape for UpsertRule.
// GovernedComponents names the components this rule GOVERNS.
type UpsertRuleInput struct {
	ID                 string
	Name               string
	Created            string
	Triggers           []string
	Content            string
	Status             string
	GovernedComponents []string
}

// UpsertRule creates or updates a rule and rewrites its GOVERNS edges to
// exactly the supplied component ids.
func (s *Store) UpsertRule(ctx context.Context, repoName, branch string, in UpsertRuleInput) (model.Rule, error) {
	if !sanitize.Identifier(in.ID) {
		return model.Rule{}, invalidArgs("rule id %q is not a valid identifier", in.ID)
	}
	guid := model.GID(repoName, branch, in.ID)
	pk := model.RepoGID(repoName, branch)

	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		if err := ensureRepository(ctx, tx, repoName, branch); err != nil {
			return err
		}
		now := nowNs()
		rows, err := tx.ExecuteQuery(ctx, `SELECT guid FROM rules WHERE guid = ?`, []any{guid})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			if err := tx.Exec(ctx,
				`INSERT INTO rules (guid, repo_pk, logical_id, name, created, triggers, content, status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				guid, pk, in.ID, in.Name, in.Created, marshalJSON(in.Triggers), in.Content, in.Status, now, now); err != nil {
				return err
			}
		} else {
			if err := tx.Exec(ctx,
				`UPDATE rules SET name = ?, created = ?, triggers = ?, content = ?, status = ?, updated_at = ? WHERE guid = ?`,
				in.Name, in.Created, marshalJSON(in.Triggers), in.Content, in.Status, now, guid); err != nil {
				return err
			}
		}

		if err := tx.Exec(ctx, `DELETE FROM edges WHERE label = ? AND from_guid = ?`, RelGoverns, guid); err != nil {
			return err
		}
		for _, compID := range in.GovernedComponents {
			compGUID := model.GID(repoName, branch, compID)
			if err := upsertEdge(ctx, tx, RelGoverns, guid, compGUID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Rule{}, err
	}
	return s.FindRuleByID(ctx, repoName, branch, in.ID)
}

// FindRuleByID returns one rule by logical id.
func (s *Store) FindRuleByID(ctx context.Context, repoName, branch, id string) (model.Rule, error) {
	guid := model.GID(repoName, branch, id)
	rows, err := s.query(ctx,
		`SELECT guid, logical_id, name, created, triggers, content, status, created_at, updated_at
		 FROM rules WHERE guid = ?`, guid)
	if err != nil {
		return model.Rule{}, err
	}
	if len(rows) == 0 {
		return model.Rule{}, notFound("rule %q not found in %s@%s", id, repoName, branch)
	}
	return rowToRule(rows[0]), nil
}

// ListRules returns every rule for (repo, branch).
func (s *Store) ListRules(ctx context.Context, repoName, branch string) ([]model.Rule, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := s.query(ctx,
		`SELECT guid, logical_id, name, created, triggers, content, status, created_at, updated_at
		 FROM rules WHERE repo_pk = ? ORDER BY created DESC`, pk)
	if err != nil {
		return nil, err
	}
	out := make([]model.Rule, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToRule(r))
	}
	return out, nil
}
