package repo

import (
	"context"
	"fmt"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

// DeleteResult reports what a delete operation did or, for a dry run, would do.
type DeleteResult struct {
	DryRun       bool
	GUIDs        []string
	EdgesRemoved int
}

// DeleteSingle removes one entity by its logical id within (repo, branch).
// confirm must be true or CONFIRMATION_REQUIRED is returned; dryRun reports
// what would be deleted without mutating anything.
func (s *Store) DeleteSingle(ctx context.Context, repoName, branch, kind, id string, confirm, dryRun bool) (DeleteResult, error) {
	table, ok := kindTable(kind)
	if !ok {
		return DeleteResult{}, invalidArgs("unknown entity kind %q", kind)
	}
	guid := model.GID(repoName, branch, id)
	return s.deleteByGUIDs(ctx, table, []string{guid}, confirm, dryRun)
}

// DeleteBulkByType removes every entity of kind within (repo, branch).
func (s *Store) DeleteBulkByType(ctx context.Context, repoName, branch, kind string, confirm, dryRun bool) (DeleteResult, error) {
	table, ok := kindTable(kind)
	if !ok {
		return DeleteResult{}, invalidArgs("unknown entity kind %q", kind)
	}
	pk := model.RepoGID(repoName, branch)
	guids, err := s.guidsWhere(ctx, table, "repo_pk = ?", pk)
	if err != nil {
		return DeleteResult{}, err
	}
	return s.deleteByGUIDs(ctx, table, guids, confirm, dryRun)
}

// DeleteBulkByBranch removes every component/decision/rule/context entity
// scoped to (repo, branch) across all kinds.
func (s *Store) DeleteBulkByBranch(ctx context.Context, repoName, branch string, confirm, dryRun bool) (DeleteResult, error) {
	pk := model.RepoGID(repoName, branch)
	var all []string
	for _, table := range []string{"components", "decisions", "rules", "contexts", "metadata"} {
		guids, err := s.guidsWhere(ctx, table, "repo_pk = ?", pk)
		if err != nil {
			return DeleteResult{}, err
		}
		all = append(all, guids...)
	}
	return s.deleteAcrossTables(ctx, all, confirm, dryRun, pk, true)
}

// DeleteBulkByRepository removes every entity across every branch of repoName.
func (s *Store) DeleteBulkByRepository(ctx context.Context, repoName string, confirm, dryRun bool) (DeleteResult, error) {
	var all []string
	for _, table := range []string{"components", "decisions", "rules", "contexts", "metadata"} {
		guids, err := s.guidsWhere(ctx, table, "repo_pk LIKE ?", repoName+":%")
		if err != nil {
			return DeleteResult{}, err
		}
		all = append(all, guids...)
	}
	return s.deleteAcrossTables(ctx, all, confirm, dryRun, "", false)
}

// DeleteBulkByTag removes every entity tagged with tagID, across all kinds.
func (s *Store) DeleteBulkByTag(ctx context.Context, tagID string, confirm, dryRun bool) (DeleteResult, error) {
	guids, err := s.FindItemsByTag(ctx, tagID)
	if err != nil {
		return DeleteResult{}, err
	}
	return s.deleteAcrossTables(ctx, guids, confirm, dryRun, "", false)
}

func kindTable(kind string) (string, bool) {
	switch kind {
	case "component":
		return "components", true
	case "decision":
		return "decisions", true
	case "rule":
		return "rules", true
	case "context":
		return "contexts", true
	case "file":
		return "files", true
	default:
		return "", false
	}
}

func (s *Store) guidsWhere(ctx context.Context, table, where string, args ...any) ([]string, error) {
	guidCol := "guid"
	if table == "files" {
		guidCol = "id"
	}
	rows, err := s.query(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, guidCol, table, where), args...)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, col(r, guidCol).AsString())
	}
	return out, nil
}

// deleteByGUIDs is the single-table delete path used by DeleteSingle and
// DeleteBulkByType.
func (s *Store) deleteByGUIDs(ctx context.Context, table string, guids []string, confirm, dryRun bool) (DeleteResult, error) {
	if len(guids) == 0 {
		return DeleteResult{}, notFound("nothing matched in %s", table)
	}
	if dryRun {
		return DeleteResult{DryRun: true, GUIDs: guids}, nil
	}
	if !confirm {
		return DeleteResult{}, confirmationRequired("delete of %d row(s) from %s requires confirm=true", len(guids), table)
	}

	guidCol := "guid"
	if table == "files" {
		guidCol = "id"
	}
	var edgesRemoved int
	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		for _, g := range guids {
			if err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, guidCol), g); err != nil {
				return err
			}
			n, err := removeDanglingEdges(ctx, tx, g)
			if err != nil {
				return err
			}
			edgesRemoved += n
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{GUIDs: guids, EdgesRemoved: edgesRemoved}, nil
}

// deleteAcrossTables deletes a mixed-kind set of guids, resolving each to
// its owning table before issuing the delete. rootPK, when dropRoot is
// true, also removes the repositories row itself (used by the branch-scoped
// delete, which fully retires one (repo, branch) scope).
func (s *Store) deleteAcrossTables(ctx context.Context, guids []string, confirm, dryRun bool, rootPK string, dropRoot bool) (DeleteResult, error) {
	if len(guids) == 0 && !dropRoot {
		return DeleteResult{}, notFound("nothing matched")
	}
	if dryRun {
		return DeleteResult{DryRun: true, GUIDs: guids}, nil
	}
	if !confirm {
		return DeleteResult{}, confirmationRequired("delete of %d row(s) requires confirm=true", len(guids))
	}

	var edgesRemoved int
	err := s.tx(ctx, func(ctx context.Context, tx *engine.Tx) error {
		for _, table := range []string{"components", "decisions", "rules", "contexts", "metadata", "files"} {
			guidCol := "guid"
			if table == "files" {
				guidCol = "id"
			}
			for _, g := range guids {
				if err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, guidCol), g); err != nil {
					return err
				}
			}
		}
		for _, g := range guids {
			n, err := removeDanglingEdges(ctx, tx, g)
			if err != nil {
				return err
			}
			edgesRemoved += n
		}
		if dropRoot && rootPK != "" {
			if err := tx.Exec(ctx, `DELETE FROM repositories WHERE pk = ?`, rootPK); err != nil {
				return err
			}
			n, err := removeDanglingEdges(ctx, tx, rootPK)
			if err != nil {
				return err
			}
			edgesRemoved += n
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{GUIDs: guids, EdgesRemoved: edgesRemoved}, nil
}

// removeDanglingEdges deletes every edge row referencing guid as either
// endpoint, reporting how many it removed.
func removeDanglingEdges(ctx context.Context, tx *engine.Tx, guid string) (int, error) {
	rows, err := tx.ExecuteQuery(ctx, `SELECT COUNT(*) AS n FROM edges WHERE from_guid = ? OR to_guid = ?`, []any{guid, guid})
	if err != nil {
		return 0, err
	}
	count := int(col(rows[0], "n").AsInt64())
	if err := tx.Exec(ctx, `DELETE FROM edges WHERE from_guid = ? OR to_guid = ?`, guid, guid); err != nil {
		return 0, err
	}
	return count, nil
}
