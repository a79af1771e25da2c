// Package repo is the Repository Layer (RL): it translates the Memory
// Service's domain operations into queries against one project's embedded
// engine handle, and converts rows back into internal/model types.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dhm"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

// Relationship labels fixed by the data model. Declared here rather than
// accepted as free-form strings so callers can't smuggle an arbitrary
// label into the edges table.
const (
	RelPartOf      = "PART_OF"
	RelDependsOn   = "DEPENDS_ON"
	RelImplements  = "IMPLEMENTS"
	RelGoverns     = "GOVERNS"
	RelAffects     = "AFFECTS"
	RelContextOf   = "CONTEXT_OF"
	RelTaggedWith  = "TAGGED_WITH"
)

// Store is bound to one project's handle and exposes the domain operations
// the Memory Service dispatches to.
type Store struct {
	h *dhm.Handle
}

// New constructs a Store over an already-acquired handle.
func New(h *dhm.Handle) *Store {
	return &Store{h: h}
}

func (s *Store) query(ctx context.Context, q string, params ...any) ([]engine.Row, error) {
	rows, err := s.h.Engine.ExecuteQuery(ctx, q, params, 30*time.Second)
	if err != nil {
		return nil, internalError(err, "query failed")
	}
	return rows, nil
}

func (s *Store) tx(ctx context.Context, fn func(ctx context.Context, tx *engine.Tx) error) error {
	if err := s.h.Engine.Transaction(ctx, fn); err != nil {
		return internalError(err, "transaction failed")
	}
	return nil
}

func nowNs() int64 { return time.Now().UTC().UnixNano() }

func marshalJSON(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func unmarshalStringSlice(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func unmarshalMap(s string) map[string]any {
	if s == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func col(row engine.Row, name string) engine.Value { return row[name] }

func ensureRepository(ctx context.Context, tx *engine.Tx, repoName, branch string) error {
	pk := model.RepoGID(repoName, branch)
	rows, err := tx.ExecuteQuery(ctx, `SELECT pk FROM repositories WHERE pk = ?`, []any{pk})
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}
	now := nowNs()
	return tx.Exec(ctx,
		`INSERT OR IGNORE INTO repositories (pk, name, branch, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		pk, repoName, branch, now, now)
}

func repositoryExists(ctx context.Context, tx *engine.Tx, repoName, branch string) (bool, error) {
	pk := model.RepoGID(repoName, branch)
	rows, err := tx.ExecuteQuery(ctx, `SELECT pk FROM repositories WHERE pk = ?`, []any{pk})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func upsertEdge(ctx context.Context, tx *engine.Tx, label, from, to string) error {
	return tx.Exec(ctx,
		`INSERT OR IGNORE INTO edges (label, from_guid, to_guid, created_at) VALUES (?, ?, ?, ?)`,
		label, from, to, nowNs())
}
