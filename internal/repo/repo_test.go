package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dhm"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/engine"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory-bank.db")
	eng, err := engine.Open(path)
	if err != nil {
		t.Fatalf("open engine: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	if err := eng.Exec(context.Background(), engine.Schema); err != nil {
		t.Fatalf("run schema: %v", err)
	}
	return New(&dhm.Handle{Engine: eng, Path: path})
}

func TestUpsertComponentCreatesPlaceholderForwardReference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	comp, err := s.UpsertComponent(ctx, "acme", "main", UpsertComponentInput{
		ID:        "api",
		Name:      "API Service",
		Kind:      "service",
		DependsOn: []string{"db"},
	})
	if err != nil {
		t.Fatalf("upsert component: %v", err)
	}
	if len(comp.DependsOn) != 1 || comp.DependsOn[0] != "db" {
		t.Fatalf("DependsOn = %v, want [db]", comp.DependsOn)
	}

	placeholder, err := s.FindComponentByID(ctx, "acme", "main", "db")
	if err != nil {
		t.Fatalf("find placeholder: %v", err)
	}
	if placeholder.Status != model.ComponentPlanned {
		t.Errorf("placeholder status = %q, want %q", placeholder.Status, model.ComponentPlanned)
	}
}

func TestUpsertComponentRewritesDependsOnEdges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustUpsertComponent(t, s, "acme", "main", "b", nil)
	mustUpsertComponent(t, s, "acme", "main", "c", nil)
	mustUpsertComponent(t, s, "acme", "main", "a", []string{"b", "c"})

	a, err := s.FindComponentByID(ctx, "acme", "main", "a")
	if err != nil {
		t.Fatalf("find a: %v", err)
	}
	if len(a.DependsOn) != 2 {
		t.Fatalf("DependsOn = %v, want 2 entries", a.DependsOn)
	}

	mustUpsertComponent(t, s, "acme", "main", "a", []string{"b"})
	a, err = s.FindComponentByID(ctx, "acme", "main", "a")
	if err != nil {
		t.Fatalf("find a again: %v", err)
	}
	if len(a.DependsOn) != 1 || a.DependsOn[0] != "b" {
		t.Fatalf("DependsOn after rewrite = %v, want [b]", a.DependsOn)
	}
}

func mustUpsertComponent(t *testing.T, s *Store, repo, branch, id string, deps []string) {
	t.Helper()
	if _, err := s.UpsertComponent(context.Background(), repo, branch, UpsertComponentInput{ID: id, DependsOn: deps}); err != nil {
		t.Fatalf("upsert component %q: %v", id, err)
	}
}

func TestFindShortestPathAcrossDependencyChain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustUpsertComponent(t, s, "acme", "main", "d", nil)
	mustUpsertComponent(t, s, "acme", "main", "c", []string{"d"})
	mustUpsertComponent(t, s, "acme", "main", "b", []string{"c"})
	mustUpsertComponent(t, s, "acme", "main", "a", []string{"b"})

	path, err := s.FindShortestPath(ctx, "acme", "main", "a", "d", 5)
	if err != nil {
		t.Fatalf("shortest path: %v", err)
	}
	want := []string{"a", "b", "c", "d"}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestFindShortestPathReturnsEmptyNotErrorWhenUnreachable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustUpsertComponent(t, s, "acme", "main", "d", nil)
	mustUpsertComponent(t, s, "acme", "main", "c", []string{"d"})
	mustUpsertComponent(t, s, "acme", "main", "b", []string{"c"})
	mustUpsertComponent(t, s, "acme", "main", "a", []string{"b"})

	path, err := s.FindShortestPath(ctx, "acme", "main", "d", "a", 5)
	if err != nil {
		t.Fatalf("shortest path: %v", err)
	}
	if len(path) != 0 {
		t.Fatalf("path = %v, want empty (no route against the dependency direction)", path)
	}
}

func TestUpdateComponentStatusReturnsNilNotErrorWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.UpdateComponentStatus(ctx, "acme", "main", "missing", model.ComponentDeprecated)
	if err != nil {
		t.Fatalf("UpdateComponentStatus on absent component: %v", err)
	}
	if c != nil {
		t.Fatalf("got %+v, want nil for an absent component", c)
	}
}

func TestUpdateComponentStatusTransitionsWithoutTouchingEdges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustUpsertComponent(t, s, "acme", "main", "b", nil)
	mustUpsertComponent(t, s, "acme", "main", "a", []string{"b"})

	c, err := s.UpdateComponentStatus(ctx, "acme", "main", "a", model.ComponentDeprecated)
	if err != nil {
		t.Fatalf("UpdateComponentStatus: %v", err)
	}
	if c == nil || c.Status != model.ComponentDeprecated {
		t.Fatalf("got %+v, want status=deprecated", c)
	}
	if len(c.DependsOn) != 1 || c.DependsOn[0] != "b" {
		t.Fatalf("DependsOn = %v, want [b] (set-status must not touch edges)", c.DependsOn)
	}
}

func TestGetItemContextualHistoryOrderedByCreatedAtCappedAt100(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustUpsertComponent(t, s, "acme", "main", "c1", nil)
	for i := 0; i < 105; i++ {
		id := "ctx" + string(rune('a'+(i%26))) + string(rune('0'+(i/26)))
		if _, err := s.UpsertContext(ctx, "acme", "main", UpsertContextInput{
			ID:           id,
			ISODate:      "2024-01-01",
			Summary:      "entry",
			RelatedItems: []string{"c1"},
		}); err != nil {
			t.Fatalf("UpsertContext %d: %v", i, err)
		}
	}

	history, err := s.GetItemContextualHistory(ctx, "acme", "main", "c1")
	if err != nil {
		t.Fatalf("GetItemContextualHistory: %v", err)
	}
	if len(history) != 100 {
		t.Fatalf("len(history) = %d, want 100 (capped)", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i-1].CreatedAt.Before(history[i].CreatedAt) {
			t.Fatalf("history not ordered by created_at desc at index %d", i)
		}
	}
}

func TestDeleteSingleRequiresConfirmation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUpsertComponent(t, s, "acme", "main", "a", nil)

	if _, err := s.DeleteSingle(ctx, "acme", "main", "component", "a", false, false); err == nil {
		t.Fatal("expected confirmation-required error without confirm=true")
	}

	result, err := s.DeleteSingle(ctx, "acme", "main", "component", "a", false, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !result.DryRun {
		t.Error("expected DryRun = true")
	}
	if _, err := s.FindComponentByID(ctx, "acme", "main", "a"); err != nil {
		t.Fatalf("dry run should not have deleted anything: %v", err)
	}

	if _, err := s.DeleteSingle(ctx, "acme", "main", "component", "a", true, false); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if _, err := s.FindComponentByID(ctx, "acme", "main", "a"); err == nil {
		t.Fatal("component should be gone after confirmed delete")
	}
}

func TestUpsertMetadataRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertMetadata(ctx, "acme", "main", "project-meta", map[string]any{"owner": "platform-team"})
	if err != nil {
		t.Fatalf("upsert metadata: %v", err)
	}
	got, err := s.GetMetadata(ctx, "acme", "main")
	if err != nil {
		t.Fatalf("get metadata: %v", err)
	}
	if got.Content["owner"] != "platform-team" {
		t.Errorf("content[owner] = %v, want platform-team", got.Content["owner"])
	}
}
