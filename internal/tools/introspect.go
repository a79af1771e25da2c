package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// IntrospectInput is the `introspect` tool's argument shape : it
// describes the tool surface and data model itself, for an agent that has
// not read the documentation.
type IntrospectInput struct {
	Topic string `json:"topic,omitempty"` // "tools" | "entities" | "relationships" | "" (all)
}

var toolSummaries = []map[string]any{
	{"name": "memory-bank", "operations": []string{"init", "get-metadata", "update-metadata"}},
	{"name": "entity", "entityTypes": []string{"component", "decision", "rule", "file", "tag"}, "operations": []string{"create", "update", "get", "delete"}},
	{"name": "context", "operations": []string{"update", "get", "list"}},
	{"name": "query", "types": []string{"dependencies", "dependents", "related", "governance", "history", "shortest-path", "active-components", "files-by-component", "components-by-file"}},
	{"name": "associate", "kinds": []string{"tag", "implements", "governs", "affects"}},
	{"name": "analyze", "algorithms": []string{"pagerank", "k-core", "louvain", "scc", "wcc", "shortest-path"}},
	{"name": "detect", "checks": []string{"cycles", "islands", "orphaned-rules"}},
	{"name": "bulk-import", "types": []string{"components", "decisions", "rules"}},
	{"name": "search", "modes": []string{"keyword", "semantic"}},
	{"name": "introspect", "topics": []string{"tools", "entities", "relationships"}},
}

var entitySummaries = []map[string]any{
	{"kind": "Repository", "key": "repo:branch"},
	{"kind": "Metadata", "key": "repo:branch (1:1)"},
	{"kind": "Context", "key": "repo:branch:logicalId"},
	{"kind": "Component", "key": "repo:branch:logicalId"},
	{"kind": "Decision", "key": "repo:branch:logicalId"},
	{"kind": "Rule", "key": "repo:branch:logicalId"},
	{"kind": "File", "key": "logicalId (branch recorded in metadata)"},
	{"kind": "Tag", "key": "generated id (global per project)"},
}

var relationshipSummaries = []map[string]any{
	{"label": "PART_OF", "from": "Component|File", "to": "Repository"},
	{"label": "DEPENDS_ON", "from": "Component", "to": "Component"},
	{"label": "IMPLEMENTS", "from": "Component", "to": "File"},
	{"label": "GOVERNS", "from": "Rule", "to": "Component"},
	{"label": "AFFECTS", "from": "Decision", "to": "Component"},
	{"label": "CONTEXT_OF", "from": "Context", "to": "Component|Decision|Rule"},
	{"label": "TAGGED_WITH", "from": "any", "to": "Tag"},
}

func (d *deps) handleIntrospect(_ context.Context, _ *mcp.CallToolRequest, in IntrospectInput) (*mcp.CallToolResult, any, error) {
	switch lower(in.Topic) {
	case "tools":
		return d.result("introspect", map[string]any{"tools": toolSummaries}, nil)
	case "entities":
		return d.result("introspect", map[string]any{"entities": entitySummaries}, nil)
	case "relationships":
		return d.result("introspect", map[string]any{"relationships": relationshipSummaries}, nil)
	case "":
		return d.result("introspect", map[string]any{
			"tools":         toolSummaries,
			"entities":      entitySummaries,
			"relationships": relationshipSummaries,
		}, nil)
	default:
		return d.result("introspect", map[string]any{"tools": toolSummaries, "entities": entitySummaries, "relationships": relationshipSummaries}, nil)
	}
}
