package tools

import (
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dispatch"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/memsvc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Register wires the ten fixed tools onto server, each dispatching through
// svc. defaultRoot seeds resolveRoot when neither the call, the session nor
// the (repository, branch) registry supplies a clientProjectRoot. session is this connection's own SDC state
// (§4.4): every handler closes over it directly rather than looking it up
// by id on each call. log (nil tolerated) backs the per-call error/progress
// logging §4.4 describes; callers pass the same *zap.Logger the transport
// layer uses.
func Register(server *mcp.Server, svc *memsvc.Service, defaultRoot string, session *dispatch.Session, log *zap.Logger) {
	d := &deps{svc: svc, defaultRoot: defaultRoot, session: session, log: log}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "memory-bank",
		Description: "Initialize a project's memory bank, or read/update its free-form metadata. operation: init | get-metadata | update-metadata.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Memory Bank",
			IdempotentHint: true,
			OpenWorldHint:  boolPtr(false),
		},
	}, d.handleMemoryBank)

	mcp.AddTool(server, &mcp.Tool{
		Name: "entity",
		Description: `Create, update, fetch, or delete one entity. entityType: component | decision | rule | file | tag. operation: create | update | get | delete (component also accepts set-status, which only changes status and leaves depends_on edges untouched).
Pass fields through data (e.g. data.name, data.depends_on for components, data.status for set-status). Delete modes via data.mode: single (default) | bulk-by-type | bulk-by-tag (needs data.tagId) | bulk-by-branch | bulk-by-repository. All but dryRun=true require data.confirm=true.`,
		Annotations: &mcp.ToolAnnotations{
			Title:         "Entity",
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleEntity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "context",
		Description: "Record or read daily working-context journal entries. operation: update | get | list.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Context",
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleContext)

	mcp.AddTool(server, &mcp.Tool{
		Name: "query",
		Description: `Read-only questions over the dependency graph. type: dependencies | dependents | related | governance | history | shortest-path | active-components | files-by-component | components-by-file.`,
		Annotations: &mcp.ToolAnnotations{
			Title:         "Query",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleQuery)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "associate",
		Description: "Attach a tag to an item, or create an IMPLEMENTS/GOVERNS/AFFECTS edge between two existing items. kind: tag | implements | governs | affects.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Associate",
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleAssociate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze",
		Description: "Run a graph algorithm over one (repository, branch) dependency graph. algorithm: pagerank | k-core | louvain | scc | wcc | shortest-path.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Analyze",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleAnalyze)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect",
		Description: "Run a named structural heuristic. check: cycles | islands | orphaned-rules.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Detect",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleDetect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bulk-import",
		Description: "Import many components, decisions, or rules in one call. type: components | decisions | rules. Returns counts of imported/skipped/failed plus per-item errors.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Bulk Import",
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleBulkImport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Search components, decisions, rules, and context entries. mode: keyword (token-overlap scoring) | semantic (not implemented, returns empty).",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		},
	}, d.handleSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "introspect",
		Description: "Describe the tool surface, entity kinds, and relationship labels. topic: tools | entities | relationships | (empty for all).",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Introspect",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  boolPtr(false),
		},
	}, d.handleIntrospect)
}
