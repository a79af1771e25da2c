// Package tools implements the ten fixed MCP tools this server exposes,
// dispatching through internal/memsvc to a project's Repository-Layer
// Store and wrapping results via internal/dispatch.TextResult / ErrorResult.
package tools

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/dispatch"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/memsvc"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/model"
	"github.com/kuzumem-mcp/kuzumem-mcp/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// deps is the shared handler dependency bundle every tool closes over. One
// deps (and the *mcp.Server it registers tools onto) is built per MCP
// connection, so session is that connection's own state — no lookup by
// session id is needed to find it. log is optional (nil under tests that
// build a deps directly) and feeds the per-call {tool, requestId,
// sessionId} logging §4.4 step 3 requires.
type deps struct {
	svc         *memsvc.Service
	defaultRoot string
	session     *dispatch.Session
	log         *zap.Logger
}

// resolveRoot returns the clientProjectRoot a call should use: the explicit
// argument if present (also binding it to this connection's session and to
// the process-wide (repository, branch) registry so a later call, on this
// or another connection, that omits it can still find it), else the
// session's own stored root, else the (repository, branch) registry, else
// the process-wide default from CLIENT_PROJECT_ROOT.
func (d *deps) resolveRoot(ctx context.Context, arg, repository, branch string) string {
	d.session.Touch()
	if arg != "" {
		d.session.ClientProjectRoot = arg
		dispatch.PutRoot(repository, branch, arg)
		return arg
	}
	if d.session.ClientProjectRoot != "" {
		return d.session.ClientProjectRoot
	}
	if root, ok := dispatch.LookupRoot(repository, branch); ok {
		return root
	}
	return d.defaultRoot
}

// resolveScope fills in an absent repository/branch from this connection's
// session defaults (§4.4: "subsequent tool calls inherit these fields"),
// and remembers an explicit pair as the new default for later calls on the
// same session that omit it — the same inherit-then-remember shape
// resolveRoot already uses for clientProjectRoot.
func (d *deps) resolveScope(repository, branch string) (string, string) {
	if repository != "" {
		d.session.DefaultRepo = repository
	} else {
		repository = d.session.DefaultRepo
	}
	if branch != "" {
		d.session.DefaultBranch = branch
	} else {
		branch = d.session.DefaultBranch
	}
	return repository, branch
}

func (d *deps) store(ctx context.Context, clientProjectRoot string) (*repo.Store, error) {
	if clientProjectRoot == "" {
		return nil, &repo.Error{Code: repo.CodePreconditionRequired, Msg: "clientProjectRoot is required and no default is configured"}
	}
	return d.svc.Resolve(ctx, clientProjectRoot)
}

func boolPtr(b bool) *bool { return &b }

// handleDelete dispatches an entity's "delete" operation across the modes
// the repo layer supports: single (the default, one entity by kind+id),
// bulk-by-type, bulk-by-tag, bulk-by-branch, and bulk-by-repository. mode
// comes from data.mode; bulk-by-tag additionally requires data.tagId.
func (d *deps) handleDelete(ctx context.Context, store *repo.Store, kind string, in EntityInput) (*mcp.CallToolResult, any, error) {
	confirm, _ := in.Data["confirm"].(bool)
	dryRun, _ := in.Data["dryRun"].(bool)
	mode, _ := in.Data["mode"].(string)

	switch lower(mode) {
	case "", "single":
		res, err := store.DeleteSingle(ctx, in.Repository, in.Branch, kind, in.ID, confirm, dryRun)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", deleteResultMap(res), nil)

	case "bulk-by-type":
		res, err := store.DeleteBulkByType(ctx, in.Repository, in.Branch, kind, confirm, dryRun)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", deleteResultMap(res), nil)

	case "bulk-by-tag":
		tagID, _ := in.Data["tagId"].(string)
		if tagID == "" {
			return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "data.tagId is required for mode bulk-by-tag"})
		}
		res, err := store.DeleteBulkByTag(ctx, tagID, confirm, dryRun)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", deleteResultMap(res), nil)

	case "bulk-by-branch":
		res, err := store.DeleteBulkByBranch(ctx, in.Repository, in.Branch, confirm, dryRun)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", deleteResultMap(res), nil)

	case "bulk-by-repository":
		res, err := store.DeleteBulkByRepository(ctx, in.Repository, confirm, dryRun)
		if err != nil {
			return d.result("entity", nil, err)
		}
		return d.result("entity", deleteResultMap(res), nil)

	default:
		return d.result("entity", nil, &repo.Error{Code: repo.CodeInvalidArgs, Msg: "unknown delete mode: " + mode})
	}
}

func componentToMap(c model.Component) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"kind":       c.Kind,
		"status":     string(c.Status),
		"depends_on": orEmptySlice(c.DependsOn),
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

func decisionToMap(d model.Decision) map[string]any {
	return map[string]any{
		"id":         d.ID,
		"name":       d.Name,
		"context":    d.Context,
		"date":       d.Date,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
}

func ruleToMap(r model.Rule) map[string]any {
	return map[string]any{
		"id":         r.ID,
		"name":       r.Name,
		"created":    r.Created,
		"triggers":   orEmptySlice(r.Triggers),
		"content":    r.Content,
		"status":     r.Status,
		"created_at": r.CreatedAt,
		"updated_at": r.UpdatedAt,
	}
}

func fileToMap(f model.File) map[string]any {
	return map[string]any{
		"id":         f.ID,
		"name":       f.Name,
		"path":       f.Path,
		"mime_type":  f.MimeType,
		"size":       f.Size,
		"branch":     f.Metadata.Branch,
		"created_at": f.CreatedAt,
		"updated_at": f.UpdatedAt,
	}
}

func tagToMap(t model.Tag) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"name":        t.Name,
		"category":    t.Category,
		"description": t.Description,
		"color":       t.Color,
	}
}

func contextToMap(c model.Context) map[string]any {
	return map[string]any{
		"id":            c.GUID,
		"iso_date":      c.ISODate,
		"summary":       c.Summary,
		"agent":         c.Agent,
		"related_issue": c.RelatedIssue,
		"decisions":     orEmptySlice(c.Decisions),
		"observations":  orEmptySlice(c.Observations),
	}
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// result is a shorthand the handlers use to produce a *mcp.CallToolResult
// from a data value, converting a non-nil error into the error envelope
// instead of failing the tool call at the protocol level. tool names the
// calling MCP tool (e.g. "entity"), used for the error envelope's log
// correlation fields (§4.4 step 3, §7).
func (d *deps) result(tool string, data any, err error) (*mcp.CallToolResult, any, error) {
	requestID := uuid.NewString()
	if err != nil {
		return dispatch.ErrorResult(err, d.log, tool, requestID, d.session.ID), nil, nil
	}
	r, marshalErr := dispatch.TextResult(data)
	if marshalErr != nil {
		return dispatch.ErrorResult(marshalErr, d.log, tool, requestID, d.session.ID), nil, nil
	}
	return r, nil, nil
}

// ProgressFunc reports a long-running tool call's progress to the client
// per §4.4 "Progress reporting": status is a short machine-checkable label
// ("running", "complete"), percent is 0-100, and isFinal marks the
// terminal event a handler must emit on success (status=complete,
// percent=100, isFinal=true).
type ProgressFunc func(status, message string, percent int, isFinal bool)

// progressReporter builds a ProgressFunc bound to this call's MCP session
// and progress token, the same session.NotifyProgress/GetProgressToken
// pattern the teacher's plan-watching handler uses. Every event is also
// logged at Info level, so progress stays observable under stdio (where
// there's no client-visible notification stream to multiplex onto) the
// same way §4.4 describes for HTTP/SSE.
func (d *deps) progressReporter(ctx context.Context, req *mcp.CallToolRequest, tool string) ProgressFunc {
	var token any
	var session *mcp.ServerSession
	if req != nil {
		token = req.Params.GetProgressToken()
		session = req.Session
	}
	return func(status, message string, percent int, isFinal bool) {
		if d.log != nil {
			d.log.Info("tool progress",
				zap.String("tool", tool),
				zap.String("sessionId", d.session.ID),
				zap.String("status", status),
				zap.String("message", message),
				zap.Int("percent", percent),
				zap.Bool("isFinal", isFinal))
		}
		if token == nil || session == nil {
			return
		}
		_ = session.NotifyProgress(ctx, &mcp.ProgressNotificationParams{
			ProgressToken: token,
			Progress:      float64(percent),
			Total:         100,
			Message:       message,
		})
	}
}
