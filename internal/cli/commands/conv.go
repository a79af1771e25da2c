package commands

import "github.com/kuzumem-mcp/kuzumem-mcp/internal/model"

// These mirror internal/tools' *ToMap helpers; kept separate since the CLI
// and the MCP tool layer are independent callers of internal/repo and
// shouldn't share package-private helpers across package boundaries.

func componentToMap(c model.Component) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"kind":       c.Kind,
		"status":     string(c.Status),
		"depends_on": c.DependsOn,
	}
}

func decisionToMap(d model.Decision) map[string]any {
	return map[string]any{
		"id":      d.ID,
		"name":    d.Name,
		"context": d.Context,
		"date":    d.Date,
	}
}

func ruleToMap(r model.Rule) map[string]any {
	return map[string]any{
		"id":       r.ID,
		"name":     r.Name,
		"created":  r.Created,
		"triggers": r.Triggers,
		"content":  r.Content,
		"status":   r.Status,
	}
}

func contextToMap(c model.Context) map[string]any {
	return map[string]any{
		"id":            c.GUID,
		"iso_date":      c.ISODate,
		"summary":       c.Summary,
		"agent":         c.Agent,
		"related_issue": c.RelatedIssue,
		"decisions":     c.Decisions,
		"observations":  c.Observations,
	}
}
