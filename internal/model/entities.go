package model

import "time"

// ComponentStatus enumerates the lifecycle states a Component can be in.
type ComponentStatus string

const (
	ComponentActive     ComponentStatus = "active"
	ComponentDeprecated ComponentStatus = "deprecated"
	ComponentPlanned    ComponentStatus = "planned"
)

// Repository is the root scoping node for one (repository, branch) pair.
// Its primary key is "repo:branch" — it has no logical id of its own.
type Repository struct {
	Name      string    `json:"name"`
	Branch    string    `json:"branch"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PK returns the Repository's primary key, "repo:branch".
func (r Repository) PK() string { return RepoGID(r.Name, r.Branch) }

// Metadata is the single free-form record attached to one (repo, branch).
type Metadata struct {
	GUID      string         `json:"id"`
	Name      string         `json:"name"`
	Content   map[string]any `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Context is a per-session/day journal entry scoped to (repo, branch).
type Context struct {
	GUID         string    `json:"id"`
	ISODate      string    `json:"iso_date"`
	Summary      string    `json:"summary"`
	Agent        string    `json:"agent"`
	RelatedIssue string    `json:"related_issue,omitempty"`
	Decisions    []string  `json:"decisions"`
	Observations []string  `json:"observations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Component is a unit of software structure tracked in the graph.
type Component struct {
	GUID       string          `json:"-"`
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Status     ComponentStatus  `json:"status"`
	DependsOn  []string         `json:"depends_on"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Decision records an architectural decision affecting one or more components.
type Decision struct {
	GUID      string    `json:"-"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Context   string    `json:"context"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rule is a governance rule that may apply to (GOVERNS) one or more components.
type Rule struct {
	GUID      string    `json:"-"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Created   string    `json:"created"`
	Triggers  []string  `json:"triggers"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileMetadata is the structured blob carried by a File node's metadata
// column; it is the only place the branch segment is recorded for a File
// (invariant I6), since File's primary key is its logical id alone.
type FileMetadata struct {
	Branch  string         `json:"branch"`
	Content string         `json:"content,omitempty"`
	Metrics map[string]any `json:"metrics,omitempty"`
}

// File is keyed by logical id alone (no repo/branch prefix) — its scoping to
// a branch lives inside Metadata.Branch, extracted at query time.
type File struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	MimeType  string       `json:"mime_type"`
	Size      int64        `json:"size"`
	Metadata  FileMetadata `json:"metadata"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Tag is global within one project database (not scoped to a repo/branch).
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
