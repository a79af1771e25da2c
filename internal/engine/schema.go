package engine

// Schema is the idempotent DDL script run by the DHM's first-touch
// initialization protocol. Every non-root entity is a row in its own
// per-label table; relationships live in one polymorphic edges table keyed
// by (label, from_guid, to_guid) — the relational encoding of the node/edge
// data model, chosen because no embedded *graph* engine ships in this
// corpus (see DESIGN.md).
const Schema = `
CREATE TABLE IF NOT EXISTS repositories (
	pk TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	branch TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
	guid TEXT PRIMARY KEY,
	repo_pk TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contexts (
	guid TEXT PRIMARY KEY,
	repo_pk TEXT NOT NULL,
	iso_date TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	agent TEXT NOT NULL DEFAULT '',
	related_issue TEXT NOT NULL DEFAULT '',
	decisions TEXT NOT NULL DEFAULT '[]',
	observations TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS components (
	guid TEXT PRIMARY KEY,
	repo_pk TEXT NOT NULL,
	logical_id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_components_repo_status ON components(repo_pk, status);
CREATE INDEX IF NOT EXISTS idx_components_repo_logical ON components(repo_pk, logical_id);

CREATE TABLE IF NOT EXISTS decisions (
	guid TEXT PRIMARY KEY,
	repo_pk TEXT NOT NULL,
	logical_id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	context TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
	guid TEXT PRIMARY KEY,
	repo_pk TEXT NOT NULL,
	logical_id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	created TEXT NOT NULL DEFAULT '',
	triggers TEXT NOT NULL DEFAULT '[]',
	content TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	mime_type TEXT NOT NULL DEFAULT '',
	size INTEGER NOT NULL DEFAULT 0,
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

-- Relationship labels: PART_OF, DEPENDS_ON, IMPLEMENTS, GOVERNS, AFFECTS,
-- CONTEXT_OF, TAGGED_WITH.
CREATE TABLE IF NOT EXISTS edges (
	label TEXT NOT NULL,
	from_guid TEXT NOT NULL,
	to_guid TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (label, from_guid, to_guid)
);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(label, from_guid);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(label, to_guid);
`

// RepositoryTableProbe checks whether the schema has already been
// bootstrapped, by querying sqlite's own table catalog.
const RepositoryTableProbe = `SELECT name FROM sqlite_master WHERE type='table' AND name='repositories'`
